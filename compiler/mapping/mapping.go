// Package mapping decides the Go identity of every schema element: type names,
// packages, field types, struct tags and API signatures.
package mapping

import (
	"go/token"
	"path"
	"strings"

	"github.com/99designs/gqlgen/codegen/templates"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/gqlcodegen"
	"github.com/syssam/gqlcodegen/compiler/resolve"
	"github.com/syssam/gqlcodegen/config"
	"github.com/syssam/gqlcodegen/schema"
)

// scalars maps the built-in scalars to Go types.
var scalars = map[string]string{
	"ID":      "string",
	"String":  "string",
	"Int":     "int",
	"Float":   "float64",
	"Boolean": "bool",
}

// fallbackScalar is the Go type of custom scalars without a mapping.
const fallbackScalar = "string"

// Map applies cfg to a resolved document.
func Map(res *resolve.Result, cfg *config.Config) (*Schema, error) {
	m := &mapper{
		res:   res,
		cfg:   cfg,
		title: cases.Title(language.Und),
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	m.packages()
	if err := m.types(); err != nil {
		return nil, err
	}
	return m.out, nil
}

type mapper struct {
	res   *resolve.Result
	cfg   *config.Config
	out   *Schema
	title cases.Caser
	// byName indexes emitted and root types by schema name.
	byName map[string]*ResolvedType
}

func (m *mapper) validate() error {
	for option, v := range map[string]string{
		"modelNamePrefix": m.cfg.ModelNamePrefix,
		"modelNameSuffix": m.cfg.ModelNameSuffix,
	} {
		if v != "" && !token.IsIdentifier("X"+v) {
			return gqlcodegen.NewConfigError(option, v, "must only contain letters, digits and underscores")
		}
	}
	return nil
}

func (m *mapper) packages() {
	root := newPackage(m.cfg.PackageName, "")
	sub := func(importPath, dir string) *Package {
		if dir == "" {
			return root
		}
		return newPackage(importPath, dir)
	}
	m.out = &Schema{
		Config: m.cfg,
		Root:   root,
		Model:  sub(m.cfg.ModelPath(), m.cfg.ModelPackage),
		API:    sub(m.cfg.APIPath(), m.cfg.APIPackage),
	}
	if m.cfg.ResolverPackage != "" {
		m.out.Resolver = sub(m.cfg.ResolverPath(), m.cfg.ResolverPackage)
	}
}

func newPackage(importPath, dir string) *Package {
	return &Package{Path: importPath, Name: PackageName(importPath), Dir: dir}
}

// ModelName returns the Go name of a model type: prefix + name + suffix.
func ModelName(cfg *config.Config, name string) string {
	return cfg.ModelNamePrefix + name + cfg.ModelNameSuffix
}

func (m *mapper) types() error {
	doc := m.res.Document
	m.byName = make(map[string]*ResolvedType, len(doc.Definitions))
	// Identities first, so fields can reference types declared later.
	for _, def := range doc.Definitions {
		switch op, isRoot := doc.OperationOf(def.Name); {
		case isRoot:
			rt := &ResolvedType{Def: def, Kind: def.Kind, Name: def.Name, Package: m.out.API, Role: RoleAPI, Operation: op}
			m.byName[def.Name] = rt
		case def.Kind == schema.Scalar:
		case m.mapped(def.Name):
		default:
			rt := &ResolvedType{Def: def, Kind: def.Kind, Name: ModelName(m.cfg, def.Name), Package: m.out.Model, Role: RoleModel}
			rt.Deprecated, _ = schema.Deprecation(def.Directives)
			m.byName[def.Name] = rt
			m.out.Models = append(m.out.Models, rt)
		}
	}
	for _, def := range doc.Definitions {
		rt, ok := m.byName[def.Name]
		if !ok {
			continue
		}
		if err := m.fill(rt); err != nil {
			return err
		}
	}
	if err := m.packageNames(); err != nil {
		return err
	}
	m.abstracts()
	for _, op := range schema.Operations {
		if rt, ok := m.byName[doc.RootOf(op)]; ok && rt.Role == RoleAPI {
			m.out.Roots = append(m.out.Roots, rt)
			if m.cfg.GenerateAPIs {
				m.out.APIs = append(m.out.APIs, rt)
			}
		}
	}
	return nil
}

// mapped reports whether a type is replaced by a custom Go type; such types
// are not emitted.
func (m *mapper) mapped(name string) bool {
	_, ok := m.cfg.CustomTypes[name]
	return ok
}

func (m *mapper) fill(rt *ResolvedType) error {
	def := rt.Def
	switch def.Kind {
	case schema.Enum:
		names := newGoNames(def.Name)
		for _, v := range def.EnumValues {
			ev := &EnumValue{Def: v, Name: v.Name, GoName: rt.Name + m.enumSuffix(v.Name)}
			if err := names.claim(ev.GoName, v.Name); err != nil {
				return err
			}
			ev.Deprecated, ev.IsDeprecated = schema.Deprecation(v.Directives)
			rt.Values = append(rt.Values, ev)
		}
		return nil
	case schema.Union:
		return nil
	}
	names := newGoNames(def.Name)
	for _, f := range def.Fields {
		rf, err := m.field(rt, f)
		if err != nil {
			return err
		}
		if err := names.claim(rf.GoName, f.Name); err != nil {
			return err
		}
		rt.Fields = append(rt.Fields, rf)
	}
	return nil
}

// packageNames checks the package-level identifiers of the model package:
// type names, enum constants and their All lists. Root API types join them
// when they share the package.
func (m *mapper) packageNames() error {
	names := newGoNames(m.out.Model.Path)
	if m.cfg.GenerateAPIs && m.out.API.Path == m.out.Model.Path {
		for _, def := range m.res.Document.Definitions {
			if rt, ok := m.byName[def.Name]; ok && rt.Role == RoleAPI {
				if err := names.claim(rt.Name, def.Name); err != nil {
					return err
				}
			}
		}
	}
	for _, rt := range m.out.Models {
		if err := names.claim(rt.Name, rt.Def.Name); err != nil {
			return err
		}
	}
	for _, rt := range m.out.Models {
		if rt.Kind != schema.Enum {
			continue
		}
		if err := names.claim("All"+rt.Name, rt.Def.Name); err != nil {
			return err
		}
		for _, ev := range rt.Values {
			if err := names.claim(ev.GoName, rt.Def.Name+"."+ev.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// enumSuffix turns ROAD_BIKE into RoadBike.
func (m *mapper) enumSuffix(value string) string {
	var b strings.Builder
	for _, part := range strings.Split(value, "_") {
		if part == "" {
			continue
		}
		b.WriteString(m.title.String(strings.ToLower(part)))
	}
	if b.Len() == 0 {
		return "Value"
	}
	return b.String()
}

func (m *mapper) field(rt *ResolvedType, f *schema.Field) (*ResolvedField, error) {
	rf := &ResolvedField{
		Def:      f,
		Name:     f.Name,
		GoName:   templates.ToGo(f.Name),
		JSONName: f.Name,
	}
	rf.Deprecated, rf.IsDeprecated = schema.Deprecation(f.Directives)
	var err error
	if rf.Type, err = m.fieldType(rt, f); err != nil {
		return nil, err
	}
	if rt.Operation == schema.OperationSubscription {
		if rf.Type.Wrapper, err = m.wrapper(); err != nil {
			return nil, err
		}
	}
	if rt.Role == RoleModel && (rt.Kind == schema.Object || rt.Kind == schema.Input) {
		if rf.Tags, err = m.tags(rt, f); err != nil {
			return nil, err
		}
	}
	args := newGoNames(rt.Def.Name + "." + f.Name)
	for _, a := range f.Arguments {
		ra := &ResolvedArg{
			Def:        a,
			Name:       a.Name,
			GoName:     paramName(a.Name),
			Default:    a.Default,
			HasDefault: a.HasDefault,
		}
		if err := args.claim(ra.GoName, a.Name); err != nil {
			return nil, err
		}
		if ra.Type, err = m.target(rt.Package, a.Type, "customTypesMapping."+a.Type.TypeName()); err != nil {
			return nil, err
		}
		rf.Args = append(rf.Args, ra)
	}
	return rf, nil
}

// paramName returns the Go parameter name of an argument. The context
// parameter is always named ctx.
func paramName(name string) string {
	p := templates.ToGoPrivate(name)
	if p == "ctx" {
		return "ctxArg"
	}
	return p
}

// fieldType maps the type of a field. A "Type.field" mapping replaces the
// whole field type, list levels included.
func (m *mapper) fieldType(rt *ResolvedType, f *schema.Field) (*TargetType, error) {
	key := rt.Def.Name + "." + f.Name
	expr, ok := m.cfg.CustomTypes[key]
	if !ok {
		return m.target(rt.Package, f.Type, "customTypesMapping."+f.Type.TypeName())
	}
	t, err := m.goType(expr, rt.Package, "customTypesMapping."+key)
	if err != nil {
		return nil, err
	}
	t.Nullable = !f.Type.NonNull
	t.Pointer = t.Nullable && !t.NilAble
	t.Ref = f.Type.Named().Kind
	return t, nil
}

// target maps a schema reference seen from package pkg.
func (m *mapper) target(pkg *Package, ref *schema.TypeRef, option string) (*TargetType, error) {
	if ref.Elem != nil {
		elem, err := m.target(pkg, ref.Elem, option)
		if err != nil {
			return nil, err
		}
		return &TargetType{Elem: elem, Nullable: !ref.NonNull, Pointer: !ref.NonNull}, nil
	}
	nullable := !ref.NonNull
	if expr, ok := m.cfg.CustomTypes[ref.Name]; ok {
		t, err := m.goType(expr, pkg, option)
		if err != nil {
			return nil, err
		}
		t.Nullable, t.Pointer, t.Ref = nullable, nullable && !t.NilAble, ref.Kind
		return t, nil
	}
	t := &TargetType{Nullable: nullable, Ref: ref.Kind}
	switch ref.Kind {
	case schema.RefBuiltinScalar:
		t.Ident = scalars[ref.Name]
		t.Pointer = nullable
	case schema.RefCustomScalar:
		t.Ident = fallbackScalar
		t.Pointer = nullable
	default:
		rt, ok := m.byName[ref.Name]
		if !ok {
			return nil, &gqlcodegen.UnresolvedTypeError{TypeName: ref.Name, Message: "type has no Go representation"}
		}
		t.Ident = rt.Name
		t.Path = rt.Package.Path
		switch {
		case rt.Role == RoleAPI, ref.Kind == schema.RefInterface, ref.Kind == schema.RefUnion:
			t.NilAble = true
		case ref.Kind == schema.RefObject, ref.Kind == schema.RefInput:
			// Structs are always referenced by pointer so recursive types stay valid Go.
			t.Pointer = true
		default:
			t.Pointer = nullable
		}
	}
	return t, nil
}

// goType parses a custom Go type expression. A short qualifier such as
// "civil" in "civil.Date" is resolved against the extra imports of the
// package the type is used in, then those of the other package.
func (m *mapper) goType(expr string, pkg *Package, option string) (*TargetType, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "any", expr == "error", strings.HasPrefix(expr, "interface{"),
		strings.HasPrefix(expr, "map["), strings.HasPrefix(expr, "chan "), strings.HasPrefix(expr, "func("):
		return &TargetType{Ident: expr, NilAble: true, Custom: true}, nil
	}
	t := &TargetType{Custom: true}
	rest := expr
	for done := false; !done; {
		switch {
		case strings.HasPrefix(rest, "*"):
			t.Modifier += "*"
			rest = rest[1:]
		case strings.HasPrefix(rest, "[]"):
			t.Modifier += "[]"
			rest = rest[2:]
		default:
			done = true
		}
	}
	t.NilAble = t.Modifier != ""
	qual, ident := splitQualified(rest)
	if !token.IsIdentifier(ident) {
		return nil, gqlcodegen.NewConfigError(option, expr, "not a Go type expression")
	}
	t.Ident = ident
	if qual != "" {
		t.Path = m.importPath(qual, pkg)
	}
	return t, nil
}

// splitQualified splits "github.com/google/uuid.UUID" into its import path
// and identifier. The identifier follows the last dot after the last slash.
func splitQualified(s string) (qualifier, ident string) {
	slash := strings.LastIndex(s, "/")
	dot := strings.LastIndex(s[slash+1:], ".")
	if dot < 0 {
		if slash >= 0 {
			return s, ""
		}
		return "", s
	}
	dot += slash + 1
	return s[:dot], s[dot+1:]
}

func (m *mapper) importPath(qual string, pkg *Package) string {
	if strings.Contains(qual, "/") {
		return qual
	}
	own, other := m.cfg.ModelImports, m.cfg.APIImports
	if pkg == m.out.API && pkg != m.out.Model {
		own, other = other, own
	}
	for _, list := range [][]string{own, other} {
		for _, imp := range list {
			if imp == qual || PackageName(imp) == qual || path.Base(imp) == qual {
				return imp
			}
		}
	}
	return qual
}

// wrapper returns the configured subscription result wrapper.
func (m *mapper) wrapper() (*Wrapper, error) {
	expr := m.cfg.SubscriptionReturnType
	switch expr {
	case "":
		return nil, nil
	case "chan":
		return &Wrapper{Chan: true}, nil
	}
	t, err := m.goType(expr, m.out.API, "subscriptionReturnType")
	if err != nil {
		return nil, err
	}
	if t.Modifier != "" || t.NilAble {
		return nil, gqlcodegen.NewConfigError("subscriptionReturnType", expr, `must be "chan" or a generic type name`)
	}
	return &Wrapper{Ident: t.Ident, Path: t.Path}, nil
}

// tags computes the struct tags of a model field. Later sources override
// earlier ones on the same key: the json default, the validation annotation
// (non-null fields only), the mapping of the referenced type name, then the
// mapping of "Type.field".
func (m *mapper) tags(rt *ResolvedType, f *schema.Field) (map[string]string, error) {
	jsonTag := f.Name
	if !f.Type.NonNull {
		jsonTag += ",omitempty"
	}
	tags := map[string]string{"json": jsonTag}
	apply := func(option, fragment string) error {
		parsed, err := config.ParseTags(fragment)
		if err != nil {
			return gqlcodegen.NewConfigError(option, fragment, err.Error())
		}
		for _, tag := range parsed.Tags() {
			tags[tag.Key] = tag.Value()
		}
		return nil
	}
	if f.Type.NonNull && m.cfg.ModelValidationAnnotation != "" {
		if err := apply("modelValidationAnnotation", m.cfg.ModelValidationAnnotation); err != nil {
			return nil, err
		}
	}
	for _, key := range []string{f.Type.TypeName(), rt.Def.Name + "." + f.Name} {
		if fragment, ok := m.cfg.CustomAnnotations[key]; ok {
			if err := apply("customAnnotationsMapping."+key, fragment); err != nil {
				return nil, err
			}
		}
	}
	return tags, nil
}

// abstracts links interfaces and unions with the types belonging to them.
func (m *mapper) abstracts() {
	for _, rt := range m.out.Models {
		def := rt.Def
		switch def.Kind {
		case schema.Object, schema.Interface:
			for _, name := range def.Interfaces {
				iface, ok := m.byName[name]
				if !ok || iface.Role != RoleModel {
					continue
				}
				rt.Implements = append(rt.Implements, iface.Name)
				iface.Members = append(iface.Members, rt.Name)
			}
		}
	}
	for _, u := range m.out.Models {
		if u.Kind != schema.Union {
			continue
		}
		for _, name := range u.Def.Types {
			member, ok := m.byName[name]
			if !ok || member.Role != RoleModel {
				continue
			}
			u.Members = append(u.Members, member.Name)
			member.Implements = append(member.Implements, u.Name)
		}
	}
}
