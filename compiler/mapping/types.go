package mapping

import (
	"path"
	"strings"

	"github.com/syssam/gqlcodegen/config"
	"github.com/syssam/gqlcodegen/schema"
)

// Role tells where a resolved type is emitted.
type Role uint8

// Type roles.
const (
	// RoleModel types become structs, enums or interfaces in the model package.
	RoleModel Role = iota + 1
	// RoleAPI types are root operation types; they become API interfaces.
	RoleAPI
)

type (
	// Schema is the output of the mapping stage: everything the emitter needs,
	// with every name and type already decided.
	Schema struct {
		Config *config.Config
		// Root is the package at OutputDir.
		Root *Package
		// Model and API are the model and API packages. They may equal Root.
		Model *Package
		API   *Package
		// Resolver is nil when resolver stubs are disabled.
		Resolver *Package
		// Models are the model types in declaration order.
		Models []*ResolvedType
		// APIs are the root types to emit, ordered query, mutation, subscription.
		// Empty when API generation is disabled.
		APIs []*ResolvedType
		// Roots holds every root type, whether emitted or not.
		Roots []*ResolvedType
	}

	// Package is a generated Go package.
	Package struct {
		// Path is the import path.
		Path string
		// Name is the package clause name.
		Name string
		// Dir is the directory relative to the output directory, "" for the root.
		Dir string
	}

	// ResolvedType pairs a definition with its Go identity.
	ResolvedType struct {
		Def     *schema.Definition
		Kind    schema.Kind
		Name    string
		Package *Package
		Role    Role
		// Fields of objects and inputs, and the operations of root types.
		Fields []*ResolvedField
		// Values of enums.
		Values []*EnumValue
		// Implements lists the Go names of the interfaces and unions an
		// object belongs to, in declaration order.
		Implements []string
		// Members lists the Go names of union members or interface implementors.
		Members []string
		// Operation is set for root types.
		Operation schema.Operation
		// Deprecated holds the deprecation reason, if any.
		Deprecated string
	}

	// ResolvedField is a struct field or an API method.
	ResolvedField struct {
		Def      *schema.Field
		Name     string
		GoName   string
		JSONName string
		Type     *TargetType
		// Tags are the struct tags of model fields, keyed by tag key.
		Tags map[string]string
		Args []*ResolvedArg
		// Deprecated holds the deprecation reason. IsDeprecated tells an empty
		// reason apart from no deprecation.
		Deprecated   string
		IsDeprecated bool
	}

	// ResolvedArg is an API method parameter.
	ResolvedArg struct {
		Def        *schema.Argument
		Name       string
		GoName     string
		Type       *TargetType
		Default    string
		HasDefault bool
	}

	// EnumValue is an enum constant.
	EnumValue struct {
		Def *schema.EnumValue
		// Name is the schema value, which is also the constant's value.
		Name string
		// GoName is the constant identifier.
		GoName       string
		Deprecated   string
		IsDeprecated bool
	}

	// TargetType is the Go type of a field or argument. Each list level of the
	// schema reference is one TargetType with a non-nil Elem.
	TargetType struct {
		// Elem is the element type of a list level.
		Elem *TargetType
		// Nullable mirrors the schema: the level may be null.
		Nullable bool
		// Pointer tells whether the level is rendered as a pointer.
		Pointer bool
		// Ident is the type identifier of a named level, e.g. "string",
		// "Time", "BikeTO". For expressions that cannot be split into a
		// package and a name (e.g. "map[string]any") Ident holds the whole
		// expression and Path is empty.
		Ident string
		// Path is the import path of Ident; empty for builtins.
		Path string
		// Modifier is a type prefix from a custom mapping such as "*" or "[]".
		Modifier string
		// NilAble is set when the named type can hold nil on its own: Go
		// interfaces and custom types with a pointer, slice or map form.
		NilAble bool
		// Custom is set when the named level comes from customTypesMapping.
		Custom bool
		// Ref is the schema kind of a named level.
		Ref schema.RefKind
		// Wrapper wraps the whole type. Only subscription results carry one.
		Wrapper *Wrapper
	}

	// Wrapper is the container of a subscription result.
	Wrapper struct {
		// Chan renders a receive-only channel.
		Chan bool
		// Ident and Path name a generic type instantiated with the result.
		Ident string
		Path  string
	}
)

// IsList reports whether t is a list level.
func (t *TargetType) IsList() bool { return t.Elem != nil }

// Named returns the innermost, named level.
func (t *TargetType) Named() *TargetType {
	n := t
	for n.Elem != nil {
		n = n.Elem
	}
	return n
}

// Depth returns the number of list levels.
func (t *TargetType) Depth() int {
	n := 0
	for l := t; l.Elem != nil; l = l.Elem {
		n++
	}
	return n
}

// Builtin reports whether t renders as a predeclared, comparable Go type
// without pointers, so values can be compared with ==.
func (t *TargetType) Builtin() bool {
	if t.Wrapper != nil || t.Pointer || t.Elem != nil || t.Modifier != "" {
		return false
	}
	if t.Ref == schema.RefEnum && !t.Custom {
		return true
	}
	if t.Path != "" {
		return false
	}
	switch t.Ident {
	case "string", "bool", "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "float32", "float64", "byte", "rune":
		return true
	}
	return false
}

// GoString renders the type as Go source with every imported identifier
// qualified by the last element of its import path.
func (t *TargetType) GoString() string {
	return t.Source("")
}

// Source renders the type as seen from the package with import path from:
// identifiers of that package are left unqualified.
func (t *TargetType) Source(from string) string {
	var b strings.Builder
	switch w := t.Wrapper; {
	case w == nil:
		t.write(&b, from)
	case w.Chan:
		b.WriteString("<-chan ")
		t.write(&b, from)
	default:
		b.WriteString(qualify(w.Path, w.Ident, from))
		b.WriteByte('[')
		t.write(&b, from)
		b.WriteByte(']')
	}
	return b.String()
}

func (t *TargetType) write(b *strings.Builder, from string) {
	if t.Pointer {
		b.WriteByte('*')
	}
	if t.Elem != nil {
		b.WriteString("[]")
		t.Elem.write(b, from)
		return
	}
	b.WriteString(t.Modifier)
	b.WriteString(qualify(t.Path, t.Ident, from))
}

func qualify(importPath, ident, from string) string {
	if importPath == "" || importPath == from {
		return ident
	}
	return PackageName(importPath) + "." + ident
}

// PackageName returns the conventional package name for an import path: its
// last element made a valid identifier. Major version suffixes such as "/v2"
// and ".v3" are skipped.
func PackageName(importPath string) string {
	base := path.Base(importPath)
	if isMajorVersion(base) {
		base = path.Base(path.Dir(importPath))
	}
	if i := strings.LastIndex(base, ".v"); i > 0 && isMajorVersion(base[i+1:]) {
		base = base[:i]
	}
	base = strings.TrimPrefix(base, "go-")
	var b strings.Builder
	for i, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "generated"
	}
	return b.String()
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
