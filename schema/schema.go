package schema

import (
	"github.com/syssam/gqlcodegen"
)

// Position locates a schema element in its source file.
type Position = gqlcodegen.Position

// Kind is the kind of a type definition.
type Kind uint8

// Definition kinds.
const (
	Object Kind = iota + 1
	Input
	Interface
	Union
	Enum
	Scalar
)

var kindNames = [...]string{
	Object:    "OBJECT",
	Input:     "INPUT",
	Interface: "INTERFACE",
	Union:     "UNION",
	Enum:      "ENUM",
	Scalar:    "SCALAR",
}

// String returns the SDL-style upper case name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "INVALID"
}

// Operation names a root operation.
type Operation string

// Root operations.
const (
	OperationQuery        Operation = "query"
	OperationMutation     Operation = "mutation"
	OperationSubscription Operation = "subscription"
)

// Operations lists the root operations in their canonical order.
var Operations = []Operation{OperationQuery, OperationMutation, OperationSubscription}

// builtinScalars are the scalars every schema has without declaring them.
var builtinScalars = map[string]struct{}{
	"String":  {},
	"Int":     {},
	"Float":   {},
	"Boolean": {},
	"ID":      {},
}

// IsBuiltinScalar reports whether name is one of String, Int, Float, Boolean or ID.
func IsBuiltinScalar(name string) bool {
	_, ok := builtinScalars[name]
	return ok
}

type (
	// Document is a parsed schema: the definitions of all fragments, in
	// declaration order, and the root operation type names.
	Document struct {
		Definitions []*Definition
		Schema      OperationTypes

		index map[string]*Definition
	}

	// OperationTypes holds the type names of the root operations. An empty
	// name means the schema has no such operation.
	OperationTypes struct {
		Query        string
		Mutation     string
		Subscription string
	}

	// Definition is a named type definition.
	Definition struct {
		Kind        Kind
		Name        string
		Description string
		// Fields of objects, inputs and interfaces, in declaration order.
		Fields []*Field
		// Interfaces implemented by an object or interface.
		Interfaces []string
		// Types are the members of a union.
		Types []string
		// EnumValues of an enum, in declaration order.
		EnumValues []*EnumValue
		Directives []*Directive
		Position   Position
	}

	// Field is a field of an object, input or interface type.
	Field struct {
		Name        string
		Description string
		Type        *TypeRef
		Arguments   []*Argument
		// Default holds the GraphQL literal of an input field default.
		Default    string
		HasDefault bool
		Directives []*Directive
		Position   Position
	}

	// Argument is a field argument.
	Argument struct {
		Name        string
		Description string
		Type        *TypeRef
		// Default holds the GraphQL literal of the default value, if any.
		Default    string
		HasDefault bool
		Position   Position
	}

	// EnumValue is one value of an enum.
	EnumValue struct {
		Name        string
		Description string
		Directives  []*Directive
		Position    Position
	}

	// Directive is a directive application. Arguments hold GraphQL literals
	// keyed by argument name, with string quotes removed.
	Directive struct {
		Name      string
		Arguments map[string]string
	}
)

// Lookup returns the definition with the given name.
func (d *Document) Lookup(name string) (*Definition, bool) {
	if d.index == nil {
		d.reindex()
	}
	def, ok := d.index[name]
	return def, ok
}

// Add appends a definition, keeping the name index current.
func (d *Document) Add(def *Definition) {
	d.Definitions = append(d.Definitions, def)
	if d.index != nil {
		d.index[def.Name] = def
	}
}

func (d *Document) reindex() {
	d.index = make(map[string]*Definition, len(d.Definitions))
	for _, def := range d.Definitions {
		d.index[def.Name] = def
	}
}

// RootOf returns the type name for the given operation, or "".
func (d *Document) RootOf(op Operation) string {
	switch op {
	case OperationQuery:
		return d.Schema.Query
	case OperationMutation:
		return d.Schema.Mutation
	case OperationSubscription:
		return d.Schema.Subscription
	}
	return ""
}

// OperationOf returns the operation served by the named type, if it is a root type.
func (d *Document) OperationOf(name string) (Operation, bool) {
	if name == "" {
		return "", false
	}
	for _, op := range Operations {
		if d.RootOf(op) == name {
			return op, true
		}
	}
	return "", false
}

// IsRoot reports whether name is the type of a root operation.
func (d *Document) IsRoot(name string) bool {
	_, ok := d.OperationOf(name)
	return ok
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{
		Definitions: make([]*Definition, len(d.Definitions)),
		Schema:      d.Schema,
	}
	for i, def := range d.Definitions {
		c.Definitions[i] = def.clone()
	}
	return c
}

func (def *Definition) clone() *Definition {
	c := *def
	c.Fields = make([]*Field, len(def.Fields))
	for i, f := range def.Fields {
		c.Fields[i] = f.clone()
	}
	c.Interfaces = append([]string(nil), def.Interfaces...)
	c.Types = append([]string(nil), def.Types...)
	c.EnumValues = make([]*EnumValue, len(def.EnumValues))
	for i, v := range def.EnumValues {
		cv := *v
		cv.Directives = cloneDirectives(v.Directives)
		c.EnumValues[i] = &cv
	}
	c.Directives = cloneDirectives(def.Directives)
	return &c
}

func (f *Field) clone() *Field {
	c := *f
	c.Type = f.Type.Clone()
	c.Arguments = make([]*Argument, len(f.Arguments))
	for i, a := range f.Arguments {
		ca := *a
		ca.Type = a.Type.Clone()
		c.Arguments[i] = &ca
	}
	c.Directives = cloneDirectives(f.Directives)
	return &c
}

func cloneDirectives(ds []*Directive) []*Directive {
	if ds == nil {
		return nil
	}
	c := make([]*Directive, len(ds))
	for i, d := range ds {
		cd := &Directive{Name: d.Name}
		if d.Arguments != nil {
			cd.Arguments = make(map[string]string, len(d.Arguments))
			for k, v := range d.Arguments {
				cd.Arguments[k] = v
			}
		}
		c[i] = cd
	}
	return c
}

// Field returns the field with the given name.
func (def *Definition) Field(name string) (*Field, bool) {
	for _, f := range def.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Directive returns the first directive with the given name.
func (def *Definition) Directive(name string) (*Directive, bool) {
	return findDirective(def.Directives, name)
}

// Directive returns the first directive with the given name.
func (f *Field) Directive(name string) (*Directive, bool) {
	return findDirective(f.Directives, name)
}

// Directive returns the first directive with the given name.
func (v *EnumValue) Directive(name string) (*Directive, bool) {
	return findDirective(v.Directives, name)
}

func findDirective(ds []*Directive, name string) (*Directive, bool) {
	for _, d := range ds {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// Deprecation returns the deprecation reason carried by a @deprecated
// directive. The reason defaults to "No longer supported".
func Deprecation(ds []*Directive) (string, bool) {
	d, ok := findDirective(ds, "deprecated")
	if !ok {
		return "", false
	}
	if reason := d.Arguments["reason"]; reason != "" {
		return reason, true
	}
	return "No longer supported", true
}
