// Package resolve binds every type reference of a parsed document to the
// definition it names.
package resolve

import (
	"fmt"

	"github.com/syssam/gqlcodegen"
	"github.com/syssam/gqlcodegen/schema"
)

// Result is the outcome of a successful resolution.
type Result struct {
	// Document is an annotated copy of the input: every TypeRef carries its
	// RefKind. The input document is left untouched.
	Document *schema.Document
	// Symbols maps every declared type name to its definition.
	Symbols map[string]*schema.Definition
}

// Lookup returns the definition of a declared type.
func (r *Result) Lookup(name string) (*schema.Definition, bool) {
	def, ok := r.Symbols[name]
	return def, ok
}

// KindOf returns the reference kind of name, or RefUnresolved.
func (r *Result) KindOf(name string) schema.RefKind {
	if schema.IsBuiltinScalar(name) {
		return schema.RefBuiltinScalar
	}
	if def, ok := r.Symbols[name]; ok {
		return schema.RefKindOf(def.Kind)
	}
	return schema.RefUnresolved
}

// Resolve resolves all references of doc. References are looked up by name
// only, so self and mutually referencing types need no special handling.
// Errors are reported in declaration order; the first one wins.
func Resolve(doc *schema.Document) (*Result, error) {
	res := &Result{
		Document: doc.Clone(),
		Symbols:  make(map[string]*schema.Definition, len(doc.Definitions)),
	}
	for _, def := range res.Document.Definitions {
		res.Symbols[def.Name] = def
	}
	for _, def := range res.Document.Definitions {
		if err := res.definition(def); err != nil {
			return nil, err
		}
	}
	if err := res.roots(); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Result) definition(def *schema.Definition) error {
	for _, name := range def.Interfaces {
		if err := r.expect(name, schema.RefInterface, def.Name, "implemented type must be an interface"); err != nil {
			return err
		}
	}
	for _, name := range def.Types {
		if err := r.expect(name, schema.RefObject, def.Name, "union member must be an object type"); err != nil {
			return err
		}
	}
	for _, f := range def.Fields {
		if err := r.ref(f.Type, def.Name, f.Name); err != nil {
			return err
		}
		for _, a := range f.Arguments {
			if err := r.ref(a.Type, def.Name, f.Name+"."+a.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// ref annotates the named level of t. List levels carry no kind.
func (r *Result) ref(t *schema.TypeRef, owner, field string) error {
	named := t.Named()
	kind := r.KindOf(named.Name)
	if kind == schema.RefUnresolved {
		return &gqlcodegen.UnresolvedTypeError{
			TypeName:  named.Name,
			Owner:     owner,
			FieldName: field,
		}
	}
	named.Kind = kind
	return nil
}

func (r *Result) expect(name string, want schema.RefKind, owner, msg string) error {
	switch kind := r.KindOf(name); kind {
	case want:
		return nil
	case schema.RefUnresolved:
		return &gqlcodegen.UnresolvedTypeError{TypeName: name, Owner: owner}
	default:
		return &gqlcodegen.UnresolvedTypeError{
			TypeName: name,
			Owner:    owner,
			Message:  fmt.Sprintf("%s, got %s", msg, kind),
		}
	}
}

func (r *Result) roots() error {
	for _, op := range schema.Operations {
		name := r.Document.RootOf(op)
		if name == "" {
			continue
		}
		if err := r.expect(name, schema.RefObject, "schema", fmt.Sprintf("%s root must be an object type", op)); err != nil {
			return err
		}
	}
	return nil
}
