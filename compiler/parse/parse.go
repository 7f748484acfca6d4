// Package parse turns loaded SDL fragments into a schema.Document.
//
// Parsing is delegated to gqlparser; this package converts its AST into the
// generator's own model, merges type extensions into their base definitions,
// settles the root operation types and rejects duplicate declarations.
package parse

import (
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/syssam/gqlcodegen"
	"github.com/syssam/gqlcodegen/compiler/load"
	"github.com/syssam/gqlcodegen/schema"
)

// Parse parses every source of the bundle and returns the merged document.
// On failure no document is returned.
func Parse(b *load.Bundle) (*schema.Document, error) {
	sources := make([]*ast.Source, len(b.Sources))
	for i, s := range b.Sources {
		sources[i] = &ast.Source{Name: s.Name, Input: s.Input}
	}
	return parseSources(sources...)
}

// String parses a single SDL document. name is used in error positions.
func String(name, sdl string) (*schema.Document, error) {
	return parseSources(&ast.Source{Name: name, Input: sdl})
}

func parseSources(sources ...*ast.Source) (*schema.Document, error) {
	sd, err := parser.ParseSchemas(sources...)
	if err != nil {
		return nil, syntaxError(err)
	}
	doc := &schema.Document{}
	declared := make(map[string]*ast.Definition)
	for _, d := range sd.Definitions {
		if prev, ok := declared[d.Name]; ok {
			return nil, &gqlcodegen.DuplicateTypeError{
				Name:   d.Name,
				First:  position(prev.Position),
				Second: position(d.Position),
			}
		}
		declared[d.Name] = d
		if d.Kind == ast.Scalar && schema.IsBuiltinScalar(d.Name) {
			continue
		}
		def, err := definition(d)
		if err != nil {
			return nil, err
		}
		doc.Add(def)
	}
	for _, ext := range sd.Extensions {
		if err := extend(doc, ext); err != nil {
			return nil, err
		}
	}
	if err := operationTypes(doc, sd); err != nil {
		return nil, err
	}
	return doc, nil
}

// syntaxError converts a gqlparser error into a SchemaSyntaxError.
func syntaxError(err error) error {
	var list gqlerror.List
	if errors.As(err, &list) && len(list) > 0 {
		err = list[0]
	}
	var gerr *gqlerror.Error
	if !errors.As(err, &gerr) {
		return &gqlcodegen.SchemaSyntaxError{Message: err.Error()}
	}
	serr := &gqlcodegen.SchemaSyntaxError{Message: gerr.Message}
	if len(gerr.Locations) > 0 {
		serr.Line = gerr.Locations[0].Line
		serr.Column = gerr.Locations[0].Column
	}
	if file, ok := gerr.Extensions["file"].(string); ok {
		serr.File = file
	}
	return serr
}

func position(p *ast.Position) schema.Position {
	if p == nil {
		return schema.Position{}
	}
	pos := schema.Position{Line: p.Line, Column: p.Column}
	if p.Src != nil {
		pos.File = p.Src.Name
	}
	return pos
}

var kinds = map[ast.DefinitionKind]schema.Kind{
	ast.Object:      schema.Object,
	ast.InputObject: schema.Input,
	ast.Interface:   schema.Interface,
	ast.Union:       schema.Union,
	ast.Enum:        schema.Enum,
	ast.Scalar:      schema.Scalar,
}

func definition(d *ast.Definition) (*schema.Definition, error) {
	kind, ok := kinds[d.Kind]
	if !ok {
		return nil, &gqlcodegen.SchemaSyntaxError{
			Position: position(d.Position),
			Message:  fmt.Sprintf("unsupported definition kind %q for %s", d.Kind, d.Name),
		}
	}
	def := &schema.Definition{
		Kind:        kind,
		Name:        d.Name,
		Description: d.Description,
		Position:    position(d.Position),
	}
	mergeInto(def, d)
	return def, nil
}

// mergeInto appends the members of d to def, in declaration order.
func mergeInto(def *schema.Definition, d *ast.Definition) {
	for _, f := range d.Fields {
		def.Fields = append(def.Fields, field(f))
	}
	def.Interfaces = append(def.Interfaces, d.Interfaces...)
	def.Types = append(def.Types, d.Types...)
	for _, v := range d.EnumValues {
		def.EnumValues = append(def.EnumValues, &schema.EnumValue{
			Name:        v.Name,
			Description: v.Description,
			Directives:  directives(v.Directives),
			Position:    position(v.Position),
		})
	}
	def.Directives = append(def.Directives, directives(d.Directives)...)
}

func extend(doc *schema.Document, ext *ast.Definition) error {
	def, ok := doc.Lookup(ext.Name)
	if !ok {
		if ext.Kind == ast.Scalar && schema.IsBuiltinScalar(ext.Name) {
			return nil
		}
		return &gqlcodegen.SchemaSyntaxError{
			Position: position(ext.Position),
			Message:  fmt.Sprintf("cannot extend type %s because it is not defined", ext.Name),
		}
	}
	if kinds[ext.Kind] != def.Kind {
		return &gqlcodegen.SchemaSyntaxError{
			Position: position(ext.Position),
			Message:  fmt.Sprintf("cannot extend %s %s with a %s extension", def.Kind, def.Name, kinds[ext.Kind]),
		}
	}
	mergeInto(def, ext)
	return nil
}

func field(f *ast.FieldDefinition) *schema.Field {
	sf := &schema.Field{
		Name:        f.Name,
		Description: f.Description,
		Type:        typeRef(f.Type),
		Directives:  directives(f.Directives),
		Position:    position(f.Position),
	}
	if f.DefaultValue != nil {
		sf.Default, sf.HasDefault = f.DefaultValue.String(), true
	}
	for _, a := range f.Arguments {
		arg := &schema.Argument{
			Name:        a.Name,
			Description: a.Description,
			Type:        typeRef(a.Type),
			Position:    position(a.Position),
		}
		if a.DefaultValue != nil {
			arg.Default, arg.HasDefault = a.DefaultValue.String(), true
		}
		sf.Arguments = append(sf.Arguments, arg)
	}
	return sf
}

func typeRef(t *ast.Type) *schema.TypeRef {
	if t == nil {
		return nil
	}
	if t.Elem != nil {
		return schema.ListOf(typeRef(t.Elem), t.NonNull)
	}
	return schema.Named(t.NamedType, t.NonNull)
}

func directives(list ast.DirectiveList) []*schema.Directive {
	if len(list) == 0 {
		return nil
	}
	ds := make([]*schema.Directive, 0, len(list))
	for _, d := range list {
		sd := &schema.Directive{Name: d.Name}
		if len(d.Arguments) > 0 {
			sd.Arguments = make(map[string]string, len(d.Arguments))
			for _, a := range d.Arguments {
				sd.Arguments[a.Name] = literal(a.Value)
			}
		}
		ds = append(ds, sd)
	}
	return ds
}

// literal returns the raw text of string values and the GraphQL literal of
// everything else.
func literal(v *ast.Value) string {
	if v == nil {
		return ""
	}
	switch v.Kind {
	case ast.StringValue, ast.BlockValue:
		return v.Raw
	default:
		return v.String()
	}
}

// operationTypes settles the root operation types, either from schema
// blocks (and their extensions) or implicitly by the conventional names.
func operationTypes(doc *schema.Document, sd *ast.SchemaDocument) error {
	explicit := false
	set := func(defs ast.SchemaDefinitionList) error {
		for _, s := range defs {
			for _, ot := range s.OperationTypes {
				explicit = true
				var target *string
				switch ot.Operation {
				case ast.Query:
					target = &doc.Schema.Query
				case ast.Mutation:
					target = &doc.Schema.Mutation
				case ast.Subscription:
					target = &doc.Schema.Subscription
				default:
					return &gqlcodegen.SchemaSyntaxError{
						Position: position(ot.Position),
						Message:  fmt.Sprintf("unknown operation %q in schema definition", ot.Operation),
					}
				}
				if *target != "" && *target != ot.Type {
					return &gqlcodegen.SchemaSyntaxError{
						Position: position(ot.Position),
						Message:  fmt.Sprintf("%s root type defined twice (%s and %s)", ot.Operation, *target, ot.Type),
					}
				}
				*target = ot.Type
			}
		}
		return nil
	}
	if err := set(sd.Schema); err != nil {
		return err
	}
	if err := set(sd.SchemaExtension); err != nil {
		return err
	}
	if explicit {
		return nil
	}
	implicit := map[schema.Operation]string{
		schema.OperationQuery:        "Query",
		schema.OperationMutation:     "Mutation",
		schema.OperationSubscription: "Subscription",
	}
	for op, name := range implicit {
		if def, ok := doc.Lookup(name); !ok || def.Kind != schema.Object {
			continue
		}
		switch op {
		case schema.OperationQuery:
			doc.Schema.Query = name
		case schema.OperationMutation:
			doc.Schema.Mutation = name
		case schema.OperationSubscription:
			doc.Schema.Subscription = name
		}
	}
	return nil
}
