package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/gqlcodegen"
	"github.com/syssam/gqlcodegen/compiler/parse"
	"github.com/syssam/gqlcodegen/schema"
)

func mustParse(t *testing.T, sdl string) *schema.Document {
	t.Helper()
	doc, err := parse.String("test.graphqls", sdl)
	require.NoError(t, err)
	return doc
}

func TestResolve(t *testing.T) {
	doc := mustParse(t, `
scalar Date
enum Color { RED }
interface Node { id: ID! }
type Bike implements Node {
  id: ID!
  color: Color
  built: Date
  parts: [[Part!]]!
}
type Part { name: String }
union Item = Bike | Part
input BikeFilter { color: Color }
type Query {
  bikes(filter: BikeFilter, since: [Date!]): [Item]
  node(id: ID!): Node
}
`)
	res, err := Resolve(doc)
	require.NoError(t, err)

	bike, ok := res.Document.Lookup("Bike")
	require.True(t, ok)
	kinds := make(map[string]schema.RefKind)
	for _, f := range bike.Fields {
		kinds[f.Name] = f.Type.Named().Kind
	}
	assert.Equal(t, map[string]schema.RefKind{
		"id":    schema.RefBuiltinScalar,
		"color": schema.RefEnum,
		"built": schema.RefCustomScalar,
		"parts": schema.RefObject,
	}, kinds)

	parts, _ := bike.Field("parts")
	assert.Equal(t, schema.RefUnresolved, parts.Type.Kind, "list levels carry no kind")

	query, _ := res.Document.Lookup("Query")
	bikes, _ := query.Field("bikes")
	assert.Equal(t, schema.RefUnion, bikes.Type.Named().Kind)
	assert.Equal(t, schema.RefInput, bikes.Arguments[0].Type.Named().Kind)
	assert.Equal(t, schema.RefCustomScalar, bikes.Arguments[1].Type.Named().Kind)
	node, _ := query.Field("node")
	assert.Equal(t, schema.RefInterface, node.Type.Named().Kind)

	orig, _ := doc.Lookup("Bike")
	assert.Equal(t, schema.RefUnresolved, orig.Fields[0].Type.Kind, "input document is not annotated")

	def, ok := res.Lookup("Part")
	require.True(t, ok)
	assert.Equal(t, schema.Object, def.Kind)
	assert.Equal(t, schema.RefBuiltinScalar, res.KindOf("Float"))
	assert.Equal(t, schema.RefUnresolved, res.KindOf("Wheel"))
}

func TestResolveRecursive(t *testing.T) {
	doc := mustParse(t, `
type Person { name: String, friends: [Person!], employer: Company }
type Company { ceo: Person, staff: [Person] }
type Query { me: Person }
`)
	res, err := Resolve(doc)
	require.NoError(t, err)
	person, _ := res.Document.Lookup("Person")
	friends, _ := person.Field("friends")
	assert.Equal(t, schema.RefObject, friends.Type.Named().Kind)
	company, _ := res.Document.Lookup("Company")
	assert.Equal(t, schema.RefObject, company.Fields[0].Type.Kind)
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name  string
		sdl   string
		want  gqlcodegen.UnresolvedTypeError
		inMsg string
	}{
		{
			name: "field type",
			sdl:  "type Bike { id: ID!, wheel: Wheel }",
			want: gqlcodegen.UnresolvedTypeError{TypeName: "Wheel", Owner: "Bike", FieldName: "wheel"},
		},
		{
			name: "nested list",
			sdl:  "type Bike { wheels: [[Wheel!]]! }",
			want: gqlcodegen.UnresolvedTypeError{TypeName: "Wheel", Owner: "Bike", FieldName: "wheels"},
		},
		{
			name: "argument",
			sdl:  "type Query { bike(size: Size): String }",
			want: gqlcodegen.UnresolvedTypeError{TypeName: "Size", Owner: "Query", FieldName: "bike.size"},
		},
		{
			name: "first failure in declaration order",
			sdl:  "type A { b: Missing1 }\ntype B { c: Missing2 }",
			want: gqlcodegen.UnresolvedTypeError{TypeName: "Missing1", Owner: "A", FieldName: "b"},
		},
		{
			name: "union member",
			sdl:  "union U = Bike | Car\ntype Bike { id: ID }",
			want: gqlcodegen.UnresolvedTypeError{TypeName: "Car", Owner: "U"},
		},
		{
			name:  "union member kind",
			sdl:   "union U = Color\nenum Color { RED }",
			want:  gqlcodegen.UnresolvedTypeError{TypeName: "Color", Owner: "U"},
			inMsg: "union member must be an object type",
		},
		{
			name:  "implements non interface",
			sdl:   "type Bike implements Part { id: ID }\ntype Part { id: ID }",
			want:  gqlcodegen.UnresolvedTypeError{TypeName: "Part", Owner: "Bike"},
			inMsg: "implemented type must be an interface",
		},
		{
			name:  "root is not an object",
			sdl:   "schema { query: Q }\ninput Q { a: Int }",
			want:  gqlcodegen.UnresolvedTypeError{TypeName: "Q", Owner: "schema"},
			inMsg: "query root must be an object type",
		},
		{
			name: "root is missing",
			sdl:  "schema { query: Q }\ntype Bike { id: ID }",
			want: gqlcodegen.UnresolvedTypeError{TypeName: "Q", Owner: "schema"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(mustParse(t, tt.sdl))
			require.Error(t, err)
			assert.ErrorIs(t, err, gqlcodegen.ErrUnresolvedType)
			var uerr *gqlcodegen.UnresolvedTypeError
			require.ErrorAs(t, err, &uerr)
			assert.Equal(t, tt.want.TypeName, uerr.TypeName)
			assert.Equal(t, tt.want.Owner, uerr.Owner)
			assert.Equal(t, tt.want.FieldName, uerr.FieldName)
			if tt.inMsg != "" {
				assert.Contains(t, uerr.Message, tt.inMsg)
			}
		})
	}
}

func TestResolveMessage(t *testing.T) {
	_, err := Resolve(mustParse(t, "type Bike { wheel: Wheel }"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Wheel"`)
	assert.Contains(t, err.Error(), "Bike.wheel")
}
