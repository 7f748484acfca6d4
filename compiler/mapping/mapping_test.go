package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/gqlcodegen"
	"github.com/syssam/gqlcodegen/compiler/parse"
	"github.com/syssam/gqlcodegen/compiler/resolve"
	"github.com/syssam/gqlcodegen/config"
	"github.com/syssam/gqlcodegen/schema"
)

func build(t *testing.T, sdl string, opts ...config.Option) (*Schema, error) {
	t.Helper()
	doc, err := parse.String("test.graphqls", sdl)
	require.NoError(t, err)
	res, err := resolve.Resolve(doc)
	require.NoError(t, err)
	s, err := config.NewSettings(append([]config.Option{
		config.WithSchemaPaths("test.graphqls"),
		config.WithOutputDir(t.TempDir()),
		config.WithPackageName("github.com/acme/bikes/graph"),
	}, opts...)...)
	require.NoError(t, err)
	cfg, err := s.Build()
	require.NoError(t, err)
	return Map(res, cfg)
}

func mustBuild(t *testing.T, sdl string, opts ...config.Option) *Schema {
	t.Helper()
	s, err := build(t, sdl, opts...)
	require.NoError(t, err)
	return s
}

func model(t *testing.T, s *Schema, name string) *ResolvedType {
	t.Helper()
	for _, rt := range s.Models {
		if rt.Name == name {
			return rt
		}
	}
	require.Failf(t, "model not found", "%s", name)
	return nil
}

func field(t *testing.T, rt *ResolvedType, name string) *ResolvedField {
	t.Helper()
	for _, f := range rt.Fields {
		if f.Name == name {
			return f
		}
	}
	require.Failf(t, "field not found", "%s.%s", rt.Name, name)
	return nil
}

func TestBikeScenario(t *testing.T) {
	s := mustBuild(t, `
type Bike { id: ID!, type: BikeType! }
enum BikeType { ROAD MOUNTAIN }
`, config.WithModelNameSuffix("TO"))

	require.Len(t, s.Models, 2)
	bike := s.Models[0]
	assert.Equal(t, "BikeTO", bike.Name)
	assert.Equal(t, RoleModel, bike.Role)
	require.Len(t, bike.Fields, 2)
	assert.Equal(t, "ID", bike.Fields[0].GoName)
	assert.Equal(t, "string", bike.Fields[0].Type.GoString())
	assert.Equal(t, "Type", bike.Fields[1].GoName)
	assert.Equal(t, "BikeTypeTO", bike.Fields[1].Type.Source(s.Model.Path))

	enum := s.Models[1]
	assert.Equal(t, "BikeTypeTO", enum.Name)
	assert.Equal(t, schema.Enum, enum.Kind)
	require.Len(t, enum.Values, 2)
	assert.Equal(t, "ROAD", enum.Values[0].Name)
	assert.Equal(t, "BikeTypeTORoad", enum.Values[0].GoName)
	assert.Equal(t, "BikeTypeTOMountain", enum.Values[1].GoName)
}

func TestTargetTypeNesting(t *testing.T) {
	s := mustBuild(t, `
interface Node { id: ID! }
type Part implements Node { id: ID! }
enum Color { RED }
type Bike {
  a: String
  b: String!
  c: [String!]
  d: [String]!
  e: [[Int!]]!
  f: [[Float]!]
  g: Part
  h: Part!
  i: [Part]
  j: Node
  k: [Node!]!
  l: Color
  m: Boolean!
}
`)
	bike := model(t, s, "Bike")
	want := map[string]string{
		"a": "*string",
		"b": "string",
		"c": "*[]string",
		"d": "[]*string",
		"e": "[]*[]int",
		"f": "*[][]*float64",
		"g": "*Part",
		"h": "*Part",
		"i": "*[]*Part",
		"j": "Node",
		"k": "[]Node",
		"l": "*Color",
		"m": "bool",
	}
	for name, goType := range want {
		assert.Equal(t, goType, field(t, bike, name).Type.Source(s.Model.Path), name)
	}
	e := field(t, bike, "e").Type
	assert.Equal(t, 2, e.Depth())
	assert.False(t, e.Nullable)
	assert.True(t, e.Elem.Nullable)
	assert.False(t, e.Elem.Elem.Nullable)
	assert.Equal(t, schema.RefBuiltinScalar, e.Named().Ref)
	assert.NotEqual(t, field(t, bike, "c").Type.GoString(), field(t, bike, "d").Type.GoString())
}

func TestCustomTypes(t *testing.T) {
	sdl := `
scalar Date
scalar BigInt
scalar JSON
scalar Upload
type Bike {
  id: ID!
  built: Date!
  serviced: [Date]
  price: BigInt
  meta: JSON
  photo: Upload
}
type Query { bikes(since: Date, until: Date!): [Bike!]! }
`
	s := mustBuild(t, sdl,
		config.WithModelImports("cloud.google.com/go/civil"),
		config.WithCustomTypes(map[string]string{
			"Date":    "civil.Date",
			"BigInt":  "*math/big.Int",
			"JSON":    "map[string]any",
			"Bike.id": "github.com/google/uuid.UUID",
		}),
	)
	bike := model(t, s, "Bike")
	tests := []struct {
		field, goType, path string
	}{
		{"id", "uuid.UUID", "github.com/google/uuid"},
		{"built", "civil.Date", "cloud.google.com/go/civil"},
		{"serviced", "*[]*civil.Date", "cloud.google.com/go/civil"},
		{"price", "*big.Int", "math/big"},
		{"meta", "map[string]any", ""},
		{"photo", "*string", ""},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			typ := field(t, bike, tt.field).Type
			assert.Equal(t, tt.goType, typ.GoString())
			assert.Equal(t, tt.path, typ.Named().Path)
		})
	}

	require.Len(t, s.APIs, 1)
	bikes := s.APIs[0].Fields[0]
	require.Len(t, bikes.Args, 2)
	assert.Equal(t, "*civil.Date", bikes.Args[0].Type.GoString())
	assert.Equal(t, "civil.Date", bikes.Args[1].Type.GoString())
	assert.Equal(t, "cloud.google.com/go/civil", bikes.Args[1].Type.Path)
}

func TestCustomTypeMappedObjectIsNotEmitted(t *testing.T) {
	s := mustBuild(t, `
type Bike { id: ID!, owner: User }
type User { id: ID! }
`, config.WithCustomType("User", "github.com/acme/users.User"))
	require.Len(t, s.Models, 1)
	assert.Equal(t, "*users.User", field(t, s.Models[0], "owner").Type.GoString())
}

func TestCustomTypeErrors(t *testing.T) {
	for _, expr := range []string{"github.com/google/uuid", "time.", "1Date"} {
		_, err := build(t, "scalar Date\ntype Bike { d: Date }", config.WithCustomType("Date", expr))
		assert.ErrorIs(t, err, gqlcodegen.ErrInvalidConfig, expr)
	}
}

func TestTags(t *testing.T) {
	s := mustBuild(t, `
scalar Date
type Bike {
  id: ID!
  name: String
  built: Date!
  serial: String!
}
`,
		config.WithModelValidationAnnotation(`validate:"required"`),
		config.WithCustomAnnotations(map[string]string{
			"Date":        `validate:"datetime" format:"date"`,
			"Bike.serial": `validate:"len=12" db:"serial"`,
		}),
	)
	bike := model(t, s, "Bike")
	assert.Equal(t, map[string]string{"json": "id", "validate": "required"}, field(t, bike, "id").Tags)
	assert.Equal(t, map[string]string{"json": "name,omitempty"}, field(t, bike, "name").Tags)
	assert.Equal(t, map[string]string{"json": "built", "validate": "datetime", "format": "date"}, field(t, bike, "built").Tags)
	assert.Equal(t, map[string]string{"json": "serial", "validate": "len=12", "db": "serial"}, field(t, bike, "serial").Tags)
}

func TestAPIs(t *testing.T) {
	sdl := `
type Bike { id: ID! }
type Query {
  bike(id: ID!): Bike
  bikes(first: Int = 10, type: String): [Bike!]!
}
type Mutation { deleteBike(id: ID!): Boolean! }
type Subscription { bikeAdded: Bike! }
`
	t.Run("ordered by operation", func(t *testing.T) {
		s := mustBuild(t, sdl, config.WithAPIPackage("api"), config.WithModelPackage("model"))
		require.Len(t, s.APIs, 3)
		assert.Equal(t, []string{"Query", "Mutation", "Subscription"}, []string{s.APIs[0].Name, s.APIs[1].Name, s.APIs[2].Name})
		assert.Equal(t, RoleAPI, s.APIs[0].Role)
		assert.Equal(t, "github.com/acme/bikes/graph/api", s.APIs[0].Package.Path)
		assert.Equal(t, "api", s.APIs[0].Package.Name)
		require.Len(t, s.Models, 1)
		assert.Equal(t, "github.com/acme/bikes/graph/model", s.Models[0].Package.Path)

		bikes := s.APIs[0].Fields[1]
		assert.Equal(t, "*model.Bike", s.APIs[0].Fields[0].Type.Source(s.API.Path))
		assert.Equal(t, "[]*model.Bike", bikes.Type.Source(s.API.Path))
		require.Len(t, bikes.Args, 2)
		assert.Equal(t, "first", bikes.Args[0].GoName)
		assert.True(t, bikes.Args[0].HasDefault)
		assert.Equal(t, "10", bikes.Args[0].Default)
		assert.Equal(t, "typeArg", bikes.Args[1].GoName)
		assert.Nil(t, s.Resolver)
	})

	t.Run("generateApis false", func(t *testing.T) {
		s := mustBuild(t, sdl, config.WithGenerateAPIs(false))
		assert.Empty(t, s.APIs)
		require.Len(t, s.Roots, 3)
		assert.Len(t, s.Roots[0].Fields, 2)
		require.Len(t, s.Models, 1)
		assert.Equal(t, "Bike", s.Models[0].Name)
	})

	t.Run("subscription wrappers", func(t *testing.T) {
		s := mustBuild(t, sdl, config.WithSubscriptionReturnType("chan"))
		assert.Equal(t, "<-chan *Bike", s.APIs[2].Fields[0].Type.Source(s.API.Path))
		assert.Nil(t, s.APIs[0].Fields[0].Type.Wrapper)

		s = mustBuild(t, sdl, config.WithSubscriptionReturnType("github.com/acme/stream.Publisher"))
		assert.Equal(t, "stream.Publisher[*Bike]", s.APIs[2].Fields[0].Type.Source(s.API.Path))

		_, err := build(t, sdl, config.WithSubscriptionReturnType("*stream.Publisher"))
		assert.ErrorIs(t, err, gqlcodegen.ErrInvalidConfig)
	})

	t.Run("resolver package", func(t *testing.T) {
		s := mustBuild(t, sdl, config.WithResolverPackage("resolver"))
		require.NotNil(t, s.Resolver)
		assert.Equal(t, "github.com/acme/bikes/graph/resolver", s.Resolver.Path)
		assert.Equal(t, "resolver", s.Resolver.Dir)
	})
}

func TestAbstractTypes(t *testing.T) {
	s := mustBuild(t, `
interface Node { id: ID! }
interface Named implements Node { id: ID!, name: String }
type Bike implements Node & Named { id: ID!, name: String }
type Car implements Node { id: ID! }
union Vehicle = Bike | Car
`, config.WithModelNamePrefix("Gql"))
	assert.Equal(t, []string{"GqlNode", "GqlNamed", "GqlVehicle"}, model(t, s, "GqlBike").Implements)
	assert.Equal(t, []string{"GqlNode", "GqlVehicle"}, model(t, s, "GqlCar").Implements)
	assert.Equal(t, []string{"GqlNamed", "GqlBike", "GqlCar"}, model(t, s, "GqlNode").Members)
	assert.Equal(t, []string{"GqlBike", "GqlCar"}, model(t, s, "GqlVehicle").Members)
}

func TestDeprecation(t *testing.T) {
	s := mustBuild(t, `
type Bike { model: String @deprecated(reason: "use name"), name: String }
enum Color { RED @deprecated, BLUE }
`)
	bike := model(t, s, "Bike")
	assert.True(t, bike.Fields[0].IsDeprecated)
	assert.Equal(t, "use name", bike.Fields[0].Deprecated)
	assert.False(t, bike.Fields[1].IsDeprecated)

	color := s.Models[1]
	assert.True(t, color.Values[0].IsDeprecated)
	assert.Equal(t, "No longer supported", color.Values[0].Deprecated)
}

func TestNameValidation(t *testing.T) {
	_, err := build(t, "type Bike { id: ID }", config.WithModelNameSuffix("-TO"))
	var cerr *gqlcodegen.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "modelNameSuffix", cerr.Option)
}

func TestPackageName(t *testing.T) {
	tests := map[string]string{
		"github.com/acme/bikes/graph": "graph",
		"github.com/google/uuid":      "uuid",
		"gopkg.in/yaml.v3":            "yaml",
		"github.com/acme/api/v2":      "api",
		"math/big":                    "big",
		"github.com/acme/go-bikes":    "bikes",
		"github.com/acme/my-models":   "my_models",
		"example.com/3d":              "_3d",
	}
	for in, want := range tests {
		assert.Equal(t, want, PackageName(in), in)
	}
}

func TestBuiltin(t *testing.T) {
	s := mustBuild(t, `
scalar Date
enum Color { RED }
type Bike { a: String!, b: String, c: Color!, d: [Int!]!, e: Date! }
`, config.WithCustomType("Date", "time.Time"))
	bike := model(t, s, "Bike")
	assert.True(t, field(t, bike, "a").Type.Builtin())
	assert.False(t, field(t, bike, "b").Type.Builtin())
	assert.True(t, field(t, bike, "c").Type.Builtin())
	assert.False(t, field(t, bike, "d").Type.Builtin())
	assert.False(t, field(t, bike, "e").Type.Builtin())
}

func TestPackagePaths(t *testing.T) {
	s := mustBuild(t, "type Query { ok: Boolean }",
		config.WithAPIPackage("api"),
		config.WithModelPackage("model"),
		config.WithResolverPackage("internal/resolver"),
	)
	cfg := s.Config
	assert.Equal(t, cfg.PackageName, s.Root.Path)
	assert.Equal(t, cfg.APIPath(), s.API.Path)
	assert.Equal(t, cfg.ModelPath(), s.Model.Path)
	assert.Equal(t, cfg.ResolverPath(), s.Resolver.Path)
	assert.Equal(t, "internal/resolver", s.Resolver.Dir)
	assert.Equal(t, "resolver", s.Resolver.Name)

	s = mustBuild(t, "type Query { ok: Boolean }")
	assert.Same(t, s.Root, s.Model)
	assert.Same(t, s.Root, s.API)
	assert.Equal(t, s.Config.ModelPath(), s.Model.Path)
}

func TestNameConflicts(t *testing.T) {
	tests := []struct {
		name string
		sdl  string
		want NameConflictError
	}{
		{
			name: "fields",
			sdl:  "type User { user_id: ID!, userId: ID }",
			want: NameConflictError{Scope: "User", GoName: "UserID", First: "user_id", Second: "userId"},
		},
		{
			name: "enum values",
			sdl:  "enum Size { a_b, A_B }",
			want: NameConflictError{Scope: "Size", GoName: "SizeAB", First: "a_b", Second: "A_B"},
		},
		{
			name: "arguments",
			sdl:  "type Query { bikes(owner_id: ID, ownerId: ID): Int }",
			want: NameConflictError{Scope: "Query.bikes", GoName: "ownerID", First: "owner_id", Second: "ownerId"},
		},
		{
			name: "enum constant and type",
			sdl:  "enum Color { RED } type ColorRed { id: ID! }",
			want: NameConflictError{Scope: "github.com/acme/bikes/graph", GoName: "ColorRed", First: "ColorRed", Second: "Color.RED"},
		},
		{
			name: "enum list and type",
			sdl:  "enum Color { RED } type AllColor { id: ID! }",
			want: NameConflictError{Scope: "github.com/acme/bikes/graph", GoName: "AllColor", First: "AllColor", Second: "Color"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := build(t, tt.sdl)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNameConflict)
			var nerr *NameConflictError
			require.ErrorAs(t, err, &nerr)
			assert.Equal(t, tt.want, *nerr)
		})
	}

	t.Run("scopes are independent", func(t *testing.T) {
		_, err := build(t, "enum Color { RED } type ColorRed { id: ID! }", config.WithModelPackage("model"))
		assert.ErrorIs(t, err, ErrNameConflict)

		_, err = build(t, "type User { user_id: ID! } type Bike { userId: ID }")
		assert.NoError(t, err)
	})

	t.Run("message", func(t *testing.T) {
		err := &NameConflictError{Scope: "User", GoName: "UserID", First: "user_id", Second: "userId"}
		assert.Equal(t, "gqlcodegen: user_id and userId both map to UserID in User", err.Error())
	})
}
