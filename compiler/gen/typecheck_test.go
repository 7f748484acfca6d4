package gen

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/gqlcodegen/config"
)

// typeCheck parses the units and type-checks them package by package.
// Packages of the generated tree are checked before the packages importing
// them; everything else comes from the standard importer.
func typeCheck(t *testing.T, units []*Unit) map[string]*types.Package {
	t.Helper()
	fset := token.NewFileSet()
	files := make(map[string][]*ast.File)
	for _, u := range units {
		src, err := u.Source()
		require.NoError(t, err, u.Path)
		f, err := parser.ParseFile(fset, u.Path, src, parser.ParseComments)
		require.NoError(t, err, string(src))
		files[u.Package.Path] = append(files[u.Package.Path], f)
	}

	checked := make(map[string]*types.Package)
	std := importer.Default()
	imp := importerFunc(func(path string) (*types.Package, error) {
		if pkg, ok := checked[path]; ok {
			return pkg, nil
		}
		return std.Import(path)
	})
	ready := func(fs []*ast.File) bool {
		for _, f := range fs {
			for _, spec := range f.Imports {
				p, _ := strconv.Unquote(spec.Path.Value)
				if _, gen := files[p]; gen && checked[p] == nil {
					return false
				}
			}
		}
		return true
	}

	pending := make([]string, 0, len(files))
	for p := range files {
		pending = append(pending, p)
	}
	sort.Strings(pending)
	for len(pending) > 0 {
		var next []string
		for _, p := range pending {
			if !ready(files[p]) {
				next = append(next, p)
				continue
			}
			conf := types.Config{Importer: imp}
			pkg, err := conf.Check(p, fset, files[p], nil)
			require.NoError(t, err, p)
			checked[p] = pkg
		}
		require.Less(t, len(next), len(pending), "import cycle in %v", next)
		pending = next
	}
	return checked
}

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) { return f(path) }

func TestGeneratedSourcesTypeCheck(t *testing.T) {
	const abstractSchema = `
interface Node { id: ID! }
interface Vehicle implements Node { id: ID!, wheels: Int! }
type Bike implements Node & Vehicle { id: ID!, wheels: Int!, owner: Owner, tags: [String!] }
type Car implements Node & Vehicle { id: ID!, wheels: Int! }
union Owner = Person | Shop
type Person { name: String!, age: Int }
type Shop { name: String!, items: [Item] }
union Item = Bike | Car
type Query { node(id: ID!): Node, owners(first: Int = 10): [Owner!]! }
`
	tests := []struct {
		name string
		sdl  string
		opts []config.Option
		pkgs []string
	}{
		{
			name: "single package",
			sdl:  bikeSchema,
			opts: []config.Option{
				config.WithModelNameSuffix("TO"),
				config.WithEqualsAndHashCode(true),
				config.WithToString(true),
			},
			pkgs: []string{"github.com/acme/bikes/graph"},
		},
		{
			name: "split packages with resolvers",
			sdl:  bikeSchema,
			opts: []config.Option{
				config.WithAPIPackage("api"),
				config.WithModelPackage("model"),
				config.WithResolverPackage("resolver"),
				config.WithEqualsAndHashCode(true),
				config.WithToString(true),
			},
			pkgs: []string{
				"github.com/acme/bikes/graph/api",
				"github.com/acme/bikes/graph/model",
				"github.com/acme/bikes/graph/resolver",
			},
		},
		{
			name: "channel subscriptions",
			sdl:  bikeSchema,
			opts: []config.Option{
				config.WithModelPackage("model"),
				config.WithResolverPackage("resolver"),
				config.WithSubscriptionReturnType("chan"),
			},
			pkgs: []string{
				"github.com/acme/bikes/graph",
				"github.com/acme/bikes/graph/model",
				"github.com/acme/bikes/graph/resolver",
			},
		},
		{
			name: "interfaces and unions",
			sdl:  abstractSchema,
			opts: []config.Option{
				config.WithModelPackage("model"),
				config.WithEqualsAndHashCode(true),
				config.WithToString(true),
			},
			pkgs: []string{
				"github.com/acme/bikes/graph",
				"github.com/acme/bikes/graph/model",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checked := typeCheck(t, mustUnits(t, tt.sdl, tt.opts...))
			got := make([]string, 0, len(checked))
			for p := range checked {
				got = append(got, p)
			}
			sort.Strings(got)
			require.Equal(t, tt.pkgs, got)
		})
	}

	t.Run("resolvers implement the apis", func(t *testing.T) {
		checked := typeCheck(t, mustUnits(t, bikeSchema,
			config.WithModelPackage("model"),
			config.WithResolverPackage("resolver"),
		))
		graph := checked["github.com/acme/bikes/graph"]
		resolver := checked["github.com/acme/bikes/graph/resolver"]
		for _, name := range []string{"Query", "Mutation", "Subscription"} {
			iface, ok := graph.Scope().Lookup(name).Type().Underlying().(*types.Interface)
			require.True(t, ok, name)
			impl := types.NewPointer(resolver.Scope().Lookup(name + "Resolver").Type())
			require.True(t, types.Implements(impl, iface), name)
		}
	})
}
