package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/gqlcodegen"
)

func ptr[T any](v T) *T { return &v }

func TestBuildDefaults(t *testing.T) {
	s := &Settings{
		GraphqlSchemaPaths: []string{"schema", " "},
		OutputDir:          "out/graph/",
	}
	c, err := s.Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"schema"}, c.SchemaPaths)
	assert.Equal(t, filepath.Clean("out/graph"), c.OutputDir)
	assert.Equal(t, "graph", c.PackageName)
	assert.Equal(t, "graph", c.APIPath())
	assert.Equal(t, "graph", c.ModelPath())
	assert.Empty(t, c.ResolverPath())
	assert.True(t, c.GenerateAPIs)
	assert.False(t, c.GenerateEqualsAndHashCode)
	assert.False(t, c.GenerateToString)
	assert.Empty(t, c.ModelNamePrefix)
	assert.Empty(t, c.ModelNameSuffix)
	assert.Equal(t, DefaultHeader, c.Header)
}

func TestBuildPackages(t *testing.T) {
	s := &Settings{
		GraphqlSchemaPaths:  []string{"schema"},
		OutputDir:           "out",
		PackageName:         "github.com/acme/bikes/graph/",
		APIPackageName:      "api",
		ModelPackageName:    "/model/",
		ResolverPackageName: "internal/resolver",
		GenerateApis:        ptr(false),
		GenerateToString:    ptr(true),
	}
	c, err := s.Build()
	require.NoError(t, err)
	assert.Equal(t, "github.com/acme/bikes/graph/api", c.APIPath())
	assert.Equal(t, "github.com/acme/bikes/graph/model", c.ModelPath())
	assert.Equal(t, "github.com/acme/bikes/graph/internal/resolver", c.ResolverPath())
	assert.False(t, c.GenerateAPIs)
	assert.True(t, c.GenerateToString)
}

func TestBuildCopies(t *testing.T) {
	s := &Settings{
		GraphqlSchemaPaths:  []string{"schema"},
		OutputDir:           "out",
		ModelPackageImports: []string{"cloud.google.com/go/civil"},
		CustomTypesMapping:  map[string]string{"Date": "civil.Date"},
	}
	c, err := s.Build()
	require.NoError(t, err)

	s.CustomTypesMapping["Date"] = "time.Time"
	s.ModelPackageImports[0] = "time"
	assert.Equal(t, "civil.Date", c.CustomTypes["Date"])
	assert.Equal(t, []string{"cloud.google.com/go/civil"}, c.ModelImports)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		s      Settings
		option string
	}{
		{"no output dir", Settings{GraphqlSchemaPaths: []string{"s"}}, "outputDir"},
		{"no schema paths", Settings{OutputDir: "out"}, "graphqlSchemaPaths"},
		{"escaping package", Settings{GraphqlSchemaPaths: []string{"s"}, OutputDir: "out", APIPackageName: "../api"}, "apiPackageName"},
		{"empty mapping value", Settings{GraphqlSchemaPaths: []string{"s"}, OutputDir: "out", CustomTypesMapping: map[string]string{"Date": " "}}, "customTypesMapping.Date"},
		{"bad annotation", Settings{GraphqlSchemaPaths: []string{"s"}, OutputDir: "out", CustomAnnotationsMapping: map[string]string{"Bike.id": "@NotNull"}}, "customAnnotationsMapping.Bike.id"},
		{"bad validation annotation", Settings{GraphqlSchemaPaths: []string{"s"}, OutputDir: "out", ModelValidationAnnotation: "validate=required"}, "modelValidationAnnotation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.s.Build()
			require.Error(t, err)
			var cerr *gqlcodegen.ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.option, cerr.Option)
			assert.ErrorIs(t, err, gqlcodegen.ErrInvalidConfig)
		})
	}
}

func TestMerge(t *testing.T) {
	direct := &Settings{
		OutputDir:          "direct-out",
		GraphqlSchemaPaths: []string{"direct.graphqls"},
		GenerateApis:       ptr(false),
		CustomTypesMapping: map[string]string{"Date": "time.Time", "UUID": "github.com/google/uuid.UUID"},
	}
	file := &Settings{
		OutputDir:                "file-out",
		PackageName:              "github.com/acme/graph",
		GraphqlSchemaPaths:       []string{"file.graphqls"},
		ModelPackageImports:      []string{"math/big"},
		GenerateApis:             ptr(true),
		GenerateToString:         ptr(true),
		CustomTypesMapping:       map[string]string{"Date": "civil.Date", "BigInt": "*math/big.Int"},
		CustomAnnotationsMapping: map[string]string{"Bike.id": `db:"id"`},
		JSONConfigurationFile:    "other.json",
	}
	m := direct.Merge(file)

	t.Run("direct wins on scalars", func(t *testing.T) {
		assert.Equal(t, "direct-out", m.OutputDir)
		assert.False(t, *m.GenerateApis)
	})
	t.Run("unset values come from file", func(t *testing.T) {
		assert.Equal(t, "github.com/acme/graph", m.PackageName)
		assert.True(t, *m.GenerateToString)
		assert.Equal(t, []string{"math/big"}, m.ModelPackageImports)
		assert.Equal(t, map[string]string{"Bike.id": `db:"id"`}, m.CustomAnnotationsMapping)
	})
	t.Run("slices are replaced", func(t *testing.T) {
		assert.Equal(t, []string{"direct.graphqls"}, m.GraphqlSchemaPaths)
	})
	t.Run("maps merge key-wise", func(t *testing.T) {
		assert.Equal(t, map[string]string{
			"Date":   "time.Time",
			"UUID":   "github.com/google/uuid.UUID",
			"BigInt": "*math/big.Int",
		}, m.CustomTypesMapping)
	})
	t.Run("configuration file is not chained", func(t *testing.T) {
		assert.Empty(t, m.JSONConfigurationFile)
	})
	t.Run("inputs are untouched", func(t *testing.T) {
		assert.Len(t, direct.CustomTypesMapping, 2)
		assert.Equal(t, "civil.Date", file.CustomTypesMapping["Date"])
		m.ModelPackageImports[0] = "changed"
		assert.Equal(t, "math/big", file.ModelPackageImports[0])
		*m.GenerateToString = false
		assert.True(t, *file.GenerateToString)
	})
	t.Run("nil file", func(t *testing.T) {
		c := direct.Merge(nil)
		assert.Equal(t, direct.CustomTypesMapping, c.CustomTypesMapping)
	})
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		path := writeConfig(t, "codegen.json", `{
  "graphqlSchemaPaths": ["schema"],
  "outputDir": "out",
  "modelNameSuffix": "TO",
  "generateEqualsAndHashCode": true,
  "customTypesMapping": {"Date": "time.Time"}
}`)
		s, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"schema"}, s.GraphqlSchemaPaths)
		assert.Equal(t, "TO", s.ModelNameSuffix)
		require.NotNil(t, s.GenerateEqualsAndHashCode)
		assert.True(t, *s.GenerateEqualsAndHashCode)
		assert.Nil(t, s.GenerateApis)
		assert.Equal(t, "time.Time", s.CustomTypesMapping["Date"])
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeConfig(t, "gqlcodegen.yaml", `
graphqlSchemaPaths:
  - schema/*.graphqls
outputDir: out
generateApis: false
customAnnotationsMapping:
  Bike.id: 'validate:"uuid"'
`)
		s, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"schema/*.graphqls"}, s.GraphqlSchemaPaths)
		require.NotNil(t, s.GenerateApis)
		assert.False(t, *s.GenerateApis)
		assert.Equal(t, `validate:"uuid"`, s.CustomAnnotationsMapping["Bike.id"])
	})

	t.Run("empty document", func(t *testing.T) {
		s, err := LoadFile(writeConfig(t, "empty.yaml", ""))
		require.NoError(t, err)
		assert.Equal(t, &Settings{}, s)
	})

	failures := []struct {
		name, file, content string
	}{
		{"malformed json", "c.json", `{"outputDir": `},
		{"malformed yaml", "c.yml", "outputDir: [unclosed"},
		{"unknown key", "c.json", `{"outputDirectory": "out"}`},
		{"wrong type", "c.json", `{"generateApis": "yes"}`},
		{"wrong map value", "c.yaml", "customTypesMapping:\n  Date: 3\n"},
		{"not an object", "c.json", `["schema"]`},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)
			_, err := LoadFile(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, gqlcodegen.ErrConfigLoad)
			var lerr *gqlcodegen.ConfigLoadError
			require.ErrorAs(t, err, &lerr)
			assert.Equal(t, path, lerr.Path)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
		assert.True(t, gqlcodegen.IsConfigLoad(err))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestResolve(t *testing.T) {
	path := writeConfig(t, "codegen.json", `{
  "graphqlSchemaPaths": ["from-file"],
  "outputDir": "file-out",
  "modelNameSuffix": "TO",
  "customTypesMapping": {"Date": "civil.Date", "DateTime": "time.Time"}
}`)
	direct, err := NewSettings(
		WithOutputDir("direct-out"),
		WithCustomType("Date", "time.Time"),
		WithJSONConfigurationFile(path),
	)
	require.NoError(t, err)

	c, err := Resolve(direct)
	require.NoError(t, err)
	assert.Equal(t, "direct-out", c.OutputDir)
	assert.Equal(t, []string{"from-file"}, c.SchemaPaths)
	assert.Equal(t, "TO", c.ModelNameSuffix)
	assert.Equal(t, map[string]string{"Date": "time.Time", "DateTime": "time.Time"}, c.CustomTypes)

	_, err = Resolve(&Settings{OutputDir: "out", JSONConfigurationFile: filepath.Join(t.TempDir(), "nope.json")})
	assert.ErrorIs(t, err, gqlcodegen.ErrConfigLoad)

	_, err = Resolve(nil)
	assert.ErrorIs(t, err, gqlcodegen.ErrInvalidConfig)
}
