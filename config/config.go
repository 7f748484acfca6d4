// Package config holds the generation settings.
//
// Settings is the raw, user-facing surface: it is what options, command-line
// flags and configuration files produce, and every field may be unset.
// Config is the defaulted and validated form built from it once per run; the
// pipeline only ever reads a Config.
package config

import (
	"maps"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/syssam/gqlcodegen"
)

// DefaultHeader is written at the top of every generated file.
const DefaultHeader = "Code generated by gqlcodegen. DO NOT EDIT."

// Settings mirrors the recognized configuration keys. Strings are unset when
// empty, booleans when nil and slices when nil.
type Settings struct {
	GraphqlSchemaPaths        []string          `json:"graphqlSchemaPaths,omitempty" yaml:"graphqlSchemaPaths,omitempty"`
	OutputDir                 string            `json:"outputDir,omitempty" yaml:"outputDir,omitempty"`
	PackageName               string            `json:"packageName,omitempty" yaml:"packageName,omitempty"`
	APIPackageName            string            `json:"apiPackageName,omitempty" yaml:"apiPackageName,omitempty"`
	APIPackageImports         []string          `json:"apiPackageImports,omitempty" yaml:"apiPackageImports,omitempty"`
	ModelPackageName          string            `json:"modelPackageName,omitempty" yaml:"modelPackageName,omitempty"`
	ModelPackageImports       []string          `json:"modelPackageImports,omitempty" yaml:"modelPackageImports,omitempty"`
	ResolverPackageName       string            `json:"resolverPackageName,omitempty" yaml:"resolverPackageName,omitempty"`
	ModelNamePrefix           string            `json:"modelNamePrefix,omitempty" yaml:"modelNamePrefix,omitempty"`
	ModelNameSuffix           string            `json:"modelNameSuffix,omitempty" yaml:"modelNameSuffix,omitempty"`
	SubscriptionReturnType    string            `json:"subscriptionReturnType,omitempty" yaml:"subscriptionReturnType,omitempty"`
	GenerateApis              *bool             `json:"generateApis,omitempty" yaml:"generateApis,omitempty"`
	ModelValidationAnnotation string            `json:"modelValidationAnnotation,omitempty" yaml:"modelValidationAnnotation,omitempty"`
	GenerateEqualsAndHashCode *bool             `json:"generateEqualsAndHashCode,omitempty" yaml:"generateEqualsAndHashCode,omitempty"`
	GenerateToString          *bool             `json:"generateToString,omitempty" yaml:"generateToString,omitempty"`
	CustomTypesMapping        map[string]string `json:"customTypesMapping,omitempty" yaml:"customTypesMapping,omitempty"`
	CustomAnnotationsMapping  map[string]string `json:"customAnnotationsMapping,omitempty" yaml:"customAnnotationsMapping,omitempty"`
	JSONConfigurationFile     string            `json:"jsonConfigurationFile,omitempty" yaml:"jsonConfigurationFile,omitempty"`
	Header                    string            `json:"header,omitempty" yaml:"header,omitempty"`
}

// Merge returns the combination of s (settings supplied directly) and file
// (settings read from a configuration file). Neither input is modified.
//
// Precedence: a value set in s always wins. Unset values in s take the value
// from file. Maps are merged key-wise, with the entry from s winning on a
// conflicting key. A non-nil slice in s replaces the slice from file.
// JSONConfigurationFile is only ever taken from s.
func (s *Settings) Merge(file *Settings) *Settings {
	m := s.clone()
	if file == nil {
		return m
	}
	str := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	str(&m.OutputDir, file.OutputDir)
	str(&m.PackageName, file.PackageName)
	str(&m.APIPackageName, file.APIPackageName)
	str(&m.ModelPackageName, file.ModelPackageName)
	str(&m.ResolverPackageName, file.ResolverPackageName)
	str(&m.ModelNamePrefix, file.ModelNamePrefix)
	str(&m.ModelNameSuffix, file.ModelNameSuffix)
	str(&m.SubscriptionReturnType, file.SubscriptionReturnType)
	str(&m.ModelValidationAnnotation, file.ModelValidationAnnotation)
	str(&m.Header, file.Header)

	list := func(dst *[]string, v []string) {
		if *dst == nil && v != nil {
			*dst = slices.Clone(v)
		}
	}
	list(&m.GraphqlSchemaPaths, file.GraphqlSchemaPaths)
	list(&m.APIPackageImports, file.APIPackageImports)
	list(&m.ModelPackageImports, file.ModelPackageImports)

	flag := func(dst **bool, v *bool) {
		if *dst == nil && v != nil {
			b := *v
			*dst = &b
		}
	}
	flag(&m.GenerateApis, file.GenerateApis)
	flag(&m.GenerateEqualsAndHashCode, file.GenerateEqualsAndHashCode)
	flag(&m.GenerateToString, file.GenerateToString)

	m.CustomTypesMapping = mergeMap(m.CustomTypesMapping, file.CustomTypesMapping)
	m.CustomAnnotationsMapping = mergeMap(m.CustomAnnotationsMapping, file.CustomAnnotationsMapping)
	return m
}

// mergeMap returns the union of direct and file, direct winning on conflicts.
func mergeMap(direct, file map[string]string) map[string]string {
	if len(file) == 0 {
		return direct
	}
	m := make(map[string]string, len(direct)+len(file))
	maps.Copy(m, file)
	maps.Copy(m, direct)
	return m
}

func (s *Settings) clone() *Settings {
	c := *s
	c.GraphqlSchemaPaths = slices.Clone(s.GraphqlSchemaPaths)
	c.APIPackageImports = slices.Clone(s.APIPackageImports)
	c.ModelPackageImports = slices.Clone(s.ModelPackageImports)
	c.CustomTypesMapping = maps.Clone(s.CustomTypesMapping)
	c.CustomAnnotationsMapping = maps.Clone(s.CustomAnnotationsMapping)
	for _, p := range []**bool{&c.GenerateApis, &c.GenerateEqualsAndHashCode, &c.GenerateToString} {
		if *p != nil {
			b := **p
			*p = &b
		}
	}
	return &c
}

// Config is the resolved configuration of one generation run. It is built by
// Settings.Build and must not be modified afterwards.
type Config struct {
	SchemaPaths []string
	// OutputDir is the root directory of the generated tree.
	OutputDir string
	// PackageName is the Go import path of OutputDir.
	PackageName string
	// APIPackage, ModelPackage and ResolverPackage are slash-separated paths
	// relative to PackageName. Empty means the root package, except for
	// ResolverPackage where empty disables resolver stubs.
	APIPackage      string
	ModelPackage    string
	ResolverPackage string
	// APIImports and ModelImports are import paths used to qualify short
	// package names in custom type mappings.
	APIImports   []string
	ModelImports []string

	ModelNamePrefix           string
	ModelNameSuffix           string
	SubscriptionReturnType    string
	ModelValidationAnnotation string

	GenerateAPIs              bool
	GenerateEqualsAndHashCode bool
	GenerateToString          bool

	// CustomTypes maps a type name or "Type.field" to a Go type expression.
	CustomTypes map[string]string
	// CustomAnnotations maps a type name or "Type.field" to a struct tag fragment.
	CustomAnnotations map[string]string

	Header string
}

// Build validates the settings and returns the defaulted configuration.
func (s *Settings) Build() (*Config, error) {
	if s.OutputDir == "" {
		return nil, gqlcodegen.NewConfigError("outputDir", nil, "output directory is required")
	}
	var paths []string
	for _, p := range s.GraphqlSchemaPaths {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil, gqlcodegen.NewConfigError("graphqlSchemaPaths", nil, "at least one schema path is required")
	}
	c := &Config{
		SchemaPaths:               paths,
		OutputDir:                 filepath.Clean(s.OutputDir),
		PackageName:               strings.Trim(s.PackageName, "/"),
		APIImports:                slices.Clone(s.APIPackageImports),
		ModelImports:              slices.Clone(s.ModelPackageImports),
		ModelNamePrefix:           s.ModelNamePrefix,
		ModelNameSuffix:           s.ModelNameSuffix,
		SubscriptionReturnType:    strings.TrimSpace(s.SubscriptionReturnType),
		ModelValidationAnnotation: strings.TrimSpace(s.ModelValidationAnnotation),
		GenerateAPIs:              s.GenerateApis == nil || *s.GenerateApis,
		GenerateEqualsAndHashCode: s.GenerateEqualsAndHashCode != nil && *s.GenerateEqualsAndHashCode,
		GenerateToString:          s.GenerateToString != nil && *s.GenerateToString,
		CustomTypes:               make(map[string]string, len(s.CustomTypesMapping)),
		CustomAnnotations:         make(map[string]string, len(s.CustomAnnotationsMapping)),
		Header:                    s.Header,
	}
	if c.Header == "" {
		c.Header = DefaultHeader
	}
	if c.PackageName == "" {
		abs, err := filepath.Abs(c.OutputDir)
		if err != nil {
			return nil, gqlcodegen.NewConfigError("packageName", nil, "cannot derive package from outputDir: "+err.Error())
		}
		c.PackageName = filepath.Base(abs)
	}
	var err error
	if c.APIPackage, err = subPackage("apiPackageName", s.APIPackageName); err != nil {
		return nil, err
	}
	if c.ModelPackage, err = subPackage("modelPackageName", s.ModelPackageName); err != nil {
		return nil, err
	}
	if c.ResolverPackage, err = subPackage("resolverPackageName", s.ResolverPackageName); err != nil {
		return nil, err
	}
	for k, v := range s.CustomTypesMapping {
		if err := mappingEntry("customTypesMapping", k, v); err != nil {
			return nil, err
		}
		c.CustomTypes[k] = strings.TrimSpace(v)
	}
	for k, v := range s.CustomAnnotationsMapping {
		if err := mappingEntry("customAnnotationsMapping", k, v); err != nil {
			return nil, err
		}
		if _, err := ParseTags(v); err != nil {
			return nil, gqlcodegen.NewConfigError("customAnnotationsMapping."+k, v, err.Error())
		}
		c.CustomAnnotations[k] = strings.TrimSpace(v)
	}
	if c.ModelValidationAnnotation != "" {
		if _, err := ParseTags(c.ModelValidationAnnotation); err != nil {
			return nil, gqlcodegen.NewConfigError("modelValidationAnnotation", c.ModelValidationAnnotation, err.Error())
		}
	}
	return c, nil
}

// subPackage normalizes a package path relative to the root package.
func subPackage(option, p string) (string, error) {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" || p == "." {
		return "", nil
	}
	clean := path.Clean(p)
	if strings.HasPrefix(clean, "../") || clean == ".." || strings.Contains(p, "\\") {
		return "", gqlcodegen.NewConfigError(option, p, "package must be a path inside the output package")
	}
	return clean, nil
}

func mappingEntry(option, k, v string) error {
	if strings.TrimSpace(k) == "" {
		return gqlcodegen.NewConfigError(option, nil, "mapping key cannot be empty")
	}
	if strings.TrimSpace(v) == "" {
		return gqlcodegen.NewConfigError(option+"."+k, nil, "mapping value cannot be empty")
	}
	return nil
}

// APIPath returns the import path of the API package.
func (c *Config) APIPath() string { return c.join(c.APIPackage) }

// ModelPath returns the import path of the model package.
func (c *Config) ModelPath() string { return c.join(c.ModelPackage) }

// ResolverPath returns the import path of the resolver package, or "" when
// resolver stubs are disabled.
func (c *Config) ResolverPath() string {
	if c.ResolverPackage == "" {
		return ""
	}
	return c.join(c.ResolverPackage)
}

func (c *Config) join(sub string) string {
	if sub == "" {
		return c.PackageName
	}
	return path.Join(c.PackageName, sub)
}
