package config

import (
	"errors"
	"maps"
	"strings"

	"github.com/syssam/gqlcodegen"
)

// Option configures Settings.
type Option func(*Settings) error

// NewSettings returns settings with the given options applied.
func NewSettings(opts ...Option) (*Settings, error) {
	s := &Settings{}
	if err := s.Apply(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// Apply applies options to the settings.
// It returns the first error encountered.
func (s *Settings) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (s *Settings) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithSchemaPaths adds schema files, directories or glob patterns.
func WithSchemaPaths(paths ...string) Option {
	return func(s *Settings) error {
		for _, p := range paths {
			if strings.TrimSpace(p) == "" {
				return gqlcodegen.NewConfigError("graphqlSchemaPaths", nil, "schema path cannot be empty")
			}
		}
		s.GraphqlSchemaPaths = append(s.GraphqlSchemaPaths, paths...)
		return nil
	}
}

// WithOutputDir sets the root directory of the generated tree.
// It is created if absent.
func WithOutputDir(dir string) Option {
	return func(s *Settings) error {
		if dir == "" {
			return gqlcodegen.NewConfigError("outputDir", nil, "output directory cannot be empty")
		}
		s.OutputDir = dir
		return nil
	}
}

// WithPackageName sets the Go import path of the output directory.
// For example: "github.com/org/project/graph".
func WithPackageName(pkg string) Option {
	return func(s *Settings) error {
		if pkg == "" {
			return gqlcodegen.NewConfigError("packageName", nil, "package cannot be empty")
		}
		s.PackageName = pkg
		return nil
	}
}

// WithAPIPackage sets the API package, relative to the root package.
func WithAPIPackage(pkg string) Option {
	return func(s *Settings) error {
		s.APIPackageName = pkg
		return nil
	}
}

// WithModelPackage sets the model package, relative to the root package.
func WithModelPackage(pkg string) Option {
	return func(s *Settings) error {
		s.ModelPackageName = pkg
		return nil
	}
}

// WithResolverPackage enables resolver stubs in the given package, relative
// to the root package.
func WithResolverPackage(pkg string) Option {
	return func(s *Settings) error {
		s.ResolverPackageName = pkg
		return nil
	}
}

// WithAPIImports adds import paths available to type mappings used by the
// API package.
func WithAPIImports(paths ...string) Option {
	return func(s *Settings) error {
		s.APIPackageImports = append(s.APIPackageImports, paths...)
		return nil
	}
}

// WithModelImports adds import paths available to type mappings used by the
// model package.
func WithModelImports(paths ...string) Option {
	return func(s *Settings) error {
		s.ModelPackageImports = append(s.ModelPackageImports, paths...)
		return nil
	}
}

// WithModelNamePrefix sets the prefix prepended to every model type name.
func WithModelNamePrefix(prefix string) Option {
	return func(s *Settings) error {
		s.ModelNamePrefix = prefix
		return nil
	}
}

// WithModelNameSuffix sets the suffix appended to every model type name.
func WithModelNameSuffix(suffix string) Option {
	return func(s *Settings) error {
		s.ModelNameSuffix = suffix
		return nil
	}
}

// WithSubscriptionReturnType sets the wrapper of subscription results.
// "chan" yields receive-only channels; any other type expression is used as
// a generic type instantiated with the field type.
func WithSubscriptionReturnType(t string) Option {
	return func(s *Settings) error {
		s.SubscriptionReturnType = t
		return nil
	}
}

// WithGenerateAPIs toggles API interface generation. Enabled by default.
func WithGenerateAPIs(enabled bool) Option {
	return func(s *Settings) error {
		s.GenerateApis = &enabled
		return nil
	}
}

// WithModelValidationAnnotation sets the struct tag fragment added to every
// non-null model field, e.g. `validate:"required"`.
func WithModelValidationAnnotation(tag string) Option {
	return func(s *Settings) error {
		if _, err := ParseTags(tag); err != nil {
			return gqlcodegen.NewConfigError("modelValidationAnnotation", tag, err.Error())
		}
		s.ModelValidationAnnotation = tag
		return nil
	}
}

// WithEqualsAndHashCode toggles generation of Equal and HashCode methods.
func WithEqualsAndHashCode(enabled bool) Option {
	return func(s *Settings) error {
		s.GenerateEqualsAndHashCode = &enabled
		return nil
	}
}

// WithToString toggles generation of String methods on models.
func WithToString(enabled bool) Option {
	return func(s *Settings) error {
		s.GenerateToString = &enabled
		return nil
	}
}

// WithCustomType maps a schema type name, or a single field written as
// "Type.field", to a Go type expression such as "time.Time" or
// "github.com/google/uuid.UUID".
func WithCustomType(key, goType string) Option {
	return WithCustomTypes(map[string]string{key: goType})
}

// WithCustomTypes adds several custom type mappings.
func WithCustomTypes(mapping map[string]string) Option {
	return func(s *Settings) error {
		for k, v := range mapping {
			if err := mappingEntry("customTypesMapping", k, v); err != nil {
				return err
			}
		}
		if s.CustomTypesMapping == nil {
			s.CustomTypesMapping = make(map[string]string, len(mapping))
		}
		maps.Copy(s.CustomTypesMapping, mapping)
		return nil
	}
}

// WithCustomAnnotation attaches a struct tag fragment to the fields of a
// type, or to one field written as "Type.field".
func WithCustomAnnotation(key, tag string) Option {
	return WithCustomAnnotations(map[string]string{key: tag})
}

// WithCustomAnnotations adds several custom annotation mappings.
func WithCustomAnnotations(mapping map[string]string) Option {
	return func(s *Settings) error {
		for k, v := range mapping {
			if err := mappingEntry("customAnnotationsMapping", k, v); err != nil {
				return err
			}
			if _, err := ParseTags(v); err != nil {
				return gqlcodegen.NewConfigError("customAnnotationsMapping."+k, v, err.Error())
			}
		}
		if s.CustomAnnotationsMapping == nil {
			s.CustomAnnotationsMapping = make(map[string]string, len(mapping))
		}
		maps.Copy(s.CustomAnnotationsMapping, mapping)
		return nil
	}
}

// WithJSONConfigurationFile sets a configuration file whose values apply
// wherever no value is set directly.
func WithJSONConfigurationFile(path string) Option {
	return func(s *Settings) error {
		s.JSONConfigurationFile = path
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(s *Settings) error {
		s.Header = header
		return nil
	}
}
