package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/syssam/gqlcodegen"
)

const schemaURL = "mem://gqlcodegen/config.schema.json"

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func fileSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// LoadFile reads a configuration file. Files ending in .yaml or .yml are
// decoded as YAML, anything else as JSON. The document is validated before
// decoding: unknown keys and values of the wrong type are rejected.
func LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by configuration
	if err != nil {
		return nil, &gqlcodegen.ConfigLoadError{Path: path, Message: "cannot read file", Cause: err}
	}
	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, &gqlcodegen.ConfigLoadError{Path: path, Message: "malformed document", Cause: err}
	}
	if doc == nil {
		return &Settings{}, nil
	}
	// Round-trip through JSON so YAML documents are validated and decoded
	// with the same types as JSON ones.
	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, &gqlcodegen.ConfigLoadError{Path: path, Message: "malformed document", Cause: err}
	}
	var instance any
	if err := json.Unmarshal(normalized, &instance); err != nil {
		return nil, &gqlcodegen.ConfigLoadError{Path: path, Message: "malformed document", Cause: err}
	}
	sch, err := fileSchema()
	if err != nil {
		return nil, &gqlcodegen.ConfigLoadError{Path: path, Message: "compile configuration schema", Cause: err}
	}
	if err := sch.Validate(instance); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return nil, &gqlcodegen.ConfigLoadError{Path: path, Message: "invalid configuration", Cause: leafError(verr)}
		}
		return nil, &gqlcodegen.ConfigLoadError{Path: path, Message: "invalid configuration", Cause: err}
	}
	s := &Settings{}
	if err := json.Unmarshal(normalized, s); err != nil {
		return nil, &gqlcodegen.ConfigLoadError{Path: path, Message: "decode configuration", Cause: err}
	}
	return s, nil
}

// leafError reduces a validation error to its first concrete cause.
func leafError(verr *jsonschema.ValidationError) error {
	leaf := verr
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	loc := leaf.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return errors.New(loc + ": " + leaf.Message)
}

// Resolve produces the configuration of a run from directly supplied
// settings. When direct names a configuration file, the file is loaded and
// merged underneath: direct values win.
func Resolve(direct *Settings) (*Config, error) {
	if direct == nil {
		direct = &Settings{}
	}
	merged := direct
	if direct.JSONConfigurationFile != "" {
		file, err := LoadFile(direct.JSONConfigurationFile)
		if err != nil {
			return nil, err
		}
		merged = direct.Merge(file)
	}
	return merged.Build()
}
