package gqlcodegen

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for the failure classes of a generation run.
var (
	// ErrSchemaNotFound is returned when no schema file could be resolved from the configured paths.
	ErrSchemaNotFound = errors.New("gqlcodegen: schema not found")

	// ErrSchemaSyntax is returned when a schema document is not valid SDL.
	ErrSchemaSyntax = errors.New("gqlcodegen: schema syntax error")

	// ErrDuplicateType is returned when the same type name is declared twice.
	ErrDuplicateType = errors.New("gqlcodegen: duplicate type")

	// ErrUnresolvedType is returned when a type reference points to an unknown type.
	ErrUnresolvedType = errors.New("gqlcodegen: unresolved type")

	// ErrConfigLoad is returned when a configuration file cannot be read or decoded.
	ErrConfigLoad = errors.New("gqlcodegen: config load failed")

	// ErrInvalidConfig is returned when a configuration value is rejected.
	ErrInvalidConfig = errors.New("gqlcodegen: invalid configuration")

	// ErrOutputWrite is returned when a generated file cannot be written.
	ErrOutputWrite = errors.New("gqlcodegen: output write failed")
)

// Stage names one step of the generation pipeline.
type Stage string

// Pipeline stages, in execution order.
const (
	StageConfig  Stage = "config"
	StageLoad    Stage = "load"
	StageParse   Stage = "parse"
	StageResolve Stage = "resolve"
	StageMap     Stage = "map"
	StageEmit    Stage = "emit"
)

// Position locates a token in a schema source.
type Position struct {
	File   string
	Line   int
	Column int
}

// String returns "file:line:column", omitting the unknown parts.
func (p Position) String() string {
	var b strings.Builder
	if p.File != "" {
		b.WriteString(p.File)
	}
	if p.Line > 0 {
		if b.Len() > 0 {
			b.WriteByte(':')
		}
		fmt.Fprintf(&b, "%d", p.Line)
		if p.Column > 0 {
			fmt.Fprintf(&b, ":%d", p.Column)
		}
	}
	return b.String()
}

// SchemaNotFoundError reports that the configured paths resolved to no schema file.
type SchemaNotFoundError struct {
	Paths []string
	Cause error
}

// Error implements the error interface.
func (e *SchemaNotFoundError) Error() string {
	var b strings.Builder
	b.WriteString("gqlcodegen: schema not found")
	if len(e.Paths) > 0 {
		b.WriteString(" in ")
		b.WriteString(strings.Join(e.Paths, ", "))
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaNotFoundError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrSchemaNotFound.
func (e *SchemaNotFoundError) Is(target error) bool {
	return target == ErrSchemaNotFound
}

// SchemaSyntaxError reports malformed SDL.
type SchemaSyntaxError struct {
	Position
	Message string
}

// Error implements the error interface.
func (e *SchemaSyntaxError) Error() string {
	if pos := e.Position.String(); pos != "" {
		return fmt.Sprintf("gqlcodegen: syntax error at %s: %s", pos, e.Message)
	}
	return "gqlcodegen: syntax error: " + e.Message
}

// Is reports whether the target matches ErrSchemaSyntax.
func (e *SchemaSyntaxError) Is(target error) bool {
	return target == ErrSchemaSyntax
}

// DuplicateTypeError reports a type name declared more than once.
type DuplicateTypeError struct {
	Name   string
	First  Position
	Second Position
}

// Error implements the error interface.
func (e *DuplicateTypeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "gqlcodegen: type %q declared more than once", e.Name)
	if first, second := e.First.String(), e.Second.String(); first != "" && second != "" {
		fmt.Fprintf(&b, " (%s and %s)", first, second)
	}
	return b.String()
}

// Is reports whether the target matches ErrDuplicateType.
func (e *DuplicateTypeError) Is(target error) bool {
	return target == ErrDuplicateType
}

// UnresolvedTypeError reports a reference to a type that is neither a
// built-in scalar, a declared scalar nor a declared type.
type UnresolvedTypeError struct {
	// TypeName is the name that could not be resolved.
	TypeName string
	// Owner is the type declaring the reference.
	Owner string
	// FieldName is the field (or "field.argument") holding the reference.
	// Empty for union members and implemented interfaces.
	FieldName string
	Message   string
}

// Error implements the error interface.
func (e *UnresolvedTypeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "gqlcodegen: unresolved type %q", e.TypeName)
	switch {
	case e.Owner != "" && e.FieldName != "":
		fmt.Fprintf(&b, " in field %s.%s", e.Owner, e.FieldName)
	case e.Owner != "":
		fmt.Fprintf(&b, " in type %s", e.Owner)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches ErrUnresolvedType.
func (e *UnresolvedTypeError) Is(target error) bool {
	return target == ErrUnresolvedType
}

// ConfigLoadError reports an unreadable or invalid configuration file.
type ConfigLoadError struct {
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigLoadError) Error() string {
	var b strings.Builder
	b.WriteString("gqlcodegen: load config")
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ConfigLoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrConfigLoad.
func (e *ConfigLoadError) Is(target error) bool {
	return target == ErrConfigLoad
}

// ConfigError represents a rejected configuration value.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("gqlcodegen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("gqlcodegen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// OutputWriteError reports a failure to write a generated file.
type OutputWriteError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *OutputWriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gqlcodegen: write %s: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("gqlcodegen: write %s", e.Path)
}

// Unwrap returns the underlying error.
func (e *OutputWriteError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrOutputWrite.
func (e *OutputWriteError) Is(target error) bool {
	return target == ErrOutputWrite
}

// StageError tags a failure with the pipeline stage that produced it.
type StageError struct {
	Stage Stage
	Cause error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Cause)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Cause
}

// NewStageError wraps err with the given stage. A nil err yields nil, and an
// error that already carries a stage is returned unchanged.
func NewStageError(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Cause: err}
}

// StageOf returns the stage recorded in err, if any.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// IsSchemaNotFound reports whether err is a SchemaNotFoundError.
func IsSchemaNotFound(err error) bool {
	var e *SchemaNotFoundError
	return errors.As(err, &e)
}

// IsSchemaSyntax reports whether err is a SchemaSyntaxError.
func IsSchemaSyntax(err error) bool {
	var e *SchemaSyntaxError
	return errors.As(err, &e)
}

// IsDuplicateType reports whether err is a DuplicateTypeError.
func IsDuplicateType(err error) bool {
	var e *DuplicateTypeError
	return errors.As(err, &e)
}

// IsUnresolvedType reports whether err is an UnresolvedTypeError.
func IsUnresolvedType(err error) bool {
	var e *UnresolvedTypeError
	return errors.As(err, &e)
}

// IsConfigLoad reports whether err is a ConfigLoadError.
func IsConfigLoad(err error) bool {
	var e *ConfigLoadError
	return errors.As(err, &e)
}

// IsConfigError reports whether err is a ConfigError.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// IsOutputWrite reports whether err is an OutputWriteError.
func IsOutputWrite(err error) bool {
	var e *OutputWriteError
	return errors.As(err, &e)
}
