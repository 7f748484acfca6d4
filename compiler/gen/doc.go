// Package gen emits Go source for a mapped GraphQL schema.
//
// # Architecture
//
// Emission happens in two steps:
//
//	mapping.Schema
//	        ↓
//	   Units (one jen.File per generated file, pure)
//	        ↓
//	   Writer (format, atomic write, parallel)
//	        ↓
//	   <outputDir>/...
//
// # Units
//
// Units never touch the file system. Every model type gets a unit in the
// model package:
//
//   - objects and inputs become structs with json tags, optional Equal,
//     HashCode and String methods, and marker methods for the interfaces
//     and unions they belong to
//   - enums become string types with one constant per value, an All list
//     and IsValid
//   - interfaces and unions become Go interfaces with a marker method
//
// With API generation enabled every root operation type gets an interface
// in the API package. When a resolver package is configured, a stub
// implementing that interface is generated next to it.
//
// File names are the snake case of the Go type name:
//
//	BikeTypeTO -> bike_type_to.go
//	Query      -> query.go (query_resolver.go for its stub)
//
// # Writing
//
// The Writer renders units on a bounded errgroup and runs a goimports
// formatting pass. A unit that fails to format is dumped next to its target
// as <file>.error. Files are written through a temporary file and a rename.
package gen
