// Package schema holds the in-memory form of a GraphQL schema as seen by the
// code generator.
//
// A [Document] is produced once per run by the parser and is not modified
// afterwards. The type resolver works on a [Document.Clone] and fills in the
// [RefKind] of every [TypeRef]:
//
//	Loader (files)  ->  Parser  ->  Document
//	                                   |
//	                                Resolver  ->  annotated Document + symbols
//
// Type references are plain names, never pointers to definitions, so a type
// that refers to itself (directly or through other types) needs no special
// handling:
//
//	type Category {
//	    parent: Category
//	    children: [Category!]!
//	}
//
// # Nullability and lists
//
// A [TypeRef] is a chain: every list level is a TypeRef whose Elem holds the
// item type, and each level carries its own NonNull flag. [String!] and
// [String]! are therefore different chains:
//
//	[String!]   -> {NonNull: false, Elem: {Name: "String", NonNull: true}}
//	[String]!   -> {NonNull: true,  Elem: {Name: "String", NonNull: false}}
package schema
