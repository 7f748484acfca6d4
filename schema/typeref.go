package schema

import "strings"

// RefKind classifies what a type reference resolves to.
type RefKind uint8

// Reference kinds. The zero value means the reference was not resolved yet.
const (
	RefUnresolved RefKind = iota
	RefBuiltinScalar
	RefCustomScalar
	RefObject
	RefInput
	RefInterface
	RefUnion
	RefEnum
)

var refKindNames = [...]string{
	RefUnresolved:    "unresolved",
	RefBuiltinScalar: "builtin-scalar",
	RefCustomScalar:  "custom-scalar",
	RefObject:        "object",
	RefInput:         "input",
	RefInterface:     "interface",
	RefUnion:         "union",
	RefEnum:          "enum",
}

// String returns the name of the reference kind.
func (k RefKind) String() string {
	if int(k) < len(refKindNames) {
		return refKindNames[k]
	}
	return "invalid"
}

// RefKindOf returns the reference kind for a definition kind.
func RefKindOf(k Kind) RefKind {
	switch k {
	case Object:
		return RefObject
	case Input:
		return RefInput
	case Interface:
		return RefInterface
	case Union:
		return RefUnion
	case Enum:
		return RefEnum
	case Scalar:
		return RefCustomScalar
	}
	return RefUnresolved
}

// TypeRef is a reference to a type as written in a field or argument
// declaration. A list level has a non-nil Elem and no Name.
type TypeRef struct {
	Name    string
	NonNull bool
	Elem    *TypeRef
	// Kind is set by the resolver on the named (innermost) reference.
	Kind RefKind
}

// Named creates a reference to a named type.
func Named(name string, nonNull bool) *TypeRef {
	return &TypeRef{Name: name, NonNull: nonNull}
}

// ListOf creates a list reference around elem.
func ListOf(elem *TypeRef, nonNull bool) *TypeRef {
	return &TypeRef{Elem: elem, NonNull: nonNull}
}

// IsList reports whether the reference is a list level.
func (t *TypeRef) IsList() bool {
	return t.Elem != nil
}

// Depth returns the list nesting depth: 0 for a named type, N for N nested lists.
func (t *TypeRef) Depth() int {
	n := 0
	for r := t; r.Elem != nil; r = r.Elem {
		n++
	}
	return n
}

// Named returns the innermost, named reference.
func (t *TypeRef) Named() *TypeRef {
	r := t
	for r.Elem != nil {
		r = r.Elem
	}
	return r
}

// TypeName returns the name of the innermost referenced type.
func (t *TypeRef) TypeName() string {
	return t.Named().Name
}

// Clone returns a deep copy of the reference chain.
func (t *TypeRef) Clone() *TypeRef {
	if t == nil {
		return nil
	}
	c := *t
	c.Elem = t.Elem.Clone()
	return &c
}

// String renders the reference in SDL syntax, e.g. [String!]!.
func (t *TypeRef) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *TypeRef) write(b *strings.Builder) {
	if t.Elem != nil {
		b.WriteByte('[')
		t.Elem.write(b)
		b.WriteByte(']')
	} else {
		b.WriteString(t.Name)
	}
	if t.NonNull {
		b.WriteByte('!')
	}
}
