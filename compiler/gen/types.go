package gen

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/gqlcodegen/compiler/mapping"
)

// typeCode returns the Jennifer code of a mapped type, wrapper included.
func typeCode(t *mapping.TargetType) *jen.Statement {
	code := levelCode(t)
	switch w := t.Wrapper; {
	case w == nil:
		return code
	case w.Chan:
		return jen.Op("<-").Chan().Add(code)
	default:
		return ident(w.Path, w.Ident).Types(code)
	}
}

func levelCode(t *mapping.TargetType) *jen.Statement {
	s := jen.Null()
	if t.Pointer {
		s.Op("*")
	}
	if t.Elem != nil {
		return s.Index().Add(levelCode(t.Elem))
	}
	if t.Modifier != "" {
		s.Op(t.Modifier)
	}
	return s.Add(ident(t.Path, t.Ident))
}

// ident returns a possibly qualified identifier. Jennifer drops the
// qualifier when path is the package of the file being rendered.
func ident(path, name string) *jen.Statement {
	if path == "" {
		return jen.Id(name)
	}
	return jen.Qual(path, name)
}

// comment adds a doc comment, one line comment per line of text.
func comment(g *jen.Group, text string) {
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if line = strings.TrimRight(line, " \t\r"); line == "" {
			g.Comment("//")
			continue
		}
		g.Comment(line)
	}
}

// deprecated adds a "Deprecated:" paragraph, separated from a preceding doc
// comment by an empty comment line.
func deprecated(g *jen.Group, described bool, reason string) {
	if described {
		g.Comment("//")
	}
	g.Comment("Deprecated: " + reason)
}

// receiver returns the receiver name of methods on a generated type.
func receiver(name string) string {
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' {
			return string(r)
		}
	}
	return "v"
}
