package gen

import (
	"bytes"
	"path"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"

	"github.com/syssam/gqlcodegen/compiler/mapping"
	"github.com/syssam/gqlcodegen/schema"
)

// UnitKind tells what a unit declares.
type UnitKind uint8

// Unit kinds.
const (
	UnitModel UnitKind = iota + 1
	UnitAPI
	UnitResolver
)

func (k UnitKind) String() string {
	switch k {
	case UnitModel:
		return "model"
	case UnitAPI:
		return "api"
	case UnitResolver:
		return "resolver"
	}
	return "unknown"
}

// Unit is one generated file.
type Unit struct {
	// Path is the file path relative to the output directory, slash separated.
	Path    string
	Kind    UnitKind
	Package *mapping.Package
	Type    *mapping.ResolvedType
	File    *jen.File
}

// Render returns the gofmt'ed source of the unit.
func (u *Unit) Render() ([]byte, error) {
	var buf bytes.Buffer
	if err := u.File.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Source returns the unit as it is written to disk: rendered, then formatted.
func (u *Unit) Source() ([]byte, error) {
	src, err := u.Render()
	if err != nil {
		return nil, err
	}
	return format(u.Path, src)
}

// Units builds the files of a mapped schema: one per model type, one per
// API root type and one resolver stub per API when a resolver package is
// configured. Units is pure; the same schema always yields the same units.
func Units(s *mapping.Schema) ([]*Unit, error) {
	b := &builder{schema: s, paths: make(map[string]*Unit)}
	for _, rt := range s.Models {
		f := b.newFile(rt.Package)
		switch rt.Kind {
		case schema.Enum:
			b.enum(f, rt)
		case schema.Interface, schema.Union:
			b.abstract(f, rt)
		default:
			b.model(f, rt)
		}
		if err := b.add(&Unit{Kind: UnitModel, Package: rt.Package, Type: rt, File: f}, rt.Name); err != nil {
			return nil, err
		}
	}
	for _, rt := range s.APIs {
		f := b.newFile(rt.Package)
		b.api(f, rt)
		if err := b.add(&Unit{Kind: UnitAPI, Package: rt.Package, Type: rt, File: f}, rt.Name); err != nil {
			return nil, err
		}
	}
	if s.Resolver != nil {
		for _, rt := range s.APIs {
			f := b.newFile(s.Resolver)
			b.resolver(f, rt)
			if err := b.add(&Unit{Kind: UnitResolver, Package: s.Resolver, Type: rt, File: f}, rt.Name+"Resolver"); err != nil {
				return nil, err
			}
		}
	}
	return b.units, nil
}

type builder struct {
	schema *mapping.Schema
	units  []*Unit
	paths  map[string]*Unit
}

func (b *builder) newFile(pkg *mapping.Package) *jen.File {
	f := jen.NewFilePathName(pkg.Path, pkg.Name)
	for _, line := range strings.Split(b.schema.Config.Header, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			f.HeaderComment(line)
		}
	}
	for _, p := range []*mapping.Package{b.schema.Model, b.schema.API} {
		if p.Path != pkg.Path {
			f.ImportName(p.Path, p.Name)
		}
	}
	return f
}

func (b *builder) add(u *Unit, name string) error {
	u.Path = path.Join(u.Package.Dir, FileName(name))
	if prev, ok := b.paths[u.Path]; ok {
		return &FileConflictError{Path: u.Path, First: prev.Type.Def.Name, Second: u.Type.Def.Name}
	}
	b.paths[u.Path] = u
	b.units = append(b.units, u)
	return nil
}

// FileName returns the file name of a generated Go name: BikeTypeTO is
// written to bike_type_to.go.
func FileName(name string) string {
	return inflect.Underscore(collapseUpper(name)) + ".go"
}

// collapseUpper lowers the inner letters of upper case runs, so acronyms
// stay one word: "HTTPServerTO" becomes "HttpServerTo".
func collapseUpper(s string) string {
	rs := []rune(s)
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = r
		if i == 0 || !unicode.IsUpper(r) || !unicode.IsUpper(rs[i-1]) {
			continue
		}
		// The last capital of a run starts the next word.
		if i+1 < len(rs) && unicode.IsLower(rs[i+1]) {
			continue
		}
		out[i] = unicode.ToLower(r)
	}
	return string(out)
}
