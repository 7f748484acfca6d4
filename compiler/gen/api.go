package gen

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/gqlcodegen/compiler/mapping"
)

// api declares the interface of a root operation type. Every field becomes
// a method taking a context and the field arguments.
func (b *builder) api(f *jen.File, rt *mapping.ResolvedType) {
	typeDoc(f, rt, rt.Name+" is the "+string(rt.Operation)+" API.")
	f.Type().Id(rt.Name).InterfaceFunc(func(g *jen.Group) {
		for i, fd := range rt.Fields {
			if i > 0 {
				g.Line()
			}
			methodDoc(g, rt, fd)
			g.Id(fd.GoName).Add(signature(fd))
		}
	})
}

func methodDoc(g *jen.Group, rt *mapping.ResolvedType, fd *mapping.ResolvedField) {
	desc := fd.Def.Description
	if desc == "" {
		desc = fd.GoName + " resolves " + rt.Def.Name + "." + fd.Name + "."
	}
	comment(g, desc)
	var defaults []string
	for _, a := range fd.Args {
		if a.HasDefault {
			defaults = append(defaults, a.GoName+" defaults to "+a.Default+".")
		}
	}
	if len(defaults) > 0 {
		g.Comment("//")
		g.Comment(strings.Join(defaults, " "))
	}
	if fd.IsDeprecated {
		deprecated(g, true, fd.Deprecated)
	}
}

// signature returns the parameters and results of an API method.
func signature(fd *mapping.ResolvedField) *jen.Statement {
	return jen.ParamsFunc(func(g *jen.Group) {
		g.Id("ctx").Qual("context", "Context")
		for _, a := range fd.Args {
			g.Id(a.GoName).Add(typeCode(a.Type))
		}
	}).Params(typeCode(fd.Type), jen.Error())
}

// resolver declares a stub implementation of an API interface.
func (b *builder) resolver(f *jen.File, rt *mapping.ResolvedType) {
	name := rt.Name + "Resolver"
	iface := jen.Qual(rt.Package.Path, rt.Name)
	f.Commentf("%s implements %s.", name, rt.Name)
	f.Type().Id(name).Struct()
	f.Line()
	f.Var().Id("_").Add(iface).Op("=").Parens(jen.Op("*").Id(name)).Parens(jen.Nil())
	for _, fd := range rt.Fields {
		f.Line()
		f.Commentf("%s resolves %s.%s.", fd.GoName, rt.Def.Name, fd.Name)
		f.Func().Params(jen.Op("*").Id(name)).Id(fd.GoName).Add(signature(fd)).Block(
			jen.Panic(jen.Lit("not implemented")),
		)
	}
}
