package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/gqlcodegen/compiler/mapping"
	"github.com/syssam/gqlcodegen/schema"
)

// typeDoc writes the doc comment of a generated type.
func typeDoc(f *jen.File, rt *mapping.ResolvedType, fallback string) {
	desc := rt.Def.Description
	if desc == "" {
		desc = fallback
	}
	comment(f.Group, desc)
	if rt.Deprecated != "" {
		deprecated(f.Group, true, rt.Deprecated)
	}
}

// model declares the struct of an object or input type.
func (b *builder) model(f *jen.File, rt *mapping.ResolvedType) {
	kind := "object"
	if rt.Kind == schema.Input {
		kind = "input"
	}
	typeDoc(f, rt, rt.Name+" is the "+rt.Def.Name+" "+kind+" type.")
	f.Type().Id(rt.Name).StructFunc(func(g *jen.Group) {
		for _, fd := range rt.Fields {
			if fd.Def.Description != "" {
				comment(g, fd.Def.Description)
			}
			if fd.IsDeprecated {
				deprecated(g, fd.Def.Description != "", fd.Deprecated)
			}
			g.Id(fd.GoName).Add(typeCode(fd.Type)).Tag(fd.Tags)
		}
	})
	for _, name := range rt.Implements {
		f.Line()
		f.Func().Params(jen.Id(rt.Name)).Id(marker(name)).Params().Block()
	}
	cfg := b.schema.Config
	if cfg.GenerateEqualsAndHashCode {
		f.Line()
		equal(f, rt)
		f.Line()
		hashCode(f, rt)
	}
	if cfg.GenerateToString {
		f.Line()
		toString(f, rt)
	}
}

// marker returns the marker method of an interface or union type.
func marker(name string) string {
	return "Is" + name
}

// equal declares a nil-safe field-wise comparison. Predeclared comparable
// fields are compared with ==, everything else with reflect.DeepEqual.
func equal(f *jen.File, rt *mapping.ResolvedType) {
	recv := receiver(rt.Name)
	f.Commentf("Equal reports whether %s and other hold equal field values.", recv)
	f.Func().Params(jen.Id(recv).Op("*").Id(rt.Name)).Id("Equal").Params(jen.Id("other").Op("*").Id(rt.Name)).Bool().BlockFunc(func(g *jen.Group) {
		g.If(jen.Id(recv).Op("==").Nil().Op("||").Id("other").Op("==").Nil()).Block(
			jen.Return(jen.Id(recv).Op("==").Id("other")),
		)
		if len(rt.Fields) == 0 {
			g.Return(jen.True())
			return
		}
		var cond *jen.Statement
		for _, fd := range rt.Fields {
			var c *jen.Statement
			if fd.Type.Builtin() {
				c = jen.Id(recv).Dot(fd.GoName).Op("==").Id("other").Dot(fd.GoName)
			} else {
				c = jen.Qual("reflect", "DeepEqual").Call(jen.Id(recv).Dot(fd.GoName), jen.Id("other").Dot(fd.GoName))
			}
			if cond == nil {
				cond = c
				continue
			}
			cond = cond.Op("&&").Line().Add(c)
		}
		g.Return(cond)
	})
}

// hashCode declares a hash consistent with Equal: the FNV-1a hash of the
// JSON encoding of the value.
func hashCode(f *jen.File, rt *mapping.ResolvedType) {
	recv := receiver(rt.Name)
	f.Commentf("HashCode returns a hash of %s. Values that are Equal have the same hash.", recv)
	f.Func().Params(jen.Id(recv).Op("*").Id(rt.Name)).Id("HashCode").Params().Uint64().Block(
		jen.If(jen.Id(recv).Op("==").Nil()).Block(jen.Return(jen.Lit(0))),
		jen.Id("hash").Op(":=").Qual("hash/fnv", "New64a").Call(),
		jen.Id("_").Op("=").Qual("encoding/json", "NewEncoder").Call(jen.Id("hash")).Dot("Encode").Call(jen.Id(recv)),
		jen.Return(jen.Id("hash").Dot("Sum64").Call()),
	)
}

// toString declares String. Nil values render as null. Scalars and enums
// behind a pointer are dereferenced; models print through their own String.
func toString(f *jen.File, rt *mapping.ResolvedType) {
	recv := receiver(rt.Name)
	f.Commentf("String returns the field values of %s in schema order.", rt.Name)
	f.Func().Params(jen.Id(recv).Op("*").Id(rt.Name)).Id("String").Params().String().BlockFunc(func(g *jen.Group) {
		g.If(jen.Id(recv).Op("==").Nil()).Block(jen.Return(jen.Lit("null")))
		g.Var().Id("buf").Qual("strings", "Builder")
		g.Id("buf").Dot("WriteString").Call(jen.Lit(rt.Name + "("))
		for i, fd := range rt.Fields {
			label := fd.Name + "="
			if i > 0 {
				label = ", " + label
			}
			g.Id("buf").Dot("WriteString").Call(jen.Lit(label))
			value := jen.Id(recv).Dot(fd.GoName)
			t := fd.Type
			switch {
			case t.Pointer && !t.IsList() && t.Ref != schema.RefObject && t.Ref != schema.RefInput:
				g.If(value.Clone().Op("==").Nil()).Block(
					jen.Id("buf").Dot("WriteString").Call(jen.Lit("null")),
				).Else().Block(
					jen.Qual("fmt", "Fprint").Call(jen.Op("&").Id("buf"), jen.Op("*").Add(value)),
				)
			case t.Pointer || t.NilAble || t.IsList():
				g.If(value.Clone().Op("==").Nil()).Block(
					jen.Id("buf").Dot("WriteString").Call(jen.Lit("null")),
				).Else().Block(
					jen.Qual("fmt", "Fprint").Call(jen.Op("&").Id("buf"), value),
				)
			default:
				g.Qual("fmt", "Fprint").Call(jen.Op("&").Id("buf"), value)
			}
		}
		g.Id("buf").Dot("WriteString").Call(jen.Lit(")"))
		g.Return(jen.Id("buf").Dot("String").Call())
	})
}

// enum declares a string type with one constant per value.
func (b *builder) enum(f *jen.File, rt *mapping.ResolvedType) {
	typeDoc(f, rt, rt.Name+" is the "+rt.Def.Name+" enum type.")
	f.Type().Id(rt.Name).String()
	f.Line()
	f.Comment(rt.Name + " values.")
	f.Const().DefsFunc(func(g *jen.Group) {
		for _, v := range rt.Values {
			if v.Def.Description != "" {
				comment(g, v.Def.Description)
			}
			if v.IsDeprecated {
				deprecated(g, v.Def.Description != "", v.Deprecated)
			}
			g.Id(v.GoName).Id(rt.Name).Op("=").Lit(v.Name)
		}
	})
	f.Line()
	f.Commentf("All%s lists every %s value in schema order.", rt.Name, rt.Name)
	f.Var().Id("All"+rt.Name).Op("=").Index().Id(rt.Name).ValuesFunc(func(g *jen.Group) {
		for _, v := range rt.Values {
			g.Line().Id(v.GoName)
		}
		g.Line()
	})
	recv := receiver(rt.Name)
	f.Line()
	f.Commentf("IsValid reports whether %s is a declared %s value.", recv, rt.Name)
	f.Func().Params(jen.Id(recv).Id(rt.Name)).Id("IsValid").Params().Bool().BlockFunc(func(g *jen.Group) {
		if len(rt.Values) == 0 {
			g.Return(jen.False())
			return
		}
		g.Switch(jen.Id(recv)).Block(
			jen.CaseFunc(func(c *jen.Group) {
				for _, v := range rt.Values {
					c.Id(v.GoName)
				}
			}).Block(jen.Return(jen.True())),
		)
		g.Return(jen.False())
	})
	f.Line()
	f.Func().Params(jen.Id(recv).Id(rt.Name)).Id("String").Params().String().Block(
		jen.Return(jen.String().Call(jen.Id(recv))),
	)
}

// abstract declares the Go interface of an interface or union type. Members
// satisfy it through a marker method.
func (b *builder) abstract(f *jen.File, rt *mapping.ResolvedType) {
	kind := "interface"
	if rt.Kind == schema.Union {
		kind = "union"
	}
	typeDoc(f, rt, rt.Name+" is the "+rt.Def.Name+" "+kind+" type.")
	f.Type().Id(rt.Name).InterfaceFunc(func(g *jen.Group) {
		for _, name := range rt.Implements {
			g.Id(name)
		}
		g.Id(marker(rt.Name)).Params()
	})
}
