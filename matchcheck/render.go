package matchcheck

import (
	"strings"

	"github.com/cottand/matchck/frontend/ast"
	"github.com/cottand/matchck/frontend/types"
)

// Render turns a canonical pattern back into source syntax.
// Record fields that are wildcards are elided with `..`.
func Render(p *Pat) string {
	sb := &strings.Builder{}
	render(sb, p)
	return sb.String()
}

func renderList(sb *strings.Builder, pats []*Pat) {
	for i, p := range pats {
		if i > 0 {
			sb.WriteString(", ")
		}
		render(sb, p)
	}
}

func render(sb *strings.Builder, p *Pat) {
	switch p.Kind {
	case PatWild, PatOpaque:
		sb.WriteString("_")
	case PatOr:
		for i, alt := range p.Alts {
			if i > 0 {
				sb.WriteString(" | ")
			}
			render(sb, alt)
		}
	case PatCtor:
		renderCtor(sb, p)
	}
}

func renderCtor(sb *strings.Builder, p *Pat) {
	switch p.Ctor.Kind {
	case CtorHidden, CtorUnknown:
		sb.WriteString("_")
	case CtorTrue:
		sb.WriteString("true")
	case CtorFalse:
		sb.WriteString("false")
	case CtorRef:
		sb.WriteString("&")
		render(sb, p.Fields[0])
	case CtorSliceExact:
		sb.WriteString("[")
		renderList(sb, p.Fields)
		sb.WriteString("]")
	case CtorSliceVar:
		sb.WriteString("[")
		parts := make([]string, 0, len(p.Fields)+1)
		for _, f := range p.Fields[:p.Ctor.Prefix] {
			parts = append(parts, Render(f))
		}
		parts = append(parts, "..")
		for _, f := range p.Fields[p.Ctor.Prefix:] {
			parts = append(parts, Render(f))
		}
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString("]")
	case CtorSingle:
		switch t := p.Ty.(type) {
		case *types.Tuple:
			sb.WriteString("(")
			renderList(sb, p.Fields)
			if len(p.Fields) == 1 {
				sb.WriteString(",")
			}
			sb.WriteString(")")
		case *types.Array:
			sb.WriteString("[")
			renderList(sb, p.Fields)
			sb.WriteString("]")
		case *types.Adt:
			renderAdt(sb, t.Def.Name, t.Def.Variants[0], p.Fields)
		default:
			sb.WriteString("_")
		}
	case CtorVariant:
		def := p.Ty.(*types.Adt).Def
		v := def.Variants[p.Ctor.Index]
		renderAdt(sb, def.Name+"::"+v.Name, v, p.Fields)
	}
}

func renderAdt(sb *strings.Builder, name string, v types.VariantDef, fields []*Pat) {
	sb.WriteString(name)
	switch v.Shape {
	case ast.TupleFields:
		sb.WriteString("(")
		renderList(sb, fields)
		sb.WriteString(")")
	case ast.RecordFields:
		if len(fields) == 0 {
			sb.WriteString(" {}")
			return
		}
		var shown []string
		for i, f := range fields {
			if f.isWildLike() {
				continue
			}
			shown = append(shown, v.Fields[i].Name+": "+Render(f))
		}
		if len(shown) < len(fields) {
			shown = append(shown, "..")
		}
		sb.WriteString(" { " + strings.Join(shown, ", ") + " }")
	}
}
