package ast

import (
	"log/slog"
	"strconv"
	"strings"
)

// PatternString renders a surface pattern back to source-like syntax
func PatternString(p Pattern) string {
	ctx := &strings.Builder{}
	showPattern(ctx, p)
	return ctx.String()
}

// TypeString renders a type annotation back to source-like syntax
func TypeString(t Type) string {
	ctx := &strings.Builder{}
	showType(ctx, t)
	return ctx.String()
}

// Slog wraps a Pattern as a slog.LogValuer to not render pattern strings
// unless they definitely need to be logged
func Slog(p Pattern) slog.LogValuer {
	return patLogValuer{p}
}

type patLogValuer struct{ Pattern }

func (l patLogValuer) LogValue() slog.Value {
	return slog.StringValue(PatternString(l.Pattern))
}

func showList[A any](ctx *strings.Builder, elems []A, show func(*strings.Builder, A)) {
	for i, elem := range elems {
		if i > 0 {
			ctx.WriteString(", ")
		}
		show(ctx, elem)
	}
}

func showPath(ctx *strings.Builder, p Path) {
	for i, segment := range p.Segments {
		if i > 0 {
			ctx.WriteString("::")
		}
		ctx.WriteString(segment)
		if i == 0 && len(p.Args) > 0 {
			ctx.WriteString("::<")
			showList(ctx, p.Args, showType)
			ctx.WriteString(">")
		}
	}
}

func showLiteral(ctx *strings.Builder, l Literal) {
	switch l.Kind {
	case LitChar:
		ctx.WriteString("'" + l.Value + "'")
	case LitStr:
		ctx.WriteString(`"` + l.Value + `"`)
	default:
		ctx.WriteString(l.Value)
	}
}

func showPattern(ctx *strings.Builder, p Pattern) {
	switch p := p.(type) {
	case nil:
		ctx.WriteString("<missing>")
	case *WildPat:
		ctx.WriteString("_")
	case *RestPat:
		ctx.WriteString("..")
	case *IdentPat:
		if p.ByRef {
			ctx.WriteString("ref ")
		}
		if p.Mut {
			ctx.WriteString("mut ")
		}
		ctx.WriteString(p.Name)
		if p.Sub != nil {
			ctx.WriteString(" @ ")
			showPattern(ctx, p.Sub)
		}
	case *LitPat:
		if p.Negative {
			ctx.WriteString("-")
		}
		showLiteral(ctx, p.Literal)
	case *RangePat:
		if p.Lo != nil {
			showPattern(ctx, p.Lo)
		}
		if p.Inclusive {
			ctx.WriteString("..=")
		} else {
			ctx.WriteString("..")
		}
		if p.Hi != nil {
			showPattern(ctx, p.Hi)
		}
	case *PathPat:
		showPath(ctx, p.Path)
	case *TupleStructPat:
		showPath(ctx, p.Path)
		ctx.WriteString("(")
		showList(ctx, p.Elems, showPattern)
		ctx.WriteString(")")
	case *RecordPat:
		showPath(ctx, p.Path)
		ctx.WriteString(" { ")
		showList(ctx, p.Fields, func(ctx *strings.Builder, f FieldPat) {
			if f.Pat == nil {
				if f.ByRef {
					ctx.WriteString("ref ")
				}
				ctx.WriteString(f.Name)
				return
			}
			ctx.WriteString(f.Name + ": ")
			showPattern(ctx, f.Pat)
		})
		if p.Rest {
			if len(p.Fields) > 0 {
				ctx.WriteString(", ")
			}
			ctx.WriteString("..")
		}
		ctx.WriteString(" }")
	case *TuplePat:
		ctx.WriteString("(")
		showList(ctx, p.Elems, showPattern)
		if len(p.Elems) == 1 {
			ctx.WriteString(",")
		}
		ctx.WriteString(")")
	case *ParenPat:
		ctx.WriteString("(")
		showPattern(ctx, p.Inner)
		ctx.WriteString(")")
	case *RefPat:
		ctx.WriteString("&")
		if p.Mut {
			ctx.WriteString("mut ")
		}
		showPattern(ctx, p.Inner)
	case *OrPat:
		for i, alt := range p.Alts {
			if i > 0 {
				ctx.WriteString(" | ")
			}
			showPattern(ctx, alt)
		}
	case *SlicePat:
		ctx.WriteString("[")
		showList(ctx, p.Elems, showPattern)
		ctx.WriteString("]")
	default:
		ctx.WriteString("<unknown pattern>")
	}
}

func showType(ctx *strings.Builder, t Type) {
	switch t := t.(type) {
	case nil:
		ctx.WriteString("()")
	case *PathType:
		ctx.WriteString(strings.Join(t.Segments, "::"))
		if len(t.Args) > 0 {
			ctx.WriteString("<")
			showList(ctx, t.Args, showType)
			ctx.WriteString(">")
		}
	case *TupleType:
		ctx.WriteString("(")
		showList(ctx, t.Elems, showType)
		if len(t.Elems) == 1 {
			ctx.WriteString(",")
		}
		ctx.WriteString(")")
	case *RefType:
		ctx.WriteString("&")
		if t.Mut {
			ctx.WriteString("mut ")
		}
		showType(ctx, t.Inner)
	case *SliceType:
		ctx.WriteString("[")
		showType(ctx, t.Elem)
		ctx.WriteString("]")
	case *ArrayType:
		ctx.WriteString("[")
		showType(ctx, t.Elem)
		ctx.WriteString("; " + strconv.Itoa(t.Len) + "]")
	case *NeverType:
		ctx.WriteString("!")
	default:
		ctx.WriteString("<unknown type>")
	}
}
