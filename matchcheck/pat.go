package matchcheck

import (
	"log/slog"

	"github.com/cottand/matchck/frontend/types"
)

type PatKind uint8

const (
	PatWild PatKind = iota
	PatCtor
	PatOr
	// PatOpaque is a pattern the checker does not model. It forces abstention.
	PatOpaque
)

// Pat is a canonical pattern node: a wildcard, a constructor applied to one
// sub-pattern per field, an or-pattern or an opaque pattern.
// Pats are never mutated once built.
type Pat struct {
	Kind   PatKind
	Ctor   Constructor
	Fields []*Pat
	Alts   []*Pat
	Ty     types.Type
	// Reason explains why an opaque pattern could not be lowered
	Reason string
}

func Wild(t types.Type) *Pat {
	return &Pat{Kind: PatWild, Ty: t}
}

func NewCtor(c Constructor, t types.Type, fields ...*Pat) *Pat {
	return &Pat{Kind: PatCtor, Ctor: c, Ty: t, Fields: fields}
}

func NewOr(t types.Type, alts ...*Pat) *Pat {
	return &Pat{Kind: PatOr, Ty: t, Alts: alts}
}

func Opaque(t types.Type, reason string) *Pat {
	return &Pat{Kind: PatOpaque, Ty: t, Reason: reason}
}

func wilds(tys []types.Type) []*Pat {
	ret := make([]*Pat, len(tys))
	for i, t := range tys {
		ret[i] = Wild(t)
	}
	return ret
}

// FindOpaque returns the first opaque node in p, depth first, or nil
func (p *Pat) FindOpaque() *Pat {
	switch p.Kind {
	case PatOpaque:
		return p
	case PatCtor:
		for _, f := range p.Fields {
			if found := f.FindOpaque(); found != nil {
				return found
			}
		}
	case PatOr:
		for _, alt := range p.Alts {
			if found := alt.FindOpaque(); found != nil {
				return found
			}
		}
	}
	return nil
}

// isWildLike reports whether p matches every value, which holds for
// wildcards and for the placeholders used in witnesses
func (p *Pat) isWildLike() bool {
	return p.Kind == PatWild || p.Kind == PatCtor && (p.Ctor.Kind == CtorHidden || p.Ctor.Kind == CtorUnknown)
}

func (p *Pat) String() string {
	return Render(p)
}

// LogValue renders the pattern lazily
func (p *Pat) LogValue() slog.Value {
	return slog.StringValue(Render(p))
}
