package lower

import (
	"github.com/benbjohnson/immutable"
	"github.com/cottand/matchck/frontend/ast"
	"github.com/cottand/matchck/frontend/types"
)

type symbolKind uint8

const (
	symAdt symbolKind = iota
	symVariant
	symFn
	symLocal
	symCrate
)

// symbol is what a name refers to
type symbol struct {
	kind    symbolKind
	adt     *types.AdtDef
	variant int
	fn      *fnSig
	local   types.Type
	crate   *crate
}

// isCtor reports whether the symbol names a struct or a variant
func (s symbol) isCtor() bool {
	switch s.kind {
	case symAdt:
		return !s.adt.IsEnum()
	case symVariant:
		return true
	default:
		return false
	}
}

type fnSig struct {
	decl   *ast.FnDecl
	params []types.Type
	ret    types.Type
}

type names = *immutable.Map[string, symbol]

func emptyNames() names {
	return immutable.NewMap[string, symbol](immutable.NewHasher(""))
}

// env is the lexical environment of a name lookup. Both maps are persistent, so entering
// a block or binding a local builds a new env and leaves the enclosing one untouched.
type env struct {
	crate *crate
	items names
	// locals shadow items
	locals names
	// generics are the type parameters in scope, by position
	generics []string
}

func (e env) withLocal(name string, t types.Type) env {
	e.locals = e.locals.Set(name, symbol{kind: symLocal, local: t})
	return e
}

func (e env) withItem(name string, s symbol) env {
	e.items = e.items.Set(name, s)
	return e
}

// lookup finds a single-segment name
func (e env) lookup(name string) (symbol, bool) {
	if s, ok := e.locals.Get(name); ok {
		return s, true
	}
	if s, ok := e.items.Get(name); ok {
		return s, true
	}
	if name == "crate" {
		return symbol{kind: symCrate, crate: e.crate}, true
	}
	for _, dep := range e.crate.deps {
		if dep.name == name {
			return symbol{kind: symCrate, crate: dep}, true
		}
	}
	return symbol{}, false
}

// itemsOnly is the env seen by an item nested in a block: outer items, but no locals
func (e env) itemsOnly() env {
	e.locals = emptyNames()
	e.generics = nil
	return e
}

// resolveSegments follows a path from its first segment
func (e env) resolveSegments(segments []string) (symbol, bool) {
	if len(segments) == 0 {
		return symbol{}, false
	}
	var s symbol
	var ok bool
	if len(segments) == 1 {
		s, ok = e.lookup(segments[0])
	} else {
		// qualified paths never start at a local
		s, ok = e.itemsOnly().lookup(segments[0])
	}
	if !ok {
		return symbol{}, false
	}
	for _, segment := range segments[1:] {
		switch s.kind {
		case symCrate:
			s, ok = s.crate.root.Get(segment)
			if !ok {
				return symbol{}, false
			}
		case symAdt:
			i := s.adt.VariantIndex(segment)
			if !s.adt.IsEnum() || i < 0 {
				return symbol{}, false
			}
			s = symbol{kind: symVariant, adt: s.adt, variant: i}
		default:
			return symbol{}, false
		}
	}
	return s, true
}
