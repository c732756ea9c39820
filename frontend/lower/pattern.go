package lower

import (
	"github.com/cottand/matchck/frontend/ast"
	"github.com/cottand/matchck/frontend/hir"
	"github.com/cottand/matchck/frontend/types"
)

// lowerPat resolves the paths of p. A single identifier naming a struct or variant in
// scope is a constructor pattern; any other identifier is a binding.
func (l *lowerer) lowerPat(e env, p ast.Pattern) hir.Pat {
	switch p := p.(type) {
	case *ast.WildPat:
		return &hir.WildPat{Range: p.Range}
	case *ast.IdentPat:
		if !p.ByRef && !p.Mut && p.Sub == nil {
			if s, ok := e.itemsOnly().lookup(p.Name); ok && s.isCtor() {
				path := ast.Path{Range: p.Range, Segments: []string{p.Name}}
				return &hir.CtorPat{Range: p.Range, Path: path, Def: hir.Def{Adt: s.adt, Variant: s.variant}, Shape: ast.UnitFields, RestIndex: -1}
			}
		}
		bind := &hir.BindPat{Range: p.Range, Name: p.Name, ByRef: p.ByRef}
		if p.Sub != nil {
			bind.Sub = l.lowerPat(e, p.Sub)
		}
		return bind
	case *ast.LitPat:
		value := p.Value
		if p.Negative {
			value = "-" + value
		}
		return &hir.LitPat{Range: p.Range, Kind: p.Kind, Value: value}
	case *ast.RangePat:
		return &hir.RangePat{Range: p.Range}
	case *ast.PathPat:
		return &hir.CtorPat{Range: p.Range, Path: p.Path, Def: l.resolveCtor(e, p.Path), Shape: ast.UnitFields, RestIndex: -1}
	case *ast.TupleStructPat:
		elems, restIndex, ok := l.lowerElems(e, p.Elems)
		if !ok {
			return &hir.MissingPat{Range: p.Range}
		}
		return &hir.CtorPat{Range: p.Range, Path: p.Path, Def: l.resolveCtor(e, p.Path), Shape: ast.TupleFields, Elems: elems, RestIndex: restIndex}
	case *ast.RecordPat:
		ctor := &hir.CtorPat{Range: p.Range, Path: p.Path, Def: l.resolveCtor(e, p.Path), Shape: ast.RecordFields, HasRest: p.Rest, RestIndex: -1}
		for _, f := range p.Fields {
			var sub hir.Pat
			if f.Pat == nil {
				sub = &hir.BindPat{Range: f.Range, Name: f.Name, ByRef: f.ByRef}
			} else {
				sub = l.lowerPat(e, f.Pat)
			}
			ctor.Fields = append(ctor.Fields, hir.FieldPat{Range: f.Range, Name: f.Name, Pat: sub})
		}
		return ctor
	case *ast.TuplePat:
		elems, restIndex, ok := l.lowerElems(e, p.Elems)
		if !ok {
			return &hir.MissingPat{Range: p.Range}
		}
		return &hir.TuplePat{Range: p.Range, Elems: elems, RestIndex: restIndex}
	case *ast.ParenPat:
		return l.lowerPat(e, p.Inner)
	case *ast.RefPat:
		return &hir.RefPat{Range: p.Range, Inner: l.lowerPat(e, p.Inner)}
	case *ast.OrPat:
		or := &hir.OrPat{Range: p.Range}
		for _, alt := range p.Alts {
			or.Alts = append(or.Alts, l.lowerPat(e, alt))
		}
		return or
	case *ast.SlicePat:
		elems, restIndex, ok := l.lowerElems(e, p.Elems)
		if !ok {
			return &hir.MissingPat{Range: p.Range}
		}
		if restIndex < 0 {
			return &hir.SlicePat{Range: p.Range, Prefix: elems}
		}
		return &hir.SlicePat{Range: p.Range, Prefix: elems[:restIndex], HasRest: true, Suffix: elems[restIndex:]}
	default:
		// a stray `..` outside of a list of patterns
		logger.Debug("pattern not lowered", "pattern", ast.Slog(p))
		return &hir.MissingPat{Range: ast.RangeOf(p)}
	}
}

func isRest(p ast.Pattern) bool {
	switch p := p.(type) {
	case *ast.RestPat:
		return true
	case *ast.IdentPat:
		// `rest @ ..` in slices
		return p.Sub != nil && isRest(p.Sub)
	default:
		return false
	}
}

// lowerElems lowers a list of patterns that may contain one `..`.
// restIndex is the number of patterns before the `..`, or -1.
func (l *lowerer) lowerElems(e env, pats []ast.Pattern) (elems []hir.Pat, restIndex int, ok bool) {
	restIndex = -1
	for _, p := range pats {
		if isRest(p) {
			if restIndex >= 0 {
				return nil, 0, false
			}
			restIndex = len(elems)
			continue
		}
		elems = append(elems, l.lowerPat(e, p))
	}
	return elems, restIndex, true
}

func (l *lowerer) resolveCtor(e env, path ast.Path) hir.Def {
	s, ok := e.itemsOnly().resolveSegments(path.Segments)
	if !ok || !s.isCtor() {
		logger.Debug("unresolved pattern path", "path", path.String())
		return hir.Def{}
	}
	return hir.Def{Adt: s.adt, Variant: s.variant}
}

// bindPat adds the bindings of p, matched against a value of type t, to e.
// Types are found on a best-effort basis and are Unknown where p and t disagree.
func (l *lowerer) bindPat(e env, p hir.Pat, t types.Type) env {
	switch p := p.(type) {
	case *hir.BindPat:
		bound := t
		if p.ByRef {
			bound = &types.Ref{Inner: t}
		}
		e = e.withLocal(p.Name, bound)
		if p.Sub != nil {
			e = l.bindPat(e, p.Sub, t)
		}
		return e
	case *hir.TuplePat:
		tuple, _ := deref(t).(*types.Tuple)
		var tys []types.Type
		if tuple != nil {
			tys = tuple.Elems
		}
		for i, elem := range p.Elems {
			e = l.bindPat(e, elem, elemType(tys, len(p.Elems), p.RestIndex, i))
		}
		return e
	case *hir.CtorPat:
		if !p.Def.Resolved() {
			return l.bindUnknown(e, p)
		}
		var args []types.Type
		if adt, ok := deref(t).(*types.Adt); ok && adt.Def == p.Def.Adt {
			args = adt.Args
		}
		tys := p.Def.Adt.FieldTypes(p.Def.Variant, args)
		for i, elem := range p.Elems {
			e = l.bindPat(e, elem, elemType(tys, len(p.Elems), p.RestIndex, i))
		}
		for _, f := range p.Fields {
			ft := types.Type(types.UnknownType)
			if i := p.Def.Adt.FieldIndex(p.Def.Variant, f.Name); i >= 0 {
				ft = tys[i]
			}
			e = l.bindPat(e, f.Pat, ft)
		}
		return e
	case *hir.RefPat:
		inner := types.Type(types.UnknownType)
		if ref, ok := t.(*types.Ref); ok {
			inner = ref.Inner
		}
		return l.bindPat(e, p.Inner, inner)
	case *hir.OrPat:
		if len(p.Alts) > 0 {
			return l.bindPat(e, p.Alts[0], t)
		}
		return e
	case *hir.SlicePat:
		elem := types.Type(types.UnknownType)
		switch st := deref(t).(type) {
		case *types.Slice:
			elem = st.Elem
		case *types.Array:
			elem = st.Elem
		}
		for _, sub := range append(append([]hir.Pat{}, p.Prefix...), p.Suffix...) {
			e = l.bindPat(e, sub, elem)
		}
		return e
	default:
		return e
	}
}

// bindUnknown binds every name in p to Unknown
func (l *lowerer) bindUnknown(e env, p *hir.CtorPat) env {
	for _, elem := range p.Elems {
		e = l.bindPat(e, elem, types.UnknownType)
	}
	for _, f := range p.Fields {
		e = l.bindPat(e, f.Pat, types.UnknownType)
	}
	return e
}

// elemType is the type matched by the i-th of n patterns, where `..` stands before the
// pattern at restIndex
func elemType(tys []types.Type, n, restIndex, i int) types.Type {
	idx := i
	if restIndex >= 0 && i >= restIndex {
		idx = len(tys) - (n - i)
	}
	if idx < 0 || idx >= len(tys) {
		return types.UnknownType
	}
	return tys[idx]
}

// adtOf returns the ADT named by the top-level constructor of p, if any
func adtOf(p hir.Pat) *types.AdtDef {
	switch p := p.(type) {
	case *hir.CtorPat:
		return p.Def.Adt
	case *hir.BindPat:
		if p.Sub != nil {
			return adtOf(p.Sub)
		}
	case *hir.OrPat:
		for _, alt := range p.Alts {
			if def := adtOf(alt); def != nil {
				return def
			}
		}
	}
	return nil
}
