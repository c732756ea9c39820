package matchcheck

import (
	"fmt"
	"slices"

	"github.com/cottand/matchck/frontend/ast"
	"github.com/cottand/matchck/frontend/hir"
	"github.com/cottand/matchck/frontend/types"
)

// LowerArm deconstructs the top-level pattern of an arm matched against scrutinee.
//
// When scrutinee is a reference and the pattern is not a reference pattern, the
// pattern is matched against the referenced value (match ergonomics), wrapping the
// result in implicit Ref constructors. This only happens at the top level.
func LowerArm(p hir.Pat, scrutinee types.Type) *Pat {
	if bind, ok := p.(*hir.BindPat); ok && bind.ByRef {
		// the binding is typed as a reference to the scrutinee, which does not match it
		return Opaque(scrutinee, "ref binding at the top level of an arm")
	}
	var refs []types.Type
	inner := scrutinee
	for {
		ref, isRef := inner.(*types.Ref)
		if !isRef || isRefPat(p) {
			break
		}
		refs = append(refs, ref)
		inner = ref.Inner
	}
	node := Lower(p, inner)
	if node.Kind == PatWild || node.Kind == PatOpaque {
		return &Pat{Kind: node.Kind, Ty: scrutinee, Reason: node.Reason}
	}
	for _, ref := range slices.Backward(refs) {
		node = NewCtor(ctorRef, ref, node)
	}
	return node
}

func isRefPat(p hir.Pat) bool {
	switch p := p.(type) {
	case *hir.RefPat:
		return true
	case *hir.BindPat:
		return p.Sub != nil && isRefPat(p.Sub)
	default:
		return false
	}
}

// Lower deconstructs p matched against a value of type expected.
// It never fails: anything the checker does not model becomes an opaque node.
func Lower(p hir.Pat, expected types.Type) *Pat {
	switch p := p.(type) {
	case *hir.WildPat:
		return Wild(expected)
	case *hir.BindPat:
		if p.Sub == nil {
			return Wild(expected)
		}
		return Lower(p.Sub, expected)
	case *hir.LitPat:
		if p.Kind != ast.LitBool {
			return Opaque(expected, fmt.Sprintf("%v literal patterns are not checked", p.Kind))
		}
		if _, ok := expected.(*types.Bool); !ok {
			return mismatch(expected, "bool")
		}
		return NewCtor(boolCtor(p.Value == "true"), expected)
	case *hir.RangePat:
		return Opaque(expected, "range patterns are not checked")
	case *hir.RefPat:
		return Opaque(expected, "reference patterns are not checked")
	case *hir.OrPat:
		alts := make([]*Pat, len(p.Alts))
		for i, alt := range p.Alts {
			alts[i] = Lower(alt, expected)
			if alts[i].Kind == PatOpaque {
				return alts[i]
			}
		}
		return NewOr(expected, alts...)
	case *hir.TuplePat:
		return lowerTuple(p, expected)
	case *hir.CtorPat:
		return lowerCtor(p, expected)
	case *hir.SlicePat:
		return lowerSlice(p, expected)
	case *hir.MissingPat:
		return Opaque(expected, "missing pattern")
	default:
		return Opaque(expected, fmt.Sprintf("unexpected pattern %T", p))
	}
}

func mismatch(expected types.Type, found string) *Pat {
	return Opaque(expected, fmt.Sprintf("pattern of type %s cannot match %s", found, expected.TypeName()))
}

// expandRest returns one pattern per position, replacing `..` at restIndex by wildcards.
// ok is false when there are more patterns than positions.
func expandRest(elems []hir.Pat, restIndex int, tys []types.Type) (pats []hir.Pat, ok bool) {
	if restIndex < 0 {
		return elems, len(elems) <= len(tys)
	}
	if len(elems) > len(tys) {
		return nil, false
	}
	pats = make([]hir.Pat, 0, len(tys))
	pats = append(pats, elems[:restIndex]...)
	for range len(tys) - len(elems) {
		pats = append(pats, nil)
	}
	pats = append(pats, elems[restIndex:]...)
	return pats, true
}

// lowerFields lowers pats against tys, substituting wildcards for missing patterns
func lowerFields(pats []hir.Pat, tys []types.Type) ([]*Pat, *Pat) {
	fields := make([]*Pat, len(tys))
	for i, t := range tys {
		if i >= len(pats) || pats[i] == nil {
			fields[i] = Wild(t)
			continue
		}
		fields[i] = Lower(pats[i], t)
		if fields[i].Kind == PatOpaque {
			return nil, fields[i]
		}
	}
	return fields, nil
}

func lowerTuple(p *hir.TuplePat, expected types.Type) *Pat {
	tuple, ok := expected.(*types.Tuple)
	if !ok {
		return mismatch(expected, "tuple")
	}
	pats, ok := expandRest(p.Elems, p.RestIndex, tuple.Elems)
	if !ok || len(pats) != len(tuple.Elems) {
		return Opaque(expected, fmt.Sprintf("tuple pattern has %d fields, but the type has %d", len(p.Elems), len(tuple.Elems)))
	}
	fields, opaque := lowerFields(pats, tuple.Elems)
	if opaque != nil {
		return opaque
	}
	return NewCtor(single, expected, fields...)
}

func lowerCtor(p *hir.CtorPat, expected types.Type) *Pat {
	if !p.Def.Resolved() {
		return Opaque(expected, fmt.Sprintf("unresolved path %s", p.Path.String()))
	}
	adt, ok := expected.(*types.Adt)
	if !ok || adt.Def != p.Def.Adt {
		return mismatch(expected, p.Def.Adt.Name)
	}
	ctor := single
	if adt.Def.IsEnum() {
		ctor = variant(p.Def.Variant)
	}
	declared := adt.Def.Variants[p.Def.Variant]
	tys := adt.Def.FieldTypes(p.Def.Variant, adt.Args)

	switch p.Shape {
	case ast.UnitFields:
		if declared.Shape != ast.UnitFields {
			return Opaque(expected, fmt.Sprintf("%s has fields, but is used as a unit pattern", declared.Name))
		}
		return NewCtor(ctor, expected)
	case ast.TupleFields:
		if declared.Shape == ast.RecordFields {
			return Opaque(expected, fmt.Sprintf("%s has named fields, but is used as a tuple pattern", declared.Name))
		}
		pats, ok := expandRest(p.Elems, p.RestIndex, tys)
		if !ok {
			return Opaque(expected, fmt.Sprintf("%s has %d fields, but the pattern has %d", declared.Name, len(tys), len(p.Elems)))
		}
		// too few fields is malformed, but can be checked as if they were wildcards
		fields, opaque := lowerFields(pats, tys)
		if opaque != nil {
			return opaque
		}
		return NewCtor(ctor, expected, fields...)
	case ast.RecordFields:
		pats := make([]hir.Pat, len(tys))
		for _, f := range p.Fields {
			i := adt.Def.FieldIndex(p.Def.Variant, f.Name)
			if i < 0 {
				return Opaque(expected, fmt.Sprintf("%s has no field %s", declared.Name, f.Name))
			}
			pats[i] = f.Pat
		}
		fields, opaque := lowerFields(pats, tys)
		if opaque != nil {
			return opaque
		}
		return NewCtor(ctor, expected, fields...)
	default:
		return Opaque(expected, "invalid constructor pattern")
	}
}

func lowerSlice(p *hir.SlicePat, expected types.Type) *Pat {
	switch t := expected.(type) {
	case *types.Array:
		elems := slices.Concat(p.Prefix, p.Suffix)
		restIndex := -1
		if p.HasRest {
			restIndex = len(p.Prefix)
		}
		tys := repeatType(t.Elem, t.Len)
		pats, ok := expandRest(elems, restIndex, tys)
		if !ok || len(pats) != t.Len {
			return Opaque(expected, fmt.Sprintf("array pattern has %d elements, but the array has %d", len(elems), t.Len))
		}
		fields, opaque := lowerFields(pats, tys)
		if opaque != nil {
			return opaque
		}
		return NewCtor(single, expected, fields...)
	case *types.Slice:
		ctor := sliceExact(len(p.Prefix))
		if p.HasRest {
			ctor = sliceVar(len(p.Prefix), len(p.Suffix))
		}
		fields, opaque := lowerFields(slices.Concat(p.Prefix, p.Suffix), ctor.FieldTypes(t))
		if opaque != nil {
			return opaque
		}
		return NewCtor(ctor, expected, fields...)
	default:
		return mismatch(expected, "slice")
	}
}
