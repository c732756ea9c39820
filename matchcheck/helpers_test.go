package matchcheck

import (
	"github.com/cottand/matchck/frontend/ast"
	"github.com/cottand/matchck/frontend/hir"
	"github.com/cottand/matchck/frontend/types"
)

var nextDefID = 0

func newDef(kind types.AdtKind, name string, variants ...types.VariantDef) *types.AdtDef {
	nextDefID++
	return &types.AdtDef{ID: nextDefID, Name: name, Crate: "main", Kind: kind, Variants: variants}
}

func unitVariant(name string) types.VariantDef {
	return types.VariantDef{Name: name, Shape: ast.UnitFields}
}

func tupleVariant(name string, tys ...types.Type) types.VariantDef {
	fields := make([]types.FieldDef, len(tys))
	for i, t := range tys {
		fields[i] = types.FieldDef{Name: types.PositionalName(i), Type: t}
	}
	return types.VariantDef{Name: name, Shape: ast.TupleFields, Fields: fields}
}

func recordVariant(name string, fields ...types.FieldDef) types.VariantDef {
	return types.VariantDef{Name: name, Shape: ast.RecordFields, Fields: fields}
}

func adt(def *types.AdtDef, args ...types.Type) types.Type {
	return &types.Adt{Def: def, Args: args}
}

func tuple(tys ...types.Type) types.Type {
	return &types.Tuple{Elems: tys}
}

func ref(t types.Type) types.Type {
	return &types.Ref{Inner: t}
}

var boolT = types.BoolType

func wild() hir.Pat { return &hir.WildPat{} }

func bind(name string) hir.Pat { return &hir.BindPat{Name: name} }

func lit(b bool) hir.Pat {
	if b {
		return &hir.LitPat{Kind: ast.LitBool, Value: "true"}
	}
	return &hir.LitPat{Kind: ast.LitBool, Value: "false"}
}

func intLit(v string) hir.Pat { return &hir.LitPat{Kind: ast.LitInt, Value: v} }

func tup(elems ...hir.Pat) hir.Pat {
	return &hir.TuplePat{Elems: elems, RestIndex: -1}
}

func tupRest(restIndex int, elems ...hir.Pat) hir.Pat {
	return &hir.TuplePat{Elems: elems, RestIndex: restIndex}
}

func or(alts ...hir.Pat) hir.Pat { return &hir.OrPat{Alts: alts} }

func unitCtor(def *types.AdtDef, v int) hir.Pat {
	return &hir.CtorPat{Def: hir.Def{Adt: def, Variant: v}, Shape: ast.UnitFields, RestIndex: -1}
}

func tupleCtor(def *types.AdtDef, v int, elems ...hir.Pat) hir.Pat {
	return &hir.CtorPat{Def: hir.Def{Adt: def, Variant: v}, Shape: ast.TupleFields, Elems: elems, RestIndex: -1}
}

func recordCtor(def *types.AdtDef, v int, rest bool, fields ...hir.FieldPat) hir.Pat {
	return &hir.CtorPat{Def: hir.Def{Adt: def, Variant: v}, Shape: ast.RecordFields, Fields: fields, HasRest: rest, RestIndex: -1}
}

func field(name string, p hir.Pat) hir.FieldPat {
	return hir.FieldPat{Name: name, Pat: p}
}

func slicePat(prefix []hir.Pat, rest bool, suffix ...hir.Pat) hir.Pat {
	return &hir.SlicePat{Prefix: prefix, HasRest: rest, Suffix: suffix}
}

func arms(pats ...hir.Pat) []hir.Arm {
	ret := make([]hir.Arm, len(pats))
	for i, p := range pats {
		ret[i] = hir.Arm{Pat: p}
	}
	return ret
}

func renderAll(pats []*Pat) []string {
	ret := make([]string, len(pats))
	for i, p := range pats {
		ret[i] = Render(p)
	}
	return ret
}

// covers reports whether arm matches every value described by witness.
// Wildcards in the witness stand for values the arm must match whatever they are.
func covers(arm, witness *Pat) bool {
	switch arm.Kind {
	case PatWild:
		return true
	case PatOr:
		for _, alt := range arm.Alts {
			if covers(alt, witness) {
				return true
			}
		}
		return false
	case PatCtor:
		if witness.Kind != PatCtor || !arm.Ctor.covers(witness.Ctor) {
			return false
		}
		fields := specializeFields(arm, witness.Ctor, column{ty: witness.Ty})
		for i, f := range fields {
			if !covers(f, witness.Fields[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
