package lower

import (
	"slices"
	"strings"

	"github.com/cottand/matchck/frontend/ast"
	"github.com/cottand/matchck/frontend/types"
)

// resolveType turns a type annotation into a type. Names that do not resolve become Unknown.
func (l *lowerer) resolveType(e env, t ast.Type) types.Type {
	switch t := t.(type) {
	case nil:
		return types.UnitType
	case *ast.NeverType:
		return types.NeverType
	case *ast.TupleType:
		if len(t.Elems) == 0 {
			return types.UnitType
		}
		elems := make([]types.Type, len(t.Elems))
		for i, elem := range t.Elems {
			elems[i] = l.resolveType(e, elem)
		}
		return &types.Tuple{Elems: elems}
	case *ast.RefType:
		return &types.Ref{Mut: t.Mut, Inner: l.resolveType(e, t.Inner)}
	case *ast.SliceType:
		return &types.Slice{Elem: l.resolveType(e, t.Elem)}
	case *ast.ArrayType:
		return &types.Array{Elem: l.resolveType(e, t.Elem), Len: t.Len}
	case *ast.PathType:
		return l.resolvePathType(e, t)
	default:
		return types.UnknownType
	}
}

func (l *lowerer) resolvePathType(e env, t *ast.PathType) types.Type {
	if len(t.Segments) == 1 {
		name := t.Segments[0]
		if name == "_" {
			return types.UnknownType
		}
		if i := slices.Index(e.generics, name); i >= 0 {
			return &types.Param{Index: i, Name: name}
		}
		if _, shadowed := e.items.Get(name); !shadowed {
			if builtin, ok := types.Builtin(name); ok {
				return builtin
			}
		}
	}
	s, ok := e.itemsOnly().resolveSegments(t.Segments)
	if !ok || s.kind != symAdt {
		logger.Debug("unresolved type", "path", strings.Join(t.Segments, "::"))
		return types.UnknownType
	}
	args := make([]types.Type, len(s.adt.Generics))
	for i := range args {
		args[i] = types.UnknownType
		if i < len(t.Args) {
			args[i] = l.resolveType(e, t.Args[i])
		}
	}
	return &types.Adt{Def: s.adt, Args: args}
}

// instantiate returns def applied to explicit arguments, falling back to the arguments
// inferred by unifying the declared field types with the types of actual values
func instantiate(def *types.AdtDef, explicit []types.Type, declared []types.Type, actual []types.Type) *types.Adt {
	args := make([]types.Type, len(def.Generics))
	copy(args, explicit)
	for i := range min(len(declared), len(actual)) {
		unify(declared[i], actual[i], args)
	}
	for i, arg := range args {
		if arg == nil {
			args[i] = types.UnknownType
		}
	}
	return &types.Adt{Def: def, Args: args}
}

// unify binds the parameters of declared found at the same place in actual
func unify(declared, actual types.Type, args []types.Type) {
	if types.IsUnknown(actual) {
		return
	}
	switch d := declared.(type) {
	case *types.Param:
		if d.Index < len(args) && args[d.Index] == nil {
			args[d.Index] = actual
		}
	case *types.Tuple:
		if a, ok := actual.(*types.Tuple); ok && len(a.Elems) == len(d.Elems) {
			for i := range d.Elems {
				unify(d.Elems[i], a.Elems[i], args)
			}
		}
	case *types.Ref:
		if a, ok := actual.(*types.Ref); ok {
			unify(d.Inner, a.Inner, args)
		}
	case *types.Slice:
		if a, ok := actual.(*types.Slice); ok {
			unify(d.Elem, a.Elem, args)
		}
	case *types.Array:
		if a, ok := actual.(*types.Array); ok {
			unify(d.Elem, a.Elem, args)
		}
	case *types.Adt:
		if a, ok := actual.(*types.Adt); ok && a.Def == d.Def {
			for i := range min(len(d.Args), len(a.Args)) {
				unify(d.Args[i], a.Args[i], args)
			}
		}
	}
}

// literalType is the type of a literal, honoring integer and float suffixes such as 1u8
func literalType(lit ast.Literal) types.Type {
	switch lit.Kind {
	case ast.LitBool:
		return types.BoolType
	case ast.LitInt, ast.LitFloat:
		suffix := strings.TrimLeft(lit.Value, "0123456789_.")
		if t, ok := types.Builtin(suffix); ok {
			return t
		}
		if lit.Kind == ast.LitFloat {
			return types.FloatType
		}
		return types.IntType
	case ast.LitChar:
		return types.CharType
	case ast.LitStr:
		return types.StrType
	default:
		return types.UnknownType
	}
}

// deref removes every reference around t
func deref(t types.Type) types.Type {
	for {
		ref, ok := t.(*types.Ref)
		if !ok {
			return t
		}
		t = ref.Inner
	}
}
