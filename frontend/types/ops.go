package types

import (
	"strconv"
	"strings"
)

// Subst replaces every Param in t by the corresponding element of args.
// Params without a matching argument become Unknown.
func Subst(t Type, args []Type) Type {
	switch t := t.(type) {
	case *Param:
		if t.Index < len(args) && args[t.Index] != nil {
			return args[t.Index]
		}
		return UnknownType
	case *Tuple:
		if len(t.Elems) == 0 {
			return t
		}
		elems := make([]Type, len(t.Elems))
		for i, elem := range t.Elems {
			elems[i] = Subst(elem, args)
		}
		return &Tuple{Elems: elems}
	case *Adt:
		if len(t.Args) == 0 {
			return t
		}
		newArgs := make([]Type, len(t.Args))
		for i, arg := range t.Args {
			newArgs[i] = Subst(arg, args)
		}
		return &Adt{Def: t.Def, Args: newArgs}
	case *Ref:
		return &Ref{Mut: t.Mut, Inner: Subst(t.Inner, args)}
	case *Slice:
		return &Slice{Elem: Subst(t.Elem, args)}
	case *Array:
		return &Array{Elem: Subst(t.Elem, args), Len: t.Len}
	default:
		return t
	}
}

// Equal reports structural equality. ADTs are equal when they share the same definition.
func Equal(a, b Type) bool {
	switch a := a.(type) {
	case *Bool:
		_, ok := b.(*Bool)
		return ok
	case *Never:
		_, ok := b.(*Never)
		return ok
	case *Unknown:
		_, ok := b.(*Unknown)
		return ok
	case *Scalar:
		bs, ok := b.(*Scalar)
		return ok && a.Name == bs.Name
	case *Param:
		bp, ok := b.(*Param)
		return ok && a.Index == bp.Index
	case *Tuple:
		bt, ok := b.(*Tuple)
		return ok && allEqual(a.Elems, bt.Elems)
	case *Adt:
		bt, ok := b.(*Adt)
		return ok && a.Def == bt.Def && allEqual(a.Args, bt.Args)
	case *Ref:
		bt, ok := b.(*Ref)
		return ok && a.Mut == bt.Mut && Equal(a.Inner, bt.Inner)
	case *Slice:
		bt, ok := b.(*Slice)
		return ok && Equal(a.Elem, bt.Elem)
	case *Array:
		bt, ok := b.(*Array)
		return ok && a.Len == bt.Len && Equal(a.Elem, bt.Elem)
	default:
		return false
	}
}

func allEqual(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Key returns a string that is equal for two types iff Equal holds for them.
// It is meant to key caches.
func Key(t Type) string {
	sb := &strings.Builder{}
	writeKey(sb, t)
	return sb.String()
}

func writeKey(sb *strings.Builder, t Type) {
	switch t := t.(type) {
	case *Adt:
		sb.WriteString("adt#")
		sb.WriteString(strconv.Itoa(t.Def.ID))
		if len(t.Args) > 0 {
			sb.WriteString("<")
			for i, arg := range t.Args {
				if i > 0 {
					sb.WriteString(",")
				}
				writeKey(sb, arg)
			}
			sb.WriteString(">")
		}
	case *Tuple:
		sb.WriteString("(")
		for i, elem := range t.Elems {
			if i > 0 {
				sb.WriteString(",")
			}
			writeKey(sb, elem)
		}
		sb.WriteString(")")
	case *Ref:
		if t.Mut {
			sb.WriteString("&mut ")
		} else {
			sb.WriteString("&")
		}
		writeKey(sb, t.Inner)
	case *Slice:
		sb.WriteString("[")
		writeKey(sb, t.Elem)
		sb.WriteString("]")
	case *Array:
		sb.WriteString("[")
		writeKey(sb, t.Elem)
		sb.WriteString(";" + strconv.Itoa(t.Len) + "]")
	case *Param:
		sb.WriteString("$" + strconv.Itoa(t.Index))
	case nil:
		sb.WriteString("nil")
	default:
		sb.WriteString(t.TypeName())
	}
}

// IsUnknown reports whether t is Unknown at the top level
func IsUnknown(t Type) bool {
	_, ok := t.(*Unknown)
	return t == nil || ok
}
