package matchcheck

import (
	"fmt"
	"slices"

	"github.com/cottand/matchck/frontend/types"
)

type CtorKind uint8

const (
	// CtorSingle is the only constructor of tuples, structs and arrays
	CtorSingle CtorKind = iota
	CtorVariant
	CtorFalse
	CtorTrue
	CtorRef
	// CtorSliceExact matches slices of exactly Prefix elements
	CtorSliceExact
	// CtorSliceVar matches slices of at least Prefix+Suffix elements
	CtorSliceVar
	// CtorHidden is the constructor a non-exhaustive enum may gain later. Only found in witnesses.
	CtorHidden
	// CtorUnknown is any value of an opaque type. Only found in witnesses.
	CtorUnknown
)

// Constructor identifies one way of building a value of a type
type Constructor struct {
	Kind CtorKind
	// Index is the variant index for CtorVariant
	Index  int
	Prefix int
	Suffix int
}

var (
	single  = Constructor{Kind: CtorSingle}
	ctorRef = Constructor{Kind: CtorRef}
	hidden  = Constructor{Kind: CtorHidden}
	unknown = Constructor{Kind: CtorUnknown}
)

func variant(i int) Constructor { return Constructor{Kind: CtorVariant, Index: i} }

func sliceExact(n int) Constructor { return Constructor{Kind: CtorSliceExact, Prefix: n} }

func sliceVar(prefix, suffix int) Constructor {
	return Constructor{Kind: CtorSliceVar, Prefix: prefix, Suffix: suffix}
}

func boolCtor(b bool) Constructor {
	if b {
		return Constructor{Kind: CtorTrue}
	}
	return Constructor{Kind: CtorFalse}
}

func (c Constructor) String() string {
	switch c.Kind {
	case CtorSingle:
		return "single"
	case CtorVariant:
		return fmt.Sprintf("variant(%d)", c.Index)
	case CtorFalse:
		return "false"
	case CtorTrue:
		return "true"
	case CtorRef:
		return "ref"
	case CtorSliceExact:
		return fmt.Sprintf("len(%d)", c.Prefix)
	case CtorSliceVar:
		return fmt.Sprintf("len(%d+%d..)", c.Prefix, c.Suffix)
	case CtorHidden:
		return "hidden"
	case CtorUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

func (c Constructor) isSlice() bool {
	return c.Kind == CtorSliceExact || c.Kind == CtorSliceVar
}

// minLen is the smallest slice length the constructor matches
func (c Constructor) minLen() int {
	if c.Kind == CtorSliceVar {
		return c.Prefix + c.Suffix
	}
	return c.Prefix
}

// Arity is the number of fields of c when building a value of type t
func (c Constructor) Arity(t types.Type) int {
	return len(c.FieldTypes(t))
}

// FieldTypes returns the type of each field of c when building a value of type t.
// It returns nil for constructors that do not apply to t.
func (c Constructor) FieldTypes(t types.Type) []types.Type {
	switch c.Kind {
	case CtorSingle:
		switch t := t.(type) {
		case *types.Tuple:
			return t.Elems
		case *types.Adt:
			if t.Def.IsEnum() {
				return nil
			}
			return t.Def.FieldTypes(0, t.Args)
		case *types.Array:
			return repeatType(t.Elem, t.Len)
		}
	case CtorVariant:
		if adt, ok := t.(*types.Adt); ok && adt.Def.IsEnum() && c.Index < len(adt.Def.Variants) {
			return adt.Def.FieldTypes(c.Index, adt.Args)
		}
	case CtorRef:
		if ref, ok := t.(*types.Ref); ok {
			return []types.Type{ref.Inner}
		}
	case CtorSliceExact, CtorSliceVar:
		if slice, ok := t.(*types.Slice); ok {
			return repeatType(slice.Elem, c.Prefix+c.Suffix)
		}
	}
	return nil
}

func repeatType(t types.Type, n int) []types.Type {
	return slices.Repeat([]types.Type{t}, n)
}

// covers reports whether every value built by other is also built by c.
// Apart from slices, constructors only cover themselves.
func (c Constructor) covers(other Constructor) bool {
	if c.Kind == CtorSliceVar && other.isSlice() {
		return other.minLen() >= c.minLen()
	}
	return c == other
}
