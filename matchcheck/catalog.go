package matchcheck

import (
	"sync"

	"github.com/cottand/matchck/frontend/types"
)

type SetKind uint8

const (
	// SetFinite lists every constructor of the type, in declaration order
	SetFinite SetKind = iota
	// SetOpaque types have too many constructors to list: integers, chars, unknown types...
	SetOpaque
	// SetUninhabited types have no values at all
	SetUninhabited
	// SetSlice constructors depend on the lengths used by the patterns being split
	SetSlice
)

func (k SetKind) String() string {
	switch k {
	case SetFinite:
		return "finite"
	case SetOpaque:
		return "opaque"
	case SetUninhabited:
		return "uninhabited"
	case SetSlice:
		return "slice"
	default:
		return "invalid"
	}
}

type CtorSet struct {
	Kind  SetKind
	Ctors []Constructor
	// NonExhaustive is set for enums of other crates marked #[non_exhaustive].
	// Listing every constructor of such a set still leaves the hidden one uncovered.
	NonExhaustive bool
}

var (
	boolCtors = []Constructor{boolCtor(false), boolCtor(true)}
	opaqueSet = CtorSet{Kind: SetOpaque}
)

// Catalog enumerates the constructors of types as seen from one crate.
// It is safe for concurrent use.
type Catalog struct {
	crate string

	mu          sync.Mutex
	uninhabited map[string]bool
}

func NewCatalog(crate string) *Catalog {
	return &Catalog{
		crate:       crate,
		uninhabited: make(map[string]bool),
	}
}

// Crate is the crate the catalog checks matches of
func (c *Catalog) Crate() string {
	return c.crate
}

func (c *Catalog) ConstructorsOf(t types.Type) CtorSet {
	if c.IsUninhabited(t) {
		return CtorSet{Kind: SetUninhabited}
	}
	switch t := t.(type) {
	case *types.Bool:
		return CtorSet{Kind: SetFinite, Ctors: boolCtors}
	case *types.Tuple, *types.Array:
		return CtorSet{Kind: SetFinite, Ctors: []Constructor{single}}
	case *types.Ref:
		return CtorSet{Kind: SetFinite, Ctors: []Constructor{ctorRef}}
	case *types.Slice:
		return CtorSet{Kind: SetSlice}
	case *types.Adt:
		if !t.Def.IsEnum() {
			return CtorSet{Kind: SetFinite, Ctors: []Constructor{single}}
		}
		ctors := make([]Constructor, len(t.Def.Variants))
		for i := range t.Def.Variants {
			ctors[i] = variant(i)
		}
		return CtorSet{Kind: SetFinite, Ctors: ctors, NonExhaustive: c.isForeignNonExhaustive(t.Def)}
	default:
		return opaqueSet
	}
}

func (c *Catalog) isForeignNonExhaustive(def *types.AdtDef) bool {
	return def.IsEnum() && def.NonExhaustive && def.Crate != c.crate
}

// IsUninhabited reports whether no value of t can exist.
// References are always inhabited, whatever they point to.
func (c *Catalog) IsUninhabited(t types.Type) bool {
	switch t.(type) {
	case *types.Never:
		return true
	case *types.Adt, *types.Tuple, *types.Array:
	default:
		return false
	}
	key := types.Key(t)
	c.mu.Lock()
	cached, ok := c.uninhabited[key]
	c.mu.Unlock()
	if ok {
		return cached
	}
	ret := c.uninhabitedIn(t, make(map[string]bool))
	c.mu.Lock()
	c.uninhabited[key] = ret
	c.mu.Unlock()
	return ret
}

// uninhabitedIn walks t; visiting guards against recursive ADTs, which are considered inhabited
func (c *Catalog) uninhabitedIn(t types.Type, visiting map[string]bool) bool {
	switch t := t.(type) {
	case *types.Never:
		return true
	case *types.Tuple:
		return c.anyUninhabited(t.Elems, visiting)
	case *types.Array:
		return t.Len > 0 && c.uninhabitedIn(t.Elem, visiting)
	case *types.Adt:
		key := types.Key(t)
		if visiting[key] {
			return false
		}
		visiting[key] = true
		defer delete(visiting, key)
		if c.isForeignNonExhaustive(t.Def) {
			return false
		}
		for i := range t.Def.Variants {
			if !c.anyUninhabited(t.Def.FieldTypes(i, t.Args), visiting) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (c *Catalog) anyUninhabited(tys []types.Type, visiting map[string]bool) bool {
	for _, t := range tys {
		if c.uninhabitedIn(t, visiting) {
			return true
		}
	}
	return false
}

// ctorInhabited reports whether some value built with ctor can exist in column col
func (c *Catalog) ctorInhabited(ctor Constructor, col column) bool {
	if col.behindRef || ctor.Kind == CtorRef {
		return true
	}
	for _, t := range ctor.FieldTypes(col.ty) {
		if c.IsUninhabited(t) {
			return false
		}
	}
	return true
}
