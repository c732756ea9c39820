package matchcheck

import (
	"slices"
	"strings"

	"github.com/cottand/matchck/frontend/types"
	"github.com/hashicorp/go-set/v3"
)

type UsefulnessKind uint8

const (
	NotUseful UsefulnessKind = iota
	Useful
	// Abstain means an unmodeled pattern was reached and no answer can be given
	Abstain
)

func (k UsefulnessKind) String() string {
	switch k {
	case NotUseful:
		return "not useful"
	case Useful:
		return "useful"
	case Abstain:
		return "abstain"
	default:
		return "invalid"
	}
}

// Witness is a value shape, one pattern per column, that a row matches and the matrix does not
type Witness []*Pat

func (w Witness) key() string {
	parts := make([]string, len(w))
	for i, p := range w {
		parts[i] = Render(p)
	}
	return strings.Join(parts, " ; ")
}

// Usefulness is the result of checking a row against a matrix
type Usefulness struct {
	Kind      UsefulnessKind
	Witnesses []Witness
	// Truncated is set when more witnesses exist than were collected
	Truncated bool
	// Reason explains an Abstain
	Reason string
}

func abstain(reason string) Usefulness {
	return Usefulness{Kind: Abstain, Reason: reason}
}

// applyCtor folds the first arity patterns of every witness into a c-constructed pattern
func (u Usefulness) applyCtor(c Constructor, t types.Type, arity int) Usefulness {
	if u.Kind != Useful {
		return u
	}
	ret := u
	ret.Witnesses = make([]Witness, len(u.Witnesses))
	for i, w := range u.Witnesses {
		applied := make(Witness, 0, len(w)-arity+1)
		applied = append(applied, NewCtor(c, t, w[:arity]...))
		ret.Witnesses[i] = append(applied, w[arity:]...)
	}
	return ret
}

// withHead prepends p to every witness
func (u Usefulness) withHead(p *Pat) Usefulness {
	if u.Kind != Useful {
		return u
	}
	ret := u
	ret.Witnesses = make([]Witness, len(u.Witnesses))
	for i, w := range u.Witnesses {
		ret.Witnesses[i] = append(Witness{p}, w...)
	}
	return ret
}

type engine struct {
	cat          *Catalog
	maxWitnesses int
}

// merge adds the witnesses of r to acc, skipping duplicates and stopping at maxWitnesses
func (e *engine) merge(acc, r Usefulness) Usefulness {
	if r.Kind != Useful {
		return acc
	}
	ret := Usefulness{Kind: Useful, Truncated: acc.Truncated || r.Truncated}
	ret.Witnesses = slices.Clone(acc.Witnesses)
	seen := set.New[string](len(acc.Witnesses) + len(r.Witnesses))
	for _, w := range acc.Witnesses {
		seen.Insert(w.key())
	}
	for _, w := range r.Witnesses {
		if !seen.Insert(w.key()) {
			continue
		}
		if len(ret.Witnesses) >= e.maxWitnesses {
			ret.Truncated = true
			break
		}
		ret.Witnesses = append(ret.Witnesses, w)
	}
	return ret
}

// isUseful decides whether v matches some value that no row of m matches.
// When collect is set, witnesses for every uncovered shape are gathered (up to the limit);
// otherwise the search stops at the first one.
func (e *engine) isUseful(m matrix, v row, cols []column, collect bool) Usefulness {
	if v.Len() == 0 {
		if len(m.rows) == 0 {
			return Usefulness{Kind: Useful, Witnesses: []Witness{{}}}
		}
		return Usefulness{Kind: NotUseful}
	}
	m, opaque := m.expandOrs()
	if opaque != nil {
		return abstain(opaque.Reason)
	}
	if m.hasWildRow() && !rowHasOpaque(v) {
		return Usefulness{Kind: NotUseful}
	}

	switch h := head(v); h.Kind {
	case PatOpaque:
		return abstain(h.Reason)
	case PatOr:
		acc := Usefulness{Kind: NotUseful}
		for _, alt := range h.Alts {
			r := e.isUseful(m, v.Set(0, alt), cols, collect)
			if r.Kind == Abstain {
				return r
			}
			acc = e.merge(acc, r)
			if !collect && acc.Kind == Useful {
				break
			}
		}
		return acc
	case PatCtor:
		ctors := []Constructor{h.Ctor}
		if h.Ctor.isSlice() {
			ctors = slices.DeleteFunc(splitSlice(append(m.headCtors(), h.Ctor)), func(c Constructor) bool {
				return !h.Ctor.covers(c)
			})
		}
		acc := Usefulness{Kind: NotUseful}
		for _, c := range ctors {
			r := e.specializeAndCheck(m, v, c, cols, collect)
			if r.Kind == Abstain {
				return r
			}
			acc = e.merge(acc, r)
			if !collect && acc.Kind == Useful {
				break
			}
		}
		return acc
	default:
		return e.expandWildcard(m, v, cols, collect)
	}
}

func (e *engine) specializeAndCheck(m matrix, v row, c Constructor, cols []column, collect bool) Usefulness {
	col := cols[0]
	specialized, ok := specializeRow(v, c, col)
	if !ok {
		return Usefulness{Kind: NotUseful}
	}
	fieldTys := c.FieldTypes(col.ty)
	behindRef := col.behindRef || c.Kind == CtorRef
	newCols := make([]column, 0, len(fieldTys)+len(cols)-1)
	for _, t := range fieldTys {
		newCols = append(newCols, column{ty: t, behindRef: behindRef})
	}
	newCols = append(newCols, cols[1:]...)
	r := e.isUseful(m.specialize(c, col), specialized, newCols, collect)
	return r.applyCtor(c, col.ty, len(fieldTys))
}

// expandWildcard checks a row starting with a wildcard by trying every constructor of the column.
// Constructors that head some row are specialized one by one; the others all behave
// like the default matrix, which is checked once and reused for each of them.
func (e *engine) expandWildcard(m matrix, v row, cols []column, collect bool) Usefulness {
	col := cols[0]
	heads := m.headCtors()
	ctorSet := e.cat.ConstructorsOf(col.ty)

	var all []Constructor
	var extra *Constructor
	switch ctorSet.Kind {
	case SetUninhabited:
		if !col.behindRef {
			return Usefulness{Kind: NotUseful}
		}
		extra = &unknown
	case SetOpaque:
		extra = &unknown
	case SetSlice:
		all = splitSlice(heads)
	case SetFinite:
		all = ctorSet.Ctors
		if ctorSet.NonExhaustive {
			extra = &hidden
		}
	}

	var defaultResult *Usefulness
	checkDefault := func() Usefulness {
		if defaultResult == nil {
			r := e.isUseful(m.defaultMatrix(), tail(v), cols[1:], collect)
			defaultResult = &r
		}
		return *defaultResult
	}

	// no row looks at this column: any value of it is missing, and a single `_` stands for all of them
	if len(heads) == 0 && (ctorSet.Kind == SetFinite || ctorSet.Kind == SetSlice) {
		inhabited := extra != nil || slices.ContainsFunc(all, func(c Constructor) bool { return e.cat.ctorInhabited(c, col) })
		if inhabited {
			return checkDefault().withHead(Wild(col.ty))
		}
	}

	acc := Usefulness{Kind: NotUseful}
	for _, c := range all {
		present := slices.ContainsFunc(heads, func(h Constructor) bool { return h.covers(c) })
		var r Usefulness
		switch {
		case present:
			r = e.specializeAndCheck(m, v, c, cols, collect)
		case e.cat.ctorInhabited(c, col):
			r = checkDefault().withHead(NewCtor(c, col.ty, wilds(c.FieldTypes(col.ty))...))
		default:
			continue
		}
		if r.Kind == Abstain {
			return r
		}
		acc = e.merge(acc, r)
		if !collect && acc.Kind == Useful {
			return acc
		}
	}
	if extra != nil {
		r := checkDefault()
		if r.Kind == Abstain {
			return r
		}
		acc = e.merge(acc, r.withHead(NewCtor(*extra, col.ty)))
	}
	return acc
}
