package matchcheck

import (
	"slices"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/matchck/frontend/types"
	"github.com/hashicorp/go-set/v3"
)

// row is one line of a pattern matrix, one pattern per column.
// Rows are persistent: specializing builds new rows sharing their tails.
type row = *immutable.List[*Pat]

func rowOf(pats ...*Pat) row {
	return immutable.NewList(pats...)
}

func head(r row) *Pat {
	return r.Get(0)
}

func tail(r row) row {
	return r.Slice(1, r.Len())
}

func prependAll(fields []*Pat, r row) row {
	for i := len(fields) - 1; i >= 0; i-- {
		r = r.Prepend(fields[i])
	}
	return r
}

// column is the type matched at one position of the matrix
type column struct {
	ty types.Type
	// behindRef is set when the position is reached through a reference,
	// where uninhabited types still have to be matched
	behindRef bool
}

func columnsOf(tys []types.Type) []column {
	cols := make([]column, len(tys))
	for i, t := range tys {
		cols[i] = column{ty: t}
	}
	return cols
}

// matrix is an ordered list of rows sharing the same columns
type matrix struct {
	rows []row
}

func (m matrix) push(r row) matrix {
	rows := make([]row, len(m.rows), len(m.rows)+1)
	copy(rows, m.rows)
	return matrix{rows: append(rows, r)}
}

// expandOrs replaces every row whose head is an or-pattern by one row per alternative.
// It returns the first opaque head found, if any.
func (m matrix) expandOrs() (matrix, *Pat) {
	expanded := make([]row, 0, len(m.rows))
	var opaque *Pat
	var expand func(r row)
	expand = func(r row) {
		switch h := head(r); h.Kind {
		case PatOr:
			for _, alt := range h.Alts {
				expand(r.Set(0, alt))
			}
		case PatOpaque:
			if opaque == nil {
				opaque = h
			}
		default:
			expanded = append(expanded, r)
		}
	}
	for _, r := range m.rows {
		expand(r)
	}
	return matrix{rows: expanded}, opaque
}

// hasWildRow reports whether some row matches every value
func (m matrix) hasWildRow() bool {
	return slices.ContainsFunc(m.rows, func(r row) bool { return rowAll(r, (*Pat).isWildLike) })
}

func rowHasOpaque(r row) bool {
	return !rowAll(r, func(p *Pat) bool { return p.FindOpaque() == nil })
}

func rowAll(r row, pred func(*Pat) bool) bool {
	itr := r.Iterator()
	for !itr.Done() {
		if _, p := itr.Next(); !pred(p) {
			return false
		}
	}
	return true
}

// headCtors lists the distinct constructors of the first column, in order of appearance
func (m matrix) headCtors() []Constructor {
	seen := set.New[Constructor](len(m.rows))
	var ctors []Constructor
	for _, r := range m.rows {
		h := head(r)
		if h.Kind == PatCtor && seen.Insert(h.Ctor) {
			ctors = append(ctors, h.Ctor)
		}
	}
	return ctors
}

// specialize keeps the rows whose head can match values built with c,
// replacing their head by the fields of c
func (m matrix) specialize(c Constructor, col column) matrix {
	rows := make([]row, 0, len(m.rows))
	for _, r := range m.rows {
		if specialized, ok := specializeRow(r, c, col); ok {
			rows = append(rows, specialized)
		}
	}
	return matrix{rows: rows}
}

// defaultMatrix keeps the tails of the rows starting with a wildcard
func (m matrix) defaultMatrix() matrix {
	rows := make([]row, 0, len(m.rows))
	for _, r := range m.rows {
		if head(r).Kind == PatWild {
			rows = append(rows, tail(r))
		}
	}
	return matrix{rows: rows}
}

func specializeRow(r row, c Constructor, col column) (row, bool) {
	h := head(r)
	switch h.Kind {
	case PatWild:
		return prependAll(wilds(c.FieldTypes(col.ty)), tail(r)), true
	case PatCtor:
		if !h.Ctor.covers(c) {
			return nil, false
		}
		return prependAll(specializeFields(h, c, col), tail(r)), true
	default:
		return nil, false
	}
}

// specializeFields returns the fields of h seen as a value built with c.
// Variable-length slice patterns are widened with wildcards between prefix and suffix.
func specializeFields(h *Pat, c Constructor, col column) []*Pat {
	if h.Ctor.Kind != CtorSliceVar || h.Ctor == c {
		return h.Fields
	}
	elem := col.ty.(*types.Slice).Elem
	gap := c.Prefix + c.Suffix - h.Ctor.minLen()
	fields := make([]*Pat, 0, c.Prefix+c.Suffix)
	fields = append(fields, h.Fields[:h.Ctor.Prefix]...)
	for range gap {
		fields = append(fields, Wild(elem))
	}
	return append(fields, h.Fields[h.Ctor.Prefix:]...)
}

// splitSlice lists the slice lengths to check so that every pattern of heads
// either fully matches or fully rejects each of them
func splitSlice(heads []Constructor) []Constructor {
	maxPrefix, maxSuffix, maxFixed := 0, 0, -1
	for _, c := range heads {
		switch c.Kind {
		case CtorSliceExact:
			maxFixed = max(maxFixed, c.Prefix)
		case CtorSliceVar:
			maxPrefix = max(maxPrefix, c.Prefix)
			maxSuffix = max(maxSuffix, c.Suffix)
		}
	}
	if maxFixed+1 > maxPrefix+maxSuffix {
		maxPrefix = maxFixed + 1 - maxSuffix
	}
	ctors := make([]Constructor, 0, maxPrefix+maxSuffix+1)
	for n := range maxPrefix + maxSuffix {
		ctors = append(ctors, sliceExact(n))
	}
	return append(ctors, sliceVar(maxPrefix, maxSuffix))
}
