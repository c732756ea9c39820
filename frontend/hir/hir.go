// Package hir holds match expressions after name resolution and type inference.
//
// It is the contract between lowering and the match checker: the scrutinee type is known,
// and paths inside patterns point at their definitions.
package hir

import (
	"github.com/cottand/matchck/frontend/ast"
	"github.com/cottand/matchck/frontend/types"
)

// Pat is a surface pattern whose paths have been resolved
type Pat interface {
	ast.Positioner
	patNode()
}

type WildPat struct {
	ast.Range
}

// BindPat binds a name, optionally to a sub-pattern (`x @ Sub`)
type BindPat struct {
	ast.Range
	Name  string
	ByRef bool
	Sub   Pat
}

type LitPat struct {
	ast.Range
	Kind  ast.LitKind
	Value string
}

type RangePat struct {
	ast.Range
}

// TuplePat is `(a, .., z)`. RestIndex is the position of `..`, or -1.
type TuplePat struct {
	ast.Range
	Elems     []Pat
	RestIndex int
}

// Def points at a variant of an enum, or at a struct (Variant 0).
// A zero Def means the path did not resolve.
type Def struct {
	Adt     *types.AdtDef
	Variant int
}

func (d Def) Resolved() bool { return d.Adt != nil }

type FieldPat struct {
	ast.Range
	Name string
	Pat  Pat
}

// CtorPat is a unit, tuple or record pattern naming a struct or an enum variant
type CtorPat struct {
	ast.Range
	Path  ast.Path
	Def   Def
	Shape ast.FieldsKind
	// Elems and RestIndex are used by tuple-shaped patterns
	Elems     []Pat
	RestIndex int
	// Fields and HasRest are used by record-shaped patterns
	Fields  []FieldPat
	HasRest bool
}

type RefPat struct {
	ast.Range
	Inner Pat
}

type OrPat struct {
	ast.Range
	Alts []Pat
}

// SlicePat is `[p.., .., s..]`; Suffix is only non-empty when HasRest is set.
type SlicePat struct {
	ast.Range
	Prefix  []Pat
	HasRest bool
	Suffix  []Pat
}

// MissingPat stands in for a pattern lowering could not make sense of
type MissingPat struct {
	ast.Range
}

func (*WildPat) patNode()    {}
func (*BindPat) patNode()    {}
func (*LitPat) patNode()     {}
func (*RangePat) patNode()   {}
func (*TuplePat) patNode()   {}
func (*CtorPat) patNode()    {}
func (*RefPat) patNode()     {}
func (*OrPat) patNode()      {}
func (*SlicePat) patNode()   {}
func (*MissingPat) patNode() {}

type Arm struct {
	ast.Range
	Pat      Pat
	HasGuard bool
}

// Match is a match expression ready to be checked
type Match struct {
	// MatchExpr covers the match keyword through the arm list
	MatchExpr     ast.Range
	Scrutinee     ast.Range
	ArmList       ast.Range
	ScrutineeType types.Type
	Arms          []Arm
	File          string
	Crate         string
	// Owner is the name of the function containing the match
	Owner string
}
