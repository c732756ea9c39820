package ast

// Pattern is the interface for all surface patterns.
type Pattern interface {
	Node
	patNode() // Marker method to distinguish patterns
}

// WildPat is `_`
type WildPat struct {
	Range
}

// RestPat is `..` inside tuple, tuple struct and slice patterns
type RestPat struct {
	Range
}

// IdentPat is a binding such as `x`, `ref x`, `mut x` or `x @ Sub`.
// Whether it actually binds or names a unit struct/variant is decided during lowering.
type IdentPat struct {
	Range
	Name  string
	ByRef bool
	Mut   bool
	Sub   Pattern
}

type LitPat struct {
	Literal
	Negative bool
}

// RangePat is `lo..hi` or `lo..=hi`; Hi is nil for half-open ranges.
type RangePat struct {
	Range
	Lo        *LitPat
	Hi        *LitPat
	Inclusive bool
}

// PathPat is a qualified path used as a pattern, such as `Either::A`
type PathPat struct {
	Path
}

type TupleStructPat struct {
	Range
	Path  Path
	Elems []Pattern
}

// FieldPat is `name: Pat`, or the shorthand `name` when Pat is nil.
type FieldPat struct {
	Range
	Name  string
	ByRef bool
	Pat   Pattern
}

type RecordPat struct {
	Range
	Path   Path
	Fields []FieldPat
	// Rest is set when the pattern ends with `..`
	Rest bool
}

type TuplePat struct {
	Range
	Elems []Pattern
}

type ParenPat struct {
	Range
	Inner Pattern
}

type RefPat struct {
	Range
	Mut   bool
	Inner Pattern
}

type OrPat struct {
	Range
	Alts []Pattern
}

type SlicePat struct {
	Range
	Elems []Pattern
}

func (*WildPat) patNode()        {}
func (*RestPat) patNode()        {}
func (*IdentPat) patNode()       {}
func (*LitPat) patNode()         {}
func (*RangePat) patNode()       {}
func (*PathPat) patNode()        {}
func (*TupleStructPat) patNode() {}
func (*RecordPat) patNode()      {}
func (*TuplePat) patNode()       {}
func (*ParenPat) patNode()       {}
func (*RefPat) patNode()         {}
func (*OrPat) patNode()          {}
func (*SlicePat) patNode()       {}
