// Package types holds the semantic types the match checker consumes.
//
// Types are already resolved: they are produced by lowering and never mutated afterwards.
package types

import (
	"strconv"
	"strings"
)

// Type is a resolved semantic type
type Type interface {
	// TypeName renders the type the way a user would write it
	TypeName() string
	typeNode()
}

// Bool is the boolean type
type Bool struct{}

// Scalar is an opaque primitive the checker does not enumerate: integers, floats, char and str.
type Scalar struct {
	Name string
}

// Never is `!`
type Never struct{}

// Unknown is a type inference gave up on (unresolved names, missing annotations)
type Unknown struct{}

// Tuple is `(A, B)`; the unit type is a Tuple without elements.
type Tuple struct {
	Elems []Type
}

// Adt is an enum or struct applied to its generic arguments
type Adt struct {
	Def  *AdtDef
	Args []Type
}

type Ref struct {
	Mut   bool
	Inner Type
}

type Slice struct {
	Elem Type
}

type Array struct {
	Elem Type
	Len  int
}

// Param is a generic parameter of an AdtDef, replaced by Subst
type Param struct {
	Index int
	Name  string
}

var (
	BoolType    Type = &Bool{}
	NeverType   Type = &Never{}
	UnknownType Type = &Unknown{}
	UnitType    Type = &Tuple{}
)

func (*Bool) TypeName() string     { return "bool" }
func (s *Scalar) TypeName() string { return s.Name }
func (*Never) TypeName() string    { return "!" }
func (*Unknown) TypeName() string  { return "{unknown}" }
func (p *Param) TypeName() string  { return p.Name }

func (t *Tuple) TypeName() string {
	sb := strings.Builder{}
	sb.WriteString("(")
	for i, elem := range t.Elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(elem.TypeName())
	}
	if len(t.Elems) == 1 {
		sb.WriteString(",")
	}
	sb.WriteString(")")
	return sb.String()
}

func (t *Adt) TypeName() string {
	if len(t.Args) == 0 {
		return t.Def.Name
	}
	args := make([]string, len(t.Args))
	for i, arg := range t.Args {
		args[i] = arg.TypeName()
	}
	return t.Def.Name + "<" + strings.Join(args, ", ") + ">"
}

func (t *Ref) TypeName() string {
	if t.Mut {
		return "&mut " + t.Inner.TypeName()
	}
	return "&" + t.Inner.TypeName()
}

func (t *Slice) TypeName() string { return "[" + t.Elem.TypeName() + "]" }
func (t *Array) TypeName() string {
	return "[" + t.Elem.TypeName() + "; " + strconv.Itoa(t.Len) + "]"
}

func (*Bool) typeNode()    {}
func (*Scalar) typeNode()  {}
func (*Never) typeNode()   {}
func (*Unknown) typeNode() {}
func (*Tuple) typeNode()   {}
func (*Adt) typeNode()     {}
func (*Ref) typeNode()     {}
func (*Slice) typeNode()   {}
func (*Array) typeNode()   {}
func (*Param) typeNode()   {}
