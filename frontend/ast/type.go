package ast

// Type is the interface for all type nodes in the AST.
type Type interface {
	Node
	typeNode() // Marker method to distinguish types
}

// PathType is a named type, possibly with generic arguments: `bool`, `Either<T>`, `lib::E`
type PathType struct {
	Range
	Segments []string
	Args     []Type
}

// TupleType is `(A, B)`. The unit type is a TupleType without elements.
type TupleType struct {
	Range
	Elems []Type
}

// RefType is `&T` or `&mut T`
type RefType struct {
	Range
	Mut   bool
	Inner Type
}

// SliceType is `[T]`
type SliceType struct {
	Range
	Elem Type
}

// ArrayType is `[T; N]`
type ArrayType struct {
	Range
	Elem Type
	Len  int
}

// NeverType is `!`
type NeverType struct {
	Range
}

func (*PathType) typeNode()  {}
func (*TupleType) typeNode() {}
func (*RefType) typeNode()   {}
func (*SliceType) typeNode() {}
func (*ArrayType) typeNode() {}
func (*NeverType) typeNode() {}
