package ast

// Node is the base interface for all AST nodes.
type Node interface {
	Positioner
}

// Item is the interface for declarations, both at the top level and nested in blocks.
type Item interface {
	Node
	itemNode() // Marker method to distinguish items
}

// File represents one source file of a fixture.
// A fixture may contain several files, each belonging to a crate.
type File struct {
	Range
	Name  string
	Crate string
	Deps  []string
	Items []Item
}

// FieldsKind says how the fields of a variant or struct are declared.
type FieldsKind uint8

const (
	UnitFields FieldsKind = iota
	TupleFields
	RecordFields
)

func (k FieldsKind) String() string {
	switch k {
	case UnitFields:
		return "unit"
	case TupleFields:
		return "tuple"
	case RecordFields:
		return "record"
	default:
		return "invalid"
	}
}

// FieldDecl is a struct or variant field. Name is empty for positional fields.
type FieldDecl struct {
	Range
	Name string
	Type Type
}

// VariantDecl is a single variant of an EnumDecl.
type VariantDecl struct {
	Range
	Name   string
	Kind   FieldsKind
	Fields []FieldDecl
}

// EnumDecl represents `enum Name<T> { A, B(T), C { x: bool } }`.
type EnumDecl struct {
	Range
	Name          string
	Generics      []string
	Variants      []VariantDecl
	NonExhaustive bool
}

// StructDecl represents record, tuple and unit structs.
type StructDecl struct {
	Range
	Name          string
	Generics      []string
	Kind          FieldsKind
	Fields        []FieldDecl
	NonExhaustive bool
}

// Param is a function parameter `name: Type`.
type Param struct {
	Range
	Name string
	Type Type
}

// FnDecl represents a function. Ret is nil for functions returning unit.
type FnDecl struct {
	Range
	Name   string
	Params []Param
	Ret    Type
	Body   *BlockExpr
}

// UseDecl represents `use a::b::C;`.
type UseDecl struct {
	Range
	Path []string
}

func (*EnumDecl) itemNode()   {}
func (*StructDecl) itemNode() {}
func (*FnDecl) itemNode()     {}
func (*UseDecl) itemNode()    {}
