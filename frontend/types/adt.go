package types

import (
	"strconv"

	"github.com/cottand/matchck/frontend/ast"
)

type AdtKind uint8

const (
	KindStruct AdtKind = iota
	KindEnum
)

func (k AdtKind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	default:
		return "invalid"
	}
}

// FieldDef is a declared field. Positional fields are named after their index.
type FieldDef struct {
	Name string
	Type Type
}

type VariantDef struct {
	Name   string
	Shape  ast.FieldsKind
	Fields []FieldDef
}

// AdtDef is the definition of an enum or a struct.
// A struct has exactly one variant, named after the struct.
type AdtDef struct {
	// ID is unique per loaded program and used to key caches
	ID            int
	Name          string
	Crate         string
	Kind          AdtKind
	Generics      []string
	Variants      []VariantDef
	NonExhaustive bool
	From          ast.Positioner
}

func (d *AdtDef) IsEnum() bool { return d.Kind == KindEnum }

// VariantIndex returns the index of the variant called name, or -1
func (d *AdtDef) VariantIndex(name string) int {
	for i, v := range d.Variants {
		if v.Name == name {
			return i
		}
	}
	return -1
}

// FieldIndex returns the position of the field called name in variant, or -1
func (d *AdtDef) FieldIndex(variant int, name string) int {
	for i, f := range d.Variants[variant].Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// FieldTypes returns the field types of variant with the generic parameters replaced by args
func (d *AdtDef) FieldTypes(variant int, args []Type) []Type {
	fields := d.Variants[variant].Fields
	ret := make([]Type, len(fields))
	for i, f := range fields {
		ret[i] = Subst(f.Type, args)
	}
	return ret
}

// PositionalName is the name of the i-th positional field
func PositionalName(i int) string {
	return strconv.Itoa(i)
}
