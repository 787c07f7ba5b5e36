package record

import "fmt"

// Type is the closed set of column types. Tag values are part of the
// .dtb on-disk format and must never be reordered.
type Type uint8

const (
	TypeUuid Type = iota
	TypeStr
	TypePassword
	TypeInt16
	TypeInt32
	TypeInt64
	TypeChar
	TypeBool
)

func (t Type) String() string {
	switch t {
	case TypeUuid:
		return "UUID"
	case TypeStr:
		return "STR"
	case TypePassword:
		return "PASSWORD"
	case TypeInt16:
		return "INT16"
	case TypeInt32:
		return "INT32"
	case TypeInt64:
		return "INT64"
	case TypeChar:
		return "CHAR"
	case TypeBool:
		return "BOOL"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// TypeFromTag maps an on-disk tag byte back to a Type.
func TypeFromTag(tag uint8) (Type, error) {
	if tag > uint8(TypeBool) {
		return 0, fmt.Errorf("record: unknown type tag %d", tag)
	}
	return Type(tag), nil
}

// Constraint is the closed set of per-column cardinality constraints.
// Tag values are part of the .dtb on-disk format.
type Constraint uint8

const (
	ConstraintNone Constraint = iota
	ConstraintUnic
	ConstraintMain
	ConstraintUnicMain
)

// Max returns how many items may share one value in a column with this
// constraint. 0 means unbounded.
func (c Constraint) Max() int {
	switch c {
	case ConstraintUnic:
		return 2
	case ConstraintMain:
		return 10
	case ConstraintUnicMain:
		return 1
	default:
		return 0
	}
}

func (c Constraint) String() string {
	switch c {
	case ConstraintNone:
		return ""
	case ConstraintUnic:
		return "UNIC"
	case ConstraintMain:
		return "MAIN"
	case ConstraintUnicMain:
		return "UNIC MAIN"
	default:
		return fmt.Sprintf("Constraint(%d)", uint8(c))
	}
}

// ConstraintFromTag maps an on-disk tag byte back to a Constraint.
func ConstraintFromTag(tag uint8) (Constraint, error) {
	if tag > uint8(ConstraintUnicMain) {
		return 0, fmt.Errorf("record: unknown constraint tag %d", tag)
	}
	return Constraint(tag), nil
}

// Column is one column definition in a table schema.
type Column struct {
	Name       string
	Type       Type
	Constraint Constraint
}

// Schema is an ordered column list. Order is fixed at creation and drives
// both the binary layout and display order.
type Schema struct {
	Cols []Column
}

func (s Schema) NumCols() int { return len(s.Cols) }

// Column returns the column with the given name, or false.
func (s Schema) Column(name string) (Column, bool) {
	for _, c := range s.Cols {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
