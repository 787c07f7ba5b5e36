package record

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/google/uuid"
)

// Value is one typed cell. It holds exactly one representation depending
// on Type and contains no pointers or slices, so it is comparable and can
// be used directly as a map key by the constraint counters.
type Value struct {
	Type Type
	Int  int64  // Int16/Int32/Int64
	Str  string // Uuid/Str/Password
	Char rune   // Char
	Bool bool   // Bool
}

// String returns the display form, which is also the form literals take
// in DSL source.
func (v Value) String() string {
	switch v.Type {
	case TypeUuid, TypeStr, TypePassword:
		return v.Str
	case TypeInt16, TypeInt32, TypeInt64:
		return strconv.FormatInt(v.Int, 10)
	case TypeChar:
		return string(v.Char)
	case TypeBool:
		if v.Bool {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("<%s>", v.Type)
	}
}

func StrValue(t Type, s string) Value { return Value{Type: t, Str: s} }
func IntValue(t Type, i int64) Value  { return Value{Type: t, Int: i} }
func CharValue(r rune) Value          { return Value{Type: TypeChar, Char: r} }
func BoolValue(b bool) Value          { return Value{Type: TypeBool, Bool: b} }

// NewUuid returns a freshly generated Uuid value.
func NewUuid() Value {
	return Value{Type: TypeUuid, Str: uuid.NewString()}
}

// Coerce converts a raw literal into a typed Value, range- and
// shape-checking it against t. The empty string on a Uuid column is
// accepted and signals auto-generation to the caller.
func Coerce(t Type, raw string) (Value, error) {
	switch t {
	case TypeStr:
		return Value{Type: TypeStr, Str: raw}, nil

	case TypePassword:
		return Value{Type: TypePassword, Str: raw}, nil

	case TypeUuid:
		if raw == "" {
			return Value{Type: TypeUuid}, nil
		}
		u, err := uuid.Parse(raw)
		if err != nil {
			return Value{}, fmt.Errorf("not a valid UUID: %q", raw)
		}
		return Value{Type: TypeUuid, Str: u.String()}, nil

	case TypeInt16:
		n, err := parseIntRange(raw, -32768, 32767)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TypeInt16, Int: n}, nil

	case TypeInt32:
		n, err := parseIntRange(raw, -2147483648, 2147483647)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TypeInt32, Int: n}, nil

	case TypeInt64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("not a valid integer: %q", raw)
		}
		return Value{Type: TypeInt64, Int: n}, nil

	case TypeChar:
		runes := []rune(raw)
		if len(runes) != 1 {
			return Value{}, fmt.Errorf("CHAR accepts exactly one character, got %q", raw)
		}
		// CHAR is stored as a single byte on disk, so anything outside
		// ASCII would not survive a save/load cycle.
		if runes[0] > unicode.MaxASCII {
			return Value{}, fmt.Errorf("CHAR accepts ASCII characters only, got %q", raw)
		}
		return Value{Type: TypeChar, Char: runes[0]}, nil

	case TypeBool:
		switch raw {
		case "0":
			return Value{Type: TypeBool, Bool: false}, nil
		case "1":
			return Value{Type: TypeBool, Bool: true}, nil
		}
		return Value{}, fmt.Errorf("BOOL accepts 0 or 1, got %q", raw)

	default:
		return Value{}, fmt.Errorf("record: unknown type %v", t)
	}
}

func parseIntRange(raw string, min, max int64) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a valid integer: %q", raw)
	}
	if n < min || n > max {
		return 0, fmt.Errorf("value %d out of range [%d, %d]", n, min, max)
	}
	return n, nil
}
