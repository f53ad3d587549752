package storage

import "fmt"

// DataType enumerates the column types heapql supports.
type DataType int

const (
	TypeInteger DataType = iota
	TypeVarchar
	TypeBoolean
)

func (t DataType) String() string {
	switch t {
	case TypeInteger:
		return "INTEGER"
	case TypeVarchar:
		return "VARCHAR"
	case TypeBoolean:
		return "BOOLEAN"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(t))
	}
}

// ValueKind tags which variant of Value is populated.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindInteger
	KindVarchar
	KindBoolean
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindInteger:
		return "INTEGER"
	case KindVarchar:
		return "VARCHAR"
	case KindBoolean:
		return "BOOLEAN"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(k))
	}
}

// Value is a tagged union of the four runtime value kinds: Integer(int32),
// Varchar(string), Boolean(bool), and Null. Only the field matching Kind is
// meaningful.
type Value struct {
	Kind ValueKind
	I    int32
	S    string
	B    bool
}

// Null is the singular Null value.
var Null = Value{Kind: KindNull}

// NewInteger builds an Integer value.
func NewInteger(i int32) Value { return Value{Kind: KindInteger, I: i} }

// NewVarchar builds a Varchar value.
func NewVarchar(s string) Value { return Value{Kind: KindVarchar, S: s} }

// NewBoolean builds a Boolean value.
func NewBoolean(b bool) Value { return Value{Kind: KindBoolean, B: b} }

// IsNull reports whether v is the Null value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// String renders v for display (REPL table/YAML output, error messages).
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "NULL"
	case KindInteger:
		return fmt.Sprintf("%d", v.I)
	case KindVarchar:
		return v.S
	case KindBoolean:
		if v.B {
			return "true"
		}
		return "false"
	default:
		return "?"
	}
}
