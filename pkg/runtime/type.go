package runtime

import "strings"

// NativeType tags the built-in types
type NativeType int

const (
	NativeInt NativeType = iota
	NativeString
	NativeAny
)

// TypeField is one (name, type) entry of a record shape
type TypeField struct {
	Name string
	Type *Type
}

// Type is either a native tag or an ordered record shape. Types are shared
// by handle; equality is structural.
type Type struct {
	Native NativeType
	Record bool
	Fields []TypeField
}

// Shared native type values, bound in the base scope as int/string/any.
var (
	IntType    = &Type{Native: NativeInt}
	StringType = &Type{Native: NativeString}
	AnyType    = &Type{Native: NativeAny}
)

// NewRecordType builds a record shape from its fields
func NewRecordType(fields []TypeField) *Type {
	return &Type{Record: true, Fields: fields}
}

// Equal reports structural type equality: identical native tags, or record
// shapes of equal length with pairwise-equal names and field types.
func (t *Type) Equal(other *Type) bool {
	if t == other {
		return true
	}
	if !t.Record || !other.Record {
		return !t.Record && !other.Record && t.Native == other.Native
	}
	if len(t.Fields) != len(other.Fields) {
		return false
	}
	for i, f := range t.Fields {
		g := other.Fields[i]
		if f.Name != g.Name || !f.Type.Equal(g.Type) {
			return false
		}
	}
	return true
}

// String renders int, string, any, or "record { name: T ... }"
func (t *Type) String() string {
	if !t.Record {
		switch t.Native {
		case NativeInt:
			return "int"
		case NativeString:
			return "string"
		default:
			return "any"
		}
	}
	var sb strings.Builder
	sb.WriteString("record {")
	for _, f := range t.Fields {
		sb.WriteString(" ")
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		sb.WriteString(f.Type.String())
	}
	sb.WriteString(" }")
	return sb.String()
}

// TypeFrom describes a value: numbers are int, strings are string, records
// carry their shape, anything else (including genuinely ambiguous
// resolution sets) is any.
func TypeFrom(v Value) *Type {
	switch t := Flatten(v).(type) {
	case Number:
		return IntType
	case String:
		return StringType
	case *Record:
		return t.Type
	default:
		return AnyType
	}
}
