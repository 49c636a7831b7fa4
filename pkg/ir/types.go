// Package ir defines the intermediate representation consumed by the dataflow analyses.
// It includes types for variables, expressions, statements, and method bodies.
package ir

// Type is the static type of a variable or expression.
// Primitive types use the constants below; any other value names a reference type.
type Type string

const (
	TypeByte    Type = "byte"
	TypeShort   Type = "short"
	TypeInt     Type = "int"
	TypeChar    Type = "char"
	TypeBoolean Type = "boolean"
	TypeLong    Type = "long"
	TypeFloat   Type = "float"
	TypeDouble  Type = "double"
)

// IsPrimitive reports whether t is one of the primitive types.
func (t Type) IsPrimitive() bool {
	switch t {
	case TypeByte, TypeShort, TypeInt, TypeChar, TypeBoolean, TypeLong, TypeFloat, TypeDouble:
		return true
	}
	return false
}

// IsIntLike reports whether values of type t fit in a 32-bit int.
func (t Type) IsIntLike() bool {
	switch t {
	case TypeByte, TypeShort, TypeInt, TypeChar, TypeBoolean:
		return true
	}
	return false
}

func (t Type) String() string {
	return string(t)
}
