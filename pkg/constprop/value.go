// Package constprop implements constant propagation for int-like variables.
//
// Each variable is mapped to an element of the flat lattice
//
//	UNDEF < ..., -1, 0, 1, ... < NAC
//
// where UNDEF means no value has been seen yet and NAC (not a constant) means
// the variable may hold different values at run time.
package constprop

import "fmt"

type valueKind uint8

const (
	kindUndef valueKind = iota
	kindConstant
	kindNAC
)

// Value is an element of the constant-propagation lattice. The zero Value is UNDEF.
// Values are comparable with ==.
type Value struct {
	kind     valueKind
	constant int32
}

// Undef returns the bottom element.
func Undef() Value {
	return Value{kind: kindUndef}
}

// NAC returns the top element.
func NAC() Value {
	return Value{kind: kindNAC}
}

// MakeConstant returns the constant c.
func MakeConstant(c int32) Value {
	return Value{kind: kindConstant, constant: c}
}

// IsUndef reports whether v is UNDEF.
func (v Value) IsUndef() bool {
	return v.kind == kindUndef
}

// IsConstant reports whether v is a constant.
func (v Value) IsConstant() bool {
	return v.kind == kindConstant
}

// IsNAC reports whether v is NAC.
func (v Value) IsNAC() bool {
	return v.kind == kindNAC
}

// Constant returns the constant held by v. It panics if v is not a constant.
func (v Value) Constant() int32 {
	if !v.IsConstant() {
		panic(fmt.Sprintf("constprop: %s is not a constant", v))
	}
	return v.constant
}

func (v Value) String() string {
	switch v.kind {
	case kindUndef:
		return "UNDEF"
	case kindNAC:
		return "NAC"
	default:
		return fmt.Sprintf("%d", v.constant)
	}
}

// MeetValue returns the meet of v1 and v2.
func MeetValue(v1, v2 Value) Value {
	switch {
	case v1.IsNAC() || v2.IsNAC():
		return NAC()
	case v1.IsUndef():
		return v2
	case v2.IsUndef():
		return v1
	case v1 == v2:
		return v1
	default:
		return NAC()
	}
}
