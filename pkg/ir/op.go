package ir

import "fmt"

// BinaryOp is a binary operator.
type BinaryOp int

const (
	OpAdd BinaryOp = iota // +
	OpSub                 // -
	OpMul                 // *
	OpDiv                 // /
	OpRem                 // %

	OpEq // ==
	OpNe // !=
	OpLt // <
	OpLe // <=
	OpGt // >
	OpGe // >=

	OpOr  // |
	OpAnd // &
	OpXor // ^

	OpShl  // <<
	OpShr  // >> (arithmetic)
	OpUshr // >>> (logical)
)

// OpCategory groups binary operators by the kind of value they compute.
type OpCategory int

const (
	CategoryArithmetic OpCategory = iota
	CategoryCondition
	CategoryBitwise
	CategoryShift
)

var opNames = [...]string{
	OpAdd:  "+",
	OpSub:  "-",
	OpMul:  "*",
	OpDiv:  "/",
	OpRem:  "%",
	OpEq:   "==",
	OpNe:   "!=",
	OpLt:   "<",
	OpLe:   "<=",
	OpGt:   ">",
	OpGe:   ">=",
	OpOr:   "|",
	OpAnd:  "&",
	OpXor:  "^",
	OpShl:  "<<",
	OpShr:  ">>",
	OpUshr: ">>>",
}

func (op BinaryOp) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("BinaryOp(%d)", int(op))
	}
	return opNames[op]
}

// Category returns the category op belongs to.
func (op BinaryOp) Category() OpCategory {
	switch {
	case op <= OpRem:
		return CategoryArithmetic
	case op <= OpGe:
		return CategoryCondition
	case op <= OpXor:
		return CategoryBitwise
	default:
		return CategoryShift
	}
}

// ParseBinaryOp returns the operator spelled s.
func ParseBinaryOp(s string) (BinaryOp, error) {
	for op, name := range opNames {
		if name == s {
			return BinaryOp(op), nil
		}
	}
	return 0, fmt.Errorf("unknown binary operator %q", s)
}

func (c OpCategory) String() string {
	switch c {
	case CategoryArithmetic:
		return "arithmetic"
	case CategoryCondition:
		return "condition"
	case CategoryBitwise:
		return "bitwise"
	case CategoryShift:
		return "shift"
	default:
		return "unknown"
	}
}
