package constprop

import (
	"github.com/l3aro/go-dataflow/pkg/ir"
)

// Evaluate returns the abstract value of exp given the facts in.
// It does not modify in and can be used outside the analysis.
//
// Expressions other than int literals, int-like variables and binary
// expressions evaluate to NAC.
func Evaluate(exp ir.Exp, in *Fact) Value {
	switch e := exp.(type) {
	case *ir.IntLiteral:
		return MakeConstant(e.Value)
	case *ir.Var:
		if CanHoldInt(e) {
			return in.Get(e)
		}
		return NAC()
	case *ir.BinaryExp:
		return evaluateBinary(e, in)
	default:
		return NAC()
	}
}

func evaluateBinary(e *ir.BinaryExp, in *Fact) Value {
	v1 := Evaluate(e.X, in)
	v2 := Evaluate(e.Y, in)

	// x / 0 and x % 0 throw instead of producing a value, even when x is NAC.
	if (e.Op == ir.OpDiv || e.Op == ir.OpRem) && v2.IsConstant() && v2.Constant() == 0 {
		return Undef()
	}

	switch {
	case v1.IsNAC() || v2.IsNAC():
		return NAC()
	case v1.IsConstant() && v2.IsConstant():
		return fold(e.Op, v1.Constant(), v2.Constant())
	default:
		return Undef()
	}
}

// fold applies op with 32-bit two's-complement semantics. Shift counts use
// their low five bits only, so 1 << 33 == 2.
func fold(op ir.BinaryOp, i1, i2 int32) Value {
	switch op {
	case ir.OpAdd:
		return MakeConstant(i1 + i2)
	case ir.OpSub:
		return MakeConstant(i1 - i2)
	case ir.OpMul:
		return MakeConstant(i1 * i2)
	case ir.OpDiv:
		return MakeConstant(i1 / i2)
	case ir.OpRem:
		return MakeConstant(i1 % i2)
	case ir.OpEq:
		return boolConstant(i1 == i2)
	case ir.OpNe:
		return boolConstant(i1 != i2)
	case ir.OpLt:
		return boolConstant(i1 < i2)
	case ir.OpLe:
		return boolConstant(i1 <= i2)
	case ir.OpGt:
		return boolConstant(i1 > i2)
	case ir.OpGe:
		return boolConstant(i1 >= i2)
	case ir.OpOr:
		return MakeConstant(i1 | i2)
	case ir.OpAnd:
		return MakeConstant(i1 & i2)
	case ir.OpXor:
		return MakeConstant(i1 ^ i2)
	case ir.OpShl:
		return MakeConstant(i1 << shiftCount(i2))
	case ir.OpShr:
		return MakeConstant(i1 >> shiftCount(i2))
	case ir.OpUshr:
		return MakeConstant(int32(uint32(i1) >> shiftCount(i2)))
	default:
		return NAC()
	}
}

func shiftCount(n int32) uint32 {
	return uint32(n) & 31
}

func boolConstant(b bool) Value {
	if b {
		return MakeConstant(1)
	}
	return MakeConstant(0)
}
