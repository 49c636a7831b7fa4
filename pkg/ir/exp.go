package ir

import (
	"fmt"
	"strings"
)

// Exp is an expression. The set of expression shapes is closed: only this
// package can implement Exp.
type Exp interface {
	fmt.Stringer
	exp()
}

// LValue is an expression that can appear on the left-hand side of an assignment:
// a *Var, a *FieldAccess or an *ArrayAccess.
type LValue interface {
	Exp
	lvalue()
}

// Var is a local variable or parameter of a method.
type Var struct {
	Name  string
	Type  Type
	Index int // position in Method.Vars
}

// IntLiteral is a 32-bit integer constant.
type IntLiteral struct {
	Value int32
}

// BinaryExp applies a binary operator to two operands.
type BinaryExp struct {
	Op BinaryOp
	X  Exp
	Y  Exp
}

// FieldAccess reads or writes a field. Base is nil for static fields.
type FieldAccess struct {
	Base  *Var
	Class string
	Field string
}

// ArrayAccess reads or writes an array element.
type ArrayAccess struct {
	Base  *Var
	Index Exp
}

// NewExp allocates an object, or an array when Length is non-nil.
type NewExp struct {
	Type   Type
	Length Exp
}

// CastExp converts Value to Type.
type CastExp struct {
	Value Exp
	Type  Type
}

// InvokeExp calls a method.
type InvokeExp struct {
	Callee string
	Args   []Exp
}

// NegExp negates its operand.
type NegExp struct {
	X Exp
}

func (*Var) exp()         {}
func (*IntLiteral) exp()  {}
func (*BinaryExp) exp()   {}
func (*FieldAccess) exp() {}
func (*ArrayAccess) exp() {}
func (*NewExp) exp()      {}
func (*CastExp) exp()     {}
func (*InvokeExp) exp()   {}
func (*NegExp) exp()      {}

func (*Var) lvalue()         {}
func (*FieldAccess) lvalue() {}
func (*ArrayAccess) lvalue() {}

// NewIntLiteral returns a literal holding v.
func NewIntLiteral(v int32) *IntLiteral {
	return &IntLiteral{Value: v}
}

// NewBinary returns the binary expression x op y.
func NewBinary(op BinaryOp, x, y Exp) *BinaryExp {
	return &BinaryExp{Op: op, X: x, Y: y}
}

func (v *Var) String() string {
	return v.Name
}

func (l *IntLiteral) String() string {
	return fmt.Sprintf("%d", l.Value)
}

func (b *BinaryExp) String() string {
	return fmt.Sprintf("%s %s %s", b.X, b.Op, b.Y)
}

func (f *FieldAccess) String() string {
	if f.Base == nil {
		return fmt.Sprintf("%s.%s", f.Class, f.Field)
	}
	return fmt.Sprintf("%s.%s", f.Base, f.Field)
}

func (a *ArrayAccess) String() string {
	return fmt.Sprintf("%s[%s]", a.Base, a.Index)
}

func (n *NewExp) String() string {
	if n.Length != nil {
		return fmt.Sprintf("new %s[%s]", n.Type, n.Length)
	}
	return fmt.Sprintf("new %s", n.Type)
}

func (c *CastExp) String() string {
	return fmt.Sprintf("(%s) %s", c.Type, c.Value)
}

func (i *InvokeExp) String() string {
	args := make([]string, len(i.Args))
	for j, a := range i.Args {
		args[j] = a.String()
	}
	return fmt.Sprintf("%s(%s)", i.Callee, strings.Join(args, ", "))
}

func (n *NegExp) String() string {
	return fmt.Sprintf("-%s", n.X)
}

// VarsOf returns the variables read when evaluating e, in operand order.
// Duplicates are kept.
func VarsOf(e Exp) []*Var {
	var vars []*Var
	collectVars(e, &vars)
	return vars
}

func collectVars(e Exp, vars *[]*Var) {
	switch e := e.(type) {
	case nil:
	case *Var:
		*vars = append(*vars, e)
	case *IntLiteral:
	case *BinaryExp:
		collectVars(e.X, vars)
		collectVars(e.Y, vars)
	case *FieldAccess:
		if e.Base != nil {
			*vars = append(*vars, e.Base)
		}
	case *ArrayAccess:
		*vars = append(*vars, e.Base)
		collectVars(e.Index, vars)
	case *NewExp:
		collectVars(e.Length, vars)
	case *CastExp:
		collectVars(e.Value, vars)
	case *InvokeExp:
		for _, a := range e.Args {
			collectVars(a, vars)
		}
	case *NegExp:
		collectVars(e.X, vars)
	default:
		panic(fmt.Sprintf("ir: unexpected expression %T", e))
	}
}
