package ir

import (
	"fmt"
	"strings"
)

// Stmt is a statement of a method body. The set of statement shapes is closed:
// only this package can implement Stmt.
type Stmt interface {
	fmt.Stringer
	// Index returns the position of the statement in its method body.
	// The virtual entry node has index -1 and the virtual exit node len(body).
	Index() int
	// Line returns the source line, or 0 if unknown.
	Line() int
	// Def returns the variable defined by the statement, or nil.
	Def() *Var
	// Uses returns the variables read by the statement.
	Uses() []*Var

	setIndex(int)
	stmt()
}

type stmtBase struct {
	index int
	line  int
}

func (s *stmtBase) Index() int       { return s.index }
func (s *stmtBase) Line() int        { return s.line }
func (s *stmtBase) setIndex(i int)   { s.index = i }
func (s *stmtBase) SetLine(line int) { s.line = line }
func (*stmtBase) stmt()              {}

// Nop does nothing. The CFG's virtual entry and exit nodes are Nops.
type Nop struct {
	stmtBase
}

// Assign stores the value of RValue into LValue.
type Assign struct {
	stmtBase
	LValue LValue
	RValue Exp
}

// Invoke calls a method and optionally stores the result.
type Invoke struct {
	stmtBase
	Result *Var // nil when the result is discarded
	Call   *InvokeExp
}

// If branches on Cond. Its CFG successors are labelled with the true and false edge types.
type If struct {
	stmtBase
	Cond Exp
}

// Switch branches on the value of Var. Its CFG successors are labelled with
// case edges carrying values from Cases, plus one default edge.
type Switch struct {
	stmtBase
	Var   *Var
	Cases []int32
}

// Goto jumps unconditionally.
type Goto struct {
	stmtBase
}

// Return leaves the method. Value is nil for void returns.
type Return struct {
	stmtBase
	Value Exp
}

// NewNop returns a Nop with the given index.
func NewNop(index int) *Nop {
	return &Nop{stmtBase: stmtBase{index: index}}
}

// NewAssign returns the statement lhs = rhs.
func NewAssign(lhs LValue, rhs Exp) *Assign {
	return &Assign{LValue: lhs, RValue: rhs}
}

// NewInvoke returns a call statement; result may be nil.
func NewInvoke(result *Var, call *InvokeExp) *Invoke {
	return &Invoke{Result: result, Call: call}
}

// NewIf returns a conditional branch on cond.
func NewIf(cond Exp) *If {
	return &If{Cond: cond}
}

// NewSwitch returns a switch on v with the given case values.
func NewSwitch(v *Var, cases ...int32) *Switch {
	return &Switch{Var: v, Cases: cases}
}

// NewGoto returns an unconditional jump.
func NewGoto() *Goto {
	return &Goto{}
}

// NewReturn returns a return statement; value may be nil.
func NewReturn(value Exp) *Return {
	return &Return{Value: value}
}

func (*Nop) Def() *Var { return nil }

func (s *Assign) Def() *Var {
	if v, ok := s.LValue.(*Var); ok {
		return v
	}
	return nil
}

func (s *Invoke) Def() *Var { return s.Result }
func (*If) Def() *Var       { return nil }
func (*Switch) Def() *Var   { return nil }
func (*Goto) Def() *Var     { return nil }
func (*Return) Def() *Var   { return nil }

func (*Nop) Uses() []*Var { return nil }

func (s *Assign) Uses() []*Var {
	uses := VarsOf(s.RValue)
	switch lv := s.LValue.(type) {
	case *FieldAccess, *ArrayAccess:
		uses = append(uses, VarsOf(lv)...)
	}
	return uses
}

func (s *Invoke) Uses() []*Var { return VarsOf(s.Call) }
func (s *If) Uses() []*Var     { return VarsOf(s.Cond) }
func (s *Switch) Uses() []*Var { return []*Var{s.Var} }
func (*Goto) Uses() []*Var     { return nil }

func (s *Return) Uses() []*Var {
	if s.Value == nil {
		return nil
	}
	return VarsOf(s.Value)
}

func (*Nop) String() string { return "nop" }

func (s *Assign) String() string {
	return fmt.Sprintf("%s = %s;", s.LValue, s.RValue)
}

func (s *Invoke) String() string {
	if s.Result == nil {
		return fmt.Sprintf("%s;", s.Call)
	}
	return fmt.Sprintf("%s = %s;", s.Result, s.Call)
}

func (s *If) String() string {
	return fmt.Sprintf("if (%s)", s.Cond)
}

func (s *Switch) String() string {
	cases := make([]string, len(s.Cases))
	for i, c := range s.Cases {
		cases[i] = fmt.Sprintf("%d", c)
	}
	return fmt.Sprintf("switch (%s) [%s]", s.Var, strings.Join(cases, ", "))
}

func (*Goto) String() string { return "goto;" }

func (s *Return) String() string {
	if s.Value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", s.Value)
}
