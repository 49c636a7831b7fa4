package constprop

import (
	"github.com/l3aro/go-dataflow/pkg/cfg"
	"github.com/l3aro/go-dataflow/pkg/dataflow"
	"github.com/l3aro/go-dataflow/pkg/ir"
)

// ID identifies constant propagation in analysis plans.
const ID = "constprop"

// Analysis is the forward constant-propagation analysis.
type Analysis struct{}

var _ dataflow.Analysis[*Fact] = (*Analysis)(nil)

// New returns a constant-propagation analysis.
func New() *Analysis {
	return &Analysis{}
}

// IsForward returns true.
func (*Analysis) IsForward() bool {
	return true
}

// NewBoundaryFact maps every int-like parameter to NAC: parameter values come
// from callers and are unknown.
func (*Analysis) NewBoundaryFact(g *cfg.CFG) *Fact {
	fact := NewFact()
	for _, param := range g.Method().Params {
		if CanHoldInt(param) {
			fact.Update(param, NAC())
		}
	}
	return fact
}

// NewInitialFact returns an empty fact.
func (*Analysis) NewInitialFact() *Fact {
	return NewFact()
}

// MeetInto meets every entry of fact into target. Entries only in target are
// left alone, which is the same as meeting them with UNDEF.
func (*Analysis) MeetInto(fact, target *Fact) {
	for v, value := range fact.values {
		target.Update(v, MeetValue(value, target.Get(v)))
	}
}

// TransferNode sets out to in, then re-evaluates the variable node defines if
// it can hold an int.
func (*Analysis) TransferNode(node ir.Stmt, in, out *Fact) bool {
	next := in.Copy()
	switch s := node.(type) {
	case *ir.Assign:
		if v, ok := s.LValue.(*ir.Var); ok && CanHoldInt(v) {
			next.Update(v, Evaluate(s.RValue, in))
		}
	case *ir.Invoke:
		if s.Result != nil && CanHoldInt(s.Result) {
			next.Update(s.Result, Evaluate(s.Call, in))
		}
	}
	return out.CopyFrom(next)
}

// CanHoldInt reports whether v has an int-like primitive type
// (byte, short, int, char or boolean).
func CanHoldInt(v *ir.Var) bool {
	return v.Type.IsIntLike()
}

// Solve runs constant propagation over g with the given solver.
func Solve(g *cfg.CFG, kind dataflow.SolverKind) *dataflow.Result[*Fact] {
	return dataflow.Solve[*Fact](New(), g, kind)
}
