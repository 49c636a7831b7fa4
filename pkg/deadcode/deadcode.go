// Package deadcode detects statements that can never execute, given constant
// branch conditions, and assignments whose value is never used.
package deadcode

import (
	"container/list"

	"github.com/l3aro/go-dataflow/pkg/cfg"
	"github.com/l3aro/go-dataflow/pkg/constprop"
	"github.com/l3aro/go-dataflow/pkg/dataflow"
	"github.com/l3aro/go-dataflow/pkg/ir"
)

// ID identifies dead-code detection in analysis plans.
const ID = "deadcode"

type visitState uint8

const (
	unvisited visitState = iota
	reached              // reachable and live
	deadStore            // reachable, but a side-effect-free assignment to a dead variable
)

// Detect returns the dead statements of g, ordered by position in the method body.
//
// constants is the constant-propagation result for g; its IN facts decide
// branch conditions. liveVars holds, as OUT facts, the variables live after
// each statement. The exit node is never reported.
func Detect(g *cfg.CFG, constants *dataflow.Result[*constprop.Fact], liveVars *dataflow.Result[*ir.VarSet]) []ir.Stmt {
	states := make([]visitState, g.Len())
	queue := list.New()
	queue.PushBack(g.Entry())

	for queue.Len() > 0 {
		node := queue.Remove(queue.Front()).(ir.Stmt)
		id := g.ID(node)
		if states[id] != unvisited {
			continue
		}

		if isDeadAssignment(node, liveVars) {
			// The statement still passes control on; only its value is useless.
			states[id] = deadStore
			enqueueAll(queue, g.SuccsOf(node))
			continue
		}
		states[id] = reached

		switch s := node.(type) {
		case *ir.If:
			cond := constprop.Evaluate(s.Cond, constants.InFact(s))
			if !cond.IsConstant() {
				enqueueAll(queue, g.SuccsOf(s))
				break
			}
			taken := cfg.EdgeTypeFalse
			if cond.Constant() != 0 {
				taken = cfg.EdgeTypeTrue
			}
			for _, e := range g.OutEdgesOf(s) {
				if e.Type == taken {
					queue.PushBack(e.Target)
				}
			}
		case *ir.Switch:
			selector := constprop.Evaluate(s.Var, constants.InFact(s))
			if !selector.IsConstant() {
				enqueueAll(queue, g.SuccsOf(s))
				break
			}
			enqueueAll(queue, switchTargets(g, s, selector.Constant()))
		default:
			enqueueAll(queue, g.SuccsOf(node))
		}
	}

	var dead []ir.Stmt
	for id, node := range g.Nodes() {
		if states[id] != reached && !g.IsExit(node) {
			dead = append(dead, node)
		}
	}
	return dead
}

// switchTargets returns the targets of the case edges matching value, or the
// default targets when no case matches.
func switchTargets(g *cfg.CFG, s *ir.Switch, value int32) []ir.Stmt {
	var cases, defaults []ir.Stmt
	for _, e := range g.OutEdgesOf(s) {
		switch e.Type {
		case cfg.EdgeTypeCase:
			if e.CaseValue == value {
				cases = append(cases, e.Target)
			}
		case cfg.EdgeTypeDefault:
			defaults = append(defaults, e.Target)
		}
	}
	if len(cases) > 0 {
		return cases
	}
	return defaults
}

// isDeadAssignment reports whether node assigns a variable that is not live
// afterwards, using a right-hand side without side effects.
func isDeadAssignment(node ir.Stmt, liveVars *dataflow.Result[*ir.VarSet]) bool {
	assign, ok := node.(*ir.Assign)
	if !ok {
		return false
	}
	v, ok := assign.LValue.(*ir.Var)
	if !ok {
		return false
	}
	return !liveVars.OutFact(node).Contains(v) && HasNoSideEffect(assign.RValue)
}

func enqueueAll(queue *list.List, nodes []ir.Stmt) {
	for _, n := range nodes {
		queue.PushBack(n)
	}
}

// HasNoSideEffect reports whether evaluating exp can neither fail nor change
// program state. Allocation, calls, casts, field and array accesses, division
// and remainder have side effects, and so does any expression containing one.
func HasNoSideEffect(exp ir.Exp) bool {
	switch e := exp.(type) {
	case *ir.NewExp, *ir.InvokeExp, *ir.CastExp, *ir.FieldAccess, *ir.ArrayAccess:
		// Allocation changes the heap, calls may do anything, casts may throw,
		// static field accesses may run class initialization and instance
		// accesses may throw.
		return false
	case *ir.BinaryExp:
		if e.Op == ir.OpDiv || e.Op == ir.OpRem {
			// Division and remainder may throw on a zero divisor.
			return false
		}
		return HasNoSideEffect(e.X) && HasNoSideEffect(e.Y)
	case *ir.NegExp:
		return HasNoSideEffect(e.X)
	default:
		return true
	}
}
