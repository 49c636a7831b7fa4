package dataflow

import (
	"container/list"

	"github.com/l3aro/go-dataflow/pkg/cfg"
	"github.com/l3aro/go-dataflow/pkg/ir"
)

// WorklistSolver revisits only the nodes whose predecessors changed.
// It supports forward analyses only.
type WorklistSolver[F any] struct {
	analysis Analysis[F]
}

// NewWorklistSolver returns a worklist solver for a. It panics if a is nil.
func NewWorklistSolver[F any](a Analysis[F]) *WorklistSolver[F] {
	if a == nil {
		panic("dataflow: nil analysis")
	}
	return &WorklistSolver[F]{analysis: a}
}

// Solve computes the fixpoint of the analysis over g.
// It panics if the analysis is backward.
func (s *WorklistSolver[F]) Solve(g *cfg.CFG) *Result[F] {
	if !s.analysis.IsForward() {
		panic("dataflow: worklist solver does not support backward analyses")
	}
	result := initialize(s.analysis, g)

	worklist := list.New()
	queued := make([]bool, g.Len())
	push := func(node ir.Stmt) {
		if g.IsEntry(node) {
			return
		}
		if id := g.ID(node); !queued[id] {
			queued[id] = true
			worklist.PushBack(node)
		}
	}
	for _, node := range g.Nodes() {
		push(node)
	}

	for worklist.Len() > 0 {
		node := worklist.Remove(worklist.Front()).(ir.Stmt)
		queued[g.ID(node)] = false

		in := s.analysis.NewInitialFact()
		for _, pred := range g.PredsOf(node) {
			s.analysis.MeetInto(result.OutFact(pred), in)
		}
		result.SetInFact(node, in)

		// If out changed, add successors to worklist
		if s.analysis.TransferNode(node, in, result.OutFact(node)) {
			for _, succ := range g.SuccsOf(node) {
				push(succ)
			}
		}
	}
	return result
}
