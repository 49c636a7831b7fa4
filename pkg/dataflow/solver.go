package dataflow

import (
	"fmt"

	"github.com/l3aro/go-dataflow/pkg/cfg"
)

// SolverKind names a fixpoint algorithm.
type SolverKind string

const (
	SolverIterative SolverKind = "iterative" // Round-robin sweeps until nothing changes
	SolverWorklist  SolverKind = "worklist"  // FIFO worklist of nodes to revisit, forward only
)

// ParseSolverKind returns the solver kind named s.
func ParseSolverKind(s string) (SolverKind, error) {
	switch k := SolverKind(s); k {
	case SolverIterative, SolverWorklist:
		return k, nil
	}
	return "", fmt.Errorf("unknown solver %q (must be 'iterative' or 'worklist')", s)
}

// Solver computes the fixpoint of an analysis over a CFG.
type Solver[F any] interface {
	Solve(g *cfg.CFG) *Result[F]
}

// NewSolver returns a solver of the given kind for a.
// It panics if kind is unknown or a is nil.
func NewSolver[F any](kind SolverKind, a Analysis[F]) Solver[F] {
	switch kind {
	case SolverIterative:
		return NewIterativeSolver(a)
	case SolverWorklist:
		return NewWorklistSolver(a)
	default:
		panic(fmt.Sprintf("dataflow: unknown solver kind %q", kind))
	}
}

// Solve runs a over g with the solver of the given kind.
func Solve[F any](a Analysis[F], g *cfg.CFG, kind SolverKind) *Result[F] {
	return NewSolver(kind, a).Solve(g)
}

// initialize allocates the result of a over g. The boundary node gets two
// distinct boundary facts, every other node two distinct initial facts.
func initialize[F any](a Analysis[F], g *cfg.CFG) *Result[F] {
	if g == nil {
		panic("dataflow: nil CFG")
	}
	boundary := g.Entry()
	if !a.IsForward() {
		boundary = g.Exit()
	}

	result := NewResult[F](g)
	for _, node := range g.Nodes() {
		if node == boundary {
			result.SetInFact(node, a.NewBoundaryFact(g))
			result.SetOutFact(node, a.NewBoundaryFact(g))
			continue
		}
		result.SetInFact(node, a.NewInitialFact())
		result.SetOutFact(node, a.NewInitialFact())
	}
	return result
}

// IterativeSolver sweeps over all nodes repeatedly until one sweep changes no fact.
type IterativeSolver[F any] struct {
	analysis Analysis[F]
}

// NewIterativeSolver returns an iterative solver for a. It panics if a is nil.
func NewIterativeSolver[F any](a Analysis[F]) *IterativeSolver[F] {
	if a == nil {
		panic("dataflow: nil analysis")
	}
	return &IterativeSolver[F]{analysis: a}
}

// Solve computes the fixpoint of the analysis over g.
func (s *IterativeSolver[F]) Solve(g *cfg.CFG) *Result[F] {
	result := initialize(s.analysis, g)
	if s.analysis.IsForward() {
		for s.sweepForward(g, result) {
		}
	} else {
		for s.sweepBackward(g, result) {
		}
	}
	return result
}

// sweepForward visits every non-entry node once and reports whether any OUT fact changed.
func (s *IterativeSolver[F]) sweepForward(g *cfg.CFG, result *Result[F]) bool {
	changed := false
	for _, node := range g.Nodes() {
		if g.IsEntry(node) {
			continue
		}
		// IN[B] = MEET(OUT[P1], ..., OUT[Pn])
		in := s.analysis.NewInitialFact()
		for _, pred := range g.PredsOf(node) {
			s.analysis.MeetInto(result.OutFact(pred), in)
		}
		result.SetInFact(node, in)
		// OUT[B] = TRANSFER(IN[B])
		if s.analysis.TransferNode(node, in, result.OutFact(node)) {
			changed = true
		}
	}
	return changed
}

// sweepBackward visits every non-exit node once and reports whether any IN fact changed.
func (s *IterativeSolver[F]) sweepBackward(g *cfg.CFG, result *Result[F]) bool {
	changed := false
	for _, node := range g.Nodes() {
		if g.IsExit(node) {
			continue
		}
		// OUT[B] = MEET(IN[S1], ..., IN[Sn])
		out := s.analysis.NewInitialFact()
		for _, succ := range g.SuccsOf(node) {
			s.analysis.MeetInto(result.InFact(succ), out)
		}
		result.SetOutFact(node, out)
		// IN[B] = TRANSFER(OUT[B])
		if s.analysis.TransferNode(node, result.InFact(node), out) {
			changed = true
		}
	}
	return changed
}
