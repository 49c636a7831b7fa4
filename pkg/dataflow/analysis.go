// Package dataflow provides the fact/lattice contract implemented by dataflow
// analyses and the solvers that compute their fixpoint over a CFG.
package dataflow

import (
	"github.com/l3aro/go-dataflow/pkg/cfg"
	"github.com/l3aro/go-dataflow/pkg/ir"
)

// Analysis is a monotone dataflow analysis over facts of type F.
//
// The solvers assume, without checking, that MeetInto is commutative,
// associative and idempotent, that TransferNode is monotone, and that the
// lattice of facts has finite height.
type Analysis[F any] interface {
	// IsForward reports whether facts flow from the entry towards the exit.
	IsForward() bool

	// NewBoundaryFact returns the fact at the entry (forward) or exit (backward) of g.
	NewBoundaryFact(g *cfg.CFG) F

	// NewInitialFact returns a fresh bottom fact.
	NewInitialFact() F

	// MeetInto meets fact into target, modifying target only.
	MeetInto(fact, target F)

	// TransferNode applies the effect of node. For a forward analysis it
	// computes out from in; for a backward analysis in from out. It writes
	// only the computed fact and reports whether that fact changed.
	TransferNode(node ir.Stmt, in, out F) bool
}
