package dataflow

import (
	"github.com/l3aro/go-dataflow/pkg/cfg"
	"github.com/l3aro/go-dataflow/pkg/ir"
)

// Result holds the IN and OUT fact of every node of a CFG.
// Facts are stored densely by cfg.ID; a Result is bound to the graph it was created for.
type Result[F any] struct {
	g   *cfg.CFG
	in  []F
	out []F
}

// NewResult returns an empty result for g. Every fact is the zero value of F
// until set.
func NewResult[F any](g *cfg.CFG) *Result[F] {
	return &Result[F]{
		g:   g,
		in:  make([]F, g.Len()),
		out: make([]F, g.Len()),
	}
}

// CFG returns the graph the result belongs to.
func (r *Result[F]) CFG() *cfg.CFG {
	return r.g
}

// InFact returns the fact before node.
func (r *Result[F]) InFact(node ir.Stmt) F {
	return r.in[r.g.ID(node)]
}

// OutFact returns the fact after node.
func (r *Result[F]) OutFact(node ir.Stmt) F {
	return r.out[r.g.ID(node)]
}

// SetInFact stores fact as the IN fact of node.
func (r *Result[F]) SetInFact(node ir.Stmt, fact F) {
	r.in[r.g.ID(node)] = fact
}

// SetOutFact stores fact as the OUT fact of node.
func (r *Result[F]) SetOutFact(node ir.Stmt, fact F) {
	r.out[r.g.ID(node)] = fact
}

// Result returns the OUT fact of node, the conventional per-node result.
func (r *Result[F]) Result(node ir.Stmt) F {
	return r.OutFact(node)
}
