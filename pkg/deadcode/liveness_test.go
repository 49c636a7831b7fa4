package deadcode

import (
	"github.com/l3aro/go-dataflow/pkg/cfg"
	"github.com/l3aro/go-dataflow/pkg/dataflow"
	"github.com/l3aro/go-dataflow/pkg/ir"
)

// liveVariables is the backward analysis whose result Detect consumes.
type liveVariables struct{}

func (liveVariables) IsForward() bool                     { return false }
func (liveVariables) NewBoundaryFact(*cfg.CFG) *ir.VarSet { return ir.NewVarSet() }
func (liveVariables) NewInitialFact() *ir.VarSet          { return ir.NewVarSet() }
func (liveVariables) MeetInto(fact, target *ir.VarSet)    { target.Union(fact) }

func (liveVariables) TransferNode(node ir.Stmt, in, out *ir.VarSet) bool {
	next := out.Copy()
	if def := node.Def(); def != nil {
		next.Remove(def)
	}
	for _, v := range node.Uses() {
		next.Add(v)
	}
	if next.Equal(in) {
		return false
	}
	in.Set(next)
	return true
}

func solveLiveness(g *cfg.CFG) *dataflow.Result[*ir.VarSet] {
	return dataflow.Solve[*ir.VarSet](liveVariables{}, g, dataflow.SolverIterative)
}
