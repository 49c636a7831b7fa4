package cfg

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/l3aro/go-dataflow/pkg/ir"
)

// ErrMalformed is wrapped by every error returned from Validate.
var ErrMalformed = errors.New("malformed control-flow graph")

// Validate checks the structural invariants the analyses rely on: every node
// but the exit is reachable from the entry, the entry has no predecessors,
// the exit has no successors, if nodes have exactly one true and one false
// edge, and switch nodes have one default edge plus case edges for declared
// case values.
func (g *CFG) Validate() error {
	var errs []error
	report := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s: %s", ErrMalformed, g.method.Name, fmt.Sprintf(format, args...)))
	}

	if len(g.InEdgesOf(g.entry)) > 0 {
		report("entry node has predecessors")
	}
	if len(g.OutEdgesOf(g.exit)) > 0 {
		report("exit node has successors")
	}

	for _, n := range g.nodes {
		switch s := n.(type) {
		case *ir.If:
			var trues, falses int
			for _, e := range g.OutEdgesOf(s) {
				switch e.Type {
				case EdgeTypeTrue:
					trues++
				case EdgeTypeFalse:
					falses++
				default:
					report("statement %d: if has a %s edge", s.Index(), e.Type)
				}
			}
			if trues != 1 || falses != 1 {
				report("statement %d: if needs one true and one false edge, has %d and %d", s.Index(), trues, falses)
			}
		case *ir.Switch:
			var defaults int
			for _, e := range g.OutEdgesOf(s) {
				switch e.Type {
				case EdgeTypeDefault:
					defaults++
				case EdgeTypeCase:
					if !slices.Contains(s.Cases, e.CaseValue) {
						report("statement %d: case edge for undeclared value %d", s.Index(), e.CaseValue)
					}
				default:
					report("statement %d: switch has a %s edge", s.Index(), e.Type)
				}
			}
			if defaults != 1 {
				report("statement %d: switch needs one default edge, has %d", s.Index(), defaults)
			}
		default:
			for _, e := range g.OutEdgesOf(n) {
				if e.Type != EdgeTypeUnconditional {
					report("statement %d: %s edge leaves a non-branch statement", n.Index(), e.Type)
				}
			}
		}
	}

	for _, n := range g.Unreachable() {
		// A method that never returns leaves the exit without predecessors.
		if n != ir.Stmt(g.exit) {
			report("statement %d is unreachable from entry", n.Index())
		}
	}

	return errors.Join(errs...)
}

// Unreachable returns the nodes that no path from the entry reaches,
// ignoring edge types. The exit node is included when nothing reaches it.
func (g *CFG) Unreachable() []ir.Stmt {
	dg := simple.NewDirectedGraph()
	for id := range g.nodes {
		dg.AddNode(simple.Node(id))
	}
	for _, e := range g.Edges() {
		from, to := g.ID(e.Source), g.ID(e.Target)
		if from == to {
			// simple.DirectedGraph rejects self loops; they never add reachability.
			continue
		}
		dg.SetEdge(dg.NewEdge(simple.Node(from), simple.Node(to)))
	}

	var bfs traverse.BreadthFirst
	bfs.Walk(dg, simple.Node(g.ID(g.entry)), nil)

	var unreachable []ir.Stmt
	for id, n := range g.nodes {
		if !bfs.Visited(simple.Node(id)) {
			unreachable = append(unreachable, n)
		}
	}
	return unreachable
}
