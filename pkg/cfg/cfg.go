package cfg

import (
	"fmt"

	"github.com/l3aro/go-dataflow/pkg/ir"
)

// CFG is the control-flow graph of one method. It has a single virtual entry
// and a single virtual exit node, which hold no real statement.
//
// Every node has a dense ID: the entry is 0, body statement i is i+1 and the
// exit is len(body)+1, so IDs follow statement positions.
type CFG struct {
	method *ir.Method
	entry  *ir.Nop
	exit   *ir.Nop
	nodes  []ir.Stmt
	out    [][]*Edge
	in     [][]*Edge
}

// New creates a graph whose nodes are the statements of m plus the virtual
// entry and exit. It has no edges yet.
func New(m *ir.Method) *CFG {
	n := len(m.Stmts)
	g := &CFG{
		method: m,
		entry:  ir.NewNop(-1),
		exit:   ir.NewNop(n),
		nodes:  make([]ir.Stmt, 0, n+2),
		out:    make([][]*Edge, n+2),
		in:     make([][]*Edge, n+2),
	}
	g.nodes = append(g.nodes, g.entry)
	g.nodes = append(g.nodes, m.Stmts...)
	g.nodes = append(g.nodes, g.exit)
	return g
}

// AddEdge adds an edge of type t from src to dst. Use AddCaseEdge for switch cases.
func (g *CFG) AddEdge(t EdgeType, src, dst ir.Stmt) *Edge {
	return g.addEdge(&Edge{Source: src, Target: dst, Type: t})
}

// AddCaseEdge adds a switch case edge for value from src to dst.
func (g *CFG) AddCaseEdge(src, dst ir.Stmt, value int32) *Edge {
	return g.addEdge(&Edge{Source: src, Target: dst, Type: EdgeTypeCase, CaseValue: value})
}

func (g *CFG) addEdge(e *Edge) *Edge {
	if !g.Contains(e.Source) || !g.Contains(e.Target) {
		panic(fmt.Sprintf("cfg: edge %v has an endpoint outside %s", e, g.method.Name))
	}
	g.out[g.ID(e.Source)] = append(g.out[g.ID(e.Source)], e)
	g.in[g.ID(e.Target)] = append(g.in[g.ID(e.Target)], e)
	return e
}

// Method returns the method the graph was built for.
func (g *CFG) Method() *ir.Method {
	return g.method
}

// Entry returns the virtual entry node.
func (g *CFG) Entry() ir.Stmt {
	return g.entry
}

// Exit returns the virtual exit node.
func (g *CFG) Exit() ir.Stmt {
	return g.exit
}

// IsEntry reports whether n is the entry node.
func (g *CFG) IsEntry(n ir.Stmt) bool {
	return n == ir.Stmt(g.entry)
}

// IsExit reports whether n is the exit node.
func (g *CFG) IsExit(n ir.Stmt) bool {
	return n == ir.Stmt(g.exit)
}

// ID returns the dense identifier of n.
func (g *CFG) ID(n ir.Stmt) int {
	return n.Index() + 1
}

// Node returns the node with the given ID.
func (g *CFG) Node(id int) ir.Stmt {
	return g.nodes[id]
}

// Contains reports whether n is a node of g.
func (g *CFG) Contains(n ir.Stmt) bool {
	id := g.ID(n)
	return id >= 0 && id < len(g.nodes) && g.nodes[id] == n
}

// Len returns the number of nodes, entry and exit included.
func (g *CFG) Len() int {
	return len(g.nodes)
}

// Nodes returns every node ordered by ID. The slice must not be modified.
func (g *CFG) Nodes() []ir.Stmt {
	return g.nodes
}

// OutEdgesOf returns the edges leaving n.
func (g *CFG) OutEdgesOf(n ir.Stmt) []*Edge {
	return g.out[g.ID(n)]
}

// InEdgesOf returns the edges entering n.
func (g *CFG) InEdgesOf(n ir.Stmt) []*Edge {
	return g.in[g.ID(n)]
}

// SuccsOf returns the successors of n, one per outgoing edge.
func (g *CFG) SuccsOf(n ir.Stmt) []ir.Stmt {
	edges := g.out[g.ID(n)]
	succs := make([]ir.Stmt, len(edges))
	for i, e := range edges {
		succs[i] = e.Target
	}
	return succs
}

// PredsOf returns the predecessors of n, one per incoming edge.
func (g *CFG) PredsOf(n ir.Stmt) []ir.Stmt {
	edges := g.in[g.ID(n)]
	preds := make([]ir.Stmt, len(edges))
	for i, e := range edges {
		preds[i] = e.Source
	}
	return preds
}

// Edges returns every edge, grouped by source node in ID order.
func (g *CFG) Edges() []*Edge {
	var edges []*Edge
	for _, out := range g.out {
		edges = append(edges, out...)
	}
	return edges
}
