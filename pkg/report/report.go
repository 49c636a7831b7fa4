// Package report turns analysis results into serializable reports and
// encodes them as text, JSON or MessagePack.
package report

import (
	"fmt"

	"github.com/l3aro/go-dataflow/pkg/cfg"
	"github.com/l3aro/go-dataflow/pkg/constprop"
	"github.com/l3aro/go-dataflow/pkg/dataflow"
	"github.com/l3aro/go-dataflow/pkg/ir"
)

// Report holds the results of the analyses run over one method.
type Report struct {
	Method   string      `json:"method" msgpack:"method"`
	Source   string      `json:"source,omitempty" msgpack:"source,omitempty"`
	Analyses []string    `json:"analyses" msgpack:"analyses"`
	DeadCode []Stmt      `json:"dead_code,omitempty" msgpack:"dead_code,omitempty"`
	Facts    []NodeFacts `json:"facts,omitempty" msgpack:"facts,omitempty"`
	Graph    *Graph      `json:"graph,omitempty" msgpack:"graph,omitempty"`
}

// Stmt identifies a statement of the method body.
type Stmt struct {
	Index int    `json:"index" msgpack:"index"`
	Line  int    `json:"line,omitempty" msgpack:"line,omitempty"`
	Text  string `json:"text" msgpack:"text"`
}

// NodeFacts holds the constant facts before and after one statement, keyed by
// variable name. Variables that are UNDEF are omitted.
type NodeFacts struct {
	Index int               `json:"index" msgpack:"index"`
	Stmt  string            `json:"stmt" msgpack:"stmt"`
	In    map[string]string `json:"in" msgpack:"in"`
	Out   map[string]string `json:"out" msgpack:"out"`
}

// Graph is the serializable form of a CFG. Node IDs follow cfg.CFG.ID.
type Graph struct {
	Entry int         `json:"entry" msgpack:"entry"`
	Exit  int         `json:"exit" msgpack:"exit"`
	Nodes []GraphNode `json:"nodes" msgpack:"nodes"`
	Edges []GraphEdge `json:"edges" msgpack:"edges"`
}

// GraphNode is one CFG node.
type GraphNode struct {
	ID   int    `json:"id" msgpack:"id"`
	Kind string `json:"kind" msgpack:"kind"`
	Text string `json:"text" msgpack:"text"`
	Line int    `json:"line,omitempty" msgpack:"line,omitempty"`
}

// GraphEdge is one typed CFG edge.
type GraphEdge struct {
	Source    int    `json:"source" msgpack:"source"`
	Target    int    `json:"target" msgpack:"target"`
	Type      string `json:"type" msgpack:"type"`
	CaseValue *int32 `json:"case_value,omitempty" msgpack:"case_value,omitempty"`
}

// New returns an empty report for m.
func New(m *ir.Method, analyses ...string) *Report {
	return &Report{Method: m.Name, Analyses: analyses}
}

// FromDeadCode converts dead statements into report entries, keeping their order.
func FromDeadCode(dead []ir.Stmt) []Stmt {
	stmts := make([]Stmt, 0, len(dead))
	for _, s := range dead {
		stmts = append(stmts, Stmt{Index: s.Index(), Line: s.Line(), Text: s.String()})
	}
	return stmts
}

// FromConstants lists the IN and OUT constant facts of every body statement of g.
func FromConstants(g *cfg.CFG, result *dataflow.Result[*constprop.Fact]) []NodeFacts {
	stmts := g.Method().Stmts
	facts := make([]NodeFacts, 0, len(stmts))
	for _, s := range stmts {
		facts = append(facts, NodeFacts{
			Index: s.Index(),
			Stmt:  s.String(),
			In:    factMap(result.InFact(s)),
			Out:   factMap(result.OutFact(s)),
		})
	}
	return facts
}

func factMap(f *constprop.Fact) map[string]string {
	m := make(map[string]string, f.Len())
	for _, v := range f.Keys() {
		m[v.Name] = f.Get(v).String()
	}
	return m
}

// FromCFG converts g into its serializable form.
func FromCFG(g *cfg.CFG) *Graph {
	graph := &Graph{
		Entry: g.ID(g.Entry()),
		Exit:  g.ID(g.Exit()),
	}
	for id, n := range g.Nodes() {
		node := GraphNode{ID: id, Kind: kindOf(n), Text: n.String(), Line: n.Line()}
		switch {
		case g.IsEntry(n):
			node.Kind, node.Text = "entry", "entry"
		case g.IsExit(n):
			node.Kind, node.Text = "exit", "exit"
		}
		graph.Nodes = append(graph.Nodes, node)
	}
	for _, e := range g.Edges() {
		edge := GraphEdge{Source: g.ID(e.Source), Target: g.ID(e.Target), Type: string(e.Type)}
		if e.Type == cfg.EdgeTypeCase {
			v := e.CaseValue
			edge.CaseValue = &v
		}
		graph.Edges = append(graph.Edges, edge)
	}
	return graph
}

func kindOf(s ir.Stmt) string {
	switch s.(type) {
	case *ir.Nop:
		return "nop"
	case *ir.Assign:
		return "assign"
	case *ir.Invoke:
		return "invoke"
	case *ir.If:
		return "if"
	case *ir.Switch:
		return "switch"
	case *ir.Goto:
		return "goto"
	case *ir.Return:
		return "return"
	default:
		panic(fmt.Sprintf("report: unexpected statement %T", s))
	}
}
