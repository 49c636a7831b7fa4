// Package cfg defines the control-flow graph of a method body.
// Nodes are IR statements; edges are typed so analyses can follow
// only the successors a branch condition selects.
package cfg

import (
	"fmt"

	"github.com/l3aro/go-dataflow/pkg/ir"
)

// EdgeType represents the type of a CFG edge.
type EdgeType string

const (
	EdgeTypeUnconditional EdgeType = "unconditional" // Fall-through, goto, return
	EdgeTypeTrue          EdgeType = "true"          // True branch of an if
	EdgeTypeFalse         EdgeType = "false"         // False branch of an if
	EdgeTypeCase          EdgeType = "case"          // Switch case carrying a value
	EdgeTypeDefault       EdgeType = "default"       // Switch default
)

// ParseEdgeType returns the edge type named s. The empty string means unconditional.
func ParseEdgeType(s string) (EdgeType, error) {
	switch t := EdgeType(s); t {
	case "":
		return EdgeTypeUnconditional, nil
	case EdgeTypeUnconditional, EdgeTypeTrue, EdgeTypeFalse, EdgeTypeCase, EdgeTypeDefault:
		return t, nil
	}
	return "", fmt.Errorf("unknown edge type %q", s)
}

// Edge represents a directed edge between two CFG nodes.
type Edge struct {
	Source    ir.Stmt
	Target    ir.Stmt
	Type      EdgeType
	CaseValue int32 // only meaningful for EdgeTypeCase
}

func (e *Edge) String() string {
	if e.Type == EdgeTypeCase {
		return fmt.Sprintf("%d --case %d--> %d", e.Source.Index(), e.CaseValue, e.Target.Index())
	}
	return fmt.Sprintf("%d --%s--> %d", e.Source.Index(), e.Type, e.Target.Index())
}
