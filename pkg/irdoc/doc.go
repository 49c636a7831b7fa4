// Package irdoc loads methods, their control-flow graphs and precomputed
// live-variable sets from YAML (or JSON) documents.
//
// A document lists methods. Each method declares its parameters and local
// variables, its statements as structured expression trees, and the CFG edges
// between them:
//
//	methods:
//	  - name: abs
//	    params: [{name: x, type: int}]
//	    vars: [{name: r, type: int}]
//	    stmts:
//	      - if: {op: "<", x: {var: x}, y: {int: 0}}
//	      - assign: {lhs: {var: r}, rhs: {neg: {var: x}}}
//	        live: [r]
//	      - return: {var: r}
//	    edges:
//	      - {from: entry, to: 0}
//	      - {from: 0, to: 1, type: "true"}
//	      - {from: 0, to: 2, type: "false"}
//	      - {from: 1, to: 2}
//	      - {from: 2, to: exit}
//
// The live list of a statement names the variables live after it. A statement
// without one is treated as if every variable were live.
package irdoc

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Document is the top-level shape of an IR document.
type Document struct {
	Methods []MethodDoc `yaml:"methods"`
}

// MethodDoc describes one method.
type MethodDoc struct {
	Name   string    `yaml:"name"`
	Params []VarDoc  `yaml:"params,omitempty"`
	Vars   []VarDoc  `yaml:"vars,omitempty"`
	Stmts  []StmtDoc `yaml:"stmts"`
	Edges  []EdgeDoc `yaml:"edges"`
}

// VarDoc declares a variable.
type VarDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// StmtDoc is a statement. Exactly one of the statement fields must be set.
type StmtDoc struct {
	Line int       `yaml:"line,omitempty"`
	Live *[]string `yaml:"live,omitempty"`

	Nop    *struct{}  `yaml:"nop,omitempty"`
	Assign *AssignDoc `yaml:"assign,omitempty"`
	Invoke *InvokeDoc `yaml:"invoke,omitempty"`
	If     *ExpDoc    `yaml:"if,omitempty"`
	Switch *SwitchDoc `yaml:"switch,omitempty"`
	Goto   *struct{}  `yaml:"goto,omitempty"`
	Return *ExpDoc    `yaml:"return,omitempty"` // {} for a void return; null is not a statement
}

// AssignDoc is lhs = rhs.
type AssignDoc struct {
	LHS ExpDoc `yaml:"lhs"`
	RHS ExpDoc `yaml:"rhs"`
}

// InvokeDoc is a call whose result is optionally stored in Result.
type InvokeDoc struct {
	CallDoc `yaml:",inline"`

	Result string `yaml:"result,omitempty"`
}

// SwitchDoc switches on a variable.
type SwitchDoc struct {
	Var   string  `yaml:"var"`
	Cases []int32 `yaml:"cases"`
}

// ExpDoc is an expression. Exactly one shape must be set; a binary expression
// is written with op, x and y.
type ExpDoc struct {
	Var   string    `yaml:"var,omitempty"`
	Int   *int32    `yaml:"int,omitempty"`
	Op    string    `yaml:"op,omitempty"`
	X     *ExpDoc   `yaml:"x,omitempty"`
	Y     *ExpDoc   `yaml:"y,omitempty"`
	Neg   *ExpDoc   `yaml:"neg,omitempty"`
	Field *FieldDoc `yaml:"field,omitempty"`
	Array *ArrayDoc `yaml:"array,omitempty"`
	New   *NewDoc   `yaml:"new,omitempty"`
	Cast  *CastDoc  `yaml:"cast,omitempty"`
	Call  *CallDoc  `yaml:"call,omitempty"`
}

// FieldDoc is base.name, or class.name for a static field.
type FieldDoc struct {
	Base  string `yaml:"base,omitempty"`
	Class string `yaml:"class,omitempty"`
	Name  string `yaml:"name"`
}

// ArrayDoc is base[index].
type ArrayDoc struct {
	Base  string `yaml:"base"`
	Index ExpDoc `yaml:"index"`
}

// NewDoc allocates an object, or an array of length Length.
type NewDoc struct {
	Type   string  `yaml:"type"`
	Length *ExpDoc `yaml:"length,omitempty"`
}

// CastDoc is (type) value.
type CastDoc struct {
	Type  string `yaml:"type"`
	Value ExpDoc `yaml:"value"`
}

// CallDoc is callee(args...).
type CallDoc struct {
	Callee string   `yaml:"callee"`
	Args   []ExpDoc `yaml:"args,omitempty"`
}

// EdgeDoc is a CFG edge. Type defaults to unconditional; Value is the case
// value of a case edge.
type EdgeDoc struct {
	From  NodeRef `yaml:"from"`
	To    NodeRef `yaml:"to"`
	Type  string  `yaml:"type,omitempty"`
	Value int32   `yaml:"value,omitempty"`
}

// NodeRef names a CFG node: "entry", "exit" or a statement index.
type NodeRef struct {
	Entry bool
	Exit  bool
	Index int
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *NodeRef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: node reference must be a scalar", value.Line)
	}
	switch value.Value {
	case "entry":
		*r = NodeRef{Entry: true}
		return nil
	case "exit":
		*r = NodeRef{Exit: true}
		return nil
	}
	i, err := strconv.Atoi(value.Value)
	if err != nil || i < 0 {
		return fmt.Errorf("line %d: node reference %q must be entry, exit or a statement index", value.Line, value.Value)
	}
	*r = NodeRef{Index: i}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (r NodeRef) MarshalYAML() (any, error) {
	return r.String(), nil
}

func (r NodeRef) String() string {
	switch {
	case r.Entry:
		return "entry"
	case r.Exit:
		return "exit"
	default:
		return strconv.Itoa(r.Index)
	}
}
