package ir

import "fmt"

// Method is the IR of one method body.
type Method struct {
	Name   string
	Params []*Var
	Vars   []*Var // all variables, parameters included, indexed by Var.Index
	Stmts  []Stmt // body in program order, indexed by Stmt.Index

	byName map[string]*Var
}

// NewMethod creates an empty method named name.
func NewMethod(name string) *Method {
	return &Method{
		Name:   name,
		byName: make(map[string]*Var),
	}
}

// NewVar declares a local variable. It panics if the name is already declared.
func (m *Method) NewVar(name string, t Type) *Var {
	if _, ok := m.byName[name]; ok {
		panic(fmt.Sprintf("ir: variable %q declared twice in %s", name, m.Name))
	}
	v := &Var{Name: name, Type: t, Index: len(m.Vars)}
	m.Vars = append(m.Vars, v)
	m.byName[name] = v
	return v
}

// NewParam declares a parameter, which is also a variable of the method.
func (m *Method) NewParam(name string, t Type) *Var {
	v := m.NewVar(name, t)
	m.Params = append(m.Params, v)
	return v
}

// Var returns the variable called name, or nil.
func (m *Method) Var(name string) *Var {
	return m.byName[name]
}

// AddStmt appends s to the body and sets its index.
func (m *Method) AddStmt(s Stmt) Stmt {
	s.setIndex(len(m.Stmts))
	m.Stmts = append(m.Stmts, s)
	return s
}

// Add appends each statement to the body in order.
func (m *Method) Add(stmts ...Stmt) {
	for _, s := range stmts {
		m.AddStmt(s)
	}
}

func (m *Method) String() string {
	return m.Name
}
