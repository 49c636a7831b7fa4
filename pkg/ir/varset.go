package ir

import (
	"strings"

	"golang.org/x/tools/container/intsets"
)

// VarSet is a set of variables of one method, keyed by Var.Index.
// The zero value is an empty set. A VarSet must not be copied by value; use Copy.
type VarSet struct {
	s intsets.Sparse
}

// NewVarSet returns a set holding vars.
func NewVarSet(vars ...*Var) *VarSet {
	set := &VarSet{}
	for _, v := range vars {
		set.Add(v)
	}
	return set
}

// Add inserts v and reports whether the set changed.
func (s *VarSet) Add(v *Var) bool {
	return s.s.Insert(v.Index)
}

// Remove deletes v and reports whether the set changed.
func (s *VarSet) Remove(v *Var) bool {
	return s.s.Remove(v.Index)
}

// Contains reports whether v is in the set.
func (s *VarSet) Contains(v *Var) bool {
	return s.s.Has(v.Index)
}

// Union adds every element of other and reports whether the set changed.
func (s *VarSet) Union(other *VarSet) bool {
	return s.s.UnionWith(&other.s)
}

// Set makes s a copy of other.
func (s *VarSet) Set(other *VarSet) {
	s.s.Copy(&other.s)
}

// Copy returns an independent copy of s.
func (s *VarSet) Copy() *VarSet {
	c := &VarSet{}
	c.s.Copy(&s.s)
	return c
}

// Equal reports whether s and other hold the same variables.
func (s *VarSet) Equal(other *VarSet) bool {
	return s.s.Equals(&other.s)
}

// Len returns the number of elements.
func (s *VarSet) Len() int {
	return s.s.Len()
}

// Vars resolves the elements against m, in ascending index order.
func (s *VarSet) Vars(m *Method) []*Var {
	indices := s.s.AppendTo(nil)
	vars := make([]*Var, 0, len(indices))
	for _, i := range indices {
		if i < len(m.Vars) {
			vars = append(vars, m.Vars[i])
		}
	}
	return vars
}

// Format renders the set as {a, b} using names from m.
func (s *VarSet) Format(m *Method) string {
	vars := s.Vars(m)
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	return "{" + strings.Join(names, ", ") + "}"
}

func (s *VarSet) String() string {
	return s.s.String()
}
