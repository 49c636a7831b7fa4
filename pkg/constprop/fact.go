package constprop

import (
	"maps"
	"slices"
	"strings"

	"github.com/l3aro/go-dataflow/pkg/ir"
)

// Fact maps variables to lattice values. Variables without an entry are UNDEF,
// so UNDEF is never stored.
type Fact struct {
	values map[*ir.Var]Value
}

// NewFact returns an empty fact.
func NewFact() *Fact {
	return &Fact{values: make(map[*ir.Var]Value)}
}

// Get returns the value of v, UNDEF if absent.
func (f *Fact) Get(v *ir.Var) Value {
	return f.values[v]
}

// Update sets the value of v and reports whether the fact changed.
func (f *Fact) Update(v *ir.Var, value Value) bool {
	old := f.values[v]
	if value.IsUndef() {
		delete(f.values, v)
	} else {
		f.values[v] = value
	}
	return old != value
}

// Keys returns the variables with a recorded value, ordered by index.
func (f *Fact) Keys() []*ir.Var {
	keys := slices.Collect(maps.Keys(f.values))
	slices.SortFunc(keys, func(a, b *ir.Var) int {
		return a.Index - b.Index
	})
	return keys
}

// Len returns the number of recorded variables.
func (f *Fact) Len() int {
	return len(f.values)
}

// Copy returns an independent copy of f.
func (f *Fact) Copy() *Fact {
	return &Fact{values: maps.Clone(f.values)}
}

// CopyFrom replaces the content of f with that of other and reports whether f changed.
func (f *Fact) CopyFrom(other *Fact) bool {
	if f.Equal(other) {
		return false
	}
	clear(f.values)
	maps.Copy(f.values, other.values)
	return true
}

// Equal reports whether f and other map every variable to the same value.
func (f *Fact) Equal(other *Fact) bool {
	return maps.Equal(f.values, other.values)
}

func (f *Fact) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, v := range f.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.Name)
		sb.WriteString("=")
		sb.WriteString(f.values[v].String())
	}
	sb.WriteString("}")
	return sb.String()
}
