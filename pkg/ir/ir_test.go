package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeIsIntLike(t *testing.T) {
	tests := []struct {
		typ       Type
		intLike   bool
		primitive bool
	}{
		{TypeByte, true, true},
		{TypeShort, true, true},
		{TypeInt, true, true},
		{TypeChar, true, true},
		{TypeBoolean, true, true},
		{TypeLong, false, true},
		{TypeFloat, false, true},
		{TypeDouble, false, true},
		{Type("java.lang.String"), false, false},
		{Type("int[]"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.intLike, tt.typ.IsIntLike())
			assert.Equal(t, tt.primitive, tt.typ.IsPrimitive())
		})
	}
}

func TestBinaryOp(t *testing.T) {
	tests := []struct {
		symbol   string
		op       BinaryOp
		category OpCategory
	}{
		{"+", OpAdd, CategoryArithmetic},
		{"%", OpRem, CategoryArithmetic},
		{"==", OpEq, CategoryCondition},
		{">=", OpGe, CategoryCondition},
		{"|", OpOr, CategoryBitwise},
		{"^", OpXor, CategoryBitwise},
		{"<<", OpShl, CategoryShift},
		{">>>", OpUshr, CategoryShift},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			op, err := ParseBinaryOp(tt.symbol)
			require.NoError(t, err)
			assert.Equal(t, tt.op, op)
			assert.Equal(t, tt.category, op.Category())
			assert.Equal(t, tt.symbol, op.String())
		})
	}

	_, err := ParseBinaryOp("**")
	assert.Error(t, err)
	assert.Equal(t, "BinaryOp(99)", BinaryOp(99).String())
}

func TestMethod(t *testing.T) {
	m := NewMethod("foo")
	p := m.NewParam("p", TypeInt)
	x := m.NewVar("x", TypeInt)

	assert.Equal(t, []*Var{p}, m.Params)
	assert.Equal(t, []*Var{p, x}, m.Vars)
	assert.Equal(t, 1, x.Index)
	assert.Same(t, x, m.Var("x"))
	assert.Nil(t, m.Var("y"))
	assert.Panics(t, func() { m.NewVar("x", TypeLong) })

	s0 := NewAssign(x, NewBinary(OpAdd, p, NewIntLiteral(1)))
	s1 := NewReturn(x)
	m.Add(s0, s1)
	assert.Equal(t, 0, s0.Index())
	assert.Equal(t, 1, s1.Index())
	assert.Equal(t, "foo", m.String())
}

func TestStmtDefUses(t *testing.T) {
	m := NewMethod("f")
	a := m.NewVar("a", TypeInt)
	b := m.NewVar("b", TypeInt)
	arr := m.NewVar("arr", Type("int[]"))
	o := m.NewVar("o", Type("Point"))
	k := m.NewVar("k", TypeInt)

	tests := []struct {
		name     string
		stmt     Stmt
		def      *Var
		uses     []*Var
		rendered string
	}{
		{"assign", NewAssign(a, NewBinary(OpMul, b, b)), a, []*Var{b, b}, "a = b * b;"},
		{"array store", NewAssign(&ArrayAccess{Base: arr, Index: k}, a), nil, []*Var{a, arr, k}, "arr[k] = a;"},
		{"field store", NewAssign(&FieldAccess{Base: o, Class: "Point", Field: "x"}, NewIntLiteral(1)), nil, []*Var{o}, "o.x = 1;"},
		{"static load", NewAssign(a, &FieldAccess{Class: "Config", Field: "MAX"}), a, nil, "a = Config.MAX;"},
		{"invoke", NewInvoke(a, &InvokeExp{Callee: "max", Args: []Exp{b, k}}), a, []*Var{b, k}, "a = max(b, k);"},
		{"void invoke", NewInvoke(nil, &InvokeExp{Callee: "print"}), nil, nil, "print();"},
		{"if", NewIf(NewBinary(OpLt, a, b)), nil, []*Var{a, b}, "if (a < b)"},
		{"switch", NewSwitch(k, 1, 2), nil, []*Var{k}, "switch (k) [1, 2]"},
		{"goto", NewGoto(), nil, nil, "goto;"},
		{"return", NewReturn(&NegExp{X: a}), nil, []*Var{a}, "return -a;"},
		{"void return", NewReturn(nil), nil, nil, "return;"},
		{"new array", NewAssign(arr, &NewExp{Type: TypeInt, Length: k}), arr, []*Var{k}, "arr = new int[k];"},
		{"cast", NewAssign(a, &CastExp{Value: b, Type: TypeByte}), a, []*Var{b}, "a = (byte) b;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.def, tt.stmt.Def())
			assert.Equal(t, tt.uses, tt.stmt.Uses())
			assert.Equal(t, tt.rendered, tt.stmt.String())
		})
	}
}

func TestVarSet(t *testing.T) {
	m := NewMethod("f")
	a := m.NewVar("a", TypeInt)
	b := m.NewVar("b", TypeInt)
	c := m.NewVar("c", TypeInt)

	s := NewVarSet(c, a)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(a))
	assert.False(t, s.Contains(b))
	assert.Equal(t, []*Var{a, c}, s.Vars(m))
	assert.Equal(t, "{a, c}", s.Format(m))

	assert.False(t, s.Add(a))
	assert.True(t, s.Add(b))
	assert.True(t, s.Remove(c))
	assert.False(t, s.Remove(c))

	cp := s.Copy()
	cp.Add(c)
	assert.False(t, s.Contains(c), "copy must be independent")
	assert.False(t, s.Equal(cp))

	assert.True(t, s.Union(cp))
	assert.False(t, s.Union(cp))
	assert.True(t, s.Equal(cp))

	other := NewVarSet()
	other.Set(s)
	assert.True(t, other.Equal(s))

	s.Set(NewVarSet())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "{}", s.Format(m))

	var zero VarSet
	assert.False(t, zero.Contains(a))
}
