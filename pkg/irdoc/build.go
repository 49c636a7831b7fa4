package irdoc

import (
	"errors"
	"fmt"

	"github.com/l3aro/go-dataflow/pkg/cfg"
	"github.com/l3aro/go-dataflow/pkg/dataflow"
	"github.com/l3aro/go-dataflow/pkg/ir"
)

var (
	// ErrUnknownNode is returned when an edge refers to a statement index outside the method.
	ErrUnknownNode = errors.New("unknown CFG node")
	// ErrUnknownVar is returned when a statement names an undeclared variable.
	ErrUnknownVar = errors.New("unknown variable")
	// ErrInvalid is returned for statements and expressions of no recognizable shape.
	ErrInvalid = errors.New("invalid IR document")
)

// Unit is one loaded method with its CFG and its live-variable sets.
type Unit struct {
	Source   string // document the method was read from
	Method   *ir.Method
	CFG      *cfg.CFG
	LiveVars *dataflow.Result[*ir.VarSet]
}

// Build converts a method description into a Unit. The CFG is validated.
func Build(doc *MethodDoc) (*Unit, error) {
	if doc.Name == "" {
		return nil, fmt.Errorf("%w: method without a name", ErrInvalid)
	}
	b := &builder{m: ir.NewMethod(doc.Name)}

	for _, v := range doc.Params {
		if err := b.declare(v, true); err != nil {
			return nil, err
		}
	}
	for _, v := range doc.Vars {
		if err := b.declare(v, false); err != nil {
			return nil, err
		}
	}

	for i := range doc.Stmts {
		s, err := b.stmt(&doc.Stmts[i])
		if err != nil {
			return nil, fmt.Errorf("%s: statement %d: %w", doc.Name, i, err)
		}
		b.m.AddStmt(s)
	}

	g := cfg.New(b.m)
	for _, e := range doc.Edges {
		if err := b.edge(g, e); err != nil {
			return nil, fmt.Errorf("%s: edge %s -> %s: %w", doc.Name, e.From, e.To, err)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	live, err := b.liveVars(g, doc.Stmts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Name, err)
	}

	return &Unit{Method: b.m, CFG: g, LiveVars: live}, nil
}

type builder struct {
	m *ir.Method
}

func (b *builder) declare(v VarDoc, param bool) error {
	if v.Name == "" || v.Type == "" {
		return fmt.Errorf("%s: %w: variable needs a name and a type", b.m.Name, ErrInvalid)
	}
	if b.m.Var(v.Name) != nil {
		return fmt.Errorf("%s: %w: variable %q declared twice", b.m.Name, ErrInvalid, v.Name)
	}
	if param {
		b.m.NewParam(v.Name, ir.Type(v.Type))
	} else {
		b.m.NewVar(v.Name, ir.Type(v.Type))
	}
	return nil
}

func (b *builder) lookup(name string) (*ir.Var, error) {
	v := b.m.Var(name)
	if v == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownVar, name)
	}
	return v, nil
}

func (b *builder) stmt(doc *StmtDoc) (ir.Stmt, error) {
	var kinds int
	for _, set := range []bool{
		doc.Nop != nil, doc.Assign != nil, doc.Invoke != nil, doc.If != nil,
		doc.Switch != nil, doc.Goto != nil, doc.Return != nil,
	} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, fmt.Errorf("%w: statement must have exactly one kind, has %d", ErrInvalid, kinds)
	}

	s, err := b.stmtKind(doc)
	if err != nil {
		return nil, err
	}
	if doc.Line > 0 {
		setLine(s, doc.Line)
	}
	return s, nil
}

func (b *builder) stmtKind(doc *StmtDoc) (ir.Stmt, error) {
	switch {
	case doc.Nop != nil:
		return ir.NewNop(0), nil
	case doc.Goto != nil:
		return ir.NewGoto(), nil
	case doc.Assign != nil:
		lhs, err := b.exp(&doc.Assign.LHS)
		if err != nil {
			return nil, fmt.Errorf("lhs: %w", err)
		}
		lvalue, ok := lhs.(ir.LValue)
		if !ok {
			return nil, fmt.Errorf("%w: cannot assign to %s", ErrInvalid, lhs)
		}
		rhs, err := b.exp(&doc.Assign.RHS)
		if err != nil {
			return nil, fmt.Errorf("rhs: %w", err)
		}
		return ir.NewAssign(lvalue, rhs), nil
	case doc.Invoke != nil:
		call, err := b.call(&doc.Invoke.CallDoc)
		if err != nil {
			return nil, err
		}
		var result *ir.Var
		if doc.Invoke.Result != "" {
			if result, err = b.lookup(doc.Invoke.Result); err != nil {
				return nil, err
			}
		}
		return ir.NewInvoke(result, call), nil
	case doc.If != nil:
		cond, err := b.exp(doc.If)
		if err != nil {
			return nil, fmt.Errorf("condition: %w", err)
		}
		return ir.NewIf(cond), nil
	case doc.Switch != nil:
		v, err := b.lookup(doc.Switch.Var)
		if err != nil {
			return nil, err
		}
		return ir.NewSwitch(v, doc.Switch.Cases...), nil
	default:
		if isEmpty(doc.Return) {
			return ir.NewReturn(nil), nil
		}
		value, err := b.exp(doc.Return)
		if err != nil {
			return nil, fmt.Errorf("return value: %w", err)
		}
		return ir.NewReturn(value), nil
	}
}

func (b *builder) exp(doc *ExpDoc) (ir.Exp, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: missing expression", ErrInvalid)
	}
	switch {
	case doc.Op != "":
		op, err := ir.ParseBinaryOp(doc.Op)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		x, err := b.exp(doc.X)
		if err != nil {
			return nil, err
		}
		y, err := b.exp(doc.Y)
		if err != nil {
			return nil, err
		}
		return ir.NewBinary(op, x, y), nil
	case doc.Var != "":
		return b.lookup(doc.Var)
	case doc.Int != nil:
		return ir.NewIntLiteral(*doc.Int), nil
	case doc.Neg != nil:
		x, err := b.exp(doc.Neg)
		if err != nil {
			return nil, err
		}
		return &ir.NegExp{X: x}, nil
	case doc.Field != nil:
		f := &ir.FieldAccess{Class: doc.Field.Class, Field: doc.Field.Name}
		if doc.Field.Base != "" {
			base, err := b.lookup(doc.Field.Base)
			if err != nil {
				return nil, err
			}
			f.Base = base
		}
		return f, nil
	case doc.Array != nil:
		base, err := b.lookup(doc.Array.Base)
		if err != nil {
			return nil, err
		}
		index, err := b.exp(&doc.Array.Index)
		if err != nil {
			return nil, err
		}
		return &ir.ArrayAccess{Base: base, Index: index}, nil
	case doc.New != nil:
		n := &ir.NewExp{Type: ir.Type(doc.New.Type)}
		if doc.New.Length != nil {
			length, err := b.exp(doc.New.Length)
			if err != nil {
				return nil, err
			}
			n.Length = length
		}
		return n, nil
	case doc.Cast != nil:
		value, err := b.exp(&doc.Cast.Value)
		if err != nil {
			return nil, err
		}
		return &ir.CastExp{Value: value, Type: ir.Type(doc.Cast.Type)}, nil
	case doc.Call != nil:
		return b.call(doc.Call)
	default:
		return nil, fmt.Errorf("%w: empty expression", ErrInvalid)
	}
}

func (b *builder) call(doc *CallDoc) (*ir.InvokeExp, error) {
	if doc.Callee == "" {
		return nil, fmt.Errorf("%w: call without a callee", ErrInvalid)
	}
	call := &ir.InvokeExp{Callee: doc.Callee}
	for i := range doc.Args {
		arg, err := b.exp(&doc.Args[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		call.Args = append(call.Args, arg)
	}
	return call, nil
}

func (b *builder) node(g *cfg.CFG, ref NodeRef) (ir.Stmt, error) {
	switch {
	case ref.Entry:
		return g.Entry(), nil
	case ref.Exit:
		return g.Exit(), nil
	case ref.Index < len(b.m.Stmts):
		return b.m.Stmts[ref.Index], nil
	default:
		return nil, fmt.Errorf("%w: statement %d (method has %d)", ErrUnknownNode, ref.Index, len(b.m.Stmts))
	}
}

func (b *builder) edge(g *cfg.CFG, doc EdgeDoc) error {
	src, err := b.node(g, doc.From)
	if err != nil {
		return err
	}
	dst, err := b.node(g, doc.To)
	if err != nil {
		return err
	}
	t, err := cfg.ParseEdgeType(doc.Type)
	if err != nil {
		return err
	}
	if t == cfg.EdgeTypeCase {
		g.AddCaseEdge(src, dst, doc.Value)
	} else {
		g.AddEdge(t, src, dst)
	}
	return nil
}

// liveVars stores the supplied live sets as OUT facts. The IN fact of each
// node is derived locally from its OUT fact, uses and definition.
func (b *builder) liveVars(g *cfg.CFG, stmts []StmtDoc) (*dataflow.Result[*ir.VarSet], error) {
	all := ir.NewVarSet(b.m.Vars...)
	result := dataflow.NewResult[*ir.VarSet](g)

	for _, node := range g.Nodes() {
		out := all.Copy()
		if i := node.Index(); i >= 0 && i < len(stmts) && stmts[i].Live != nil {
			out = ir.NewVarSet()
			for _, name := range *stmts[i].Live {
				v, err := b.lookup(name)
				if err != nil {
					return nil, fmt.Errorf("statement %d: live: %w", i, err)
				}
				out.Add(v)
			}
		}
		if g.IsExit(node) {
			out = ir.NewVarSet()
		}

		in := out.Copy()
		if def := node.Def(); def != nil {
			in.Remove(def)
		}
		for _, v := range node.Uses() {
			in.Add(v)
		}
		result.SetInFact(node, in)
		result.SetOutFact(node, out)
	}
	return result, nil
}

func isEmpty(doc *ExpDoc) bool {
	return *doc == ExpDoc{}
}

type liner interface {
	SetLine(int)
}

func setLine(s ir.Stmt, line int) {
	if l, ok := s.(liner); ok {
		l.SetLine(line)
	}
}
