package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3aro/go-dataflow/pkg/cfg"
	"github.com/l3aro/go-dataflow/pkg/constprop"
	"github.com/l3aro/go-dataflow/pkg/dataflow"
	"github.com/l3aro/go-dataflow/pkg/deadcode"
	"github.com/l3aro/go-dataflow/pkg/ir"
)

// sample builds "0: k = 2; 1: switch (k) [1]; 2: y = 7; 3: return;" with a
// case edge to 2 and a default edge to 3.
func sample(t *testing.T) (*cfg.CFG, *ir.Method) {
	t.Helper()
	m := ir.NewMethod("sample")
	k := m.NewVar("k", ir.TypeInt)
	y := m.NewVar("y", ir.TypeInt)

	s0 := ir.NewAssign(k, ir.NewIntLiteral(2))
	s0.SetLine(12)
	s1 := ir.NewSwitch(k, 1)
	s2 := ir.NewAssign(y, ir.NewIntLiteral(7))
	s2.SetLine(14)
	s3 := ir.NewReturn(nil)
	m.Add(s0, s1, s2, s3)

	g := cfg.New(m)
	g.AddEdge(cfg.EdgeTypeUnconditional, g.Entry(), s0)
	g.AddEdge(cfg.EdgeTypeUnconditional, s0, s1)
	g.AddCaseEdge(s1, s2, 1)
	g.AddEdge(cfg.EdgeTypeDefault, s1, s3)
	g.AddEdge(cfg.EdgeTypeUnconditional, s2, s3)
	g.AddEdge(cfg.EdgeTypeUnconditional, s3, g.Exit())
	require.NoError(t, g.Validate())
	return g, m
}

func sampleReport(t *testing.T) *Report {
	t.Helper()
	g, m := sample(t)
	r := New(m, constprop.ID, deadcode.ID)
	r.Source = "sample.ir.yaml"
	r.Facts = FromConstants(g, constprop.Solve(g, dataflow.SolverIterative))
	r.DeadCode = FromDeadCode([]ir.Stmt{m.Stmts[2]})
	r.Graph = FromCFG(g)
	return r
}

func TestFromConstants(t *testing.T) {
	r := sampleReport(t)
	require.Len(t, r.Facts, 4)

	assert.Equal(t, NodeFacts{
		Index: 0,
		Stmt:  "k = 2;",
		In:    map[string]string{},
		Out:   map[string]string{"k": "2"},
	}, r.Facts[0])
	assert.Equal(t, map[string]string{"k": "2", "y": "7"}, r.Facts[2].Out)
}

func TestFromDeadCode(t *testing.T) {
	r := sampleReport(t)
	assert.Equal(t, []Stmt{{Index: 2, Line: 14, Text: "y = 7;"}}, r.DeadCode)
	assert.Empty(t, FromDeadCode(nil))
}

func TestFromCFG(t *testing.T) {
	g := sampleReport(t).Graph
	assert.Equal(t, 0, g.Entry)
	assert.Equal(t, 5, g.Exit)
	require.Len(t, g.Nodes, 6)
	assert.Equal(t, GraphNode{ID: 0, Kind: "entry", Text: "entry"}, g.Nodes[0])
	assert.Equal(t, GraphNode{ID: 1, Kind: "assign", Text: "k = 2;", Line: 12}, g.Nodes[1])
	assert.Equal(t, "switch", g.Nodes[2].Kind)
	assert.Equal(t, "exit", g.Nodes[5].Kind)

	require.Len(t, g.Edges, 6)
	one := int32(1)
	assert.Equal(t, GraphEdge{Source: 2, Target: 3, Type: "case", CaseValue: &one}, g.Edges[2])
	assert.Equal(t, GraphEdge{Source: 2, Target: 4, Type: "default"}, g.Edges[3])
}

func TestEncode_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatText, []*Report{sampleReport(t)}))

	out := buf.String()
	assert.Contains(t, out, "=== sample (sample.ir.yaml) ===\n")
	assert.Contains(t, out, "  2 --case 1--> 3\n")
	assert.Contains(t, out, "  2 --default--> 4\n")
	assert.Contains(t, out, "  2: y = 7;\n      in  {k=2}\n      out {k=2, y=7}\n")
	assert.Contains(t, out, "Dead code (1):\n  2 (line 14): y = 7;\n")
}

func TestEncode_TextWithoutDeadCode(t *testing.T) {
	_, m := sample(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatText, []*Report{New(m, constprop.ID)}))
	assert.Equal(t, "=== sample ===\n", buf.String())
}

func TestEncode_RoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatMsgpack} {
		t.Run(string(format), func(t *testing.T) {
			want := sampleReport(t)

			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, format, []*Report{want}))

			got, err := Decode(&buf, format)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, want.Method, got[0].Method)
			assert.Equal(t, want.Source, got[0].Source)
			assert.Equal(t, want.Analyses, got[0].Analyses)
			assert.Equal(t, want.DeadCode, got[0].DeadCode)
			assert.Equal(t, want.Facts[2].Out, got[0].Facts[2].Out)
			assert.Equal(t, want.Graph.Edges[2], got[0].Graph.Edges[2])
		})
	}
}

func TestDecode_Text(t *testing.T) {
	_, err := Decode(&bytes.Buffer{}, FormatText)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"msgpack", FormatMsgpack, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
