package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3aro/go-dataflow/internal/log"
	"github.com/l3aro/go-dataflow/pkg/dataflow"
	"github.com/l3aro/go-dataflow/pkg/irdoc"
	"github.com/l3aro/go-dataflow/pkg/report"
)

func loadBranches(t *testing.T) []*irdoc.Unit {
	t.Helper()
	units, err := irdoc.Load("../irdoc/testdata/branches.ir.yaml")
	require.NoError(t, err)
	require.Len(t, units, 2)
	return units
}

func deadIndexes(r *report.Report) []int {
	var idx []int
	for _, s := range r.DeadCode {
		idx = append(idx, s.Index)
	}
	return idx
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		want    []string
		wantErr error
	}{
		{"constprop only", []string{"constprop"}, []string{"constprop"}, nil},
		{"deadcode pulls constprop", []string{"deadcode"}, []string{"constprop", "deadcode"}, nil},
		{"duplicates dropped", []string{"deadcode", "constprop", "deadcode"}, []string{"constprop", "deadcode"}, nil},
		{"unknown", []string{"constprop", "liveness"}, nil, ErrUnknownAnalysis},
		{"empty", nil, nil, ErrUnknownAnalysis},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Plan(tt.ids)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistered(t *testing.T) {
	ds := Registered()
	require.Len(t, ds, 2)
	assert.Equal(t, "constprop", ds[0].ID)
	assert.Equal(t, []string{"constprop"}, ds[1].Requires)

	ds[0].ID = "changed"
	assert.Equal(t, "constprop", Registered()[0].ID)
}

func TestRun(t *testing.T) {
	units := loadBranches(t)

	for _, solver := range []dataflow.SolverKind{dataflow.SolverIterative, dataflow.SolverWorklist} {
		t.Run(string(solver), func(t *testing.T) {
			r, err := Run(units[0], Options{Analyses: []string{"deadcode"}, Solver: solver})
			require.NoError(t, err)

			assert.Equal(t, "endToEnd", r.Method)
			assert.Equal(t, "../irdoc/testdata/branches.ir.yaml", r.Source)
			assert.Equal(t, []string{"constprop", "deadcode"}, r.Analyses)
			assert.Nil(t, r.Graph)

			require.Len(t, r.DeadCode, 1)
			assert.Equal(t, report.Stmt{Index: 5, Line: 8, Text: "c = 20;"}, r.DeadCode[0])

			require.Len(t, r.Facts, 7)
			assert.Equal(t, map[string]string{"a": "1", "b": "2"}, r.Facts[2].In)
			assert.Equal(t, "NAC", r.Facts[6].In["c"])
		})
	}
}

func TestRun_SwitchOnShiftedConstant(t *testing.T) {
	r, err := Run(loadBranches(t)[1], Options{Analyses: []string{"deadcode"}, Graph: true})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 4}, deadIndexes(r))
	assert.Equal(t, "2", r.Facts[1].In["k"])
	require.NotNil(t, r.Graph)
	assert.Len(t, r.Graph.Nodes, 8)
}

func TestRun_ConstantsOnly(t *testing.T) {
	r, err := Run(loadBranches(t)[0], Options{Analyses: []string{"constprop"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"constprop"}, r.Analyses)
	assert.Empty(t, r.DeadCode)
	assert.NotEmpty(t, r.Facts)
}

func TestRun_UnknownAnalysis(t *testing.T) {
	_, err := Run(loadBranches(t)[0], Options{Analyses: []string{"taint"}})
	assert.ErrorIs(t, err, ErrUnknownAnalysis)
}

func TestRunAll(t *testing.T) {
	units := loadBranches(t)
	units = append(units, units...)

	reports, err := RunAll(context.Background(), units, Options{
		Analyses: []string{"deadcode"},
		Workers:  2,
		Logger:   log.Discard(),
	})
	require.NoError(t, err)
	require.Len(t, reports, 4)

	for i, r := range reports {
		assert.Equal(t, units[i].Method.Name, r.Method)
	}
	assert.Equal(t, []int{5}, deadIndexes(reports[2]))
	assert.Equal(t, []int{2, 4}, deadIndexes(reports[3]))
}

func TestRunAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunAll(ctx, loadBranches(t), Options{Analyses: []string{"constprop"}, Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunAll_Empty(t *testing.T) {
	reports, err := RunAll(context.Background(), nil, Options{Analyses: []string{"constprop"}})
	require.NoError(t, err)
	assert.Empty(t, reports)
}
