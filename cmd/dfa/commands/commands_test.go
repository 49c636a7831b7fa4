package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3aro/go-dataflow/pkg/report"
)

// workspace copies the shared IR documents into a fresh working directory
// with an empty home, so no user configuration leaks into the run.
func workspace(t *testing.T) string {
	t.Helper()
	branches, err := os.ReadFile(filepath.Join("..", "..", "..", "pkg", "irdoc", "testdata", "branches.ir.yaml"))
	require.NoError(t, err)
	abs, err := os.ReadFile(filepath.Join("..", "..", "..", "pkg", "irdoc", "testdata", "abs.ir.json"))
	require.NoError(t, err)

	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	for _, env := range []string{"DFA_ANALYSES", "DFA_FORMAT", "DFA_SOLVER", "DFA_WORKERS", "DFA_VERBOSE", "DFA_JSON_LOGS"} {
		t.Setenv(env, "")
	}
	t.Chdir(dir)

	require.NoError(t, os.MkdirAll("docs", 0755))
	require.NoError(t, os.WriteFile(filepath.Join("docs", "branches.ir.yaml"), branches, 0644))
	require.NoError(t, os.WriteFile(filepath.Join("docs", "abs.ir.json"), abs, 0644))
	return dir
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(RootCmd)
	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func TestAnalyze_Text(t *testing.T) {
	workspace(t)

	out, err := run(t, "analyze", "docs")
	require.NoError(t, err)

	assert.Contains(t, out, "=== abs (")
	assert.Contains(t, out, "=== endToEnd (")
	assert.Contains(t, out, "=== select (")
	assert.Contains(t, out, "Dead code (1):\n  5 (line 8): c = 20;\n")
	assert.Contains(t, out, "Dead code (2):\n  2: one();\n  4: y = 3 + 4;\n")
	assert.NotContains(t, out, "Nodes (")
}

func TestAnalyze_JSONWithGraph(t *testing.T) {
	workspace(t)

	out, err := run(t, "analyze", "--format", "json", "--graph", "--method", "abs", "--solver", "iterative", "docs")
	require.NoError(t, err)

	reports, err := report.Decode(bytes.NewBufferString(out), report.FormatJSON)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "abs", reports[0].Method)
	assert.Equal(t, []string{"constprop", "deadcode"}, reports[0].Analyses)
	assert.Empty(t, reports[0].DeadCode)
	require.NotNil(t, reports[0].Graph)
	assert.Len(t, reports[0].Graph.Nodes, 7)
}

func TestAnalyze_ProjectConfig(t *testing.T) {
	workspace(t)
	require.NoError(t, os.MkdirAll(".dfa", 0755))
	require.NoError(t, os.WriteFile(filepath.Join(".dfa", "config.yaml"), []byte("analyses: [constprop]\nformat: msgpack\n"), 0644))

	out, err := run(t, "analyze", filepath.Join("docs", "branches.ir.yaml"))
	require.NoError(t, err)

	reports, err := report.Decode(bytes.NewBufferString(out), report.FormatMsgpack)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, []string{"constprop"}, reports[1].Analyses)
	assert.Equal(t, "2", reports[1].Facts[1].In["k"])
}

func TestAnalyze_IgnoreFile(t *testing.T) {
	workspace(t)
	require.NoError(t, os.WriteFile(filepath.Join("docs", ".dfaignore"), []byte("*.ir.json\n"), 0644))

	out, err := run(t, "analyze", "-a", "constprop", "docs")
	require.NoError(t, err)
	assert.NotContains(t, out, "=== abs")
	assert.Contains(t, out, "=== select")
}

func TestAnalyze_Cache(t *testing.T) {
	workspace(t)
	cacheFile := filepath.Join(".dfa", "cache", "reports.msgpack")

	first, err := run(t, "analyze", "--cache", "docs")
	require.NoError(t, err)
	_, err = os.Stat(cacheFile)
	require.NoError(t, err)

	second, err := run(t, "analyze", "--cache", "docs")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	doc := filepath.Join("docs", "branches.ir.yaml")
	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(doc, bytes.Replace(data, []byte("{int: 20}"), []byte("{int: 30}"), 1), 0644))

	third, err := run(t, "analyze", "--cache", "docs")
	require.NoError(t, err)
	assert.Contains(t, third, "  5 (line 8): c = 30;\n")
	assert.NotContains(t, third, "c = 20;")
}

func TestAnalyze_Errors(t *testing.T) {
	workspace(t)
	require.NoError(t, os.WriteFile(filepath.Join("docs", "notes.txt"), []byte("not IR"), 0644))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown format", []string{"analyze", "--format", "xml", "docs"}, "unknown format"},
		{"unknown analysis", []string{"analyze", "-a", "taint", "docs"}, "unknown analysis"},
		{"missing method", []string{"analyze", "-m", "nope", "docs"}, `method "nope" not found`},
		{"missing path", []string{"analyze", "nowhere"}, "nowhere"},
		{"not a document", []string{"analyze", filepath.Join("docs", "notes.txt")}, "not an IR document"},
		{"bad config", []string{"--config", "absent.yaml", "analyze", "docs"}, "loading config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConstprop(t *testing.T) {
	workspace(t)

	out, err := run(t, "constprop", "-m", "endToEnd", "docs")
	require.NoError(t, err)
	assert.Contains(t, out, "Constants:\n")
	assert.Contains(t, out, "  6: return c;\n      in  {a=1, b=2, c=NAC}\n")
	assert.NotContains(t, out, "Dead code")
}

func TestDeadcode_Fail(t *testing.T) {
	workspace(t)

	_, err := run(t, "deadcode", "docs")
	require.NoError(t, err)

	_, err = run(t, "deadcode", "--fail", "docs")
	assert.ErrorIs(t, err, ErrDeadCode)
	assert.ErrorContains(t, err, "3 statements")

	_, err = run(t, "deadcode", "--fail", "-m", "abs", "docs")
	assert.NoError(t, err)
}

func TestCFG(t *testing.T) {
	workspace(t)

	out, err := run(t, "cfg", filepath.Join("docs", "abs.ir.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "Nodes (7):\n  0: entry\n  1: if (x < 0)\n")
	assert.Contains(t, out, "  1 --true--> 2\n")

	out, err = run(t, "cfg", "-j", filepath.Join("docs", "branches.ir.yaml"), "select")
	require.NoError(t, err)
	var graphs map[string]*report.Graph
	require.NoError(t, json.Unmarshal([]byte(out), &graphs))
	require.Contains(t, graphs, "select")
	assert.Len(t, graphs, 1)
	assert.Len(t, graphs["select"].Edges, 9)
}

func TestAnalyses(t *testing.T) {
	workspace(t)

	out, err := run(t, "analyses")
	require.NoError(t, err)
	assert.Contains(t, out, "constprop  constant propagation")
	assert.Contains(t, out, "deadcode   unreachable code and dead assignments (requires constprop)\n")
}

func TestInit_ExistingConfig(t *testing.T) {
	workspace(t)
	require.NoError(t, os.MkdirAll(".dfa", 0755))
	require.NoError(t, os.WriteFile(filepath.Join(".dfa", "config.yaml"), []byte("workers: 1\n"), 0644))

	_, err := run(t, "init")
	assert.ErrorContains(t, err, "already exists")
}
