package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3aro/go-dataflow/pkg/report"
)

func reports(method string, dead ...int) []*report.Report {
	r := &report.Report{Method: method, Analyses: []string{"constprop", "deadcode"}}
	for _, i := range dead {
		r.DeadCode = append(r.DeadCode, report.Stmt{Index: i, Text: "x = 1;"})
	}
	return []*report.Report{r}
}

func TestKeyOf(t *testing.T) {
	doc := []byte("methods: []")

	assert.Equal(t, KeyOf(doc, "deadcode", "worklist"), KeyOf(doc, "deadcode", "worklist"))
	assert.NotEqual(t, KeyOf(doc, "deadcode", "worklist"), KeyOf(doc, "deadcode", "iterative"))
	assert.NotEqual(t, KeyOf(doc, "ab", "c"), KeyOf(doc, "a", "bc"))
	assert.NotEqual(t, KeyOf(doc), KeyOf([]byte("methods: [] ")))
	assert.Len(t, string(KeyOf(doc)), 64)
}

func TestCache_GetSet(t *testing.T) {
	c := New(0)
	k := KeyOf([]byte("a"))

	_, ok := c.Get(k)
	assert.False(t, ok)

	want := reports("foo", 3)
	c.Set(k, want)
	got, ok := c.Get(k)
	require.True(t, ok)
	assert.Equal(t, want, got)

	c.Set(k, reports("foo"))
	got, _ = c.Get(k)
	assert.Empty(t, got[0].DeadCode)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, Stats{Hits: 2, Misses: 1}, c.Stats())
}

func TestCache_Eviction(t *testing.T) {
	c := New(2)
	a, b, d := KeyOf([]byte("a")), KeyOf([]byte("b")), KeyOf([]byte("d"))

	c.Set(a, reports("a"))
	c.Set(b, reports("b"))
	_, _ = c.Get(a) // b is now least recently used
	c.Set(d, reports("d"))

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(b)
	assert.False(t, ok)
	_, ok = c.Get(a)
	assert.True(t, ok)
	_, ok = c.Get(d)
	assert.True(t, ok)
}

func TestCache_SaveLoad(t *testing.T) {
	c := New(3)
	c.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }
	a, b := KeyOf([]byte("a")), KeyOf([]byte("b"))
	c.Set(a, reports("a", 1, 2))
	c.Set(b, reports("b"))
	_, _ = c.Get(a)

	var buf bytes.Buffer
	require.NoError(t, c.Save(&buf))

	loaded := New(1)
	require.NoError(t, loaded.Load(&buf))
	// Only the most recently used entry fits.
	assert.Equal(t, 1, loaded.Len())
	got, ok := loaded.Get(a)
	require.True(t, ok)
	assert.Equal(t, "a", got[0].Method)
	assert.Equal(t, []report.Stmt{{Index: 1, Text: "x = 1;"}, {Index: 2, Text: "x = 1;"}}, got[0].DeadCode)
}

func TestCache_LoadCorrupt(t *testing.T) {
	err := New(0).Load(bytes.NewBufferString("not msgpack"))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestCache_Files(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reports.msgpack")

	c, err := LoadFile(path, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())

	k := KeyOf([]byte("doc"), "constprop")
	c.Set(k, reports("m"))
	require.NoError(t, c.SaveFile(path))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file is removed")

	reopened, err := LoadFile(path, 0)
	require.NoError(t, err)
	got, ok := reopened.Get(k)
	require.True(t, ok)
	assert.Equal(t, "m", got[0].Method)

	require.NoError(t, os.WriteFile(path, []byte{0xc1}, 0644))
	_, err = LoadFile(path, 0)
	assert.ErrorIs(t, err, ErrCorrupt)
}
