// Package cache provides an LRU cache of analysis reports with disk persistence.
// Entries are keyed by the content of the IR document they were computed from,
// so an unchanged document is not analyzed twice.
package cache

import (
	"bytes"
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/l3aro/go-dataflow/pkg/report"
)

// DefaultPath is where the CLI keeps the report cache, relative to the project.
const DefaultPath = ".dfa/cache/reports.msgpack"

// DefaultMaxEntries bounds the number of documents kept.
const DefaultMaxEntries = 1024

// formatVersion is bumped whenever the persisted layout changes.
const formatVersion = 1

// ErrCorrupt is returned by Load when the persisted cache cannot be decoded.
var ErrCorrupt = errors.New("corrupt report cache")

// Key identifies the reports of one document analyzed with one set of options.
type Key string

// KeyOf hashes a document's content together with the options that shape its
// reports (analyses, solver, ...).
func KeyOf(data []byte, options ...string) Key {
	h := sha256.New()
	h.Write(data)
	for _, o := range options {
		h.Write([]byte{0})
		h.Write([]byte(o))
	}
	return Key(hex.EncodeToString(h.Sum(nil)))
}

type entry struct {
	Key       Key              `msgpack:"key"`
	Reports   []*report.Report `msgpack:"reports"`
	CreatedAt time.Time        `msgpack:"created_at"`
}

type snapshot struct {
	Version int      `msgpack:"version"`
	Entries []*entry `msgpack:"entries"`
}

// Stats counts cache lookups.
type Stats struct {
	Hits   int
	Misses int
}

// Cache is a bounded LRU cache safe for concurrent use.
type Cache struct {
	mu    sync.Mutex
	max   int
	items map[Key]*list.Element
	lru   *list.List // front is most recently used
	stats Stats
	now   func() time.Time
}

// New creates a cache holding at most maxEntries documents; non-positive
// means DefaultMaxEntries.
func New(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		max:   maxEntries,
		items: make(map[Key]*list.Element),
		lru:   list.New(),
		now:   time.Now,
	}
}

// Get returns the reports stored under k.
func (c *Cache) Get(k Key) ([]*report.Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[k]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	c.lru.MoveToFront(el)
	return el.Value.(*entry).Reports, true
}

// Set stores reports under k, evicting the least recently used entry when full.
func (c *Cache) Set(k Key, reports []*report.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[k]; ok {
		e := el.Value.(*entry)
		e.Reports = reports
		e.CreatedAt = c.now()
		c.lru.MoveToFront(el)
		return
	}
	c.items[k] = c.lru.PushFront(&entry{Key: k, Reports: reports, CreatedAt: c.now()})
	for c.lru.Len() > c.max {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.items, oldest.Value.(*entry).Key)
	}
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Stats returns the lookup counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Save writes the cache to w as MessagePack.
func (c *Cache) Save(w io.Writer) error {
	c.mu.Lock()
	snap := snapshot{Version: formatVersion, Entries: make([]*entry, 0, c.lru.Len())}
	// Least recently used first, so Load restores the same order.
	for el := c.lru.Back(); el != nil; el = el.Prev() {
		snap.Entries = append(snap.Entries, el.Value.(*entry))
	}
	c.mu.Unlock()

	if err := msgpack.NewEncoder(w).Encode(&snap); err != nil {
		return fmt.Errorf("encoding report cache: %w", err)
	}
	return nil
}

// Load replaces the cache contents with the entries read from r. A snapshot
// written by another format version is ignored.
func (c *Cache) Load(r io.Reader) error {
	var snap snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[Key]*list.Element)
	c.lru.Init()
	if snap.Version != formatVersion {
		return nil
	}
	for _, e := range snap.Entries {
		if el, ok := c.items[e.Key]; ok {
			c.lru.Remove(el)
		}
		c.items[e.Key] = c.lru.PushFront(e)
	}
	for c.lru.Len() > c.max {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.items, oldest.Value.(*entry).Key)
	}
	return nil
}

// LoadFile opens the cache persisted at path. A missing file yields an empty cache.
func LoadFile(path string, maxEntries int) (*Cache, error) {
	c := New(maxEntries)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("failed to read report cache %s: %w", path, err)
	}
	if err := c.Load(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// SaveFile persists the cache to path, creating parent directories. The file
// is replaced atomically.
func (c *Cache) SaveFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	var buf bytes.Buffer
	if err := c.Save(&buf); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create report cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write report cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write report cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write report cache: %w", err)
	}
	return nil
}
