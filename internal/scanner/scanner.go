// Package scanner finds IR documents under a directory tree. It honors
// gitignore-style ignore files (.dfaignore by default) in every directory.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotDocument is returned when Scan is given a file without an IR document suffix.
var ErrNotDocument = errors.New("not an IR document")

// File is a discovered IR document.
type File struct {
	Path     string // Slash-separated path relative to the scan root
	FullPath string // Absolute path
	Format   Format
	Size     int64
}

// Options configures the scanner behavior.
type Options struct {
	SkipHidden      bool     // Skip hidden files and directories (starting with .)
	DefaultExcludes []string // Directory names never descended into
	IgnoreFileName  string   // Name of the ignore file (default: .dfaignore)
}

// DefaultOptions returns scanner options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		SkipHidden:     true,
		IgnoreFileName: ".dfaignore",
		DefaultExcludes: []string{
			".git",
			".hg",
			".svn",
			"node_modules",
			"vendor",
			"dist",
			"build",
			"target",
		},
	}
}

// Scanner walks directory trees looking for IR documents.
type Scanner struct {
	opts Options
}

// New creates a new Scanner with the given options.
func New(opts Options) *Scanner {
	if opts.IgnoreFileName == "" {
		opts.IgnoreFileName = DefaultOptions().IgnoreFileName
	}
	return &Scanner{opts: opts}
}

// Scan returns the IR documents under root in lexical order. If root is a
// file it is returned alone, provided it is an IR document.
func (s *Scanner) Scan(root string) ([]File, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	if !info.IsDir() {
		format := DetectFormat(info.Name())
		if format == "" {
			return nil, fmt.Errorf("%w: %s", ErrNotDocument, root)
		}
		return []File{{Path: info.Name(), FullPath: absRoot, Format: format, Size: info.Size()}}, nil
	}

	rules, err := LoadIgnoreFile(filepath.Join(absRoot, s.opts.IgnoreFileName), "")
	if err != nil {
		return nil, fmt.Errorf("loading ignore patterns: %w", err)
	}

	var files []File
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, the rest of the tree is still scanned.
			if d != nil && d.IsDir() && path != absRoot {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if s.skipDir(d.Name()) || rules.Ignored(rel, true) {
				return filepath.SkipDir
			}
			nested, err := LoadIgnoreFile(filepath.Join(path, s.opts.IgnoreFileName), rel)
			if err != nil {
				return fmt.Errorf("loading ignore patterns: %w", err)
			}
			rules = append(rules, nested...)
			return nil
		}

		if s.opts.SkipHidden && isHidden(d.Name()) {
			return nil
		}
		format := DetectFormat(d.Name())
		if format == "" || !d.Type().IsRegular() || rules.Ignored(rel, false) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		files = append(files, File{Path: rel, FullPath: path, Format: format, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return files, nil
}

func (s *Scanner) skipDir(name string) bool {
	if s.opts.SkipHidden && isHidden(name) {
		return true
	}
	for _, exclude := range s.opts.DefaultExcludes {
		if strings.EqualFold(name, exclude) {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Scan is a convenience function that scans root with default options.
func Scan(root string) ([]File, error) {
	return New(DefaultOptions()).Scan(root)
}
