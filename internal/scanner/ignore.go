package scanner

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"strings"
)

// IgnorePattern is one gitignore-style line of an ignore file.
type IgnorePattern struct {
	pattern  string   // line as written
	base     string   // slash-separated directory of the ignore file, "" for the root
	negate   bool     // starts with !
	dirOnly  bool     // ends with /
	anchored bool     // contains a / other than a trailing one
	segments []string // pattern split on /
}

// ParseIgnorePattern parses line as found in an ignore file located in base,
// a slash-separated path relative to the scan root.
func ParseIgnorePattern(line, base string) IgnorePattern {
	p := IgnorePattern{pattern: line, base: strings.Trim(base, "/")}
	if p.base == "." {
		p.base = ""
	}

	if strings.HasPrefix(line, "!") {
		p.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.Contains(line, "/") {
		p.anchored = true
		line = strings.TrimPrefix(line, "/")
	}
	p.segments = strings.Split(line, "/")
	return p
}

// String returns the pattern as written.
func (p IgnorePattern) String() string {
	return p.pattern
}

// IsNegation reports whether the pattern re-includes what it matches.
func (p IgnorePattern) IsNegation() bool {
	return p.negate
}

// Match reports whether the slash-separated path rel, relative to the scan
// root, matches the pattern. isDir tells whether rel names a directory.
func (p IgnorePattern) Match(rel string, isDir bool) bool {
	if p.dirOnly && !isDir {
		return false
	}
	if p.base != "" {
		if !strings.HasPrefix(rel, p.base+"/") {
			return false
		}
		rel = rel[len(p.base)+1:]
	}

	parts := strings.Split(rel, "/")
	if p.anchored {
		return matchSegments(p.segments, parts)
	}
	// Unanchored patterns match the last component at any depth.
	return matchSegments(p.segments, parts[len(parts)-1:])
}

// matchSegments matches pattern segments against path components; ** matches
// any number of components.
func matchSegments(pattern, parts []string) bool {
	if len(pattern) == 0 {
		return len(parts) == 0
	}
	if pattern[0] == "**" {
		for i := 0; i <= len(parts); i++ {
			if matchSegments(pattern[1:], parts[i:]) {
				return true
			}
		}
		return false
	}
	if len(parts) == 0 {
		return false
	}
	if ok, err := path.Match(pattern[0], parts[0]); err != nil || !ok {
		return false
	}
	return matchSegments(pattern[1:], parts[1:])
}

// IgnoreRules is an ordered list of patterns; later patterns override earlier ones.
type IgnoreRules []IgnorePattern

// Ignored reports whether rel is excluded by the rules.
func (r IgnoreRules) Ignored(rel string, isDir bool) bool {
	ignored := false
	for _, p := range r {
		if p.Match(rel, isDir) {
			ignored = !p.negate
		}
	}
	return ignored
}

// LoadIgnoreFile reads the patterns of the ignore file at file, which lives in
// base relative to the scan root. A missing file yields no patterns.
func LoadIgnoreFile(file, base string) (IgnoreRules, error) {
	f, err := os.Open(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ignore file: %w", err)
	}
	defer f.Close()

	var rules IgnoreRules
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules = append(rules, ParseIgnorePattern(line, base))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file %s: %w", file, err)
	}
	return rules, nil
}
