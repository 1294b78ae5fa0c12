package exclude

import (
	"path"
	"strings"
)

// Matcher filters relative paths out of a sync pass. Patterns are glob
// shaped: a trailing slash matches a directory and everything under it, a
// bare name or glob matches against the full relative path and against the
// base name.
type Matcher struct {
	patterns []string
}

// builtins are always excluded. The partial-download prefix keeps a crashed
// run's temp files from being uploaded back to the store.
var builtins = []string{
	".dropbox-api.*.partial",
	".DS_Store",
	"Icon\r",
}

// New builds a matcher from user patterns merged with the builtins. Blank
// patterns are dropped.
func New(patterns []string) *Matcher {
	merged := append([]string{}, builtins...)
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			merged = append(merged, p)
		}
	}
	return &Matcher{patterns: merged}
}

// IsExcluded reports whether relPath matches any pattern. A nil matcher
// excludes nothing.
func (m *Matcher) IsExcluded(relPath string, isDir bool) bool {
	if m == nil {
		return false
	}
	relPath = strings.TrimPrefix(relPath, "./")
	for _, p := range m.patterns {
		if matches(p, relPath, isDir) {
			return true
		}
	}
	return false
}

func matches(pattern, relPath string, isDir bool) bool {
	if dir, ok := strings.CutSuffix(pattern, "/"); ok {
		return relPath == dir || strings.HasPrefix(relPath, dir+"/")
	}
	if strings.ContainsAny(pattern, "*?[") {
		if ok, _ := path.Match(pattern, relPath); ok {
			return true
		}
		ok, _ := path.Match(pattern, path.Base(relPath))
		return ok
	}
	if relPath == pattern || strings.HasPrefix(relPath, pattern+"/") {
		return true
	}
	return !isDir && path.Base(relPath) == pattern
}
