package exclude

import "testing"

func TestIsExcluded(t *testing.T) {
	m := New([]string{"*.tmp", "node_modules/", "secret.txt", "  ", ""})

	tests := []struct {
		relPath string
		isDir   bool
		want    bool
	}{
		{"report.tmp", false, true},
		{"deep/nested/report.tmp", false, true},
		{"report.tmp.bak", false, false},
		{"node_modules", true, true},
		{"node_modules/lib/index.js", false, true},
		{"src/node_modules_backup", true, false},
		{"secret.txt", false, true},
		{"docs/secret.txt", false, true},
		{"docs/secret.txt.orig", false, false},
		{"kept.txt", false, false},
		// Builtins
		{".DS_Store", false, true},
		{"photos/.DS_Store", false, true},
		{".dropbox-api.movie.mp4.partial", false, true},
		{"sub/.dropbox-api.a.txt.partial", false, true},
		{"Icon\r", false, true},
	}

	for _, tt := range tests {
		if got := m.IsExcluded(tt.relPath, tt.isDir); got != tt.want {
			t.Errorf("IsExcluded(%q, %v) = %v, want %v", tt.relPath, tt.isDir, got, tt.want)
		}
	}
}

func TestIsExcludedNilMatcher(t *testing.T) {
	var m *Matcher
	if m.IsExcluded("anything", false) {
		t.Error("nil matcher must exclude nothing")
	}
}

func TestIsExcludedLiteralDirectoryPrefix(t *testing.T) {
	m := New([]string{"build"})
	if !m.IsExcluded("build", true) {
		t.Error("literal pattern should match the directory itself")
	}
	if !m.IsExcluded("build/out.bin", false) {
		t.Error("literal pattern should match contents of the directory")
	}
	if m.IsExcluded("rebuild/out.bin", false) {
		t.Error("literal pattern must anchor on a path boundary")
	}
}
