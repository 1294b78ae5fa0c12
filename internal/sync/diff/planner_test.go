package diff

import (
	"reflect"
	"testing"
)

func TestPlannerClassifyLocal(t *testing.T) {
	p := NewPlanner()
	p.RecordRemote("photos/a.jpg")
	p.MarkPresent("photos/a.jpg")
	p.RecordIdentity("2049:71831", "/Sync/Photos/a.jpg")

	tests := []struct {
		name     string
		relKey   string
		identity string
		want     LocalVerdict
	}{
		{
			name:   "present remotely",
			relKey: "photos/a.jpg",
			want:   KeepPresent,
		},
		{
			name:   "ancestor of kept node",
			relKey: "photos",
			want:   KeepPreserved,
		},
		{
			name:     "renamed locally but same object",
			relKey:   "archive/a.jpg",
			identity: "2049:71831",
			want:     KeepMoved,
		},
		{
			name:     "genuine orphan",
			relKey:   "old/b.jpg",
			identity: "2049:90000",
			want:     Delete,
		},
		{
			name:   "orphan without identity",
			relKey: "old/c.jpg",
			want:   Delete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ClassifyLocal(tt.relKey, tt.identity); got != tt.want {
				t.Errorf("ClassifyLocal(%q, %q) = %v, want %v", tt.relKey, tt.identity, got, tt.want)
			}
		})
	}
}

func TestPlannerMovePreservesAncestors(t *testing.T) {
	p := NewPlanner()
	p.RecordIdentity("dev:ino", "/Sync/a.txt")

	// Classifying the moved node first protects its new parent directory.
	if got := p.ClassifyLocal("renamed/deep/a.txt", "dev:ino"); got != KeepMoved {
		t.Fatalf("ClassifyLocal(moved file) = %v, want KeepMoved", got)
	}
	if got := p.ClassifyLocal("renamed/deep", ""); got != KeepPreserved {
		t.Errorf("ClassifyLocal(parent of moved file) = %v, want KeepPreserved", got)
	}
	if got := p.ClassifyLocal("renamed", ""); got != KeepPreserved {
		t.Errorf("ClassifyLocal(grandparent of moved file) = %v, want KeepPreserved", got)
	}
}

func TestPlannerRecordIdentityIgnoresEmpty(t *testing.T) {
	p := NewPlanner()
	p.RecordIdentity("", "/Sync/a.txt")
	if got := p.ClassifyLocal("a.txt", ""); got != Delete {
		t.Errorf("empty identity should not match anything, got %v", got)
	}
}

func TestPruneDescendants(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		want       []string
	}{
		{
			name:       "children of an earlier candidate dropped",
			candidates: []string{"/Public", "/Public/a.txt", "/Public/sub/b.txt", "/Other"},
			want:       []string{"/Public", "/Other"},
		},
		{
			name:       "prefix without separator boundary kept",
			candidates: []string{"/Public/foo", "/Public/foobar"},
			want:       []string{"/Public/foo", "/Public/foobar"},
		},
		{
			name:       "nested directories collapse to the top",
			candidates: []string{"/a", "/a/b", "/a/b/c"},
			want:       []string{"/a"},
		},
		{
			name:       "empty input",
			candidates: nil,
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PruneDescendants(tt.candidates)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PruneDescendants(%v) = %v, want %v", tt.candidates, got, tt.want)
			}
		})
	}
}
