package diff

import (
	"path"
	"strings"
)

// Planner decides which extraneous items are true deletions and which are
// artifacts of a rename. It is built up during the main pass and consulted
// only after the full walk completes, so a mid-walk failure never triggers
// partial deletions.
type Planner struct {
	remoteSeen map[string]struct{}
	identity   map[string]string
	preserved  map[string]struct{}
}

// NewPlanner creates an empty planner for one sync pass
func NewPlanner() *Planner {
	return &Planner{
		remoteSeen: make(map[string]struct{}),
		identity:   make(map[string]string),
		preserved:  make(map[string]struct{}),
	}
}

// RecordRemote marks a relative path (lowercased join key) as present in the
// remote tree.
func (p *Planner) RecordRemote(relKey string) {
	p.remoteSeen[relKey] = struct{}{}
}

// RecordIdentity maps a local filesystem identity to the remote path it was
// synchronized against. Recorded for every local path a download pass
// touched, whether transferred or already up to date.
func (p *Planner) RecordIdentity(identity, remotePath string) {
	if identity == "" {
		return
	}
	p.identity[identity] = remotePath
}

// SeenRemotely reports whether the relative key was present in the remote
// tree during this pass.
func (p *Planner) SeenRemotely(relKey string) bool {
	_, ok := p.remoteSeen[relKey]
	return ok
}

// ClassifyLocal decides the fate of a local node absent from the remote
// tree. A node whose identity matches a recorded entry is the same object
// now living under a different remote path: it was moved, not deleted, so
// it must be kept. Keeping it also preserves its ancestor directories.
func (p *Planner) ClassifyLocal(relKey, identity string) LocalVerdict {
	if p.SeenRemotely(relKey) {
		return KeepPresent
	}
	if _, ok := p.preserved[relKey]; ok {
		return KeepPreserved
	}
	if remotePath, ok := p.identity[identity]; ok && remotePath != "" {
		p.preserveAncestors(relKey)
		return KeepMoved
	}
	return Delete
}

// MarkPresent records that a local path corresponds to remote content and
// protects its ancestors from deletion.
func (p *Planner) MarkPresent(relKey string) {
	p.preserveAncestors(relKey)
}

func (p *Planner) preserveAncestors(relKey string) {
	for dir := path.Dir(relKey); dir != "." && dir != "/"; dir = path.Dir(dir) {
		p.preserved[dir] = struct{}{}
	}
}

// LocalVerdict is the planner's decision for one local node
type LocalVerdict int

const (
	// KeepPresent: the path exists remotely
	KeepPresent LocalVerdict = iota
	// KeepMoved: same filesystem object as a known remote entry, renamed
	KeepMoved
	// KeepPreserved: ancestor of a kept node
	KeepPreserved
	// Delete: genuine orphan
	Delete
)

// PruneDescendants filters an ordered list of remote deletion candidates,
// dropping every path that is a descendant of an earlier candidate. The
// check anchors on a path-separator boundary, so /Public/foobar is never
// taken for a child of /Public/foo.
func PruneDescendants(candidates []string) []string {
	var kept []string
	for _, c := range candidates {
		child := false
		for _, anc := range kept {
			if isDescendant(anc, c) {
				child = true
				break
			}
		}
		if !child {
			kept = append(kept, c)
		}
	}
	return kept
}

func isDescendant(ancestor, p string) bool {
	ancestor = strings.TrimSuffix(ancestor, "/")
	return p != ancestor && strings.HasPrefix(p, ancestor+"/")
}
