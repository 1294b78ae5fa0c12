package sync

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gitpan/App-dropboxapi/internal/api"
	"github.com/gitpan/App-dropboxapi/internal/logging"
	"github.com/gitpan/App-dropboxapi/internal/sync/diff"
	"github.com/gitpan/App-dropboxapi/internal/sync/exclude"
	"github.com/gitpan/App-dropboxapi/internal/sync/executor"
	"github.com/gitpan/App-dropboxapi/internal/sync/scanner"
	"github.com/gitpan/App-dropboxapi/internal/sync/transfer"
	"github.com/gitpan/App-dropboxapi/internal/types"
	"github.com/gitpan/App-dropboxapi/internal/utils"
)

// Engine drives one sync pass in either direction. Each Run is a one-shot
// batch reconciliation; nothing persists between runs beyond the files
// themselves and their timestamps.
type Engine struct {
	store   api.Store
	scanner *scanner.RemoteScanner
	logger  logging.Logger
}

// Options carries the per-run flags. They are threaded explicitly through
// every component, never held as ambient state.
type Options struct {
	Delete   bool
	DryRun   bool
	Verbose  bool
	Excludes []string
	Transfer transfer.Options
}

// Result aggregates one pass
type Result struct {
	Summary  executor.Summary
	Degraded bool
}

// ExitCode maps the result onto the process exit status
func (r *Result) ExitCode() int {
	if r.Degraded || r.Summary.Failures > 0 {
		return utils.ExitDegraded
	}
	return utils.ExitSuccess
}

// NewEngine creates a sync engine on top of a remote store
func NewEngine(store api.Store, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Engine{
		store:   store,
		scanner: scanner.NewRemoteScanner(store, logger),
		logger:  logger,
	}
}

// ParseRoots decides the sync direction from which argument carries the
// remote prefix. Exactly one of the two must.
func ParseRoots(first, second string) (direction diff.Direction, remoteRoot, localRoot string, err error) {
	firstRemote := strings.HasPrefix(first, utils.RemotePrefix)
	secondRemote := strings.HasPrefix(second, utils.RemotePrefix)

	switch {
	case firstRemote && !secondRemote:
		return diff.DirectionDownload, trimRemotePrefix(first), second, nil
	case secondRemote && !firstRemote:
		return diff.DirectionUpload, trimRemotePrefix(second), first, nil
	default:
		return 0, "", "", utils.NewAppError(utils.NewCLIError(utils.ErrCodeInvalidArgument,
			fmt.Sprintf("exactly one path must carry the %q prefix", utils.RemotePrefix)).Build())
	}
}

func trimRemotePrefix(arg string) string {
	p := strings.TrimPrefix(arg, utils.RemotePrefix)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimSuffix(p, "/")
}

// Run performs one sync pass
func (e *Engine) Run(ctx context.Context, direction diff.Direction, remoteRoot, localRoot string, opts Options) (*Result, error) {
	localRoot, err := filepath.Abs(localRoot)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(localRoot)
	if err != nil || !info.IsDir() {
		return nil, utils.NewAppError(utils.NewCLIError(utils.ErrCodeInvalidPath,
			"local directory does not exist: "+localRoot).Build())
	}

	matcher := exclude.New(opts.Excludes)
	transferEngine := transfer.New(e.store, e.logger, opts.Transfer)
	exec := executor.New(e.store, transferEngine, e.logger, opts.DryRun)

	if direction == diff.DirectionDownload {
		return e.runDownload(ctx, remoteRoot, localRoot, matcher, exec, opts)
	}
	return e.runUpload(ctx, remoteRoot, localRoot, matcher, exec, opts)
}

// runDownload mirrors the remote tree onto the local one. Per-item failures
// degrade the run and continue; listing and auth failures abort it.
func (e *Engine) runDownload(ctx context.Context, remoteRoot, localRoot string, matcher *exclude.Matcher, exec *executor.Executor, opts Options) (*Result, error) {
	// The store is case-insensitive: walk from its canonical casing of the
	// root so child paths strip cleanly into relative keys.
	rootMeta, err := e.scanner.Resolve(ctx, remoteRoot)
	if err != nil {
		return nil, err
	}
	canonicalRoot := rootMeta.Path

	// Local entries keyed by lowercased relative path. The store compares
	// paths case-insensitively, so a remote entry must correlate with an
	// existing local case variant instead of spawning a duplicate beside it
	// on a case-sensitive filesystem.
	localByKey := make(map[string]scanner.LocalEntry)
	if err := scanner.WalkLocal(localRoot, func(entry scanner.LocalEntry) error {
		localByKey[strings.ToLower(entry.RelPath)] = entry
		return nil
	}); err != nil {
		return nil, err
	}

	res := &Result{}
	planner := diff.NewPlanner()

	degraded, err := e.scanner.Walk(ctx, canonicalRoot, func(entry *types.Metadata) error {
		rel := relFromRemote(canonicalRoot, entry.Path)
		if rel == "" || matcher.IsExcluded(rel, entry.IsDir) {
			return nil
		}
		relKey := strings.ToLower(rel)
		planner.RecordRemote(relKey)

		var local *scanner.LocalEntry
		absPath := localDestination(localByKey, localRoot, rel)
		if existing, ok := localByKey[relKey]; ok {
			copied := existing
			local = &copied
			absPath = existing.AbsPath
		}

		action := diff.CompareForDownload(entry, local, rel)
		switch action.Type {
		case diff.ActionSkip:
			res.Summary.Skips++
		case diff.ActionMkdirLocal:
			if err := exec.MkdirLocal(absPath); err != nil {
				e.itemFailed(res, rel, err)
				return nil
			}
			res.Summary.MkdirLocal++
		case diff.ActionDownload:
			if err := exec.Download(ctx, entry, absPath); err != nil {
				e.itemFailed(res, rel, err)
				return nil
			}
			res.Summary.Downloads++
		}

		// Every touched path feeds the identity map so a later local rename
		// is recognized as a move rather than a deletion. The index is
		// refreshed too, so children of a directory created this pass
		// resolve their destination through its on-disk entry.
		if !opts.DryRun {
			if fresh, statErr := scanner.StatLocal(absPath, rel); statErr == nil {
				localByKey[relKey] = *fresh
				planner.RecordIdentity(fresh.Identity, entry.Path)
			}
		} else if local != nil {
			planner.RecordIdentity(local.Identity, entry.Path)
		}
		planner.MarkPresent(relKey)
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Degraded = res.Degraded || degraded

	if opts.Delete {
		if err := e.deleteLocalOrphans(localRoot, matcher, planner, exec, res); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// deleteLocalOrphans walks the local tree post-order and removes nodes the
// remote pass never accounted for. It runs strictly after every transfer of
// the pass, so a mid-walk abort never causes partial deletions.
func (e *Engine) deleteLocalOrphans(localRoot string, matcher *exclude.Matcher, planner *diff.Planner, exec *executor.Executor, res *Result) error {
	return scanner.WalkLocal(localRoot, func(entry scanner.LocalEntry) error {
		if matcher.IsExcluded(entry.RelPath, entry.IsDir) {
			return nil
		}
		relKey := strings.ToLower(entry.RelPath)
		switch planner.ClassifyLocal(relKey, entry.Identity) {
		case diff.KeepMoved:
			e.logger.Info("moved remotely, keeping", logging.F("path", entry.RelPath))
		case diff.Delete:
			if err := exec.DeleteLocal(entry.AbsPath, entry.IsDir); err != nil {
				e.itemFailed(res, entry.RelPath, err)
				return nil
			}
			res.Summary.Deletes++
		}
		return nil
	})
}

// runUpload mirrors the local tree onto the remote one
func (e *Engine) runUpload(ctx context.Context, remoteRoot, localRoot string, matcher *exclude.Matcher, exec *executor.Executor, opts Options) (*Result, error) {
	res := &Result{}

	// Remote listing keyed by lowercased relative path. An absent root is
	// not an error for upload; it is created and the listing is empty.
	remoteByKey := make(map[string]*types.Metadata)
	var remoteOrder []remoteNode
	canonicalRoot := remoteRoot

	rootMeta, err := e.scanner.Resolve(ctx, remoteRoot)
	switch {
	case err == nil:
		canonicalRoot = rootMeta.Path
		degraded, walkErr := e.scanner.Walk(ctx, canonicalRoot, func(entry *types.Metadata) error {
			rel := relFromRemote(canonicalRoot, entry.Path)
			if rel == "" || matcher.IsExcluded(rel, entry.IsDir) {
				return nil
			}
			meta := *entry
			key := strings.ToLower(rel)
			remoteByKey[key] = &meta
			remoteOrder = append(remoteOrder, remoteNode{key: key, path: entry.Path})
			return nil
		})
		if walkErr != nil {
			return nil, walkErr
		}
		res.Degraded = res.Degraded || degraded
	case utils.IsNotFound(err):
		if mkErr := exec.MkdirRemote(ctx, remoteRoot); mkErr != nil {
			return nil, mkErr
		}
		res.Summary.MkdirRemote++
	default:
		return nil, err
	}

	// Uploading a file materializes every ancestor folder on the remote
	// side, so a later mkdir for one of them would be redundant.
	materialized := make(map[string]struct{})
	matched := make(map[string]struct{})

	err = scanner.WalkLocal(localRoot, func(entry scanner.LocalEntry) error {
		if matcher.IsExcluded(entry.RelPath, entry.IsDir) {
			return nil
		}
		relKey := strings.ToLower(entry.RelPath)
		remote := remoteByKey[relKey]
		if remote != nil {
			matched[relKey] = struct{}{}
		}

		action := diff.CompareForUpload(&entry, remote, entry.RelPath)
		remotePath := joinRemote(canonicalRoot, entry.RelPath)

		switch action.Type {
		case diff.ActionSkip:
			res.Summary.Skips++
		case diff.ActionMkdirRemote:
			if _, ok := materialized[relKey]; ok {
				res.Summary.Skips++
				break
			}
			if err := exec.MkdirRemote(ctx, remotePath); err != nil {
				e.itemFailed(res, entry.RelPath, err)
				break
			}
			res.Summary.MkdirRemote++
			materialize(materialized, relKey)
		case diff.ActionUpload:
			if err := exec.Upload(ctx, entry.AbsPath, remotePath); err != nil {
				e.itemFailed(res, entry.RelPath, err)
				break
			}
			res.Summary.Uploads++
			materialize(materialized, relKey)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if opts.Delete {
		var candidates []string
		for _, node := range remoteOrder {
			if _, ok := matched[node.key]; !ok {
				candidates = append(candidates, node.path)
			}
		}
		// The walk emits parents before children, so pruning descendants of
		// scheduled ancestors leaves one recursive delete per subtree.
		for _, p := range diff.PruneDescendants(candidates) {
			if err := exec.DeleteRemote(ctx, p); err != nil {
				e.itemFailed(res, p, err)
				continue
			}
			res.Summary.Deletes++
		}
	}

	return res, nil
}

type remoteNode struct {
	key  string
	path string
}

// materialize marks relKey and all its ancestors as existing remotely
func materialize(m map[string]struct{}, relKey string) {
	for ; relKey != "" && relKey != "." && relKey != "/"; relKey = parentKey(relKey) {
		m[relKey] = struct{}{}
	}
}

func parentKey(key string) string {
	i := strings.LastIndex(key, "/")
	if i < 0 {
		return ""
	}
	return key[:i]
}

// localDestination picks the on-disk path for a remote entry that has no
// local counterpart. A differently cased local parent directory wins over
// the remote casing so new children land inside it.
func localDestination(localByKey map[string]scanner.LocalEntry, localRoot, rel string) string {
	if parent := parentKey(strings.ToLower(rel)); parent != "" {
		if dir, ok := localByKey[parent]; ok && dir.IsDir {
			return filepath.Join(dir.AbsPath, path.Base(rel))
		}
	}
	return filepath.Join(localRoot, filepath.FromSlash(rel))
}

func joinRemote(root, rel string) string {
	if root == "" || root == "/" {
		return "/" + rel
	}
	return root + "/" + rel
}

// relFromRemote strips the canonical root from a child path. The store
// returns children under the exact casing of the listed root, so a plain
// prefix cut suffices; the empty string means the root itself.
func relFromRemote(canonicalRoot, childPath string) string {
	if canonicalRoot == "/" {
		return strings.TrimPrefix(childPath, "/")
	}
	rel := strings.TrimPrefix(childPath, canonicalRoot)
	return strings.TrimPrefix(rel, "/")
}

func (e *Engine) itemFailed(res *Result, path string, err error) {
	e.logger.Warn("sync item failed", logging.F("path", path), logging.F("error", err.Error()))
	res.Summary.Failures++
	res.Degraded = true
}
