package scanner

import (
	"context"

	"github.com/gitpan/App-dropboxapi/internal/api"
	"github.com/gitpan/App-dropboxapi/internal/logging"
	"github.com/gitpan/App-dropboxapi/internal/types"
	"github.com/gitpan/App-dropboxapi/internal/utils"
)

// RemoteScanner walks the remote hierarchy depth-first. The walk is
// restartable per call but not resumable mid-walk.
type RemoteScanner struct {
	store  api.Store
	logger logging.Logger
}

// NewRemoteScanner creates a remote tree walker
func NewRemoteScanner(store api.Store, logger logging.Logger) *RemoteScanner {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &RemoteScanner{store: store, logger: logger}
}

// Walk lists root recursively. fn fires for every non-deleted child of a
// directory before the walk descends into any child directory; descent then
// follows the listing's own order, no explicit sort. A soft-deleted
// directory is warned about and not descended into; the returned degraded
// flag records that the pass is incomplete. Soft-deleted files are filtered
// out silently.
func (s *RemoteScanner) Walk(ctx context.Context, root string, fn func(entry *types.Metadata) error) (degraded bool, err error) {
	meta, err := s.store.Metadata(ctx, root)
	if err != nil {
		return false, err
	}
	if !meta.IsDir {
		return false, utils.NewAppError(utils.NewCLIError(utils.ErrCodeNotADirectory,
			"Not a directory: "+root).Build())
	}
	if meta.IsDeleted {
		s.logger.Warn("Remote directory is deleted, skipping", logging.F("path", meta.Path))
		return true, nil
	}
	return s.walk(ctx, meta, fn)
}

func (s *RemoteScanner) walk(ctx context.Context, dir *types.Metadata, fn func(entry *types.Metadata) error) (degraded bool, err error) {
	if err := ctx.Err(); err != nil {
		return degraded, err
	}

	// Siblings first: the callback fires for every child of this directory
	// before any recursion happens.
	var subdirs []types.Metadata
	for i := range dir.Contents {
		child := &dir.Contents[i]
		if child.IsDeleted {
			if child.IsDir {
				s.logger.Warn("Remote subtree is deleted, skipping", logging.F("path", child.Path))
				degraded = true
			}
			continue
		}
		if err := fn(child); err != nil {
			return degraded, err
		}
		if child.IsDir {
			subdirs = append(subdirs, *child)
		}
	}

	for i := range subdirs {
		// Each directory level needs its own listing; the parent listing
		// carries only immediate children.
		meta, err := s.store.Metadata(ctx, subdirs[i].Path)
		if err != nil {
			return degraded, err
		}
		if meta.IsDeleted {
			s.logger.Warn("Remote subtree is deleted, skipping", logging.F("path", meta.Path))
			degraded = true
			continue
		}
		childDegraded, err := s.walk(ctx, meta, fn)
		degraded = degraded || childDegraded
		if err != nil {
			return degraded, err
		}
	}

	return degraded, nil
}

// Resolve fetches metadata for a path and validates it names a directory,
// returning the store's canonical casing of the path.
func (s *RemoteScanner) Resolve(ctx context.Context, root string) (*types.Metadata, error) {
	meta, err := s.store.Metadata(ctx, root)
	if err != nil {
		return nil, err
	}
	if !meta.IsDir {
		return nil, utils.NewAppError(utils.NewCLIError(utils.ErrCodeNotADirectory,
			"Not a directory: "+root).Build())
	}
	return meta, nil
}
