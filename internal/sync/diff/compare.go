package diff

import (
	"github.com/gitpan/App-dropboxapi/internal/sync/scanner"
	"github.com/gitpan/App-dropboxapi/internal/types"
)

// CompareForDownload decides the action for one relative path in the
// remote-to-local direction. local is nil when no local node exists.
//
// A file transfers when the local copy is absent, the sizes differ, or the
// remote timestamp is strictly newer. Equal size with an equal-or-earlier
// remote timestamp means the local copy is at least as fresh: Skip. The
// remote timestamp is Metadata.SyncTime, so an upload that preserved the
// original mtime does not look newer than the file it came from.
func CompareForDownload(remote *types.Metadata, local *scanner.LocalEntry, relPath string) Action {
	if remote.IsDir {
		if local != nil && local.IsDir {
			return Action{Type: ActionSkip, RelPath: relPath, Remote: remote, Local: local}
		}
		return Action{Type: ActionMkdirLocal, RelPath: relPath, Remote: remote}
	}

	if local == nil {
		return Action{Type: ActionDownload, RelPath: relPath, Remote: remote}
	}
	if remote.Bytes != local.Size {
		return Action{Type: ActionDownload, RelPath: relPath, Remote: remote, Local: local}
	}
	if remote.SyncTime().Unix() > local.MTime {
		return Action{Type: ActionDownload, RelPath: relPath, Remote: remote, Local: local}
	}
	return Action{Type: ActionSkip, RelPath: relPath, Remote: remote, Local: local}
}

// CompareForUpload mirrors CompareForDownload for the local-to-remote
// direction: transfer when the remote copy is absent, the sizes differ, or
// the remote timestamp is strictly older than the local mtime.
//
// Mkdir suppression for already-materialized ancestors is the caller's
// concern; the comparator only reports that the directory is missing.
func CompareForUpload(local *scanner.LocalEntry, remote *types.Metadata, relPath string) Action {
	if local.IsDir {
		if remote != nil && remote.IsDir {
			return Action{Type: ActionSkip, RelPath: relPath, Remote: remote, Local: local}
		}
		return Action{Type: ActionMkdirRemote, RelPath: relPath, Local: local}
	}

	if remote == nil {
		return Action{Type: ActionUpload, RelPath: relPath, Local: local}
	}
	if remote.Bytes != local.Size {
		return Action{Type: ActionUpload, RelPath: relPath, Remote: remote, Local: local}
	}
	if remote.SyncTime().Unix() < local.MTime {
		return Action{Type: ActionUpload, RelPath: relPath, Remote: remote, Local: local}
	}
	return Action{Type: ActionSkip, RelPath: relPath, Remote: remote, Local: local}
}
