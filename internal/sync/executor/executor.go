package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gitpan/App-dropboxapi/internal/api"
	"github.com/gitpan/App-dropboxapi/internal/logging"
	"github.com/gitpan/App-dropboxapi/internal/sync/transfer"
	"github.com/gitpan/App-dropboxapi/internal/types"
	"github.com/gitpan/App-dropboxapi/internal/utils"
)

// Executor performs sync actions sequentially. All mutation goes through
// here so dry-run can suppress it in one place.
type Executor struct {
	store    api.Store
	transfer *transfer.Engine
	logger   logging.Logger
	dryRun   bool
}

// Summary aggregates what one sync pass did
type Summary struct {
	Downloads   int
	Uploads     int
	MkdirLocal  int
	MkdirRemote int
	Deletes     int
	Skips       int
	Failures    int
}

// New creates an executor
func New(store api.Store, transferEngine *transfer.Engine, logger logging.Logger, dryRun bool) *Executor {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Executor{
		store:    store,
		transfer: transferEngine,
		logger:   logger,
		dryRun:   dryRun,
	}
}

// Download fetches remote content into absPath: write to a temporary
// sibling, stamp it with the remote modification time, then rename into
// place so a partially written file never shadows a good one.
func (e *Executor) Download(ctx context.Context, remote *types.Metadata, absPath string) error {
	e.logger.Info("download", logging.F("path", remote.Path))
	if e.dryRun {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return downloadFailed(remote.Path, err)
	}

	tmpPath := filepath.Join(filepath.Dir(absPath),
		".dropbox-api."+filepath.Base(absPath)+".partial")

	tmp, err := os.Create(tmpPath)
	if err != nil {
		return downloadFailed(remote.Path, err)
	}

	if err := e.store.GetFile(ctx, remote.Path, tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return downloadFailed(remote.Path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return downloadFailed(remote.Path, err)
	}

	// Stamp the timestamp the comparator reads so the next pass skips the
	// file instead of fetching it again.
	if mtime := remote.SyncTime(); !mtime.IsZero() {
		if err := os.Chtimes(tmpPath, mtime, mtime); err != nil {
			os.Remove(tmpPath)
			return downloadFailed(remote.Path, err)
		}
	}

	if err := os.Rename(tmpPath, absPath); err != nil {
		os.Remove(tmpPath)
		return downloadFailed(remote.Path, err)
	}

	return nil
}

// MkdirLocal creates a local directory
func (e *Executor) MkdirLocal(absPath string) error {
	e.logger.Info("mkdir", logging.F("path", absPath))
	if e.dryRun {
		return nil
	}
	return os.MkdirAll(absPath, 0755)
}

// MkdirRemote creates a remote folder
func (e *Executor) MkdirRemote(ctx context.Context, remotePath string) error {
	e.logger.Info("mkdir remote", logging.F("path", remotePath))
	if e.dryRun {
		return nil
	}
	_, err := e.store.CreateFolder(ctx, remotePath)
	return err
}

// Upload sends a local file through the transfer engine
func (e *Executor) Upload(ctx context.Context, localPath, remotePath string) error {
	e.logger.Info("upload", logging.F("path", remotePath))
	if e.dryRun {
		return nil
	}
	_, err := e.transfer.UploadFile(ctx, localPath, remotePath, true)
	return err
}

// DeleteLocal removes one local node. Directories are removed with a bare
// remove: post-order planning guarantees contents scheduled for deletion
// are already gone, and anything left inside means the directory must stay.
func (e *Executor) DeleteLocal(absPath string, isDir bool) error {
	e.logger.Info("delete local", logging.F("path", absPath))
	if e.dryRun {
		return nil
	}
	if err := os.Remove(absPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// DeleteRemote removes one remote path (the store deletes folders
// recursively on its side).
func (e *Executor) DeleteRemote(ctx context.Context, remotePath string) error {
	e.logger.Info("delete remote", logging.F("path", remotePath))
	if e.dryRun {
		return nil
	}
	return e.store.Delete(ctx, remotePath)
}

func downloadFailed(path string, err error) error {
	if appErr, ok := err.(*utils.AppError); ok {
		return utils.NewAppError(utils.NewCLIError(utils.ErrCodeDownloadFailed,
			fmt.Sprintf("%s: %s", path, appErr.CLIError.Message)).
			WithHTTPStatus(appErr.CLIError.HTTPStatus).
			Build())
	}
	return utils.NewAppError(utils.NewCLIError(utils.ErrCodeDownloadFailed,
		fmt.Sprintf("%s: %s", path, err)).Build())
}
