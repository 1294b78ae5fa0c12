package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gitpan/App-dropboxapi/internal/api"
	"github.com/gitpan/App-dropboxapi/internal/logging"
	"github.com/gitpan/App-dropboxapi/internal/types"
	"github.com/gitpan/App-dropboxapi/internal/utils"
)

// Engine uploads file content reliably regardless of size: a single put
// call below the threshold, the multi-round chunked protocol at or above
// it. There is no automatic retry; a failed chunk fails the upload.
type Engine struct {
	store  api.Store
	logger logging.Logger
	// progress receives the in-place bar in verbose mode; nil disables it
	progress io.Writer

	threshold    int64
	chunkBudget  int
	subChunkSize int
	// chunkedSupported is false for stores that only accept single puts
	chunkedSupported bool
}

// Options tunes the engine. Zero values fall back to the defaults.
type Options struct {
	Progress       io.Writer
	Threshold      int64
	ChunkBudget    int
	SubChunkSize   int
	DisableChunked bool
}

// New creates a transfer engine
func New(store api.Store, logger logging.Logger, opts Options) *Engine {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	e := &Engine{
		store:            store,
		logger:           logger,
		progress:         opts.Progress,
		threshold:        opts.Threshold,
		chunkBudget:      opts.ChunkBudget,
		subChunkSize:     opts.SubChunkSize,
		chunkedSupported: !opts.DisableChunked,
	}
	if e.threshold == 0 {
		e.threshold = utils.ChunkedUploadThreshold
	}
	if e.chunkBudget == 0 {
		e.chunkBudget = utils.ChunkBudget
	}
	if e.subChunkSize == 0 {
		e.subChunkSize = utils.SubChunkSize
	}
	return e
}

// UploadFile uploads the file at localPath to remotePath
func (e *Engine) UploadFile(ctx context.Context, localPath, remotePath string, overwrite bool) (*types.Metadata, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, utils.NewAppError(utils.NewCLIError(utils.ErrCodeInvalidPath,
			fmt.Sprintf("Failed to open file: %s", err)).Build())
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	return e.Upload(ctx, f, info.Size(), remotePath, overwrite)
}

// Upload sends size bytes from r to remotePath, choosing single-shot or
// chunked based on size and store capability.
func (e *Engine) Upload(ctx context.Context, r io.Reader, size int64, remotePath string, overwrite bool) (*types.Metadata, error) {
	if size < e.threshold || !e.chunkedSupported {
		meta, err := e.store.PutFile(ctx, remotePath, r, overwrite)
		if err != nil {
			return nil, uploadFailed(err)
		}
		return meta, nil
	}
	return e.chunkedUpload(ctx, r, size, remotePath, overwrite)
}

// chunkedUpload runs the multi-round protocol: fill a bounded buffer up to
// the chunk budget with sub-chunk reads, send it with the current session,
// adopt the returned offset and upload id, and commit as soon as a round
// read less than the full budget (source exhausted).
func (e *Engine) chunkedUpload(ctx context.Context, r io.Reader, size int64, remotePath string, overwrite bool) (*types.Metadata, error) {
	session := &types.ChunkedSession{}
	bar := NewProgressBar(e.progress, size)
	buf := make([]byte, e.chunkBudget)

	for {
		total, readErr := e.fillChunk(r, buf)
		if readErr != nil {
			return nil, utils.NewAppError(utils.NewCLIError(utils.ErrCodeUploadFailed,
				fmt.Sprintf("Read failed during chunked upload: %s", readErr)).Build())
		}

		if total > 0 {
			next, err := e.store.ChunkedUpload(ctx, bytes.NewReader(buf[:total]), session)
			if err != nil {
				bar.Finish()
				return nil, uploadFailed(err)
			}
			session = next
			bar.Update(session.Offset)
			e.logger.Debug("Chunk committed",
				logging.F("uploadId", session.UploadID),
				logging.F("offset", session.Offset))
		}

		if total < e.chunkBudget {
			break
		}
	}

	bar.Finish()

	meta, err := e.store.CommitChunkedUpload(ctx, remotePath, session, overwrite)
	if err != nil {
		return nil, uploadFailed(err)
	}
	return meta, nil
}

// fillChunk reads into buf with sub-chunk sized reads until buf is full or
// the source is exhausted. io.EOF is not an error; a short return value
// signals the final round.
func (e *Engine) fillChunk(r io.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		limit := total + e.subChunkSize
		if limit > len(buf) {
			limit = len(buf)
		}
		n, err := r.Read(buf[total:limit])
		total += n
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, nil
		}
	}
	return total, nil
}

// uploadFailed wraps a store error as UPLOAD_FAILED, preserving the remote
// error text.
func uploadFailed(err error) error {
	if appErr, ok := err.(*utils.AppError); ok {
		return utils.NewAppError(utils.NewCLIError(utils.ErrCodeUploadFailed,
			appErr.CLIError.Message).
			WithHTTPStatus(appErr.CLIError.HTTPStatus).
			Build())
	}
	return utils.NewAppError(utils.NewCLIError(utils.ErrCodeUploadFailed, err.Error()).Build())
}
