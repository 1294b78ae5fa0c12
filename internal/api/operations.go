package api

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/gitpan/App-dropboxapi/internal/types"
)

// Store is the subset of remote operations the rest of the CLI consumes.
// *Client implements it; tests substitute fakes.
type Store interface {
	Metadata(ctx context.Context, path string) (*types.Metadata, error)
	Copy(ctx context.Context, src, dst string) (*types.Metadata, error)
	Move(ctx context.Context, src, dst string) (*types.Metadata, error)
	CreateFolder(ctx context.Context, path string) (*types.Metadata, error)
	Delete(ctx context.Context, path string) error
	GetFile(ctx context.Context, path string, w io.Writer) error
	PutFile(ctx context.Context, path string, r io.Reader, overwrite bool) (*types.Metadata, error)
	ChunkedUpload(ctx context.Context, chunk io.Reader, session *types.ChunkedSession) (*types.ChunkedSession, error)
	CommitChunkedUpload(ctx context.Context, path string, session *types.ChunkedSession, overwrite bool) (*types.Metadata, error)
	AccountInfo(ctx context.Context) (*types.AccountInfo, error)
}

var _ Store = (*Client)(nil)

// Metadata fetches the metadata of one path, including the immediate
// children when the path is a directory. The returned Path carries the
// store's canonical casing regardless of the casing of the argument.
func (c *Client) Metadata(ctx context.Context, path string) (result *types.Metadata, err error) {
	l := c.opLogger("metadata")
	start := time.Now()
	defer func() { err = finish(l, start, err) }()

	resp, err := c.api.R().
		SetContext(ctx).
		SetQueryParam("list", "true").
		SetSuccessResult(&result).
		Get("/metadata/auto/" + escapePath(path))
	if err != nil {
		return nil, transportError(err, "metadata")
	}
	if resp.IsErrorState() {
		return nil, classifyResponse(resp, "metadata")
	}
	return result, nil
}

func (c *Client) fileops(ctx context.Context, op string, params map[string]string) (*types.Metadata, error) {
	var result *types.Metadata
	l := c.opLogger(op)
	start := time.Now()
	var err error
	defer func() { finish(l, start, err) }()

	params["root"] = "auto"
	resp, err := c.api.R().
		SetContext(ctx).
		SetFormData(params).
		SetSuccessResult(&result).
		Post("/fileops/" + op)
	if err != nil {
		err = transportError(err, op)
		return nil, err
	}
	if resp.IsErrorState() {
		err = classifyResponse(resp, op)
		return nil, err
	}
	return result, nil
}

// Copy copies a file or folder
func (c *Client) Copy(ctx context.Context, src, dst string) (*types.Metadata, error) {
	return c.fileops(ctx, "copy", map[string]string{
		"from_path": src,
		"to_path":   dst,
	})
}

// Move moves or renames a file or folder
func (c *Client) Move(ctx context.Context, src, dst string) (*types.Metadata, error) {
	return c.fileops(ctx, "move", map[string]string{
		"from_path": src,
		"to_path":   dst,
	})
}

// CreateFolder creates a remote folder
func (c *Client) CreateFolder(ctx context.Context, path string) (*types.Metadata, error) {
	return c.fileops(ctx, "create_folder", map[string]string{
		"path": path,
	})
}

// Delete removes a file or folder (recursively, server-side)
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.fileops(ctx, "delete", map[string]string{
		"path": path,
	})
	return err
}

// GetFile streams remote file content into the given sink
func (c *Client) GetFile(ctx context.Context, path string, w io.Writer) (err error) {
	l := c.opLogger("get_file")
	start := time.Now()
	defer func() { err = finish(l, start, err) }()

	resp, err := c.content.R().
		SetContext(ctx).
		SetOutput(w).
		Get("/files/auto/" + escapePath(path))
	if err != nil {
		return transportError(err, "get_file")
	}
	if resp.IsErrorState() {
		return classifyResponse(resp, "get_file")
	}
	return nil
}

// PutFile uploads content in a single call
func (c *Client) PutFile(ctx context.Context, path string, r io.Reader, overwrite bool) (result *types.Metadata, err error) {
	l := c.opLogger("put_file")
	start := time.Now()
	defer func() { err = finish(l, start, err) }()

	resp, err := c.content.R().
		SetContext(ctx).
		SetQueryParam("overwrite", strconv.FormatBool(overwrite)).
		SetBody(r).
		SetSuccessResult(&result).
		Put("/files_put/auto/" + escapePath(path))
	if err != nil {
		return nil, transportError(err, "put_file")
	}
	if resp.IsErrorState() {
		return nil, classifyResponse(resp, "put_file")
	}
	return result, nil
}

// ChunkedUpload sends one chunk. With a zero-valued session the store opens
// a new upload and issues the upload id; the returned session carries the
// advanced offset.
func (c *Client) ChunkedUpload(ctx context.Context, chunk io.Reader, session *types.ChunkedSession) (next *types.ChunkedSession, err error) {
	l := c.opLogger("chunked_upload")
	start := time.Now()
	defer func() { err = finish(l, start, err) }()

	r := c.content.R().
		SetContext(ctx).
		SetBody(chunk).
		SetSuccessResult(&next)
	if session != nil && session.UploadID != "" {
		r.SetQueryParam("upload_id", session.UploadID)
		r.SetQueryParam("offset", strconv.FormatInt(session.Offset, 10))
	}

	resp, err := r.Put("/chunked_upload")
	if err != nil {
		return nil, transportError(err, "chunked_upload")
	}
	if resp.IsErrorState() {
		return nil, classifyResponse(resp, "chunked_upload")
	}
	return next, nil
}

// CommitChunkedUpload finalizes a chunked upload session into a file
func (c *Client) CommitChunkedUpload(ctx context.Context, path string, session *types.ChunkedSession, overwrite bool) (result *types.Metadata, err error) {
	l := c.opLogger("commit_chunked_upload")
	start := time.Now()
	defer func() { err = finish(l, start, err) }()

	resp, err := c.content.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"upload_id": session.UploadID,
			"overwrite": strconv.FormatBool(overwrite),
		}).
		SetSuccessResult(&result).
		Post("/commit_chunked_upload/auto/" + escapePath(path))
	if err != nil {
		return nil, transportError(err, "commit_chunked_upload")
	}
	if resp.IsErrorState() {
		return nil, classifyResponse(resp, "commit_chunked_upload")
	}
	return result, nil
}

// AccountInfo fetches the authenticated account's details
func (c *Client) AccountInfo(ctx context.Context) (result *types.AccountInfo, err error) {
	l := c.opLogger("account_info")
	start := time.Now()
	defer func() { err = finish(l, start, err) }()

	resp, err := c.api.R().
		SetContext(ctx).
		SetSuccessResult(&result).
		Get("/account/info")
	if err != nil {
		return nil, transportError(err, "account_info")
	}
	if resp.IsErrorState() {
		return nil, classifyResponse(resp, "account_info")
	}
	return result, nil
}
