package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gitpan/App-dropboxapi/internal/logging"
	"github.com/gitpan/App-dropboxapi/internal/types"
	"github.com/gitpan/App-dropboxapi/internal/utils"
	"github.com/gitpan/App-dropboxapi/pkg/version"
	"github.com/google/uuid"
	"github.com/imroc/req/v3"
)

// Client talks to the remote store over its REST API. There is no retry
// layer: a failed call is classified and surfaced once.
type Client struct {
	api     *req.Client
	content *req.Client
	logger  logging.Logger
}

// Options configures a Client
type Options struct {
	APIBase     string
	ContentBase string
	AccessToken string
	Timeout     time.Duration
	Debug       bool
	Logger      logging.Logger
}

// NewClient creates a new remote store client
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	if opts.Timeout == 0 {
		opts.Timeout = utils.DefaultTimeoutSeconds * time.Second
	}

	build := func(base string) *req.Client {
		c := req.C().
			SetBaseURL(strings.TrimSuffix(base, "/")).
			SetTimeout(opts.Timeout).
			SetUserAgent(version.UserAgent()).
			SetCommonBearerAuthToken(opts.AccessToken)
		if opts.Debug {
			// Dumps go through the logger so its redaction strips the
			// bearer token before anything reaches the console.
			hc := c.GetClient()
			hc.Transport = &logging.DebugTransport{Base: hc.Transport, Logger: logger}
		}
		return c
	}

	return &Client{
		api:     build(opts.APIBase),
		content: build(opts.ContentBase),
		logger:  logger,
	}
}

// opLogger returns a logger bound to a fresh trace ID for one API operation
func (c *Client) opLogger(op string) logging.Logger {
	l := c.logger.WithTraceID(uuid.New().String())
	l.Debug("API operation starting", logging.F("op", op))
	return l
}

// escapePath URL-escapes each segment of a remote path, keeping separators
func escapePath(p string) string {
	p = strings.TrimPrefix(p, "/")
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// storeError is the error body shape returned by the remote store
type storeError struct {
	Error string `json:"error"`
}

// classifyResponse converts a non-success response into an AppError. 404 maps
// to FILE_NOT_FOUND so callers can distinguish "absent" from fatal failures;
// 401 is AUTH_REQUIRED and aborts the whole run.
func classifyResponse(resp *req.Response, op string) error {
	status := resp.StatusCode
	message := ""

	var body storeError
	if err := resp.UnmarshalJson(&body); err == nil && body.Error != "" {
		message = body.Error
	}
	if message == "" {
		message = fmt.Sprintf("%s failed with status %d", op, status)
	}

	code := utils.ErrCodeNetworkError
	switch status {
	case 401, 403:
		code = utils.ErrCodeAuthRequired
	case 404:
		code = utils.ErrCodeFileNotFound
	}

	return utils.NewAppError(utils.NewCLIError(code, message).
		WithHTTPStatus(status).
		WithRetryable(status >= 500).
		WithContext("op", op).
		Build())
}

// transportError wraps a transport-level failure (DNS, timeout, TLS). An
// aborted context is the caller's own interrupt, not a network fault, and
// must not be reported as retryable.
func transportError(err error, op string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return utils.NewAppError(utils.NewCLIError(utils.ErrCodeCancelled,
			fmt.Sprintf("%s: %s", op, err)).Build())
	}
	return utils.NewAppError(utils.NewCLIError(utils.ErrCodeNetworkError,
		fmt.Sprintf("%s: %s", op, err)).
		WithRetryable(true).
		Build())
}

// finish logs the operation outcome and returns err unchanged
func finish(l logging.Logger, start time.Time, err error) error {
	duration := time.Since(start).Milliseconds()
	if err != nil {
		l.Error("API operation failed",
			logging.F("duration_ms", duration),
			logging.F("error", err.Error()))
		return err
	}
	l.Debug("API operation completed", logging.F("duration_ms", duration))
	return nil
}

// IsDeletedMetadata reports whether a metadata result is soft-deleted
func IsDeletedMetadata(m *types.Metadata) bool {
	return m != nil && m.IsDeleted
}
