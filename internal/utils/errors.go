package utils

import (
	"fmt"

	"github.com/gitpan/App-dropboxapi/internal/types"
)

// Exit codes
const (
	ExitSuccess = 0
	// Fatal remote or unclassified errors
	ExitFatal = 1
	// Bad argument combination, missing local directory
	ExitUsage = 2
	// At least one item failed or a soft-deleted subtree was skipped,
	// but the run completed
	ExitDegraded = 3
	// Authentication errors
	ExitAuthRequired = 10
)

// Error codes (tool-owned, stable)
const (
	ErrCodeAuthRequired    = "AUTH_REQUIRED"
	ErrCodeFileNotFound    = "FILE_NOT_FOUND"
	ErrCodeNotADirectory   = "NOT_A_DIRECTORY"
	ErrCodeNetworkError    = "NETWORK_ERROR"
	ErrCodeUploadFailed    = "UPLOAD_FAILED"
	ErrCodeDownloadFailed  = "DOWNLOAD_FAILED"
	ErrCodeInvalidArgument = "INVALID_ARGUMENT"
	ErrCodeInvalidPath     = "INVALID_PATH"
	ErrCodeInvalidFormat   = "INVALID_FORMAT"
	ErrCodeDegraded        = "DEGRADED"
	ErrCodeCancelled       = "CANCELLED"
	ErrCodeUnknown         = "UNKNOWN"
)

// CLIErrorBuilder helps construct CLIError instances
type CLIErrorBuilder struct {
	err types.CLIError
}

// NewCLIError creates a new error builder
func NewCLIError(code, message string) *CLIErrorBuilder {
	return &CLIErrorBuilder{
		err: types.CLIError{
			Code:    code,
			Message: message,
		},
	}
}

func (b *CLIErrorBuilder) WithHTTPStatus(status int) *CLIErrorBuilder {
	b.err.HTTPStatus = status
	return b
}

func (b *CLIErrorBuilder) WithRetryable(retryable bool) *CLIErrorBuilder {
	b.err.Retryable = retryable
	return b
}

func (b *CLIErrorBuilder) WithContext(key string, value interface{}) *CLIErrorBuilder {
	if b.err.Context == nil {
		b.err.Context = make(map[string]interface{})
	}
	b.err.Context[key] = value
	return b
}

func (b *CLIErrorBuilder) Build() types.CLIError {
	return b.err
}

// GetExitCode returns the exit code for an error code
func GetExitCode(errorCode string) int {
	switch errorCode {
	case ErrCodeAuthRequired:
		return ExitAuthRequired
	case ErrCodeInvalidArgument, ErrCodeInvalidPath, ErrCodeInvalidFormat:
		return ExitUsage
	case ErrCodeDegraded:
		return ExitDegraded
	default:
		return ExitFatal
	}
}

// AppError is a custom error type that carries CLI error info
type AppError struct {
	CLIError types.CLIError
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.CLIError.Code, e.CLIError.Message)
}

// NewAppError creates an AppError from a CLIError
func NewAppError(cliErr types.CLIError) *AppError {
	return &AppError{CLIError: cliErr}
}

// ErrorCode extracts the stable code from any error
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr.CLIError.Code
	}
	return ErrCodeUnknown
}

// IsNotFound reports whether err is a FILE_NOT_FOUND AppError
func IsNotFound(err error) bool {
	return ErrorCode(err) == ErrCodeFileNotFound
}
