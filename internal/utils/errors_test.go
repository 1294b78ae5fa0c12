package utils

import (
	"errors"
	"testing"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeAuthRequired, ExitAuthRequired},
		{ErrCodeInvalidArgument, ExitUsage},
		{ErrCodeInvalidPath, ExitUsage},
		{ErrCodeInvalidFormat, ExitUsage},
		{ErrCodeDegraded, ExitDegraded},
		{ErrCodeFileNotFound, ExitFatal},
		{ErrCodeNetworkError, ExitFatal},
		{ErrCodeUploadFailed, ExitFatal},
		{ErrCodeUnknown, ExitFatal},
		{"", ExitFatal},
	}

	for _, tt := range tests {
		if got := GetExitCode(tt.code); got != tt.want {
			t.Errorf("GetExitCode(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestCLIErrorBuilder(t *testing.T) {
	err := NewCLIError(ErrCodeFileNotFound, "Path not found: /a").
		WithHTTPStatus(404).
		WithRetryable(false).
		WithContext("path", "/a").
		Build()

	if err.Code != ErrCodeFileNotFound {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeFileNotFound)
	}
	if err.HTTPStatus != 404 {
		t.Errorf("HTTPStatus = %d, want 404", err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("Retryable = true, want false")
	}
	if err.Context["path"] != "/a" {
		t.Errorf("Context[path] = %v, want /a", err.Context["path"])
	}
}

func TestErrorCode(t *testing.T) {
	appErr := NewAppError(NewCLIError(ErrCodeNetworkError, "boom").Build())
	if got := ErrorCode(appErr); got != ErrCodeNetworkError {
		t.Errorf("ErrorCode(AppError) = %s, want %s", got, ErrCodeNetworkError)
	}
	if got := ErrorCode(errors.New("plain")); got != ErrCodeUnknown {
		t.Errorf("ErrorCode(plain) = %s, want %s", got, ErrCodeUnknown)
	}
	if got := ErrorCode(nil); got != "" {
		t.Errorf("ErrorCode(nil) = %q, want empty", got)
	}
}

func TestIsNotFound(t *testing.T) {
	notFound := NewAppError(NewCLIError(ErrCodeFileNotFound, "gone").WithHTTPStatus(404).Build())
	if !IsNotFound(notFound) {
		t.Error("IsNotFound(FILE_NOT_FOUND) = false, want true")
	}
	other := NewAppError(NewCLIError(ErrCodeNetworkError, "boom").Build())
	if IsNotFound(other) {
		t.Error("IsNotFound(NETWORK_ERROR) = true, want false")
	}
	if IsNotFound(nil) {
		t.Error("IsNotFound(nil) = true, want false")
	}
}

func TestAppErrorMessage(t *testing.T) {
	err := NewAppError(NewCLIError(ErrCodeUploadFailed, "disk full").Build())
	if got := err.Error(); got != "UPLOAD_FAILED: disk full" {
		t.Errorf("Error() = %q", got)
	}
}
