package testing

import (
	"context"
	"testing"
	"time"

	"github.com/gitpan/App-dropboxapi/internal/types"
)

// TestContext creates a standard test context
func TestContext() context.Context {
	return context.Background()
}

// TestFile creates file metadata for testing
func TestFile(path string, bytes int64, modified time.Time) *types.Metadata {
	return &types.Metadata{
		Path:     path,
		Bytes:    bytes,
		Modified: modified.Format(types.TimeFormat),
		MimeType: "application/octet-stream",
		Rev:      "rev-" + path,
	}
}

// TestDir creates directory metadata with the given children
func TestDir(path string, children ...types.Metadata) *types.Metadata {
	return &types.Metadata{
		Path:     path,
		IsDir:    true,
		Icon:     "folder",
		Contents: children,
	}
}

// AssertNoError is a helper to fail the test if error is not nil
func AssertNoError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	if err != nil {
		if len(msgAndArgs) > 0 {
			t.Fatalf("%v: %v", msgAndArgs[0], err)
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

// AssertError is a helper to fail the test if error is nil
func AssertError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	if err == nil {
		if len(msgAndArgs) > 0 {
			t.Fatalf("%v: expected error but got nil", msgAndArgs[0])
		} else {
			t.Fatal("expected error but got nil")
		}
	}
}

// AssertEqual is a helper to fail the test if two values are not equal
func AssertEqual(t *testing.T, got, want interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	if got != want {
		if len(msgAndArgs) > 0 {
			t.Fatalf("%v: got %v, want %v", msgAndArgs[0], got, want)
		} else {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

// AssertNotNil is a helper to fail the test if value is nil
func AssertNotNil(t *testing.T, value interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	if value == nil {
		if len(msgAndArgs) > 0 {
			t.Fatalf("%v: expected non-nil value", msgAndArgs[0])
		} else {
			t.Fatal("expected non-nil value")
		}
	}
}
