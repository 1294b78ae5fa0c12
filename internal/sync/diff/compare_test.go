package diff

import (
	"testing"
	"time"

	"github.com/gitpan/App-dropboxapi/internal/sync/scanner"
	apptest "github.com/gitpan/App-dropboxapi/internal/testing"
	"github.com/gitpan/App-dropboxapi/internal/types"
)

var baseTime = time.Date(2014, 5, 10, 12, 0, 0, 0, time.UTC)

func remoteFile(bytes int64, modified time.Time) *types.Metadata {
	return apptest.TestFile("/Sync/a.txt", bytes, modified)
}

func withClientMtime(m *types.Metadata, mtime time.Time) *types.Metadata {
	m.ClientMtime = mtime.Format(types.TimeFormat)
	return m
}

func localFile(size int64, mtime time.Time) *scanner.LocalEntry {
	return &scanner.LocalEntry{
		AbsPath: "/home/u/sync/a.txt",
		RelPath: "a.txt",
		Size:    size,
		MTime:   mtime.Unix(),
	}
}

func TestCompareForDownload(t *testing.T) {
	tests := []struct {
		name   string
		remote *types.Metadata
		local  *scanner.LocalEntry
		want   ActionType
	}{
		{
			name:   "local absent",
			remote: remoteFile(100, baseTime),
			local:  nil,
			want:   ActionDownload,
		},
		{
			name:   "equal size equal time",
			remote: remoteFile(100, baseTime),
			local:  localFile(100, baseTime),
			want:   ActionSkip,
		},
		{
			name:   "equal size older remote",
			remote: remoteFile(100, baseTime.Add(-time.Hour)),
			local:  localFile(100, baseTime),
			want:   ActionSkip,
		},
		{
			name:   "equal size newer remote",
			remote: remoteFile(100, baseTime.Add(time.Hour)),
			local:  localFile(100, baseTime),
			want:   ActionDownload,
		},
		{
			// The server stamps its own time at upload; the preserved
			// client mtime is the one that matches the local file.
			name:   "client mtime outranks newer server time",
			remote: withClientMtime(remoteFile(100, baseTime.Add(time.Hour)), baseTime),
			local:  localFile(100, baseTime),
			want:   ActionSkip,
		},
		{
			name:   "client mtime newer than local",
			remote: withClientMtime(remoteFile(100, baseTime), baseTime.Add(time.Hour)),
			local:  localFile(100, baseTime),
			want:   ActionDownload,
		},
		{
			name:   "size differs despite older remote",
			remote: remoteFile(101, baseTime.Add(-time.Hour)),
			local:  localFile(100, baseTime),
			want:   ActionDownload,
		},
		{
			name:   "directory missing locally",
			remote: apptest.TestDir("/Sync/d"),
			local:  nil,
			want:   ActionMkdirLocal,
		},
		{
			name:   "directory already present",
			remote: apptest.TestDir("/Sync/d"),
			local:  &scanner.LocalEntry{RelPath: "d", IsDir: true},
			want:   ActionSkip,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareForDownload(tt.remote, tt.local, "a.txt")
			if got.Type != tt.want {
				t.Errorf("CompareForDownload() = %v, want %v", got.Type, tt.want)
			}
		})
	}
}

func TestCompareForUpload(t *testing.T) {
	tests := []struct {
		name   string
		local  *scanner.LocalEntry
		remote *types.Metadata
		want   ActionType
	}{
		{
			name:   "remote absent",
			local:  localFile(100, baseTime),
			remote: nil,
			want:   ActionUpload,
		},
		{
			name:   "equal size equal time",
			local:  localFile(100, baseTime),
			remote: remoteFile(100, baseTime),
			want:   ActionSkip,
		},
		{
			name:   "equal size newer local",
			local:  localFile(100, baseTime.Add(time.Hour)),
			remote: remoteFile(100, baseTime),
			want:   ActionUpload,
		},
		{
			name:   "equal size newer remote",
			local:  localFile(100, baseTime),
			remote: remoteFile(100, baseTime.Add(time.Hour)),
			want:   ActionSkip,
		},
		{
			name:   "size differs",
			local:  localFile(99, baseTime),
			remote: remoteFile(100, baseTime.Add(time.Hour)),
			want:   ActionUpload,
		},
		{
			name:   "directory missing remotely",
			local:  &scanner.LocalEntry{RelPath: "d", IsDir: true},
			remote: nil,
			want:   ActionMkdirRemote,
		},
		{
			name:   "directory already present",
			local:  &scanner.LocalEntry{RelPath: "d", IsDir: true},
			remote: apptest.TestDir("/Sync/d"),
			want:   ActionSkip,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareForUpload(tt.local, tt.remote, "a.txt")
			if got.Type != tt.want {
				t.Errorf("CompareForUpload() = %v, want %v", got.Type, tt.want)
			}
		})
	}
}
