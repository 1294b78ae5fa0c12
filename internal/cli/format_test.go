package cli

import (
	"testing"

	"github.com/gitpan/App-dropboxapi/internal/types"
	"github.com/gitpan/App-dropboxapi/internal/utils"
)

func TestNewFormatterRejectsBadTemplates(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{name: "unknown placeholder", template: "%p %x"},
		{name: "trailing bare percent", template: "%p %"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFormatter(tt.template)
			if code := utils.ErrorCode(err); code != utils.ErrCodeInvalidFormat {
				t.Errorf("NewFormatter(%q) error code = %s, want %s",
					tt.template, code, utils.ErrCodeInvalidFormat)
			}
		})
	}
}

func TestFormatterRender(t *testing.T) {
	file := &types.Metadata{
		Path:     "/Photos/a.jpg",
		Bytes:    2048,
		Modified: "Sat, 10 May 2014 12:00:00 +0000",
		MimeType: "image/jpeg",
		Rev:      "35e97029684fe",
	}
	dir := &types.Metadata{Path: "/Photos", IsDir: true}

	tests := []struct {
		name     string
		template string
		meta     *types.Metadata
		want     string
	}{
		{
			name:     "path and bytes",
			template: "%b\t%p",
			meta:     file,
			want:     "2048\t/Photos/a.jpg",
		},
		{
			name:     "human size",
			template: "%s %p",
			meta:     file,
			want:     "2.0 KiB /Photos/a.jpg",
		},
		{
			name:     "directory marker and size dash",
			template: "%d %s %p",
			meta:     dir,
			want:     "d - /Photos",
		},
		{
			name:     "file marker",
			template: "%d",
			meta:     file,
			want:     "-",
		},
		{
			name:     "mime and rev",
			template: "%t %r",
			meta:     file,
			want:     "image/jpeg 35e97029684fe",
		},
		{
			name:     "literal percent",
			template: "100%% %p",
			meta:     file,
			want:     "100% /Photos/a.jpg",
		},
		{
			name:     "no placeholders",
			template: "plain",
			meta:     file,
			want:     "plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFormatter(tt.template)
			if err != nil {
				t.Fatalf("NewFormatter(%q) error = %v", tt.template, err)
			}
			if got := f.Render(tt.meta); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}
