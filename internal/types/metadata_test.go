package types

import (
	"testing"
	"time"
)

func TestModifiedTime(t *testing.T) {
	tests := []struct {
		name     string
		modified string
		want     time.Time
	}{
		{
			name:     "valid timestamp",
			modified: "Sat, 21 Aug 2010 22:31:20 +0000",
			want:     time.Date(2010, 8, 21, 22, 31, 20, 0, time.UTC),
		},
		{name: "empty", modified: ""},
		{name: "malformed", modified: "2010-08-21T22:31:20Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Metadata{Modified: tt.modified}
			got := m.ModifiedTime()
			if tt.want.IsZero() {
				if !got.IsZero() {
					t.Errorf("ModifiedTime() = %v, want zero", got)
				}
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("ModifiedTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSyncTime(t *testing.T) {
	server := time.Date(2014, 5, 10, 12, 0, 0, 0, time.UTC)
	client := time.Date(2014, 5, 9, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		modified    string
		clientMtime string
		want        time.Time
	}{
		{
			name:        "client mtime preferred",
			modified:    server.Format(TimeFormat),
			clientMtime: client.Format(TimeFormat),
			want:        client,
		},
		{
			name:     "falls back to server time",
			modified: server.Format(TimeFormat),
			want:     server,
		},
		{
			name:        "malformed client mtime falls back",
			modified:    server.Format(TimeFormat),
			clientMtime: "not a timestamp",
			want:        server,
		},
		{name: "both absent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Metadata{Modified: tt.modified, ClientMtime: tt.clientMtime}
			got := m.SyncTime()
			if !got.Equal(tt.want) {
				t.Errorf("SyncTime() = %v, want %v", got, tt.want)
			}
		})
	}
}
