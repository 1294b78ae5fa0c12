package types

import "time"

// TimeFormat is the timestamp format used by the remote store
// ("Sat, 21 Aug 2010 22:31:20 +0000").
const TimeFormat = time.RFC1123Z

// Metadata represents one node of the remote hierarchy, as returned by the
// metadata endpoint. Path carries the store's canonical casing; the store
// itself is case-insensitive.
type Metadata struct {
	Path        string     `json:"path"`
	IsDir       bool       `json:"is_dir"`
	IsDeleted   bool       `json:"is_deleted,omitempty"`
	Bytes       int64      `json:"bytes"`
	Size        string     `json:"size,omitempty"`
	Modified    string     `json:"modified,omitempty"`
	ClientMtime string     `json:"client_mtime,omitempty"`
	Rev         string     `json:"rev,omitempty"`
	Hash        string     `json:"hash,omitempty"`
	MimeType    string     `json:"mime_type,omitempty"`
	Icon        string     `json:"icon,omitempty"`
	ThumbExists bool       `json:"thumb_exists,omitempty"`
	Contents    []Metadata `json:"contents,omitempty"`
}

// ModifiedTime parses the server modification timestamp. The zero time is
// returned when the field is absent or malformed.
func (m *Metadata) ModifiedTime() time.Time {
	if m.Modified == "" {
		return time.Time{}
	}
	t, err := time.Parse(TimeFormat, m.Modified)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ClientMtimeTime parses the optional client-set timestamp.
func (m *Metadata) ClientMtimeTime() time.Time {
	if m.ClientMtime == "" {
		return time.Time{}
	}
	t, err := time.Parse(TimeFormat, m.ClientMtime)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SyncTime returns the timestamp sync comparisons use: the client mtime
// preserved at upload when present, else the server modification time. The
// server stamps Modified at upload completion, so a file round-tripped
// through the store would otherwise always look newer than its local copy.
func (m *Metadata) SyncTime() time.Time {
	if t := m.ClientMtimeTime(); !t.IsZero() {
		return t
	}
	return m.ModifiedTime()
}

// ChunkedSession is the server-side handle correlating successive partial
// uploads of one logical file before the final commit. A zero value means no
// session has been opened yet. One session is owned by exactly one upload
// call and never shared.
type ChunkedSession struct {
	UploadID string `json:"upload_id"`
	Offset   int64  `json:"offset"`
	Expires  string `json:"expires,omitempty"`
}

// QuotaInfo holds account storage usage in bytes.
type QuotaInfo struct {
	Quota  int64 `json:"quota"`
	Normal int64 `json:"normal"`
	Shared int64 `json:"shared"`
}

// AccountInfo describes the authenticated account.
type AccountInfo struct {
	UID          int64     `json:"uid"`
	DisplayName  string    `json:"display_name"`
	Email        string    `json:"email,omitempty"`
	Country      string    `json:"country,omitempty"`
	ReferralLink string    `json:"referral_link,omitempty"`
	QuotaInfo    QuotaInfo `json:"quota_info"`
}

// OperationResult wraps the outcome of a single file operation (copy, move)
// for the JSON envelope. Error is set when a batch caller records a per-item
// failure instead of aborting.
type OperationResult struct {
	Metadata *Metadata `json:"metadata,omitempty"`
	Error    string    `json:"error,omitempty"`
}
