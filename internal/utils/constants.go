package utils

// Upload thresholds (binary units)
const (
	// ChunkedUploadThreshold is the size at or above which uploads go through
	// the chunked protocol instead of a single put call.
	ChunkedUploadThreshold = 10 * 1024 * 1024 // 10 MiB

	// ChunkBudget is the amount of data sent per chunked upload round.
	ChunkBudget = 4 * 1024 * 1024 // 4 MiB

	// SubChunkSize is the read size used to fill a chunk buffer.
	SubChunkSize = 512 * 1024 // 512 KiB
)

// RemotePrefix marks a path argument as remote ("dropbox:/Photos/a.jpg").
const RemotePrefix = "dropbox:"

// SchemaVersion identifies the JSON output envelope shape
const SchemaVersion = "1.0"

// DefaultTimeoutSeconds is the per-request transport timeout. There is no
// retry layer on top of it.
const DefaultTimeoutSeconds = 60

// ProgressBarWidth is the character width of the transfer progress bar
const ProgressBarWidth = 30
