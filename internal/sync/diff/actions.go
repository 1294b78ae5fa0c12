package diff

import (
	"github.com/gitpan/App-dropboxapi/internal/sync/scanner"
	"github.com/gitpan/App-dropboxapi/internal/types"
)

type ActionType string

const (
	ActionSkip        ActionType = "skip"
	ActionDownload    ActionType = "download"
	ActionUpload      ActionType = "upload"
	ActionMkdirLocal  ActionType = "mkdir_local"
	ActionMkdirRemote ActionType = "mkdir_remote"
)

// Action is the comparator's verdict for one relative path. Immutable once
// emitted.
type Action struct {
	Type    ActionType
	RelPath string
	Remote  *types.Metadata
	Local   *scanner.LocalEntry
}

// Direction selects which side is the source of truth for transfers
type Direction int

const (
	DirectionDownload Direction = iota
	DirectionUpload
)

func (d Direction) String() string {
	if d == DirectionUpload {
		return "upload"
	}
	return "download"
}
