package scanner

// LocalEntry is a read-only snapshot of one filesystem node under the sync
// root, valid for a single sync pass.
type LocalEntry struct {
	AbsPath  string
	RelPath  string
	IsDir    bool
	Size     int64
	MTime    int64
	Identity string
}
