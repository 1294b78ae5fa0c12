package scanner

import (
	"os"
	"path"
	"path/filepath"
)

// WalkLocal produces a post-order, depth-first sequence of filesystem nodes
// under root: every descendant is reported before its parent, and the root
// itself is excluded. Post-order is what makes it safe to delete a directory
// right after its contents, and lets move detection inspect children before
// a parent decision is made.
func WalkLocal(root string, fn func(entry LocalEntry) error) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	return walkLocal(absRoot, "", fn)
}

func walkLocal(dir, rel string, fn func(entry LocalEntry) error) error {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, d := range dirEntries {
		// Symlinks are neither followed nor reported
		if d.Type()&os.ModeSymlink != 0 {
			continue
		}

		absPath := filepath.Join(dir, d.Name())
		relPath := path.Join(rel, d.Name())

		if d.IsDir() {
			if err := walkLocal(absPath, relPath, fn); err != nil {
				return err
			}
		}

		entry, err := StatLocal(absPath, relPath)
		if err != nil {
			// Removed between ReadDir and Stat
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if err := fn(*entry); err != nil {
			return err
		}
	}

	return nil
}

// StatLocal snapshots a single filesystem node, returning os.ErrNotExist
// wrapped errors when the path is absent.
func StatLocal(absPath, relPath string) (*LocalEntry, error) {
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	return &LocalEntry{
		AbsPath:  absPath,
		RelPath:  relPath,
		IsDir:    info.IsDir(),
		Size:     info.Size(),
		MTime:    info.ModTime().Unix(),
		Identity: identityKey(absPath, info),
	}, nil
}
