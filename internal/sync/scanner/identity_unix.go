//go:build unix

package scanner

import (
	"fmt"
	"os"
	"syscall"
)

// identityKey returns a key identifying the filesystem object for the
// lifetime of one sync run. Device and inode survive a rename, which is
// what makes local move detection possible.
func identityKey(absPath string, info os.FileInfo) string {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return fmt.Sprintf("%d:%d", st.Dev, st.Ino)
	}
	return absPath
}
