//go:build !unix

package scanner

import "os"

// identityKey falls back to the absolute path on filesystems without
// device/inode semantics. A local rename then looks like delete+create,
// so move detection fidelity is reduced, not broken.
func identityKey(absPath string, info os.FileInfo) string {
	return absPath
}
