package cfi

import (
	"fmt"
	"os"
	"syscall"
)

// Identify derives a stable executable_id from the backing file's
// device, inode and modification time. This is deterministic across
// restarts as long as the file isn't replaced in place without a
// mtime bump, which satisfies the spec's Open Question on
// executable_id canonicalization without requiring a full-file content
// hash of potentially large shared objects.
func Identify(f *os.File) (string, error) {
	fi, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("cfi: stat: %w", err)
	}
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return "", fmt.Errorf("cfi: unsupported stat_t for %s", fi.Name())
	}
	return fmt.Sprintf("%d:%d@%d", st.Dev, st.Ino, fi.ModTime().UnixNano()), nil
}
