//go:build linux

package unwind

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

// ProcessMemory is a Memory backed by a live process's address space,
// read via process_vm_readv (no ptrace attach required, given
// permission to read the target). It is the production counterpart
// of MapMemory: pkg/collect constructs one per sampled PID.
type ProcessMemory struct {
	PID int
}

func (m ProcessMemory) ReadU64(addr uint64) (uint64, bool) {
	var buf [8]byte
	local := []unix.Iovec{{Base: &buf[0], Len: 8}}
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: 8}}

	n, err := unix.ProcessVMReadv(m.PID, local, remote, 0)
	if err != nil || n != 8 {
		return 0, false
	}
	return binary.LittleEndian.Uint64(buf[:]), true
}
