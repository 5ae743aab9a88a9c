//go:build linux

package collect

import (
	"fmt"
	"runtime"
	"syscall"

	"golang.org/x/sys/unix"
)

// RegisterReader reads a target thread's instruction pointer, stack
// pointer and frame-pointer register at an arbitrary point in time.
// The real in-kernel sampler reads these out of the interrupted user
// context for free; the pure-Go fallback path has to ask the kernel
// for them explicitly, which is what PtraceRegisterReader does.
type RegisterReader interface {
	Read(pid int) (ip, sp, bp uint64, err error)
}

// PtraceRegisterReader reads registers via PTRACE_ATTACH + GETREGS +
// DETACH. Every call briefly stops the target thread; this is the
// --no-bpf path's substitute for a hardware-interrupt-driven sample,
// not a drop-in replacement for it — attaching has overhead the real
// perf-event-driven path doesn't.
type PtraceRegisterReader struct{}

// Read stops pid just long enough to copy out its general-purpose
// registers; the deferred detach resumes it.
func (PtraceRegisterReader) Read(pid int) (ip, sp, bp uint64, err error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := unix.PtraceAttach(pid); err != nil {
		return 0, 0, 0, fmt.Errorf("ptrace attach %d: %w", pid, err)
	}
	defer unix.PtraceDetach(pid)

	var ws syscall.WaitStatus
	if _, err := syscall.Wait4(pid, &ws, 0, nil); err != nil {
		return 0, 0, 0, fmt.Errorf("wait4 %d: %w", pid, err)
	}

	var regs unix.PtraceRegs
	if err := unix.PtraceGetRegs(pid, &regs); err != nil {
		return 0, 0, 0, fmt.Errorf("ptrace getregs %d: %w", pid, err)
	}

	return regs.Rip, regs.Rsp, regs.Rbp, nil
}
