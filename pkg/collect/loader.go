//go:build linux

package collect

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"unsafe"

	"github.com/cilium/ebpf"
	"golang.org/x/sys/unix"
)

// BPFCountsMapName and BPFStackTracesMapName are the map names a
// compiled object is expected to export, mirroring profiler3's
// ParcaAgentMaps.Counts/StackTraces.
const (
	BPFCountsMapName      = "counts"
	BPFStackTracesMapName = "stack_traces"
	bpfProgramName        = "do_sample"
)

// BPFLoader owns the loaded kernel object and the perf-event file
// descriptors armed against it. A zero-value BPFLoader that never had
// Load called is a valid "no BPF available" state; Armed reports
// false and the caller should fall back to the pkg/unwind path.
type BPFLoader struct {
	coll    *ebpf.Collection
	perfFDs []int
	logging bool
}

// NewBPFLoader returns a loader; logging enables verbose slog output
// of each loader step (the CLI's --bpf-logging flag).
func NewBPFLoader(logging bool) *BPFLoader {
	return &BPFLoader{logging: logging}
}

// Load reads a compiled BPF object from path and verifies it exports
// the maps and program this system expects. An empty path, or any
// load failure, is not fatal: the caller degrades to pkg/unwind and
// logs why.
func (l *BPFLoader) Load(path string) error {
	if path == "" {
		l.log("no BPF object path given, using the pure-Go unwinder")
		return nil
	}

	spec, err := ebpf.LoadCollectionSpec(path)
	if err != nil {
		return fmt.Errorf("load collection spec: %w", err)
	}

	coll, err := ebpf.NewCollection(spec)
	if err != nil {
		return fmt.Errorf("instantiate collection: %w", err)
	}

	if coll.Maps[BPFCountsMapName] == nil || coll.Maps[BPFStackTracesMapName] == nil {
		coll.Close()
		return fmt.Errorf("object %s missing required maps %q/%q", path, BPFCountsMapName, BPFStackTracesMapName)
	}
	if coll.Programs[bpfProgramName] == nil {
		coll.Close()
		return fmt.Errorf("object %s missing required program %q", path, bpfProgramName)
	}

	l.coll = coll
	l.log("loaded BPF object", "path", path)
	return nil
}

// Armed reports whether a BPF program was successfully loaded and can
// be attached to perf events.
func (l *BPFLoader) Armed() bool {
	return l.coll != nil
}

// ArmPerfEvents opens one PERF_COUNT_SW_CPU_CLOCK software event per
// CPU for pid, sampling at frequency Hz, and attaches the loaded
// do_sample program to each. It raises RLIMIT_MEMLOCK first, exactly
// as profiler3's main does before loading BPF maps.
func (l *BPFLoader) ArmPerfEvents(pid int, frequencyHz uint64) error {
	if !l.Armed() {
		return fmt.Errorf("collect: no BPF program loaded")
	}

	if err := unix.Setrlimit(unix.RLIMIT_MEMLOCK, &unix.Rlimit{Cur: unix.RLIM_INFINITY, Max: unix.RLIM_INFINITY}); err != nil {
		return fmt.Errorf("setrlimit RLIMIT_MEMLOCK: %w", err)
	}

	prog := l.coll.Programs[bpfProgramName]

	for cpu := 0; cpu < runtime.NumCPU(); cpu++ {
		fd, err := unix.PerfEventOpen(
			&unix.PerfEventAttr{
				Type:   unix.PERF_TYPE_SOFTWARE,
				Config: unix.PERF_COUNT_SW_CPU_CLOCK,
				Size:   uint32(unsafe.Sizeof(unix.PerfEventAttr{})),
				Sample: frequencyHz,
				Bits:   unix.PerfBitDisabled | unix.PerfBitFreq,
			},
			pid,
			cpu,
			-1,
			unix.PERF_FLAG_FD_CLOEXEC,
		)
		if err != nil {
			l.DisarmAll()
			return fmt.Errorf("perf_event_open cpu %d: %w", cpu, err)
		}

		if err := unix.IoctlSetInt(fd, unix.PERF_EVENT_IOC_SET_BPF, prog.FD()); err != nil {
			unix.Close(fd)
			l.DisarmAll()
			return fmt.Errorf("attach BPF to perf event cpu %d: %w", cpu, err)
		}
		if err := unix.IoctlSetInt(fd, unix.PERF_EVENT_IOC_ENABLE, 0); err != nil {
			unix.Close(fd)
			l.DisarmAll()
			return fmt.Errorf("enable perf event cpu %d: %w", cpu, err)
		}

		l.perfFDs = append(l.perfFDs, fd)
	}
	return nil
}

// DisarmAll disables and closes every armed perf-event file
// descriptor. Safe to call on an unarmed loader.
func (l *BPFLoader) DisarmAll() {
	for _, fd := range l.perfFDs {
		_ = unix.IoctlSetInt(fd, unix.PERF_EVENT_IOC_DISABLE, 0)
		_ = unix.Close(fd)
	}
	l.perfFDs = nil
}

// Close tears down the loaded collection, if any.
func (l *BPFLoader) Close() {
	l.DisarmAll()
	if l.coll != nil {
		l.coll.Close()
		l.coll = nil
	}
}

func (l *BPFLoader) log(msg string, args ...any) {
	if !l.logging {
		return
	}
	slog.New(slog.NewTextHandler(os.Stderr, nil)).Info(msg, args...)
}
