//go:build linux

package collect

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gmarler/lightswitch/pkg/aggregate"
	"github.com/gmarler/lightswitch/pkg/events"
	"github.com/gmarler/lightswitch/pkg/proctrack"
	"github.com/gmarler/lightswitch/pkg/shard"
	"github.com/gmarler/lightswitch/pkg/target"
)

// Options configures a Facade run, generalizing cmd/consumption/main.go's
// flag-carrying opts struct to the profiler domain (spec §6).
type Options struct {
	PIDArgs         []string
	CgroupPath      string
	SampleFrequency float64 // Hz
	Duration        time.Duration
	NoBPF           bool
	BPFObjectPath   string
	BPFLogging      bool

	PprofPath  string
	FoldedPath string
}

// Facade ties the whole collection pipeline together: target
// resolution, CFI publication, sampling (BPF or ptrace fallback),
// aggregation and report emission. It is the direct generalization of
// cmd/consumption/main.go's run function to the profiler domain (spec
// §4.7).
type Facade struct {
	opts Options

	alloc    *shard.Allocator
	registry *proctrack.Registry
	agg      *aggregate.Aggregator
	sampler  *Sampler
	loader   *BPFLoader
}

// NewFacade wires a Facade's components but does not start sampling.
func NewFacade(opts Options) *Facade {
	alloc := shard.NewAllocator(0)
	registry := proctrack.NewRegistry()
	agg := aggregate.New()

	var regs RegisterReader = PtraceRegisterReader{}
	sampler := NewSampler(alloc, registry, agg, regs)

	return &Facade{
		opts:     opts,
		alloc:    alloc,
		registry: registry,
		agg:      agg,
		sampler:  sampler,
	}
}

// Run resolves targets, arms BPF if requested and available, then
// samples every target at opts.SampleFrequency until ctx is canceled,
// opts.Duration elapses, or a terminal signal arrives — mirroring
// cmd/consumption/main.go's ticker loop around col.Sample, generalized
// from a single power-model sample to a per-PID stack walk.
func (f *Facade) Run(ctx context.Context) error {
	pids, err := target.Resolve(f.opts.PIDArgs, f.opts.CgroupPath)
	if err != nil {
		return fmt.Errorf("resolve targets: %w", err)
	}
	if len(pids) == 0 {
		return fmt.Errorf("no targets resolved")
	}

	if !f.opts.NoBPF {
		loader := NewBPFLoader(f.opts.BPFLogging)
		if err := loader.Load(f.opts.BPFObjectPath); err != nil {
			slog.Warn("bpf load failed, falling back to pure-Go unwinder", "err", err)
		} else if loader.Armed() {
			frequencyHz := uint64(f.opts.SampleFrequency)
			if frequencyHz == 0 {
				frequencyHz = 1
			}
			armed := true
			for _, pid := range pids {
				if err := loader.ArmPerfEvents(pid, frequencyHz); err != nil {
					slog.Warn("bpf arm failed, falling back to pure-Go unwinder", "pid", pid, "err", err)
					armed = false
					break
				}
			}
			if armed {
				f.loader = loader
			} else {
				loader.Close()
			}
		}
	}
	if f.loader != nil {
		defer f.loader.Close()
	}

	for _, pid := range pids {
		if err := f.sampler.Refresh(pid); err != nil {
			slog.Warn("initial refresh failed", "pid", pid, "err", err)
		}
	}

	queue := events.NewQueue(64)
	eventsCtx, stopEvents := context.WithCancel(ctx)
	defer stopEvents()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		events.Run(eventsCtx, queue, 5*time.Second, f.sampler)
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if f.opts.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.opts.Duration)
		defer cancel()
	}

	period := time.Second
	if f.opts.SampleFrequency > 0 {
		period = time.Duration(float64(time.Second) / f.opts.SampleFrequency)
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	// With BPF armed, sampling happens kernel-side via the armed perf
	// events and lands in the object's own counts/stack_traces maps;
	// this loop does not read those maps back, so the aggregator (and
	// the reports finalize writes) only holds samples from the pure-Go
	// fallback, which samples each target explicitly on every tick.
	useUserspaceSampling := f.loader == nil || !f.loader.Armed()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			if useUserspaceSampling {
				for _, pid := range f.sampler.Targets() {
					f.sampler.SampleOnce(pid)
				}
			}
		}
	}

	stopEvents()
	wg.Wait()

	return f.finalize()
}

// finalize drains the aggregator, writes any requested reports, and
// prints the {total, success_dwarf, error_*} summary line (spec §4.7).
func (f *Facade) finalize() error {
	stacks := f.agg.Drain()
	errCounts := f.agg.Errors()

	if f.opts.PprofPath != "" {
		if err := f.writeReport(f.opts.PprofPath, func(w io.Writer) error {
			return WritePprof(w, stacks, f.opts.Duration)
		}); err != nil {
			return fmt.Errorf("write pprof: %w", err)
		}
	}
	if f.opts.FoldedPath != "" {
		if err := f.writeReport(f.opts.FoldedPath, func(w io.Writer) error {
			return WriteFolded(w, stacks)
		}); err != nil {
			return fmt.Errorf("write folded: %w", err)
		}
	}

	var total uint64
	for _, rs := range stacks {
		total += rs.Count
	}

	fmt.Println()
	fmt.Printf("lightswitch summary (%d distinct stacks, %d samples):\n", len(stacks), total)
	fmt.Printf("- success_dwarf: %d\n", errCounts["success_dwarf"])
	for name, count := range errCounts {
		if name == "success_dwarf" || count == 0 {
			continue
		}
		fmt.Printf("- %s: %d\n", name, count)
	}

	return nil
}

func (f *Facade) writeReport(path string, emit func(io.Writer) error) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return emit(out)
}
