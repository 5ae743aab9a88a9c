//go:build linux

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gmarler/lightswitch/pkg/collect"
)

func main() {
	var opts collect.Options

	root := &cobra.Command{
		Use:   "lightswitch [PID|PID..PID]...",
		Short: "Sampling CPU profiler for Linux processes",
		Long: `lightswitch samples the call stacks of one or more running Linux
processes (by PID, PID range, or cgroup membership) and aggregates them
into a stack-trace/count profile, emitted as pprof or folded-stack text.

It prefers an in-kernel eBPF sampler where a compiled program is
available, and falls back to a pure frame-pointer/DWARF unwinder
driven by ptrace otherwise.

Examples:
  lightswitch --pprof out.pb.gz 1234
  lightswitch --cgroup /sys/fs/cgroup/mygroup --folded out.folded --duration 30s
  lightswitch --no-bpf --sample-frequency 99 1234 2345`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.PIDArgs = append(opts.PIDArgs, args...)
			}
			f := collect.NewFacade(opts)
			return f.Run(cmd.Context())
		},
	}

	root.Flags().StringSliceVar(&opts.PIDArgs, "pid", nil, "PID, PID range (lo..hi), or repeatable flag; may also be given as positional args")
	root.Flags().StringVar(&opts.CgroupPath, "cgroup", "", "cgroup path to resolve member PIDs from, in addition to --pid")
	root.Flags().Float64Var(&opts.SampleFrequency, "sample-frequency", 99, "sampling frequency in Hz")
	root.Flags().DurationVar(&opts.Duration, "duration", 0, "stop after this long (0 = run until Ctrl-C)")
	root.Flags().BoolVar(&opts.NoBPF, "no-bpf", false, "force the pure-Go frame-pointer/DWARF unwinder, skipping eBPF entirely")
	root.Flags().StringVar(&opts.BPFObjectPath, "bpf-object", "", "path to a compiled eBPF object exporting the expected maps/program")
	root.Flags().BoolVar(&opts.BPFLogging, "bpf-logging", false, "log verbose eBPF loader/arming steps")
	root.Flags().StringVar(&opts.PprofPath, "pprof", "", "write a pprof CPU profile to this path")
	root.Flags().StringVar(&opts.FoldedPath, "folded", "", "write folded-stack flamegraph text to this path")
	root.Flags().String("symbolizer", "", "external symbolizer command to post-process pprof/folded output (invoked by the caller, not by this tool)")

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
