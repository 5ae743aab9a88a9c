//go:build linux

package target

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writeCgroupProcs(t *testing.T, dir string, pids []int) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, "cgroup.procs"))
	if err != nil {
		t.Fatalf("create cgroup.procs: %v", err)
	}
	defer f.Close()
	for _, pid := range pids {
		fmt.Fprintf(f, "%d\n", pid)
	}
}

func TestCgroupPIDsReadsMemberList(t *testing.T) {
	dir := t.TempDir()
	writeCgroupProcs(t, dir, []int{111, 222, 333})

	got, err := CgroupPIDs(dir)
	if err != nil {
		t.Fatalf("CgroupPIDs: %v", err)
	}
	want := []int{111, 222, 333}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestCgroupPIDsRejectsMalformedEntry(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cgroup.procs"), []byte("12\nbad\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := CgroupPIDs(dir); err == nil {
		t.Fatal("expected an error for malformed cgroup.procs entry")
	}
}

func TestDetectCgroupsOnSelf(t *testing.T) {
	// /proc/self/mountinfo should be readable in any Linux test
	// environment; we only assert DetectCgroups doesn't error, since the
	// actual cgroup layout varies by host.
	if _, _, err := DetectCgroups(); err != nil {
		t.Fatalf("DetectCgroups: %v", err)
	}
}
