//go:build linux

package target

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CgroupVersion distinguishes which cgroup hierarchy a path belongs
// to, since v1 and v2 both expose a cgroup.procs file with identical
// contents but under different mount layouts.
type CgroupVersion int

const (
	Unsupported CgroupVersion = iota
	V1
	V2
	Hybrid
)

func (v CgroupVersion) String() string {
	switch v {
	case V1:
		return "cgroup v1"
	case V2:
		return "cgroup v2"
	case Hybrid:
		return "cgroup hybrid"
	default:
		return "unsupported"
	}
}

// DetectCgroups parses /proc/self/mountinfo for mounted cgroup
// filesystems and reports which version(s) are present.
func DetectCgroups() (CgroupVersion, string, error) {
	f, err := os.Open("/proc/self/mountinfo")
	if err != nil {
		return Unsupported, "", fmt.Errorf("open mountinfo: %w", err)
	}
	defer f.Close()

	var (
		hasV1, hasV2 bool
		v1Pts, v2Pts []string
		sc           = bufio.NewScanner(f)
	)
	for sc.Scan() {
		line := sc.Text()
		sep := " - "
		i := strings.LastIndex(line, sep)
		if i < 0 {
			continue
		}
		fields := strings.Fields(line[i+len(sep):])
		if len(fields) < 1 {
			continue
		}
		fstype := fields[0]

		pre := strings.Fields(line[:i])
		if len(pre) < 5 {
			continue
		}
		mountPoint := pre[4]

		switch fstype {
		case "cgroup2":
			hasV2 = true
			v2Pts = append(v2Pts, mountPoint)
		case "cgroup":
			hasV1 = true
			v1Pts = append(v1Pts, mountPoint)
		}
	}
	if err := sc.Err(); err != nil {
		return Unsupported, "", fmt.Errorf("scan mountinfo: %w", err)
	}

	switch {
	case hasV1 && hasV2:
		return Hybrid, fmt.Sprintf("cgroup2 on %v; cgroup v1 on %v",
			strings.Join(v2Pts, ","), strings.Join(v1Pts, ",")), nil
	case hasV2:
		return V2, fmt.Sprintf("cgroup2 on %v", strings.Join(v2Pts, ",")), nil
	case hasV1:
		return V1, fmt.Sprintf("cgroup v1 on %v", strings.Join(v1Pts, ",")), nil
	default:
		return Unsupported, "no cgroup mounts found", nil
	}
}

// CgroupPIDs reads the member PIDs of the cgroup at path by reading
// its cgroup.procs file — the read-side counterpart of v1/v2's
// cgroup.procs-based process placement.
func CgroupPIDs(path string) ([]int, error) {
	f, err := os.Open(filepath.Join(path, "cgroup.procs"))
	if err != nil {
		return nil, fmt.Errorf("open cgroup.procs: %w", err)
	}
	defer f.Close()

	var pids []int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		pid, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("bad pid in cgroup.procs: %q", line)
		}
		pids = append(pids, pid)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan cgroup.procs: %w", err)
	}
	return pids, nil
}
