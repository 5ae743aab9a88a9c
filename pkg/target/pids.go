//go:build linux

package target

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePIDs expands a list of CLI tokens — bare PIDs and "A..B"
// inclusive ranges — into a flat PID list, preserving input order and
// expanding ranges inline. Blank tokens are ignored.
func ParsePIDs(args []string) ([]int, error) {
	var out []int
	for _, tok := range args {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if strings.Contains(tok, "..") {
			lo, hi, err := parseRange(tok)
			if err != nil {
				return nil, err
			}
			for pid := lo; pid <= hi; pid++ {
				out = append(out, pid)
			}
			continue
		}
		pid, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("bad pid: %q", tok)
		}
		out = append(out, pid)
	}
	return out, nil
}

func parseRange(tok string) (lo, hi int, err error) {
	parts := strings.SplitN(tok, "..", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return 0, 0, fmt.Errorf("bad range: %q", tok)
	}
	lo, errLo := strconv.Atoi(parts[0])
	hi, errHi := strconv.Atoi(parts[1])
	if errLo != nil || errHi != nil || lo > hi {
		return 0, 0, fmt.Errorf("bad range: %q", tok)
	}
	return lo, hi, nil
}

// Resolve combines explicit --pid tokens with the member PIDs of an
// optional --cgroup path into one deduplicated target list.
func Resolve(pidArgs []string, cgroupPath string) ([]int, error) {
	pids, err := ParsePIDs(pidArgs)
	if err != nil {
		return nil, err
	}
	if cgroupPath != "" {
		cgPIDs, err := CgroupPIDs(cgroupPath)
		if err != nil {
			return nil, err
		}
		pids = append(pids, cgPIDs...)
	}

	seen := make(map[int]bool, len(pids))
	out := make([]int, 0, len(pids))
	for _, pid := range pids {
		if seen[pid] {
			continue
		}
		seen[pid] = true
		out = append(out, pid)
	}
	return out, nil
}
