//go:build linux

package proctrack

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gmarler/lightswitch/pkg/cfi"
	"github.com/gmarler/lightswitch/pkg/types"
)

// Mapping is one entry of /proc/<pid>/maps translated into the fields
// the unwinder needs: the mapped virtual-address range, the file
// offset at which it starts, and the identity of the backing
// executable (empty for anonymous mappings).
type Mapping struct {
	LowPC        uint64
	HighPC       uint64
	FileOffset   uint64
	ExecutableID string
	Pathname     string
	Type         types.MappingType
}

// rawMapsLine holds the fields of one /proc/<pid>/maps line as parsed,
// before ReadMaps filters on exec permission and classifies it.
type rawMapsLine struct {
	lowPC, highPC, offset uint64
	perms                 string
	dev                   string
	inode                 uint64
	pathname              string
}

// ReadMaps parses /proc/<pid>/maps and returns every executable
// mapping (perms contains 'x'). Non-executable mappings (most of a
// process's heap/data/stack) never need unwind-table lookups and are
// skipped here; pkg/unwind's mapping search only ever consults this
// list.
func ReadMaps(pid int) ([]Mapping, error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrProcessExited
		}
		return nil, fmt.Errorf("proctrack: open maps: %w", err)
	}
	defer f.Close()

	var out []Mapping
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line, ok := parseMapsLine(sc.Text())
		if !ok || !strings.Contains(line.perms, "x") {
			continue
		}
		m := Mapping{
			LowPC:      line.lowPC,
			HighPC:     line.highPC,
			FileOffset: line.offset,
			Pathname:   line.pathname,
			Type:       classify(line.pathname),
		}
		if line.inode != 0 && m.Type == types.MappingFile {
			id, err := identifyBackingFile(line.pathname)
			if err == nil {
				m.ExecutableID = id
			}
		}
		out = append(out, m)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("proctrack: scan maps: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNoMaps
	}
	return out, nil
}

func classify(pathname string) types.MappingType {
	switch {
	case pathname == "[vdso]":
		return types.MappingVDSO
	case pathname == "" || strings.HasPrefix(pathname, "["):
		if cfi.LooksJIT(pathname) {
			return types.MappingJIT
		}
		return types.MappingAnonymous
	case cfi.LooksJIT(pathname):
		return types.MappingJIT
	default:
		return types.MappingFile
	}
}

// parseMapsLine parses one "/proc/<pid>/maps" line:
//
//	<low>-<high> <perms> <offset> <dev> <inode> [pathname]
func parseMapsLine(line string) (rawMapsLine, bool) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return rawMapsLine{}, false
	}
	addrs := strings.SplitN(fields[0], "-", 2)
	if len(addrs) != 2 {
		return rawMapsLine{}, false
	}
	low, err := strconv.ParseUint(addrs[0], 16, 64)
	if err != nil {
		return rawMapsLine{}, false
	}
	high, err := strconv.ParseUint(addrs[1], 16, 64)
	if err != nil {
		return rawMapsLine{}, false
	}
	offset, err := strconv.ParseUint(fields[2], 16, 64)
	if err != nil {
		return rawMapsLine{}, false
	}
	inode, _ := strconv.ParseUint(fields[4], 10, 64)

	var pathname string
	if len(fields) >= 6 {
		pathname = strings.Join(fields[5:], " ")
	}
	return rawMapsLine{
		lowPC: low, highPC: high, offset: offset,
		perms: fields[1], dev: fields[3], inode: inode, pathname: pathname,
	}, true
}

// identifyBackingFile opens pathname and delegates to cfi.Identify for
// the canonical dev:inode@mtime executable_id. Errors (e.g. a deleted
// file still mapped) are the caller's to tolerate: the mapping is kept
// without an ExecutableID and simply never resolves at unwind time.
func identifyBackingFile(pathname string) (string, error) {
	f, err := os.Open(pathname)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return cfi.Identify(f)
}
