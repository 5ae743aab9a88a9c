// Package target resolves the set of PIDs a collection run should
// sample: explicit PIDs and PID ranges from --pid, and cgroup
// membership from --cgroup (v1 or v2). Non-goals in spec §1 exclude
// process discovery via the proc filesystem from the sampler's core,
// but the CLI front end this package serves still needs to turn user
// input into a concrete PID list before handing PIDs to pkg/proctrack.
//
// Grounded on pkg/system/cgroup/cgroup.go and pkg/system/proc/v2.go
// (github.com/ja7ad/consumption): DetectCgroups is kept close to the
// original cgroup-version sniff over /proc/self/mountinfo; reading
// cgroup.procs to enumerate member PIDs is the read-side counterpart
// of v2.go's writePIDtoCgroup, which only ever writes to that file.
package target
