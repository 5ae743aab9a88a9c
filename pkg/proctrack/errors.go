package proctrack

import "errors"

var (
	// ErrNotPublished means a mapping referenced an executable_id whose
	// unwind chunks have not been registered with Publish yet.
	ErrNotPublished = errors.New("proctrack: executable not published")

	// ErrTooManyMappings means a process has more live mappings than
	// types.MaxMappingsPerProcess; excess mappings are dropped rather
	// than overflowing the fixed-size process_info_t record.
	ErrTooManyMappings = errors.New("proctrack: too many mappings for process_info_t")

	// ErrProcessExited means /proc/<pid> disappeared while its maps
	// were being read.
	ErrProcessExited = errors.New("proctrack: process exited")

	// ErrNoMaps means /proc/<pid>/maps contained no parseable entries.
	ErrNoMaps = errors.New("proctrack: empty maps")
)
