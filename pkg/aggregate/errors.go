package aggregate

import "errors"

// ErrCountsMapFull is returned when an increment would grow the
// counts map past types.CountsMapCapacity; the increment is dropped
// and counted as a named failure rather than allocated unbounded.
var ErrCountsMapFull = errors.New("aggregate: counts map at capacity")
