package cfi

import "errors"

var (
	// ErrUnsupportedCFARegister indicates a CIE/FDE computes the CFA
	// from a register other than RSP/RBP and the expression isn't one
	// of the two recognized PLT idioms.
	ErrUnsupportedCFARegister = errors.New("cfi: unsupported cfa register")

	// ErrEmpty indicates the executable carries no frame description
	// entries at all.
	ErrEmpty = errors.New("cfi: no frame description entries")

	// ErrNoFrameSection indicates neither .eh_frame nor .debug_frame is
	// present in the object.
	ErrNoFrameSection = errors.New("cfi: no .eh_frame or .debug_frame section")
)
