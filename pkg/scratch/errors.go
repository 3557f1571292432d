package scratch

import "errors"

// Sentinel errors for scratch directory operations.
var (
	// ErrInvalidSlices indicates a slice count below one.
	ErrInvalidSlices = errors.New("slice count must be at least 1")

	// ErrNoSample indicates SliceFilenames was called before a sample was installed.
	ErrNoSample = errors.New("no sample file installed")

	// ErrEmptySample indicates a sample source file that is missing or empty.
	ErrEmptySample = errors.New("sample file is missing or empty")
)
