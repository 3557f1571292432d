package imgload

import "errors"

var (
	// ErrNotTIFF indicates the file does not start with a TIFF byte-order header.
	ErrNotTIFF = errors.New("not a TIFF file")
	// ErrEmptyGroup indicates file grouping found no members, not even the
	// requested file itself.
	ErrEmptyGroup = errors.New("file group is empty")
	// ErrNoFilenames indicates Load was called without any slice filenames.
	ErrNoFilenames = errors.New("no slice filenames")
)
