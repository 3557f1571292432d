package benchstat

import "errors"

// ErrNoRuns indicates a repetition count below one.
var ErrNoRuns = errors.New("run count must be at least 1")
