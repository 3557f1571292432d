// Package profiler instruments benchmark candidates with a sampling CPU
// profiler and writes per-candidate hotspot reports.
package profiler

// Profiler is the instrumentation service the benchmark driver talks to.
//
// Start is called once before any work. When it returns true the benchmark
// was handed off to another process and the caller must return without
// running anything. SetActive toggles collection, Reset discards what was
// collected, and Report writes the topN hotspots to path ("" for stdout).
type Profiler interface {
	Start(args []string) (handedOff bool, err error)
	SetActive(on bool) error
	Reset()
	Report(path string, topN int) error
}

// Noop is a Profiler that does nothing.
type Noop struct{}

var _ Profiler = Noop{}

// Start never hands off.
func (Noop) Start([]string) (bool, error) { return false, nil }

// SetActive is a no-op.
func (Noop) SetActive(bool) error { return nil }

// Reset is a no-op.
func (Noop) Reset() {}

// Report writes nothing.
func (Noop) Report(string, int) error { return nil }
