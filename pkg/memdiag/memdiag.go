// Package memdiag captures heap statistics around benchmark candidates.
//
// Enable per-candidate memory logging with TIFBENCH_MEM_DEBUG=1.
package memdiag

import (
	"fmt"
	"os"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/eunmann/tifbench/pkg/humanfmt"
	"github.com/eunmann/tifbench/pkg/logging"
)

// Enabled reports whether verbose memory logging was requested.
func Enabled() bool {
	return os.Getenv("TIFBENCH_MEM_DEBUG") == "1"
}

// Stats holds memory statistics from runtime.
type Stats struct {
	// HeapAlloc is bytes allocated on heap and still in use.
	HeapAlloc uint64

	// TotalAlloc is cumulative bytes allocated (even if freed).
	TotalAlloc uint64

	// Mallocs is the cumulative count of heap objects allocated.
	Mallocs uint64

	// HeapSys is bytes obtained from OS for heap.
	HeapSys uint64

	// NumGC is the number of completed GC cycles.
	NumGC uint32
}

// Read reads current memory statistics.
func Read() Stats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Stats{
		HeapAlloc:  m.HeapAlloc,
		TotalAlloc: m.TotalAlloc,
		Mallocs:    m.Mallocs,
		HeapSys:    m.HeapSys,
		NumGC:      m.NumGC,
	}
}

// Delta is the allocation activity between two Stats readings.
type Delta struct {
	AllocBytes   uint64
	AllocObjects uint64
	NumGC        uint32
	// HeapGrowth is the change in live heap; negative when the heap shrank.
	HeapGrowth int64
}

// Diff returns the activity from before to after. Cumulative counters that
// went backwards (readings swapped) are reported as zero.
func Diff(before, after Stats) Delta {
	return Delta{
		AllocBytes:   sub(after.TotalAlloc, before.TotalAlloc),
		AllocObjects: sub(after.Mallocs, before.Mallocs),
		NumGC:        uint32(sub(uint64(after.NumGC), uint64(before.NumGC))),
		HeapGrowth:   int64(after.HeapAlloc) - int64(before.HeapAlloc),
	}
}

func sub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

// String formats the delta for profiler reports.
func (d Delta) String() string {
	return fmt.Sprintf("allocated %s in %s objects, %d GC cycles, heap growth %s",
		humanfmt.Bytes(int64(d.AllocBytes)),
		humanfmt.Count(int64(d.AllocObjects)),
		d.NumGC,
		signedBytes(d.HeapGrowth))
}

func signedBytes(n int64) string {
	if n < 0 {
		return "-" + humanfmt.Bytes(-n)
	}
	return "+" + humanfmt.Bytes(n)
}

// FormatMB formats bytes as megabytes.
func FormatMB(b uint64) string {
	return fmt.Sprintf("%.1fMB", float64(b)/(1024*1024))
}

// Log writes the delta as a debug event when memory logging is enabled.
func Log(log *zerolog.Logger, reason string, d Delta) {
	if !Enabled() {
		return
	}
	log.Debug().
		Str("reason", reason).
		Uint64("alloc_bytes", d.AllocBytes).
		Str("alloc_h", humanfmt.Bytes(int64(d.AllocBytes))).
		Uint64("alloc_objects", d.AllocObjects).
		Uint32("num_gc", d.NumGC).
		Int64("heap_growth", d.HeapGrowth).
		Msg("memory delta")
}

// ForceGC forces a garbage collection and logs the result.
func ForceGC() {
	log := logging.L()

	before := Read()
	runtime.GC()
	after := Read()

	freed := int64(before.HeapAlloc) - int64(after.HeapAlloc)

	log.Debug().
		Str("before_heap", FormatMB(before.HeapAlloc)).
		Str("after_heap", FormatMB(after.HeapAlloc)).
		Str("freed", FormatMB(uint64(max(freed, 0)))).
		Msg("forced GC")
}
