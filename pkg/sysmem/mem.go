// Package sysmem describes the host a benchmark runs on.
//
// Total RAM is detected with platform-specific calls; unsupported platforms
// report a fallback value marked unreliable.
package sysmem

import (
	"runtime"

	"github.com/rs/zerolog"

	"github.com/eunmann/tifbench/pkg/humanfmt"
)

// DefaultMemoryBytes is the fallback memory value (4 GB) used when
// platform-specific detection fails or is unsupported.
const DefaultMemoryBytes uint64 = 4 * 1024 * 1024 * 1024

// Host summarizes the machine for the run header.
type Host struct {
	// TotalBytes is the total system memory in bytes.
	TotalBytes uint64

	// Reliable is false when TotalBytes is DefaultMemoryBytes because
	// detection failed.
	Reliable bool

	CPUs   int
	GOOS   string
	GOARCH string
}

// Detect returns the current host description.
func Detect() Host {
	h := Host{
		TotalBytes: DefaultMemoryBytes,
		CPUs:       runtime.NumCPU(),
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
	}
	if bytes, ok := totalSystemMemory(); ok && bytes > 0 {
		h.TotalBytes = bytes
		h.Reliable = true
	}
	return h
}

// Log writes the host description as an info event.
func (h Host) Log(log *zerolog.Logger) {
	log.Info().
		Str("os", h.GOOS).
		Str("arch", h.GOARCH).
		Int("cpus", h.CPUs).
		Uint64("total_ram", h.TotalBytes).
		Str("total_ram_h", humanfmt.Bytes(int64(h.TotalBytes))).
		Bool("ram_reliable", h.Reliable).
		Msg("host")
}
