// Package benchutil provides fixture directories for loader tests and benchmarks.
package benchutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/eunmann/tifbench/pkg/fileutil"
	"github.com/eunmann/tifbench/pkg/sample"
)

// SkipIfNoLongBench skips the benchmark if TIFBENCH_LONG_BENCH is not set.
// Use this to gate long-running benchmarks that shouldn't run by default.
func SkipIfNoLongBench(b *testing.B) {
	if os.Getenv("TIFBENCH_LONG_BENCH") == "" {
		b.Skip("set TIFBENCH_LONG_BENCH=1 to run scaling benchmark")
	}
}

// FixtureOptions returns the sample options used by benchmarks.
func FixtureOptions() sample.Options {
	return sample.Options{Width: FixtureSize, Height: FixtureSize, Compress: true}
}

// SliceDir creates a temporary directory holding decoys zero-byte "<i>.tif"
// files and one generated "slice.tif". It returns the slice path.
func SliceDir(tb testing.TB, decoys int, opts sample.Options) string {
	tb.Helper()
	dir := tb.TempDir()
	for i := 0; i < decoys; i++ {
		if err := fileutil.CreateEmpty(filepath.Join(dir, fmt.Sprintf("%d.tif", i))); err != nil {
			tb.Fatalf("create decoy %d: %v", i, err)
		}
	}
	path := filepath.Join(dir, "slice.tif")
	if err := sample.Write(path, opts); err != nil {
		tb.Fatalf("write sample: %v", err)
	}
	return path
}

// NumberedSeries writes n generated slices named fmt.Sprintf(format, i) into
// dir and returns their paths in index order.
func NumberedSeries(tb testing.TB, dir, format string, n int, opts sample.Options) []string {
	tb.Helper()
	paths := make([]string, n)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf(format, i))
		if err := sample.Write(paths[i], opts); err != nil {
			tb.Fatalf("write slice %d: %v", i, err)
		}
	}
	return paths
}

// Repeat returns a slice of n copies of path, the way the benchmark driver
// builds its slice filename list.
func Repeat(path string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = path
	}
	return out
}
