package benchutil

// Shared constants for loader benchmarks across packages.

// DecoyCounts are the directory clutter levels benchmarked by default.
var DecoyCounts = []int{0, 1000, 10000}

// ScalingDecoyCounts extend DecoyCounts for directory-scan scaling runs.
// Used with TIFBENCH_LONG_BENCH=1 environment variable.
var ScalingDecoyCounts = []int{0, 1000, 10000, 50000, 100000}

// SliceCounts are the stack depths benchmarked by default.
var SliceCounts = []int{1, 10, 50}

// FixtureSize is the edge length of the fixture slice used in benchmarks.
// Smaller than the command's default so that directory effects are not
// drowned out by decode time.
const FixtureSize = 128
