package driver

// Config controls one benchmark session.
type Config struct {
	// Runs is the number of timed repetitions per candidate.
	Runs int
	// Slices is the number of filenames handed to each load.
	Slices int
	// DummyFiles is the number of zero-byte decoys next to the sample.
	DummyFiles int

	// Profile engages the profiler around every candidate.
	Profile bool
	// IncludeBaseline also measures the whole-image imaging loader.
	IncludeBaseline bool
	// SkipSlower stops after the cutoff candidate.
	SkipSlower bool
	// MappedBuffers lets loaders decode from memory-mapped files.
	MappedBuffers bool
	// CountFailedRuns includes failed repetitions in the statistics.
	CountFailedRuns bool
	// Warmup runs one untimed load before each timed block when profiling.
	Warmup bool

	// ReportDir receives profiler reports.
	ReportDir string
	// ReportTopN is the number of hotspots per report.
	ReportTopN int

	// ScratchRoot is the parent of the scratch directory; "" means the OS
	// temp dir.
	ScratchRoot string
	// SamplePath is a TIFF to copy in as the slice; "" generates one.
	SamplePath string
}

// DefaultConfig returns the stock benchmark configuration.
func DefaultConfig() Config {
	return Config{
		Runs:            5,
		Slices:          50,
		DummyFiles:      10000,
		Profile:         true,
		IncludeBaseline: false,
		SkipSlower:      true,
		MappedBuffers:   true,
		CountFailedRuns: true,
		Warmup:          true,
		ReportDir:       "/tmp",
		ReportTopN:      3,
	}
}
