package driver

import "github.com/eunmann/tifbench/pkg/imgload"

// Candidate is one loader under measurement.
type Candidate struct {
	Name string
	// Label is printed in the "loading N tif images using <Label>" line.
	Label string
	// ReportFile is the profiler report name inside Config.ReportDir.
	ReportFile string
	Enabled    bool
	// Cutoff marks the last candidate run when Config.SkipSlower is set.
	Cutoff bool
	Loader imgload.Loader
}

// Candidates returns the built-in candidates in execution order.
func Candidates(cfg Config) []Candidate {
	loaders := imgload.Strategies(cfg.MappedBuffers)
	return []Candidate{
		{
			Name:       imgload.Imaging,
			Label:      "imaging",
			ReportFile: "ij.log.out",
			Enabled:    cfg.IncludeBaseline,
			Loader:     loaders[imgload.Imaging],
		},
		{
			Name:       imgload.UngroupedPlanar,
			Label:      "opener (planar, no file grouping)",
			ReportFile: "img-ungrouped-planar.log.out",
			Enabled:    true,
			Cutoff:     true,
			Loader:     loaders[imgload.UngroupedPlanar],
		},
		{
			Name:       imgload.GroupedPlanar,
			Label:      "opener (planar)",
			ReportFile: "img-planar.log.out",
			Enabled:    true,
			Loader:     loaders[imgload.GroupedPlanar],
		},
		{
			Name:       imgload.GroupedArray,
			Label:      "opener (array)",
			ReportFile: "img-array.log.out",
			Enabled:    true,
			Loader:     loaders[imgload.GroupedArray],
		},
	}
}
