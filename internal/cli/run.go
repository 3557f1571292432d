package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/eunmann/tifbench/internal/config"
	"github.com/eunmann/tifbench/internal/logctx"
	"github.com/eunmann/tifbench/pkg/driver"
	"github.com/eunmann/tifbench/pkg/fileutil"
	"github.com/eunmann/tifbench/pkg/logging"
	"github.com/eunmann/tifbench/pkg/profiler"
	"github.com/eunmann/tifbench/pkg/results"
	"github.com/eunmann/tifbench/pkg/s3upload"
	"github.com/eunmann/tifbench/pkg/sysmem"
)

// runFlags mirrors config.Config; only flags set on the command line
// override the loaded configuration.
type runFlags struct {
	configPath string
	cfg        config.Config
}

func newRunCmd() *cobra.Command {
	f := &runFlags{cfg: config.Default()}

	cmd := &cobra.Command{
		Use:   "run [flags] [-- profiler-args...]",
		Short: "Run the loading benchmark",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return runBenchmark(cmd, cfg, args)
		},
	}

	fs := cmd.Flags()
	c := &f.cfg
	fs.StringVar(&f.configPath, "config", "", "YAML config file")
	fs.IntVar(&c.Runs, "runs", c.Runs, "timed repetitions per candidate")
	fs.IntVar(&c.Slices, "slices", c.Slices, "slice filenames per load")
	fs.IntVar(&c.DummyFiles, "dummy-files", c.DummyFiles, "zero-byte decoy files next to the slice")
	fs.BoolVar(&c.Profile, "profile", c.Profile, "profile each candidate")
	fs.BoolVar(&c.Relaunch, "relaunch", c.Relaunch, "re-run the benchmark in a child process when profiling")
	fs.BoolVar(&c.IncludeBaseline, "include-baseline", c.IncludeBaseline, "also measure the imaging baseline loader")
	fs.BoolVar(&c.SkipSlower, "skip-slower", c.SkipSlower, "stop after the ungrouped planar loader")
	fs.BoolVar(&c.MappedBuffers, "mapped-buffers", c.MappedBuffers, "decode from memory-mapped files")
	fs.BoolVar(&c.CountFailedRuns, "count-failed", c.CountFailedRuns, "include failed iterations in the statistics")
	fs.BoolVar(&c.Warmup, "warmup", c.Warmup, "run one untimed load before each profiled candidate")
	fs.StringVar(&c.SamplePath, "sample", c.SamplePath, "TIFF file to load (default: generated)")
	fs.StringVar(&c.ScratchRoot, "scratch-root", c.ScratchRoot, "parent of the scratch directory (default: OS temp dir)")
	fs.StringVar(&c.ReportDir, "report-dir", c.ReportDir, "profiler report directory (empty: stdout)")
	fs.IntVar(&c.ReportTopN, "report-top", c.ReportTopN, "hotspots per profiler report")
	fs.StringVar(&c.ResultsJSON, "results-json", c.ResultsJSON, "write results as JSON to this path")
	fs.StringVar(&c.ResultsParquet, "results-parquet", c.ResultsParquet, "write results as Parquet to this path")
	fs.StringVar(&c.Publish, "publish", c.Publish, "upload results and reports to s3://bucket/prefix")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "enable debug logging")
	fs.BoolVar(&c.Human, "human", c.Human, "human-friendly console logs")
	return cmd
}

// resolve loads file and environment settings, then applies changed flags.
func (f *runFlags) resolve(fs *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}

	src := f.cfg
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("runs", func() { cfg.Runs = src.Runs })
	set("slices", func() { cfg.Slices = src.Slices })
	set("dummy-files", func() { cfg.DummyFiles = src.DummyFiles })
	set("profile", func() { cfg.Profile = src.Profile })
	set("relaunch", func() { cfg.Relaunch = src.Relaunch })
	set("include-baseline", func() { cfg.IncludeBaseline = src.IncludeBaseline })
	set("skip-slower", func() { cfg.SkipSlower = src.SkipSlower })
	set("mapped-buffers", func() { cfg.MappedBuffers = src.MappedBuffers })
	set("count-failed", func() { cfg.CountFailedRuns = src.CountFailedRuns })
	set("warmup", func() { cfg.Warmup = src.Warmup })
	set("sample", func() { cfg.SamplePath = src.SamplePath })
	set("scratch-root", func() { cfg.ScratchRoot = src.ScratchRoot })
	set("report-dir", func() { cfg.ReportDir = src.ReportDir })
	set("report-top", func() { cfg.ReportTopN = src.ReportTopN })
	set("results-json", func() { cfg.ResultsJSON = src.ResultsJSON })
	set("results-parquet", func() { cfg.ResultsParquet = src.ResultsParquet })
	set("publish", func() { cfg.Publish = src.Publish })
	set("debug", func() { cfg.Debug = src.Debug })
	set("human", func() { cfg.Human = src.Human })

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runBenchmark(cmd *cobra.Command, cfg config.Config, args []string) error {
	var bucket, prefix string
	if cfg.Publish != "" {
		var err error
		if bucket, prefix, err = s3upload.ParseURI(cfg.Publish); err != nil {
			return err
		}
	}

	logging.Init(cfg.Debug, cfg.Human)
	log := logging.WithPhase("run")
	sysmem.Detect().Log(&log)

	ctx := logctx.WithLogger(cmd.Context(), log)
	dcfg := cfg.Driver()

	var prof profiler.Profiler = profiler.Noop{}
	if dcfg.Profile {
		p := profiler.NewPprof(cfg.Relaunch)
		p.Stdout = cmd.OutOrStdout()
		prof = p
	}

	d := driver.New(dcfg, driver.WithProfiler(prof), driver.WithOutput(cmd.OutOrStdout()))
	session, err := d.Run(ctx, args)
	if err != nil {
		return err
	}
	if session.HandedOff {
		return nil
	}

	exported, err := export(cfg, results.FromSession(dcfg, session))
	if err != nil {
		return err
	}

	if bucket == "" {
		return nil
	}
	files := append(exported, reportFiles(dcfg, session)...)
	return publish(ctx, bucket, prefix, files)
}

func export(cfg config.Config, records []results.Record) ([]string, error) {
	var written []string
	if cfg.ResultsJSON != "" {
		if err := results.WriteJSON(cfg.ResultsJSON, records); err != nil {
			return nil, err
		}
		written = append(written, cfg.ResultsJSON)
	}
	if cfg.ResultsParquet != "" {
		if err := results.WriteParquet(cfg.ResultsParquet, records); err != nil {
			return nil, err
		}
		written = append(written, cfg.ResultsParquet)
	}
	return written, nil
}

// reportFiles lists the profiler reports the session produced.
func reportFiles(cfg driver.Config, session driver.Session) []string {
	if !cfg.Profile || cfg.ReportDir == "" {
		return nil
	}
	ran := make(map[string]bool, len(session.Results))
	for _, r := range session.Results {
		ran[r.Name] = true
	}

	var files []string
	for _, c := range driver.Candidates(cfg) {
		if !ran[c.Name] {
			continue
		}
		p := filepath.Join(cfg.ReportDir, c.ReportFile)
		for _, f := range []string{p, p + ".pprof"} {
			if fileutil.Exists(f) {
				files = append(files, f)
			}
		}
	}
	return files
}

func publish(ctx context.Context, bucket, prefix string, files []string) error {
	if len(files) == 0 {
		return nil
	}
	client, err := s3upload.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	keys, err := client.UploadFiles(ctx, bucket, prefix, files)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	log := logctx.FromContext(ctx)
	log.Info().
		Str("bucket", bucket).
		Strs("keys", keys).
		Msg("results published")
	return nil
}
