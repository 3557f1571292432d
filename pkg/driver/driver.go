// Package driver runs the TIFF loading benchmark.
//
// A session creates a scratch directory holding one sample slice among many
// zero-byte decoy files, then times each enabled candidate loader over a list
// of slice filenames. Per-iteration load failures are recorded and logged but
// never stop the session; setup failures do. The scratch directory is torn
// down on every exit path once it exists.
package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/eunmann/tifbench/internal/logctx"
	"github.com/eunmann/tifbench/pkg/benchstat"
	"github.com/eunmann/tifbench/pkg/humanfmt"
	"github.com/eunmann/tifbench/pkg/logging"
	"github.com/eunmann/tifbench/pkg/memdiag"
	"github.com/eunmann/tifbench/pkg/profiler"
	"github.com/eunmann/tifbench/pkg/sample"
	"github.com/eunmann/tifbench/pkg/scratch"
)

// CandidateResult is the measurement of one candidate.
type CandidateResult struct {
	Name      string
	Label     string
	StartedAt time.Time
	Elapsed   time.Duration
	Result    benchstat.Result
	Summary   benchstat.Summary
	Mem       memdiag.Delta
	// Voxels is the size of the last stack returned by a timed load.
	Voxels int
}

// Session is the outcome of Driver.Run.
type Session struct {
	// HandedOff is set when the profiler ran the benchmark elsewhere.
	HandedOff bool
	// ScratchDir is the path of the (removed) scratch directory.
	ScratchDir string
	Results    []CandidateResult
}

// Driver runs benchmark sessions.
type Driver struct {
	cfg        Config
	prof       profiler.Profiler
	candidates []Candidate
	out        io.Writer
}

// Option configures a Driver.
type Option func(*Driver)

// WithProfiler sets the profiler used when Config.Profile is set.
func WithProfiler(p profiler.Profiler) Option {
	return func(d *Driver) { d.prof = p }
}

// WithCandidates replaces the built-in candidate list.
func WithCandidates(c []Candidate) Option {
	return func(d *Driver) { d.candidates = c }
}

// WithOutput redirects the report lines from stdout.
func WithOutput(w io.Writer) Option {
	return func(d *Driver) { d.out = w }
}

// New creates a Driver.
func New(cfg Config, opts ...Option) *Driver {
	d := &Driver{
		cfg:  cfg,
		prof: profiler.Noop{},
		out:  os.Stdout,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.candidates == nil {
		d.candidates = Candidates(cfg)
	}
	return d
}

// Config returns the driver configuration.
func (d *Driver) Config() Config {
	return d.cfg
}

// Run executes one session. args are passed to the profiler untouched.
func (d *Driver) Run(ctx context.Context, args []string) (Session, error) {
	var session Session
	log := logctx.FromContext(ctx)

	if d.cfg.Profile {
		handedOff, err := d.prof.Start(args)
		if err != nil {
			return Session{HandedOff: handedOff}, fmt.Errorf("start profiler: %w", err)
		}
		if handedOff {
			return Session{HandedOff: true}, nil
		}
	}

	setupStart := time.Now()
	dir, err := scratch.Create(d.cfg.ScratchRoot)
	if err != nil {
		return session, err
	}
	session.ScratchDir = dir.Path()
	defer teardown(log, dir)

	filenames, err := d.setup(dir)
	if err != nil {
		return session, fmt.Errorf("setup: %w", err)
	}
	logging.PhaseComplete(log, "setup", time.Since(setupStart)).
		Str("dir", dir.Path()).
		Count("decoys", int64(d.cfg.DummyFiles)).
		Int("slices", len(filenames)).
		Log("setup completed")

	for _, c := range d.candidates {
		if !c.Enabled {
			continue
		}
		if err := ctx.Err(); err != nil {
			return session, err
		}

		res, err := d.runCandidate(ctx, c, filenames)
		session.Results = append(session.Results, res)
		if err != nil {
			return session, err
		}

		if d.cfg.SkipSlower && c.Cutoff {
			log.Info().Str("candidate", c.Name).Msg("skipping slower candidates")
			break
		}
	}
	return session, nil
}

func (d *Driver) setup(dir *scratch.Dir) ([]string, error) {
	if err := dir.PopulateDecoys(d.cfg.DummyFiles); err != nil {
		return nil, err
	}

	var err error
	if d.cfg.SamplePath != "" {
		err = dir.InstallSample(d.cfg.SamplePath)
	} else {
		err = dir.InstallGenerated(sample.DefaultOptions())
	}
	if err != nil {
		return nil, err
	}

	return dir.SliceFilenames(d.cfg.Slices)
}

func teardown(log zerolog.Logger, dir *scratch.Dir) {
	start := time.Now()
	errs := dir.Teardown()
	for _, err := range errs {
		log.Debug().Err(err).Msg("teardown")
	}
	logging.PhaseComplete(log, "teardown", time.Since(start)).
		Int("errors", len(errs)).
		LogDebug("teardown completed")
}

func (d *Driver) reportPath(c Candidate) string {
	if d.cfg.ReportDir == "" {
		return ""
	}
	return filepath.Join(d.cfg.ReportDir, c.ReportFile)
}

func (d *Driver) runCandidate(ctx context.Context, c Candidate, filenames []string) (CandidateResult, error) {
	ctx = logctx.WithCandidate(ctx, c.Name)
	log := logctx.FromContext(ctx)

	// Garbage from the previous candidate must not be collected on this
	// one's clock.
	memdiag.ForceGC()

	if d.cfg.Profile {
		d.prof.Reset()
		if d.cfg.Warmup {
			if _, err := c.Loader.Load(ctx, filenames); err != nil {
				log.Warn().Err(err).Msg("warm-up load failed")
			}
		}
		if err := d.prof.SetActive(true); err != nil {
			log.Warn().Err(err).Msg("profiler activation failed")
		}
	}

	if _, err := fmt.Fprintf(d.out, "loading %d tif images using %s, %d other tif files in same directory\n",
		len(filenames), c.Label, d.cfg.DummyFiles); err != nil {
		return CandidateResult{Name: c.Name, Label: c.Label}, fmt.Errorf("print header: %w", err)
	}

	tracker := logging.NewProgressTracker(c.Name, int64(d.cfg.Runs), log)
	iteration, voxels := 0, 0
	work := func() error {
		ictx := logctx.WithIteration(ctx, iteration)
		start := time.Now()
		stack, err := c.Loader.Load(ictx, filenames)
		elapsed := time.Since(start)
		if stack != nil {
			voxels = stack.Voxels()
		}
		if err != nil {
			ilog := logctx.FromContext(ictx)
			ilog.Warn().Err(err).Msg("load failed")
		}
		tracker.RecordIteration(elapsed, err != nil)
		tracker.LogIteration(iteration, elapsed, err)
		iteration++
		return err
	}

	cr := CandidateResult{Name: c.Name, Label: c.Label, StartedAt: time.Now()}
	before := memdiag.Read()
	policy := benchstat.Policy{CountFailed: d.cfg.CountFailedRuns}
	res, summary, err := benchstat.RunAndPrint(ctx, d.out, d.cfg.Runs, policy, work)
	cr.Mem = memdiag.Diff(before, memdiag.Read())
	cr.Elapsed = time.Since(cr.StartedAt)
	cr.Result = res
	cr.Summary = summary
	cr.Voxels = voxels

	if d.cfg.Profile {
		if perr := d.prof.SetActive(false); perr != nil {
			log.Warn().Err(perr).Msg("profiler deactivation failed")
		}
	}
	if err != nil {
		return cr, fmt.Errorf("benchmark %s: %w", c.Name, err)
	}
	memdiag.Log(&log, c.Name, cr.Mem)

	if d.cfg.Profile {
		path := d.reportPath(c)
		if err := d.prof.Report(path, d.cfg.ReportTopN); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("profiler report failed")
		}
	}

	logging.CandidateComplete(log, c.Name, cr.Elapsed).
		Latency("median", summary.Median).
		Latency("mean", summary.Mean).
		Int("samples", summary.N).
		Int("failed", summary.Failed).
		Bytes("alloc", int64(cr.Mem.AllocBytes)).
		Count("voxels", int64(cr.Voxels)).
		Str("slice_rate", humanfmt.Rate(int64(len(filenames)), summary.Median)).
		Log("candidate completed")

	return cr, nil
}
