// Package benchstat times repeated executions of a unit of work and
// summarizes the samples.
//
// Repetitions run synchronously, one at a time, with no overlap. Every
// repetition yields an Outcome whether or not the work failed; a Policy
// decides whether failed repetitions contribute their time to the summary.
package benchstat

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/eunmann/tifbench/pkg/humanfmt"
)

// Outcome is the result of one timed repetition.
type Outcome struct {
	Iteration int
	Duration  time.Duration
	Err       error
}

// Failed reports whether the repetition returned an error.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Result holds the outcomes of a Run in execution order.
type Result struct {
	Outcomes []Outcome
}

// Failures returns the number of failed repetitions.
func (r Result) Failures() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Failed() {
			n++
		}
	}
	return n
}

// Policy controls which outcomes enter a Summary.
type Policy struct {
	// CountFailed includes the time of failed repetitions.
	CountFailed bool
}

// DefaultPolicy counts failed repetitions, so a failing loader is timed
// for as long as it took to fail.
func DefaultPolicy() Policy {
	return Policy{CountFailed: true}
}

// Summary describes the sampled durations of a Result.
type Summary struct {
	// N is the number of samples that entered the statistics.
	N int
	// Failed is the number of failed repetitions, counted or not.
	Failed int

	Median time.Duration
	Mean   time.Duration
	StdDev time.Duration
	Min    time.Duration
	Max    time.Duration
}

// Run executes work n times and records one Outcome per repetition.
// The context is checked before each repetition; on cancellation the
// outcomes gathered so far are returned together with ctx.Err().
func Run(ctx context.Context, n int, work func() error) (Result, error) {
	if n < 1 {
		return Result{}, ErrNoRuns
	}

	res := Result{Outcomes: make([]Outcome, 0, n)}
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		start := time.Now()
		err := work()
		res.Outcomes = append(res.Outcomes, Outcome{
			Iteration: i,
			Duration:  time.Since(start),
			Err:       err,
		})
	}
	return res, nil
}

// Summary computes statistics over the outcomes selected by policy.
// A Result without eligible samples yields a zero Summary with N == 0.
func (r Result) Summary(policy Policy) Summary {
	s := Summary{Failed: r.Failures()}

	samples := make(stats.Float64Data, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.Failed() && !policy.CountFailed {
			continue
		}
		samples = append(samples, float64(o.Duration))
	}
	s.N = len(samples)
	if s.N == 0 {
		return s
	}

	// stats only fails on empty input, which is excluded above.
	median, _ := samples.Median()
	mean, _ := samples.Mean()
	stddev, _ := samples.StandardDeviationPopulation()
	lo, _ := samples.Min()
	hi, _ := samples.Max()

	s.Median = time.Duration(median)
	s.Mean = time.Duration(mean)
	s.StdDev = time.Duration(stddev)
	s.Min = time.Duration(lo)
	s.Max = time.Duration(hi)
	return s
}

// String formats the summary as a single line.
func (s Summary) String() string {
	if s.N == 0 {
		return fmt.Sprintf("median: n/a (n=0, failed=%d)", s.Failed)
	}
	return fmt.Sprintf("median: %s (mean %s ± %s, min %s, max %s, n=%d, failed=%d)",
		humanfmt.Duration(s.Median),
		humanfmt.Duration(s.Mean),
		humanfmt.Duration(s.StdDev),
		humanfmt.Duration(s.Min),
		humanfmt.Duration(s.Max),
		s.N, s.Failed)
}

// Print writes the summary line to w.
func Print(w io.Writer, s Summary) error {
	_, err := fmt.Fprintln(w, s.String())
	return err
}

// RunAndPrint runs work n times, then prints and returns the summary.
func RunAndPrint(ctx context.Context, w io.Writer, n int, policy Policy, work func() error) (Result, Summary, error) {
	res, err := Run(ctx, n, work)
	if err != nil {
		return res, Summary{}, err
	}
	s := res.Summary(policy)
	if err := Print(w, s); err != nil {
		return res, s, fmt.Errorf("print summary: %w", err)
	}
	return res, s, nil
}
