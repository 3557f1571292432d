package logging

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/eunmann/tifbench/pkg/humanfmt"
	"github.com/rs/zerolog"
)

// ProgressTracker tracks timed iterations of one candidate with ETA
// calculation. It is safe for concurrent use.
type ProgressTracker struct {
	total     int64
	completed atomic.Int64
	failed    atomic.Int64
	startTime time.Time
	log       zerolog.Logger
	phase     string

	// For moving average of iteration durations
	mu              sync.Mutex
	recentDurations []time.Duration
	maxRecent       int
}

// NewProgressTracker creates a new progress tracker.
func NewProgressTracker(phase string, total int64, log zerolog.Logger) *ProgressTracker {
	return &ProgressTracker{
		total:           total,
		startTime:       time.Now(),
		log:             log,
		phase:           phase,
		recentDurations: make([]time.Duration, 0, 10),
		maxRecent:       10,
	}
}

// RecordIteration records one finished iteration. Failed iterations still
// took wall-clock time, so they feed the ETA like successful ones.
func (pt *ProgressTracker) RecordIteration(d time.Duration, failed bool) {
	pt.completed.Add(1)
	if failed {
		pt.failed.Add(1)
	}

	pt.mu.Lock()
	if len(pt.recentDurations) >= pt.maxRecent {
		pt.recentDurations = pt.recentDurations[1:]
	}
	pt.recentDurations = append(pt.recentDurations, d)
	pt.mu.Unlock()
}

// Progress returns current progress stats.
func (pt *ProgressTracker) Progress() (completed, failed, total int64) {
	return pt.completed.Load(), pt.failed.Load(), pt.total
}

// ProgressPct returns the progress percentage (0-100).
func (pt *ProgressTracker) ProgressPct() float64 {
	if pt.total == 0 {
		return 100.0
	}
	return float64(pt.completed.Load()) * 100.0 / float64(pt.total)
}

// ETA returns the estimated time remaining based on the recent iteration rate.
func (pt *ProgressTracker) ETA() time.Duration {
	completed := pt.completed.Load()
	if completed == 0 {
		return 0
	}

	remaining := pt.total - completed
	if remaining <= 0 {
		return 0
	}

	pt.mu.Lock()
	var avgDuration time.Duration
	if len(pt.recentDurations) > 0 {
		var sum time.Duration
		for _, d := range pt.recentDurations {
			sum += d
		}
		avgDuration = sum / time.Duration(len(pt.recentDurations))
	} else {
		avgDuration = time.Since(pt.startTime) / time.Duration(completed)
	}
	pt.mu.Unlock()

	return avgDuration * time.Duration(remaining)
}

// Elapsed returns time since tracking started.
func (pt *ProgressTracker) Elapsed() time.Duration {
	return time.Since(pt.startTime)
}

// Remaining returns how many iterations are remaining.
func (pt *ProgressTracker) Remaining() int64 {
	return pt.total - pt.completed.Load()
}

// LogIteration emits a debug event for the most recent iteration.
func (pt *ProgressTracker) LogIteration(iteration int, d time.Duration, err error) {
	done, failed, total := pt.Progress()
	e := pt.log.Debug().
		Str("event", "iteration_completed").
		Str("phase", pt.phase).
		Int("iteration", iteration).
		Int64("duration_us", d.Microseconds()).
		Int64("done", done).
		Int64("failed", failed).
		Int64("total", total).
		Int64("remaining", pt.Remaining()).
		Float64("progress_pct", pt.ProgressPct()).
		Int64("elapsed_ms", pt.Elapsed().Milliseconds())
	if err != nil {
		e = e.AnErr("load_error", err)
	}
	if eta := pt.ETA(); eta > 0 {
		e = e.Int64("eta_ms", eta.Milliseconds())
		if IsPrettyMode() {
			e = e.Str("eta_h", humanfmt.Duration(eta))
		}
	}
	e.Msg("iteration completed")
}

// CompletionEvent helps build consistent completion log events.
type CompletionEvent struct {
	log     zerolog.Logger
	event   string
	phase   string
	elapsed time.Duration
	fields  map[string]interface{}
}

// NewCompletionEvent creates a new completion event builder.
func NewCompletionEvent(log zerolog.Logger, event, phase string, elapsed time.Duration) *CompletionEvent {
	return &CompletionEvent{
		log:     log,
		event:   event,
		phase:   phase,
		elapsed: elapsed,
		fields:  make(map[string]interface{}),
	}
}

// Str adds a string field.
func (ce *CompletionEvent) Str(key, val string) *CompletionEvent {
	ce.fields[key] = val
	return ce
}

// Int adds an int field.
func (ce *CompletionEvent) Int(key string, val int) *CompletionEvent {
	ce.fields[key] = val
	return ce
}

// Bytes adds byte count with optional human-readable companion.
func (ce *CompletionEvent) Bytes(key string, bytes int64) *CompletionEvent {
	ce.fields[key] = bytes
	if IsPrettyMode() {
		ce.fields[key+"_h"] = humanfmt.Bytes(bytes)
	}
	return ce
}

// Count adds count with optional human-readable companion.
func (ce *CompletionEvent) Count(key string, n int64) *CompletionEvent {
	ce.fields[key] = n
	if IsPrettyMode() {
		ce.fields[key+"_h"] = humanfmt.Count(n)
	}
	return ce
}

// Latency adds a duration field in microseconds with optional companion.
func (ce *CompletionEvent) Latency(key string, d time.Duration) *CompletionEvent {
	ce.fields[key+"_us"] = d.Microseconds()
	if IsPrettyMode() {
		ce.fields[key+"_h"] = humanfmt.Duration(d)
	}
	return ce
}

// Throughput adds read throughput fields for bytes loaded during elapsed.
func (ce *CompletionEvent) Throughput(bytes int64) *CompletionEvent {
	if ce.elapsed > 0 {
		bps := float64(bytes) / ce.elapsed.Seconds()
		ce.fields["throughput_bps"] = bps
		if IsPrettyMode() {
			ce.fields["throughput_h"] = humanfmt.Throughput(bytes, ce.elapsed)
		}
	}
	return ce
}

// Log emits the completion event at info level.
func (ce *CompletionEvent) Log(msg string) {
	ce.emit(ce.log.Info(), msg)
}

// LogDebug emits the completion event at debug level.
func (ce *CompletionEvent) LogDebug(msg string) {
	ce.emit(ce.log.Debug(), msg)
}

func (ce *CompletionEvent) emit(e *zerolog.Event, msg string) {
	e = e.Str("event", ce.event).
		Str("phase", ce.phase).
		Int64("duration_ms", ce.elapsed.Milliseconds())

	if IsPrettyMode() {
		e = e.Str("duration_h", humanfmt.Duration(ce.elapsed))
	}

	for k, v := range ce.fields {
		e = e.Interface(k, v)
	}

	e.Msg(msg)
}

// PhaseComplete starts a phase completion event (setup, teardown).
func PhaseComplete(log zerolog.Logger, phase string, elapsed time.Duration) *CompletionEvent {
	return NewCompletionEvent(log, "phase_completed", phase, elapsed)
}

// CandidateComplete starts a completion event for one candidate's timed block.
func CandidateComplete(log zerolog.Logger, candidate string, elapsed time.Duration) *CompletionEvent {
	return NewCompletionEvent(log, "candidate_completed", "benchmark", elapsed).Str("candidate", candidate)
}

// FileCreated starts a file creation completion event.
func FileCreated(log zerolog.Logger, phase string, elapsed time.Duration) *CompletionEvent {
	return NewCompletionEvent(log, "file_created", phase, elapsed)
}
