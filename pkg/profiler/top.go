package profiler

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/pprof/profile"

	"github.com/eunmann/tifbench/pkg/humanfmt"
)

// Entry is the aggregated cost of one function.
type Entry struct {
	Function string
	Flat     int64
	Cum      int64
}

// Table is the per-function breakdown of a profile.
type Table struct {
	// Unit of Flat, Cum and Total, e.g. "nanoseconds".
	Unit    string
	Total   int64
	Samples int
	Entries []Entry
}

// valueIndex picks the sample value to rank by: the first time-valued
// type, or the last type when no unit is a time.
func valueIndex(p *profile.Profile) int {
	for i, st := range p.SampleType {
		if st.Unit == "nanoseconds" {
			return i
		}
	}
	return len(p.SampleType) - 1
}

func functionName(loc *profile.Location, line int) string {
	if line < len(loc.Line) && loc.Line[line].Function != nil {
		return loc.Line[line].Function.Name
	}
	return fmt.Sprintf("0x%x", loc.Address)
}

// Aggregate sums flat and cumulative values per function, ordered by flat
// value descending, then by name.
func Aggregate(p *profile.Profile) Table {
	t := Table{}
	if p == nil || len(p.SampleType) == 0 {
		return t
	}
	idx := valueIndex(p)
	t.Unit = p.SampleType[idx].Unit

	byName := make(map[string]*Entry)
	entry := func(name string) *Entry {
		e, ok := byName[name]
		if !ok {
			e = &Entry{Function: name}
			byName[name] = e
		}
		return e
	}

	for _, s := range p.Sample {
		if idx >= len(s.Value) {
			continue
		}
		v := s.Value[idx]
		t.Total += v
		t.Samples++
		if len(s.Location) == 0 {
			continue
		}

		// Line[0] of the leaf location is the innermost inlined frame.
		entry(functionName(s.Location[0], 0)).Flat += v

		seen := make(map[string]bool)
		for _, loc := range s.Location {
			n := len(loc.Line)
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				name := functionName(loc, i)
				if seen[name] {
					continue
				}
				seen[name] = true
				entry(name).Cum += v
			}
		}
	}

	t.Entries = make([]Entry, 0, len(byName))
	for _, e := range byName {
		t.Entries = append(t.Entries, *e)
	}
	sort.Slice(t.Entries, func(i, j int) bool {
		a, b := t.Entries[i], t.Entries[j]
		if a.Flat != b.Flat {
			return a.Flat > b.Flat
		}
		return a.Function < b.Function
	})
	return t
}

// Top returns the first n entries.
func (t Table) Top(n int) []Entry {
	if n < 0 || n > len(t.Entries) {
		n = len(t.Entries)
	}
	return t.Entries[:n]
}

func (t Table) format(v int64) string {
	if t.Unit == "nanoseconds" {
		return humanfmt.Duration(time.Duration(v))
	}
	return humanfmt.Count(v)
}

func (t Table) pct(v int64) float64 {
	if t.Total == 0 {
		return 0
	}
	return 100 * float64(v) / float64(t.Total)
}

// WriteTop writes the n hottest functions as an aligned text table.
func (t Table) WriteTop(w io.Writer, n int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "total: %s in %d samples\n", t.format(t.Total), t.Samples)
	fmt.Fprintf(&b, "%10s %7s %10s %7s  %s\n", "flat", "flat%", "cum", "cum%", "function")
	for _, e := range t.Top(n) {
		fmt.Fprintf(&b, "%10s %6.1f%% %10s %6.1f%%  %s\n",
			t.format(e.Flat), t.pct(e.Flat), t.format(e.Cum), t.pct(e.Cum), e.Function)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
