package results

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eunmann/tifbench/pkg/benchstat"
	"github.com/eunmann/tifbench/pkg/driver"
	"github.com/eunmann/tifbench/pkg/memdiag"
)

func testSession() (driver.Config, driver.Session) {
	cfg := driver.DefaultConfig()
	cfg.Slices = 2
	cfg.DummyFiles = 10

	started := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	session := driver.Session{
		ScratchDir: "/tmp/tifbench-1",
		Results: []driver.CandidateResult{
			{
				Name:      "ungrouped-planar",
				Label:     "opener (planar, no file grouping)",
				StartedAt: started,
				Result: benchstat.Result{Outcomes: []benchstat.Outcome{
					{Iteration: 0, Duration: 10 * time.Millisecond},
					{Iteration: 1, Duration: 12 * time.Millisecond, Err: errors.New("boom")},
				}},
				Summary: benchstat.Summary{
					N: 2, Failed: 1,
					Median: 11 * time.Millisecond,
					Mean:   11 * time.Millisecond,
					StdDev: time.Millisecond,
					Min:    10 * time.Millisecond,
					Max:    12 * time.Millisecond,
				},
				Mem: memdiag.Delta{AllocBytes: 4096},
			},
			{
				Name:      "grouped-planar",
				Label:     "opener (planar)",
				StartedAt: started.Add(time.Second),
			},
		},
	}
	return cfg, session
}

func TestFromSession(t *testing.T) {
	cfg, session := testSession()
	records := FromSession(cfg, session)

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	r := records[0]
	want := Record{
		Candidate:  "ungrouped-planar",
		Label:      "opener (planar, no file grouping)",
		Slices:     2,
		DummyFiles: 10,
		Runs:       2,
		Samples:    2,
		Failed:     1,
		MedianNs:   11_000_000,
		MeanNs:     11_000_000,
		StdDevNs:   1_000_000,
		MinNs:      10_000_000,
		MaxNs:      12_000_000,
		AllocBytes: 4096,
		StartedAt:  session.Results[0].StartedAt,
	}
	checkRecords(t, []Record{r}, []Record{want})
	if records[1].Runs != 0 || records[1].Samples != 0 {
		t.Errorf("empty result record = %+v", records[1])
	}
}

func checkRecords(t *testing.T, got, want []Record) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if !g.StartedAt.Equal(w.StartedAt) {
			t.Errorf("record %d StartedAt = %v, want %v", i, g.StartedAt, w.StartedAt)
		}
		g.StartedAt, w.StartedAt = time.Time{}, time.Time{}
		if g != w {
			t.Errorf("record %d = %+v, want %+v", i, g, w)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	cfg, session := testSession()
	records := FromSession(cfg, session)
	path := filepath.Join(t.TempDir(), "out", "results.json")

	if err := WriteJSON(path, records); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}
	got, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}
	checkRecords(t, got, records)

	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Error("temporary file left behind")
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	if err := WriteJSON(path, nil); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]\n" {
		t.Errorf("empty export = %q, want []", data)
	}
}

func TestWriteParquet(t *testing.T) {
	cfg, session := testSession()
	records := FromSession(cfg, session)
	path := filepath.Join(t.TempDir(), "results.parquet")

	if err := WriteParquet(path, records); err != nil {
		t.Fatalf("WriteParquet error: %v", err)
	}
	got, err := ReadParquet(path)
	if err != nil {
		t.Fatalf("ReadParquet error: %v", err)
	}
	checkRecords(t, got, records)
}

func TestReadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")
	if _, err := ReadJSON(path); err == nil {
		t.Error("ReadJSON: expected error")
	}
	if _, err := ReadParquet(path); err == nil {
		t.Error("ReadParquet: expected error")
	}
}
