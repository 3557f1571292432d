// Package results exports benchmark sessions as JSON or Parquet rows.
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/eunmann/tifbench/pkg/driver"
	"github.com/eunmann/tifbench/pkg/fileutil"
)

// Record is one candidate's measurement, flattened for export.
type Record struct {
	Candidate  string `json:"candidate" parquet:"candidate"`
	Label      string `json:"label" parquet:"label"`
	Slices     int64  `json:"slices" parquet:"slices"`
	DummyFiles int64  `json:"dummy_files" parquet:"dummy_files"`
	Runs       int64  `json:"runs" parquet:"runs"`
	Samples    int64  `json:"samples" parquet:"samples"`
	Failed     int64  `json:"failed" parquet:"failed"`

	MedianNs int64 `json:"median_ns" parquet:"median_ns"`
	MeanNs   int64 `json:"mean_ns" parquet:"mean_ns"`
	StdDevNs int64 `json:"stddev_ns" parquet:"stddev_ns"`
	MinNs    int64 `json:"min_ns" parquet:"min_ns"`
	MaxNs    int64 `json:"max_ns" parquet:"max_ns"`

	AllocBytes int64     `json:"alloc_bytes" parquet:"alloc_bytes"`
	StartedAt  time.Time `json:"started_at" parquet:"started_at"`
}

// FromSession converts every candidate result of s.
func FromSession(cfg driver.Config, s driver.Session) []Record {
	out := make([]Record, 0, len(s.Results))
	for _, r := range s.Results {
		out = append(out, Record{
			Candidate:  r.Name,
			Label:      r.Label,
			Slices:     int64(cfg.Slices),
			DummyFiles: int64(cfg.DummyFiles),
			Runs:       int64(len(r.Result.Outcomes)),
			Samples:    int64(r.Summary.N),
			Failed:     int64(r.Summary.Failed),
			MedianNs:   r.Summary.Median.Nanoseconds(),
			MeanNs:     r.Summary.Mean.Nanoseconds(),
			StdDevNs:   r.Summary.StdDev.Nanoseconds(),
			MinNs:      r.Summary.Min.Nanoseconds(),
			MaxNs:      r.Summary.Max.Nanoseconds(),
			AllocBytes: int64(r.Mem.AllocBytes),
			StartedAt:  r.StartedAt.UTC(),
		})
	}
	return out
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	data = append(data, '\n')

	return fileutil.WriteTmpThenMove(filepath.Dir(path), path, func(tmp string) error {
		if err := os.WriteFile(tmp, data, 0644); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		return nil
	})
}

// ReadJSON reads records written by WriteJSON.
func ReadJSON(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return records, nil
}

// WriteParquet writes records as a single-row-group Parquet file.
func WriteParquet(path string, records []Record) error {
	return fileutil.WriteTmpThenMove(filepath.Dir(path), path, func(tmp string) error {
		f, err := os.Create(tmp)
		if err != nil {
			return fmt.Errorf("create parquet file: %w", err)
		}

		w := parquet.NewGenericWriter[Record](f)
		if _, err := w.Write(records); err != nil {
			f.Close()
			return fmt.Errorf("write parquet rows: %w", err)
		}
		if err := w.Close(); err != nil {
			f.Close()
			return fmt.Errorf("close parquet writer: %w", err)
		}
		return f.Close()
	})
}

// ReadParquet reads records written by WriteParquet.
func ReadParquet(path string) ([]Record, error) {
	records, err := parquet.ReadFile[Record](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return records, nil
}
