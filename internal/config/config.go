// Package config loads benchmark settings.
//
// Sources are layered with priority flags > environment > file > defaults.
// The file is YAML; environment variables use the TIFBENCH_ prefix and the
// lowercased remainder as key, e.g. TIFBENCH_DUMMY_FILES sets dummy_files.
// Flags are applied by the caller on top of the loaded Config.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/eunmann/tifbench/pkg/driver"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "TIFBENCH_"

// ErrInvalid indicates a configuration value out of range.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full benchmark configuration.
type Config struct {
	Runs       int `koanf:"runs" yaml:"runs"`
	Slices     int `koanf:"slices" yaml:"slices"`
	DummyFiles int `koanf:"dummy_files" yaml:"dummy_files"`

	Profile         bool `koanf:"profile" yaml:"profile"`
	Relaunch        bool `koanf:"relaunch" yaml:"relaunch"`
	IncludeBaseline bool `koanf:"include_baseline" yaml:"include_baseline"`
	SkipSlower      bool `koanf:"skip_slower" yaml:"skip_slower"`
	MappedBuffers   bool `koanf:"mapped_buffers" yaml:"mapped_buffers"`
	CountFailedRuns bool `koanf:"count_failed" yaml:"count_failed"`
	Warmup          bool `koanf:"warmup" yaml:"warmup"`

	ReportDir  string `koanf:"report_dir" yaml:"report_dir"`
	ReportTopN int    `koanf:"report_top" yaml:"report_top"`

	ScratchRoot string `koanf:"scratch_root" yaml:"scratch_root"`
	SamplePath  string `koanf:"sample" yaml:"sample"`

	ResultsJSON    string `koanf:"results_json" yaml:"results_json"`
	ResultsParquet string `koanf:"results_parquet" yaml:"results_parquet"`
	Publish        string `koanf:"publish" yaml:"publish"`

	Debug bool `koanf:"debug" yaml:"debug"`
	Human bool `koanf:"human" yaml:"human"`
}

// Default returns the stock configuration.
func Default() Config {
	d := driver.DefaultConfig()
	return Config{
		Runs:            d.Runs,
		Slices:          d.Slices,
		DummyFiles:      d.DummyFiles,
		Profile:         d.Profile,
		IncludeBaseline: d.IncludeBaseline,
		SkipSlower:      d.SkipSlower,
		MappedBuffers:   d.MappedBuffers,
		CountFailedRuns: d.CountFailedRuns,
		Warmup:          d.Warmup,
		ReportDir:       d.ReportDir,
		ReportTopN:      d.ReportTopN,
		ScratchRoot:     d.ScratchRoot,
		SamplePath:      d.SamplePath,
	}
}

// Load returns the defaults overlaid with the YAML file at path (skipped
// when path is empty) and then the TIFBENCH_ environment.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	transform := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", transform), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate rejects values the benchmark cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Runs < 1:
		return fmt.Errorf("%w: runs must be at least 1, got %d", ErrInvalid, c.Runs)
	case c.Slices < 1:
		return fmt.Errorf("%w: slices must be at least 1, got %d", ErrInvalid, c.Slices)
	case c.DummyFiles < 0:
		return fmt.Errorf("%w: dummy files must not be negative, got %d", ErrInvalid, c.DummyFiles)
	case c.ReportTopN < 1:
		return fmt.Errorf("%w: report top must be at least 1, got %d", ErrInvalid, c.ReportTopN)
	}
	return nil
}

// Driver returns the driver settings.
func (c Config) Driver() driver.Config {
	return driver.Config{
		Runs:            c.Runs,
		Slices:          c.Slices,
		DummyFiles:      c.DummyFiles,
		Profile:         c.Profile,
		IncludeBaseline: c.IncludeBaseline,
		SkipSlower:      c.SkipSlower,
		MappedBuffers:   c.MappedBuffers,
		CountFailedRuns: c.CountFailedRuns,
		Warmup:          c.Warmup,
		ReportDir:       c.ReportDir,
		ReportTopN:      c.ReportTopN,
		ScratchRoot:     c.ScratchRoot,
		SamplePath:      c.SamplePath,
	}
}

// WriteYAML writes c in the file format Load accepts.
func (c Config) WriteYAML(w io.Writer) error {
	enc := yamlv3.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
