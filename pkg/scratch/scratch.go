// Package scratch manages the throwaway directory a benchmark session loads
// from: a sample slice file surrounded by zero-byte decoy files.
package scratch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/eunmann/tifbench/pkg/fileutil"
	"github.com/eunmann/tifbench/pkg/sample"
)

// SampleName is the file name of the installed sample slice.
const SampleName = "slice.tif"

// Dir is an exclusively owned scratch directory.
type Dir struct {
	path   string
	decoys []string
	sample string
}

// Create makes a new uniquely named directory under root, or under the OS
// temp dir when root is empty.
func Create(root string) (*Dir, error) {
	path, err := os.MkdirTemp(root, "tifbench-")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &Dir{path: path}, nil
}

// Path returns the directory path.
func (d *Dir) Path() string {
	return d.path
}

// SamplePath returns the installed sample path, or "" before installation.
func (d *Dir) SamplePath() string {
	return d.sample
}

// PopulateDecoys creates n zero-byte files named "<i>.tif" for i in [0,n).
// Files created before a failure are still removed by Teardown.
func (d *Dir) PopulateDecoys(n int) error {
	for i := 0; i < n; i++ {
		p := filepath.Join(d.path, strconv.Itoa(i)+".tif")
		if err := fileutil.CreateEmpty(p); err != nil {
			return fmt.Errorf("create decoy %d: %w", i, err)
		}
		d.decoys = append(d.decoys, p)
	}
	return nil
}

// InstallSample copies src into the directory as SampleName.
func (d *Dir) InstallSample(src string) error {
	if !fileutil.IsNonEmpty(src) {
		return fmt.Errorf("install sample %s: %w", src, ErrEmptySample)
	}
	dst := filepath.Join(d.path, SampleName)
	if _, err := fileutil.CopyFile(src, dst); err != nil {
		return fmt.Errorf("install sample: %w", err)
	}
	d.sample = dst
	return nil
}

// InstallGenerated writes a generated fixture as SampleName.
func (d *Dir) InstallGenerated(opts sample.Options) error {
	dst := filepath.Join(d.path, SampleName)
	if err := sample.Write(dst, opts); err != nil {
		return fmt.Errorf("install generated sample: %w", err)
	}
	d.sample = dst
	return nil
}

// SliceFilenames returns m copies of the sample path.
func (d *Dir) SliceFilenames(m int) ([]string, error) {
	if m < 1 {
		return nil, fmt.Errorf("slice filenames %d: %w", m, ErrInvalidSlices)
	}
	if d.sample == "" {
		return nil, ErrNoSample
	}
	names := make([]string, m)
	for i := range names {
		names[i] = d.sample
	}
	return names, nil
}

// Entries returns the number of directory entries.
func (d *Dir) Entries() (int, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return 0, fmt.Errorf("read scratch dir: %w", err)
	}
	return len(entries), nil
}

// Teardown removes the decoys, the sample and the directory itself. It keeps
// going past failures and returns every error it met.
func (d *Dir) Teardown() []error {
	paths := make([]string, 0, len(d.decoys)+1)
	paths = append(paths, d.decoys...)
	if d.sample != "" {
		paths = append(paths, d.sample)
	}
	errs := fileutil.RemoveAll(paths...)

	if err := os.Remove(d.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		// Leftovers not created by us; fall back to a recursive delete.
		if rerr := os.RemoveAll(d.path); rerr != nil {
			errs = append(errs, fmt.Errorf("remove scratch dir: %w", rerr))
		}
	}
	d.decoys = nil
	d.sample = ""
	return errs
}
