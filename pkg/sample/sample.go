// Package sample generates the TIFF slice used as the benchmark fixture.
//
// The fixture is synthesized rather than shipped so that every run loads
// byte-identical data without a bundled binary asset.
package sample

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/tiff"

	"github.com/eunmann/tifbench/pkg/fileutil"
)

// Default fixture dimensions.
const (
	DefaultWidth  = 512
	DefaultHeight = 512
)

// Options configures fixture generation.
type Options struct {
	Width  int
	Height int
	// Compress enables Deflate compression of the pixel data.
	Compress bool
}

// DefaultOptions returns the options used when no sample file is configured.
func DefaultOptions() Options {
	return Options{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Compress: true,
	}
}

// Generate returns a 16-bit grayscale gradient with a checker overlay so
// compression does not reduce it to a handful of runs.
func Generate(opts Options) *image.Gray16 {
	m := image.NewGray16(image.Rect(0, 0, opts.Width, opts.Height))
	for y := 0; y < opts.Height; y++ {
		for x := 0; x < opts.Width; x++ {
			v := uint64(x*opts.Height+y) * 65535 / uint64(max(opts.Width*opts.Height, 1))
			if (x/8+y/8)%2 == 0 {
				v ^= 0x00ff
			}
			m.SetGray16(x, y, color.Gray16{Y: uint16(v)})
		}
	}
	return m
}

// Encode writes the fixture to w as a TIFF.
func Encode(w io.Writer, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("invalid sample size %dx%d", opts.Width, opts.Height)
	}
	compression := tiff.Uncompressed
	if opts.Compress {
		compression = tiff.Deflate
	}
	if err := tiff.Encode(w, Generate(opts), &tiff.Options{Compression: compression}); err != nil {
		return fmt.Errorf("encode tiff: %w", err)
	}
	return nil
}

// Write generates the fixture and writes it to path.
func Write(path string, opts Options) error {
	return fileutil.WriteTmpThenMove(filepath.Dir(path), path, func(tmpPath string) error {
		f, err := os.Create(tmpPath)
		if err != nil {
			return fmt.Errorf("create sample: %w", err)
		}
		if err := Encode(f, opts); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	})
}
