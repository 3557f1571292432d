// Package imgload implements the competing TIFF loading strategies measured
// by the benchmark.
//
// The strategies differ along three axes, all configured through Options:
//
//   - file grouping: scan the slice's directory and merge every file of the
//     same numbered series into one stack,
//   - reader lookup: probe the file header in a separate open before
//     decoding (slow), or check it on the bytes already read (fast),
//   - file access: read the whole file into a buffer, or decode straight from
//     a memory mapping when MappedBuffers is set.
package imgload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"golang.org/x/image/tiff"

	"github.com/eunmann/tifbench/pkg/img"
)

// Options configures an Opener.
type Options struct {
	// GroupFiles merges same-directory files of a numbered series into one stack.
	GroupFiles bool
	// FastReader skips the separate header probe before decoding.
	FastReader bool
	// MappedBuffers decodes from a memory mapping instead of a buffered copy.
	// It only takes effect together with FastReader.
	MappedBuffers bool
	// Backing selects the voxel layout of returned stacks.
	Backing img.Backing
}

// Opener opens TIFF files into float32 stacks.
type Opener struct {
	opts Options
}

// NewOpener creates an Opener with the given options.
func NewOpener(opts Options) *Opener {
	return &Opener{opts: opts}
}

// Options returns the opener configuration.
func (o *Opener) Options() Options {
	return o.opts
}

// Open loads path, together with its file group when grouping is enabled.
func (o *Opener) Open(ctx context.Context, path string) (*img.Stack, error) {
	members := []string{path}
	if o.opts.GroupFiles {
		group, err := groupFiles(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		members = group
	}

	var stack *img.Stack
	for z, member := range members {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		plane, err := o.decode(member)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", member, err)
		}

		if stack == nil {
			b := plane.Bounds()
			stack = img.New(b.Dx(), b.Dy(), len(members), o.opts.Backing)
		}
		if err := stack.SetPlane(z, plane); err != nil {
			return nil, fmt.Errorf("open %s: %w", member, err)
		}
	}
	return stack, nil
}

// decode reads one file and decodes its first image.
func (o *Opener) decode(path string) (image.Image, error) {
	if !o.opts.FastReader {
		if err := probeHeader(path); err != nil {
			return nil, err
		}
	}

	if o.opts.FastReader && o.opts.MappedBuffers {
		return decodeMapped(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if err := checkHeader(data); err != nil {
		return nil, err
	}
	return decodeTIFF(bytes.NewReader(data))
}

func decodeMapped(path string) (image.Image, error) {
	m, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	defer m.unmap()

	if err := checkHeader(m.Bytes()); err != nil {
		return nil, err
	}
	// The decoder copies pixel data into its own buffers, so the mapping can
	// be released once Decode returns.
	return decodeTIFF(bytes.NewReader(m.Bytes()))
}

func decodeTIFF(r io.Reader) (image.Image, error) {
	m, err := tiff.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode tiff: %w", err)
	}
	return m, nil
}

// probeHeader opens path separately and verifies the TIFF signature.
func probeHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("probe header: %w", err)
	}
	defer f.Close()

	var hdr [4]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrNotTIFF
		}
		return fmt.Errorf("probe header: %w", err)
	}
	return checkHeader(hdr[:])
}

// checkHeader verifies the little- or big-endian TIFF signature.
func checkHeader(b []byte) error {
	if len(b) < 4 {
		return ErrNotTIFF
	}
	switch {
	case b[0] == 'I' && b[1] == 'I' && b[2] == 42 && b[3] == 0:
		return nil
	case b[0] == 'M' && b[1] == 'M' && b[2] == 0 && b[3] == 42:
		return nil
	default:
		return ErrNotTIFF
	}
}
