// Package img provides the in-memory float32 image stacks produced by the loaders.
//
// A Stack is a 3-D volume of width x height x depth voxels. Two backings are
// supported: a single contiguous array, and one buffer per plane. The planar
// backing lets a loader append decoded planes without copying them into a
// larger buffer.
package img

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Backing selects how voxel data is laid out in memory.
type Backing int

const (
	// BackingArray stores all planes in one contiguous slice.
	BackingArray Backing = iota
	// BackingPlanar stores one slice per plane.
	BackingPlanar
)

// String returns the backing name.
func (b Backing) String() string {
	switch b {
	case BackingArray:
		return "array"
	case BackingPlanar:
		return "planar"
	default:
		return fmt.Sprintf("backing(%d)", int(b))
	}
}

// ErrDimensionMismatch indicates a plane whose size differs from the stack.
var ErrDimensionMismatch = errors.New("plane dimensions do not match stack")

// Stack is a float32 image volume.
type Stack struct {
	width   int
	height  int
	depth   int
	backing Backing

	// array holds all voxels when backing == BackingArray.
	array []float32
	// planes holds one slice per z when backing == BackingPlanar.
	planes [][]float32
}

// New allocates a zeroed stack with the given backing.
func New(width, height, depth int, backing Backing) *Stack {
	s := &Stack{width: width, height: height, depth: depth, backing: backing}
	planeSize := width * height
	switch backing {
	case BackingPlanar:
		s.planes = make([][]float32, depth)
		for z := range s.planes {
			s.planes[z] = make([]float32, planeSize)
		}
	default:
		s.backing = BackingArray
		s.array = make([]float32, planeSize*depth)
	}
	return s
}

// NewArray allocates a contiguous stack.
func NewArray(width, height, depth int) *Stack {
	return New(width, height, depth, BackingArray)
}

// NewPlanar allocates a stack with one buffer per plane.
func NewPlanar(width, height, depth int) *Stack {
	return New(width, height, depth, BackingPlanar)
}

// Dims returns width, height and depth.
func (s *Stack) Dims() (width, height, depth int) {
	return s.width, s.height, s.depth
}

// Backing reports the memory layout of the stack.
func (s *Stack) Backing() Backing {
	return s.backing
}

// Voxels returns the total number of voxels.
func (s *Stack) Voxels() int {
	return s.width * s.height * s.depth
}

// Plane returns the voxels of plane z in row-major order. The returned slice
// aliases the stack.
func (s *Stack) Plane(z int) []float32 {
	planeSize := s.width * s.height
	if s.backing == BackingPlanar {
		return s.planes[z]
	}
	return s.array[z*planeSize : (z+1)*planeSize]
}

// At returns the voxel at (x, y, z).
func (s *Stack) At(x, y, z int) float32 {
	return s.Plane(z)[y*s.width+x]
}

// Set stores v at (x, y, z).
func (s *Stack) Set(x, y, z int, v float32) {
	s.Plane(z)[y*s.width+x] = v
}

// SetPlane copies an image into plane z, converting pixels to float32.
func (s *Stack) SetPlane(z int, src image.Image) error {
	b := src.Bounds()
	if b.Dx() != s.width || b.Dy() != s.height {
		return fmt.Errorf("plane %d is %dx%d, stack is %dx%d: %w",
			z, b.Dx(), b.Dy(), s.width, s.height, ErrDimensionMismatch)
	}
	s.writePlane(z, src)
	return nil
}

// FromImage converts a single 2-D image into a depth-1 stack.
func FromImage(src image.Image, backing Backing) *Stack {
	b := src.Bounds()
	s := New(b.Dx(), b.Dy(), 1, backing)
	s.writePlane(0, src)
	return s
}

// writePlane converts src into plane z. Common TIFF pixel types take a fast
// path that reads the pixel buffer directly; anything else goes through the
// color model one voxel at a time.
func (s *Stack) writePlane(z int, src image.Image) {
	b := src.Bounds()
	dst := s.Plane(z)
	width := s.width
	switch m := src.(type) {
	case *image.Gray16:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := dst[(y-b.Min.Y)*width:]
			off := m.PixOffset(b.Min.X, y)
			for x := 0; x < b.Dx(); x++ {
				row[x] = float32(uint16(m.Pix[off])<<8 | uint16(m.Pix[off+1]))
				off += 2
			}
		}
	case *image.Gray:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := dst[(y-b.Min.Y)*width:]
			off := m.PixOffset(b.Min.X, y)
			for x := 0; x < b.Dx(); x++ {
				row[x] = float32(m.Pix[off+x])
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				g := color.Gray16Model.Convert(src.At(x, y)).(color.Gray16)
				s.Set(x-b.Min.X, y-b.Min.Y, z, float32(g.Y))
			}
		}
	}
}
