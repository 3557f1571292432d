package imgload

import (
	"context"
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/eunmann/tifbench/pkg/img"
)

// Strategy names, also used as candidate identifiers.
const (
	GroupedArray    = "grouped-array"
	GroupedPlanar   = "grouped-planar"
	UngroupedPlanar = "ungrouped-planar"
	Imaging         = "imaging"
)

// Loader loads a list of slice filenames. Each filename is opened in turn
// and the stack of the last one is returned; callers that time a Loader
// measure the cost of opening every slice.
type Loader interface {
	Name() string
	Load(ctx context.Context, filenames []string) (*img.Stack, error)
}

// OpenerLoader loads slices with an Opener.
type OpenerLoader struct {
	name   string
	opener *Opener
}

// NewOpenerLoader creates a named loader around an Opener.
func NewOpenerLoader(name string, opts Options) *OpenerLoader {
	return &OpenerLoader{name: name, opener: NewOpener(opts)}
}

// Name returns the strategy name.
func (l *OpenerLoader) Name() string {
	return l.name
}

// Opener returns the underlying opener.
func (l *OpenerLoader) Opener() *Opener {
	return l.opener
}

// Load opens every filename and returns the last stack.
func (l *OpenerLoader) Load(ctx context.Context, filenames []string) (*img.Stack, error) {
	if len(filenames) == 0 {
		return nil, ErrNoFilenames
	}
	var stack *img.Stack
	for _, name := range filenames {
		s, err := l.opener.Open(ctx, name)
		if err != nil {
			return nil, err
		}
		stack = s
	}
	return stack, nil
}

// ImagingLoader loads whole images through the imaging library, with no
// grouping and no control over buffering.
type ImagingLoader struct{}

// Name returns the strategy name.
func (ImagingLoader) Name() string {
	return Imaging
}

// Load opens every filename with imaging.Open and returns the last one as a
// depth-1 stack.
func (ImagingLoader) Load(ctx context.Context, filenames []string) (*img.Stack, error) {
	if len(filenames) == 0 {
		return nil, ErrNoFilenames
	}
	var stack *img.Stack
	for _, name := range filenames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := imaging.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		stack = img.FromImage(m, img.BackingArray)
	}
	return stack, nil
}

// Strategies returns the built-in loaders keyed by name. mappedBuffers
// applies to the strategies that use the fast reader path.
func Strategies(mappedBuffers bool) map[string]Loader {
	return map[string]Loader{
		GroupedArray: NewOpenerLoader(GroupedArray, Options{
			GroupFiles: true,
			Backing:    img.BackingArray,
		}),
		GroupedPlanar: NewOpenerLoader(GroupedPlanar, Options{
			GroupFiles: true,
			Backing:    img.BackingPlanar,
		}),
		UngroupedPlanar: NewOpenerLoader(UngroupedPlanar, Options{
			GroupFiles:    false,
			FastReader:    true,
			MappedBuffers: mappedBuffers,
			Backing:       img.BackingPlanar,
		}),
		Imaging: ImagingLoader{},
	}
}
