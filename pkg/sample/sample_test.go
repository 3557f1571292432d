package sample

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/tiff"
)

func TestEncodeRoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		opts := Options{Width: 32, Height: 16, Compress: compress}

		var buf bytes.Buffer
		if err := Encode(&buf, opts); err != nil {
			t.Fatalf("Encode(compress=%v) error: %v", compress, err)
		}

		decoded, err := tiff.Decode(&buf)
		if err != nil {
			t.Fatalf("Decode(compress=%v) error: %v", compress, err)
		}
		g, ok := decoded.(*image.Gray16)
		if !ok {
			t.Fatalf("decoded type = %T, want *image.Gray16", decoded)
		}
		if g.Bounds() != image.Rect(0, 0, 32, 16) {
			t.Errorf("bounds = %v, want 32x16", g.Bounds())
		}

		want := Generate(opts)
		if !bytes.Equal(g.Pix, want.Pix) {
			t.Errorf("decoded pixels differ from generated fixture (compress=%v)", compress)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(DefaultOptions())
	b := Generate(DefaultOptions())
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("Generate is not deterministic")
	}
}

func TestEncodeInvalidSize(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, Options{Width: 0, Height: 10}); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slice.tif")
	if err := Write(path, Options{Width: 8, Height: 8}); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat written sample: %v", err)
	}
	if info.Size() == 0 {
		t.Error("written sample is empty")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind: %v", err)
	}
}
