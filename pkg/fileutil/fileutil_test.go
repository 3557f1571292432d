package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()

	// Test non-existent file
	if Exists(filepath.Join(tmpDir, "nonexistent")) {
		t.Error("Exists returned true for non-existent file")
	}

	// Test existing file
	path := filepath.Join(tmpDir, "exists.txt")
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
	if !Exists(path) {
		t.Error("Exists returned false for existing file")
	}
}

func TestIsNonEmpty(t *testing.T) {
	tmpDir := t.TempDir()

	if IsNonEmpty(filepath.Join(tmpDir, "nonexistent")) {
		t.Error("IsNonEmpty returned true for non-existent file")
	}

	emptyPath := filepath.Join(tmpDir, "empty.txt")
	if err := os.WriteFile(emptyPath, []byte{}, 0644); err != nil {
		t.Fatal(err)
	}
	if IsNonEmpty(emptyPath) {
		t.Error("IsNonEmpty returned true for empty file")
	}

	nonEmptyPath := filepath.Join(tmpDir, "nonempty.txt")
	if err := os.WriteFile(nonEmptyPath, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
	if !IsNonEmpty(nonEmptyPath) {
		t.Error("IsNonEmpty returned false for non-empty file")
	}
}

func TestCopyFile(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src.tif")
	dst := filepath.Join(tmpDir, "dst.tif")
	content := []byte("II*\x00fake tiff payload")
	if err := os.WriteFile(src, content, 0644); err != nil {
		t.Fatal(err)
	}

	// Pre-existing longer destination must be truncated.
	if err := os.WriteFile(dst, make([]byte, 100), 0644); err != nil {
		t.Fatal(err)
	}

	n, err := CopyFile(src, dst)
	if err != nil {
		t.Fatalf("CopyFile error: %v", err)
	}
	if n != int64(len(content)) {
		t.Errorf("CopyFile copied %d bytes, want %d", n, len(content))
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Errorf("destination = %q, want %q", got, content)
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	tmpDir := t.TempDir()
	_, err := CopyFile(filepath.Join(tmpDir, "missing"), filepath.Join(tmpDir, "dst"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("CopyFile error = %v, want ErrNotExist", err)
	}
}

func TestCreateEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "0.tif")
	if err := CreateEmpty(path); err != nil {
		t.Fatalf("CreateEmpty error: %v", err)
	}
	if IsNonEmpty(path) {
		t.Error("CreateEmpty produced a non-empty file")
	}
	if err := CreateEmpty(path); !errors.Is(err, os.ErrExist) {
		t.Errorf("second CreateEmpty error = %v, want ErrExist", err)
	}
}

func TestWriteTmpThenMove(t *testing.T) {
	tmpDir := t.TempDir()
	outDir := filepath.Join(tmpDir, "out")
	workDir := filepath.Join(tmpDir, "work")
	outPath := filepath.Join(outDir, "report.log.out")

	err := WriteTmpThenMove(workDir, outPath, func(tmpPath string) error {
		return os.WriteFile(tmpPath, []byte("top 3"), 0644)
	})
	if err != nil {
		t.Fatalf("WriteTmpThenMove error: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "top 3" {
		t.Errorf("output = %q, want %q", data, "top 3")
	}
	if Exists(filepath.Join(workDir, "report.log.out.tmp")) {
		t.Error("temp file not removed after move")
	}
}

func TestWriteTmpThenMoveError(t *testing.T) {
	tmpDir := t.TempDir()
	outPath := filepath.Join(tmpDir, "report.log.out")
	wantErr := errors.New("write failed")

	err := WriteTmpThenMove(tmpDir, outPath, func(tmpPath string) error {
		if err := os.WriteFile(tmpPath, []byte("partial"), 0644); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("WriteTmpThenMove error = %v, want %v", err, wantErr)
	}
	if Exists(outPath) {
		t.Error("output created despite write error")
	}
	if Exists(outPath + ".tmp") {
		t.Error("temp file not cleaned up after error")
	}
}

func TestRemoveAll(t *testing.T) {
	tmpDir := t.TempDir()
	a := filepath.Join(tmpDir, "a")
	if err := os.WriteFile(a, nil, 0644); err != nil {
		t.Fatal(err)
	}

	// Non-empty directory cannot be removed with os.Remove.
	full := filepath.Join(tmpDir, "full")
	if err := os.Mkdir(full, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(full, "x"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	errs := RemoveAll(a, filepath.Join(tmpDir, "already-gone"), full)
	if len(errs) != 1 {
		t.Fatalf("RemoveAll returned %d errors, want 1: %v", len(errs), errs)
	}
	if Exists(a) {
		t.Error("file a not removed")
	}
}
