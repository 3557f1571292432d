//go:build unix

package imgload

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mappedFile is a read-only memory mapping of a whole file.
type mappedFile struct {
	data []byte
}

// mapFile opens path and maps it into memory. The file descriptor is closed
// before returning; the mapping stays valid until unmap.
func mapFile(path string) (*mappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	size := info.Size()
	if size == 0 {
		return &mappedFile{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}
	return &mappedFile{data: data}, nil
}

// Bytes returns the mapped contents. Empty files map to nil.
func (m *mappedFile) Bytes() []byte {
	return m.data
}

func (m *mappedFile) unmap() error {
	if m.data == nil {
		return nil
	}
	if err := unix.Munmap(m.data); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	m.data = nil
	return nil
}
