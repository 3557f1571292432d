//go:build !unix

package imgload

import (
	"fmt"
	"os"
)

// mappedFile holds a buffered copy of a whole file on platforms without mmap.
type mappedFile struct {
	data []byte
}

// mapFile reads path into memory. MappedBuffers then behaves like the
// buffered fast reader.
func mapFile(path string) (*mappedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(data) == 0 {
		data = nil
	}
	return &mappedFile{data: data}, nil
}

// Bytes returns the file contents. Empty files yield nil.
func (m *mappedFile) Bytes() []byte {
	return m.data
}

func (m *mappedFile) unmap() error {
	m.data = nil
	return nil
}
