//go:build !linux && !darwin

package sysmem

// totalSystemMemory is not implemented here; Detect falls back to
// DefaultMemoryBytes.
func totalSystemMemory() (uint64, bool) {
	return 0, false
}
