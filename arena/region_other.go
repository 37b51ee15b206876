//go:build !linux && !darwin

package arena

// reserveRegion allocates the region on the Go heap on platforms without the
// anonymous mmap path. Zeros come for free from make.
func reserveRegion(size int) ([]byte, error) {
	return make([]byte, size), nil
}

// releaseRegion is a no-op for heap-backed regions; the GC reclaims them.
func releaseRegion(mem []byte) error {
	return nil
}
