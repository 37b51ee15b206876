//go:build linux || darwin

package arena

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// reserveRegion acquires an anonymous private mapping of size bytes. The
// pages are zero-initialized by the OS and are not backed by any file.
func reserveRegion(size int) ([]byte, error) {
	mem, err := unix.Mmap(
		-1,
		0,
		size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON,
	)
	if err != nil {
		return nil, fmt.Errorf("mmap failed: %w", err)
	}
	return mem, nil
}

// releaseRegion unmaps a region returned by reserveRegion.
func releaseRegion(mem []byte) error {
	return unix.Munmap(mem)
}
