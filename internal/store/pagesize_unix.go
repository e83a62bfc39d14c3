//go:build linux || darwin

package store

import "golang.org/x/sys/unix"

// defaultGrowthChunk picks a default initial/growth capacity that is a
// round multiple of the OS page size, falling back to the 1 MiB constant
// used on platforms where the hint is unavailable.
func defaultGrowthChunk() int {
	pageSize := unix.Getpagesize()
	if pageSize <= 0 {
		return fallbackGrowthChunk
	}
	chunk := pageSize * 256
	if chunk < fallbackGrowthChunk {
		return fallbackGrowthChunk
	}
	return chunk
}
