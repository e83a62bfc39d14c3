//go:build !linux && !darwin

package store

// defaultGrowthChunk falls back to the 1 MiB constant on platforms where
// golang.org/x/sys does not expose a page-size hint for this engine.
func defaultGrowthChunk() int {
	return fallbackGrowthChunk
}
