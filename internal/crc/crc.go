// Package crc provides the single IEEE CRC32 table the stacked record
// store uses for payload integrity, mirroring the WAL's checksum call
// sites but factored out per the spec's "global CRC table" design note.
package crc

import "hash/crc32"

var table = crc32.MakeTable(crc32.IEEE)

// Checksum computes the IEEE CRC32 of payload.
func Checksum(payload []byte) uint32 {
	return crc32.Checksum(payload, table)
}
