package database

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// ExportCompressed is an additive, non-canonical companion to ExportData
// (spec §3/§6): it zstd-compresses the same bytes ExportData returns, for
// hosts that want to persist or transmit the log more cheaply. The
// canonical on-disk/wire form remains the uncompressed stacked record
// store; nothing in this engine reads a compressed blob back in without
// going through DecompressExport first.
func (d *Database) ExportCompressed() ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("database: zstd writer: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(d.ExportData(), nil), nil
}

// DecompressExport reverses ExportCompressed, returning raw stacked
// record store bytes suitable for FromData.
func DecompressExport(blob []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("database: zstd reader: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(blob, nil)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("database: zstd decode: %w", err)
	}
	return out, nil
}
