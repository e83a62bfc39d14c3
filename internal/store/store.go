// Package store implements the stacked record store (spec §4.1): an
// append-only, in-memory binary log with a 64-byte file header and
// 48-byte per-record headers, grounded on the teacher's
// internal/wal package but stripped of file I/O and fsync per the
// engine's non-goals — callers persist GetData() through their own I/O.
package store

import (
	"time"

	"github.com/leengari/fltq/internal/crc"
)

// Option configures a new Store, mirroring the functional-options shape
// used throughout this module (see internal/database.Option).
type Option func(*options)

type options struct {
	initialCapacity  int
	maxSize          uint64
	onStorageWarning func()
}

// WithInitialCapacity sets the initial backing buffer size in bytes.
func WithInitialCapacity(n int) Option {
	return func(o *options) { o.initialCapacity = n }
}

// WithMaxSize sets the storage ceiling in bytes; 0 means unlimited.
func WithMaxSize(n uint64) Option {
	return func(o *options) { o.maxSize = n }
}

// WithStorageWarning registers a one-shot callback fired the first time
// projected growth crosses 80% of maxSize.
func WithStorageWarning(fn func()) Option {
	return func(o *options) { o.onStorageWarning = fn }
}

func newOptions(opts []Option) options {
	o := options{
		initialCapacity: defaultGrowthChunk(),
		maxSize:         DefaultMaxSize,
	}
	for _, apply := range opts {
		apply(&o)
	}
	if o.initialCapacity < FileHeaderSize {
		o.initialCapacity = FileHeaderSize
	}
	return o
}

// Store is the append-only stacked record store. It owns a growable byte
// buffer, a write cursor, a monotonic sequence counter, and a record
// count; it performs no I/O of its own.
type Store struct {
	buf         []byte
	writeOffset uint64
	sequence    uint64
	recordCount uint64
	schemaName  string
	maxSize     uint64

	onStorageWarning func()
	warned           bool

	// headerIndex maps a record's starting offset to its decoded header,
	// letting callers avoid re-decoding on repeat reads.
	headerIndex map[uint64]RecordHeader
}

// StoredRecord is the decoded result of readRecord: a record's header,
// its starting offset, and its payload bytes (a copy, never a view into
// the store's internal buffer).
type StoredRecord struct {
	Header  RecordHeader
	Offset  uint64
	Payload []byte
}

// New allocates an empty store: only the file header is written and
// writeOffset is positioned at 64.
func New(schemaName string, opts ...Option) *Store {
	o := newOptions(opts)
	s := &Store{
		buf:              make([]byte, o.initialCapacity),
		writeOffset:      0,
		sequence:         0,
		recordCount:      0,
		schemaName:       schemaName,
		maxSize:          o.maxSize,
		onStorageWarning: o.onStorageWarning,
		headerIndex:      make(map[uint64]RecordHeader),
	}
	hdr := encodeFileHeader(fileHeader{
		Magic:           Magic,
		Version:         Version,
		DataStartOffset: FileHeaderSize,
		RecordCount:     0,
		SchemaName:      schemaName,
	})
	copy(s.buf[0:FileHeaderSize], hdr)
	s.writeOffset = FileHeaderSize
	return s
}

// SchemaName returns the schema name recorded in the file header.
func (s *Store) SchemaName() string { return s.schemaName }

// RecordCount returns the number of successfully appended records.
func (s *Store) RecordCount() uint64 { return s.recordCount }

// WriteOffset returns the current write cursor (also the live length of
// GetData()).
func (s *Store) WriteOffset() uint64 { return s.writeOffset }

// NextSequence returns the sequence number the next Append will use.
func (s *Store) NextSequence() uint64 { return s.sequence }

// HeaderAt returns the decoded record header for a record starting at
// offset, without re-checksumming its payload.
func (s *Store) HeaderAt(offset uint64) (RecordHeader, bool) {
	h, ok := s.headerIndex[offset]
	return h, ok
}

func (s *Store) ensureCapacity(extra uint64) {
	needed := s.writeOffset + extra
	if uint64(len(s.buf)) >= needed {
		return
	}
	newCap := uint64(len(s.buf))
	if newCap == 0 {
		newCap = uint64(defaultGrowthChunk())
	}
	for newCap < needed {
		newCap *= 2
	}
	if s.maxSize > 0 && newCap > s.maxSize {
		newCap = s.maxSize
	}
	grown := make([]byte, newCap)
	copy(grown, s.buf[:s.writeOffset])
	s.buf = grown
}

func (s *Store) maybeWarn(projected uint64) {
	if s.onStorageWarning == nil || s.warned || s.maxSize == 0 {
		return
	}
	if float64(projected) >= float64(s.maxSize)*storageWarningThreshold {
		s.warned = true
		s.onStorageWarning()
	}
}

// isNearCapacity reports whether projected total size has crossed 80% of
// maxSize. With maxSize == 0 (unlimited) this always returns false, per
// spec §9's pinned open-question decision.
func (s *Store) isNearCapacity(projected uint64) bool {
	if s.maxSize == 0 {
		return false
	}
	return float64(projected) >= float64(s.maxSize)*storageWarningThreshold
}

// Append writes a new record (tableName, payload) at the current write
// cursor and returns its starting offset.
func (s *Store) Append(tableName string, payload []byte) (uint64, error) {
	totalSize := uint64(RecordHeaderSize + len(payload))
	projected := s.writeOffset + totalSize
	if s.maxSize > 0 && projected > s.maxSize {
		return 0, &StorageLimitError{Attempted: projected, MaxSize: s.maxSize}
	}
	s.maybeWarn(projected)
	s.ensureCapacity(totalSize)

	offset := s.writeOffset
	seq := s.sequence
	checksum := checksum(payload)
	header := RecordHeader{
		Sequence:   seq,
		TableName:  tableName,
		Timestamp:  uint64(time.Now().UnixMilli()),
		DataLength: uint32(len(payload)),
		Checksum:   checksum,
	}
	headerBytes := encodeRecordHeader(header)
	copy(s.buf[offset:offset+RecordHeaderSize], headerBytes)
	copy(s.buf[offset+RecordHeaderSize:offset+RecordHeaderSize+uint64(len(payload))], payload)

	s.writeOffset = offset + totalSize
	s.sequence++
	s.recordCount++
	putRecordCount(s.buf, s.recordCount)
	s.headerIndex[offset] = header

	return offset, nil
}

// ReadRecord decodes the header at offset, verifies its checksum, and
// returns the record.
func (s *Store) ReadRecord(offset uint64) (StoredRecord, error) {
	if offset+RecordHeaderSize > s.writeOffset {
		return StoredRecord{}, &ChecksumMismatchError{Offset: offset}
	}
	header := decodeRecordHeader(s.buf[offset : offset+RecordHeaderSize])
	payloadStart := offset + RecordHeaderSize
	payloadEnd := payloadStart + uint64(header.DataLength)
	if payloadEnd > s.writeOffset {
		return StoredRecord{}, &ChecksumMismatchError{Offset: offset}
	}
	payload := make([]byte, header.DataLength)
	copy(payload, s.buf[payloadStart:payloadEnd])
	actual := checksum(payload)
	if actual != header.Checksum {
		return StoredRecord{}, &ChecksumMismatchError{Offset: offset, Expected: header.Checksum, Actual: actual}
	}
	return StoredRecord{Header: header, Offset: offset, Payload: payload}, nil
}

func checksum(payload []byte) uint32 {
	return crc.Checksum(payload)
}

// IterateRecords calls fn for each record from offset 64 to writeOffset,
// in order. It stops (without error) at the first read failure, treating
// that as end-of-log rather than corruption, to tolerate truncated
// tails, as specified in §4.1's fromData replay behavior. If fn returns
// false, iteration stops early without error.
func (s *Store) IterateRecords(fn func(StoredRecord) bool) {
	offset := uint64(FileHeaderSize)
	for offset < s.writeOffset {
		rec, err := s.ReadRecord(offset)
		if err != nil {
			return
		}
		if !fn(rec) {
			return
		}
		offset = rec.Offset + RecordHeaderSize + uint64(len(rec.Payload))
	}
}

// IterateTableRecords is IterateRecords filtered to a single table name.
func (s *Store) IterateTableRecords(tableName string, fn func(StoredRecord) bool) {
	s.IterateRecords(func(r StoredRecord) bool {
		if r.Header.TableName != tableName {
			return true
		}
		return fn(r)
	})
}

// GetData returns the live, persistable bytes [0, writeOffset). The
// returned slice is a copy; mutating it never affects the store.
func (s *Store) GetData() []byte {
	out := make([]byte, s.writeOffset)
	copy(out, s.buf[:s.writeOffset])
	return out
}

// FromData reconstructs a Store from previously exported bytes, replaying
// every record to rebuild the offset index, write cursor, record count,
// and next sequence number.
func FromData(data []byte, opts ...Option) (*Store, error) {
	if len(data) < FileHeaderSize {
		return nil, &BadMagicError{Got: 0}
	}
	hdr, err := decodeFileHeader(data[:FileHeaderSize])
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)
	s := &Store{
		buf:              make([]byte, len(data)),
		writeOffset:      FileHeaderSize,
		sequence:         0,
		recordCount:      0,
		schemaName:       hdr.SchemaName,
		maxSize:          o.maxSize,
		onStorageWarning: o.onStorageWarning,
		headerIndex:      make(map[uint64]RecordHeader),
	}
	copy(s.buf, data)

	offset := uint64(FileHeaderSize)
	dataLen := uint64(len(data))
	var maxSeq uint64
	var sawAny bool
	for offset+RecordHeaderSize <= dataLen {
		header := decodeRecordHeader(s.buf[offset : offset+RecordHeaderSize])
		payloadStart := offset + RecordHeaderSize
		payloadEnd := payloadStart + uint64(header.DataLength)
		if payloadEnd > dataLen {
			break
		}
		payload := s.buf[payloadStart:payloadEnd]
		if checksum(payload) != header.Checksum {
			break
		}
		s.headerIndex[offset] = header
		s.recordCount++
		if !sawAny || header.Sequence > maxSeq {
			maxSeq = header.Sequence
			sawAny = true
		}
		offset = payloadEnd
	}
	s.writeOffset = offset
	if sawAny {
		s.sequence = maxSeq + 1
	}
	putRecordCount(s.buf, s.recordCount)
	return s, nil
}
