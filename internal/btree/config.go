package btree

import "github.com/leengari/fltq/internal/value"

// DefaultOrder is the branching factor used when Config.Order is zero.
const DefaultOrder = 128

// Config names an index: which table and column it is built over, the
// key type it enforces, and the branching factor.
type Config struct {
	Name       string
	TableName  string
	ColumnName string
	KeyType    value.Tag
	Order      int
}

func (c Config) orderOrDefault() int {
	if c.Order <= 0 {
		return DefaultOrder
	}
	return c.Order
}

// IndexEntry is one (key -> record location) mapping held by a leaf or
// internal B-tree node. DataOffset points at the record's header, not its
// payload, per spec §3.
type IndexEntry struct {
	Key        value.Value
	DataOffset uint64
	DataLength uint32
	Sequence   uint64
}
