// Package accessor defines the payload accessor capability boundary
// (spec §6) and ships one concrete, schema-oblivious reference
// implementation so the engine can be exercised end to end without an
// external, table-specific encoder. Real deployments are expected to
// supply their own Accessor for speed; the engine treats it as opaque.
package accessor

import "github.com/leengari/fltq/internal/value"

// Accessor is the capability the engine consumes, per Database, to
// extract fields from and build binary payloads. Implementations may
// round-trip through a generic bridge (as JSONAccessor does) or be
// table-specific for speed; the engine is oblivious to which.
type Accessor interface {
	// GetField navigates a dotted path into the payload's logical object.
	// A missing or nullable path returns a Null value, not an error.
	GetField(payload []byte, path []string) (value.Value, error)

	// BuildBuffer constructs a payload for tableName from a field map.
	BuildBuffer(tableName string, fields map[string]value.Value) ([]byte, error)
}

// JSONCapable is the optional generic-JSON-bridge extension spec §6
// allows; not every Accessor needs to implement it.
type JSONCapable interface {
	ToJSON(payload []byte, tableName string) (map[string]any, error)
	FromJSON(obj map[string]any, tableName string) ([]byte, error)
}
