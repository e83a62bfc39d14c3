// Package database implements the Database façade (spec §4.5): it ties
// the schema, the stacked record store, the per-column B-trees, and the
// payload accessor together behind insert/insertRaw/stream/query/
// getStats/exportData. Grounded on the teacher's internal/engine/engine.go
// lex-parse-plan-execute pipeline and its Observer lifecycle, generalized
// from the teacher's full SQL engine down to this package's narrow
// insert/query surface.
package database

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"

	"github.com/leengari/fltq/internal/accessor"
	"github.com/leengari/fltq/internal/btree"
	"github.com/leengari/fltq/internal/ddl"
	"github.com/leengari/fltq/internal/query"
	"github.com/leengari/fltq/internal/store"
	"github.com/leengari/fltq/internal/value"
)

const tracerName = "github.com/leengari/fltq/internal/database"

// TableStats is the per-table slice of Database.GetStats.
type TableStats struct {
	RecordCount uint64
	Indexes     []string
}

// Database owns the schema, store, indexes, and accessor for one logical
// database instance. It is single-threaded cooperative per spec §5: the
// façade takes no locks of its own.
type Database struct {
	schema   ddl.DatabaseSchema
	store    *store.Store
	indexes  map[string]*btree.Tree
	accessor accessor.Accessor

	tracer    trace.Tracer
	observers []Observer
	closers   []func() error

	poisoned  bool
	poisonErr error
}

func indexKey(tableName, columnName string) string {
	return tableName + "." + columnName
}

func columnKeyType(col ddl.ColumnDef) (value.Tag, bool) {
	switch col.Type {
	case ddl.ColInt, ddl.ColLong, ddl.ColBool:
		return value.Int, true
	case ddl.ColFloat:
		return value.Float, true
	case ddl.ColString:
		return value.String, true
	case ddl.ColBytes:
		return value.Bytes, true
	default:
		return value.Null, false
	}
}

func buildIndexes(schema ddl.DatabaseSchema, order int) map[string]*btree.Tree {
	indexes := make(map[string]*btree.Tree)
	for _, table := range schema.Tables {
		for _, colName := range table.IndexedColumns {
			col, ok := table.ColumnByName(colName)
			if !ok {
				continue
			}
			keyType, ok := columnKeyType(col)
			if !ok {
				continue
			}
			cfg := btree.Config{
				Name:       indexKey(table.Name, colName),
				TableName:  table.Name,
				ColumnName: colName,
				KeyType:    keyType,
				Order:      order,
			}
			indexes[cfg.Name] = btree.New(cfg)
		}
	}
	return indexes
}

// FromSchema parses schemaText (IDL or JSON Schema, per internal/ddl) and
// constructs a fresh, empty Database.
func FromSchema(schemaText string, acc accessor.Accessor, name string, opts ...Option) (*Database, error) {
	schema, err := ddl.Parse(schemaText, name)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)
	d := &Database{
		schema:    schema,
		indexes:   buildIndexes(schema, o.indexOrder),
		accessor:  acc,
		tracer:    resolveTracer(o.tracer),
		observers: o.observers,
		closers:   o.closers,
	}
	d.store = store.New(name, d.storeOptionsWithWarning(o)...)
	return d, nil
}

// FromData reconstructs a Database from previously exported log bytes and
// an already-parsed schema, replaying every record to rebuild every
// index (spec's "rebuilt by replaying the log" recovery path).
func FromData(data []byte, schema ddl.DatabaseSchema, acc accessor.Accessor, opts ...Option) (*Database, error) {
	o := newOptions(opts)
	d := &Database{
		schema:    schema,
		indexes:   buildIndexes(schema, o.indexOrder),
		accessor:  acc,
		tracer:    resolveTracer(o.tracer),
		observers: o.observers,
		closers:   o.closers,
	}
	st, err := store.FromData(data, d.storeOptionsWithWarning(o)...)
	if err != nil {
		return nil, err
	}
	d.store = st
	if err := d.rebuildIndexes(); err != nil {
		return nil, fmt.Errorf("database: rebuilding indexes: %w", err)
	}
	return d, nil
}

// storeOptionsWithWarning forwards the caller's store options and prepends
// a bridge that turns the store's one-shot 80%-capacity callback into an
// EventStorageWarning notification, unless the caller already supplied
// their own WithStorageWarning.
func (d *Database) storeOptionsWithWarning(o options) []store.Option {
	bridge := store.WithStorageWarning(func() {
		d.notify(Event{Type: EventStorageWarning})
	})
	return append([]store.Option{bridge}, o.storeOptions...)
}

// rebuildIndexes replays every stored record and reinserts its indexed
// fields, aggregating every per-record failure with multierr so a single
// bad record doesn't hide the rest, mirroring the teacher's use of
// go.uber.org/zap + multierr around bulk index rebuild.
func (d *Database) rebuildIndexes() error {
	var errs error
	d.store.IterateRecords(func(rec store.StoredRecord) bool {
		table, ok := d.schema.TableByName(rec.Header.TableName)
		if !ok {
			return true
		}
		for _, colName := range table.IndexedColumns {
			tree, ok := d.indexes[indexKey(table.Name, colName)]
			if !ok {
				continue
			}
			v, err := d.accessor.GetField(rec.Payload, []string{colName})
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("table %s column %s offset %d: %w", table.Name, colName, rec.Offset, err))
				continue
			}
			if err := tree.Insert(v, rec.Offset, uint32(len(rec.Payload)), rec.Header.Sequence); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("table %s column %s offset %d: %w", table.Name, colName, rec.Offset, err))
			}
		}
		return true
	})
	return errs
}

func resolveTracer(t trace.Tracer) trace.Tracer {
	if t != nil {
		return t
	}
	return otel.Tracer(tracerName)
}

func (d *Database) poisonCheck() error {
	if d.poisoned {
		return &PoisonedError{Cause: d.poisonErr}
	}
	return nil
}

func (d *Database) poison(cause error, table string) {
	d.poisoned = true
	d.poisonErr = cause
	d.notify(Event{Type: EventPoisoned, Table: table, Err: cause})
}

// Insert asks the accessor to build a payload from fields, appends it,
// and indexes every indexed column. rowid equals the record's sequence.
func (d *Database) Insert(tableName string, fields map[string]value.Value) (uint64, error) {
	if err := d.poisonCheck(); err != nil {
		return 0, err
	}
	_, span := d.tracer.Start(context.Background(), "db.insert", trace.WithAttributes(attribute.String("table", tableName)))
	defer span.End()

	table, ok := d.schema.TableByName(tableName)
	if !ok {
		return 0, &UnknownTableError{Table: tableName}
	}
	payload, err := d.accessor.BuildBuffer(tableName, fields)
	if err != nil {
		return 0, err
	}
	return d.insertCore(table, payload)
}

// InsertRaw appends an already-built payload, skipping BuildBuffer, and
// still performs indexed-field extraction.
func (d *Database) InsertRaw(tableName string, payload []byte) (uint64, error) {
	if err := d.poisonCheck(); err != nil {
		return 0, err
	}
	_, span := d.tracer.Start(context.Background(), "db.insertRaw", trace.WithAttributes(attribute.String("table", tableName)))
	defer span.End()

	table, ok := d.schema.TableByName(tableName)
	if !ok {
		return 0, &UnknownTableError{Table: tableName}
	}
	return d.insertCore(table, payload)
}

func (d *Database) insertCore(table ddl.TableDef, payload []byte) (uint64, error) {
	_, span := d.tracer.Start(context.Background(), "db.append", trace.WithAttributes(attribute.String("table", table.Name)))
	offset, err := d.store.Append(table.Name, payload)
	span.End()
	if err != nil {
		return 0, err
	}
	header, _ := d.store.HeaderAt(offset)
	d.notify(Event{Type: EventAppend, Table: table.Name})

	for _, colName := range table.IndexedColumns {
		tree, ok := d.indexes[indexKey(table.Name, colName)]
		if !ok {
			continue
		}
		v, err := d.accessor.GetField(payload, []string{colName})
		if err != nil {
			d.poison(err, table.Name)
			return 0, &PoisonedError{Cause: err}
		}
		if err := tree.Insert(v, offset, uint32(len(payload)), header.Sequence); err != nil {
			d.poison(err, table.Name)
			return 0, &PoisonedError{Cause: err}
		}
	}
	return header.Sequence, nil
}

// Stream batches InsertRaw over payloads. There is no transaction
// semantics: partial application is visible on failure, per spec §4.5.
// Every call is stamped with a uuid batch id for observer/log
// correlation.
func (d *Database) Stream(tableName string, payloads [][]byte) ([]uint64, error) {
	if err := d.poisonCheck(); err != nil {
		return nil, err
	}
	return d.streamCore(tableName, payloads)
}

// StreamFramed is the §6 "ingest stream framing" external interface: a
// host that wants to push many payloads in one call, without splitting
// them into a [][]byte first, sends them as repeated (u32 length LE,
// payload[length]) frames. StreamFramed unframes the blob and calls
// InsertRaw per element, exactly as Stream does for an already-split
// slice.
func (d *Database) StreamFramed(tableName string, framed []byte) ([]uint64, error) {
	if err := d.poisonCheck(); err != nil {
		return nil, err
	}
	payloads, err := unframe(framed)
	if err != nil {
		return nil, err
	}
	return d.streamCore(tableName, payloads)
}

func (d *Database) streamCore(tableName string, payloads [][]byte) ([]uint64, error) {
	batchID := uuid.NewString()
	d.notify(Event{Type: EventExecStart, Table: tableName, BatchID: batchID})
	rowids := make([]uint64, 0, len(payloads))
	for _, payload := range payloads {
		rowid, err := d.InsertRaw(tableName, payload)
		if err != nil {
			return rowids, err
		}
		rowids = append(rowids, rowid)
	}
	d.notify(Event{Type: EventExecEnd, Table: tableName, BatchID: batchID})
	return rowids, nil
}

// unframe walks a repeated (u32 length LE, payload[length]) blob per
// spec §6's ingest stream framing, returning each payload in order.
func unframe(framed []byte) ([][]byte, error) {
	var payloads [][]byte
	offset := 0
	for offset < len(framed) {
		if offset+4 > len(framed) {
			return nil, &FrameError{Offset: offset, Reason: "truncated length prefix"}
		}
		length := int(binary.LittleEndian.Uint32(framed[offset : offset+4]))
		offset += 4
		if offset+length > len(framed) {
			return nil, &FrameError{Offset: offset, Reason: "truncated payload"}
		}
		payload := make([]byte, length)
		copy(payload, framed[offset:offset+length])
		payloads = append(payloads, payload)
		offset += length
	}
	return payloads, nil
}

// Query parses and executes sql per the narrow dialect of spec §4.4.
func (d *Database) Query(sql string) (*query.Result, error) {
	if err := d.poisonCheck(); err != nil {
		return nil, err
	}
	_, span := d.tracer.Start(context.Background(), "db.query")
	defer span.End()

	d.notify(Event{Type: EventParseStart, Statement: sql})
	stmt, err := query.Parse(sql)
	d.notify(Event{Type: EventParseEnd, Statement: sql})
	if err != nil {
		return nil, err
	}

	d.notify(Event{Type: EventPlanStart, Table: stmt.Table})
	plan, err := query.PlanQuery(stmt, d.schema)
	d.notify(Event{Type: EventPlanEnd, Table: stmt.Table})
	if err != nil {
		return nil, err
	}

	d.notify(Event{Type: EventExecStart, Table: stmt.Table})
	result, err := query.Execute(plan, d.store, d.indexes, d.accessor)
	d.notify(Event{Type: EventExecEnd, Table: stmt.Table})
	return result, err
}

// GetStats returns per-table record counts and index names.
func (d *Database) GetStats() map[string]TableStats {
	out := make(map[string]TableStats, len(d.schema.Tables))
	for _, table := range d.schema.Tables {
		var count uint64
		d.store.IterateTableRecords(table.Name, func(store.StoredRecord) bool {
			count++
			return true
		})
		out[table.Name] = TableStats{RecordCount: count, Indexes: table.IndexedColumns}
	}
	return out
}

// ExportData returns the store's persistable bytes.
func (d *Database) ExportData() []byte {
	return d.store.GetData()
}

// ListTables returns every table name in the schema.
func (d *Database) ListTables() []string {
	names := make([]string, len(d.schema.Tables))
	for i, t := range d.schema.Tables {
		names[i] = t.Name
	}
	return names
}

// GetTableDef looks up one table's definition.
func (d *Database) GetTableDef(name string) (ddl.TableDef, bool) {
	return d.schema.TableByName(name)
}

// Close flushes any registered closers (e.g. logging sinks), aggregating
// every failure with multierr so one failing sink doesn't hide another.
func (d *Database) Close() error {
	var errs error
	for _, closer := range d.closers {
		if err := closer(); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
