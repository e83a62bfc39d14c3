package database

import (
	"encoding/binary"
	"fmt"
	"strings"
	"testing"

	"github.com/leengari/fltq/internal/accessor"
	"github.com/leengari/fltq/internal/query"
	"github.com/leengari/fltq/internal/value"
)

const usersSchema = `{
  "title": "users",
  "type": "object",
  "properties": {
    "id": {"type": "integer"},
    "name": {"type": "string"},
    "age": {"type": "integer"}
  },
  "required": ["id", "name", "age"]
}`

// usersIDLSchema mirrors usersSchema's columns but, unlike a JSON Schema
// document, can actually mark a column indexed: the JSON Schema front end
// has no attribute syntax for it, so only IDL schemas populate
// ddl.TableDef.IndexedColumns and exercise the B-tree path below.
const usersIDLSchema = `table users {
  id: long (indexed);
  name: string;
  age: int;
}`

func mustInsertUser(t *testing.T, d *Database, id int64, name string, age int64) {
	t.Helper()
	_, err := d.Insert("users", map[string]value.Value{
		"id":   value.OfInt(id),
		"name": value.OfString(name),
		"age":  value.OfInt(age),
	})
	if err != nil {
		t.Fatalf("insert %s: %v", name, err)
	}
}

// TestQueryOnUnindexedColumnFallsBackToScan uses usersSchema, a JSON
// Schema document, which carries no IndexedColumns at all: every WHERE
// predicate against it — whether on "id" or "age" — takes the full-scan
// path. It asserts the two columns still agree on results through that
// shared path. The index-backed path is covered separately by
// TestInsertAndQueryIndexedColumnUsesBtree below, which parses a real
// indexed schema.
func TestQueryOnUnindexedColumnFallsBackToScan(t *testing.T) {
	db, err := FromSchema(usersSchema, accessor.NewJSONAccessor(), "users")
	if err != nil {
		t.Fatalf("FromSchema: %v", err)
	}
	mustInsertUser(t, db, 1, "alice", 30)
	mustInsertUser(t, db, 2, "bob", 25)
	mustInsertUser(t, db, 3, "carol", 40)

	table, _ := db.GetTableDef("users")
	if len(table.IndexedColumns) != 0 {
		t.Fatalf("expected usersSchema to carry no indexed columns, got %v", table.IndexedColumns)
	}

	byID, err := db.Query(`SELECT name FROM users WHERE id = 2`)
	if err != nil {
		t.Fatalf("query by id: %v", err)
	}
	byAge, err := db.Query(`SELECT name FROM users WHERE age = 25`)
	if err != nil {
		t.Fatalf("query by age: %v", err)
	}
	if byID.RowCount != 1 || byAge.RowCount != 1 {
		t.Fatalf("expected 1 row each, got %d and %d", byID.RowCount, byAge.RowCount)
	}
	if byID.Rows[0][0] != "bob" || byAge.Rows[0][0] != "bob" {
		t.Fatalf("expected bob from both paths, got %v and %v", byID.Rows[0], byAge.Rows[0])
	}
}

// TestInsertAndQueryIndexedColumnUsesBtree parses a schema whose "id"
// column carries the IDL "indexed" attribute, confirms GetStats reports
// the resulting B-tree, confirms the planner actually chooses the index
// path (not a scan) for an equality predicate on it, and confirms the
// query still returns the right row end to end through the façade.
func TestInsertAndQueryIndexedColumnUsesBtree(t *testing.T) {
	db, err := FromSchema(usersIDLSchema, accessor.NewJSONAccessor(), "users")
	if err != nil {
		t.Fatalf("FromSchema: %v", err)
	}
	mustInsertUser(t, db, 1, "alice", 30)
	mustInsertUser(t, db, 2, "bob", 25)
	mustInsertUser(t, db, 3, "carol", 40)

	stats := db.GetStats()["users"]
	if len(stats.Indexes) != 1 || stats.Indexes[0] != "id" {
		t.Fatalf("expected GetStats to report index on id, got %v", stats.Indexes)
	}

	stmt, err := query.Parse(`SELECT name FROM users WHERE id = 2`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	plan, err := query.PlanQuery(stmt, db.schema)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if plan.Index == nil || plan.Index.Column != "id" || plan.Index.Kind != query.IndexEquality {
		t.Fatalf("expected an equality index plan on id, got %+v", plan.Index)
	}

	res, err := db.Query(`SELECT name FROM users WHERE id = 2`)
	if err != nil {
		t.Fatalf("indexed query: %v", err)
	}
	if res.RowCount != 1 || res.Rows[0][0] != "bob" {
		t.Fatalf("expected bob, got %v", res.Rows)
	}
}

func TestQueryCountStar(t *testing.T) {
	db, err := FromSchema(usersSchema, accessor.NewJSONAccessor(), "users")
	if err != nil {
		t.Fatalf("FromSchema: %v", err)
	}
	mustInsertUser(t, db, 1, "alice", 30)
	mustInsertUser(t, db, 2, "bob", 25)

	res, err := db.Query(`SELECT COUNT(*) FROM users`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if res.Rows[0][0].(int64) != 2 {
		t.Fatalf("expected count 2, got %v", res.Rows[0][0])
	}
}

func TestExportAndFromDataRebuildsIndexes(t *testing.T) {
	db, err := FromSchema(usersIDLSchema, accessor.NewJSONAccessor(), "users")
	if err != nil {
		t.Fatalf("FromSchema: %v", err)
	}
	mustInsertUser(t, db, 1, "alice", 30)
	mustInsertUser(t, db, 2, "bob", 25)

	data := db.ExportData()

	restored, err := FromData(data, db.schema, accessor.NewJSONAccessor())
	if err != nil {
		t.Fatalf("FromData: %v", err)
	}
	res, err := restored.Query(`SELECT name FROM users WHERE id = 1`)
	if err != nil {
		t.Fatalf("query after restore: %v", err)
	}
	if res.RowCount != 1 || res.Rows[0][0] != "alice" {
		t.Fatalf("expected alice, got %v", res.Rows)
	}
}

func TestInsertUnknownTableReturnsError(t *testing.T) {
	db, err := FromSchema(usersSchema, accessor.NewJSONAccessor(), "users")
	if err != nil {
		t.Fatalf("FromSchema: %v", err)
	}
	_, err = db.Insert("ghosts", map[string]value.Value{"id": value.OfInt(1)})
	if _, ok := err.(*UnknownTableError); !ok {
		t.Fatalf("expected UnknownTableError, got %v", err)
	}
}

func frameBlob(t *testing.T, payloads ...[]byte) []byte {
	t.Helper()
	var out []byte
	for _, p := range payloads {
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(p)))
		out = append(out, lenBuf[:]...)
		out = append(out, p...)
	}
	return out
}

func TestStreamFramedUnframesAndInsertsPerElement(t *testing.T) {
	db, err := FromSchema(usersSchema, accessor.NewJSONAccessor(), "users")
	if err != nil {
		t.Fatalf("FromSchema: %v", err)
	}
	p1 := []byte(`{"id":1,"name":"alice","age":30}`)
	p2 := []byte(`{"id":2,"name":"bob","age":25}`)
	framed := frameBlob(t, p1, p2)

	rowids, err := db.StreamFramed("users", framed)
	if err != nil {
		t.Fatalf("StreamFramed: %v", err)
	}
	if len(rowids) != 2 {
		t.Fatalf("expected 2 rowids, got %v", rowids)
	}

	res, err := db.Query(`SELECT name FROM users WHERE id = 2`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if res.RowCount != 1 || res.Rows[0][0] != "bob" {
		t.Fatalf("expected bob, got %v", res.Rows)
	}
}

func TestStreamFramedMatchesStreamOverSamePayloads(t *testing.T) {
	payloads := [][]byte{
		[]byte(`{"id":1,"name":"alice","age":30}`),
		[]byte(`{"id":2,"name":"bob","age":25}`),
		[]byte(`{"id":3,"name":"carol","age":40}`),
	}

	direct, err := FromSchema(usersSchema, accessor.NewJSONAccessor(), "users")
	if err != nil {
		t.Fatalf("FromSchema: %v", err)
	}
	wantRowids, err := direct.Stream("users", payloads)
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	framed, err := FromSchema(usersSchema, accessor.NewJSONAccessor(), "users")
	if err != nil {
		t.Fatalf("FromSchema: %v", err)
	}
	gotRowids, err := framed.StreamFramed("users", frameBlob(t, payloads...))
	if err != nil {
		t.Fatalf("StreamFramed: %v", err)
	}

	if len(wantRowids) != len(gotRowids) {
		t.Fatalf("rowid count mismatch: %v vs %v", wantRowids, gotRowids)
	}
	for i := range wantRowids {
		if wantRowids[i] != gotRowids[i] {
			t.Fatalf("rowid %d mismatch: %d vs %d", i, wantRowids[i], gotRowids[i])
		}
	}
}

func TestStreamFramedRejectsTruncatedLengthPrefix(t *testing.T) {
	db, err := FromSchema(usersSchema, accessor.NewJSONAccessor(), "users")
	if err != nil {
		t.Fatalf("FromSchema: %v", err)
	}
	_, err = db.StreamFramed("users", []byte{0x01, 0x00})
	frameErr, ok := err.(*FrameError)
	if !ok {
		t.Fatalf("expected *FrameError, got %v", err)
	}
	if frameErr.Offset != 0 {
		t.Fatalf("expected offset 0, got %d", frameErr.Offset)
	}
}

func TestStreamFramedRejectsTruncatedPayload(t *testing.T) {
	db, err := FromSchema(usersSchema, accessor.NewJSONAccessor(), "users")
	if err != nil {
		t.Fatalf("FromSchema: %v", err)
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], 10)
	framed := append(lenBuf[:], []byte("short")...)

	_, err = db.StreamFramed("users", framed)
	frameErr, ok := err.(*FrameError)
	if !ok {
		t.Fatalf("expected *FrameError, got %v", err)
	}
	if frameErr.Offset != 4 {
		t.Fatalf("expected offset 4, got %d", frameErr.Offset)
	}
}

// flakyAccessor wraps JSONAccessor but fails GetField once armed, letting
// tests force the append-succeeds-but-index-fails poison path.
type flakyAccessor struct {
	*accessor.JSONAccessor
	fail bool
}

func (a *flakyAccessor) GetField(payload []byte, path []string) (value.Value, error) {
	if a.fail {
		return value.Value{}, errSimulatedExtraction
	}
	return a.JSONAccessor.GetField(payload, path)
}

var errSimulatedExtraction = fmt.Errorf("simulated field extraction failure")

func TestPoisonedDatabaseRejectsFurtherOperations(t *testing.T) {
	acc := &flakyAccessor{JSONAccessor: accessor.NewJSONAccessor()}
	db, err := FromSchema(usersIDLSchema, acc, "users")
	if err != nil {
		t.Fatalf("FromSchema: %v", err)
	}
	mustInsertUser(t, db, 1, "alice", 30)

	acc.fail = true
	_, err = db.Insert("users", map[string]value.Value{
		"id":   value.OfInt(2),
		"name": value.OfString("bob"),
		"age":  value.OfInt(25),
	})
	if _, ok := err.(*PoisonedError); !ok {
		t.Fatalf("expected PoisonedError, got %v", err)
	}

	_, err = db.Query(`SELECT * FROM users`)
	if _, ok := err.(*PoisonedError); !ok {
		t.Fatalf("expected query to also be rejected with PoisonedError, got %v", err)
	}
	if !strings.Contains(err.Error(), "poisoned") {
		t.Fatalf("expected poisoned error message, got %q", err.Error())
	}
}
