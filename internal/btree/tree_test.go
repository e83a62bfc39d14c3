package btree

import (
	"testing"

	"github.com/leengari/fltq/internal/value"
)

func TestRangeOnOrder4IntegerTree(t *testing.T) {
	tr := New(Config{Name: "idx", KeyType: value.Int, Order: 4})
	for i := 0; i < 20; i++ {
		if err := tr.Insert(value.OfInt(int64(i)), uint64(i), 1, uint64(i)); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}
	min, max := value.OfInt(5), value.OfInt(10)
	got, err := tr.Range(&min, &max)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(got))
	}
	for i, e := range got {
		want := int64(5 + i)
		if e.Key.Int != want {
			t.Fatalf("entry %d: expected key %d, got %d", i, want, e.Key.Int)
		}
	}
}

func TestSearchStringPointQuery(t *testing.T) {
	tr := New(Config{Name: "idx", KeyType: value.String, Order: 4})
	entries := []struct {
		name   string
		offset uint64
	}{
		{"alice", 100},
		{"bob", 200},
		{"charlie", 300},
	}
	for i, e := range entries {
		if err := tr.Insert(value.OfString(e.name), e.offset, 1, uint64(i)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	got, err := tr.Search(value.OfString("bob"))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].DataOffset != 200 {
		t.Fatalf("expected exactly one entry with dataOffset 200, got %+v", got)
	}
}

func TestSearchCountsMatchInsertCount(t *testing.T) {
	tr := New(Config{Name: "idx", KeyType: value.Int, Order: 4})
	key := value.OfInt(42)
	for i := 0; i < 7; i++ {
		if err := tr.Insert(key, uint64(i), 1, uint64(i)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	// then insert the keys 0..49 to force splits and ensure duplicates
	// survive across node boundaries; 42 is among them, making 8 in all.
	for i := 0; i < 50; i++ {
		if err := tr.Insert(value.OfInt(int64(i)), uint64(1000+i), 1, uint64(1000+i)); err != nil {
			t.Fatalf("insert filler: %v", err)
		}
	}
	got, err := tr.Search(key)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 8 {
		t.Fatalf("expected 8 entries for duplicate key, got %d", len(got))
	}
}

func TestAllIsNonDecreasing(t *testing.T) {
	tr := New(Config{Name: "idx", KeyType: value.Int, Order: 5})
	order := []int64{50, 10, 40, 20, 30, 5, 45, 25, 35, 15}
	for i, k := range order {
		if err := tr.Insert(value.OfInt(k), uint64(i), 1, uint64(i)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	all := tr.All()
	for i := 1; i < len(all); i++ {
		if value.Compare(all[i-1].Key, all[i].Key) > 0 {
			t.Fatalf("all() not sorted at index %d: %v then %v", i, all[i-1].Key, all[i].Key)
		}
	}
	if len(all) != len(order) {
		t.Fatalf("expected %d entries, got %d", len(order), len(all))
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	tr := New(Config{Name: "idx", KeyType: value.Int, Order: 4})
	for i := 0; i < 30; i++ {
		if err := tr.Insert(value.OfInt(int64(i)), uint64(i), 1, uint64(i)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	blob, err := tr.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	restored, err := Deserialize(blob)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	want := tr.All()
	got := restored.All()
	if len(want) != len(got) {
		t.Fatalf("length mismatch: want %d got %d", len(want), len(got))
	}
	for i := range want {
		if !value.Equal(want[i].Key, got[i].Key) || want[i].DataOffset != got[i].DataOffset {
			t.Fatalf("entry %d mismatch: want %+v got %+v", i, want[i], got[i])
		}
	}
}

func TestTypeMismatchOnWrongKeyTag(t *testing.T) {
	tr := New(Config{Name: "idx", KeyType: value.Int, Order: 4})
	err := tr.Insert(value.OfString("nope"), 0, 1, 0)
	if err == nil {
		t.Fatal("expected TypeMismatchError")
	}
	var mismatch *TypeMismatchError
	if _, ok := err.(*TypeMismatchError); !ok {
		_ = mismatch
		t.Fatalf("expected *TypeMismatchError, got %T: %v", err, err)
	}
}

func TestStatsHeightForLeafRoot(t *testing.T) {
	tr := New(Config{Name: "idx", KeyType: value.Int, Order: 128})
	tr.Insert(value.OfInt(1), 0, 1, 0)
	count, height, nodes := tr.Stats()
	if count != 1 || height != 1 || nodes != 1 {
		t.Fatalf("expected (1,1,1), got (%d,%d,%d)", count, height, nodes)
	}
}
