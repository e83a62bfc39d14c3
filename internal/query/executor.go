package query

import (
	"strings"

	"github.com/leengari/fltq/internal/accessor"
	"github.com/leengari/fltq/internal/btree"
	"github.com/leengari/fltq/internal/store"
	"github.com/leengari/fltq/internal/value"
)

// Result is the coordinator's answer: a column list, rows of the
// accessor's native values, and the resulting row count.
type Result struct {
	Columns  []string
	Rows     [][]any
	RowCount int
}

// Execute runs a planned query against the store, the table's indexes,
// and the payload accessor, per spec §4.4 steps 5-6.
func Execute(plan *Plan, st *store.Store, indexes map[string]*btree.Tree, acc accessor.Accessor) (*Result, error) {
	offsets, err := candidateOffsets(plan, st, indexes)
	if err != nil {
		return nil, err
	}

	if plan.Stmt.CountStar {
		count := 0
		for _, offset := range offsets {
			rec, err := st.ReadRecord(offset)
			if err != nil {
				return nil, err
			}
			ok, err := matchesAll(rec.Payload, plan.Stmt.Where, acc)
			if err != nil {
				return nil, err
			}
			if ok {
				count++
			}
		}
		return &Result{Columns: []string{"count"}, Rows: [][]any{{int64(count)}}, RowCount: 1}, nil
	}

	projected := plan.Stmt.Columns
	if len(projected) == 0 {
		for _, c := range plan.Table.Columns {
			projected = append(projected, c.Name)
		}
	}

	var rows [][]any
	for _, offset := range offsets {
		rec, err := st.ReadRecord(offset)
		if err != nil {
			return nil, err
		}
		ok, err := matchesAll(rec.Payload, plan.Stmt.Where, acc)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		row := make([]any, len(projected))
		for i, col := range projected {
			v, err := acc.GetField(rec.Payload, splitPath(col))
			if err != nil {
				return nil, err
			}
			row[i] = v.Native()
		}
		rows = append(rows, row)
		if plan.Stmt.Limit != nil && len(rows) >= *plan.Stmt.Limit {
			break
		}
	}

	return &Result{Columns: projected, Rows: rows, RowCount: len(rows)}, nil
}

func candidateOffsets(plan *Plan, st *store.Store, indexes map[string]*btree.Tree) ([]uint64, error) {
	if plan.Index != nil {
		if tree, ok := indexes[plan.Table.Name+"."+plan.Index.Column]; ok {
			var entries []btree.IndexEntry
			var err error
			switch plan.Index.Kind {
			case IndexEquality:
				entries, err = tree.Search(plan.Index.Eq)
			case IndexRange:
				entries, err = tree.Range(plan.Index.Min, plan.Index.Max)
			}
			if err != nil {
				return nil, err
			}
			offsets := make([]uint64, len(entries))
			for i, e := range entries {
				offsets[i] = e.DataOffset
			}
			return offsets, nil
		}
	}

	var offsets []uint64
	st.IterateTableRecords(plan.Table.Name, func(rec store.StoredRecord) bool {
		offsets = append(offsets, rec.Offset)
		return true
	})
	return offsets, nil
}

func matchesAll(payload []byte, preds []Predicate, acc accessor.Accessor) (bool, error) {
	for _, pred := range preds {
		v, err := acc.GetField(payload, splitPath(pred.Column))
		if err != nil {
			return false, err
		}
		ok, err := evalPredicate(v, pred.Op, pred.Literal)
		if err != nil {
			return false, &TypeMismatchError{Column: pred.Column, Reason: err.Error()}
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evalPredicate(v value.Value, op Operator, lit value.Value) (bool, error) {
	cmp, err := value.CompareStrict(v, lit)
	if err != nil {
		return false, err
	}
	switch op {
	case OpEq:
		return cmp == 0, nil
	case OpNeq:
		return cmp != 0, nil
	case OpLt:
		return cmp < 0, nil
	case OpLe:
		return cmp <= 0, nil
	case OpGt:
		return cmp > 0, nil
	case OpGe:
		return cmp >= 0, nil
	default:
		return false, nil
	}
}

func splitPath(col string) []string {
	return strings.Split(col, ".")
}
