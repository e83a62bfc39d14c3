package query

import (
	"github.com/leengari/fltq/internal/ddl"
	"github.com/leengari/fltq/internal/value"
)

// IndexPlanKind selects how an IndexPlan narrows the candidate set.
type IndexPlanKind int

const (
	IndexEquality IndexPlanKind = iota
	IndexRange
)

// IndexPlan describes the chosen index access path. It is deliberately a
// loose over-approximation for Range (inclusive both ends regardless of
// the original operator's strictness) — the executor always re-applies
// every original predicate to each candidate row, so correctness never
// depends on the plan's bounds being exact, only on them being a
// superset of the true match set.
type IndexPlan struct {
	Column string
	Kind   IndexPlanKind
	Eq     value.Value
	Min    *value.Value
	Max    *value.Value
}

// Plan is the result of planning one SelectStmt against a schema.
type Plan struct {
	Stmt  *SelectStmt
	Table ddl.TableDef
	Index *IndexPlan // nil means full table scan
}

// PlanQuery resolves the statement's table and chooses an index plan or a
// full scan, per spec §4.4 steps 1-4.
func PlanQuery(stmt *SelectStmt, schema ddl.DatabaseSchema) (*Plan, error) {
	table, ok := schema.TableByName(stmt.Table)
	if !ok {
		return nil, &UnknownTableError{Table: stmt.Table}
	}

	if !stmt.CountStar {
		for _, col := range stmt.Columns {
			if _, ok := table.ColumnByName(col); !ok {
				return nil, &UnknownColumnError{Table: table.Name, Column: col}
			}
		}
	}
	for _, pred := range stmt.Where {
		if _, ok := table.ColumnByName(pred.Column); !ok {
			return nil, &UnknownColumnError{Table: table.Name, Column: pred.Column}
		}
	}

	indexed := map[string]bool{}
	for _, c := range table.IndexedColumns {
		indexed[c] = true
	}

	groups := map[string][]Predicate{}
	var order []string
	for _, pred := range stmt.Where {
		if pred.Op == OpNeq || !indexed[pred.Column] {
			continue
		}
		if _, seen := groups[pred.Column]; !seen {
			order = append(order, pred.Column)
		}
		groups[pred.Column] = append(groups[pred.Column], pred)
	}

	plan := &Plan{Stmt: stmt, Table: table}

	// Equality ranks above range: prefer the first indexable column whose
	// group contains an equality predicate.
	for _, col := range order {
		for _, pred := range groups[col] {
			if pred.Op == OpEq {
				plan.Index = &IndexPlan{Column: col, Kind: IndexEquality, Eq: pred.Literal}
				return plan, nil
			}
		}
	}

	// Otherwise use the first indexable column's predicates as a range,
	// coalescing >=a AND <=b on the same column into one bound pair.
	for _, col := range order {
		var min, max *value.Value
		for _, pred := range groups[col] {
			lit := pred.Literal
			switch pred.Op {
			case OpGe, OpGt:
				if min == nil || value.Compare(lit, *min) > 0 {
					min = &lit
				}
			case OpLe, OpLt:
				if max == nil || value.Compare(lit, *max) < 0 {
					max = &lit
				}
			}
		}
		if min != nil || max != nil {
			plan.Index = &IndexPlan{Column: col, Kind: IndexRange, Min: min, Max: max}
			return plan, nil
		}
	}

	return plan, nil
}
