package query

import (
	"testing"

	"github.com/leengari/fltq/internal/ddl"
	"github.com/leengari/fltq/internal/value"
)

func TestParseSelectBasic(t *testing.T) {
	stmt, err := Parse(`SELECT name, age FROM users WHERE age >= 18 AND age <= 65 LIMIT 10`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if stmt.Table != "users" {
		t.Fatalf("expected table users, got %q", stmt.Table)
	}
	if len(stmt.Columns) != 2 || stmt.Columns[0] != "name" || stmt.Columns[1] != "age" {
		t.Fatalf("unexpected columns: %v", stmt.Columns)
	}
	if len(stmt.Where) != 2 {
		t.Fatalf("expected 2 predicates, got %d", len(stmt.Where))
	}
	if stmt.Limit == nil || *stmt.Limit != 10 {
		t.Fatalf("expected limit 10, got %v", stmt.Limit)
	}
}

func TestParseSelectCountStar(t *testing.T) {
	stmt, err := Parse(`SELECT COUNT(*) FROM users`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !stmt.CountStar {
		t.Fatal("expected CountStar true")
	}
}

func TestParseSelectHexAndStringLiterals(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM t WHERE name = 'bob' AND blob = x'deadbeef'`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if stmt.Where[0].Literal.Tag != value.String || stmt.Where[0].Literal.Str != "bob" {
		t.Fatalf("unexpected literal: %+v", stmt.Where[0].Literal)
	}
	if stmt.Where[1].Literal.Tag != value.Bytes {
		t.Fatalf("expected Bytes literal, got %+v", stmt.Where[1].Literal)
	}
}

func TestPlanQueryUnknownTable(t *testing.T) {
	schema := ddl.DatabaseSchema{Tables: []ddl.TableDef{{Name: "users"}}}
	stmt, _ := Parse(`SELECT * FROM ghosts`)
	_, err := PlanQuery(stmt, schema)
	if _, ok := err.(*UnknownTableError); !ok {
		t.Fatalf("expected UnknownTableError, got %v", err)
	}
}

func TestPlanQueryPrefersEqualityOverRange(t *testing.T) {
	schema := ddl.DatabaseSchema{Tables: []ddl.TableDef{{
		Name:           "t",
		Columns:        []ddl.ColumnDef{{Name: "age", Type: ddl.ColInt}},
		IndexedColumns: []string{"age"},
	}}}
	stmt, _ := Parse(`SELECT * FROM t WHERE age >= 10 AND age = 25`)
	plan, err := PlanQuery(stmt, schema)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if plan.Index == nil || plan.Index.Kind != IndexEquality || plan.Index.Eq.Int != 25 {
		t.Fatalf("expected equality plan on age=25, got %+v", plan.Index)
	}
}

func TestPlanQueryFallsBackToScanWithoutIndex(t *testing.T) {
	schema := ddl.DatabaseSchema{Tables: []ddl.TableDef{{
		Name:    "t",
		Columns: []ddl.ColumnDef{{Name: "age", Type: ddl.ColInt}},
	}}}
	stmt, _ := Parse(`SELECT * FROM t WHERE age = 25`)
	plan, err := PlanQuery(stmt, schema)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if plan.Index != nil {
		t.Fatalf("expected no index plan (age is not indexed), got %+v", plan.Index)
	}
}
