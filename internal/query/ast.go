package query

import "github.com/leengari/fltq/internal/value"

// Operator is a predicate comparison operator.
type Operator int

const (
	OpEq Operator = iota
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
)

func (op Operator) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNeq:
		return "<>"
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// Predicate is one `col op literal` clause.
type Predicate struct {
	Column  string
	Op      Operator
	Literal value.Value
}

// SelectStmt is the parsed form of the narrow dialect's single statement
// shape (spec §4.4), including the `SELECT COUNT(*)` special case.
type SelectStmt struct {
	CountStar bool
	Columns   []string // nil/empty with CountStar==false means "*"
	Table     string
	Where     []Predicate // implicit AND conjunction
	Limit     *int
}
