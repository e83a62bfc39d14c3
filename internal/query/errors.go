package query

import "fmt"

// SyntaxError is a SQL parse failure, surfaced with position if available.
type SyntaxError struct {
	Pos     int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("query: syntax error at position %d: %s", e.Pos, e.Message)
}

// UnknownTableError is surfaced from query planning.
type UnknownTableError struct {
	Table string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("query: unknown table %q", e.Table)
}

// UnknownColumnError is surfaced from query planning or projection.
type UnknownColumnError struct {
	Table  string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("query: unknown column %q on table %q", e.Column, e.Table)
}

// TypeMismatchError is surfaced when a predicate literal is incompatible
// with its column's declared type.
type TypeMismatchError struct {
	Column string
	Reason string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("query: predicate on %q: %s", e.Column, e.Reason)
}
