package ddl

import "fmt"

// SyntaxError reports an unrecognized construct in schema source, with
// position if available — mirrors the teacher lexer/parser's
// line/column-carrying token errors.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 && e.Column == 0 {
		return fmt.Sprintf("ddl: syntax error: %s", e.Message)
	}
	return fmt.Sprintf("ddl: syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// EmptySchemaError is returned when parsing succeeds structurally but
// yields no tables.
type EmptySchemaError struct{}

func (e *EmptySchemaError) Error() string { return "ddl: schema declares no tables" }

// InvalidTypeError is returned for an unsupported primitive type name.
type InvalidTypeError struct {
	TypeName string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("ddl: invalid type %q", e.TypeName)
}
