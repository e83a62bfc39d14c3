package btree

import (
	"fmt"

	"github.com/leengari/fltq/internal/value"
)

// TypeMismatchError is returned when a key's tag does not match the
// tree's declared keyType (Null keys are always accepted).
type TypeMismatchError struct {
	Expected value.Tag
	Got      value.Tag
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("btree: key type mismatch: tree keyed on %s, got %s", e.Expected, e.Got)
}
