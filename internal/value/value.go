// Package value implements the tagged scalar key type shared by the
// record store, the B-tree index, and the query coordinator.
package value

import (
	"bytes"
	"fmt"
	"math"
)

// Tag identifies the kind of scalar a Value holds.
type Tag int

const (
	Null Tag = iota
	Int
	Float
	String
	Bytes
)

func (t Tag) String() string {
	switch t {
	case Null:
		return "Null"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case String:
		return "String"
	case Bytes:
		return "Bytes"
	default:
		return "Unknown"
	}
}

// Value is a tagged scalar. Only one of the typed fields is meaningful,
// selected by Tag.
type Value struct {
	Tag   Tag
	Int   int64
	Float float64
	Str   string
	Bin   []byte
}

func OfNull() Value              { return Value{Tag: Null} }
func OfInt(i int64) Value        { return Value{Tag: Int, Int: i} }
func OfFloat(f float64) Value     { return Value{Tag: Float, Float: f} }
func OfString(s string) Value    { return Value{Tag: String, Str: s} }
func OfBytes(b []byte) Value     { return Value{Tag: Bytes, Bin: b} }

func (v Value) IsNull() bool { return v.Tag == Null }

func (v Value) String() string {
	switch v.Tag {
	case Null:
		return "NULL"
	case Int:
		return fmt.Sprintf("%d", v.Int)
	case Float:
		return fmt.Sprintf("%g", v.Float)
	case String:
		return v.Str
	case Bytes:
		return fmt.Sprintf("x'%x'", v.Bin)
	default:
		return "?"
	}
}

// TypeMismatchError is raised when two values of incompatible non-null
// tags are compared as if they had a real ordering.
type TypeMismatchError struct {
	Left  Tag
	Right Tag
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("value: type mismatch comparing %s and %s", e.Left, e.Right)
}

// Compare returns -1, 0, or 1 per the total order: Null < Int < Float <
// String < Bytes when tags differ. Same-tag comparisons are the "real"
// comparisons the engine relies on for predicates and tree ordering;
// cross-tag comparisons still yield a deterministic result (tags are
// totally ordered) but callers that reach one of those in a predicate
// context should treat it as a programmer error (see CompareStrict).
func Compare(a, b Value) int {
	if a.Tag != b.Tag {
		if a.Tag < b.Tag {
			return -1
		}
		return 1
	}
	switch a.Tag {
	case Null:
		return 0
	case Int:
		switch {
		case a.Int < b.Int:
			return -1
		case a.Int > b.Int:
			return 1
		default:
			return 0
		}
	case Float:
		switch {
		case a.Float < b.Float:
			return -1
		case a.Float > b.Float:
			return 1
		default:
			return 0
		}
	case String:
		return cmpStrings(a.Str, b.Str)
	case Bytes:
		return bytes.Compare(a.Bin, b.Bin)
	default:
		return 0
	}
}

func cmpStrings(a, b string) int {
	// Byte-wise comparison of the UTF-8 encoding, which for well-formed
	// UTF-8 orders strings by Unicode codepoint. This differs from UTF-16
	// code-unit order only between characters above U+FFFF and those in
	// U+E000..U+FFFF.
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// CompareStrict is like Compare but returns TypeMismatchError when tags
// differ and neither is Null. Used by the query predicate evaluator,
// where cross-tag comparison (other than against Null) is a caller bug.
func CompareStrict(a, b Value) (int, error) {
	if a.Tag != b.Tag && a.Tag != Null && b.Tag != Null {
		return 0, &TypeMismatchError{Left: a.Tag, Right: b.Tag}
	}
	return Compare(a, b), nil
}

// IsNaN reports whether v is a Float NaN, which spec §3 excludes from
// keys entirely.
func IsNaN(v Value) bool {
	return v.Tag == Float && math.IsNaN(v.Float)
}

// Equal reports whether a and b compare equal under Compare.
func Equal(a, b Value) bool {
	return a.Tag == b.Tag && Compare(a, b) == 0
}

// Native returns the underlying Go value a row projection would surface
// to a host: nil, int64, float64, string, or []byte.
func (v Value) Native() any {
	switch v.Tag {
	case Null:
		return nil
	case Int:
		return v.Int
	case Float:
		return v.Float
	case String:
		return v.Str
	case Bytes:
		return v.Bin
	default:
		return nil
	}
}
