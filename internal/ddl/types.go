// Package ddl implements the schema ingestion layer (spec §4.3): two
// front ends — a FlatBuffers-like IDL and JSON Schema — that both
// produce the same DatabaseSchema model. Grounded on the teacher's
// hand-rolled internal/parser/lexer for the IDL tokenizer, and on
// oarkflow-scrt's schema.Parse single-entry-point idiom for the
// format-sniffing front door.
package ddl

// ColumnType is the declared type of a column after schema ingestion.
type ColumnType int

const (
	ColInt ColumnType = iota
	ColFloat
	ColString
	ColBytes
	ColBool
	ColLong
	ColNull
)

func (c ColumnType) String() string {
	switch c {
	case ColInt:
		return "Int"
	case ColFloat:
		return "Float"
	case ColString:
		return "String"
	case ColBytes:
		return "Bytes"
	case ColBool:
		return "Bool"
	case ColLong:
		return "Long"
	case ColNull:
		return "Null"
	default:
		return "Unknown"
	}
}

// Format identifies which front end produced a DatabaseSchema.
type Format int

const (
	FormatIDL Format = iota
	FormatJSONSchema
)

// ColumnDef describes one column of a table.
type ColumnDef struct {
	Name       string
	Type       ColumnType
	IsKey      bool
	IsIndexed  bool
	IsRequired bool
	Default    *string
}

// TableDef describes one table (or FlatBuffers table/struct).
type TableDef struct {
	Name           string
	FBNamespace    string
	Columns        []ColumnDef
	KeyColumn      string // "" if none
	IndexedColumns []string
}

// ColumnByName finds a column by name, or reports ok=false.
func (t TableDef) ColumnByName(name string) (ColumnDef, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// DatabaseSchema is the common output of both schema front ends.
type DatabaseSchema struct {
	Name   string
	Tables []TableDef
	Source string
	Format Format
}

// TableByName finds a table by name, or reports ok=false.
func (s DatabaseSchema) TableByName(name string) (TableDef, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableDef{}, false
}
