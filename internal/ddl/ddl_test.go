package ddl

import "testing"

func TestParseIDLMonsterSchema(t *testing.T) {
	src := `namespace Game;
enum Color : byte { Red, Green, Blue }
table Monster {
  name: string;
  hp: int = 100;
  color: Color;
}
root_type Monster;`

	schema, err := Parse(src, "game")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(schema.Tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(schema.Tables))
	}
	table := schema.Tables[0]
	if table.Name != "Monster" {
		t.Fatalf("expected table name Monster, got %q", table.Name)
	}
	if table.FBNamespace != "Game" {
		t.Fatalf("expected namespace Game, got %q", table.FBNamespace)
	}

	want := map[string]ColumnType{"name": ColString, "hp": ColInt, "color": ColInt}
	for colName, wantType := range want {
		col, ok := table.ColumnByName(colName)
		if !ok {
			t.Fatalf("missing column %q", colName)
		}
		if col.Type != wantType {
			t.Fatalf("column %q: expected type %s, got %s", colName, wantType, col.Type)
		}
	}
}

func TestParseIDLAttributes(t *testing.T) {
	src := `table Account {
  id: long (key);
  email: string (indexed, required);
  nickname: string;
}`
	schema, err := Parse(src, "acct")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	table := schema.Tables[0]
	if table.KeyColumn != "id" {
		t.Fatalf("expected key column id, got %q", table.KeyColumn)
	}
	if len(table.IndexedColumns) != 1 || table.IndexedColumns[0] != "email" {
		t.Fatalf("expected indexed column [email], got %v", table.IndexedColumns)
	}
	email, _ := table.ColumnByName("email")
	if !email.IsRequired {
		t.Fatal("expected email to be required")
	}
}

func TestParseIDLVectorMapsToBytes(t *testing.T) {
	src := `table Blob {
  tags: [string];
}`
	schema, err := Parse(src, "blob")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	col, ok := schema.Tables[0].ColumnByName("tags")
	if !ok || col.Type != ColBytes {
		t.Fatalf("expected vector column mapped to Bytes, got %+v ok=%v", col, ok)
	}
}

func TestParseIDLEmptySchema(t *testing.T) {
	_, err := Parse(`namespace OnlyNamespace;`, "empty")
	if _, ok := err.(*EmptySchemaError); !ok {
		t.Fatalf("expected EmptySchemaError, got %v", err)
	}
}

func TestParseJSONSchemaBasic(t *testing.T) {
	src := `{
  "title": "User",
  "properties": {
    "id": {"type": "integer"},
    "name": {"type": "string"},
    "balance": {"type": "number"},
    "avatar": {"type": "string", "format": "binary"}
  },
  "required": ["name"]
}`
	schema, err := Parse(src, "users")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	table := schema.Tables[0]
	if table.Name != "User" {
		t.Fatalf("expected table name User, got %q", table.Name)
	}
	if table.KeyColumn != "id" {
		t.Fatalf("expected key column id, got %q", table.KeyColumn)
	}
	name, _ := table.ColumnByName("name")
	if !name.IsRequired {
		t.Fatal("expected name to be required")
	}
	avatar, _ := table.ColumnByName("avatar")
	if avatar.Type != ColBytes {
		t.Fatalf("expected avatar mapped to Bytes, got %s", avatar.Type)
	}
}

func TestParseJSONSchemaDeterministicColumnOrder(t *testing.T) {
	a := `{"title":"T","properties":{"z":{"type":"string"},"a":{"type":"string"}}}`
	schemaA, err := Parse(a, "t")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cols := schemaA.Tables[0].Columns
	if len(cols) != 2 || cols[0].Name != "a" || cols[1].Name != "z" {
		t.Fatalf("expected sorted column order [a z], got %v", cols)
	}
}
