package ddl

import "fmt"

// parseIDL recognizes namespace/enum/table/struct/root_type declarations
// per spec §4.3.
func parseIDL(source, name string) (DatabaseSchema, error) {
	l := newIDLLexer(source)
	p := &idlParser{lexer: l}
	p.advance()

	schema := DatabaseSchema{Name: name, Source: source, Format: FormatIDL}
	namespace := ""
	enumNames := map[string]bool{}

	for p.cur.Type != tokEOF {
		if p.cur.Type != tokIdent {
			return DatabaseSchema{}, p.syntaxErrorf("unexpected token %q", p.cur.Literal)
		}
		switch p.cur.Literal {
		case "namespace":
			p.advance()
			ns, err := p.expectIdent()
			if err != nil {
				return DatabaseSchema{}, err
			}
			namespace = ns
			if err := p.expect(tokSemi); err != nil {
				return DatabaseSchema{}, err
			}
		case "enum":
			enumName, err := p.parseEnum()
			if err != nil {
				return DatabaseSchema{}, err
			}
			enumNames[enumName] = true
		case "table", "struct":
			table, err := p.parseTable(namespace, enumNames)
			if err != nil {
				return DatabaseSchema{}, err
			}
			schema.Tables = append(schema.Tables, table)
		case "root_type":
			p.advance()
			if _, err := p.expectIdent(); err != nil {
				return DatabaseSchema{}, err
			}
			if err := p.expect(tokSemi); err != nil {
				return DatabaseSchema{}, err
			}
		default:
			return DatabaseSchema{}, p.syntaxErrorf("unrecognized construct %q", p.cur.Literal)
		}
	}

	if len(schema.Tables) == 0 {
		return DatabaseSchema{}, &EmptySchemaError{}
	}
	return schema, nil
}

type idlParser struct {
	lexer *idlLexer
	cur   token
}

func (p *idlParser) advance() {
	p.cur = p.lexer.next()
}

func (p *idlParser) expect(t tokenType) error {
	if p.cur.Type != t {
		return p.syntaxErrorf("unexpected token %q", p.cur.Literal)
	}
	p.advance()
	return nil
}

func (p *idlParser) expectIdent() (string, error) {
	if p.cur.Type != tokIdent {
		return "", p.syntaxErrorf("expected identifier, got %q", p.cur.Literal)
	}
	lit := p.cur.Literal
	p.advance()
	return lit, nil
}

func (p *idlParser) syntaxErrorf(format string, args ...any) error {
	return &SyntaxError{Line: p.cur.Line, Column: p.cur.Column, Message: fmt.Sprintf(format, args...)}
}

// parseEnum consumes `enum Name : basetype { Value, Value, ... }` and
// returns the enum's name; enum values are not retained individually —
// the engine only needs to know the name maps to an Int column.
func (p *idlParser) parseEnum() (string, error) {
	p.advance() // consume "enum"
	name, err := p.expectIdent()
	if err != nil {
		return "", err
	}
	if err := p.expect(tokColon); err != nil {
		return "", err
	}
	if _, err := p.expectIdent(); err != nil { // base type, discarded
		return "", err
	}
	if err := p.expect(tokLBrace); err != nil {
		return "", err
	}
	for p.cur.Type != tokRBrace {
		if p.cur.Type == tokEOF {
			return "", p.syntaxErrorf("unterminated enum %q", name)
		}
		if _, err := p.expectIdent(); err != nil {
			return "", err
		}
		if p.cur.Type == tokComma {
			p.advance()
		}
	}
	if err := p.expect(tokRBrace); err != nil {
		return "", err
	}
	return name, nil
}

// parseTable consumes `table Name { field: type (attrs); ... }` (struct
// has the identical shape).
func (p *idlParser) parseTable(namespace string, enumNames map[string]bool) (TableDef, error) {
	p.advance() // consume "table"/"struct"
	name, err := p.expectIdent()
	if err != nil {
		return TableDef{}, err
	}
	if err := p.expect(tokLBrace); err != nil {
		return TableDef{}, err
	}

	table := TableDef{Name: name, FBNamespace: namespace}
	for p.cur.Type != tokRBrace {
		if p.cur.Type == tokEOF {
			return TableDef{}, p.syntaxErrorf("unterminated table %q", name)
		}
		col, err := p.parseField(enumNames)
		if err != nil {
			return TableDef{}, err
		}
		table.Columns = append(table.Columns, col)
	}
	if err := p.expect(tokRBrace); err != nil {
		return TableDef{}, err
	}
	if p.cur.Type == tokSemi {
		p.advance()
	}

	for _, c := range table.Columns {
		if c.IsKey && table.KeyColumn == "" {
			table.KeyColumn = c.Name
		}
		if c.IsIndexed {
			table.IndexedColumns = append(table.IndexedColumns, c.Name)
		}
	}
	return table, nil
}

func (p *idlParser) parseField(enumNames map[string]bool) (ColumnDef, error) {
	fieldName, err := p.expectIdent()
	if err != nil {
		return ColumnDef{}, err
	}
	if err := p.expect(tokColon); err != nil {
		return ColumnDef{}, err
	}

	isVector := false
	if p.cur.Type == tokLBracket {
		isVector = true
		p.advance()
	}
	typeName, err := p.expectIdent()
	if err != nil {
		return ColumnDef{}, err
	}
	if isVector {
		if err := p.expect(tokRBracket); err != nil {
			return ColumnDef{}, err
		}
	}

	col := ColumnDef{Name: fieldName}
	if isVector {
		col.Type = ColBytes
	} else {
		col.Type = mapIDLType(typeName, enumNames)
	}

	if p.cur.Type == tokEquals {
		p.advance()
		defLit := p.cur.Literal
		if p.cur.Type != tokIdent && p.cur.Type != tokNumber {
			return ColumnDef{}, p.syntaxErrorf("invalid default literal %q", p.cur.Literal)
		}
		col.Default = &defLit
		p.advance()
	}

	if p.cur.Type == tokLParen {
		p.advance()
		for p.cur.Type != tokRParen {
			attr, err := p.expectIdent()
			if err != nil {
				return ColumnDef{}, err
			}
			applyIDLAttribute(&col, attr)
			// Attributes may carry a ": value" suffix (e.g. id: 0); skip it.
			if p.cur.Type == tokColon {
				p.advance()
				p.advance()
			}
			if p.cur.Type == tokComma {
				p.advance()
			}
		}
		if err := p.expect(tokRParen); err != nil {
			return ColumnDef{}, err
		}
	}

	if err := p.expect(tokSemi); err != nil {
		return ColumnDef{}, err
	}
	return col, nil
}

func applyIDLAttribute(col *ColumnDef, attr string) {
	switch attr {
	case "key", "id":
		col.IsKey = true
	case "indexed":
		col.IsIndexed = true
	case "required":
		col.IsRequired = true
	}
}

func mapIDLType(name string, enumNames map[string]bool) ColumnType {
	switch name {
	case "bool":
		return ColBool
	case "byte", "ubyte", "short", "ushort", "int", "uint":
		return ColInt
	case "long", "ulong":
		return ColLong
	case "float", "double":
		return ColFloat
	case "string":
		return ColString
	}
	if enumNames[name] {
		return ColInt
	}
	return ColBytes
}
