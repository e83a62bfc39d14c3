package ddl

import (
	"encoding/json"
	"sort"
)

type jsonSchemaProp struct {
	Type   string `json:"type"`
	Format string `json:"format"`
	XKey   bool   `json:"x-key"`
}

type jsonSchemaDoc struct {
	Title      string                    `json:"title"`
	Type       string                    `json:"type"`
	Properties map[string]jsonSchemaProp `json:"properties"`
	Required   []string                  `json:"required"`
}

// parseJSONSchema treats the document as one table named after `title`
// (default "Root"); properties become columns, sorted by name so the
// result does not depend on the source's declaration order, as required
// by spec §4.3.
func parseJSONSchema(source, name string) (DatabaseSchema, error) {
	var doc jsonSchemaDoc
	if err := json.Unmarshal([]byte(source), &doc); err != nil {
		return DatabaseSchema{}, &SyntaxError{Message: err.Error()}
	}

	tableName := doc.Title
	if tableName == "" {
		tableName = "Root"
	}

	required := map[string]bool{}
	for _, r := range doc.Required {
		required[r] = true
	}

	propNames := make([]string, 0, len(doc.Properties))
	for n := range doc.Properties {
		propNames = append(propNames, n)
	}
	sort.Strings(propNames)

	table := TableDef{Name: tableName}
	for _, propName := range propNames {
		prop := doc.Properties[propName]
		colType, err := mapJSONSchemaType(prop)
		if err != nil {
			return DatabaseSchema{}, err
		}
		col := ColumnDef{
			Name:       propName,
			Type:       colType,
			IsRequired: required[propName],
			IsKey:      propName == "id" || prop.XKey,
		}
		table.Columns = append(table.Columns, col)
	}

	for _, c := range table.Columns {
		if c.IsKey && table.KeyColumn == "" {
			table.KeyColumn = c.Name
		}
	}

	if len(table.Columns) == 0 {
		return DatabaseSchema{}, &EmptySchemaError{}
	}

	return DatabaseSchema{
		Name:   name,
		Tables: []TableDef{table},
		Source: source,
		Format: FormatJSONSchema,
	}, nil
}

func mapJSONSchemaType(prop jsonSchemaProp) (ColumnType, error) {
	switch prop.Type {
	case "integer":
		return ColInt, nil
	case "number":
		return ColFloat, nil
	case "string":
		if prop.Format == "binary" {
			return ColBytes, nil
		}
		return ColString, nil
	case "boolean":
		return ColBool, nil
	case "object", "array":
		return ColBytes, nil
	case "":
		return ColBytes, nil
	default:
		return 0, &InvalidTypeError{TypeName: prop.Type}
	}
}
