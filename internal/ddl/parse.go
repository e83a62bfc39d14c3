package ddl

import "strings"

// Parse sniffs the first non-whitespace character of source: '{' routes
// to the JSON Schema front end, otherwise the IDL front end. Behavior is
// deterministic. JSON Schema columns are sorted by name, so their order
// does not depend on declaration order; IDL tables and columns keep the
// order in which the source declares them, and an IDL table's
// KeyColumn is its first declared key field.
func Parse(source, name string) (DatabaseSchema, error) {
	trimmed := strings.TrimLeft(source, " \t\r\n")
	if strings.HasPrefix(trimmed, "{") {
		return parseJSONSchema(source, name)
	}
	return parseIDL(source, name)
}
