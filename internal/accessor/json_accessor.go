package accessor

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/leengari/fltq/internal/value"
)

// JSONAccessor is a generic, schema-oblivious Accessor that round-trips
// payloads through encoding/json: buildBuffer marshals a field map,
// getField decodes and navigates it. It is grounded on the teacher's
// domain/data.Row map-backed row shape and is the "generic JSON bridge"
// spec §6 allows as an accessor implementation strategy.
type JSONAccessor struct{}

// NewJSONAccessor returns a ready-to-use JSON-bridge accessor. It carries
// no schema dependency: every table's payloads are plain JSON objects.
func NewJSONAccessor() *JSONAccessor {
	return &JSONAccessor{}
}

func (a *JSONAccessor) GetField(payload []byte, path []string) (value.Value, error) {
	if len(payload) == 0 {
		return value.OfNull(), nil
	}
	var obj any
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		return value.Value{}, err
	}
	cur := obj
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return value.OfNull(), nil
		}
		v, ok := m[key]
		if !ok {
			return value.OfNull(), nil
		}
		cur = v
	}
	return jsonToValue(cur)
}

func jsonToValue(v any) (value.Value, error) {
	switch t := v.(type) {
	case nil:
		return value.OfNull(), nil
	case json.Number:
		if strings.ContainsAny(string(t), ".eE") {
			f, err := t.Float64()
			if err != nil {
				return value.Value{}, err
			}
			return value.OfFloat(f), nil
		}
		i, err := t.Int64()
		if err != nil {
			f, ferr := t.Float64()
			if ferr != nil {
				return value.Value{}, err
			}
			return value.OfFloat(f), nil
		}
		return value.OfInt(i), nil
	case string:
		return value.OfString(t), nil
	case bool:
		if t {
			return value.OfInt(1), nil
		}
		return value.OfInt(0), nil
	case map[string]any, []any:
		raw, err := json.Marshal(t)
		if err != nil {
			return value.Value{}, err
		}
		return value.OfBytes(raw), nil
	default:
		return value.OfNull(), nil
	}
}

func (a *JSONAccessor) BuildBuffer(tableName string, fields map[string]value.Value) ([]byte, error) {
	out := make(map[string]any, len(fields))
	for name, v := range fields {
		out[name] = valueToJSON(v)
	}
	return json.Marshal(out)
}

func valueToJSON(v value.Value) any {
	switch v.Tag {
	case value.Null:
		return nil
	case value.Int:
		return v.Int
	case value.Float:
		return v.Float
	case value.String:
		return v.Str
	case value.Bytes:
		var raw any
		if json.Unmarshal(v.Bin, &raw) == nil {
			return raw
		}
		return base64.StdEncoding.EncodeToString(v.Bin)
	default:
		return nil
	}
}

func (a *JSONAccessor) ToJSON(payload []byte, tableName string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func (a *JSONAccessor) FromJSON(obj map[string]any, tableName string) ([]byte, error) {
	return json.Marshal(obj)
}
