package societary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/JonMunkholm/toolbox/internal/table"
)

// Field is an optional JSON value kept in its original encoding.
// The zero Field is absent.
type Field struct {
	raw json.RawMessage
}

// FieldOf encodes v as a Field. Strings are written without HTML escaping.
func FieldOf(v any) Field {
	if v == nil {
		return Field{raw: json.RawMessage("null")}
	}
	b, err := marshalNoEscape(v)
	if err != nil {
		return Field{raw: json.RawMessage(strconv.Quote(fmt.Sprint(v)))}
	}
	return Field{raw: b}
}

// Present reports whether the key existed in the document.
func (f Field) Present() bool { return f.raw != nil }

// Raw returns the field's JSON encoding, or nil when absent.
func (f Field) Raw() json.RawMessage { return f.raw }

// Value converts the field to a table cell: strings, numbers and booleans
// map directly, null and absent become missing, and objects or arrays are
// shown as compact JSON text.
func (f Field) Value() table.Value {
	if f.raw == nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(f.raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(f.raw)
	}
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return val
	case bool:
		return val
	case json.Number:
		n, err := val.Float64()
		if err != nil {
			return val.String()
		}
		return n
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, f.raw); err != nil {
			return string(f.raw)
		}
		return buf.String()
	}
}

// String is the display text of the field.
func (f Field) String() string { return table.Format(f.Value()) }

// keepOrReplace returns orig when the cell displays the same as orig, so an
// untouched value keeps its exact encoding. Otherwise the cell is encoded.
func keepOrReplace(orig Field, cell table.Value) Field {
	if orig.Present() && orig.String() == table.Format(cell) {
		return orig
	}
	return FieldOf(cell)
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// member is one key of a JSON object in document order.
type member struct {
	Key   string
	Value json.RawMessage
}

// decodeObject reads a JSON object keeping key order. A repeated key keeps
// its first position and its last value.
func decodeObject(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, &SyntaxError{Err: err}
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrNotObject
	}

	var members []member
	pos := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, &SyntaxError{Err: err}
		}
		key, ok := tok.(string)
		if !ok {
			return nil, &SyntaxError{Err: fmt.Errorf("unexpected token %v", tok)}
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, &SyntaxError{Err: err}
		}
		if i, dup := pos[key]; dup {
			members[i].Value = raw
			continue
		}
		pos[key] = len(members)
		members = append(members, member{Key: key, Value: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, &SyntaxError{Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &SyntaxError{Err: fmt.Errorf("unexpected data after top-level object")}
	}
	return members, nil
}

// decodeArray splits a JSON array into its elements.
func decodeArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	return items, true
}

// writeObject encodes members in order as a compact JSON object.
func writeObject(members []member) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
