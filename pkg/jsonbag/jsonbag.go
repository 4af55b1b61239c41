// Package jsonbag provides Bag, a JSON object holding named values of any shape.
// Schedules carry one as free-form metadata, persisted to a JSONB column.
package jsonbag

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/wealthpath/cadence/pkg/parsable"
)

const typeName = "json object"

var errNotObject = errors.New("not a JSON object")

// Bag is a JSON object. The zero value is an empty bag.
type Bag struct {
	fields map[string]json.RawMessage
}

// Empty returns a bag with no fields.
func Empty() Bag {
	return Bag{fields: map[string]json.RawMessage{}}
}

// New builds a bag from arbitrary values, encoding each with encoding/json.
func New(values map[string]any) (Bag, error) {
	b := Empty()
	for name, v := range values {
		if err := b.Set(name, v); err != nil {
			return Bag{}, err
		}
	}
	return b, nil
}

// FromStrings builds a bag whose fields are all JSON strings.
func FromStrings(values map[string]string) Bag {
	b := Empty()
	for name, v := range values {
		raw, _ := json.Marshal(v)
		b.fields[name] = raw
	}
	return b
}

// FromObject encodes v and requires the result to be a JSON object.
// A nil v yields an empty bag.
func FromObject(v any) (Bag, error) {
	if v == nil {
		return Empty(), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return Bag{}, fmt.Errorf("encode object: %w", err)
	}
	if bytes.Equal(data, []byte("null")) {
		return Empty(), nil
	}
	return decode(string(data))
}

// Parse parses text holding a JSON object.
func Parse(s string) (Bag, error) {
	if parsable.IsBlank(s) {
		return Bag{}, parsable.NewFormatError(typeName, s, nil)
	}
	return decode(s)
}

// TryParse is like Parse but reports failure with ok == false.
func TryParse(s string) (Bag, bool) {
	return parsable.Try(Parse, s)
}

func decode(s string) (Bag, error) {
	trimmed := bytes.TrimSpace([]byte(s))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Bag{}, parsable.NewFormatError(typeName, s, errNotObject)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Bag{}, parsable.NewFormatError(typeName, s, err)
	}
	for name, raw := range fields {
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return Bag{}, parsable.NewFormatError(typeName, s, err)
		}
		fields[name] = buf.Bytes()
	}
	return Bag{fields: fields}, nil
}

// Len returns the number of fields.
func (b Bag) Len() int {
	return len(b.fields)
}

// Has reports whether name is present.
func (b Bag) Has(name string) bool {
	_, ok := b.fields[name]
	return ok
}

// Keys returns the field names in sorted order.
func (b Bag) Keys() []string {
	keys := make([]string, 0, len(b.fields))
	for k := range b.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get decodes the named field into out. It returns false when the field is absent.
func (b Bag) Get(name string, out any) (bool, error) {
	raw, ok := b.fields[name]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("decode field %q: %w", name, err)
	}
	return true, nil
}

// Set encodes v and stores it under name, replacing any previous value.
func (b *Bag) Set(name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode field %q: %w", name, err)
	}
	if b.fields == nil {
		b.fields = map[string]json.RawMessage{}
	}
	b.fields[name] = raw
	return nil
}

// Delete removes name from the bag.
func (b *Bag) Delete(name string) {
	delete(b.fields, name)
}

// Decode decodes the whole object into out.
func (b Bag) Decode(out any) error {
	return json.Unmarshal(b.bytes(), out)
}

// Clone returns a bag that shares no storage with b.
func (b Bag) Clone() Bag {
	c := Empty()
	for k, v := range b.fields {
		c.fields[k] = append(json.RawMessage(nil), v...)
	}
	return c
}

// String renders compact JSON with sorted keys. An empty bag renders "{}".
func (b Bag) String() string {
	return string(b.bytes())
}

func (b Bag) bytes() []byte {
	if len(b.fields) == 0 {
		return []byte("{}")
	}
	// Map keys are sorted by encoding/json and every value is already valid JSON.
	data, _ := json.Marshal(b.fields)
	return data
}

// MarshalJSON writes the bag as a JSON object.
func (b Bag) MarshalJSON() ([]byte, error) {
	return b.bytes(), nil
}

// UnmarshalJSON requires a JSON object; null and other values fail.
func (b *Bag) UnmarshalJSON(data []byte) error {
	parsed, err := decode(string(data))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Value implements driver.Valuer for json/jsonb columns. Text is used so the
// driver does not send the document as bytea.
func (b Bag) Value() (driver.Value, error) {
	return b.String(), nil
}

// Scan implements sql.Scanner for json/jsonb columns.
func (b *Bag) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	case nil:
		return parsable.NewFormatError(typeName, "", errors.New("NULL is not a JSON object"))
	default:
		return parsable.NewFormatError(typeName, fmt.Sprint(src), fmt.Errorf("unsupported type %T", src))
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
