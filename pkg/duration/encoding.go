package duration

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/wealthpath/cadence/pkg/parsable"
)

// Every encoding carries the canonical string and nothing else. Decoding
// always goes through Parse and never falls back to a default value.

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler. Only JSON strings are accepted.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return parsable.NewFormatError(typeName, string(data), fmt.Errorf("expected JSON string: %w", err))
	}
	return d.UnmarshalText([]byte(s))
}

// Value implements driver.Valuer.
func (d Duration) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner. NULL is rejected; use *Duration for nullable columns.
func (d *Duration) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return d.UnmarshalText([]byte(v))
	case []byte:
		return d.UnmarshalText(v)
	case nil:
		return parsable.NewFormatError(typeName, "", fmt.Errorf("cannot scan NULL"))
	default:
		return parsable.NewFormatError(typeName, fmt.Sprint(src), fmt.Errorf("cannot scan %T", src))
	}
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Only scalar nodes are accepted.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return parsable.NewFormatError(typeName, value.Value, fmt.Errorf("line %d: expected scalar", value.Line))
	}
	return d.UnmarshalText([]byte(value.Value))
}

// MarshalCBOR implements cbor.Marshaler, encoding a text string.
func (d Duration) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(d.String())
}

// UnmarshalCBOR implements cbor.Unmarshaler. Only text strings are accepted.
func (d *Duration) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return parsable.NewFormatError(typeName, fmt.Sprintf("%x", data), fmt.Errorf("expected CBOR text string: %w", err))
	}
	return d.UnmarshalText([]byte(s))
}
