// Package phone wraps a contact phone number. Numbers are stored exactly as
// given; only blank input is rejected.
package phone

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wealthpath/cadence/pkg/parsable"
)

const typeName = "phone number"

// Number is a phone number. The zero value is the empty number.
type Number struct {
	value string
}

// Parse wraps s as a Number.
func Parse(s string) (Number, error) {
	if parsable.IsBlank(s) {
		return Number{}, parsable.NewFormatError(typeName, s, nil)
	}
	return Number{value: s}, nil
}

// TryParse is like Parse but reports failure with ok == false.
func TryParse(s string) (Number, bool) {
	return parsable.Try(Parse, s)
}

func (n Number) String() string {
	return n.value
}

// IsZero reports whether n holds no number.
func (n Number) IsZero() bool {
	return n.value == ""
}

func (n Number) MarshalText() ([]byte, error) {
	return []byte(n.value), nil
}

func (n *Number) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.value)
}

func (n *Number) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return parsable.NewFormatError(typeName, string(data), fmt.Errorf("expected JSON string: %w", err))
	}
	return n.UnmarshalText([]byte(s))
}

// Value stores the number as text; the empty number is stored as NULL.
func (n Number) Value() (driver.Value, error) {
	if n.IsZero() {
		return nil, nil
	}
	return n.value, nil
}

// Scan reads a text column. NULL scans to the empty number.
func (n *Number) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*n = Number{}
		return nil
	case string:
		return n.UnmarshalText([]byte(v))
	case []byte:
		return n.UnmarshalText(v)
	default:
		return parsable.NewFormatError(typeName, fmt.Sprint(src), errors.New("unsupported column type"))
	}
}
