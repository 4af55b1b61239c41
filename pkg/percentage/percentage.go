// Package percentage provides a percentage value type backed by decimal.Decimal.
// A Percentage stores its fraction as given (0.25 for 25%) and is always read
// truncated toward zero to four decimal places.
package percentage

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wealthpath/cadence/pkg/parsable"
)

// Precision is the number of decimal places kept by Fraction.
const Precision = 4

const typeName = "percentage"

var hundred = decimal.NewFromInt(100)

var (
	// Zero is 0%.
	Zero = New(decimal.Zero)
	// Hundred is 100%.
	Hundred = New(decimal.NewFromInt(1))
)

// Percentage is a fraction rendered as a percent.
type Percentage struct {
	raw decimal.Decimal
}

// New creates a Percentage from a fraction (0.25 for 25%).
func New(fraction decimal.Decimal) Percentage {
	return Percentage{raw: fraction}
}

// NewFromFloat creates a Percentage from a float64 fraction.
func NewFromFloat(fraction float64) Percentage {
	return New(decimal.NewFromFloat(fraction))
}

// Fraction returns the fraction truncated to four decimal places.
func (p Percentage) Fraction() decimal.Decimal {
	return p.raw.Truncate(Precision)
}

// Scaled returns the truncated fraction multiplied by 100 (25 for 25%).
func (p Percentage) Scaled() decimal.Decimal {
	return p.Fraction().Mul(hundred)
}

// Of applies the percentage to amount.
func (p Percentage) Of(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.Fraction())
}

// IsZero reports whether the truncated value is zero.
func (p Percentage) IsZero() bool {
	return p.Fraction().IsZero()
}

// Cmp compares truncated values and returns -1, 0 or +1.
func (p Percentage) Cmp(other Percentage) int {
	return p.Fraction().Cmp(other.Fraction())
}

// Equal reports whether both truncated values are equal.
func (p Percentage) Equal(other Percentage) bool {
	return p.Cmp(other) == 0
}

// GreaterThan reports whether p > other.
func (p Percentage) GreaterThan(other Percentage) bool {
	return p.Cmp(other) > 0
}

// LessThan reports whether p < other.
func (p Percentage) LessThan(other Percentage) bool {
	return p.Cmp(other) < 0
}

// String formats the percentage with two decimal places, e.g. "12.34%".
func (p Percentage) String() string {
	return p.Format(2)
}

// Format renders the scaled value truncated toward zero and padded to the
// given number of decimal places, followed by a percent sign.
func (p Percentage) Format(decimals int32) string {
	return p.Scaled().Truncate(decimals).StringFixed(decimals) + "%"
}

// Raw renders the scaled value without padding, e.g. "12.3456%" or "100%".
func (p Percentage) Raw() string {
	return p.Scaled().String() + "%"
}

// Parse parses a fraction such as "0.25".
func Parse(s string) (Percentage, error) {
	d, err := parseDecimal(s, s)
	if err != nil {
		return Percentage{}, err
	}
	return New(d), nil
}

// TryParse is like Parse but reports failure with ok == false.
func TryParse(s string) (Percentage, bool) {
	return parsable.Try(Parse, s)
}

// ParseScaled parses a percent figure such as "25" (meaning 0.25).
// A trailing percent sign is allowed.
func ParseScaled(s string) (Percentage, error) {
	d, err := parseDecimal(s, strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return Percentage{}, err
	}
	return New(d.Div(hundred)), nil
}

// TryParseScaled is like ParseScaled but reports failure with ok == false.
func TryParseScaled(s string) (Percentage, bool) {
	return parsable.Try(ParseScaled, s)
}

func parseDecimal(input, text string) (decimal.Decimal, error) {
	if parsable.IsBlank(text) {
		return decimal.Zero, parsable.NewFormatError(typeName, input, nil)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero, parsable.NewFormatError(typeName, input, err)
	}
	return d, nil
}

// MarshalJSON encodes the truncated fraction as a JSON string, e.g. "0.25".
func (p Percentage) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Fraction().String())
}

// UnmarshalJSON accepts a JSON string or number holding a fraction.
func (p *Percentage) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := Parse(s)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return parsable.NewFormatError(typeName, string(data), fmt.Errorf("expected JSON string or number: %w", err))
	}
	parsed, err := Parse(n.String())
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value implements driver.Valuer, storing the truncated fraction.
func (p Percentage) Value() (driver.Value, error) {
	return p.Fraction().String(), nil
}

// Scan implements sql.Scanner for numeric and text columns.
func (p *Percentage) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case float64:
		*p = New(decimal.NewFromFloat(v))
		return nil
	case int64:
		*p = New(decimal.NewFromInt(v))
		return nil
	case nil:
		return parsable.NewFormatError(typeName, "", errors.New("NULL is not a percentage"))
	default:
		return parsable.NewFormatError(typeName, fmt.Sprint(src), fmt.Errorf("unsupported type %T", src))
	}

	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
