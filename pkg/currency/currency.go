// Package currency validates ISO 4217 codes and rounds schedule amounts to the
// precision of their currency.
package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wealthpath/cadence/pkg/parsable"
	"github.com/wealthpath/cadence/pkg/percentage"
)

// Currency represents an ISO 4217 currency code.
type Currency string

// Supported currencies.
const (
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	JPY Currency = "JPY" // Japanese Yen
	CAD Currency = "CAD" // Canadian Dollar
	AUD Currency = "AUD" // Australian Dollar
	CHF Currency = "CHF" // Swiss Franc
	VND Currency = "VND" // Vietnamese Dong
)

// Default is used when a schedule names no currency.
const Default = USD

// Info describes how amounts in a currency are written.
type Info struct {
	Code         Currency
	Symbol       string
	Places       int32 // Minor unit digits, 0 for JPY and VND
	SymbolBefore bool
}

var supported = map[Currency]Info{
	USD: {Code: USD, Symbol: "$", Places: 2, SymbolBefore: true},
	EUR: {Code: EUR, Symbol: "€", Places: 2},
	GBP: {Code: GBP, Symbol: "£", Places: 2, SymbolBefore: true},
	JPY: {Code: JPY, Symbol: "¥", Places: 0, SymbolBefore: true},
	CAD: {Code: CAD, Symbol: "$", Places: 2, SymbolBefore: true},
	AUD: {Code: AUD, Symbol: "$", Places: 2, SymbolBefore: true},
	CHF: {Code: CHF, Symbol: "CHF ", Places: 2, SymbolBefore: true},
	VND: {Code: VND, Symbol: "₫", Places: 0},
}

// Parse normalizes a currency code; it is case-insensitive and rejects
// codes that are not supported.
func Parse(s string) (Currency, error) {
	if parsable.IsBlank(s) {
		return "", parsable.NewFormatError("currency", s, nil)
	}
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := supported[c]; !ok {
		return "", parsable.NewFormatError("currency", s, fmt.Errorf("unsupported currency %s", c))
	}
	return c, nil
}

// TryParse is like Parse but reports failure with ok == false.
func TryParse(s string) (Currency, bool) {
	return parsable.Try(Parse, s)
}

// Lookup returns the Info for c.
func Lookup(c Currency) (Info, bool) {
	info, ok := supported[c]
	return info, ok
}

// Money is an amount in a currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

// NewMoney creates Money, using Default when curr is empty.
func NewMoney(amount decimal.Decimal, curr Currency) Money {
	if curr == "" {
		curr = Default
	}
	return Money{Amount: amount, Currency: curr}
}

func (m Money) places() int32 {
	if info, ok := supported[m.Currency]; ok {
		return info.Places
	}
	return supported[Default].Places
}

// Round rounds the amount to the currency's minor unit.
func (m Money) Round() Money {
	return NewMoney(m.Amount.Round(m.places()), m.Currency)
}

// Escalate grows the amount by rate (0.03 adds 3%) and rounds the result.
func (m Money) Escalate(rate percentage.Percentage) Money {
	if rate.IsZero() {
		return m
	}
	grown := m.Amount.Add(rate.Of(m.Amount))
	return NewMoney(grown, m.Currency).Round()
}

// Format renders the amount with the currency symbol, e.g. "$12.50" or "1500₫".
func (m Money) Format() string {
	places := m.places()
	amount := m.Amount.Round(places).StringFixed(places)
	info, ok := supported[m.Currency]
	if !ok {
		return amount + " " + string(m.Currency)
	}
	if info.SymbolBefore {
		return info.Symbol + amount
	}
	return amount + info.Symbol
}

func (m Money) String() string {
	return m.Amount.Round(m.places()).String()
}
