package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value. It is the single canonical numeric form used past the API
// boundary: the server may send numbers or numeric strings and both decode to an Amount.
type Amount struct {
	d decimal.Decimal
}

// NewAmount wraps a decimal value.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{d: d}
}

// AmountFromCents builds an Amount from an integer number of cents.
func AmountFromCents(cents int64) Amount {
	return Amount{d: decimal.New(cents, -2)}
}

// ParseAmount parses user or wire input. A lone comma is accepted as the decimal
// separator so "54,30" and "54.30" parse to the same value.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{d: d}, nil
}

// MustAmount is ParseAmount for literals known to be valid.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Decimal returns the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal { return a.d }

// Cents returns the value rounded to whole cents.
func (a Amount) Cents() int64 {
	return a.d.Shift(2).Round(0).IntPart()
}

// HasSubCents reports whether the amount carries digits beyond the second decimal place.
func (a Amount) HasSubCents() bool { return !a.d.Equal(a.d.Round(2)) }

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool { return a.d.IsPositive() }

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool { return a.d.IsZero() }

// Add returns a + b.
func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }

// Neg returns -a.
func (a Amount) Neg() Amount { return Amount{d: a.d.Neg()} }

// Cmp compares a and b the way decimal.Cmp does.
func (a Amount) Cmp(b Amount) int { return a.d.Cmp(b.d) }

// Equal reports whether both amounts hold the same value.
func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

// Float64 is for rendering only (charts, spreadsheets).
func (a Amount) Float64() float64 {
	f, _ := a.d.Float64()
	return f
}

func (a Amount) String() string {
	return a.d.StringFixed(2)
}

// BRL formats the amount as Brazilian currency, e.g. "R$ 1.234,56".
func (a Amount) BRL() string {
	fixed := a.d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	sign := ""
	if a.d.IsNegative() {
		sign = "-"
	}
	return sign + "R$ " + grouped.String() + "," + frac
}

// MarshalJSON encodes the amount as a JSON number with two decimals.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.StringFixed(2)), nil
}

// UnmarshalJSON accepts numbers, numeric strings and null. Values that do not parse
// decode to zero instead of failing the whole payload.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		a.d = decimal.Zero
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			a.d = decimal.Zero
			return nil //nolint:nilerr // unparseable money displays as zero
		}
		raw = s
	}

	parsed, err := ParseAmount(raw)
	if err != nil {
		a.d = decimal.Zero
		return nil //nolint:nilerr // unparseable money displays as zero
	}
	*a = parsed
	return nil
}
