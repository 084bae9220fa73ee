package dto

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bibbank/upi-risk/internal/domain/model"
)

// Number is a lenient numeric input. It accepts a JSON number, a numeric
// string or null, and never fails to decode: anything else is recorded as
// present but invalid so the caller can apply its own defaulting rule.
// Values outside float64 range are invalid and flagged as out of range.
type Number struct {
	value      decimal.Decimal
	float      float64
	present    bool
	valid      bool
	outOfRange bool
}

// NumberOf returns a Number holding v. NaN and infinities are out of range.
func NumberOf(v float64) Number {
	if !model.IsFinite(v) {
		return Number{present: true, outOfRange: true}
	}
	return Number{value: decimal.NewFromFloat(v), float: v, present: true, valid: true}
}

// ParseNumber parses a raw form value. Blank input is treated as absent.
func ParseNumber(raw string) Number {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Number{}
	}
	return fromLiteral(s)
}

func fromLiteral(s string) Number {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Number{present: true}
	}
	f, ok := model.DecimalFloat64(d)
	if !ok {
		return Number{present: true, outOfRange: true}
	}
	return Number{value: d, float: f, present: true, valid: true}
}

// Present reports whether any non-null value was supplied.
func (n Number) Present() bool { return n.present }

// Valid reports whether the supplied value parsed as a finite number.
func (n Number) Valid() bool { return n.valid }

// OutOfRange reports whether the supplied value parsed but does not fit a
// finite float64.
func (n Number) OutOfRange() bool { return n.outOfRange }

// Decimal returns the parsed value, or zero when absent or invalid.
func (n Number) Decimal() decimal.Decimal {
	if !n.valid {
		return decimal.Zero
	}
	return n.value
}

// Float64OrZero applies the parse-or-0 policy.
func (n Number) Float64OrZero() float64 {
	if !n.valid {
		return 0
	}
	return n.float
}

// Float64Ptr returns the value, or nil when absent or invalid.
func (n Number) Float64Ptr() *float64 {
	if !n.valid {
		return nil
	}
	v := n.float
	return &v
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*n = Number{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = Number{present: true}
			return nil
		}
		*n = ParseNumber(s)
		if strings.TrimSpace(s) == "" {
			*n = Number{present: true}
		}
	default:
		*n = fromLiteral(string(data))
	}
	return nil
}

// MarshalJSON implements json.Marshaler. Absent or invalid values encode as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.float)
}
