package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Money is a decimal amount. It decodes from JSON numbers or numeric strings,
// rejects anything else, and is stored in MongoDB as Decimal128.
type Money struct {
	d decimal.Decimal
}

// NewMoney builds Money from a float literal. f must be finite.
func NewMoney(f float64) Money {
	return Money{d: decimal.NewFromFloat(f)}
}

// MoneyFromDecimal wraps an already computed decimal
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d: d}
}

// ParseMoney parses a numeric string such as "199.00"
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, &InvalidAmountError{Value: s, Err: err}
	}
	return Money{d: d}, nil
}

func (m Money) Decimal() decimal.Decimal { return m.d }
func (m Money) IsZero() bool             { return m.d.IsZero() }
func (m Money) IsNegative() bool         { return m.d.IsNegative() }
func (m Money) Equal(o Money) bool       { return m.d.Equal(o.d) }
func (m Money) Add(o Money) Money        { return Money{d: m.d.Add(o.d)} }

// Cents rounds half away from zero to two decimal places
func (m Money) Cents() Money {
	return Money{d: m.d.Round(2)}
}

func (m Money) Float64() float64 {
	f, _ := m.d.Float64()
	return f
}

func (m Money) String() string {
	return m.d.String()
}

// StringFixed renders the amount with exactly two decimals
func (m Money) StringFixed() string {
	return m.d.StringFixed(2)
}

// MarshalJSON writes a bare JSON number
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.String()), nil
}

// UnmarshalJSON accepts 12.5, "12.5" and null. Booleans, NaN, Infinity and
// other non numeric input fail with *InvalidAmountError.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*m = Money{}
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return &InvalidAmountError{Value: raw, Err: err}
		}
		raw = strings.TrimSpace(s)
	}

	parsed, err := ParseMoney(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalBSONValue implements the bson.ValueMarshaler interface
func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	dec, err := primitive.ParseDecimal128(m.d.String())
	if err != nil {
		return 0, nil, fmt.Errorf("encode money %s: %w", m.d.String(), err)
	}
	return bson.MarshalValue(dec)
}

// UnmarshalBSONValue implements the bson.ValueUnmarshaler interface. Older
// documents may carry doubles or strings.
func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.Decimal128:
		parsed, err := ParseMoney(raw.Decimal128().String())
		if err != nil {
			return err
		}
		*m = parsed
	case bsontype.Double:
		f := raw.Double()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &InvalidAmountError{Value: fmt.Sprint(f)}
		}
		*m = NewMoney(f)
	case bsontype.Int32:
		*m = Money{d: decimal.NewFromInt32(raw.Int32())}
	case bsontype.Int64:
		*m = Money{d: decimal.NewFromInt(raw.Int64())}
	case bsontype.String:
		parsed, err := ParseMoney(raw.StringValue())
		if err != nil {
			return err
		}
		*m = parsed
	case bsontype.Null, bsontype.Undefined:
		*m = Money{}
	default:
		return &InvalidAmountError{Value: t.String()}
	}
	return nil
}
