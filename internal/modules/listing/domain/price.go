package domain

import (
	"errors"

	"github.com/samber/oops"
	"github.com/shopspring/decimal"
)

// ErrInvalidPrice is returned when a price is malformed or negative.
var ErrInvalidPrice = errors.New("invalid price")

// Price is a non-negative arbitrary-precision decimal amount.
type Price struct {
	amount decimal.Decimal
}

// NewPrice parses text into a Price. Non-numeric or negative input fails
// with ErrInvalidPrice.
func NewPrice(text string) (Price, error) {
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return Price{}, oops.With("value", text).Wrap(ErrInvalidPrice)
	}
	if amount.IsNegative() {
		return Price{}, oops.With("value", text).Wrap(ErrInvalidPrice)
	}
	return Price{amount: amount}, nil
}

// PriceFromFloat converts a stored non-negative numeric into a Price.
func PriceFromFloat(value float64) (Price, error) {
	if value < 0 {
		return Price{}, oops.With("value", value).Wrap(ErrInvalidPrice)
	}
	return Price{amount: decimal.NewFromFloat(value)}, nil
}

// OptionalPrice returns nil for absent or zero stored values, mirroring
// nullable price columns.
func OptionalPrice(value float64) (*Price, error) {
	if value == 0 {
		return nil, nil
	}
	price, err := PriceFromFloat(value)
	if err != nil {
		return nil, err
	}
	return &price, nil
}

func (p Price) Equal(other Price) bool {
	return p.amount.Equal(other.amount)
}

func (p Price) LessThan(other Price) bool {
	return p.amount.LessThan(other.amount)
}

func (p Price) GreaterThan(other Price) bool {
	return p.amount.GreaterThan(other.amount)
}

// Float64 returns the closest float64 representation, used for storage.
func (p Price) Float64() float64 {
	value, _ := p.amount.Float64()
	return value
}

func (p Price) String() string {
	return p.amount.String()
}

func (p Price) MarshalJSON() ([]byte, error) {
	return p.amount.MarshalJSON()
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var amount decimal.Decimal
	if err := amount.UnmarshalJSON(data); err != nil {
		return oops.With("value", string(data)).Wrap(ErrInvalidPrice)
	}
	if amount.IsNegative() {
		return oops.With("value", string(data)).Wrap(ErrInvalidPrice)
	}
	p.amount = amount
	return nil
}
