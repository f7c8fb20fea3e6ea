package fx

import (
	"math"
)

// Money is an amount tagged with a currency. Arithmetic between two Money
// values requires equal currencies; the empty currency is weak and adopts the
// other operand's currency.
type Money struct {
	value    float64
	currency Currency
}

// NewMoney builds an amount in the given currency.
func NewMoney(value float64, currency Currency) Money {
	return Money{value: value, currency: currency}
}

// Value returns the raw amount.
func (m Money) Value() float64 { return m.value }

// Currency returns the currency tag.
func (m Money) Currency() Currency { return m.currency }

// IsZero reports whether the amount carries no currency, i.e. it was never set.
func (m Money) IsZero() bool { return m.currency.IsZero() }

func (m Money) Add(n Money) Money {
	return Money{value: m.value + n.value, currency: commonCurrency(m, n)}
}

func (m Money) Sub(n Money) Money {
	return Money{value: m.value - n.value, currency: commonCurrency(m, n)}
}

func (m Money) Neg() Money {
	return Money{value: -m.value, currency: m.currency}
}

// Mul scales the amount by a dimensionless factor.
func (m Money) Mul(k float64) Money {
	return Money{value: m.value * k, currency: m.currency}
}

func commonCurrency(a, b Money) Currency {
	if a.currency.IsZero() {
		return b.currency
	}
	if b.currency.IsZero() {
		return a.currency
	}
	if !a.currency.Equal(b.currency) {
		panic("currency mismatch: " + a.currency.Code() + " != " + b.currency.Code())
	}
	return a.currency
}

// String renders the amount with the currency's conventional minor-unit
// precision via the go-money formatter.
func (m Money) String() string {
	if m.currency.IsZero() {
		return "<empty>"
	}
	reg := m.currency.registry()
	minor := math.Round(m.value * math.Pow10(reg.Fraction))
	return reg.Formatter().Format(int64(minor))
}
