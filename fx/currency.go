package fx

import (
	"strings"

	money "github.com/Rhymond/go-money"
)

// Currency identifies a currency by its ISO 4217 code. The zero value is the
// "no currency" marker used by unset monetary results.
type Currency struct {
	code string
}

// NewCurrency builds a currency from its ISO code ("EUR", "USD", ...).
func NewCurrency(code string) Currency {
	return Currency{code: strings.ToUpper(strings.TrimSpace(code))}
}

// Commonly traded currencies.
var (
	EUR = NewCurrency("EUR")
	USD = NewCurrency("USD")
	GBP = NewCurrency("GBP")
	JPY = NewCurrency("JPY")
	CHF = NewCurrency("CHF")
	KRW = NewCurrency("KRW")
)

// Code returns the ISO 4217 code.
func (c Currency) Code() string { return c.code }

// Equal compares currencies by code.
func (c Currency) Equal(o Currency) bool { return c.code == o.code }

// IsZero reports whether the currency is unset.
func (c Currency) IsZero() bool { return c.code == "" }

func (c Currency) String() string { return c.code }

// registry returns the go-money currency record for formatting metadata.
// Constructing a throwaway amount guarantees a non-nil record even for codes
// missing from the registry.
func (c Currency) registry() money.Currency {
	return *money.New(0, c.code).Currency()
}

// Fraction returns the number of minor-unit digits for the currency.
func (c Currency) Fraction() int {
	return c.registry().Fraction
}
