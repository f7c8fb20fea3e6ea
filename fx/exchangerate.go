package fx

import "fmt"

// RateType distinguishes directly quoted rates from rates derived by chaining.
type RateType int

const (
	// Direct rates are given explicitly between two currencies.
	Direct RateType = iota
	// Derived rates are obtained by chaining two other rates.
	Derived
)

func (t RateType) String() string {
	if t == Derived {
		return "Derived"
	}
	return "Direct"
}

// ExchangeRate is a spot exchange rate between a source and a target currency.
// Rates are immutable values: Chain and Inverse build new instances.
type ExchangeRate struct {
	source Currency
	target Currency
	rate   float64
	kind   RateType
	chain  *[2]ExchangeRate
}

// NewExchangeRate builds a direct quote: one unit of source buys rate units of
// target.
func NewExchangeRate(source, target Currency, rate float64) ExchangeRate {
	return ExchangeRate{source: source, target: target, rate: rate, kind: Direct}
}

// Source returns the source currency.
func (r ExchangeRate) Source() Currency { return r.source }

// Target returns the target currency.
func (r ExchangeRate) Target() Currency { return r.target }

// Rate returns the numeric exchange rate.
func (r ExchangeRate) Rate() float64 { return r.rate }

// Type reports whether the rate is direct or derived.
func (r ExchangeRate) Type() RateType { return r.kind }

// IsZero reports whether the rate was never set.
func (r ExchangeRate) IsZero() bool { return r.source.IsZero() && r.target.IsZero() }

func (r ExchangeRate) String() string {
	return fmt.Sprintf("%s/%s %.6f", r.source, r.target, r.rate)
}

// SamePair reports whether both rates relate the same source and target.
func (r ExchangeRate) SamePair(o ExchangeRate) bool {
	return r.source.Equal(o.source) && r.target.Equal(o.target)
}

// Exchange applies the rate to a cash amount: source amounts are multiplied
// into target, target amounts divided into source. Derived rates route the
// amount through whichever chained leg accepts its currency.
func (r ExchangeRate) Exchange(amount Money) (Money, error) {
	switch r.kind {
	case Direct:
		switch {
		case amount.Currency().Equal(r.source):
			return NewMoney(amount.Value()*r.rate, r.target), nil
		case amount.Currency().Equal(r.target):
			return NewMoney(amount.Value()/r.rate, r.source), nil
		default:
			return Money{}, fmt.Errorf("Exchange: %s against %s: %w",
				amount.Currency(), r, ErrIncompatibleCurrency)
		}
	default:
		first, second := r.chain[0], r.chain[1]
		switch {
		case amount.Currency().Equal(first.source) || amount.Currency().Equal(first.target):
			mid, err := first.Exchange(amount)
			if err != nil {
				return Money{}, err
			}
			return second.Exchange(mid)
		case amount.Currency().Equal(second.source) || amount.Currency().Equal(second.target):
			mid, err := second.Exchange(amount)
			if err != nil {
				return Money{}, err
			}
			return first.Exchange(mid)
		default:
			return Money{}, fmt.Errorf("Exchange: %s against %s/%s: %w",
				amount.Currency(), r.source, r.target, ErrIncompatibleCurrency)
		}
	}
}

// ChainRates composes two rates into a rate between the two currencies they do
// not share. Exactly one shared leg must exist; candidates are tried in the
// fixed order source/source, source/target, target/source, target/target and
// the first match wins.
func ChainRates(r1, r2 ExchangeRate) (ExchangeRate, error) {
	result := ExchangeRate{kind: Derived, chain: &[2]ExchangeRate{r1, r2}}
	switch {
	case r1.source.Equal(r2.source):
		result.source = r1.target
		result.target = r2.target
		result.rate = r2.rate / r1.rate
	case r1.source.Equal(r2.target):
		result.source = r1.target
		result.target = r2.source
		result.rate = 1.0 / (r1.rate * r2.rate)
	case r1.target.Equal(r2.source):
		result.source = r1.source
		result.target = r2.target
		result.rate = r1.rate * r2.rate
	case r1.target.Equal(r2.target):
		result.source = r1.source
		result.target = r2.source
		result.rate = r1.rate / r2.rate
	default:
		return ExchangeRate{}, fmt.Errorf("ChainRates: %s and %s: %w", r1, r2, ErrNotChainable)
	}
	return result, nil
}

// Inverse returns the rate quoted in the opposite direction.
func (r ExchangeRate) Inverse() ExchangeRate {
	return NewExchangeRate(r.target, r.source, 1.0/r.rate)
}
