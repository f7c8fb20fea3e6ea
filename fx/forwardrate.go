package fx

import "fmt"

// pipFactor converts between rate units and forward points: points are quoted
// in 1/10000 of the exchange-rate unit.
const pipFactor = 10000.0

// ForwardExchangeRate composes a spot exchange rate with a forward-point
// offset for a given tenor. Like ExchangeRate it is an immutable value.
type ForwardExchangeRate struct {
	spot          ExchangeRate
	forwardPoints float64
	tenor         Period
	kind          RateType
	chain         *[2]ForwardExchangeRate
}

// NewForwardExchangeRate builds a direct forward quote from a spot rate and a
// forward-point premium or discount in pips.
func NewForwardExchangeRate(spot ExchangeRate, forwardPoints float64, tenor Period) ForwardExchangeRate {
	return ForwardExchangeRate{spot: spot, forwardPoints: forwardPoints, tenor: tenor, kind: Direct}
}

// Source returns the source currency of the spot leg.
func (r ForwardExchangeRate) Source() Currency { return r.spot.Source() }

// Target returns the target currency of the spot leg.
func (r ForwardExchangeRate) Target() Currency { return r.spot.Target() }

// Type reports whether the rate is direct or derived.
func (r ForwardExchangeRate) Type() RateType { return r.kind }

// SpotExchangeRate returns the underlying spot rate object.
func (r ForwardExchangeRate) SpotExchangeRate() ExchangeRate { return r.spot }

// SpotRate returns the numeric spot rate.
func (r ForwardExchangeRate) SpotRate() float64 { return r.spot.Rate() }

// ForwardPoints returns the forward premium/discount in pips.
func (r ForwardExchangeRate) ForwardPoints() float64 { return r.forwardPoints }

// ForwardRate returns the all-in forward rate, spot plus points.
func (r ForwardExchangeRate) ForwardRate() float64 {
	return r.spot.Rate() + r.forwardPoints/pipFactor
}

// Tenor returns the nominal time-to-delivery label.
func (r ForwardExchangeRate) Tenor() Period { return r.tenor }

func (r ForwardExchangeRate) String() string {
	return fmt.Sprintf("%s/%s %.6f %+.4fpips", r.Source(), r.Target(), r.SpotRate(), r.forwardPoints)
}

// Exchange applies the all-in forward rate to a cash amount, mirroring
// ExchangeRate.Exchange but on ForwardRate instead of the spot rate.
func (r ForwardExchangeRate) Exchange(amount Money) (Money, error) {
	switch r.kind {
	case Direct:
		switch {
		case amount.Currency().Equal(r.Source()):
			return NewMoney(amount.Value()*r.ForwardRate(), r.Target()), nil
		case amount.Currency().Equal(r.Target()):
			return NewMoney(amount.Value()/r.ForwardRate(), r.Source()), nil
		default:
			return Money{}, fmt.Errorf("Exchange: %s against %s: %w",
				amount.Currency(), r, ErrIncompatibleCurrency)
		}
	default:
		first, second := r.chain[0], r.chain[1]
		switch {
		case amount.Currency().Equal(first.Source()) || amount.Currency().Equal(first.Target()):
			mid, err := first.Exchange(amount)
			if err != nil {
				return Money{}, err
			}
			return second.Exchange(mid)
		case amount.Currency().Equal(second.Source()) || amount.Currency().Equal(second.Target()):
			mid, err := second.Exchange(amount)
			if err != nil {
				return Money{}, err
			}
			return first.Exchange(mid)
		default:
			return Money{}, fmt.Errorf("Exchange: %s against %s/%s: %w",
				amount.Currency(), r.Source(), r.Target(), ErrIncompatibleCurrency)
		}
	}
}

// ChainForwardRates composes two forward rates sharing a currency leg and a
// tenor. The chained spot leg follows ChainRates; the forward points follow
// the pip-consistent combination for the matched case, i.e. the chained
// forward rate minus the chained spot rate scaled back to pips.
func ChainForwardRates(r1, r2 ForwardExchangeRate) (ForwardExchangeRate, error) {
	if r1.tenor != r2.tenor {
		return ForwardExchangeRate{}, fmt.Errorf("ChainForwardRates: %q vs %q: %w",
			r1.tenor, r2.tenor, ErrTenorMismatch)
	}

	chainedSpot, err := ChainRates(r1.spot, r2.spot)
	if err != nil {
		return ForwardExchangeRate{}, fmt.Errorf("ChainForwardRates: %w", err)
	}

	result := ForwardExchangeRate{
		spot:  chainedSpot,
		tenor: r1.tenor,
		kind:  Derived,
		chain: &[2]ForwardExchangeRate{r1, r2},
	}
	switch {
	case r1.Source().Equal(r2.Source()):
		result.forwardPoints = (r2.ForwardRate()/r1.ForwardRate() - r2.SpotRate()/r1.SpotRate()) * pipFactor
	case r1.Source().Equal(r2.Target()):
		result.forwardPoints = (1.0/(r1.ForwardRate()*r2.ForwardRate()) -
			1.0/(r1.SpotRate()*r2.SpotRate())) * pipFactor
	case r1.Target().Equal(r2.Source()):
		result.forwardPoints = r1.SpotRate()*r2.forwardPoints +
			r2.SpotRate()*r1.forwardPoints +
			r1.forwardPoints*r2.forwardPoints/pipFactor
	default: // target == target, guaranteed by the spot chain above
		result.forwardPoints = (r1.ForwardRate()/r2.ForwardRate() - r1.SpotRate()/r2.SpotRate()) * pipFactor
	}
	return result, nil
}

// Inverse returns the forward rate quoted in the opposite direction: the spot
// leg is inverted and the points are recomputed against the inverted spot.
func (r ForwardExchangeRate) Inverse() ForwardExchangeRate {
	inverseSpot := r.spot.Inverse()
	points := (1.0/r.ForwardRate() - inverseSpot.Rate()) * pipFactor
	return NewForwardExchangeRate(inverseSpot, points, r.tenor)
}
