// Package marketdata models forward-point quote envelopes as they arrive
// from rate feeds and turns them into the curves the pricing engines consume.
package marketdata

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/meenmo/fxlib/calendar"
	"github.com/meenmo/fxlib/fx"
)

// TenorPoint is a quoted forward-point premium/discount at a tenor.
type TenorPoint struct {
	Tenor  fx.Period `json:"tenor"`
	Points float64   `json:"points"`
}

// RateRec bundles everything quoted for one currency pair: the spot level and
// the forward points per tenor.
type RateRec struct {
	Pair   string       `json:"pair"` // "EUR/USD"
	Spot   float64      `json:"spot"`
	Tenors []TenorPoint `json:"tenors"`
}

// RatesEnvelope is a revisioned snapshot of all quoted pairs, the unit stored
// and exchanged through the cache layer.
type RatesEnvelope struct {
	Revision int                `json:"revision"`
	AsOf     time.Time          `json:"asOf"`
	Rates    map[string]RateRec `json:"rates"`
}

// ParsePair splits "EUR/USD" into its two currencies.
func ParsePair(pair string) (fx.Currency, fx.Currency, error) {
	parts := strings.Split(strings.TrimSpace(pair), "/")
	if len(parts) != 2 || len(strings.TrimSpace(parts[0])) != 3 || len(strings.TrimSpace(parts[1])) != 3 {
		return fx.Currency{}, fx.Currency{}, fmt.Errorf("ParsePair: malformed pair %q", pair)
	}
	return fx.NewCurrency(parts[0]), fx.NewCurrency(parts[1]), nil
}

// ParseQuote parses a quoted rate string exactly, rejecting junk instead of
// silently substituting zero. Feeds deliver quotes as strings; going through
// decimal avoids inheriting their formatting quirks.
func ParseQuote(value string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("ParseQuote: unparseable quote %q: %w", value, err)
	}
	return d.InexactFloat64(), nil
}

// QuoteRow is a raw feed row before numeric validation.
type QuoteRow struct {
	Tenor  string `json:"tenor"`
	Points string `json:"points"`
}

// ParseRateRec validates a raw feed snapshot for one pair into a RateRec.
func ParseRateRec(pair, spot string, rows []QuoteRow) (RateRec, error) {
	if _, _, err := ParsePair(pair); err != nil {
		return RateRec{}, fmt.Errorf("ParseRateRec: %w", err)
	}
	spotLevel, err := ParseQuote(spot)
	if err != nil {
		return RateRec{}, fmt.Errorf("ParseRateRec: spot: %w", err)
	}

	tenors := make([]TenorPoint, 0, len(rows))
	for _, row := range rows {
		p := fx.Period(row.Tenor)
		if p.IsZero() || p.Years() == 0 {
			return RateRec{}, fmt.Errorf("ParseRateRec: malformed tenor %q", row.Tenor)
		}
		points, err := ParseQuote(row.Points)
		if err != nil {
			return RateRec{}, fmt.Errorf("ParseRateRec: tenor %s: %w", row.Tenor, err)
		}
		tenors = append(tenors, TenorPoint{Tenor: p, Points: points})
	}
	sort.Slice(tenors, func(i, j int) bool {
		return tenors[i].Tenor.Years() < tenors[j].Tenor.Years()
	})

	return RateRec{Pair: pair, Spot: spotLevel, Tenors: tenors}, nil
}

// SpotExchangeRate returns the record's spot level as an exchange rate.
func (r RateRec) SpotExchangeRate() (fx.ExchangeRate, error) {
	source, target, err := ParsePair(r.Pair)
	if err != nil {
		return fx.ExchangeRate{}, fmt.Errorf("SpotExchangeRate: %w", err)
	}
	return fx.NewExchangeRate(source, target, r.Spot), nil
}

// BuildForwardPointCurve dates every quoted tenor off the reference date on
// the given calendar and builds the pair's forward point curve.
func BuildForwardPointCurve(referenceDate time.Time, rec RateRec, dayCount string,
	cal calendar.CalendarID) (*fx.ForwardPointCurve, error) {

	spot, err := rec.SpotExchangeRate()
	if err != nil {
		return nil, fmt.Errorf("BuildForwardPointCurve: %w", err)
	}
	if len(rec.Tenors) == 0 {
		return nil, fmt.Errorf("BuildForwardPointCurve: %s: no quoted tenors: %w",
			rec.Pair, fx.ErrInvalidCurveConstruction)
	}

	dates := lo.Map(rec.Tenors, func(tp TenorPoint, _ int) time.Time {
		return calendar.AdjustFollowing(cal, tp.Tenor.AddTo(referenceDate))
	})
	points := lo.Map(rec.Tenors, func(tp TenorPoint, _ int) float64 {
		return tp.Points
	})

	crv, err := fx.NewForwardPointCurve(referenceDate, spot, dates, points, dayCount, cal)
	if err != nil {
		return nil, fmt.Errorf("BuildForwardPointCurve: %s: %w", rec.Pair, err)
	}
	return crv, nil
}
