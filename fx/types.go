package fx

import (
	"errors"
	"time"
)

var (
	// ErrIncompatibleCurrency is returned when an amount's currency matches
	// neither side of the rate being applied.
	ErrIncompatibleCurrency = errors.New("exchange rate not applicable to currency")

	// ErrNotChainable is returned when two rates share no common currency leg.
	ErrNotChainable = errors.New("exchange rates not chainable")

	// ErrTenorMismatch is returned when chaining two forward rates with
	// different tenors.
	ErrTenorMismatch = errors.New("forward exchange rates must have same tenor in order to chain")

	// ErrInvalidCurveConstruction is returned for non-increasing or degenerate
	// node dates when building a forward point curve.
	ErrInvalidCurveConstruction = errors.New("invalid forward point curve construction")

	// ErrInvalidEngineSetup is returned for a currency-pair mismatch between
	// spot rate, forward point curve and contract, or an unset curve.
	ErrInvalidEngineSetup = errors.New("invalid pricing engine setup")

	// ErrResultNotAvailable is returned by a result accessor invoked before or
	// without a successful calculation.
	ErrResultNotAvailable = errors.New("result not available")
)

// DiscountCurve provides discount factors for valuation. Implementations must
// return DF == 1 at the reference date and non-negative factors afterwards.
type DiscountCurve interface {
	ReferenceDate() time.Time
	DF(d time.Time) float64
}
