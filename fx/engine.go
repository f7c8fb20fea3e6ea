package fx

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/fxlib/calendar"
	"github.com/meenmo/fxlib/utils"
)

// Arguments is the contract snapshot handed to a pricing engine.
type Arguments struct {
	DeliveryDate       time.Time
	BaseNotionalAmount Money
	ContractAllInRate  ExchangeRate
	ForwardType        ForwardType
	DayCount           string
	Calendar           calendar.CalendarID
	Convention         calendar.Convention
	SettlementDays     int
}

// Validate checks the snapshot is internally consistent.
func (a Arguments) Validate() error {
	if a.DeliveryDate.IsZero() {
		return fmt.Errorf("Arguments: delivery date not set: %w", ErrInvalidEngineSetup)
	}
	if a.BaseNotionalAmount.IsZero() {
		return fmt.Errorf("Arguments: base notional not set: %w", ErrInvalidEngineSetup)
	}
	if !a.ContractAllInRate.Source().Equal(a.BaseNotionalAmount.Currency()) {
		return fmt.Errorf("Arguments: all-in rate %s not normalized to base %s: %w",
			a.ContractAllInRate, a.BaseNotionalAmount.Currency(), ErrInvalidEngineSetup)
	}
	return nil
}

func (a Arguments) baseSign() float64 {
	if a.ForwardType == SellBaseBuyTermForward {
		return -1.0
	}
	return 1.0
}

// Results carries the valuation outputs. Unset monetary fields keep the empty
// currency; unset forward points stay NaN. Accessors on the instrument treat
// both as "not available".
type Results struct {
	ValuationDate       time.Time
	FairForwardPoints   float64
	ForwardNetValueBase Money
	ForwardNetValueTerm Money
	PresentNetValueBase Money
	PresentNetValueTerm Money
}

func emptyResults() Results {
	return Results{FairForwardPoints: math.NaN()}
}

// PricingEngine values a ForeignExchangeForward snapshot. Engines either
// return a fully populated result set or an error, never a partial result.
type PricingEngine interface {
	// ValuationDate is the date results are discounted to, taken from the
	// engine's discount curve.
	ValuationDate() time.Time
	Calculate(args Arguments) (Results, error)
}

// FlatForwardPointsEngine values a contract from a single flat spot level and
// flat forward points against one discount curve. It populates the term-leg
// results only; base-leg accessors on the instrument report not-available.
type FlatForwardPointsEngine struct {
	valuationCurrency Currency
	spotExchangeRate  float64
	forwardPoints     float64
	discountCurve     DiscountCurve
}

// NewFlatForwardPointsEngine builds the flat-quote engine.
func NewFlatForwardPointsEngine(valuationCurrency Currency, spotExchangeRate, forwardPoints float64,
	discountCurve DiscountCurve) *FlatForwardPointsEngine {
	return &FlatForwardPointsEngine{
		valuationCurrency: valuationCurrency,
		spotExchangeRate:  spotExchangeRate,
		forwardPoints:     forwardPoints,
		discountCurve:     discountCurve,
	}
}

// ValuationCurrency returns the currency valuation results are quoted in.
func (e *FlatForwardPointsEngine) ValuationCurrency() Currency { return e.valuationCurrency }

// SpotExchangeRate returns the flat spot level.
func (e *FlatForwardPointsEngine) SpotExchangeRate() float64 { return e.spotExchangeRate }

// ForwardPoints returns the flat forward points in pips.
func (e *FlatForwardPointsEngine) ForwardPoints() float64 { return e.forwardPoints }

// ValuationDate returns the discount curve's reference date.
func (e *FlatForwardPointsEngine) ValuationDate() time.Time {
	if e.discountCurve == nil {
		return time.Time{}
	}
	return e.discountCurve.ReferenceDate()
}

// Calculate prices the contract off the flat quote: the all-in forward rate
// is spot plus points, the forward value is the base notional times the rate
// difference to the contract rate, and the present value discounts it at the
// time to delivery.
func (e *FlatForwardPointsEngine) Calculate(args Arguments) (Results, error) {
	if e.discountCurve == nil {
		return Results{}, fmt.Errorf("FlatForwardPointsEngine: discounting term structure is empty: %w",
			ErrInvalidEngineSetup)
	}

	valuationDate := e.discountCurve.ReferenceDate()
	allInRate := args.ContractAllInRate
	fwdRate := e.spotExchangeRate + e.forwardPoints/pipFactor
	discount := e.discountCurve.DF(args.DeliveryDate)

	forwardValue := NewMoney(
		args.BaseNotionalAmount.Value()*(fwdRate-allInRate.Rate()),
		allInRate.Target(),
	)

	results := emptyResults()
	results.ValuationDate = valuationDate
	results.FairForwardPoints = e.forwardPoints
	results.ForwardNetValueTerm = forwardValue
	results.PresentNetValueTerm = forwardValue.Mul(discount)
	return results, nil
}

// ForwardPointsEngine values a contract from a forward point curve and one
// discount curve per currency.
type ForwardPointsEngine struct {
	spotExchangeRate  ExchangeRate
	forwardPointCurve *ForwardPointCurve
	baseDiscountCurve DiscountCurve
	termDiscountCurve DiscountCurve
}

// NewForwardPointsEngine builds the curve-based engine.
func NewForwardPointsEngine(spotExchangeRate ExchangeRate, forwardPointCurve *ForwardPointCurve,
	baseDiscountCurve, termDiscountCurve DiscountCurve) *ForwardPointsEngine {
	return &ForwardPointsEngine{
		spotExchangeRate:  spotExchangeRate,
		forwardPointCurve: forwardPointCurve,
		baseDiscountCurve: baseDiscountCurve,
		termDiscountCurve: termDiscountCurve,
	}
}

// ValuationCurrency returns the source currency of the engine's spot rate.
func (e *ForwardPointsEngine) ValuationCurrency() Currency { return e.spotExchangeRate.Source() }

// SpotExchangeRate returns the engine's spot rate.
func (e *ForwardPointsEngine) SpotExchangeRate() ExchangeRate { return e.spotExchangeRate }

// ForwardPointCurve returns the engine's forward point curve.
func (e *ForwardPointsEngine) ForwardPointCurve() *ForwardPointCurve { return e.forwardPointCurve }

// BaseDiscountCurve returns the base-currency discount curve.
func (e *ForwardPointsEngine) BaseDiscountCurve() DiscountCurve { return e.baseDiscountCurve }

// TermDiscountCurve returns the term-currency discount curve.
func (e *ForwardPointsEngine) TermDiscountCurve() DiscountCurve { return e.termDiscountCurve }

// ValuationDate returns the base discount curve's reference date.
func (e *ForwardPointsEngine) ValuationDate() time.Time {
	if e.baseDiscountCurve == nil {
		return time.Time{}
	}
	return e.baseDiscountCurve.ReferenceDate()
}

func (e *ForwardPointsEngine) validate(args Arguments) error {
	if e.forwardPointCurve == nil {
		return fmt.Errorf("ForwardPointsEngine: forward points term structure is empty: %w", ErrInvalidEngineSetup)
	}
	if e.baseDiscountCurve == nil {
		return fmt.Errorf("ForwardPointsEngine: base discounting term structure is empty: %w", ErrInvalidEngineSetup)
	}
	if e.termDiscountCurve == nil {
		return fmt.Errorf("ForwardPointsEngine: term discounting term structure is empty: %w", ErrInvalidEngineSetup)
	}
	if !e.spotExchangeRate.SamePair(e.forwardPointCurve.SpotExchangeRate()) {
		return fmt.Errorf("ForwardPointsEngine: spot rate %s vs curve pair %s/%s: %w",
			e.spotExchangeRate, e.forwardPointCurve.Source(), e.forwardPointCurve.Target(),
			ErrInvalidEngineSetup)
	}
	if !e.spotExchangeRate.SamePair(args.ContractAllInRate) {
		return fmt.Errorf("ForwardPointsEngine: spot rate %s vs contract rate %s: %w",
			e.spotExchangeRate, args.ContractAllInRate, ErrInvalidEngineSetup)
	}
	return nil
}

// Calculate prices the contract off the forward point curve. Each leg's
// forward value is computed in its own currency and discounted on its own
// curve; the fair forward points are the curve's points at the contract's
// time to delivery. The result set is assembled locally and returned whole,
// so a failure never leaves partial results behind.
func (e *ForwardPointsEngine) Calculate(args Arguments) (Results, error) {
	if err := e.validate(args); err != nil {
		return Results{}, err
	}

	sign := args.baseSign()
	valuationDate := e.baseDiscountCurve.ReferenceDate()
	timeToDelivery := utils.YearFraction(valuationDate, args.DeliveryDate, args.DayCount)

	fwdExchangeRate, err := e.forwardPointCurve.ForwardExchangeRate(timeToDelivery, true)
	if err != nil {
		return Results{}, fmt.Errorf("ForwardPointsEngine: %w", err)
	}
	fwdRate := fwdExchangeRate.ForwardRate()
	allInRate := args.ContractAllInRate

	termForwardValue := NewMoney(
		sign*args.BaseNotionalAmount.Value()*(fwdRate-allInRate.Rate()),
		allInRate.Target(),
	)

	signedNotional := args.BaseNotionalAmount.Mul(sign)
	exchanged, err := allInRate.Exchange(signedNotional)
	if err != nil {
		return Results{}, fmt.Errorf("ForwardPointsEngine: %w", err)
	}
	baseForwardValue := NewMoney(
		exchanged.Value()*(1.0/fwdRate-1.0/allInRate.Rate()),
		allInRate.Source(),
	)

	baseDiscount := e.baseDiscountCurve.DF(args.DeliveryDate)
	termDiscount := e.termDiscountCurve.DF(args.DeliveryDate)

	fairForwardPoints, err := e.forwardPointCurve.ForwardPoints(timeToDelivery, true)
	if err != nil {
		return Results{}, fmt.Errorf("ForwardPointsEngine: %w", err)
	}

	return Results{
		ValuationDate:       valuationDate,
		FairForwardPoints:   fairForwardPoints,
		ForwardNetValueBase: baseForwardValue,
		ForwardNetValueTerm: termForwardValue,
		PresentNetValueBase: baseForwardValue.Mul(baseDiscount),
		PresentNetValueTerm: termForwardValue.Mul(termDiscount),
	}, nil
}
