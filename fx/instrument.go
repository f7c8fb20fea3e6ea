package fx

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/fxlib/calendar"
	"github.com/meenmo/fxlib/utils"
)

// ForwardType states which side of the contract the holder takes.
type ForwardType int

const (
	// SellBaseBuyTermForward delivers the base notional and receives term currency.
	SellBaseBuyTermForward ForwardType = iota
	// BuyBaseSellTermForward receives the base notional and delivers term currency.
	BuyBaseSellTermForward
)

func (t ForwardType) String() string {
	if t == BuyBaseSellTermForward {
		return "BuyBaseSellTerm"
	}
	return "SellBaseBuyTerm"
}

// FxTerms bundles the market conventions of a currency pair.
type FxTerms struct {
	DayCount       string
	Calendar       calendar.CalendarID
	Convention     calendar.Convention
	SettlementDays int
}

// NewFxTerms builds explicit terms.
func NewFxTerms(dayCount string, cal calendar.CalendarID, conv calendar.Convention, settlementDays int) FxTerms {
	return FxTerms{DayCount: dayCount, Calendar: cal, Convention: conv, SettlementDays: settlementDays}
}

// DefaultFxTerms returns the market conventions for a currency pair.
// EUR/USD trades ACT/365F on the joint TARGET/US calendar; other pairs fall
// back to ACT/360 on a weekend-only calendar.
func DefaultFxTerms(base, term Currency) FxTerms {
	if base.Code() == "EUR" && term.Code() == "USD" {
		return FxTerms{
			DayCount:       utils.Act365F,
			Calendar:       calendar.JointTARGETUS,
			Convention:     calendar.Following,
			SettlementDays: 2,
		}
	}
	return FxTerms{
		DayCount:       utils.Act360,
		Calendar:       calendar.CalendarID(""),
		Convention:     calendar.Following,
		SettlementDays: 2,
	}
}

// ForeignExchangeForward is a contract to exchange a base-currency notional
// against term currency on a delivery date at an agreed all-in rate.
//
// The contract terms are immutable after construction. Valuation results are
// cached per instrument and recomputed lazily: an accessor triggers the
// attached engine only when the cache is stale (never computed, new engine
// attached, or Invalidate called after an observed input changed).
type ForeignExchangeForward struct {
	deliveryDate time.Time
	baseNotional Money
	termNotional Money
	allInRate    ExchangeRate
	forwardType  ForwardType
	terms        FxTerms

	engine     PricingEngine
	calculated bool
	results    Results
}

// NewForeignExchangeForward builds a contract with default terms for the pair.
// The supplied all-in rate may be quoted in either direction; it is normalized
// so that its source currency equals the base notional's currency.
func NewForeignExchangeForward(deliveryDate time.Time, baseNotional Money,
	contractAllInRate ExchangeRate, forwardType ForwardType) (*ForeignExchangeForward, error) {

	normalized, err := normalizeAllInRate(baseNotional, contractAllInRate)
	if err != nil {
		return nil, err
	}
	terms := DefaultFxTerms(normalized.Source(), normalized.Target())
	return NewForeignExchangeForwardWithTerms(deliveryDate, baseNotional, contractAllInRate, forwardType, terms)
}

// NewForeignExchangeForwardWithTerms builds a contract with explicit terms.
func NewForeignExchangeForwardWithTerms(deliveryDate time.Time, baseNotional Money,
	contractAllInRate ExchangeRate, forwardType ForwardType, terms FxTerms) (*ForeignExchangeForward, error) {

	normalized, err := normalizeAllInRate(baseNotional, contractAllInRate)
	if err != nil {
		return nil, err
	}
	termNotional, err := normalized.Exchange(baseNotional)
	if err != nil {
		return nil, fmt.Errorf("NewForeignExchangeForward: %w", err)
	}
	return &ForeignExchangeForward{
		deliveryDate: deliveryDate,
		baseNotional: baseNotional,
		termNotional: termNotional,
		allInRate:    normalized,
		forwardType:  forwardType,
		terms:        terms,
		results:      emptyResults(),
	}, nil
}

func normalizeAllInRate(baseNotional Money, rate ExchangeRate) (ExchangeRate, error) {
	switch {
	case rate.Source().Equal(baseNotional.Currency()):
		return rate, nil
	case rate.Target().Equal(baseNotional.Currency()):
		return rate.Inverse(), nil
	default:
		return ExchangeRate{}, fmt.Errorf("NewForeignExchangeForward: notional in %s, rate %s: %w",
			baseNotional.Currency(), rate, ErrIncompatibleCurrency)
	}
}

// ForwardType returns the contract direction.
func (f *ForeignExchangeForward) ForwardType() ForwardType { return f.forwardType }

// DeliveryDate returns the contracted delivery date.
func (f *ForeignExchangeForward) DeliveryDate() time.Time { return f.deliveryDate }

// BaseCurrency returns the base notional's currency.
func (f *ForeignExchangeForward) BaseCurrency() Currency { return f.baseNotional.Currency() }

// TermCurrency returns the non-base side of the normalized all-in rate.
func (f *ForeignExchangeForward) TermCurrency() Currency { return f.allInRate.Target() }

// ContractAllInRate returns the normalized all-in rate; its source currency
// always equals BaseCurrency.
func (f *ForeignExchangeForward) ContractAllInRate() ExchangeRate { return f.allInRate }

// ContractNotionalAmountBase returns the base notional.
func (f *ForeignExchangeForward) ContractNotionalAmountBase() Money { return f.baseNotional }

// ContractNotionalAmountTerm returns the base notional exchanged at the all-in rate.
func (f *ForeignExchangeForward) ContractNotionalAmountTerm() Money { return f.termNotional }

// Terms returns the pair conventions the contract was built with.
func (f *ForeignExchangeForward) Terms() FxTerms { return f.terms }

func (f *ForeignExchangeForward) String() string {
	return fmt.Sprintf("%s%s %s %s %s @ %.6f", f.BaseCurrency(), f.TermCurrency(),
		f.forwardType, f.deliveryDate.Format("2006-01-02"), f.baseNotional, f.allInRate.Rate())
}

// Expired reports whether the delivery date lies before the evaluation date.
func (f *ForeignExchangeForward) Expired(evaluationDate time.Time) bool {
	return f.deliveryDate.Before(evaluationDate)
}

func (f *ForeignExchangeForward) baseSign() float64 {
	if f.forwardType == SellBaseBuyTermForward {
		return -1.0
	}
	return 1.0
}

// SetPricingEngine attaches the engine used for valuation and marks the
// cached results stale.
func (f *ForeignExchangeForward) SetPricingEngine(engine PricingEngine) {
	f.engine = engine
	f.Invalidate()
}

// Invalidate marks the cached results stale. Callers observing the curves or
// quotes the attached engine depends on should invalidate the instrument
// whenever one of those inputs changes.
func (f *ForeignExchangeForward) Invalidate() {
	f.calculated = false
	f.results = emptyResults()
}

func (f *ForeignExchangeForward) arguments() Arguments {
	return Arguments{
		DeliveryDate:       f.deliveryDate,
		BaseNotionalAmount: f.baseNotional,
		ContractAllInRate:  f.allInRate,
		ForwardType:        f.forwardType,
		DayCount:           f.terms.DayCount,
		Calendar:           f.terms.Calendar,
		Convention:         f.terms.Convention,
		SettlementDays:     f.terms.SettlementDays,
	}
}

// calculate recomputes the cached results if stale. Expired contracts reset
// every monetary result to empty instead of pricing.
func (f *ForeignExchangeForward) calculate() error {
	if f.calculated {
		return nil
	}
	if f.engine == nil {
		return fmt.Errorf("no pricing engine attached: %w", ErrResultNotAvailable)
	}
	if f.Expired(f.engine.ValuationDate()) {
		f.results = emptyResults()
		f.calculated = true
		return nil
	}
	args := f.arguments()
	if err := args.Validate(); err != nil {
		return err
	}
	results, err := f.engine.Calculate(args)
	if err != nil {
		return err
	}
	f.results = results
	f.calculated = true
	return nil
}

// FairForwardPoints returns the forward points that would make the contract
// fair at the valuation date.
func (f *ForeignExchangeForward) FairForwardPoints() (float64, error) {
	if err := f.calculate(); err != nil {
		return 0, err
	}
	if math.IsNaN(f.results.FairForwardPoints) {
		return 0, fmt.Errorf("FairForwardPoints: %w", ErrResultNotAvailable)
	}
	return f.results.FairForwardPoints, nil
}

func (f *ForeignExchangeForward) netValue(pick func(Results) Money, name string) (Money, error) {
	if err := f.calculate(); err != nil {
		return Money{}, err
	}
	v := pick(f.results)
	if v.IsZero() {
		return Money{}, fmt.Errorf("%s: %w", name, ErrResultNotAvailable)
	}
	return v, nil
}

// ForwardNetValueBase returns the undiscounted base-leg value including the
// notional exchange.
func (f *ForeignExchangeForward) ForwardNetValueBase() (Money, error) {
	return f.netValue(func(r Results) Money { return r.ForwardNetValueBase }, "ForwardNetValueBase")
}

// ForwardNetValueTerm returns the undiscounted term-leg value including the
// notional exchange.
func (f *ForeignExchangeForward) ForwardNetValueTerm() (Money, error) {
	return f.netValue(func(r Results) Money { return r.ForwardNetValueTerm }, "ForwardNetValueTerm")
}

// PresentNetValueBase returns the discounted base-leg value.
func (f *ForeignExchangeForward) PresentNetValueBase() (Money, error) {
	return f.netValue(func(r Results) Money { return r.PresentNetValueBase }, "PresentNetValueBase")
}

// PresentNetValueTerm returns the discounted term-leg value.
func (f *ForeignExchangeForward) PresentNetValueTerm() (Money, error) {
	return f.netValue(func(r Results) Money { return r.PresentNetValueTerm }, "PresentNetValueTerm")
}

// ForwardGrossValueBase isolates the base-leg mark-to-market, excluding the
// notional exchange itself: gross = net - sign * notional.
func (f *ForeignExchangeForward) ForwardGrossValueBase() (Money, error) {
	net, err := f.ForwardNetValueBase()
	if err != nil {
		return Money{}, err
	}
	return net.Sub(f.baseNotional.Mul(f.baseSign())), nil
}

// ForwardGrossValueTerm isolates the term-leg mark-to-market, excluding the
// notional exchange itself: gross = net + sign * term notional.
func (f *ForeignExchangeForward) ForwardGrossValueTerm() (Money, error) {
	net, err := f.ForwardNetValueTerm()
	if err != nil {
		return Money{}, err
	}
	return net.Add(f.termNotional.Mul(f.baseSign())), nil
}
