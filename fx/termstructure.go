package fx

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/meenmo/fxlib/calendar"
	"github.com/meenmo/fxlib/utils"
)

// closeTimes reports whether two year fractions collapse to the same node.
const timeEpsilon = 1e-12

func closeTimes(t1, t2 float64) bool {
	return math.Abs(t1-t2) < timeEpsilon
}

// ForwardPointCurve interpolates quoted forward points over time for a single
// currency pair. The curve is anchored at (0, 0): at the reference date the
// forward rate is the spot rate itself. Between nodes the points are linearly
// interpolated; beyond the last node they are held constant.
//
// The curve is immutable once built; relinking to live quotes is the caller's
// concern.
type ForwardPointCurve struct {
	referenceDate time.Time
	spot          ExchangeRate
	dayCount      string
	cal           calendar.CalendarID

	dates  []time.Time
	points []float64

	// times and values carry the implicit (0, 0) anchor at index 0.
	times  []float64
	values []float64
}

// NewForwardPointCurve builds a curve from quoted (date, points) nodes. Dates
// must be strictly increasing and strictly after the reference date, and no
// two dates may collapse to the same year fraction under dayCount.
func NewForwardPointCurve(referenceDate time.Time, spot ExchangeRate, dates []time.Time,
	points []float64, dayCount string, cal calendar.CalendarID) (*ForwardPointCurve, error) {

	if len(dates) == 0 {
		return nil, fmt.Errorf("NewForwardPointCurve: no quoted nodes: %w", ErrInvalidCurveConstruction)
	}
	if len(dates) != len(points) {
		return nil, fmt.Errorf("NewForwardPointCurve: %d dates vs %d points: %w",
			len(dates), len(points), ErrInvalidCurveConstruction)
	}

	c := &ForwardPointCurve{
		referenceDate: referenceDate,
		spot:          spot,
		dayCount:      dayCount,
		cal:           cal,
		dates:         append([]time.Time(nil), dates...),
		points:        append([]float64(nil), points...),
		times:         make([]float64, len(dates)+1),
		values:        make([]float64, len(dates)+1),
	}
	c.times[0] = 0.0
	c.values[0] = 0.0

	prev := referenceDate
	for i, d := range c.dates {
		if !d.After(prev) {
			return nil, fmt.Errorf("NewForwardPointCurve: invalid date (%s vs %s): %w",
				d.Format("2006-01-02"), prev.Format("2006-01-02"), ErrInvalidCurveConstruction)
		}
		t := utils.YearFraction(referenceDate, d, dayCount)
		if closeTimes(t, c.times[i]) {
			return nil, fmt.Errorf("NewForwardPointCurve: two dates correspond to the same time "+
				"under this curve's day count convention (%s): %w",
				d.Format("2006-01-02"), ErrInvalidCurveConstruction)
		}
		c.times[i+1] = t
		c.values[i+1] = c.points[i]
		prev = d
	}
	return c, nil
}

// NewForwardPointCurveFromRates builds a curve from quoted forward exchange
// rates, dating each node off the reference date by the quote's tenor. All
// quotes must share the spot leg of the first quote.
func NewForwardPointCurveFromRates(referenceDate time.Time, quotes []ForwardExchangeRate,
	dayCount string, cal calendar.CalendarID) (*ForwardPointCurve, error) {

	if len(quotes) == 0 {
		return nil, fmt.Errorf("NewForwardPointCurveFromRates: no quotes: %w", ErrInvalidCurveConstruction)
	}
	spot := quotes[0].SpotExchangeRate()
	dates := make([]time.Time, len(quotes))
	points := make([]float64, len(quotes))
	for i, q := range quotes {
		if !q.SpotExchangeRate().SamePair(spot) {
			return nil, fmt.Errorf("NewForwardPointCurveFromRates: quote %d is %s/%s, want %s/%s: %w",
				i, q.Source(), q.Target(), spot.Source(), spot.Target(), ErrInvalidCurveConstruction)
		}
		dates[i] = q.Tenor().AddTo(referenceDate)
		points[i] = q.ForwardPoints()
	}
	return NewForwardPointCurve(referenceDate, spot, dates, points, dayCount, cal)
}

// ReferenceDate returns the curve's anchor date.
func (c *ForwardPointCurve) ReferenceDate() time.Time { return c.referenceDate }

// SpotExchangeRate returns the spot rate the forward points offset.
func (c *ForwardPointCurve) SpotExchangeRate() ExchangeRate { return c.spot }

// Source returns the source currency of the curve's pair.
func (c *ForwardPointCurve) Source() Currency { return c.spot.Source() }

// Target returns the target currency of the curve's pair.
func (c *ForwardPointCurve) Target() Currency { return c.spot.Target() }

// DayCount returns the curve's day count convention identifier.
func (c *ForwardPointCurve) DayCount() string { return c.dayCount }

// Calendar returns the curve's settlement calendar.
func (c *ForwardPointCurve) Calendar() calendar.CalendarID { return c.cal }

// MaxDate returns the last quoted node date.
func (c *ForwardPointCurve) MaxDate() time.Time { return c.dates[len(c.dates)-1] }

// Times returns the node times including the zero anchor.
func (c *ForwardPointCurve) Times() []float64 { return append([]float64(nil), c.times...) }

// Dates returns the quoted node dates.
func (c *ForwardPointCurve) Dates() []time.Time { return append([]time.Time(nil), c.dates...) }

// ForwardPointsVector returns the quoted node values.
func (c *ForwardPointCurve) ForwardPointsVector() []float64 {
	return append([]float64(nil), c.points...)
}

// Nodes returns the quoted (date, points) pairs.
func (c *ForwardPointCurve) Nodes() []Node {
	nodes := make([]Node, len(c.dates))
	for i, d := range c.dates {
		nodes[i] = Node{Date: d, ForwardPoints: c.points[i]}
	}
	return nodes
}

// Node is a quoted point on the curve.
type Node struct {
	Date          time.Time
	ForwardPoints float64
}

// ForwardPoints returns the interpolated forward points at time t (a year
// fraction from the reference date under the curve's day count). Beyond the
// last node the last quoted value is held constant whether or not extrapolate
// is set; negative times are rejected unless extrapolate is set.
func (c *ForwardPointCurve) ForwardPoints(t float64, extrapolate bool) (float64, error) {
	if t < 0 && !extrapolate {
		return 0, fmt.Errorf("ForwardPoints: time %f before reference date: %w",
			t, ErrInvalidCurveConstruction)
	}
	return c.forwardPointsImpl(t), nil
}

// ForwardPointsAt returns the interpolated forward points at a date.
func (c *ForwardPointCurve) ForwardPointsAt(d time.Time, extrapolate bool) (float64, error) {
	return c.ForwardPoints(utils.YearFraction(c.referenceDate, d, c.dayCount), extrapolate)
}

func (c *ForwardPointCurve) forwardPointsImpl(t float64) float64 {
	last := len(c.times) - 1
	if t >= c.times[last] {
		// constant extrapolation
		return c.values[last]
	}
	if t <= 0 {
		return c.values[0]
	}
	// first node with time >= t
	i := sort.SearchFloat64s(c.times, t)
	if closeTimes(c.times[i], t) {
		return c.values[i]
	}
	w := (t - c.times[i-1]) / (c.times[i] - c.times[i-1])
	return c.values[i-1] + w*(c.values[i]-c.values[i-1])
}

// ForwardExchangeRate returns the forward rate at time t built from the
// curve's spot rate and interpolated points. The result has an empty tenor:
// once read off a curve, time rather than tenor is the addressing key.
func (c *ForwardPointCurve) ForwardExchangeRate(t float64, extrapolate bool) (ForwardExchangeRate, error) {
	points, err := c.ForwardPoints(t, extrapolate)
	if err != nil {
		return ForwardExchangeRate{}, err
	}
	return NewForwardExchangeRate(c.spot, points, Period("")), nil
}

// ForwardExchangeRateAt returns the forward rate at a date.
func (c *ForwardPointCurve) ForwardExchangeRateAt(d time.Time, extrapolate bool) (ForwardExchangeRate, error) {
	return c.ForwardExchangeRate(utils.YearFraction(c.referenceDate, d, c.dayCount), extrapolate)
}
