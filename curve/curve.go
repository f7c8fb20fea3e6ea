// Package curve provides the discount curves consumed by the fx pricing
// engines. Curves are built from already-known discount factors or a flat
// zero rate; bootstrapping from market instruments is out of scope.
package curve

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/meenmo/fxlib/utils"
)

// ZeroCurve holds discount factors pinned at dates, log-linearly interpolated
// in between on an ACT/365F time axis. Beyond the last pinned date the last
// zero rate extends flat. A curve without pinned dates is flat at its zero
// rate everywhere.
type ZeroCurve struct {
	referenceDate time.Time
	dates         []time.Time
	dfs           []float64
	flatZero      float64
}

// NewFlatZeroCurve builds a curve with a single continuously-compounded zero
// rate for all maturities.
func NewFlatZeroCurve(referenceDate time.Time, zeroRate float64) *ZeroCurve {
	return &ZeroCurve{referenceDate: referenceDate, flatZero: zeroRate}
}

// NewZeroCurveFromDFs builds a curve from explicit date -> discount factor
// pairs. The reference date is pinned at DF = 1 implicitly; supplied dates
// must be after the reference date with positive factors.
func NewZeroCurveFromDFs(referenceDate time.Time, dfs map[time.Time]float64) (*ZeroCurve, error) {
	if len(dfs) == 0 {
		return nil, fmt.Errorf("NewZeroCurveFromDFs: no discount factors supplied")
	}
	dates := make([]time.Time, 0, len(dfs))
	for d := range dfs {
		if !d.After(referenceDate) {
			if d.Equal(referenceDate) {
				continue
			}
			return nil, fmt.Errorf("NewZeroCurveFromDFs: date %s not after reference %s",
				d.Format("2006-01-02"), referenceDate.Format("2006-01-02"))
		}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("NewZeroCurveFromDFs: no dates after reference date")
	}
	utils.SortDates(dates)

	c := &ZeroCurve{referenceDate: referenceDate, dates: dates, dfs: make([]float64, len(dates))}
	for i, d := range dates {
		df := dfs[d]
		if df <= 0 {
			return nil, fmt.Errorf("NewZeroCurveFromDFs: non-positive discount factor %g at %s",
				df, d.Format("2006-01-02"))
		}
		c.dfs[i] = df
	}
	return c, nil
}

// ReferenceDate returns the curve's anchor date.
func (c *ZeroCurve) ReferenceDate() time.Time { return c.referenceDate }

func (c *ZeroCurve) timeOf(d time.Time) float64 {
	return utils.YearFraction(c.referenceDate, d, utils.Act365F)
}

// DF returns the discount factor for date d. Dates at or before the reference
// date return 1.
func (c *ZeroCurve) DF(d time.Time) float64 {
	t := c.timeOf(d)
	if t <= 0 {
		return 1.0
	}
	if len(c.dates) == 0 {
		return math.Exp(-c.flatZero * t)
	}

	// first pinned date >= d
	i := sort.Search(len(c.dates), func(i int) bool {
		return !c.dates[i].Before(d)
	})
	if i < len(c.dates) && c.dates[i].Equal(d) {
		return c.dfs[i]
	}
	if i >= len(c.dates) {
		// flat zero-rate extrapolation from the last pinned node
		last := len(c.dates) - 1
		tLast := c.timeOf(c.dates[last])
		zLast := -math.Log(c.dfs[last]) / tLast
		return math.Exp(-zLast * t)
	}

	// log-linear between the surrounding pins (reference date counts as a
	// pin at DF = 1)
	t0, lnDF0 := 0.0, 0.0
	if i > 0 {
		t0 = c.timeOf(c.dates[i-1])
		lnDF0 = math.Log(c.dfs[i-1])
	}
	t1 := c.timeOf(c.dates[i])
	lnDF1 := math.Log(c.dfs[i])
	w := (t - t0) / (t1 - t0)
	return math.Exp(lnDF0 + w*(lnDF1-lnDF0))
}

// ZeroRateAt returns the continuously-compounded zero rate for date d as a
// decimal. At or before the reference date it returns the shortest available
// rate.
func (c *ZeroCurve) ZeroRateAt(d time.Time) float64 {
	t := c.timeOf(d)
	if len(c.dates) == 0 {
		return c.flatZero
	}
	if t <= 0 {
		first := c.timeOf(c.dates[0])
		return -math.Log(c.dfs[0]) / first
	}
	return -math.Log(c.DF(d)) / t
}
