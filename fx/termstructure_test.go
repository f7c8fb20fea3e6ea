package fx_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/meenmo/fxlib/calendar"
	"github.com/meenmo/fxlib/fx"
	"github.com/meenmo/fxlib/utils"
)

func testCurve(t *testing.T) *fx.ForwardPointCurve {
	t.Helper()

	refDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	spot := fx.NewExchangeRate(fx.EUR, fx.USD, 1.0850)
	dates := []time.Time{
		refDate.AddDate(0, 1, 0),
		refDate.AddDate(0, 3, 0),
		refDate.AddDate(0, 6, 0),
		refDate.AddDate(1, 0, 0),
	}
	points := []float64{10.0, 32.0, 65.0, 130.0}

	curve, err := fx.NewForwardPointCurve(refDate, spot, dates, points, utils.Act360, calendar.TARGET)
	if err != nil {
		t.Fatalf("NewForwardPointCurve error: %v", err)
	}
	return curve
}

func TestForwardPointsAtAnchor(t *testing.T) {
	t.Parallel()

	curve := testCurve(t)
	got, err := curve.ForwardPoints(0.0, false)
	if err != nil {
		t.Fatalf("ForwardPoints error: %v", err)
	}
	if got != 0.0 {
		t.Fatalf("points at reference date: got %f want 0", got)
	}
}

func TestForwardPointsAtNodes(t *testing.T) {
	t.Parallel()

	curve := testCurve(t)
	times := curve.Times()
	want := append([]float64{0.0}, curve.ForwardPointsVector()...)
	for i, tm := range times {
		got, err := curve.ForwardPoints(tm, false)
		if err != nil {
			t.Fatalf("ForwardPoints(%f) error: %v", tm, err)
		}
		if math.Abs(got-want[i]) > 1e-12 {
			t.Fatalf("node %d: got %f want %f", i, got, want[i])
		}
	}
}

func TestForwardPointsInterpolation(t *testing.T) {
	t.Parallel()

	curve := testCurve(t)
	times := curve.Times()

	// midpoint between the anchor and the first node
	mid := times[1] / 2.0
	got, err := curve.ForwardPoints(mid, false)
	if err != nil {
		t.Fatalf("ForwardPoints error: %v", err)
	}
	if math.Abs(got-5.0) > 1e-12 {
		t.Fatalf("midpoint: got %f want 5", got)
	}

	// midpoint between the first two quoted nodes
	mid = (times[1] + times[2]) / 2.0
	got, err = curve.ForwardPoints(mid, false)
	if err != nil {
		t.Fatalf("ForwardPoints error: %v", err)
	}
	if math.Abs(got-21.0) > 1e-12 {
		t.Fatalf("midpoint: got %f want 21", got)
	}
}

func TestForwardPointsConstantBeyondLastNode(t *testing.T) {
	t.Parallel()

	curve := testCurve(t)
	times := curve.Times()
	last := times[len(times)-1]

	for _, horizon := range []float64{last, last + 0.5, last + 10.0} {
		// flat past the last node even without the extrapolation flag
		got, err := curve.ForwardPoints(horizon, false)
		if err != nil {
			t.Fatalf("ForwardPoints(%f) error: %v", horizon, err)
		}
		if math.Abs(got-130.0) > 1e-12 {
			t.Fatalf("beyond last node at %f: got %f want 130", horizon, got)
		}
	}
}

func TestForwardPointsNegativeTime(t *testing.T) {
	t.Parallel()

	curve := testCurve(t)
	if _, err := curve.ForwardPoints(-0.1, false); err == nil {
		t.Fatal("expected error for negative time without extrapolation")
	}
	got, err := curve.ForwardPoints(-0.1, true)
	if err != nil {
		t.Fatalf("ForwardPoints error: %v", err)
	}
	if got != 0.0 {
		t.Fatalf("negative time with extrapolation: got %f want 0", got)
	}
}

func TestForwardExchangeRateFromCurve(t *testing.T) {
	t.Parallel()

	curve := testCurve(t)
	times := curve.Times()

	fwd, err := curve.ForwardExchangeRate(times[2], false)
	if err != nil {
		t.Fatalf("ForwardExchangeRate error: %v", err)
	}
	if !fwd.Source().Equal(fx.EUR) || !fwd.Target().Equal(fx.USD) {
		t.Fatalf("pair mismatch: %s/%s", fwd.Source(), fwd.Target())
	}
	if fwd.Tenor() != fx.Period("") {
		t.Fatalf("expected empty tenor, got %q", fwd.Tenor())
	}
	want := 1.0850 + 32.0/10000.0
	if math.Abs(fwd.ForwardRate()-want) > 1e-12 {
		t.Fatalf("forward rate: got %.12f want %.12f", fwd.ForwardRate(), want)
	}
}

func TestCurveConstructionFailures(t *testing.T) {
	t.Parallel()

	refDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	spot := fx.NewExchangeRate(fx.EUR, fx.USD, 1.0850)

	cases := []struct {
		name   string
		dates  []time.Time
		points []float64
	}{
		{"no nodes", nil, nil},
		{"length mismatch", []time.Time{refDate.AddDate(0, 1, 0)}, []float64{1.0, 2.0}},
		{"node on reference date", []time.Time{refDate}, []float64{1.0}},
		{"non increasing dates",
			[]time.Time{refDate.AddDate(0, 3, 0), refDate.AddDate(0, 1, 0)},
			[]float64{1.0, 2.0}},
		{"duplicate dates",
			[]time.Time{refDate.AddDate(0, 1, 0), refDate.AddDate(0, 1, 0)},
			[]float64{1.0, 2.0}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := fx.NewForwardPointCurve(refDate, spot, tc.dates, tc.points, utils.Act360, calendar.TARGET)
			if !errors.Is(err, fx.ErrInvalidCurveConstruction) {
				t.Fatalf("expected ErrInvalidCurveConstruction, got %v", err)
			}
		})
	}
}

func TestCurveFromRatesRejectsMixedPairs(t *testing.T) {
	t.Parallel()

	refDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	quotes := []fx.ForwardExchangeRate{
		fx.NewForwardExchangeRate(fx.NewExchangeRate(fx.EUR, fx.USD, 1.0850), 10.0, fx.Period("1M")),
		fx.NewForwardExchangeRate(fx.NewExchangeRate(fx.GBP, fx.USD, 1.2700), 8.0, fx.Period("3M")),
	}
	_, err := fx.NewForwardPointCurveFromRates(refDate, quotes, utils.Act360, calendar.TARGET)
	if !errors.Is(err, fx.ErrInvalidCurveConstruction) {
		t.Fatalf("expected ErrInvalidCurveConstruction, got %v", err)
	}
}

func TestCurveFromRatesNodes(t *testing.T) {
	t.Parallel()

	refDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	spot := fx.NewExchangeRate(fx.EUR, fx.USD, 1.0850)
	quotes := []fx.ForwardExchangeRate{
		fx.NewForwardExchangeRate(spot, 10.0, fx.Period("1M")),
		fx.NewForwardExchangeRate(spot, 32.0, fx.Period("3M")),
		fx.NewForwardExchangeRate(spot, 65.0, fx.Period("6M")),
	}
	curve, err := fx.NewForwardPointCurveFromRates(refDate, quotes, utils.Act360, calendar.TARGET)
	if err != nil {
		t.Fatalf("NewForwardPointCurveFromRates error: %v", err)
	}

	nodes := curve.Nodes()
	if len(nodes) != 3 {
		t.Fatalf("node count: got %d want 3", len(nodes))
	}
	for i, q := range quotes {
		wantDate := q.Tenor().AddTo(refDate)
		if !nodes[i].Date.Equal(wantDate) {
			t.Fatalf("node %d date: got %s want %s", i, nodes[i].Date, wantDate)
		}
		if nodes[i].ForwardPoints != q.ForwardPoints() {
			t.Fatalf("node %d points: got %f want %f", i, nodes[i].ForwardPoints, q.ForwardPoints())
		}
	}
	if !curve.MaxDate().Equal(quotes[2].Tenor().AddTo(refDate)) {
		t.Fatalf("MaxDate: got %s", curve.MaxDate())
	}
}
