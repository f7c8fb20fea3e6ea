package fx_test

import (
	"errors"
	"math"
	"testing"

	"github.com/meenmo/fxlib/fx"
)

func TestForwardRateAllIn(t *testing.T) {
	t.Parallel()

	spot := fx.NewExchangeRate(fx.EUR, fx.USD, 1.1351)
	fwd := fx.NewForwardExchangeRate(spot, 45.0, fx.Period("3M"))

	if math.Abs(fwd.ForwardRate()-1.1396) > 1e-12 {
		t.Fatalf("all-in rate mismatch: got %.12f want 1.1396", fwd.ForwardRate())
	}
	if fwd.Tenor() != fx.Period("3M") {
		t.Fatalf("tenor mismatch: got %q", fwd.Tenor())
	}
}

func TestForwardExchangeUsesForwardRate(t *testing.T) {
	t.Parallel()

	spot := fx.NewExchangeRate(fx.EUR, fx.USD, 1.1351)
	fwd := fx.NewForwardExchangeRate(spot, 45.0, fx.Period("3M"))

	got, err := fwd.Exchange(fx.NewMoney(10000, fx.EUR))
	if err != nil {
		t.Fatalf("Exchange error: %v", err)
	}
	if !got.Currency().Equal(fx.USD) {
		t.Fatalf("currency mismatch: got %s", got.Currency())
	}
	if math.Abs(got.Value()-11396.0) > 1e-9 {
		t.Fatalf("forward exchange mismatch: got %.9f want 11396", got.Value())
	}

	_, err = fwd.Exchange(fx.NewMoney(1, fx.JPY))
	if !errors.Is(err, fx.ErrIncompatibleCurrency) {
		t.Fatalf("expected ErrIncompatibleCurrency, got %v", err)
	}
}

func TestForwardInverseRoundTrip(t *testing.T) {
	t.Parallel()

	spot := fx.NewExchangeRate(fx.EUR, fx.USD, 1.1351)
	fwd := fx.NewForwardExchangeRate(spot, 45.0, fx.Period("3M"))

	inv := fwd.Inverse()
	if !inv.Source().Equal(fx.USD) || !inv.Target().Equal(fx.EUR) {
		t.Fatalf("inverse pair mismatch: %s/%s", inv.Source(), inv.Target())
	}
	// The inverse all-in rate must be the reciprocal of the original.
	if math.Abs(inv.ForwardRate()-1.0/fwd.ForwardRate()) > 1e-12 {
		t.Fatalf("inverse forward rate mismatch: got %.12f want %.12f",
			inv.ForwardRate(), 1.0/fwd.ForwardRate())
	}

	twice := inv.Inverse()
	if !twice.Source().Equal(fwd.Source()) || !twice.Target().Equal(fwd.Target()) {
		t.Fatalf("currencies not recovered: %s/%s", twice.Source(), twice.Target())
	}
	if math.Abs(twice.SpotRate()-fwd.SpotRate()) > 1e-10 {
		t.Fatalf("spot not recovered: got %.12f want %.12f", twice.SpotRate(), fwd.SpotRate())
	}
	if math.Abs(twice.ForwardPoints()-fwd.ForwardPoints()) > 1e-8 {
		t.Fatalf("points not recovered: got %.12f want %.12f", twice.ForwardPoints(), fwd.ForwardPoints())
	}
}

func TestChainForwardRatesTenorMismatch(t *testing.T) {
	t.Parallel()

	eurUSD := fx.NewForwardExchangeRate(fx.NewExchangeRate(fx.EUR, fx.USD, 1.10), 20.0, fx.Period("3M"))
	usdJPY := fx.NewForwardExchangeRate(fx.NewExchangeRate(fx.USD, fx.JPY, 110.0), 15.0, fx.Period("6M"))

	_, err := fx.ChainForwardRates(eurUSD, usdJPY)
	if !errors.Is(err, fx.ErrTenorMismatch) {
		t.Fatalf("expected ErrTenorMismatch, got %v", err)
	}
}

func TestChainForwardRatesNotChainable(t *testing.T) {
	t.Parallel()

	eurUSD := fx.NewForwardExchangeRate(fx.NewExchangeRate(fx.EUR, fx.USD, 1.10), 20.0, fx.Period("3M"))
	gbpJPY := fx.NewForwardExchangeRate(fx.NewExchangeRate(fx.GBP, fx.JPY, 137.5), 5.0, fx.Period("3M"))

	_, err := fx.ChainForwardRates(eurUSD, gbpJPY)
	if !errors.Is(err, fx.ErrNotChainable) {
		t.Fatalf("expected ErrNotChainable, got %v", err)
	}
}

// For the shared-middle-currency case the pip product formula must agree with
// combining the all-in forward rates directly.
func TestChainForwardRatesTargetSource(t *testing.T) {
	t.Parallel()

	eurUSD := fx.NewForwardExchangeRate(fx.NewExchangeRate(fx.EUR, fx.USD, 1.10), 20.0, fx.Period("3M"))
	usdJPY := fx.NewForwardExchangeRate(fx.NewExchangeRate(fx.USD, fx.JPY, 110.0), 15.0, fx.Period("3M"))

	chained, err := fx.ChainForwardRates(eurUSD, usdJPY)
	if err != nil {
		t.Fatalf("ChainForwardRates error: %v", err)
	}
	if chained.Type() != fx.Derived {
		t.Fatalf("expected Derived, got %s", chained.Type())
	}
	if !chained.Source().Equal(fx.EUR) || !chained.Target().Equal(fx.JPY) {
		t.Fatalf("pair mismatch: %s/%s", chained.Source(), chained.Target())
	}
	if math.Abs(chained.SpotRate()-121.0) > 1e-9 {
		t.Fatalf("spot mismatch: got %.9f want 121", chained.SpotRate())
	}

	wantFwd := eurUSD.ForwardRate() * usdJPY.ForwardRate()
	if math.Abs(chained.ForwardRate()-wantFwd) > 1e-9 {
		t.Fatalf("forward rate mismatch: got %.12f want %.12f", chained.ForwardRate(), wantFwd)
	}
	// 1.10*15 + 110*20 + 20*15/10000
	if math.Abs(chained.ForwardPoints()-2216.53) > 1e-6 {
		t.Fatalf("points mismatch: got %.8f want 2216.53", chained.ForwardPoints())
	}
}

func TestChainForwardRatesTargetTarget(t *testing.T) {
	t.Parallel()

	eurUSD := fx.NewForwardExchangeRate(fx.NewExchangeRate(fx.EUR, fx.USD, 1.10), 20.0, fx.Period("3M"))
	gbpUSD := fx.NewForwardExchangeRate(fx.NewExchangeRate(fx.GBP, fx.USD, 1.25), -10.0, fx.Period("3M"))

	chained, err := fx.ChainForwardRates(eurUSD, gbpUSD)
	if err != nil {
		t.Fatalf("ChainForwardRates error: %v", err)
	}
	if !chained.Source().Equal(fx.EUR) || !chained.Target().Equal(fx.GBP) {
		t.Fatalf("pair mismatch: %s/%s", chained.Source(), chained.Target())
	}

	wantFwd := eurUSD.ForwardRate() / gbpUSD.ForwardRate()
	if math.Abs(chained.ForwardRate()-wantFwd) > 1e-12 {
		t.Fatalf("forward rate mismatch: got %.12f want %.12f", chained.ForwardRate(), wantFwd)
	}
}
