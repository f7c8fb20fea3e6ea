package cache_test

import (
	"testing"
	"time"

	"github.com/meenmo/fxlib/marketdata"
	"github.com/meenmo/fxlib/marketdata/cache"
)

func testEnvelope() *marketdata.RatesEnvelope {
	return &marketdata.RatesEnvelope{
		Revision: 7,
		AsOf:     time.Date(2024, 3, 15, 16, 0, 0, 0, time.UTC),
		Rates: map[string]marketdata.RateRec{
			"EUR/USD": {
				Pair: "EUR/USD",
				Spot: 1.0850,
				Tenors: []marketdata.TenorPoint{
					{Tenor: "1M", Points: 10.0},
					{Tenor: "3M", Points: 32.0},
				},
			},
		},
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	t.Parallel()

	mc := cache.NewMemoryCache()
	defer mc.Close()

	if env, err := mc.GetRates(); err != nil || env != nil {
		t.Fatalf("empty cache: got %v, %v", env, err)
	}

	if err := mc.SetRates(testEnvelope()); err != nil {
		t.Fatalf("SetRates error: %v", err)
	}

	env, err := mc.GetRates()
	if err != nil {
		t.Fatalf("GetRates error: %v", err)
	}
	if env == nil || env.Revision != 7 {
		t.Fatalf("envelope: got %+v", env)
	}

	rec, ok := mc.GetPair("EUR/USD")
	if !ok {
		t.Fatal("GetPair: pair missing")
	}
	if rec.Spot != 1.0850 || len(rec.Tenors) != 2 {
		t.Fatalf("record: got %+v", rec)
	}
	if _, ok := mc.GetPair("GBP/USD"); ok {
		t.Fatal("GetPair: unexpected hit for unquoted pair")
	}

	rev, err := mc.GetRevision()
	if err != nil {
		t.Fatalf("GetRevision error: %v", err)
	}
	if rev != 7 {
		t.Fatalf("revision: got %d want 7", rev)
	}
}

func TestMemoryCacheRejectsNilEnvelope(t *testing.T) {
	t.Parallel()

	mc := cache.NewMemoryCache()
	defer mc.Close()
	if err := mc.SetRates(nil); err == nil {
		t.Fatal("expected error on nil envelope")
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	t.Parallel()

	mc := cache.NewMemoryCache(cache.WithMemoryOptions(&cache.Options{DefaultTTL: time.Nanosecond}))
	defer mc.Close()

	if err := mc.SetRates(testEnvelope()); err != nil {
		t.Fatalf("SetRates error: %v", err)
	}
	time.Sleep(time.Millisecond)

	if env, err := mc.GetRates(); err != nil || env != nil {
		t.Fatalf("expired cache should miss: got %v, %v", env, err)
	}
	if _, ok := mc.GetPair("EUR/USD"); ok {
		t.Fatal("expired cache should miss on GetPair")
	}
}

func TestMemoryCacheCloseDropsData(t *testing.T) {
	t.Parallel()

	mc := cache.NewMemoryCache()
	if err := mc.SetRates(testEnvelope()); err != nil {
		t.Fatalf("SetRates error: %v", err)
	}
	if err := mc.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if env, err := mc.GetRates(); err != nil || env != nil {
		t.Fatalf("closed cache should miss: got %v, %v", env, err)
	}
}
