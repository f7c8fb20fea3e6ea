// Package cache shares forward-point rate envelopes between valuation runs.
// The pricing core never touches it; drivers load an envelope once, cache it,
// and rebuild curves from the cached copy on later runs.
package cache

import (
	"time"

	"github.com/meenmo/fxlib/marketdata"
)

// Cache stores the latest quoted rates envelope with its revision number.
type Cache interface {
	SetRates(envelope *marketdata.RatesEnvelope) error
	GetRates() (*marketdata.RatesEnvelope, error)
	// GetPair returns the cached record for a pair like "EUR/USD".
	GetPair(pair string) (marketdata.RateRec, bool)
	GetRevision() (int, error)
	Close() error
}

// Options configures cache behavior.
type Options struct {
	// DefaultTTL bounds how long a cached envelope stays valid.
	DefaultTTL time.Duration
}

// DefaultOptions returns production defaults.
func DefaultOptions() *Options {
	return &Options{DefaultTTL: 24 * time.Hour}
}
