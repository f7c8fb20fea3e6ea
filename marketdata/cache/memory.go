package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/meenmo/fxlib/marketdata"
)

// MemoryCache is an in-process Cache for single-node deployments and tests.
type MemoryCache struct {
	mu       sync.RWMutex
	opts     *Options
	envelope *marketdata.RatesEnvelope
	storedAt time.Time
}

// NewMemoryCache creates an in-memory cache instance.
func NewMemoryCache(options ...MemoryOption) *MemoryCache {
	mc := &MemoryCache{opts: DefaultOptions()}
	for _, option := range options {
		option(mc)
	}
	return mc
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithMemoryOptions sets cache options.
func WithMemoryOptions(opts *Options) MemoryOption {
	return func(mc *MemoryCache) {
		mc.opts = opts
	}
}

func (mc *MemoryCache) SetRates(envelope *marketdata.RatesEnvelope) error {
	if envelope == nil {
		return fmt.Errorf("rates envelope is nil")
	}
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.envelope = envelope
	mc.storedAt = time.Now()
	return nil
}

func (mc *MemoryCache) expired() bool {
	return mc.envelope == nil ||
		(mc.opts.DefaultTTL > 0 && time.Since(mc.storedAt) > mc.opts.DefaultTTL)
}

func (mc *MemoryCache) GetRates() (*marketdata.RatesEnvelope, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	if mc.expired() {
		return nil, nil
	}
	return mc.envelope, nil
}

func (mc *MemoryCache) GetPair(pair string) (marketdata.RateRec, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	if mc.expired() {
		return marketdata.RateRec{}, false
	}
	rec, ok := mc.envelope.Rates[pair]
	return rec, ok
}

func (mc *MemoryCache) GetRevision() (int, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	if mc.expired() {
		return 0, nil
	}
	return mc.envelope.Revision, nil
}

func (mc *MemoryCache) Close() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.envelope = nil
	return nil
}
