package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/meenmo/fxlib/marketdata"
)

const ratesKey = "fxlib:rates"

// RedisCache implements Cache on Redis so several valuation workers can share
// one quoted envelope.
type RedisCache struct {
	client *redis.Client
	opts   *Options
	ctx    context.Context
}

// NewRedisCache connects to the Redis at addr (redis://[:pass@]host:port[/db]).
func NewRedisCache(addr string, options ...RedisOption) (*RedisCache, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("NewRedisCache: can't parse url %q: %w", addr, err)
	}
	var passwd string
	if u.User != nil {
		passwd, _ = u.User.Password()
	}
	db := 0
	if len(u.Path) > 1 {
		db, err = strconv.Atoi(u.Path[1:])
		if err != nil {
			return nil, fmt.Errorf("NewRedisCache: bad db in %q: %w", addr, err)
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     u.Host,
		Password: passwd,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("NewRedisCache: failed to connect: %w", err)
	}

	rc := &RedisCache{client: client, opts: DefaultOptions(), ctx: ctx}
	for _, option := range options {
		option(rc)
	}
	return rc, nil
}

// RedisOption configures a RedisCache.
type RedisOption func(*RedisCache)

// WithRedisOptions sets cache options.
func WithRedisOptions(opts *Options) RedisOption {
	return func(rc *RedisCache) {
		rc.opts = opts
	}
}

// WithContext sets the context for cache operations.
func WithContext(ctx context.Context) RedisOption {
	return func(rc *RedisCache) {
		rc.ctx = ctx
	}
}

func (rc *RedisCache) SetRates(envelope *marketdata.RatesEnvelope) error {
	if envelope == nil {
		return fmt.Errorf("rates envelope is nil")
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal rates envelope: %w", err)
	}
	return rc.client.Set(rc.ctx, ratesKey, data, rc.opts.DefaultTTL).Err()
}

func (rc *RedisCache) GetRates() (*marketdata.RatesEnvelope, error) {
	data, err := rc.client.Get(rc.ctx, ratesKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // nothing cached
		}
		return nil, fmt.Errorf("failed to get rates from Redis: %w", err)
	}
	var envelope marketdata.RatesEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rates envelope: %w", err)
	}
	return &envelope, nil
}

func (rc *RedisCache) GetPair(pair string) (marketdata.RateRec, bool) {
	envelope, err := rc.GetRates()
	if err != nil || envelope == nil {
		return marketdata.RateRec{}, false
	}
	rec, ok := envelope.Rates[pair]
	return rec, ok
}

func (rc *RedisCache) GetRevision() (int, error) {
	envelope, err := rc.GetRates()
	if err != nil {
		return 0, err
	}
	if envelope == nil {
		return 0, nil
	}
	return envelope.Revision, nil
}

func (rc *RedisCache) Close() error {
	return rc.client.Close()
}
