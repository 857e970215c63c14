package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonwraymond/respcache/observe"
	"github.com/jonwraymond/respcache/resilience"
)

// RedisBackend stores entries in redis.
//
// Strings and byte slices are stored verbatim; every other value is stored
// as JSON. Sliding expirations are applied as a fixed TTL: redis does not
// restart a key's TTL on GET.
type RedisBackend struct {
	client redis.UniversalClient
	ns     Namespacer
	policy Policy
	mw     *observe.Middleware
	exec   *resilience.Executor

	scanCount   int64
	chunkSize   int
	scanTimeout time.Duration
	chunkClient func() redis.UniversalClient
}

// NewRedisBackend wraps an existing client. The backend owns the client and
// closes it on Close.
func NewRedisBackend(client redis.UniversalClient, ns Namespacer, policy Policy, opts ...Option) *RedisBackend {
	o := newOptions(opts)
	chunkClient := o.chunkClient
	if chunkClient == nil {
		chunkClient = cloneClient(client)
	}
	return &RedisBackend{
		client:      client,
		ns:          ns,
		policy:      policy,
		mw:          o.middleware,
		exec:        o.executor,
		scanCount:   o.scanCount,
		chunkSize:   o.chunkSize,
		scanTimeout: o.scanTimeout,
		chunkClient: chunkClient,
	}
}

func (b *RedisBackend) Kind() Kind { return KindRedis }

func (b *RedisBackend) Get(ctx context.Context, key string, out any, opts ...KeyOption) bool {
	if ValidateKey(key) != nil {
		return false
	}
	ko := newKeyOptions(opts)
	cacheKey := b.ns.Key(key, ko.application)

	hit, _ := b.mw.Observe(ctx, b.meta(opGet, key, ko.application), func(ctx context.Context) (bool, error) {
		var (
			raw   string
			found bool
		)
		err := b.exec.Execute(ctx, func(ctx context.Context) error {
			v, err := b.client.Get(ctx, cacheKey).Result()
			if errors.Is(err, redis.Nil) {
				return nil
			}
			if err != nil {
				return err
			}
			raw, found = v, true
			return nil
		})
		if err != nil {
			return false, fmt.Errorf("get %s: %w", cacheKey, err)
		}
		if !found {
			return false, nil
		}
		if err := decodeValue(raw, out); err != nil {
			return false, fmt.Errorf("decode %s: %w", cacheKey, err)
		}
		return true, nil
	})
	return hit
}

func (b *RedisBackend) Set(ctx context.Context, key string, value any, opts ...SetOption) {
	if ValidateKey(key) != nil {
		return
	}
	so := newSetOptions(opts)
	exp := b.policy.Resolve(so.absolute, so.sliding)
	cacheKey := b.ns.Key(key, "")

	_, _ = b.mw.Observe(ctx, b.meta(opSet, key, ""), func(ctx context.Context) (bool, error) {
		payload, err := encodeValue(value)
		if err != nil {
			return false, fmt.Errorf("encode %s: %w", cacheKey, err)
		}
		err = b.exec.Execute(ctx, func(ctx context.Context) error {
			return b.client.Set(ctx, cacheKey, payload, exp.TTL).Err()
		})
		if err != nil {
			return false, fmt.Errorf("set %s: %w", cacheKey, err)
		}
		return false, nil
	})
}

func (b *RedisBackend) Remove(ctx context.Context, key string) {
	if ValidateKey(key) != nil {
		return
	}
	cacheKey := b.ns.Key(key, "")

	_, _ = b.mw.Observe(ctx, b.meta(opRemove, key, ""), func(ctx context.Context) (bool, error) {
		err := b.exec.Execute(ctx, func(ctx context.Context) error {
			return b.client.Unlink(ctx, cacheKey).Err()
		})
		if err != nil {
			return false, fmt.Errorf("unlink %s: %w", cacheKey, err)
		}
		return false, nil
	})
}

// Ping checks the store is reachable.
func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close closes the client.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}

func (b *RedisBackend) meta(op, key, application string) observe.OpMeta {
	return observe.OpMeta{Op: op, Backend: string(KindRedis), Key: key, Application: application}
}

func encodeValue(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeValue fills out from a stored payload.
//
// A blank payload is the no-content marker and yields the zero value. String
// targets receive the payload as is. *any targets receive the decoded JSON,
// or the raw string when it is not JSON.
func decodeValue(raw string, out any) error {
	target, err := pointerTarget(out)
	if err != nil {
		return err
	}

	if strings.TrimSpace(raw) == "" {
		target.SetZero()
		if p, ok := out.(*any); ok {
			*p = ""
		}
		return nil
	}

	switch p := out.(type) {
	case *string:
		*p = raw
		return nil
	case *[]byte:
		*p = []byte(raw)
		return nil
	case *any:
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			*p = raw
			return nil
		}
		*p = v
		return nil
	}

	return json.Unmarshal([]byte(raw), out)
}

// cloneClient returns a constructor for fresh clients with the same options
// as client, or nil when client's type is not recognised.
func cloneClient(client redis.UniversalClient) func() redis.UniversalClient {
	switch c := client.(type) {
	case *redis.Client:
		opt := *c.Options()
		return func() redis.UniversalClient { return redis.NewClient(&opt) }
	case *redis.ClusterClient:
		opt := *c.Options()
		return func() redis.UniversalClient { return redis.NewClusterClient(&opt) }
	}
	return nil
}

var _ Backend = (*RedisBackend)(nil)
