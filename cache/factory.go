package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jonwraymond/respcache/observe"
)

// New builds the backend cfg describes. It is called once at startup and the
// result is shared for the life of the process.
//
// For redis, cfg.ConnectionString must already be resolved; New parses it,
// connects and PINGs (with retry). Any failure there is returned and should
// be treated as fatal.
func New(ctx context.Context, cfg Config, opts ...Option) (Backend, error) {
	if !cfg.Enabled {
		return NewDisabledBackend(), nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kind, err := ParseKind(cfg.Type)
	if err != nil {
		return nil, err
	}

	opts = append([]Option{
		WithScanCount(cfg.ScanCount),
		WithChunkSize(cfg.ChunkSize),
		WithScanTimeout(cfg.ScanTimeout),
		WithSweepInterval(cfg.SweepInterval),
	}, opts...)

	switch kind {
	case KindDisabled:
		return NewDisabledBackend(), nil
	case KindMemory:
		return NewMemoryBackend(cfg.Namespacer(), cfg.Policy(), opts...), nil
	default:
		return newRedis(ctx, cfg, opts)
	}
}

func newRedis(ctx context.Context, cfg Config, opts []Option) (Backend, error) {
	uopts, err := ParseConnectionString(cfg.ConnectionString)
	if err != nil {
		return nil, err
	}

	o := newOptions(opts)
	client := o.newClient(uopts)

	err = o.startupRetry.Execute(ctx, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: connect to redis %v: %w", uopts.Addrs, err)
	}

	o.middleware.Logger().Info(ctx, "redis cache connected",
		observe.F("addrs", uopts.Addrs),
		observe.F("db", uopts.DB),
		observe.F("tls", uopts.TLSConfig != nil),
	)

	if o.chunkClient == nil {
		opts = append(opts, WithChunkClient(func() redis.UniversalClient {
			return o.newClient(uopts)
		}))
	}
	return NewRedisBackend(client, cfg.Namespacer(), cfg.Policy(), opts...), nil
}
