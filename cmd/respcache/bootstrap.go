package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonwraymond/respcache/cache"
	"github.com/jonwraymond/respcache/config"
	"github.com/jonwraymond/respcache/observe"
	"github.com/jonwraymond/respcache/resilience"
	"github.com/jonwraymond/respcache/secret"
)

// app holds everything a command needs once configuration is loaded.
type app struct {
	cfg      *config.Config
	observer observe.Observer
	logger   observe.Logger
	resolver *secret.Resolver
	backend  cache.Backend
}

func loadConfig(path string) (*config.Config, error) {
	return config.NewLoader().WithConfigPath(path).Load()
}

// bootstrap loads configuration, starts telemetry and connects the backend.
// A backend that cannot be built is fatal.
func bootstrap(ctx context.Context, configPath string) (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	obs, err := observe.NewObserver(ctx, cfg.ObserveConfig())
	if err != nil {
		return nil, fmt.Errorf("start telemetry: %w", err)
	}
	a := &app{cfg: cfg, observer: obs, logger: obs.Logger()}

	a.resolver, err = newResolver(cfg)
	if err != nil {
		_ = a.close(ctx)
		return nil, err
	}

	if err := errors.Join(a.resolveCacheSecret(ctx), a.resolveAdminSecret(ctx)); err != nil {
		_ = a.close(ctx)
		return nil, err
	}

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		_ = a.close(ctx)
		return nil, fmt.Errorf("create cache metrics: %w", err)
	}

	a.backend, err = cache.New(ctx, cfg.Cache,
		cache.WithMiddleware(mw),
		cache.WithExecutor(newExecutor(a.logger)),
	)
	if err != nil {
		_ = a.close(ctx)
		return nil, fmt.Errorf("create %s cache: %w", cfg.Cache.Type, err)
	}
	a.logger.Info(ctx, "cache ready",
		observe.F("backend", string(a.backend.Kind())),
		observe.F("application", cfg.Cache.Application),
		observe.F("environment", cfg.Cache.Environment),
	)
	return a, nil
}

func newResolver(cfg *config.Config) (*secret.Resolver, error) {
	ssm, err := secret.DefaultRegistry.Create(secret.SSMProviderName, map[string]any{"region": cfg.Secrets.AWSRegion})
	if err != nil {
		return nil, err
	}
	return secret.NewResolver(true, ssm), nil
}

// resolveCacheSecret picks the redis connection string.
func (a *app) resolveCacheSecret(ctx context.Context) error {
	c := &a.cfg.Cache
	if !c.Enabled {
		return nil
	}
	kind, err := cache.ParseKind(c.Type)
	if err != nil || kind != cache.KindRedis {
		return err
	}
	conn, err := secret.RedisConnectionString(ctx, a.resolver, c.Application, c.Environment, c.ConnectionString)
	if err != nil {
		return err
	}
	c.ConnectionString = conn
	return nil
}

func (a *app) resolveAdminSecret(ctx context.Context) error {
	if a.cfg.Admin.JWTSecret == "" {
		return nil
	}
	v, err := a.resolver.ResolveValue(ctx, a.cfg.Admin.JWTSecret)
	if err != nil {
		return fmt.Errorf("resolve admin.jwt_secret: %w", err)
	}
	a.cfg.Admin.JWTSecret = v
	return nil
}

// loadAdmin loads the config with only the admin secret resolved, for
// commands that never touch the store.
func loadAdmin(ctx context.Context, configPath string) (*config.Config, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg}
	if a.resolver, err = newResolver(cfg); err != nil {
		return nil, err
	}
	defer func() { _ = a.resolver.Close() }()

	if err := a.resolveAdminSecret(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Admin.JWTSecret) == "" {
		return nil, errors.New("admin.jwt_secret is not configured")
	}
	return cfg, nil
}

// newExecutor trips after repeated store failures so a dead redis costs one
// fast rejection per call instead of a dial timeout. Pattern removal only
// consults the breaker; its scan is bounded by cache.scan_timeout.
func newExecutor(logger observe.Logger) *resilience.Executor {
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		MaxFailures:  5,
		ResetTimeout: 30 * time.Second,
		OnStateChange: func(from, to resilience.State) {
			logger.Warn(context.Background(), "cache circuit breaker changed state",
				observe.F("from", from.String()),
				observe.F("to", to.String()),
			)
		},
	})
	return resilience.NewExecutor(
		resilience.WithCircuitBreaker(cb),
		resilience.WithTimeout(2*time.Second),
	)
}

func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.backend != nil {
		errs = append(errs, a.backend.Close())
	}
	if a.resolver != nil {
		errs = append(errs, a.resolver.Close())
	}
	if a.observer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		errs = append(errs, a.observer.Shutdown(shutdownCtx))
	}
	return errors.Join(errs...)
}
