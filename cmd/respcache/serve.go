package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/respcache/auth"
	"github.com/jonwraymond/respcache/cache"
	"github.com/jonwraymond/respcache/config"
	"github.com/jonwraymond/respcache/health"
	"github.com/jonwraymond/respcache/httpcache"
	"github.com/jonwraymond/respcache/observe"
	"github.com/jonwraymond/respcache/resilience"
)

func serveCmd(configPath *string) *cobra.Command {
	var listen, upstream string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the caching reverse proxy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx, *configPath)
			if err != nil {
				return err
			}
			defer func() { _ = a.close(ctx) }()

			if listen != "" {
				a.cfg.Server.Listen = listen
			}
			if upstream != "" {
				a.cfg.Server.Upstream = upstream
			}

			handler, err := newServeMux(a)
			if err != nil {
				return err
			}
			return run(ctx, a, handler)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (overrides server.listen)")
	cmd.Flags().StringVar(&upstream, "upstream", "", "Upstream base URL (overrides server.upstream)")
	return cmd
}

func run(ctx context.Context, a *app, handler http.Handler) error {
	s := a.cfg.Server
	srv := &http.Server{
		Addr:              s.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.ReadTimeout,
		WriteTimeout:      s.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info(ctx, "respcache listening",
			observe.F("addr", s.Listen),
			observe.F("upstream", s.Upstream),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.logger.Info(ctx, "shutdown signal received", observe.F("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newServeMux wires the proxy, health, metrics and admin endpoints.
func newServeMux(a *app) (*http.ServeMux, error) {
	cfg := a.cfg
	if cfg.Server.Upstream == "" {
		return nil, errors.New("server.upstream is required")
	}
	target, err := url.Parse(cfg.Server.Upstream)
	if err != nil {
		return nil, fmt.Errorf("server.upstream: %w", err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		a.logger.Error(r.Context(), "upstream request failed",
			observe.F("path", r.URL.Path),
			observe.F("error", err),
		)
		w.WriteHeader(http.StatusBadGateway)
	}

	routed, err := newRouter(a.backend, cfg.Server, a.logger, proxy)
	if err != nil {
		return nil, err
	}

	agg := health.NewAggregator()
	agg.Register(health.NewBackendChecker(a.backend))
	if p, ok := a.backend.(health.Pinger); ok {
		agg.Register(health.NewPingChecker(string(a.backend.Kind()), p, 100*time.Millisecond))
	}

	mux := http.NewServeMux()
	mux.Handle("/", routed)
	health.RegisterHandlers(mux, agg)
	mux.Handle("/metrics", promhttp.Handler())

	if err := mountAdmin(mux, a); err != nil {
		return nil, err
	}
	return mux, nil
}

// mountAdmin exposes the purge endpoint when a JWT secret is configured.
func mountAdmin(mux *http.ServeMux, a *app) error {
	admin := a.cfg.Admin
	if admin.JWTSecret == "" {
		a.logger.Info(context.Background(), "admin endpoint disabled: no jwt secret")
		return nil
	}
	authn, err := auth.NewJWTAuthenticator(auth.JWTConfig{
		Secret: []byte(admin.JWTSecret),
		Issuer: admin.Issuer,
		Leeway: 30 * time.Second,
	})
	if err != nil {
		return err
	}
	purge := httpcache.NewPurgeHandler(a.backend,
		httpcache.WithPurgeLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Rate:  admin.PurgeRate,
			Burst: admin.PurgeBurst,
		})),
		httpcache.WithPurgeLogger(a.logger),
	)
	mux.Handle(admin.Path, auth.RequireJWT(authn, admin.Role, a.logger)(purge))
	return nil
}

type route struct {
	prefix  string
	handler http.Handler
}

// router sends each request through the caching middleware configured for
// the longest matching route prefix.
type router struct {
	routes   []route
	fallback http.Handler
}

func newRouter(backend cache.Backend, server config.ServerConfig, logger observe.Logger, upstream http.Handler) (*router, error) {
	base := []httpcache.Option{
		httpcache.WithMaxBodyBytes(server.MaxBodyBytes),
		httpcache.WithLogger(logger),
	}

	r := &router{fallback: httpcache.New(backend, base...).Handler(upstream)}
	for _, rc := range server.Routes {
		if rc.Bypass {
			r.routes = append(r.routes, route{prefix: rc.Prefix, handler: upstream})
			continue
		}
		abs, sliding, err := rc.Expirations()
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", rc.Prefix, err)
		}
		opts := append(base[:len(base):len(base)], httpcache.WithExpirations(abs, sliding))
		r.routes = append(r.routes, route{
			prefix:  rc.Prefix,
			handler: httpcache.New(backend, opts...).Handler(upstream),
		})
	}
	sort.SliceStable(r.routes, func(i, j int) bool {
		return len(r.routes[i].prefix) > len(r.routes[j].prefix)
	})
	return r, nil
}

func (r *router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	for _, rt := range r.routes {
		if strings.HasPrefix(req.URL.Path, rt.prefix) {
			rt.handler.ServeHTTP(w, req)
			return
		}
	}
	r.fallback.ServeHTTP(w, req)
}
