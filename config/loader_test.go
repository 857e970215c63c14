package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "respcache.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoader_Defaults(t *testing.T) {
	l := NewLoader().WithConfigPath(filepath.Join(t.TempDir(), "missing.yaml"))
	l.lookupEnv = envMap(nil)

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Cache.Enabled {
		t.Error("cache should be disabled by default")
	}
	if cfg.Server.Listen != ":8080" || cfg.Admin.Path != "/_cache" {
		t.Errorf("defaults = %+v %+v", cfg.Server, cfg.Admin)
	}
	if cfg.Cache.AbsoluteExpiration != time.Hour {
		t.Errorf("AbsoluteExpiration = %v", cfg.Cache.AbsoluteExpiration)
	}
}

func TestLoader_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
cache:
  enabled: true
  type: redis
  connection_string: localhost:6379
  application: Billing.Api
  environment: Staging
  absolute_expiration: 10m
  sliding_expiration: 2m
server:
  upstream: http://billing.internal:8080
  routes:
    - prefix: /api/reports
      absolute_expiration: "01:00:00"
    - prefix: /api/live
      bypass: true
log:
  level: debug
`)
	l := NewLoader().WithConfigPath(path)
	l.lookupEnv = envMap(map[string]string{
		"RESPCACHE_CACHE_SLIDING_EXPIRATION": "30s",
		"RESPCACHE_CACHE_CHUNK_SIZE":         "100",
		"RESPCACHE_ADMIN_JWT_SECRET":         "secretref:ssm:/Billing/Staging/AdminSecret",
		"RESPCACHE_LOG_LEVEL":                "",
	})

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	c := cfg.Cache
	if !c.Enabled || c.Type != "redis" || c.Application != "Billing.Api" || c.Environment != "Staging" {
		t.Errorf("cache = %+v", c)
	}
	if c.AbsoluteExpiration != 10*time.Minute {
		t.Errorf("AbsoluteExpiration = %v", c.AbsoluteExpiration)
	}
	if c.SlidingExpiration != 30*time.Second {
		t.Errorf("SlidingExpiration = %v, want env override", c.SlidingExpiration)
	}
	if c.ChunkSize != 100 {
		t.Errorf("ChunkSize = %d", c.ChunkSize)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("empty env var should not override: level = %q", cfg.Log.Level)
	}
	if cfg.Admin.JWTSecret != "secretref:ssm:/Billing/Staging/AdminSecret" {
		t.Errorf("JWTSecret = %q", cfg.Admin.JWTSecret)
	}

	if len(cfg.Server.Routes) != 2 {
		t.Fatalf("routes = %+v", cfg.Server.Routes)
	}
	abs, sliding, err := cfg.Server.Routes[0].Expirations()
	if err != nil || abs != time.Hour || sliding != 0 {
		t.Errorf("route expirations = %v %v %v", abs, sliding, err)
	}
	if !cfg.Server.Routes[1].Bypass {
		t.Error("route bypass not parsed")
	}
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
		want string
	}{
		{name: "bad yaml", file: "cache: [", want: "parse config"},
		{name: "bad bool", env: map[string]string{"RESPCACHE_CACHE_ENABLED": "maybe"}, want: "RESPCACHE_CACHE_ENABLED"},
		{name: "bad duration", env: map[string]string{"RESPCACHE_SERVER_READ_TIMEOUT": "soon"}, want: "RESPCACHE_SERVER_READ_TIMEOUT"},
		{name: "redis without connection", env: map[string]string{"RESPCACHE_CACHE_ENABLED": "true", "RESPCACHE_CACHE_TYPE": "redis"}, want: "connection string"},
		{name: "unknown type", env: map[string]string{"RESPCACHE_CACHE_ENABLED": "true", "RESPCACHE_CACHE_TYPE": "memcached"}, want: "memcached"},
		{name: "relative upstream", env: map[string]string{"RESPCACHE_SERVER_UPSTREAM": "billing:8080"}, want: "server.upstream"},
		{name: "bad route", file: "server:\n  routes:\n    - prefix: api\n      sliding_expiration: x\n", want: "server.routes[0]"},
		{name: "bad exporter", env: map[string]string{"RESPCACHE_TELEMETRY_TRACING_EXPORTER": "zipkin"}, want: "zipkin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoader()
			if tt.file != "" {
				l.WithConfigPath(writeConfig(t, tt.file))
			}
			l.lookupEnv = envMap(tt.env)
			_, err := l.Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestObserveConfig(t *testing.T) {
	cfg := Default()
	obs := cfg.ObserveConfig()
	if obs.ServiceName != "respcache" || obs.Tracing.Enabled || !obs.Metrics.Enabled || obs.Metrics.Exporter != "prometheus" {
		t.Errorf("ObserveConfig() = %+v", obs)
	}
	if !obs.Logging.Enabled || obs.Logging.Level != "info" {
		t.Errorf("logging = %+v", obs.Logging)
	}

	cfg.Log.Level = "off"
	if cfg.ObserveConfig().Logging.Enabled {
		t.Error("level off should disable logging")
	}
}
