// Package config loads the respcache process configuration.
//
// Precedence: defaults, then a YAML file, then RESPCACHE_* environment
// variables. Nested fields join their env tags with "_", so cache.type is
// RESPCACHE_CACHE_TYPE.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jonwraymond/respcache/cache"
	"github.com/jonwraymond/respcache/httpcache"
	"github.com/jonwraymond/respcache/observe"
)

// Config is the full process configuration.
type Config struct {
	Cache     cache.Config    `yaml:"cache" env:"CACHE"`
	Log       LogConfig       `yaml:"log" env:"LOG"`
	Telemetry TelemetryConfig `yaml:"telemetry" env:"TELEMETRY"`
	Server    ServerConfig    `yaml:"server" env:"SERVER"`
	Admin     AdminConfig     `yaml:"admin" env:"ADMIN"`
	Secrets   SecretsConfig   `yaml:"secrets" env:"SECRETS"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
}

// TelemetryConfig selects tracing and metrics exporters.
type TelemetryConfig struct {
	ServiceName     string  `yaml:"service_name" env:"SERVICE_NAME"`
	Version         string  `yaml:"version" env:"VERSION"`
	TracingExporter string  `yaml:"tracing_exporter" env:"TRACING_EXPORTER"` // otlp|stdout|none
	SamplePct       float64 `yaml:"sample_pct" env:"SAMPLE_PCT"`
	MetricsExporter string  `yaml:"metrics_exporter" env:"METRICS_EXPORTER"` // otlp|prometheus|stdout|none
}

// ServerConfig configures the caching reverse proxy.
type ServerConfig struct {
	Listen          string        `yaml:"listen" env:"LISTEN"`
	Upstream        string        `yaml:"upstream" env:"UPSTREAM"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" env:"MAX_BODY_BYTES"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`

	// Routes is file-only.
	Routes []RouteConfig `yaml:"routes" env:"-"`
}

// RouteConfig overrides caching for paths under Prefix. Expirations use Go
// durations or [d.]hh:mm:ss.
type RouteConfig struct {
	Prefix             string `yaml:"prefix"`
	AbsoluteExpiration string `yaml:"absolute_expiration"`
	SlidingExpiration  string `yaml:"sliding_expiration"`
	Bypass             bool   `yaml:"bypass"`
}

// Expirations parses the route's expiration strings.
func (r RouteConfig) Expirations() (absolute, sliding time.Duration, err error) {
	return httpcache.ParseExpirations(r.AbsoluteExpiration, r.SlidingExpiration)
}

// AdminConfig guards the purge endpoint.
type AdminConfig struct {
	Path string `yaml:"path" env:"PATH"`

	// JWTSecret may be a secret reference. Empty disables the endpoint.
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
	Issuer    string `yaml:"issuer" env:"ISSUER"`
	Role      string `yaml:"role" env:"ROLE"`

	PurgeRate  float64 `yaml:"purge_rate" env:"PURGE_RATE"`
	PurgeBurst int     `yaml:"purge_burst" env:"PURGE_BURST"`
}

// SecretsConfig configures secret providers.
type SecretsConfig struct {
	AWSRegion string `yaml:"aws_region" env:"AWS_REGION"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Cache: cache.DefaultConfig(),
		Log:   LogConfig{Level: "info"},
		Telemetry: TelemetryConfig{
			ServiceName:     "respcache",
			TracingExporter: "none",
			SamplePct:       1,
			MetricsExporter: "prometheus",
		},
		Server: ServerConfig{
			Listen:          ":8080",
			MaxBodyBytes:    httpcache.DefaultMaxBodyBytes,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Admin: AdminConfig{
			Path:       "/_cache",
			Role:       "cache-admin",
			PurgeRate:  1,
			PurgeBurst: 5,
		},
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Cache.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Server.Upstream != "" {
		u, err := url.Parse(c.Server.Upstream)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("server.upstream: %q is not an absolute URL", c.Server.Upstream))
		}
	}
	for i, r := range c.Server.Routes {
		if !strings.HasPrefix(r.Prefix, "/") {
			errs = append(errs, fmt.Errorf("server.routes[%d]: prefix must start with /", i))
		}
		if _, _, err := r.Expirations(); err != nil {
			errs = append(errs, fmt.Errorf("server.routes[%d]: %w", i, err))
		}
	}
	if c.Admin.JWTSecret != "" && !strings.HasPrefix(c.Admin.Path, "/") {
		errs = append(errs, fmt.Errorf("admin.path: %q must start with /", c.Admin.Path))
	}
	obs := c.ObserveConfig()
	if err := obs.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ObserveConfig maps the log and telemetry sections onto observe.Config.
func (c *Config) ObserveConfig() observe.Config {
	t := c.Telemetry
	return observe.Config{
		ServiceName: t.ServiceName,
		Version:     t.Version,
		Tracing: observe.TracingConfig{
			Enabled:   t.TracingExporter != "" && t.TracingExporter != "none",
			Exporter:  t.TracingExporter,
			SamplePct: t.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  t.MetricsExporter != "" && t.MetricsExporter != "none",
			Exporter: t.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: c.Log.Level != "" && c.Log.Level != "off",
			Level:   c.Log.Level,
		},
	}
}
