package cache

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config selects and tunes the backend. It is read once by New.
type Config struct {
	// Enabled is the master switch; false selects the disabled backend
	// whatever Type says.
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// Type is memory (alias local) or redis (alias remote).
	Type string `yaml:"type" env:"TYPE"`

	AbsoluteExpiration time.Duration `yaml:"absolute_expiration" env:"ABSOLUTE_EXPIRATION"`
	SlidingExpiration  time.Duration `yaml:"sliding_expiration" env:"SLIDING_EXPIRATION"`

	// ConnectionString is required for redis. It may be a secret reference.
	ConnectionString string `yaml:"connection_string" env:"CONNECTION_STRING"`

	// Application and Environment form the key namespace.
	Application string `yaml:"application" env:"APPLICATION"`
	Environment string `yaml:"environment" env:"ENVIRONMENT"`

	ScanCount     int64         `yaml:"scan_count" env:"SCAN_COUNT"`
	ChunkSize     int           `yaml:"chunk_size" env:"CHUNK_SIZE"`
	ScanTimeout   time.Duration `yaml:"scan_timeout" env:"SCAN_TIMEOUT"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"SWEEP_INTERVAL"`
}

// DefaultConfig returns a disabled memory cache with a one-hour expiration.
func DefaultConfig() Config {
	return Config{
		Type:               string(KindMemory),
		AbsoluteExpiration: DefaultAbsoluteExpiration,
		ScanCount:          DefaultScanCount,
		ChunkSize:          DefaultChunkSize,
		ScanTimeout:        time.Minute,
		SweepInterval:      time.Minute,
	}
}

// ParseKind maps a configured type name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "memory", "local":
		return KindMemory, nil
	case "redis", "remote":
		return KindRedis, nil
	case "disabled", "none":
		return KindDisabled, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Validate checks the configuration. A disabled cache is always valid.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	kind, err := ParseKind(c.Type)
	if err != nil {
		return err
	}
	var errs []error
	if kind == KindRedis && strings.TrimSpace(c.ConnectionString) == "" {
		errs = append(errs, ErrMissingConnectionString)
	}
	if c.AbsoluteExpiration < 0 || c.SlidingExpiration < 0 {
		errs = append(errs, errors.New("cache: expirations must not be negative"))
	}
	if c.ChunkSize < 0 || c.ScanCount < 0 {
		errs = append(errs, errors.New("cache: chunk_size and scan_count must not be negative"))
	}
	return errors.Join(errs...)
}

// Policy returns the configured default expirations.
func (c Config) Policy() Policy {
	return Policy{
		AbsoluteExpiration: c.AbsoluteExpiration,
		SlidingExpiration:  c.SlidingExpiration,
	}
}

// Namespacer returns the configured key namespace.
func (c Config) Namespacer() Namespacer {
	return NewNamespacer(c.Application, c.Environment)
}
