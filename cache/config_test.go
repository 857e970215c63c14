package cache

import (
	"errors"
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", KindMemory, false},
		{"memory", KindMemory, false},
		{"Local", KindMemory, false},
		{"redis", KindRedis, false},
		{"REMOTE", KindRedis, false},
		{"disabled", KindDisabled, false},
		{"memcached", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v", tt.in, err)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownKind) {
			t.Errorf("ParseKind(%q) error = %v, want ErrUnknownKind", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "default", mutate: func(*Config) {}},
		{name: "disabled ignores everything", mutate: func(c *Config) { c.Type = "bogus" }},
		{name: "enabled memory", mutate: func(c *Config) { c.Enabled = true }},
		{
			name:    "redis needs connection string",
			mutate:  func(c *Config) { c.Enabled, c.Type = true, "redis" },
			wantErr: ErrMissingConnectionString,
		},
		{
			name:    "unknown type",
			mutate:  func(c *Config) { c.Enabled, c.Type = true, "bogus" },
			wantErr: ErrUnknownKind,
		},
		{
			name:    "negative expiration",
			mutate:  func(c *Config) { c.Enabled, c.AbsoluteExpiration = true, -time.Second },
			wantErr: errAny,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			switch {
			case tt.wantErr == nil && err != nil:
				t.Fatalf("Validate() error = %v", err)
			case tt.wantErr == errAny && err == nil:
				t.Fatal("Validate() expected an error")
			case tt.wantErr != nil && tt.wantErr != errAny && !errors.Is(err, tt.wantErr):
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

var errAny = errors.New("any error")

func TestConfig_PolicyAndNamespacer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SlidingExpiration = time.Minute
	cfg.Application, cfg.Environment = "App", "Test"

	if got := cfg.Policy(); got.AbsoluteExpiration != time.Hour || got.SlidingExpiration != time.Minute {
		t.Errorf("Policy() = %+v", got)
	}
	if got := cfg.Namespacer().Key("k", ""); got != "APP|TEST|K" {
		t.Errorf("Namespacer().Key() = %q", got)
	}
}
