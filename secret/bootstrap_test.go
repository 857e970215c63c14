package secret

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRedisConnectionString(t *testing.T) {
	fake := &fakeSSM{params: map[string]string{
		"/Billing/Staging/Redis/ConnectionString": "redis.staging:6379,password=pw",
	}}
	r := NewResolver(true, NewSSMProvider(fake), NewStaticProvider("static", map[string]string{"conn": "static:6379"}))
	ctx := context.Background()

	tests := []struct {
		name        string
		environment string
		configured  string
		want        string
	}{
		{name: "development", environment: "Development", want: LocalRedis},
		{name: "no environment", environment: "", want: LocalRedis},
		{name: "parameter store", environment: "Staging", want: "redis.staging:6379,password=pw"},
		{name: "configured wins", environment: "Staging", configured: "cfg:6379", want: "cfg:6379"},
		{name: "configured reference", environment: "Staging", configured: "secretref:static:conn", want: "static:6379"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RedisConnectionString(ctx, r, "Billing", tt.environment, tt.configured)
			if err != nil {
				t.Fatalf("RedisConnectionString() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("RedisConnectionString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRedisConnectionString_MissingParameter(t *testing.T) {
	r := NewResolver(true, NewSSMProvider(&fakeSSM{}))
	_, err := RedisConnectionString(context.Background(), r, "Billing", "Production", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), "Billing/Production") {
		t.Errorf("error should name the application and environment: %v", err)
	}
}

func TestRedisConnectionString_EnvironmentIsCaseSensitive(t *testing.T) {
	r := NewResolver(true, NewSSMProvider(&fakeSSM{}))
	if _, err := RedisConnectionString(context.Background(), r, "Billing", "development", ""); err == nil {
		t.Error("lower-case development should not select the local instance")
	}
}

func TestRedisParameterName(t *testing.T) {
	if got := RedisParameterName("Billing", "Prod"); got != "/Billing/Prod/Redis/ConnectionString" {
		t.Errorf("RedisParameterName() = %q", got)
	}
}
