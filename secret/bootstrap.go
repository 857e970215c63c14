package secret

import (
	"context"
	"fmt"
	"strings"
)

// DevelopmentEnvironment selects the local redis instance.
const DevelopmentEnvironment = "Development"

// LocalRedis is the connection string used in Development.
const LocalRedis = "localhost:6379"

// RedisParameterName returns the Parameter Store path holding the redis
// connection string for an application and environment.
func RedisParameterName(application, environment string) string {
	return fmt.Sprintf("/%s/%s/Redis/ConnectionString", application, environment)
}

// RedisConnectionString picks the redis connection string.
//
// An explicit configured value wins and may itself contain references.
// Otherwise Development (or no environment) uses LocalRedis, and every other
// environment reads RedisParameterName through the ssm provider.
func RedisConnectionString(ctx context.Context, r *Resolver, application, environment, configured string) (string, error) {
	if strings.TrimSpace(configured) != "" {
		v, err := r.ResolveValue(ctx, configured)
		if err != nil {
			return "", fmt.Errorf("resolve configured redis connection string: %w", err)
		}
		return v, nil
	}

	if environment == "" || environment == DevelopmentEnvironment {
		return LocalRedis, nil
	}

	ref := refPrefix + SSMProviderName + ":" + RedisParameterName(application, environment)
	v, err := r.ResolveValue(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("redis connection string for %s/%s is not available in parameter store: %w", application, environment, err)
	}
	return v, nil
}
