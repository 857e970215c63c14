// Package secret resolves configuration values that point at secrets.
//
// A value may carry a reference of the form
//
//	secretref:<provider>:<ref>
//
// either as the whole value or inline ("Bearer secretref:ssm:/app/token").
// Environment variables are expanded strictly first (see ExpandEnvStrict).
//
// The ssm provider reads AWS Systems Manager Parameter Store. The redis
// connection string is bootstrapped through it outside Development (see
// RedisConnectionString).
package secret
