package secret

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"golang.org/x/sync/singleflight"
)

// SSMProviderName is the provider name used in secret references.
const SSMProviderName = "ssm"

// SSMAPI is the subset of the SSM client the provider calls.
type SSMAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SSMProvider resolves parameter names against AWS Systems Manager
// Parameter Store. SecureString parameters are decrypted. Resolved values
// are memoized for the provider's lifetime.
type SSMProvider struct {
	client SSMAPI
	group  singleflight.Group

	mu     sync.RWMutex
	values map[string]string
}

// NewSSMProvider wraps an SSM client.
func NewSSMProvider(client SSMAPI) *SSMProvider {
	return &SSMProvider{client: client, values: make(map[string]string)}
}

// NewSSMProviderFromEnv builds the client from the default AWS credential
// chain. An empty region defers to AWS_REGION and the shared config.
func NewSSMProviderFromEnv(ctx context.Context, region string) (*SSMProvider, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewSSMProvider(ssm.NewFromConfig(cfg)), nil
}

func (p *SSMProvider) Name() string { return SSMProviderName }

// Resolve returns the value of the parameter named ref.
func (p *SSMProvider) Resolve(ctx context.Context, ref string) (string, error) {
	p.mu.RLock()
	v, ok := p.values[ref]
	p.mu.RUnlock()
	if ok {
		return v, nil
	}

	out, err, _ := p.group.Do(ref, func() (any, error) {
		resp, err := p.client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(ref),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			var notFound *types.ParameterNotFound
			if errors.As(err, &notFound) {
				return "", fmt.Errorf("%w: parameter %s", ErrNotFound, ref)
			}
			return "", fmt.Errorf("get parameter %s: %w", ref, err)
		}
		if resp.Parameter == nil {
			return "", fmt.Errorf("%w: parameter %s", ErrNotFound, ref)
		}
		value := aws.ToString(resp.Parameter.Value)

		p.mu.Lock()
		p.values[ref] = value
		p.mu.Unlock()
		return value, nil
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (p *SSMProvider) Close() error { return nil }

var _ Provider = (*SSMProvider)(nil)

func init() {
	_ = DefaultRegistry.Register(SSMProviderName, func(cfg map[string]any) (Provider, error) {
		region, _ := cfg["region"].(string)
		return NewSSMProviderFromEnv(context.Background(), region)
	})
}
