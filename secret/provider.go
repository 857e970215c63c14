package secret

import "context"

// Provider resolves secrets by reference string.
//
// Implementations must be safe for concurrent use and must never log
// resolved values.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, ref string) (string, error)
	Close() error
}

// StaticProvider serves secrets from a fixed map. Useful for local runs and tests.
type StaticProvider struct {
	name   string
	values map[string]string
}

// NewStaticProvider creates a StaticProvider registered under name.
func NewStaticProvider(name string, values map[string]string) *StaticProvider {
	return &StaticProvider{name: name, values: values}
}

func (p *StaticProvider) Name() string { return p.name }

func (p *StaticProvider) Resolve(_ context.Context, ref string) (string, error) {
	v, ok := p.values[ref]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (p *StaticProvider) Close() error { return nil }

var _ Provider = (*StaticProvider)(nil)
