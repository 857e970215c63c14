package cache

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Delimiter separates namespace segments and joined batch keys.
const Delimiter = "|"

// Kind identifies a backend implementation.
type Kind string

const (
	KindDisabled Kind = "disabled"
	KindMemory   Kind = "memory"
	KindRedis    Kind = "redis"
)

// Sentinel errors for cache operations.
var (
	ErrInvalidKey              = errors.New("cache: key is invalid")
	ErrInvalidTarget           = errors.New("cache: target must be a non-nil pointer")
	ErrTypeMismatch            = errors.New("cache: stored value does not fit target")
	ErrUnknownKind             = errors.New("cache: unknown backend type")
	ErrMissingConnectionString = errors.New("cache: connection string is required for the redis backend")
	ErrInvalidConnectionString = errors.New("cache: invalid connection string")
)

// Backend stores values under namespaced keys.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use; there is
//     no per-key locking and concurrent sets are last-write-wins.
//   - Keys: blank keys are ignored; Get reports a miss and writes are no-ops.
//   - Errors: store failures are logged and never returned. A failed Get is a
//     miss and a failed write is dropped.
type Backend interface {
	// Kind reports which implementation this is.
	Kind() Kind

	// Get decodes the value stored under key into out, which must be a
	// non-nil pointer. It reports whether a value was found.
	Get(ctx context.Context, key string, out any, opts ...KeyOption) bool

	// Set stores value under key, replacing any previous entry.
	Set(ctx context.Context, key string, value any, opts ...SetOption)

	// Remove deletes key. Removing an absent key is a no-op.
	Remove(ctx context.Context, key string)

	// RemoveByPattern deletes every key starting with the namespaced key.
	RemoveByPattern(ctx context.Context, key string, opts ...KeyOption)

	// Close releases connections and background work.
	Close() error
}

// KeyOption adjusts how a key is namespaced.
type KeyOption func(*keyOptions)

type keyOptions struct {
	application string
}

// WithApplication namespaces the key under application instead of the
// configured one. The environment segment is kept.
func WithApplication(application string) KeyOption {
	return func(o *keyOptions) { o.application = application }
}

func newKeyOptions(opts []KeyOption) keyOptions {
	var o keyOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// SetOption adjusts the expiration of a single Set.
type SetOption func(*setOptions)

type setOptions struct {
	absolute time.Duration
	sliding  time.Duration
}

// WithAbsoluteExpiration expires the entry d after it is written.
func WithAbsoluteExpiration(d time.Duration) SetOption {
	return func(o *setOptions) { o.absolute = d }
}

// WithSlidingExpiration expires the entry d after it was last read.
// It takes precedence over WithAbsoluteExpiration.
func WithSlidingExpiration(d time.Duration) SetOption {
	return func(o *setOptions) { o.sliding = d }
}

func newSetOptions(opts []SetOption) setOptions {
	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ValidateKey rejects blank keys.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}

// JoinKeys combines batch keys into one logical key.
func JoinKeys(keys []string) string {
	return strings.Join(keys, Delimiter)
}

// Get returns the value stored under key.
func Get[T any](ctx context.Context, b Backend, key string, opts ...KeyOption) (T, bool) {
	var v T
	ok := b.Get(ctx, key, &v, opts...)
	return v, ok
}

// GetKeys returns the value stored under the joined keys.
func GetKeys[T any](ctx context.Context, b Backend, keys []string, opts ...KeyOption) (T, bool) {
	return Get[T](ctx, b, JoinKeys(keys), opts...)
}

// Set stores value under key.
func Set[T any](ctx context.Context, b Backend, key string, value T, opts ...SetOption) {
	b.Set(ctx, key, value, opts...)
}

// SetKeys stores value under the joined keys.
func SetKeys[T any](ctx context.Context, b Backend, keys []string, value T, opts ...SetOption) {
	b.Set(ctx, JoinKeys(keys), value, opts...)
}

// RemoveKeys deletes the entry under the joined keys.
func RemoveKeys(ctx context.Context, b Backend, keys []string) {
	b.Remove(ctx, JoinKeys(keys))
}

// RemoveByPatternKeys deletes every entry starting with the joined keys.
func RemoveByPatternKeys(ctx context.Context, b Backend, keys []string, opts ...KeyOption) {
	b.RemoveByPattern(ctx, JoinKeys(keys), opts...)
}

// Operation names used in telemetry.
const (
	opGet             = "get"
	opSet             = "set"
	opRemove          = "remove"
	opRemoveByPattern = "remove_by_pattern"
)

// assign stores v into the value out points to.
func assign(out, v any) error {
	target, err := pointerTarget(out)
	if err != nil {
		return err
	}
	if v == nil {
		target.SetZero()
		return nil
	}
	val := reflect.ValueOf(v)
	if !val.Type().AssignableTo(target.Type()) {
		return fmt.Errorf("%w: have %s, want %s", ErrTypeMismatch, val.Type(), target.Type())
	}
	target.Set(val)
	return nil
}

func pointerTarget(out any) (reflect.Value, error) {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, ErrInvalidTarget
	}
	return rv.Elem(), nil
}
