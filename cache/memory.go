package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/respcache/observe"
)

// MemoryBackend keeps entries in process memory.
type MemoryBackend struct {
	ns     Namespacer
	policy Policy
	store  *store
	mw     *observe.Middleware

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewMemoryBackend creates an in-process backend.
func NewMemoryBackend(ns Namespacer, policy Policy, opts ...Option) *MemoryBackend {
	o := newOptions(opts)
	b := &MemoryBackend{
		ns:     ns,
		policy: policy,
		store:  newStore(),
		mw:     o.middleware,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	if o.sweepInterval > 0 {
		go b.sweepLoop(o.sweepInterval)
	} else {
		close(b.done)
	}
	return b
}

func (b *MemoryBackend) Kind() Kind { return KindMemory }

func (b *MemoryBackend) Get(ctx context.Context, key string, out any, opts ...KeyOption) bool {
	if ValidateKey(key) != nil {
		return false
	}
	ko := newKeyOptions(opts)
	cacheKey := b.ns.Key(key, ko.application)

	hit, _ := b.mw.Observe(ctx, b.meta(opGet, key, ko.application), func(context.Context) (bool, error) {
		v, ok := b.store.get(cacheKey)
		if !ok {
			return false, nil
		}
		if err := assign(out, v); err != nil {
			return false, err
		}
		return true, nil
	})
	return hit
}

func (b *MemoryBackend) Set(ctx context.Context, key string, value any, opts ...SetOption) {
	if ValidateKey(key) != nil {
		return
	}
	so := newSetOptions(opts)
	exp := b.policy.Resolve(so.absolute, so.sliding)
	cacheKey := b.ns.Key(key, "")

	_, _ = b.mw.Observe(ctx, b.meta(opSet, key, ""), func(context.Context) (bool, error) {
		b.store.set(cacheKey, value, exp)
		return false, nil
	})
}

func (b *MemoryBackend) Remove(ctx context.Context, key string) {
	if ValidateKey(key) != nil {
		return
	}
	cacheKey := b.ns.Key(key, "")

	_, _ = b.mw.Observe(ctx, b.meta(opRemove, key, ""), func(context.Context) (bool, error) {
		b.store.delete(cacheKey)
		return false, nil
	})
}

func (b *MemoryBackend) RemoveByPattern(ctx context.Context, key string, opts ...KeyOption) {
	if ValidateKey(key) != nil {
		return
	}
	ko := newKeyOptions(opts)
	prefix := b.ns.Key(key, ko.application)

	_, _ = b.mw.Observe(ctx, b.meta(opRemoveByPattern, key, ko.application), func(context.Context) (bool, error) {
		b.store.delete(b.store.keys(prefix)...)
		return false, nil
	})
}

// Keys returns the live namespaced keys starting with prefix.
func (b *MemoryBackend) Keys(prefix string) []string {
	return b.store.keys(prefix)
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (b *MemoryBackend) Len() int {
	return b.store.len()
}

// Close stops the sweeper. Entries stay readable.
func (b *MemoryBackend) Close() error {
	b.stopOnce.Do(func() { close(b.stop) })
	<-b.done
	return nil
}

func (b *MemoryBackend) sweepLoop(interval time.Duration) {
	defer close(b.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			b.store.sweep()
		}
	}
}

func (b *MemoryBackend) meta(op, key, application string) observe.OpMeta {
	return observe.OpMeta{Op: op, Backend: string(KindMemory), Key: key, Application: application}
}

var _ Backend = (*MemoryBackend)(nil)
