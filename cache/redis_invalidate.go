package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/jonwraymond/respcache/resilience"
)

const (
	// DefaultChunkSize bounds the number of deletes issued per connection.
	DefaultChunkSize = 50000

	// DefaultScanCount is the SCAN COUNT hint.
	DefaultScanCount = 1000
)

// RemoveByPattern deletes every key starting with the namespaced key.
//
// Matching keys are collected from every master node, then unlinked in
// chunks of at most the configured chunk size. Each chunk is sent as one
// pipeline over a connection opened for it and closed once the pipeline's
// replies are read; per-key results are not inspected. Failures are logged
// once for the whole pattern.
//
// The scan and the deletes run outside the per-call executor: they are
// bounded only by the scan timeout and ctx, and their failures never count
// against the circuit breaker. An open breaker still skips the purge.
func (b *RedisBackend) RemoveByPattern(ctx context.Context, key string, opts ...KeyOption) {
	if ValidateKey(key) != nil {
		return
	}
	ko := newKeyOptions(opts)
	pattern := globEscape(b.ns.Key(key, ko.application)) + "*"

	_, _ = b.mw.Observe(ctx, b.meta(opRemoveByPattern, key, ko.application), func(ctx context.Context) (bool, error) {
		if b.circuitOpen() {
			return false, fmt.Errorf("scan %s: %w", pattern, resilience.ErrCircuitOpen)
		}
		keys, err := b.scan(ctx, pattern)
		if err != nil {
			return false, fmt.Errorf("scan %s: %w", pattern, err)
		}

		var errs []error
		for i, chunk := range chunkKeys(keys, b.chunkSize) {
			if err := b.unlinkChunk(ctx, chunk); err != nil {
				errs = append(errs, fmt.Errorf("chunk %d (%d keys): %w", i, len(chunk), err))
			}
		}
		if err := errors.Join(errs...); err != nil {
			return false, fmt.Errorf("unlink %s: %w", pattern, err)
		}
		return false, nil
	})
}

// scan collects the distinct keys matching pattern across the topology.
func (b *RedisBackend) scan(ctx context.Context, pattern string) ([]string, error) {
	var (
		mu   sync.Mutex
		keys []string
	)
	scanNode := func(ctx context.Context, node redis.Cmdable) error {
		var found []string
		iter := node.Scan(ctx, 0, pattern, b.scanCount).Iterator()
		for iter.Next(ctx) {
			found = append(found, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}
		mu.Lock()
		keys = append(keys, found...)
		mu.Unlock()
		return nil
	}

	err := resilience.ExecuteWithTimeout(ctx, b.scanTimeout, func(ctx context.Context) error {
		switch c := b.client.(type) {
		case *redis.ClusterClient:
			return c.ForEachMaster(ctx, func(ctx context.Context, node *redis.Client) error {
				return scanNode(ctx, node)
			})
		case *redis.Ring:
			return c.ForEachShard(ctx, func(ctx context.Context, node *redis.Client) error {
				return scanNode(ctx, node)
			})
		default:
			return scanNode(ctx, b.client)
		}
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return dedupe(keys), nil
}

// unlinkChunk pipelines one UNLINK per key. Keys are sent individually so
// a cluster client can route each to its slot.
func (b *RedisBackend) unlinkChunk(ctx context.Context, chunk []string) error {
	client := b.client
	if b.chunkClient != nil {
		if fresh := b.chunkClient(); fresh != nil {
			client = fresh
			defer func() { _ = fresh.Close() }()
		}
	}

	pipe := client.Pipeline()
	for _, k := range chunk {
		pipe.Unlink(ctx, k)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (b *RedisBackend) circuitOpen() bool {
	cb := b.exec.CircuitBreaker()
	return cb != nil && cb.State() == resilience.StateOpen
}

// chunkKeys partitions keys into consecutive slices of at most size.
func chunkKeys(keys []string, size int) [][]string {
	if len(keys) == 0 {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := make([][]string, 0, (len(keys)+size-1)/size)
	for start := 0; start < len(keys); start += size {
		end := min(start+size, len(keys))
		chunks = append(chunks, keys[start:end:end])
	}
	return chunks
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := keys[:0]
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

var globReplacer = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// globEscape quotes redis glob metacharacters so the key matches literally.
func globEscape(s string) string {
	return globReplacer.Replace(s)
}
