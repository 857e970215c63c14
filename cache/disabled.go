package cache

import "context"

// DisabledBackend ignores every write and misses every read.
type DisabledBackend struct{}

// NewDisabledBackend returns the no-op backend.
func NewDisabledBackend() *DisabledBackend { return &DisabledBackend{} }

func (*DisabledBackend) Kind() Kind { return KindDisabled }

func (*DisabledBackend) Get(context.Context, string, any, ...KeyOption) bool { return false }

func (*DisabledBackend) Set(context.Context, string, any, ...SetOption) {}

func (*DisabledBackend) Remove(context.Context, string) {}

func (*DisabledBackend) RemoveByPattern(context.Context, string, ...KeyOption) {}

func (*DisabledBackend) Close() error { return nil }

var _ Backend = (*DisabledBackend)(nil)
