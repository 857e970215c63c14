package cache

import (
	"context"
	"errors"
	"testing"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"users", false},
		{"a|b", false},
		{"", true},
		{" \t\n", true},
	}
	for _, tt := range tests {
		err := ValidateKey(tt.key)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateKey(%q) = %v, wantErr %v", tt.key, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidKey) {
			t.Errorf("ValidateKey(%q) = %v, want ErrInvalidKey", tt.key, err)
		}
	}
}

func TestGenericHelpers(t *testing.T) {
	b := newTestMemory(t)
	ctx := context.Background()

	Set(ctx, b, "greeting", "hello")
	if v, ok := Get[string](ctx, b, "greeting"); !ok || v != "hello" {
		t.Errorf("Get() = (%q, %v)", v, ok)
	}

	keys := []string{"users", "42"}
	SetKeys(ctx, b, keys, order{ID: 42})
	if v, ok := GetKeys[order](ctx, b, keys); !ok || v.ID != 42 {
		t.Errorf("GetKeys() = (%+v, %v)", v, ok)
	}
	if v, ok := Get[order](ctx, b, "users|42"); !ok || v.ID != 42 {
		t.Error("batch keys must reduce to the joined single key")
	}

	RemoveKeys(ctx, b, keys)
	if _, ok := GetKeys[order](ctx, b, keys); ok {
		t.Error("RemoveKeys() left the entry")
	}

	SetKeys(ctx, b, []string{"users", "1"}, 1)
	SetKeys(ctx, b, []string{"users", "2"}, 2)
	RemoveByPatternKeys(ctx, b, []string{"users"})
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want only the greeting left", b.Len())
	}

	if v, ok := Get[any](ctx, b, "greeting"); !ok || v != "hello" {
		t.Errorf("Get[any]() = (%v, %v)", v, ok)
	}
}

func TestAssign(t *testing.T) {
	var s string
	if err := assign(&s, "x"); err != nil || s != "x" {
		t.Errorf("assign string = %v, %q", err, s)
	}
	if err := assign(&s, 1); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("assign int to string = %v", err)
	}
	if err := assign(s, "x"); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("assign to non-pointer = %v", err)
	}
	s = "keep"
	if err := assign(&s, nil); err != nil || s != "" {
		t.Errorf("assign nil = %v, %q", err, s)
	}
}
