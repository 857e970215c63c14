package auth

import (
	"context"
	"testing"
)

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	if got := IdentityFromContext(ctx); got != nil {
		t.Errorf("IdentityFromContext() on empty context = %v", got)
	}

	id := &Identity{Principal: "ops", Roles: []string{"cache-admin"}}
	got := IdentityFromContext(WithIdentity(ctx, id))
	if got != id {
		t.Errorf("IdentityFromContext() = %v, want %v", got, id)
	}
}
