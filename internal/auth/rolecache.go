package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/reelwire/dcpflow-backend/pkg/enums"
	pkgerrors "github.com/reelwire/dcpflow-backend/pkg/errors"
)

type roleStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	RoleKey(userID string) string
}

type roleSource interface {
	GetRole(ctx context.Context, userID uuid.UUID) (enums.AppRole, error)
}

// RoleCache is a short-TTL read-through cache over the role table. Requests
// re-read roles through it so out-of-band role changes take effect within one
// TTL window without a fresh login.
type RoleCache struct {
	store  roleStore
	source roleSource
	ttl    time.Duration
}

func NewRoleCache(store roleStore, source roleSource, ttl time.Duration) *RoleCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RoleCache{store: store, source: source, ttl: ttl}
}

// Role returns the user's current role, from cache when fresh. A store
// failure falls through to the database rather than failing the request.
func (c *RoleCache) Role(ctx context.Context, userID uuid.UUID) (enums.AppRole, error) {
	key := c.store.RoleKey(userID.String())

	// A miss, a stale value, or a store failure all fall through to the
	// database read.
	if cached, err := c.store.Get(ctx, key); err == nil {
		if role, parseErr := enums.ParseAppRole(cached); parseErr == nil {
			return role, nil
		}
	}

	role, err := c.source.GetRole(ctx, userID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load role")
	}
	_ = c.store.Set(ctx, key, role.String(), c.ttl)
	return role, nil
}

// Invalidate drops the cached role so the next request re-reads it.
func (c *RoleCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return c.store.Del(ctx, c.store.RoleKey(userID.String()))
}
