package oracle

import (
	"context"
	"sync"
	"time"

	"github.com/lpdao/govcore/internal/identity"
)

// factoryCache caches the user→lock-canister binding list for a TTL,
// avoiding a factory round trip on every vote. The oracle's VP computation
// itself is never cached (spec requires a fresh read every call); only the
// binding lookup, which changes far less often, is.
type factoryCache struct {
	factory Factory
	ttl     time.Duration

	mu        sync.Mutex
	bindings  map[identity.Principal]identity.Principal
	fetchedAt time.Time
}

func newFactoryCache(factory Factory, ttl time.Duration) *factoryCache {
	return &factoryCache{factory: factory, ttl: ttl}
}

// all returns the full user→lock-canister map, refreshing from the factory
// if the cache is empty or stale.
func (c *factoryCache) all(ctx context.Context) (map[identity.Principal]identity.Principal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bindings != nil && time.Since(c.fetchedAt) < c.ttl {
		return c.bindings, nil
	}

	fresh, err := c.factory.GetAllLockCanisters(ctx)
	if err != nil {
		if c.bindings != nil {
			// Serve the stale cache rather than fail outright; the caller
			// (TotalVotingPower) tolerates a slightly out-of-date binding
			// list far better than an outage.
			return c.bindings, nil
		}
		return nil, err
	}

	c.bindings = fresh
	c.fetchedAt = time.Now()
	return c.bindings, nil
}

// lookup resolves a single user's lock canister.
func (c *factoryCache) lookup(ctx context.Context, user identity.Principal) (identity.Principal, bool, error) {
	all, err := c.all(ctx)
	if err != nil {
		return identity.Principal{}, false, err
	}
	lc, ok := all[user]
	return lc, ok, nil
}
