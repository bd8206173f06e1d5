package platform

import (
	"sync"

	"go.uber.org/zap"

	"github.com/lobbylink/lobbylink/pkg/logging"
)

// IdentityCache resolves the local participant's platform identifier once
// and memoizes it. Resolution failures are not cached: the lookup is retried
// on the next call, and callers receive the zero identifier meaning
// "unknown" in the meantime. The zero value is never an error here; late
// identity resolution is an expected condition early in the process
// lifetime.
type IdentityCache struct {
	mu  sync.Mutex
	api *API
	id  uint64
	log *logging.ColoredLogger
}

// NewIdentityCache creates an identity cache backed by the platform facade.
func NewIdentityCache(api *API, log *logging.ColoredLogger) *IdentityCache {
	return &IdentityCache{api: api, log: log}
}

// LocalID returns the canonical local identifier, or zero while it cannot be
// resolved. The first successful resolution is cached for the process
// lifetime.
func (c *IdentityCache) LocalID() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.id != 0 {
		return c.id
	}
	id, err := c.api.LocalIdentifier()
	if err != nil {
		c.log.ComponentDebug(logging.ComponentBinder, "local identity not yet resolvable", zap.Error(err))
		return 0
	}
	c.id = id
	c.log.ComponentInfo(logging.ComponentBinder, "local identity resolved", zap.Uint64("id", id))
	return c.id
}
