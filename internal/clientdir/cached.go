package clientdir

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmoreno/bank-accounts/internal/cache"
	"github.com/mmoreno/bank-accounts/internal/models"
)

// Cached decorates a Directory with a Redis lookup cache. Client records are
// read-only from this service's perspective, so staleness is bounded by the
// TTL alone.
type Cached struct {
	next  Directory
	cache *cache.ViewCache[models.ClientInfo]
}

func NewCached(next Directory, client *redis.Client, ttl time.Duration) *Cached {
	return &Cached{
		next:  next,
		cache: cache.NewViewCache[models.ClientInfo](client, ttl),
	}
}

func (c *Cached) GetClient(ctx context.Context, clientID string) (*models.ClientInfo, error) {
	key := "clientdir:" + clientID
	if client, ok := c.cache.Get(ctx, key); ok {
		return client, nil
	}

	client, err := c.next.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	c.cache.Set(ctx, key, client)
	return client, nil
}
