package fl33t

import "sync"

// clientCacheKey identifies a cached client by its credentials.
type clientCacheKey struct {
	teamID string
	token  string
}

// ClientCache is an explicit cache of constructed clients keyed by
// (team, token). It exists so callers such as a CLI entry point can avoid
// reconstructing identical clients across commands; its lifetime is the
// owning process run. It is a convenience, not a correctness-relevant
// cache, so dropping it and rebuilding clients is always safe.
type ClientCache struct {
	mu      sync.Mutex
	clients map[clientCacheKey]Client
}

// NewClientCache returns an empty cache.
func NewClientCache() *ClientCache {
	return &ClientCache{
		clients: make(map[clientCacheKey]Client),
	}
}

// Get returns the cached client for the credentials, if any.
func (c *ClientCache) Get(teamID, token string) (Client, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	client, ok := c.clients[clientCacheKey{teamID: teamID, token: token}]

	return client, ok
}

// GetOrCreate returns the cached client for the credentials, constructing
// and caching one via create when absent.
func (c *ClientCache) GetOrCreate(teamID, token string, create func() (Client, error)) (Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := clientCacheKey{teamID: teamID, token: token}
	if client, ok := c.clients[key]; ok {
		return client, nil
	}

	client, err := create()
	if err != nil {
		return nil, err
	}

	c.clients[key] = client

	return client, nil
}

// Len returns the number of cached clients.
func (c *ClientCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.clients)
}
