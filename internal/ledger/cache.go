package ledger

import (
	"github.com/coocood/freecache"
	"github.com/rs/zerolog"
	"github.com/sadopc/streakr/internal/config"
)

// Cache stores encoded calendar models.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

type freeCache struct {
	cache *freecache.Cache
	ttl   int
}

// NewCache returns a freecache-backed cache, or a no-op cache when caching is
// disabled.
func NewCache(conf config.CacheConfig, log zerolog.Logger) Cache {
	if !conf.Enabled || conf.SizeMB <= 0 {
		log.Info().Msg("calendar cache disabled")
		return noopCache{}
	}
	log.Info().Int("size_mb", conf.SizeMB).Msg("calendar cache initialized")
	return &freeCache{
		cache: freecache.NewCache(conf.SizeMB * 1024 * 1024),
		ttl:   24 * 60 * 60,
	}
}

func (c *freeCache) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *freeCache) Set(key string, value []byte) {
	_ = c.cache.Set([]byte(key), value, c.ttl)
}

type noopCache struct{}

func (noopCache) Get(string) ([]byte, bool) { return nil, false }
func (noopCache) Set(string, []byte)        {}
