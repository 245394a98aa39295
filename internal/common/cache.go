package common

import (
	"time"

	"github.com/patrickmn/go-cache"
)

type Cache struct {
	*cache.Cache
}

func NewCache(expirationTime, cleanupTime time.Duration) *Cache {
	return &Cache{cache.New(expirationTime, cleanupTime)}
}

func (c *Cache) Set(key string, value interface{}, expiration ...time.Duration) {
	if len(expiration) > 0 {
		c.Cache.Set(key, value, expiration[0])
		return
	}
	c.Cache.Set(key, value, cache.DefaultExpiration)
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.Cache.Get(key)
}

func (c *Cache) Delete(key string) {
	c.Cache.Delete(key)
}

func (c *Cache) Flush() {
	c.Cache.Flush()
}

// GetOrLoad returns the cached value for key, calling load and caching its
// result on a miss. Errors from load are not cached.
func GetOrLoad[T any](c *Cache, key string, load func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}

	c.Set(key, v)
	return v, nil
}

func CacheKeyStartupDirectory() string {
	return "startups:directory"
}

func CacheKeyTestimonials() string {
	return "startups:testimonials"
}

func CacheKeyPublishedPosts() string {
	return "posts:published"
}

func CacheKeyPost(slug string) string {
	return "post:" + slug
}

func CacheKeyCategories() string {
	return "categories"
}

func CacheKeyUser(id string) string {
	return "user:" + id
}
