package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// NewCache 创建 go-cache 实例，默认过期时间 5 分钟，清理间隔 10 分钟
func NewCache() *cache.Cache {
	return cache.New(5*time.Minute, 10*time.Minute)
}

// CacheItem 包装实际的数据，增加过期时间
type CacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// LRUCache 带过期时间的 LRU 缓存
type LRUCache[T any] struct {
	storage *lru.Cache[string, CacheItem[T]]
	ttl     time.Duration
}

// NewLRUCache size 是最大缓存条数，ttl 是数据有效期
func NewLRUCache[T any](size int, ttl time.Duration) *LRUCache[T] {
	if size < 1 {
		size = 1
	}
	// lru.New 是线程安全的，size > 0 时不会返回错误
	c, _ := lru.New[string, CacheItem[T]](size)
	return &LRUCache[T]{
		storage: c,
		ttl:     ttl,
	}
}

// Set 写入或覆盖
func (c *LRUCache[T]) Set(key string, value T) {
	c.storage.Add(key, CacheItem[T]{
		Value:     value,
		ExpiredAt: time.Now().Add(c.ttl),
	})
}

// Get 读取，过期项会被删除
func (c *LRUCache[T]) Get(key string) (T, bool) {
	var zero T
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}

	if time.Now().After(item.ExpiredAt) {
		c.storage.Remove(key)
		return zero, false
	}

	return item.Value, true
}

// Clear 清空
func (c *LRUCache[T]) Clear() {
	c.storage.Purge()
}

// Len 当前条数
func (c *LRUCache[T]) Len() int {
	return c.storage.Len()
}
