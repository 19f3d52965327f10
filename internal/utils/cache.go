package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// ResponseCache 接口响应缓存（按 key 过期）
type ResponseCache struct {
	c *cache.Cache
}

// NewResponseCache 初始化响应缓存，ttl 为默认过期时间
func NewResponseCache(ttl, cleanup time.Duration) *ResponseCache {
	return &ResponseCache{c: cache.New(ttl, cleanup)}
}

// Get 获取缓存值
func (r *ResponseCache) Get(key string) (interface{}, bool) {
	return r.c.Get(key)
}

// Set 使用默认过期时间设置缓存
func (r *ResponseCache) Set(key string, value interface{}) {
	r.c.SetDefault(key, value)
}

// Flush 清空所有缓存（产物或向量库更新后调用）
func (r *ResponseCache) Flush() {
	r.c.Flush()
}

// Len 当前条数
func (r *ResponseCache) Len() int {
	return r.c.ItemCount()
}

// CacheItem 包装实际的数据，增加过期时间
type CacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// SearchCache 带过期时间的 LRU 缓存
type SearchCache[T any] struct {
	storage *lru.Cache[string, CacheItem[T]]
	ttl     time.Duration
}

// NewSearchCache 初始化，size 是最大缓存条数，ttl 是数据有效期
func NewSearchCache[T any](size int, ttl time.Duration) *SearchCache[T] {
	if size <= 0 {
		size = 1024
	}
	// lru.New 是线程安全的
	c, _ := lru.New[string, CacheItem[T]](size)
	return &SearchCache[T]{
		storage: c,
		ttl:     ttl,
	}
}

// Set 写入（已存在则覆盖）
func (c *SearchCache[T]) Set(key string, value T) {
	item := CacheItem[T]{
		Value:     value,
		ExpiredAt: time.Now().Add(c.ttl),
	}
	c.storage.Add(key, item)
}

// Get 读取，过期项视为不存在
func (c *SearchCache[T]) Get(key string) (T, bool) {
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

// Len 当前长度
func (c *SearchCache[T]) Len() int {
	return c.storage.Len()
}
