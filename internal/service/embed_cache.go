package service

import (
	"context"
	"time"

	"github.com/muaazl/cine-match/internal/utils"
	"golang.org/x/sync/singleflight"
)

// CachedEmbedder 为 Embedder 加一层 LRU 缓存
// 相同文本的并发请求通过 singleflight 合并为一次调用
type CachedEmbedder struct {
	next    Embedder
	cache   *utils.SearchCache[[]float32]
	sf      singleflight.Group
	timeout time.Duration
}

// NewCachedEmbedder 创建带缓存的 Embedder，timeout 限制合并后的下游调用，<=0 表示不限制
func NewCachedEmbedder(next Embedder, size int, ttl, timeout time.Duration) *CachedEmbedder {
	return &CachedEmbedder{
		next:    next,
		cache:   utils.NewSearchCache[[]float32](size, ttl),
		timeout: timeout,
	}
}

// Embed 先查缓存，未命中再调用下游；返回的切片只读
// 下游调用不随任何一个调用方取消，调用方取消时只有它自己提前返回
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := c.cache.Get(text); ok {
		return vec, nil
	}

	ch := c.sf.DoChan(text, func() (interface{}, error) {
		callCtx, cancel := c.sharedContext(ctx)
		defer cancel()

		vec, err := c.next.Embed(callCtx, text)
		if err != nil {
			return nil, err
		}
		c.cache.Set(text, vec)
		return vec, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]float32), nil
	}
}

// sharedContext 保留 ctx 中的值，去掉取消和截止时间
func (c *CachedEmbedder) sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if c.timeout <= 0 {
		return context.WithCancel(detached)
	}
	return context.WithTimeout(detached, c.timeout)
}
