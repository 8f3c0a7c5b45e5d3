// Package loadingcache 本地读穿缓存：LRU 容量上限、同一个 key 同一时刻最多一次回源、
// 启动时批量预热以及与访问无关的定时刷新
package loadingcache

import (
	"context"
	"fmt"
	"time"

	"github.com/gotomicro/ego/core/elog"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

const defaultSize = 1024

// Loader 回源加载，数据不存在时返回 ok = false，只有回源本身出错才返回 error
type Loader[K comparable, V any] func(ctx context.Context, key K) (val V, ok bool, err error)

// BulkLoader 批量加载全部数据，用于预热和定时刷新
type BulkLoader[K comparable, V any] func(ctx context.Context) (map[K]V, error)

type Option[K comparable, V any] func(c *Cache[K, V])

// WithBulkLoader 设置批量加载，没有设置时 Preload 什么也不做，Refresh 只清空缓存
func WithBulkLoader[K comparable, V any](l BulkLoader[K, V]) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.loadAll = l
	}
}

func WithSize[K comparable, V any](size int) Option[K, V] {
	return func(c *Cache[K, V]) {
		if size > 0 {
			c.size = size
		}
	}
}

type Cache[K comparable, V any] struct {
	name    string
	size    int
	entries *lru.Cache[K, V]
	group   singleflight.Group
	load    Loader[K, V]
	loadAll BulkLoader[K, V]
	logger  *elog.Component
}

func New[K comparable, V any](name string, load Loader[K, V], opts ...Option[K, V]) (*Cache[K, V], error) {
	c := &Cache[K, V]{
		name:   name,
		size:   defaultSize,
		load:   load,
		logger: elog.DefaultLogger.With(elog.String("cache", name)),
	}
	for _, opt := range opts {
		opt(c)
	}
	entries, err := lru.New[K, V](c.size)
	if err != nil {
		return nil, fmt.Errorf("初始化缓存 %s 失败: %w", name, err)
	}
	c.entries = entries
	return c, nil
}

// Get 命中直接返回，未命中时阻塞等待回源，并发的同 key 请求共享一次回源
func (c *Cache[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	if v, ok := c.entries.Get(key); ok {
		return v, true, nil
	}
	type result struct {
		val V
		ok  bool
	}
	res, err, _ := c.group.Do(fmt.Sprintf("%#v", key), func() (any, error) {
		// 等锁期间可能已经有人加载完了
		if v, ok := c.entries.Get(key); ok {
			return result{val: v, ok: true}, nil
		}
		// 回源不受单个调用方取消的影响
		v, ok, err := c.load(context.WithoutCancel(ctx), key)
		if err != nil {
			return nil, err
		}
		if ok {
			c.entries.Add(key, v)
		}
		return result{val: v, ok: ok}, nil
	})
	if err != nil {
		var zero V
		return zero, false, fmt.Errorf("缓存 %s 回源失败: %w", c.name, err)
	}
	r := res.(result)
	return r.val, r.ok, nil
}

// Put 直接写入，主要用于多个维度的缓存互相填充
func (c *Cache[K, V]) Put(key K, val V) {
	c.entries.Add(key, val)
}

func (c *Cache[K, V]) Invalidate(key K) {
	c.entries.Remove(key)
}

func (c *Cache[K, V]) Len() int {
	return c.entries.Len()
}

// Preload 批量预热，超过容量的部分按 LRU 淘汰
func (c *Cache[K, V]) Preload(ctx context.Context) error {
	if c.loadAll == nil {
		return nil
	}
	all, err := c.loadAll(ctx)
	if err != nil {
		return fmt.Errorf("缓存 %s 预热失败: %w", c.name, err)
	}
	for k, v := range all {
		c.entries.Add(k, v)
	}
	return nil
}

// Refresh 先加载新数据再替换，加载失败时保留旧数据
func (c *Cache[K, V]) Refresh(ctx context.Context) error {
	if c.loadAll == nil {
		c.entries.Purge()
		return nil
	}
	all, err := c.loadAll(ctx)
	if err != nil {
		return fmt.Errorf("缓存 %s 刷新失败: %w", c.name, err)
	}
	c.entries.Purge()
	for k, v := range all {
		c.entries.Add(k, v)
	}
	return nil
}

// StartRefresh 定时刷新，ctx 取消后退出
func (c *Cache[K, V]) StartRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				c.logger.Error("定时刷新缓存失败", elog.FieldErr(err))
			}
		}
	}
}
