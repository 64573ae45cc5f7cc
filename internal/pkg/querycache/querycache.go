package querycache

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/maxiaolu1981/cretem/nexuscore/log"
	"github.com/maxiaolu1981/cretem/umctl/internal/pkg/metrics"
)

// FetchFunc 在缓存未命中时加载数据，返回可直接写入缓存的字节。
type FetchFunc func(ctx context.Context) ([]byte, error)

// Cache 是查询缓存的统一入口：读走 read-through，并发的同键未命中
// 通过 singleflight 合并成一次上游请求；写操作成功后按前缀失效。
type Cache struct {
	store       Store
	ttl         time.Duration
	jitterRatio float64

	group singleflight.Group
}

// New 创建缓存。jitterRatio 给 TTL 加随机抖动，避免同批键同时过期。
func New(store Store, ttl time.Duration, jitterRatio float64) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if jitterRatio < 0 || jitterRatio >= 1 {
		jitterRatio = 0
	}
	return &Cache{store: store, ttl: ttl, jitterRatio: jitterRatio}
}

// GetOrFetch 返回键对应的缓存值；未命中时调用 fetch 并回填。
// 缓存后端故障只降级为直接请求上游，不向调用方冒泡。
func (c *Cache) GetOrFetch(ctx context.Context, query, key string, fetch FetchFunc) ([]byte, error) {
	value, err := c.store.Get(ctx, key)
	if err == nil {
		metrics.RecordCacheLookup(query, true)
		return value, nil
	}
	if !errors.Is(err, ErrNotFound) {
		metrics.CacheErrors.WithLabelValues("backend", "get").Inc()
		log.Warnf("查询缓存读取失败,降级为直连: key=%s err=%v", key, err)
	}
	metrics.RecordCacheLookup(query, false)

	result, err, shared := c.group.Do(key, func() (interface{}, error) {
		fetched, fetchErr := fetch(ctx)
		if fetchErr != nil {
			return nil, fetchErr
		}
		if setErr := c.store.Set(ctx, key, fetched, c.effectiveTTL()); setErr != nil {
			metrics.CacheErrors.WithLabelValues("backend", "set").Inc()
			log.Warnf("查询缓存回填失败: key=%s err=%v", key, setErr)
		}
		return fetched, nil
	})
	if shared {
		metrics.RequestsMerged.WithLabelValues(query).Inc()
	}
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// Invalidate 删除单个键。
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		metrics.CacheErrors.WithLabelValues("backend", "delete").Inc()
		log.Warnf("查询缓存删除失败: key=%s err=%v", key, err)
		return
	}
	metrics.CacheInvalidations.WithLabelValues("key").Inc()
}

// InvalidatePrefix 删除某前缀下的全部键，写操作成功后调用。
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	if err := c.store.DeletePrefix(ctx, prefix); err != nil {
		metrics.CacheErrors.WithLabelValues("backend", "delete_prefix").Inc()
		log.Warnf("查询缓存按前缀删除失败: prefix=%s err=%v", prefix, err)
		return
	}
	metrics.CacheInvalidations.WithLabelValues("prefix").Inc()
}

func (c *Cache) effectiveTTL() time.Duration {
	span := int64(float64(c.ttl) * c.jitterRatio)
	if span <= 0 {
		return c.ttl
	}
	jitter := time.Duration(rand.Int63n(span)) // nolint: gosec
	return c.ttl + jitter
}
