package querycache

import (
	"context"
	"errors"
	"time"

	"github.com/maxiaolu1981/cretem/umctl/pkg/storage"
)

// RedisStore 把缓存落到 redis，多个 umctl 进程可以共享同一份查询缓存。
type RedisStore struct {
	cluster *storage.RedisCluster
}

// NewRedisStore wraps a connected redis cluster as a cache backend.
func NewRedisStore(cluster *storage.RedisCluster) *RedisStore {
	return &RedisStore{cluster: cluster}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.cluster.GetKey(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(value), nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.cluster.SetKey(ctx, key, string(value), ttl)
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	_, err := r.cluster.DeleteKey(ctx, key)
	return err
}

func (r *RedisStore) DeletePrefix(ctx context.Context, prefix string) error {
	if !r.cluster.DeleteScanMatch(ctx, prefix+"*") {
		return errors.New("querycache: 按前缀扫描删除失败: " + prefix)
	}
	return nil
}
