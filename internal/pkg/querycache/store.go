package querycache

import (
	"context"
	"time"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
)

// ErrNotFound 表示缓存未命中。所有 Store 实现统一返回该错误。
var ErrNotFound = errors.New("querycache: key not found")

// Store 是缓存后端的最小抽象：内存实现用于默认场景和测试，
// redis 实现用于多个 umctl 进程共享缓存。
type Store interface {
	// Get 返回键对应的原始字节，未命中返回 ErrNotFound。
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入键值并设置过期时间。
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete 删除单个键，键不存在不算错误。
	Delete(ctx context.Context, key string) error

	// DeletePrefix 删除所有以 prefix 开头的键。
	DeletePrefix(ctx context.Context, prefix string) error
}
