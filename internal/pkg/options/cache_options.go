package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// 缓存后端类型。
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// CacheOptions 定义查询缓存的行为。
type CacheOptions struct {
	// Backend 缓存后端：memory（进程内）或 redis（跨进程共享）。
	Backend string `json:"backend" mapstructure:"backend"`

	// TTL 缓存条目的基础过期时间，写入时附加随机抖动防雪崩。
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`

	// JitterRatio 抖动比例（0~1），实际过期时间在 [TTL, TTL*(1+JitterRatio)] 之间。
	JitterRatio float64 `json:"jitter-ratio" mapstructure:"jitter-ratio"`
}

func NewCacheOptions() *CacheOptions {
	return &CacheOptions{
		Backend:     CacheBackendMemory,
		TTL:         30 * time.Second,
		JitterRatio: 0.1,
	}
}

func (c *CacheOptions) Complete() {
	if c.TTL <= 0 {
		c.TTL = 30 * time.Second
	}
	if c.JitterRatio < 0 {
		c.JitterRatio = 0
	}
}

func (c *CacheOptions) Validate() []error {
	var errs []error

	if c.Backend != CacheBackendMemory && c.Backend != CacheBackendRedis {
		errs = append(errs, fmt.Errorf("cache配置警告：backend %q 无效，仅支持 memory 或 redis", c.Backend))
	}
	if c.JitterRatio > 1 {
		errs = append(errs, fmt.Errorf("cache配置警告：jitter-ratio 不能大于1"))
	}

	return errs
}

func (c *CacheOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Backend, "cache.backend", c.Backend, "Query cache backend, one of: memory, redis")
	fs.DurationVar(&c.TTL, "cache.ttl", c.TTL, "Base TTL for cached query results")
	fs.Float64Var(&c.JitterRatio, "cache.jitter-ratio", c.JitterRatio, "Random TTL jitter ratio to avoid synchronized expiry")
}
