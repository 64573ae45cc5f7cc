package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

// RateLimitOptions 定义客户端侧写操作限流。
// 服务端对写接口有限流，客户端主动限速可以避免被 429 拒绝。
type RateLimitOptions struct {
	Enable bool `json:"enable" mapstructure:"enable"`

	// WriteQPS 写操作（POST/PUT/DELETE）每秒允许的请求数。
	WriteQPS int `json:"write-qps" mapstructure:"write-qps"`

	// WriteBurst 突发容量。
	WriteBurst int `json:"write-burst" mapstructure:"write-burst"`
}

func NewRateLimitOptions() *RateLimitOptions {
	return &RateLimitOptions{
		Enable:     false,
		WriteQPS:   50,
		WriteBurst: 50,
	}
}

func (r *RateLimitOptions) Complete() {
	if r.WriteQPS <= 0 {
		r.WriteQPS = 50
	}
	if r.WriteBurst <= 0 {
		r.WriteBurst = r.WriteQPS
	}
}

func (r *RateLimitOptions) Validate() []error {
	var errs []error

	if r.Enable && r.WriteQPS <= 0 {
		errs = append(errs, fmt.Errorf("ratelimit配置警告：启用限流时 write-qps 必须大于0"))
	}

	return errs
}

func (r *RateLimitOptions) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&r.Enable, "ratelimit.enable", r.Enable, "Enable client side rate limiting for write operations")
	fs.IntVar(&r.WriteQPS, "ratelimit.write-qps", r.WriteQPS, "Allowed write requests per second")
	fs.IntVar(&r.WriteBurst, "ratelimit.write-burst", r.WriteBurst, "Burst size for write requests")
}
