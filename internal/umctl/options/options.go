// options 包汇聚 umctl 的全部运行配置，按关注点分组暴露命令行标志。
package options

import (
	cliFlag "github.com/maxiaolu1981/cretem/nexuscore/component-base/cli/flag"
	"github.com/maxiaolu1981/cretem/nexuscore/log"

	genericoptions "github.com/maxiaolu1981/cretem/umctl/internal/pkg/options"
)

// Options 是 umctl 的顶层配置。
type Options struct {
	Server    *genericoptions.ServerOptions    `json:"server"    mapstructure:"server"`
	Cache     *genericoptions.CacheOptions     `json:"cache"     mapstructure:"cache"`
	Redis     *genericoptions.RedisOptions     `json:"redis"     mapstructure:"redis"`
	RateLimit *genericoptions.RateLimitOptions `json:"ratelimit" mapstructure:"ratelimit"`
	Log       *log.Options                     `json:"log"       mapstructure:"log"`
}

// NewOptions 返回带默认值的配置。
func NewOptions() *Options {
	return &Options{
		Server:    genericoptions.NewServerOptions(),
		Cache:     genericoptions.NewCacheOptions(),
		Redis:     genericoptions.NewRedisOptions(),
		RateLimit: genericoptions.NewRateLimitOptions(),
		Log:       log.NewOptions(),
	}
}

// Flags 按分组返回标志集。
func (o *Options) Flags() (fss cliFlag.NamedFlagSets) {
	o.Server.AddFlags(fss.FlagSet("server"))
	o.Cache.AddFlags(fss.FlagSet("cache"))
	o.Redis.AddFlags(fss.FlagSet("redis"))
	o.RateLimit.AddFlags(fss.FlagSet("ratelimit"))
	o.Log.AddFlags(fss.FlagSet("logs"))

	return fss
}

// Complete 补全派生配置。
func (o *Options) Complete() error {
	o.Server.Complete()
	o.Cache.Complete()
	o.Redis.Complete()
	o.RateLimit.Complete()

	return nil
}

// Validate 逐组校验配置。
func (o *Options) Validate() []error {
	var errs []error

	errs = append(errs, o.Server.Validate()...)
	errs = append(errs, o.Cache.Validate()...)
	errs = append(errs, o.RateLimit.Validate()...)
	errs = append(errs, o.Log.Validate()...)

	// redis 后端生效时才校验 redis 连接配置
	if o.Cache.Backend == genericoptions.CacheBackendRedis {
		errs = append(errs, o.Redis.Validate()...)
	}

	return errs
}
