package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

// RedisOptions 定义Redis缓存后端的连接配置。
// 结构与 iam-apiserver 的 redis 配置保持一致，便于同一份配置文件复用。
type RedisOptions struct {
	Host                  string   `json:"host"                     mapstructure:"host"`
	Port                  int      `json:"port"                     mapstructure:"port"`
	Addrs                 []string `json:"addrs"                    mapstructure:"addrs"`
	Username              string   `json:"username"                 mapstructure:"username"`
	Password              string   `json:"password"                 mapstructure:"password"`
	Database              int      `json:"database"                 mapstructure:"database"`
	MasterName            string   `json:"master-name"              mapstructure:"master-name"`
	MaxIdle               int      `json:"optimisation-max-idle"    mapstructure:"optimisation-max-idle"`
	MaxActive             int      `json:"optimisation-max-active"  mapstructure:"optimisation-max-active"`
	Timeout               int      `json:"timeout"                  mapstructure:"timeout"`
	EnableCluster         bool     `json:"enable-cluster"           mapstructure:"enable-cluster"`
	UseSSL                bool     `json:"use-ssl"                  mapstructure:"use-ssl"`
	SSLInsecureSkipVerify bool     `json:"ssl-insecure-skip-verify" mapstructure:"ssl-insecure-skip-verify"`
}

func NewRedisOptions() *RedisOptions {
	return &RedisOptions{
		Host:     "127.0.0.1",
		Port:     6379,
		Addrs:    []string{},
		Database: 0,
		MaxIdle:  10,
		Timeout:  5,
	}
}

// Complete 补全Redis配置选项，处理默认值和依赖关系。
func (r *RedisOptions) Complete() {
	if len(r.Addrs) == 0 {
		host := r.Host
		if host == "" {
			host = "localhost"
		}
		port := r.Port
		if port == 0 {
			port = 6379
		}
		r.Addrs = []string{fmt.Sprintf("%s:%d", host, port)}
	}

	if r.MaxIdle <= 0 {
		r.MaxIdle = 10
	}
	if r.MaxActive <= 0 {
		r.MaxActive = 100
	}
	if r.Timeout <= 0 {
		r.Timeout = 5
	}
}

// Validate 验证Redis配置选项的有效性，返回所有验证错误。
func (r *RedisOptions) Validate() []error {
	var errs []error

	if len(r.Addrs) == 0 && (r.Host == "" && r.Port == 0) {
		errs = append(errs, fmt.Errorf("redis配置警告：未提供有效地址，需配置Addrs或Host/Port"))
	}
	if r.Database < 0 {
		errs = append(errs, fmt.Errorf("redis配置警告：数据库索引不能为负数"))
	}
	if r.Timeout < 0 {
		errs = append(errs, fmt.Errorf("redis配置警告：超时时间不能为负数"))
	}
	if r.EnableCluster && len(r.Addrs) == 0 {
		errs = append(errs, fmt.Errorf("redis配置警告：启用集群模式时必须配置Addrs"))
	}
	if r.SSLInsecureSkipVerify && !r.UseSSL {
		errs = append(errs, fmt.Errorf("redis配置警告：仅当UseSSL为true时才能设置SSLInsecureSkipVerify"))
	}

	return errs
}

// AddFlags 将Redis配置选项添加为命令行标志。
func (r *RedisOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&r.Host, "redis.host", r.Host, "Redis service host address")
	fs.IntVar(&r.Port, "redis.port", r.Port, "Redis service port number")
	fs.StringSliceVar(&r.Addrs, "redis.addrs", r.Addrs, "List of Redis server addresses (used for cluster mode)")
	fs.StringVar(&r.Username, "redis.username", r.Username, "Username for Redis authentication")
	fs.StringVar(&r.Password, "redis.password", r.Password, "Password for Redis authentication")
	fs.IntVar(&r.Database, "redis.database", r.Database, "Redis database index to use")
	fs.StringVar(&r.MasterName, "redis.master-name", r.MasterName, "Name of the master node in sentinel mode")
	fs.BoolVar(&r.EnableCluster, "redis.enable-cluster", r.EnableCluster, "Enable Redis cluster mode")
	fs.IntVar(&r.MaxIdle, "redis.optimisation-max-idle", r.MaxIdle, "Maximum number of idle connections in the pool")
	fs.IntVar(&r.MaxActive, "redis.optimisation-max-active", r.MaxActive, "Maximum number of active connections in the pool")
	fs.IntVar(&r.Timeout, "redis.timeout", r.Timeout, "Connection timeout in seconds")
	fs.BoolVar(&r.UseSSL, "redis.use-ssl", r.UseSSL, "Enable SSL for Redis connections")
	fs.BoolVar(&r.SSLInsecureSkipVerify, "redis.ssl-insecure-skip-verify", r.SSLInsecureSkipVerify, "Skip SSL certificate verification (not recommended for production)")
}
