package umctl

import (
	"net/http"
	"os"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/maxiaolu1981/cretem/nexuscore/log"

	"github.com/maxiaolu1981/cretem/umctl/internal/client"
	genericoptions "github.com/maxiaolu1981/cretem/umctl/internal/pkg/options"
	"github.com/maxiaolu1981/cretem/umctl/internal/pkg/notify"
	"github.com/maxiaolu1981/cretem/umctl/internal/pkg/querycache"
	"github.com/maxiaolu1981/cretem/umctl/internal/umctl/options"
	"github.com/maxiaolu1981/cretem/umctl/pkg/storage"
)

// setup 补全并校验配置、初始化日志。每个子命令执行前调用。
func setup(opts *options.Options) error {
	if err := opts.Complete(); err != nil {
		return err
	}
	if errs := opts.Validate(); len(errs) > 0 {
		return errors.NewAggregate(errs)
	}
	log.Init(opts.Log)

	return nil
}

// buildClient 按配置组装客户端：选择缓存后端、挂接通知器与会话。
func buildClient(opts *options.Options) (*client.Client, error) {
	store, err := buildStore(opts)
	if err != nil {
		return nil, err
	}
	cache := querycache.New(store, opts.Cache.TTL, opts.Cache.JitterRatio)

	clientOpts := []client.Option{
		client.WithHTTPClient(&http.Client{Timeout: opts.Server.Timeout}),
		client.WithNotifier(notify.NewConsole(os.Stdout)),
	}
	if opts.RateLimit.Enable {
		clientOpts = append(clientOpts,
			client.WithWriteRateLimit(opts.RateLimit.WriteQPS, opts.RateLimit.WriteBurst))
	}
	if creds, err := loadCredentials(); err == nil {
		clientOpts = append(clientOpts,
			client.WithSession(client.NewSession(creds.AccessToken, creds.RefreshToken, creds.UserID)))
	}

	return client.New(opts.Server.Address, cache, clientOpts...), nil
}

func buildStore(opts *options.Options) (querycache.Store, error) {
	if opts.Cache.Backend != genericoptions.CacheBackendRedis {
		return querycache.NewMemoryStore(), nil
	}

	cluster, err := storage.NewRedisCluster(opts.Redis, "")
	if err != nil {
		// redis 不可用时降级为进程内缓存，不阻断命令执行
		log.Warnf("redis缓存后端不可用,降级为内存缓存: %v", err)
		return querycache.NewMemoryStore(), nil
	}
	return querycache.NewRedisStore(cluster), nil
}
