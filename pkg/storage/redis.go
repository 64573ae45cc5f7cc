/*
storage 包提供 Redis 访问的薄封装，供查询缓存的 redis 后端使用。
相比 iam-apiserver 的存储层，这里不维护全局单例与后台重连：umctl 是短生命周期
的客户端进程，连接在创建时验证一次、随进程结束释放。
*/
package storage

import (
	"context"
	"crypto/tls"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/maxiaolu1981/cretem/nexuscore/log"
	"github.com/maxiaolu1981/cretem/umctl/internal/pkg/options"
)

// ErrKeyNotFound 表示键不存在。
var ErrKeyNotFound = redis.Nil

// RedisCluster is a storage manager that uses the redis database.
type RedisCluster struct {
	KeyPrefix string

	client redis.UniversalClient
}

// NewRedisCluster 按配置创建客户端并用一次Ping验证连通性。
func NewRedisCluster(config *options.RedisOptions, keyPrefix string) (*RedisCluster, error) {
	client := newUniversalClient(config)

	timeout := 5 * time.Second
	if config.Timeout > 0 {
		timeout = time.Duration(config.Timeout) * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisCluster{KeyPrefix: keyPrefix, client: client}, nil
}

func newUniversalClient(config *options.RedisOptions) redis.UniversalClient {
	poolSize := 100
	if config.MaxActive > 0 {
		poolSize = config.MaxActive
	}

	timeout := 5 * time.Second
	if config.Timeout > 0 {
		timeout = time.Duration(config.Timeout) * time.Second
	}

	var tlsConfig *tls.Config
	if config.UseSSL {
		tlsConfig = &tls.Config{
			InsecureSkipVerify: config.SSLInsecureSkipVerify, // nolint: gosec
		}
	}

	opts := &redis.UniversalOptions{
		Addrs:        getRedisAddrs(config),
		MasterName:   config.MasterName,
		Username:     config.Username,
		Password:     config.Password,
		DB:           config.Database,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		PoolSize:     poolSize,
		MinIdleConns: config.MaxIdle,
		TLSConfig:    tlsConfig,
	}

	if config.MasterName != "" {
		log.Debug("--> [REDIS] Creating sentinel-backed failover client")
		return redis.NewFailoverClient(opts.Failover())
	}
	if config.EnableCluster {
		log.Debug("--> [REDIS] Creating cluster client")
		return redis.NewClusterClient(opts.Cluster())
	}
	log.Debug("--> [REDIS] Creating single-node client")
	return redis.NewClient(opts.Simple())
}

func getRedisAddrs(config *options.RedisOptions) (addrs []string) {
	if len(config.Addrs) != 0 {
		addrs = config.Addrs
	}
	if len(addrs) == 0 && config.Port != 0 {
		addrs = append(addrs, config.Host+":"+strconv.Itoa(config.Port))
	}
	return addrs
}

func (r *RedisCluster) fixKey(keyName string) string {
	return r.KeyPrefix + keyName
}

// Close 释放底层连接池。
func (r *RedisCluster) Close() error {
	return r.client.Close()
}

// GetKey retrieves a key from the database.
func (r *RedisCluster) GetKey(ctx context.Context, keyName string) (string, error) {
	value, err := r.client.Get(ctx, r.fixKey(keyName)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return value, nil
}

// SetKey stores a key with an expiry.
func (r *RedisCluster) SetKey(ctx context.Context, keyName, value string, timeout time.Duration) error {
	return r.client.Set(ctx, r.fixKey(keyName), value, timeout).Err()
}

// DeleteKey removes a key, reporting whether it existed.
func (r *RedisCluster) DeleteKey(ctx context.Context, keyName string) (bool, error) {
	n, err := r.client.Del(ctx, r.fixKey(keyName)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteScanMatch 扫描并删除所有匹配 pattern 的键（pattern 不含 KeyPrefix）。
func (r *RedisCluster) DeleteScanMatch(ctx context.Context, pattern string) bool {
	fixed := r.fixKey(pattern)
	log.Debugf("Deleting: %s", fixed)

	fnScan := func(client *redis.Client, nodeCtx context.Context) ([]string, error) {
		values := make([]string, 0)
		iter := client.Scan(nodeCtx, 0, fixed, 0).Iterator()
		for iter.Next(nodeCtx) {
			values = append(values, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return nil, err
		}
		return values, nil
	}

	var err error
	var keys []string

	switch v := r.client.(type) {
	case *redis.ClusterClient:
		// ForEachMaster 并发回调各主节点，聚合结果必须加锁
		var mu sync.Mutex
		err = v.ForEachMaster(ctx, func(nodeCtx context.Context, client *redis.Client) error {
			values, scanErr := fnScan(client, nodeCtx)
			if scanErr != nil {
				return scanErr
			}
			mu.Lock()
			keys = append(keys, values...)
			mu.Unlock()
			return nil
		})
	case *redis.Client:
		keys, err = fnScan(v, ctx)
	}

	if err != nil {
		log.Errorf("SCAN command failed with err: %s", err.Error())
		return false
	}

	for _, name := range keys {
		if delErr := r.client.Del(ctx, name).Err(); delErr != nil {
			log.Errorf("Error trying to delete key: %s - %s", name, delErr.Error())
		}
	}
	if len(keys) > 0 {
		log.Debugf("Deleted: %d records", len(keys))
	}

	return true
}
