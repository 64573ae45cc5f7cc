/*
client 包实现用户管理接口的控制台数据访问层：列表/详情走查询缓存，
创建/更新/删除成功后按前缀失效列表缓存，并通过 Notifier 上报结果。
*/
package client

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/maxiaolu1981/cretem/umctl/internal/pkg/notify"
	"github.com/maxiaolu1981/cretem/umctl/internal/pkg/querycache"
)

// Client 是面向用户资源的 HTTP 客户端。
// 并发安全：内部状态要么只读，要么自身带锁。
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *querycache.Cache
	notifier   notify.Notifier
	validate   *validator.Validate

	// writeLimiter 限制写操作的发起速率，避免触发服务端限流后成批失败。
	writeLimiter *rate.Limiter

	session *Session
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient 替换默认的 http.Client，测试时注入带超时的实例。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithNotifier 设置结果通知器，默认不通知。
func WithNotifier(n notify.Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithWriteRateLimit 启用写操作限速。
func WithWriteRateLimit(qps, burst int) Option {
	return func(c *Client) {
		c.writeLimiter = rate.NewLimiter(rate.Limit(qps), burst)
	}
}

// WithSession 设置登录会话，请求会带上 Bearer 凭证。
func WithSession(s *Session) Option {
	return func(c *Client) { c.session = s }
}

// New 创建客户端。baseURL 形如 http://127.0.0.1:8088，不含尾部斜杠。
func New(baseURL string, cache *querycache.Cache, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      cache,
		notifier:   notify.Noop{},
		validate:   validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the current login session, nil when not logged in.
func (c *Client) Session() *Session {
	return c.session
}
