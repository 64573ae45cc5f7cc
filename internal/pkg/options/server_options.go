package options

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// ServerOptions 定义目标 iam-apiserver 的访问配置。
type ServerOptions struct {
	// Address apiserver的基地址，如 http://192.168.10.8:8088。
	Address string `json:"address" mapstructure:"address"`

	// Timeout 单次请求超时。客户端不做重试，超时即失败。
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		Address: "http://127.0.0.1:8088",
		Timeout: 30 * time.Second,
	}
}

// Complete 规范化基地址（去掉末尾斜杠）。
func (s *ServerOptions) Complete() {
	s.Address = strings.TrimRight(s.Address, "/")
	if s.Timeout <= 0 {
		s.Timeout = 30 * time.Second
	}
}

func (s *ServerOptions) Validate() []error {
	var errs []error

	if s.Address == "" {
		errs = append(errs, fmt.Errorf("server配置警告：必须配置apiserver地址"))
		return errs
	}
	u, err := url.Parse(s.Address)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("server配置警告：apiserver地址 %q 无效，需为 http(s)://host[:port] 形式", s.Address))
	}

	return errs
}

func (s *ServerOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&s.Address, "server.address", s.Address, "Base URL of the iam-apiserver")
	fs.DurationVar(&s.Timeout, "server.timeout", s.Timeout, "Per request timeout, no retries are performed")
}
