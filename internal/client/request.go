package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/buger/jsonparser"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/maxiaolu1981/cretem/nexuscore/log"

	"github.com/maxiaolu1981/cretem/umctl/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/umctl/internal/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// envelope 是服务端的统一响应格式。
type envelope struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Data    jsoniter.RawMessage `json:"data"`
}

// apiResult 汇总一次请求的结果，供各操作按自身语义解读。
type apiResult struct {
	statusCode int
	body       []byte
}

// newRequest 构造请求：序列化请求体、附加 Request-ID 与登录凭证。
func (c *Client) newRequest(ctx context.Context, method, path string, payload interface{}) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.WrapC(err, code.ErrEncodingFailed, "序列化请求体失败")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "构造请求失败")
	}

	req.Header.Set("X-Request-ID", uuid.New().String())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil {
		if token := c.session.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// do 执行请求并读出响应体。operation 用于指标与日志。
// 发出前检查会话是否过期（过期先刷新），写操作再经过限速器；
// ctx 取消时提前返回。
func (c *Client) do(ctx context.Context, operation string, req *http.Request) (*apiResult, error) {
	if err := c.ensureFreshSession(ctx, operation, req); err != nil {
		return nil, err
	}
	if c.writeLimiter != nil && req.Method != http.MethodGet {
		if err := c.writeLimiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "等待写限速失败")
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		metrics.RecordRequest(operation, "transport_error", duration)
		metrics.RequestFailures.WithLabelValues(operation, "transport").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordRequest(operation, "read_error", duration)
		metrics.RequestFailures.WithLabelValues(operation, "read").Inc()
		return nil, errors.Wrap(err, "读取响应体失败")
	}

	metrics.RecordRequest(operation, strconv.Itoa(resp.StatusCode), duration)
	log.Debugw("请求完成",
		"operation", operation,
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", duration.String(),
	)

	return &apiResult{statusCode: resp.StatusCode, body: body}, nil
}

// ensureFreshSession 在请求发出前检查访问令牌：已过期则先用刷新令牌
// 换新，并把新令牌写回请求头。认证接口自身不做该检查。
func (c *Client) ensureFreshSession(ctx context.Context, operation string, req *http.Request) error {
	if c.session == nil || operation == "auth.login" || operation == "auth.refresh" {
		return nil
	}
	if !c.session.Expired() {
		return nil
	}
	if err := c.RefreshSession(ctx); err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.session.AccessToken())
	return nil
}

// decodeData 解包响应 envelope 并把 data 部分反序列化到 out。
// 部分老接口不带 envelope，解包失败时退回整体反序列化。
func decodeData(body []byte, out interface{}) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err == nil {
			return nil
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.WrapC(err, code.ErrDecodingFailed, "反序列化响应失败")
	}
	return nil
}

// serverMessage 从失败响应体里提取 message 字段；响应体不可解析或
// 缺少该字段时返回 fallback。
func serverMessage(body []byte, fallback string) string {
	if len(body) == 0 {
		return fallback
	}
	msg, err := jsonparser.GetString(body, "message")
	if err != nil || msg == "" {
		return fallback
	}
	return msg
}

// operationError 把失败响应转换为带错误码的 error。错误消息与发往
// 通知器的文本完全一致，HTTP 状态只进日志与指标。
func operationError(coder int, msg string) error {
	return errors.WithCode(coder, "%s", msg)
}
