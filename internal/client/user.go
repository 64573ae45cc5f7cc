package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/maxiaolu1981/cretem/nexuscore/log"

	v1 "github.com/maxiaolu1981/cretem/umctl/pkg/api/v1"

	"github.com/maxiaolu1981/cretem/umctl/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/umctl/internal/pkg/querycache"
)

// 各操作的兜底失败消息：响应体无法解析或不含 message 字段时使用。
const (
	fallbackFetchMessage  = "Failed to fetch users"
	fallbackCreateMessage = "Failed to create user"
	fallbackUpdateMessage = "Failed to update user"
	fallbackDeleteMessage = "Failed to delete user"
)

// ListUsers 返回用户列表，role 非空时按角色过滤。
// 结果走查询缓存，同键并发未命中只触发一次上游请求。
func (c *Client) ListUsers(ctx context.Context, role string) (*v1.UserList, error) {
	key := querycache.ListKey(role)

	body, err := c.cache.GetOrFetch(ctx, "list", key, func(fetchCtx context.Context) ([]byte, error) {
		return c.fetchUserList(fetchCtx, role)
	})
	if err != nil {
		return nil, err
	}

	var list v1.UserList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, errors.WrapC(err, code.ErrDecodingFailed, "反序列化用户列表失败")
	}
	return &list, nil
}

func (c *Client) fetchUserList(ctx context.Context, role string) ([]byte, error) {
	r := routes["user.list"]
	path := r.pathTemplate
	if role != "" {
		path += "?role=" + url.QueryEscape(role)
	}

	req, err := c.newRequest(ctx, r.method, path, nil)
	if err != nil {
		return nil, err
	}
	result, err := c.do(ctx, "user.list", req)
	if err != nil {
		return nil, errors.WrapC(err, code.ErrFetchFailed, "%s", fallbackFetchMessage)
	}
	// 读失败不弹通知、不解析响应体，统一用固定消息；
	// 消息提取只属于创建/更新路径
	if result.statusCode != r.successStatus {
		return nil, operationError(code.ErrFetchFailed, fallbackFetchMessage)
	}

	var list v1.UserList
	if err := decodeData(result.body, &list); err != nil {
		return nil, err
	}
	return json.Marshal(&list)
}

// GetUser 返回单个用户详情，结果按 id 缓存。
func (c *Client) GetUser(ctx context.Context, id uint64) (*v1.User, error) {
	key := querycache.DetailKey(id)

	body, err := c.cache.GetOrFetch(ctx, "detail", key, func(fetchCtx context.Context) ([]byte, error) {
		return c.fetchUser(fetchCtx, id)
	})
	if err != nil {
		return nil, err
	}

	var user v1.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, errors.WrapC(err, code.ErrDecodingFailed, "反序列化用户详情失败")
	}
	return &user, nil
}

func (c *Client) fetchUser(ctx context.Context, id uint64) ([]byte, error) {
	r := routes["user.get"]
	req, err := c.newRequest(ctx, r.method, fmt.Sprintf(r.pathTemplate, id), nil)
	if err != nil {
		return nil, err
	}
	result, err := c.do(ctx, "user.get", req)
	if err != nil {
		return nil, errors.WrapC(err, code.ErrFetchFailed, "%s", fallbackFetchMessage)
	}
	if result.statusCode == 404 {
		return nil, operationError(code.ErrUserNotFound, fallbackFetchMessage)
	}
	if result.statusCode != r.successStatus {
		return nil, operationError(code.ErrFetchFailed, fallbackFetchMessage)
	}

	var user v1.User
	if err := decodeData(result.body, &user); err != nil {
		return nil, err
	}
	return json.Marshal(&user)
}

// CreateUser 创建用户。请求体先过本地校验，校验失败不发请求、不通知，
// 由调用方直接向用户展示校验错误。
func (c *Client) CreateUser(ctx context.Context, reqBody *v1.CreateUserRequest) (*v1.User, error) {
	if err := c.validate.Struct(reqBody); err != nil {
		return nil, errors.WrapC(err, code.ErrValidation, "创建用户参数校验失败")
	}

	r := routes["user.create"]
	req, err := c.newRequest(ctx, r.method, r.pathTemplate, reqBody)
	if err != nil {
		return nil, err
	}
	result, err := c.do(ctx, "user.create", req)
	if err != nil {
		c.notifier.Error(fallbackCreateMessage)
		return nil, errors.WrapC(err, code.ErrCreateFailed, "%s", fallbackCreateMessage)
	}
	if result.statusCode != r.successStatus {
		msg := serverMessage(result.body, fallbackCreateMessage)
		c.notifier.Error(msg)
		return nil, operationError(code.ErrCreateFailed, msg)
	}

	var user v1.User
	if err := decodeData(result.body, &user); err != nil {
		return nil, err
	}

	c.invalidateAfterWrite(ctx, user.ID)
	log.Infow("用户创建成功", "name", reqBody.Name, "id", user.ID)
	c.notifier.Success(fmt.Sprintf("User %s created", reqBody.Name))
	return &user, nil
}

// UpdateUser 按 id 更新用户。请求体是增量字段，不做本地校验，
// 合法性完全交给服务端判定。
func (c *Client) UpdateUser(ctx context.Context, id uint64, reqBody *v1.UpdateUserRequest) (*v1.User, error) {
	r := routes["user.update"]
	req, err := c.newRequest(ctx, r.method, fmt.Sprintf(r.pathTemplate, id), reqBody)
	if err != nil {
		return nil, err
	}
	result, err := c.do(ctx, "user.update", req)
	if err != nil {
		c.notifier.Error(fallbackUpdateMessage)
		return nil, errors.WrapC(err, code.ErrUpdateFailed, "%s", fallbackUpdateMessage)
	}
	if result.statusCode != r.successStatus {
		msg := serverMessage(result.body, fallbackUpdateMessage)
		c.notifier.Error(msg)
		return nil, operationError(code.ErrUpdateFailed, msg)
	}

	var user v1.User
	if err := decodeData(result.body, &user); err != nil {
		return nil, err
	}

	c.invalidateAfterWrite(ctx, id)
	log.Infow("用户更新成功", "id", id)
	c.notifier.Success(fmt.Sprintf("User %d updated", id))
	return &user, nil
}

// DeleteUser 按 id 删除用户。失败时不解析响应体，统一使用兜底消息。
func (c *Client) DeleteUser(ctx context.Context, id uint64) error {
	r := routes["user.delete"]
	req, err := c.newRequest(ctx, r.method, fmt.Sprintf(r.pathTemplate, id), nil)
	if err != nil {
		return err
	}
	result, err := c.do(ctx, "user.delete", req)
	if err != nil {
		c.notifier.Error(fallbackDeleteMessage)
		return errors.WrapC(err, code.ErrDeleteFailed, "%s", fallbackDeleteMessage)
	}
	// 典型应答是 204，但任何 2xx 都算删除成功
	if result.statusCode/100 != 2 {
		c.notifier.Error(fallbackDeleteMessage)
		return operationError(code.ErrDeleteFailed, fallbackDeleteMessage)
	}

	c.invalidateAfterWrite(ctx, id)
	log.Infow("用户删除成功", "id", id)
	c.notifier.Success(fmt.Sprintf("User %d deleted", id))
	return nil
}

// invalidateAfterWrite 在写操作成功后清理缓存：列表按前缀整体失效
// （覆盖所有角色过滤的键），详情按 id 精确失效。
func (c *Client) invalidateAfterWrite(ctx context.Context, id uint64) {
	c.cache.InvalidatePrefix(ctx, querycache.ListPrefix)
	if id != 0 {
		c.cache.Invalidate(ctx, querycache.DetailKey(id))
	}
}
