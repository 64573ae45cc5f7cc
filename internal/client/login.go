package client

import (
	"context"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/maxiaolu1981/cretem/nexuscore/log"

	v1 "github.com/maxiaolu1981/cretem/umctl/pkg/api/v1"

	"github.com/maxiaolu1981/cretem/umctl/internal/pkg/code"
)

const fallbackLoginMessage = "Failed to login"

// Login 用用户名密码换取令牌并建立会话。
func (c *Client) Login(ctx context.Context, name, password string) (*Session, error) {
	r := routes["auth.login"]
	req, err := c.newRequest(ctx, r.method, r.pathTemplate, &v1.LoginRequest{
		Username: name,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	result, err := c.do(ctx, "auth.login", req)
	if err != nil {
		return nil, errors.WrapC(err, code.ErrLoginFailed, "%s", fallbackLoginMessage)
	}
	if result.statusCode != r.successStatus {
		msg := serverMessage(result.body, fallbackLoginMessage)
		return nil, operationError(code.ErrLoginFailed, msg)
	}

	var tokens v1.AuthTokens
	if err := decodeData(result.body, &tokens); err != nil {
		return nil, err
	}
	if tokens.AccessToken == "" {
		return nil, errors.WithCode(code.ErrLoginFailed, "登录响应不含访问令牌")
	}

	c.session = NewSession(tokens.AccessToken, tokens.RefreshToken, tokens.UserID)
	log.Infow("登录成功", "name", name)
	return c.session, nil
}

// RefreshSession 用刷新令牌换取新的访问令牌。
// 访问令牌过期时写操作前先调用，刷新失败则要求重新登录。
func (c *Client) RefreshSession(ctx context.Context) error {
	if c.session == nil || c.session.RefreshToken() == "" {
		return errors.WithCode(code.ErrSessionExpired, "尚未登录,无法刷新会话")
	}

	r := routes["auth.refresh"]
	req, err := c.newRequest(ctx, r.method, r.pathTemplate, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.session.RefreshToken())

	result, err := c.do(ctx, "auth.refresh", req)
	if err != nil {
		return errors.WrapC(err, code.ErrSessionExpired, "刷新会话失败")
	}
	if result.statusCode != r.successStatus {
		return operationError(code.ErrSessionExpired, "刷新会话失败,请重新登录")
	}

	var tokens v1.AuthTokens
	if err := decodeData(result.body, &tokens); err != nil {
		return err
	}
	c.session.update(tokens.AccessToken, tokens.RefreshToken)
	log.Debugf("会话刷新成功: user_id=%d", c.session.UserID())
	return nil
}
