package code

// umctl 控制台客户端错误（1105xx）：服务11 + 模块05 + 序号
const (
	// ErrFetchFailed - 500: 拉取用户列表失败
	ErrFetchFailed int = iota + 110501 // 110501

	// ErrCreateFailed - 500: 创建用户失败
	ErrCreateFailed // 110502

	// ErrUpdateFailed - 500: 更新用户失败
	ErrUpdateFailed // 110503

	// ErrDeleteFailed - 500: 删除用户失败
	ErrDeleteFailed // 110504

	// ErrUserNotFound - 404: 用户不存在
	ErrUserNotFound // 110505

	// ErrLoginFailed - 401: 登录失败
	ErrLoginFailed // 110506

	// ErrSessionExpired - 401: 会话已过期，需要重新登录
	ErrSessionExpired // 110507
)

// nolint: gochecknoinits
func init() {
	register(ErrSuccess, 200, "成功")
	register(ErrUnknown, 500, "内部服务器错误")
	register(ErrBind, 400, "请求体绑定结构体失败")
	register(ErrValidation, 422, "数据验证失败")
	register(ErrPageNotFound, 404, "页面不存在")

	register(ErrExpired, 401, "令牌已过期")
	register(ErrInvalidAuthHeader, 401, "无效的授权头")
	register(ErrMissingHeader, 401, "Authorization头为空")
	register(ErrPasswordIncorrect, 401, "密码不正确")

	register(ErrEncodingFailed, 500, "编码失败")
	register(ErrDecodingFailed, 500, "解码失败")
	register(ErrInvalidJSON, 500, "JSON数据无效")

	register(ErrRedisFailed, 500, "Redis操作失败")

	register(ErrFetchFailed, 500, "Failed to fetch users")
	register(ErrCreateFailed, 500, "Failed to create user")
	register(ErrUpdateFailed, 500, "Failed to update user")
	register(ErrDeleteFailed, 500, "Failed to delete user")
	register(ErrUserNotFound, 404, "用户不存在")
	register(ErrLoginFailed, 401, "登录失败")
	register(ErrSessionExpired, 401, "会话已过期")
}
