package code

// 通用基本错误（1000xx）：服务10 + 模块00 + 序号
const (
	// ErrSuccess - 200: 成功
	ErrSuccess int = iota + 100001 // 100001

	// ErrUnknown - 500: 内部服务器错误
	ErrUnknown // 100002

	// ErrBind - 400: 请求体绑定结构体失败
	ErrBind // 100003

	// ErrValidation - 422: 数据验证失败
	ErrValidation // 100004

	// ErrPageNotFound - 404: 页面不存在
	ErrPageNotFound // 100005
)

// 通用授权认证错误（1002xx）：服务10 + 模块02 + 序号
const (
	// ErrExpired - 401: 令牌已过期
	ErrExpired int = iota + 100203 // 100203

	// ErrInvalidAuthHeader - 401: 无效的授权头
	ErrInvalidAuthHeader // 100204

	// ErrMissingHeader - 401: Authorization头为空
	ErrMissingHeader // 100205

	// ErrPasswordIncorrect - 401: 密码不正确
	ErrPasswordIncorrect // 100206
)

// 通用加解码错误（1003xx）：服务10 + 模块03 + 序号
const (
	// ErrEncodingFailed - 500: 编码失败
	ErrEncodingFailed int = iota + 100301 // 100301

	// ErrDecodingFailed - 500: 解码失败
	ErrDecodingFailed // 100302

	// ErrInvalidJSON - 500: JSON数据无效
	ErrInvalidJSON // 100303
)

// 通用缓存错误（1004xx）：服务10 + 模块04 + 序号
const (
	// ErrRedisFailed - 500: Redis操作失败
	ErrRedisFailed int = iota + 100402 // 100402
)
