/*
v1 包定义了控制台侧的用户数据交换模型。与 nexuscore/api/apiserver/v1 的存储模型不同，
这里只保留 iam-apiserver 对外暴露、且控制台需要展示或提交的字段（不携带 gorm 映射，
不携带密码哈希等敏感输出字段）。

核心结构：
User：服务端返回的用户资源（只读视角）。
UserList：分页列表（totalCount + items），适配 /v1/users 的返回。
CreateUserRequest：创建用户的出站载荷，validate 标签与服务端校验规则对齐，
创建前由客户端本地预校验，避免明显非法的请求打到服务端。
UpdateUserRequest：部分更新载荷，全部为指针字段，只序列化调用方显式设置的字段。
*/
package v1

import "time"

// 角色取值与服务端约定一致。
const (
	RoleStudent    = "student"
	RoleTeacher    = "teacher"
	RoleSuperAdmin = "superadmin"
)

// User 表示服务端视角的用户资源，控制台只读。
type User struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Nickname  string    `json:"nickname,omitempty"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// UserList 表示分页返回的用户集合。
type UserList struct {
	TotalCount int64   `json:"totalCount"`
	Items      []*User `json:"items"`
}

// CreateUserRequest 是创建用户的出站载荷。
// 字段约束与服务端 user 模型保持一致（名称/密码/邮箱必填，角色为枚举）。
type CreateUserRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=30"`
	Nickname string `json:"nickname" validate:"omitempty,min=1,max=30"`
	Password string `json:"password" validate:"required,min=8,max=64"`
	Email    string `json:"email"    validate:"required,email,min=1,max=100"`
	Phone    string `json:"phone"    validate:"omitempty,min=1,max=20"`
	Role     string `json:"role"     validate:"required,oneof=student teacher superadmin"`
}

// UpdateUserRequest 是部分更新载荷：nil 字段不会出现在请求体中。
// 出站不做本地校验，字段合法性由服务端裁决。
type UpdateUserRequest struct {
	Nickname *string `json:"nickname,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Role     *string `json:"role,omitempty"`
	Status   *int    `json:"status,omitempty"`
}

// LoginRequest 是 /login 的出站载荷。
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthTokens 是登录与刷新接口返回的令牌对。
type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       uint64 `json:"user_id,omitempty"`
}
