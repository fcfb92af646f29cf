package types

// 平台全局角色，admin > creator > user
const (
	USER_ROLE_ADMIN   = "role-admin"
	USER_ROLE_CREATOR = "role-creator"
	USER_ROLE_USER    = "role-user"
)

type User struct {
	ID        string `json:"id" db:"id"`                 // 用户ID，主键
	Name      string `json:"name" db:"name"`             // 用户名
	Email     string `json:"email" db:"email"`           // 用户邮箱，唯一约束
	Avatar    string `json:"avatar" db:"avatar"`         // 用户头像URL
	Salt      string `json:"-" db:"salt"`                // 密码盐
	Password  string `json:"-" db:"password"`            // 密码散列
	Role      string `json:"role" db:"role"`             // 全局角色
	UpdatedAt int64  `json:"updated_at" db:"updated_at"` // 更新时间
	CreatedAt int64  `json:"created_at" db:"created_at"` // 注册时间
}

type ListUserOptions struct {
	Email string
	Role  string
}

const DEFAULT_ACCESS_TOKEN_VERSION = "v1"

// UserTokenMeta 缓存中的登录态元信息，避免每次请求都查库
type UserTokenMeta struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expires_at"`
}

// AccessToken 登录态，落库并通过redis缓存加速校验
type AccessToken struct {
	ID        int64  `json:"id" db:"id"`
	UserID    string `json:"user_id" db:"user_id"`
	Token     string `json:"token" db:"token"`
	Version   string `json:"version" db:"version"`
	Info      string `json:"info" db:"info"`           // token用途说明，例如 login
	ExpiresAt int64  `json:"expires_at" db:"expires_at"` // 过期时间戳
	CreatedAt int64  `json:"created_at" db:"created_at"`
}
