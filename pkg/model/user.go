package model

// RoleAdmin 管理员角色
const RoleAdmin = "admin"

// User 用户信息结构
type User struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Nickname string   `json:"nickname,omitempty"`
	Email    string   `json:"email,omitempty"`
	Avatar   string   `json:"avatar,omitempty"`
	UserKey  string   `json:"userKey,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// HasRole 判断用户是否拥有指定角色
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Clone 返回用户信息的深拷贝
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Roles != nil {
		c.Roles = append([]string(nil), u.Roles...)
	}
	return &c
}

// UserPatch 用户信息的部分更新，nil 字段保持不变
type UserPatch struct {
	Nickname *string
	Email    *string
	Avatar   *string
	UserKey  *string
}

// LoginRequest 登录请求结构
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse 登录响应结构
type LoginResponse struct {
	Token     string   `json:"token"`
	UserID    int64    `json:"userId"`
	Username  string   `json:"username"`
	Nickname  string   `json:"nickname,omitempty"`
	Email     string   `json:"email,omitempty"`
	Avatar    string   `json:"avatar,omitempty"`
	UserKey   string   `json:"userKey,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	ExpiresIn int64    `json:"expiresIn"`
}

// User 从登录响应构建用户信息
func (r *LoginResponse) User() *User {
	return &User{
		ID:       r.UserID,
		Username: r.Username,
		Nickname: r.Nickname,
		Email:    r.Email,
		Avatar:   r.Avatar,
		UserKey:  r.UserKey,
		Roles:    append([]string(nil), r.Roles...),
	}
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
