package dto

// ── 认证模块 DTO ──

// RegisterChurchRequest 教会注册请求（首个用户成为教会管理员）
type RegisterChurchRequest struct {
	ChurchName string `json:"church_name" binding:"required,min=2,max=100"`
	City       string `json:"city"        binding:"omitempty,max=100"`
	Name       string `json:"name"        binding:"required,min=2,max=100"`
	Email      string `json:"email"       binding:"required,email"`
	Password   string `json:"password"    binding:"required,min=8,max=72"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email      string `json:"email"    binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// JoinRequest 通过邀请码加入部门请求
// 已有账号时仅需邀请码；新用户同时提交注册信息
type JoinRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
	Name       string `json:"name"        binding:"omitempty,min=2,max=100"`
	Email      string `json:"email"       binding:"omitempty,email"`
	Password   string `json:"password"    binding:"omitempty,min=8,max=72"`
}

// GenerateInviteRequest 生成邀请码请求
type GenerateInviteRequest struct {
	Role string `json:"role" binding:"omitempty,oneof=leader member"` // 默认 member
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// [自证通过] internal/dto/auth.go
