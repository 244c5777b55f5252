package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"levi-escalas/backend/internal/dto"
	"levi-escalas/backend/internal/service"
	"levi-escalas/backend/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register 教会注册（首个用户成为管理员）
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterChurchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.RegisterChurch(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.Created(c, result)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// RefreshToken 刷新 Token 对
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout 登出（当前 access token 加入黑名单）
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenID, expiresAt, ok := MustGetToken(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), tokenID, expiresAt); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// GetCurrentUser 获取当前用户信息
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.authSvc.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// ChangePassword 修改密码
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, nil)
}

// GenerateInvite 生成部门邀请码（负责人或管理员）
// POST /api/v1/departments/:id/invites
func (h *AuthHandler) GenerateInvite(c *gin.Context) {
	departmentID := c.Param("id")
	if departmentID == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.GenerateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.GenerateInvite(c.Request.Context(), departmentID, callerID, &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.Created(c, result)
}

// ValidateInvite 验证邀请码（公开接口）
// GET /api/v1/auth/invite/:code
func (h *AuthHandler) ValidateInvite(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		response.BadRequest(c, 10001, "邀请码不能为空")
		return
	}

	result, err := h.authSvc.ValidateInvite(c.Request.Context(), code)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Join 通过邀请码加入部门
// POST /api/v1/auth/join
// 已登录用户携带 token 直接加入；未登录用户同时提交注册信息。
func (h *AuthHandler) Join(c *gin.Context) {
	var req dto.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	// 可选登录态：挂在可选认证路由上，未登录时 user_id 不存在
	callerID := ""
	if v, exists := c.Get("user_id"); exists {
		if s, isStr := v.(string); isStr {
			callerID = s
		}
	}

	result, err := h.authSvc.Join(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.Created(c, result)
}

// handleAuthError 将认证模块业务错误映射为 HTTP 响应
func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, 11001, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, 11002, err.Error())
	case errors.Is(err, service.ErrInvalidRefresh):
		response.Unauthorized(c, 11003, err.Error())
	case errors.Is(err, service.ErrWrongPassword):
		response.BadRequest(c, 11004, err.Error())
	case errors.Is(err, service.ErrInviteNotFound):
		response.NotFound(c, 11005, err.Error())
	case errors.Is(err, service.ErrInviteExpired):
		response.BadRequest(c, 11006, err.Error())
	case errors.Is(err, service.ErrInviteUsed):
		response.Conflict(c, 11007, err.Error())
	case errors.Is(err, service.ErrAlreadyMember):
		response.Conflict(c, 11008, err.Error())
	case errors.Is(err, service.ErrMissingSignupInfo):
		response.BadRequest(c, 11009, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11010, err.Error())
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 12001, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		response.Forbidden(c, 10003, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/auth_handler.go
