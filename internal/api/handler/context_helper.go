package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/YeswanthKasi/schmng-sub002/internal/api/middleware"
	"github.com/YeswanthKasi/schmng-sub002/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString(middleware.ContextUserID)
	if s == "" {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return "", false
	}
	return s, true
}

// MustGetSession 提取会话 ID（Token jti）与 Token 过期时间
func MustGetSession(c *gin.Context) (string, time.Time, bool) {
	jti := c.GetString(middleware.ContextTokenJTI)
	if jti == "" {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return "", time.Time{}, false
	}
	return jti, c.GetTime(middleware.ContextTokenExp), true
}
