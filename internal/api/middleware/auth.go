package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/YeswanthKasi/schmng-sub002/pkg/jwt"
	"github.com/YeswanthKasi/schmng-sub002/pkg/response"
)

// 上下文键
const (
	ContextUserID   = "user_id"
	ContextRole     = "role"
	ContextTokenJTI = "token_jti" // 同时作为会话 ID
	ContextTokenExp = "token_exp"
)

// BlacklistChecker Token 黑名单查询；*redis.Client 实现该接口
type BlacklistChecker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token
// blacklist 为 nil 时跳过黑名单检查；Redis 出错时降级放行
func JWTAuth(jwtMgr *jwt.Manager, blacklist BlacklistChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, response.CodeUnauthorized, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, response.CodeUnauthorized, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, response.CodeUnauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		if claims.TokenType != jwt.TokenTypeAccess {
			response.Unauthorized(c, response.CodeUnauthorized, "Token 类型无效")
			c.Abort()
			return
		}

		if blacklist != nil {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.Unauthorized(c, response.CodeUnauthorized, "Token 已失效")
				c.Abort()
				return
			}
		}

		var exp time.Time
		if claims.ExpiresAt != nil {
			exp = claims.ExpiresAt.Time
		}

		// 将用户信息注入上下文
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextTokenJTI, claims.ID)
		c.Set(ContextTokenExp, exp)

		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(ContextRole)
		if userRole == "" {
			response.Unauthorized(c, response.CodeUnauthorized, "未认证")
			c.Abort()
			return
		}

		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, response.CodeForbidden, "无权限访问")
		c.Abort()
	}
}
