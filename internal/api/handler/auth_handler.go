package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YeswanthKasi/schmng-sub002/internal/dto"
	"github.com/YeswanthKasi/schmng-sub002/internal/service"
	"github.com/YeswanthKasi/schmng-sub002/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc    service.AuthService
	profileSvc service.ProfileService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService, profileSvc service.ProfileService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, profileSvc: profileSvc}
}

// CreateSession 用 Firebase ID Token 换取访问令牌
// POST /api/v1/auth/session
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "参数校验失败")
		return
	}

	result, err := h.authSvc.CreateSession(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout 登出：Token 加入黑名单并清除会话缓存
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp, ok := MustGetSession(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// GetCurrentUser 当前账号资料
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.profileSvc.GetUser(c.Request.Context(), uid)
	if err != nil {
		handleProfileError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidIDToken):
		response.Unauthorized(c, 11001, "身份令牌无效或已过期")
	case errors.Is(err, service.ErrProfileNotCreated):
		response.Forbidden(c, 11002, "账号资料尚未创建，请联系管理员")
	case errors.Is(err, service.ErrAuthUnavailable):
		response.Error(c, http.StatusServiceUnavailable, 11003, "身份认证服务未配置")
	default:
		response.InternalError(c)
	}
}
