package service

import (
	"context"
	"errors"
	"time"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"github.com/YeswanthKasi/schmng-sub002/internal/dto"
	"github.com/YeswanthKasi/schmng-sub002/internal/repository"
	pkgerrors "github.com/YeswanthKasi/schmng-sub002/pkg/errors"
	"github.com/YeswanthKasi/schmng-sub002/pkg/jwt"
)

var (
	ErrInvalidIDToken    = errors.New("身份令牌无效")
	ErrAuthUnavailable   = errors.New("身份认证服务未配置")
	ErrProfileNotCreated = errors.New("账号资料尚未创建")
)

// IDTokenVerifier 校验 Firebase ID Token；*auth.Client 实现该接口
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// TokenBlacklist Token 黑名单；*redis.Client 实现该接口
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService 认证业务接口
type AuthService interface {
	// CreateSession 用 Firebase ID Token 换取 API 访问令牌
	CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	// Logout 作废访问令牌并清除会话缓存
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

type authService struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	verifier  IDTokenVerifier // 可为 nil
	blacklist TokenBlacklist  // 可为 nil
	profile   ProfileService
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	verifier IDTokenVerifier,
	blacklist TokenBlacklist,
	profile ProfileService,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		jwtMgr:    jwtMgr,
		verifier:  verifier,
		blacklist: blacklist,
		profile:   profile,
		logger:    logger,
	}
}

func (s *authService) CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	if s.verifier == nil {
		return nil, ErrAuthUnavailable
	}

	// 1. 校验 ID Token
	token, err := s.verifier.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		s.logger.Debug("ID Token 校验失败", zap.Error(err))
		return nil, ErrInvalidIDToken
	}

	// 2. 读取角色
	user, err := s.repo.Profile.GetUser(ctx, token.UID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrProfileNotCreated
		}
		s.logger.Error("查询用户失败", zap.String("uid", token.UID), zap.Error(err))
		return nil, err
	}

	// 3. 签发访问令牌
	accessToken, _, err := s.jwtMgr.GenerateAccessToken(token.UID, user.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.SessionResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User: dto.UserProfileResponse{
			UID:   token.UID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}

// Logout 会话 ID 即 jti
func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist != nil {
		if err := s.blacklist.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
			s.logger.Error("加入 Token 黑名单失败", zap.String("jti", jti), zap.Error(err))
			return err
		}
	}
	if err := s.profile.InvalidateSession(ctx, jti); err != nil {
		s.logger.Warn("清除会话缓存失败", zap.String("jti", jti), zap.Error(err))
	}
	return nil
}
