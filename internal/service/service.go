package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/YeswanthKasi/schmng-sub002/config"
	"github.com/YeswanthKasi/schmng-sub002/internal/repository"
	"github.com/YeswanthKasi/schmng-sub002/pkg/jwt"
	"github.com/YeswanthKasi/schmng-sub002/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Attendance AttendanceService
	Substitute SubstituteService
	Profile    ProfileService
	Dashboard  DashboardService
	Export     ExportService
}

// NewService 创建 Service 聚合
// verifier 为 nil 时会话签发不可用；rdb 为 nil 时会话缓存与黑名单降级为空操作
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	verifier IDTokenVerifier,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	// 只在非 nil 时赋给接口，避免 typed nil
	var (
		cache     SessionCache
		blacklist TokenBlacklist
	)
	if rdb != nil {
		cache = rdb
		blacklist = rdb
	}

	loc, err := cfg.Attendance.Location()
	if err != nil {
		loc = time.UTC
	}

	profile := NewProfileService(repo, cache, cfg.Cache.SessionTTL, logger)
	attendance := NewAttendanceService(cfg, repo, logger)

	return &Service{
		Auth:       NewAuthService(repo, jwtMgr, verifier, blacklist, profile, logger),
		Attendance: attendance,
		Substitute: NewSubstituteService(cfg, repo, logger),
		Profile:    profile,
		Dashboard:  NewDashboardService(profile, attendance, logger),
		Export:     NewExportService(attendance, loc, logger),
	}
}
