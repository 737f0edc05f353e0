package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/YeswanthKasi/schmng-sub002/config"
	"github.com/YeswanthKasi/schmng-sub002/internal/api/handler"
	"github.com/YeswanthKasi/schmng-sub002/internal/api/middleware"
	"github.com/YeswanthKasi/schmng-sub002/internal/dto"
	"github.com/YeswanthKasi/schmng-sub002/internal/model"
	"github.com/YeswanthKasi/schmng-sub002/pkg/jwt"
	"github.com/YeswanthKasi/schmng-sub002/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if err := dto.RegisterValidators(); err != nil {
		logger.Fatal("注册校验规则失败", zap.Error(err))
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// rdb 为 nil 时不能直接作为接口传入（typed nil）
	var blacklist middleware.BlacklistChecker
	if rdb != nil {
		blacklist = rdb
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		v1.POST("/auth/session", middleware.RateLimit(rdb, 20, time.Minute), h.Auth.CreateSession)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 考勤模块
			attendance := authorized.Group("/attendance")
			{
				attendance.GET("/history", h.Attendance.History)
				attendance.GET("/summary", h.Attendance.Summary)
				attendance.GET("/export", middleware.RoleAuth(model.RoleAdmin, model.RoleTeacher), h.Attendance.Export)
				attendance.POST("", middleware.RoleAuth(model.RoleAdmin, model.RoleTeacher), h.Attendance.Mark)
			}

			// 代课模块（分配时 Service 层复核 admin 角色）
			substitutes := authorized.Group("/substitutes")
			{
				substitutes.GET("", h.Substitute.GetAssignment)
				substitutes.GET("/available", middleware.RoleAuth(model.RoleAdmin), h.Substitute.ListAvailable)
				substitutes.PUT("", middleware.RoleAuth(model.RoleAdmin), h.Substitute.Assign)
			}

			// 资料模块
			profiles := authorized.Group("/profiles")
			{
				profiles.GET("/teachers/:id", h.Profile.GetTeacher)
				profiles.GET("/students/:id", h.Profile.GetStudent)
			}

			// 家长首页
			authorized.GET("/parents/me/dashboard", middleware.RoleAuth(model.RoleParent), h.Parent.Dashboard)
		}
	}

	return r
}
