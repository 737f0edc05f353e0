package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/YeswanthKasi/schmng-sub002/config"
	"github.com/YeswanthKasi/schmng-sub002/internal/api/handler"
	"github.com/YeswanthKasi/schmng-sub002/internal/api/router"
	"github.com/YeswanthKasi/schmng-sub002/internal/repository"
	"github.com/YeswanthKasi/schmng-sub002/internal/service"
	"github.com/YeswanthKasi/schmng-sub002/pkg/database"
	"github.com/YeswanthKasi/schmng-sub002/pkg/firebase"
	"github.com/YeswanthKasi/schmng-sub002/pkg/jwt"
	applogger "github.com/YeswanthKasi/schmng-sub002/pkg/logger"
	"github.com/YeswanthKasi/schmng-sub002/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	// 3. Firebase（Firestore 模式必需；Postgres 模式下仅在配置了项目时用于 ID Token 校验）
	var fbClients *firebase.Clients
	if cfg.Store.Driver == config.StoreDriverFirestore || cfg.Firebase.ProjectID != "" {
		fbClients, err = firebase.NewClients(initCtx, &cfg.Firebase, logger)
		if err != nil {
			if cfg.Store.Driver == config.StoreDriverFirestore {
				logger.Fatal("Firebase 初始化失败", zap.Error(err))
			}
			logger.Warn("Firebase 初始化失败，会话签发将不可用", zap.Error(err))
			fbClients = nil
		}
	}

	// 4. 文档存储
	var (
		repo *repository.Repository
		db   *gorm.DB
	)
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err = database.NewDB(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			logger.Fatal("数据库连接失败", zap.Error(err))
		}

		// 4.1 执行数据库迁移
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("数据库迁移失败", zap.Error(err))
		}
		repo = repository.NewGormRepository(db)
	default:
		repo = repository.NewFirestoreRepository(fbClients.Firestore)
	}

	// 5. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单与会话缓存将不可用", zap.Error(err))
		rdb = nil
	}

	// 6. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 7. 依赖注入: Repository → Service → Handler
	var verifier service.IDTokenVerifier
	if fbClients != nil && fbClients.Auth != nil {
		verifier = fbClients.Auth
	}
	svc := service.NewService(cfg, repo, jwtMgr, verifier, rdb, logger)
	h := handler.NewHandler(svc)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // 一年范围的逐日查询与导出
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭存储连接
	if db != nil {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
	}
	if fbClients != nil {
		fbClients.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
