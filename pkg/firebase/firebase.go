package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/YeswanthKasi/schmng-sub002/config"
)

// Clients Firebase Admin SDK 客户端集合
type Clients struct {
	Firestore *firestore.Client
	Auth      *auth.Client
}

// NewClients 初始化 Firebase App 及 Firestore / Auth 客户端
// 凭据优先级：credentials_file > credentials_json > 运行环境默认凭据
func NewClients(ctx context.Context, cfg *config.FirebaseConfig, logger *zap.Logger) (*Clients, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	default:
		logger.Warn("未配置 Firebase 凭据，使用默认凭据")
	}

	var appCfg *fb.Config
	if cfg.ProjectID != "" {
		appCfg = &fb.Config{ProjectID: cfg.ProjectID}
	}

	app, err := fb.NewApp(ctx, appCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("初始化 Firebase App 失败: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("初始化 Firestore 失败: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("初始化 Firebase Auth 失败: %w", err)
	}

	logger.Info("Firebase 初始化成功", zap.String("project_id", cfg.ProjectID))

	return &Clients{Firestore: fs, Auth: authClient}, nil
}

// Close 关闭 Firestore 连接
func (c *Clients) Close() error {
	if c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}
