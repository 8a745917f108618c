// Package storage 聚合存储资源：元数据库与 Blob 后端.
//
// Example:
//
// 初始化
//
//	 ctx := context.Background()
//	 mgr, err := storage.Init(ctx)
//
//		if err != nil {
//		    // 处理错误
//		}
//
// 获取存储客户端
//
//	blobStore := mgr.GetBlobStore()
//	dbClient := mgr.GetDBClient()
package storage

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/yeisme/dropvault/pkg/configs"
	"github.com/yeisme/dropvault/pkg/internal/storage/blob"
	dbc "github.com/yeisme/dropvault/pkg/internal/storage/db"
	s3c "github.com/yeisme/dropvault/pkg/internal/storage/s3"
	nlog "github.com/yeisme/dropvault/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	Blob blob.Store
	DB   *dbc.Client
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置.重复调用只返回已初始化实例.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		cfg := configs.GetConfig()
		m := &Manager{}

		// DB
		if dbi, e := dbc.New(ctx); e != nil {
			err = e

			return
		} else {
			m.DB = dbi
		}

		// Blob 后端，启动时按配置选定一次
		if store, e := newBlobStore(ctx, cfg.Blob); e != nil {
			err = e

			return
		} else {
			m.Blob = store
		}

		// 上传暂存目录，未配置时走系统临时目录
		if dir := cfg.Blob.StagingDir; dir != "" {
			if e := os.MkdirAll(dir, 0o755); e != nil {
				err = fmt.Errorf("create staging dir %s: %w", dir, e)

				return
			}
		}

		mgr = m

		nlog.Logger().Info().Str("blob_backend", string(cfg.Blob.Backend)).Msg("storage manager initialized")
	})

	return mgr, err
}

// newBlobStore 按配置创建 Blob 后端.
func newBlobStore(ctx context.Context, cfg configs.BlobConfig) (blob.Store, error) {
	switch cfg.Backend {
	case configs.BackendFS:
		return blob.NewFSStore(cfg.DataDir)
	case configs.BackendS3:
		cli, err := s3c.New(ctx)
		if err != nil {
			return nil, err
		}

		return blob.NewS3Store(cli), nil
	default:
		return nil, fmt.Errorf("unsupported blob backend: %s", cfg.Backend)
	}
}

// GetBlobStore 获取 Blob 存储后端.
func (m *Manager) GetBlobStore() blob.Store {
	return m.Blob
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// HealthCheckBlob 校验 Blob 后端可用性.后端未实现健康检查时视为健康.
func (m *Manager) HealthCheckBlob(ctx context.Context) error {
	if hc, ok := m.Blob.(blob.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}

	return nil
}

// HealthCheckDB 校验数据库连接.
func (m *Manager) HealthCheckDB(ctx context.Context) error {
	sqlDB, err := m.DB.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}
