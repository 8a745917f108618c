package storage

import (
	"context"

	"github.com/yeisme/dropvault/pkg/internal/storage/blob"
	dbc "github.com/yeisme/dropvault/pkg/internal/storage/db"
)

type contextKey string

const managerKey contextKey = "storageManager"

// WithManager 将 Manager 存储到 context 中.
func WithManager(ctx context.Context, mgr *Manager) context.Context {
	return context.WithValue(ctx, managerKey, mgr)
}

// GetManagerFromContext 从 context 中获取 Manager.
func GetManagerFromContext(ctx context.Context) *Manager {
	if mgr, ok := ctx.Value(managerKey).(*Manager); ok {
		return mgr
	}

	return nil
}

// GetBlobStoreFromContext 从 context 中获取 Blob 存储后端.
func GetBlobStoreFromContext(ctx context.Context) blob.Store {
	if mgr := GetManagerFromContext(ctx); mgr != nil {
		return mgr.Blob
	}

	return nil
}

// GetDBClientFromContext 从 context 中获取 DB 客户端.
func GetDBClientFromContext(ctx context.Context) *dbc.Client {
	if mgr := GetManagerFromContext(ctx); mgr != nil {
		return mgr.DB
	}

	return nil
}
