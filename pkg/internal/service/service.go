// Package service 实现文件存取与生命周期的业务逻辑.
package service

import (
	"context"

	ctxPkg "github.com/yeisme/dropvault/pkg/context"
	"github.com/yeisme/dropvault/pkg/internal/storage/blob"
	"github.com/yeisme/dropvault/pkg/internal/storage/db"
)

type FileService struct {
	blobStore blob.Store
	dbClient  *db.Client
}

func NewFileService(c context.Context) *FileService {
	return &FileService{
		blobStore: ctxPkg.GetBlobStore(c),
		dbClient:  ctxPkg.GetDBClient(c),
	}
}
