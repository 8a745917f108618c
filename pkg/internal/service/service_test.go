package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeisme/dropvault/pkg/configs"
	"github.com/yeisme/dropvault/pkg/internal/model"
	"github.com/yeisme/dropvault/pkg/internal/storage/blob"
	"github.com/yeisme/dropvault/pkg/internal/storage/db"
)

// newTestService 构造基于内存 SQLite 和临时目录 fs 后端的 FileService.
func newTestService(t *testing.T) *FileService {
	t.Helper()

	// 默认配置；暂存与缩略图目录指向测试临时目录
	if err := configs.InitConfig(t.TempDir()); err != nil {
		t.Fatalf("init config: %v", err)
	}

	configs.GetConfig().Blob.StagingDir = t.TempDir()
	configs.GetConfig().Thumbnail.CacheDir = t.TempDir()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := gdb.AutoMigrate(&model.UploadRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store, err := blob.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("create fs store: %v", err)
	}

	return &FileService{
		blobStore: store,
		dbClient:  &db.Client{DB: gdb},
	}
}

// countRecords 返回当前记录总数.
func countRecords(t *testing.T, fs *FileService) int64 {
	t.Helper()

	var n int64
	if err := fs.dbClient.Model(&model.UploadRecord{}).Count(&n).Error; err != nil {
		t.Fatalf("count records: %v", err)
	}

	return n
}
