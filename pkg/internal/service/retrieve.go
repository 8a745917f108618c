package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/yeisme/dropvault/pkg/internal/model"
	"github.com/yeisme/dropvault/pkg/internal/storage/blob"
	nlog "github.com/yeisme/dropvault/pkg/log"
)

// Fetch 按哈希检索文件，返回记录与字节流，调用方负责关闭流.
//
// 读路径上做惰性过期：过期记录当场清除后返回 ErrNotFound，不依赖
// 周期清理的时间窗口.记录存在而 blob 缺失时同样清除悬空记录.
func (fs *FileService) Fetch(ctx context.Context, hash string) (*model.UploadRecord, io.ReadCloser, error) {
	record, found, err := fs.getByHash(hash)
	if err != nil {
		return nil, nil, err
	}

	if !found {
		return nil, nil, ErrNotFound
	}

	if record.Expired(time.Now().UTC()) {
		fs.purgeRecord(ctx, record, "expired on read")

		return nil, nil, ErrNotFound
	}

	rc, err := fs.blobStore.OpenRead(ctx, record.ContentHash)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			// 悬空记录，自愈后按不存在处理
			fs.purgeRecord(ctx, record, "blob missing on read")

			return nil, nil, ErrNotFound
		}

		return nil, nil, fmt.Errorf("open blob %s: %w", hash, err)
	}

	return record, rc, nil
}

// purgeRecord 删除记录及其 blob.blob 删除失败不阻塞记录删除.
func (fs *FileService) purgeRecord(ctx context.Context, record *model.UploadRecord, reason string) {
	if err := fs.blobStore.Delete(ctx, record.ContentHash); err != nil && !errors.Is(err, blob.ErrNotFound) {
		nlog.Logger().Warn().Err(err).Str("hash", record.ContentHash).Msg("failed to delete blob during purge")
	}

	if err := fs.dbClient.WithContext(ctx).Delete(&model.UploadRecord{}, "id = ?", record.ID).Error; err != nil {
		nlog.Logger().Warn().Err(err).Str("id", record.ID).Msg("failed to delete record during purge")

		return
	}

	nlog.Logger().Info().
		Str("hash", record.ContentHash).
		Str("reason", reason).
		Msg("record purged")
}
