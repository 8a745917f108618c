package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yeisme/dropvault/pkg/internal/model"
	"github.com/yeisme/dropvault/pkg/internal/storage/blob"
	"github.com/yeisme/dropvault/pkg/internal/types"
	nlog "github.com/yeisme/dropvault/pkg/log"
)

// Delete 按哈希删除文件：先删 blob 再删记录.
//
// blob 删除失败且记录仍在时向调用方报存储错误，不静默吞掉，
// 留给下一次清理或重试处理.
func (fs *FileService) Delete(ctx context.Context, hash string) error {
	record, found, err := fs.getByHash(hash)
	if err != nil {
		return err
	}

	if !found {
		return ErrNotFound
	}

	if err := fs.blobStore.Delete(ctx, record.ContentHash); err != nil && !errors.Is(err, blob.ErrNotFound) {
		return fmt.Errorf("delete blob %s: %w", hash, err)
	}

	if err := fs.dbClient.WithContext(ctx).Delete(&model.UploadRecord{}, "id = ?", record.ID).Error; err != nil {
		return fmt.Errorf("delete record %s: %w", record.ID, err)
	}

	nlog.Logger().Info().Str("hash", hash).Msg("file deleted")

	return nil
}

// List 列出所有一致的记录：blob 存在且必要字段完整.
//
// 列表同时承担自愈职责：枚举过程中发现的不一致记录被当场清除，
// 不出现在结果中.文件名缺扩展名时按内容类型做尽力修补.
func (fs *FileService) List(ctx context.Context) (*types.ListFilesResponse, error) {
	var records []model.UploadRecord

	if err := fs.dbClient.WithContext(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	now := time.Now().UTC()
	files := make([]types.FileInfo, 0, len(records))

	for i := range records {
		record := &records[i]

		if record.Expired(now) {
			fs.purgeRecord(ctx, record, "expired on list")

			continue
		}

		if !record.Consistent() {
			fs.purgeRecord(ctx, record, "incomplete record on list")

			continue
		}

		exists, err := fs.blobStore.Exists(ctx, record.ContentHash)
		if err != nil {
			// 存在性未确认时保守保留记录，只跳过本次展示
			nlog.Logger().Warn().Err(err).Str("hash", record.ContentHash).Msg("blob existence check failed")

			continue
		}

		if !exists {
			fs.purgeRecord(ctx, record, "blob missing on list")

			continue
		}

		fs.repairFileName(ctx, record)

		files = append(files, recordToInfo(record))
	}

	return &types.ListFilesResponse{Files: files, Total: len(files)}, nil
}

// repairFileName 尽力修补缺失的扩展名并回写，失败只记日志.
func (fs *FileService) repairFileName(ctx context.Context, record *model.UploadRecord) {
	repaired := repairedFileName(record)
	if repaired == record.FileName {
		return
	}

	record.FileName = repaired

	if err := fs.dbClient.WithContext(ctx).Model(record).Update("file_name", repaired).Error; err != nil {
		nlog.Logger().Warn().Err(err).Str("id", record.ID).Msg("failed to persist repaired file name")
	}
}
