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
	"github.com/yeisme/dropvault/pkg/metrics"
)

// SweepExpired 过期清理：枚举全部记录，删除已过期的记录及其 blob.
//
// 先完整枚举再统一删除，枚举过程不修改集合.blob 删除失败不阻塞
// 记录删除；单条失败只记日志，不中断整轮清理.
func (fs *FileService) SweepExpired(ctx context.Context) (*types.SweepReport, error) {
	var records []model.UploadRecord

	if err := fs.dbClient.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("enumerate records: %w", err)
	}

	now := time.Now().UTC()

	// 第一阶段：收集待删除项
	expired := make([]*model.UploadRecord, 0)

	for i := range records {
		if records[i].Expired(now) {
			expired = append(expired, &records[i])
		}
	}

	// 第二阶段：执行删除
	report := &types.SweepReport{Scanned: len(records)}

	for _, record := range expired {
		if err := fs.deleteBlobAndRecord(ctx, record); err != nil {
			report.Failed++

			nlog.Logger().Warn().Err(err).Str("hash", record.ContentHash).Msg("expiration sweep: delete failed")

			continue
		}

		report.Deleted++
	}

	if report.Deleted > 0 || report.Failed > 0 {
		metrics.SweepDeletionsTotal.WithLabelValues("expire").Add(float64(report.Deleted))

		nlog.Logger().Info().
			Int("scanned", report.Scanned).
			Int("deleted", report.Deleted).
			Int("failed", report.Failed).
			Msg("expiration sweep finished")
	}

	return report, nil
}

// SweepOrphans 孤儿清理：删除 blob 缺失或必要字段不完整的记录.
//
// 这是系统的自愈机制，幂等：连续运行两次，第二次不再产生删除.
func (fs *FileService) SweepOrphans(ctx context.Context) (*types.SweepReport, error) {
	var records []model.UploadRecord

	if err := fs.dbClient.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("enumerate records: %w", err)
	}

	orphans := make([]*model.UploadRecord, 0)

	for i := range records {
		record := &records[i]

		if !record.Consistent() {
			orphans = append(orphans, record)

			continue
		}

		exists, err := fs.blobStore.Exists(ctx, record.ContentHash)
		if err != nil {
			// 存在性未确认，留给下一轮
			nlog.Logger().Warn().Err(err).Str("hash", record.ContentHash).Msg("orphan sweep: existence check failed")

			continue
		}

		if !exists {
			orphans = append(orphans, record)
		}
	}

	report := &types.SweepReport{Scanned: len(records)}

	for _, record := range orphans {
		if err := fs.dbClient.WithContext(ctx).Delete(&model.UploadRecord{}, "id = ?", record.ID).Error; err != nil {
			report.Failed++

			nlog.Logger().Warn().Err(err).Str("id", record.ID).Msg("orphan sweep: delete failed")

			continue
		}

		report.Deleted++
	}

	if report.Deleted > 0 || report.Failed > 0 {
		metrics.SweepDeletionsTotal.WithLabelValues("orphan").Add(float64(report.Deleted))

		nlog.Logger().Info().
			Int("scanned", report.Scanned).
			Int("deleted", report.Deleted).
			Int("failed", report.Failed).
			Msg("orphan sweep finished")
	}

	return report, nil
}

// deleteBlobAndRecord 删除一条记录及其 blob，blob 不存在视为成功.
func (fs *FileService) deleteBlobAndRecord(ctx context.Context, record *model.UploadRecord) error {
	if err := fs.blobStore.Delete(ctx, record.ContentHash); err != nil && !errors.Is(err, blob.ErrNotFound) {
		nlog.Logger().Warn().Err(err).Str("hash", record.ContentHash).Msg("blob delete failed, removing record anyway")
	}

	if err := fs.dbClient.WithContext(ctx).Delete(&model.UploadRecord{}, "id = ?", record.ID).Error; err != nil {
		return fmt.Errorf("delete record %s: %w", record.ID, err)
	}

	return nil
}
