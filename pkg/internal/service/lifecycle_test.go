package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/yeisme/dropvault/pkg/internal/model"
)

// TestSweepExpired 测试过期清理删除过期记录及其 blob，未过期的保留.
func TestSweepExpired(t *testing.T) {
	fs := newTestService(t)
	ctx := context.Background()

	fresh, err := fs.Ingest(ctx, bytes.NewReader([]byte("fresh")), &IngestRequest{
		FileName:         "fresh.txt",
		RetentionMinutes: 60,
	})
	if err != nil {
		t.Fatalf("ingest fresh: %v", err)
	}

	stale, err := fs.Ingest(ctx, bytes.NewReader([]byte("stale")), &IngestRequest{
		FileName:         "stale.txt",
		RetentionMinutes: 60,
	})
	if err != nil {
		t.Fatalf("ingest stale: %v", err)
	}

	if err := fs.dbClient.Model(&model.UploadRecord{}).
		Where("content_hash = ?", stale.Hash).
		Update("expires_at", time.Now().UTC().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("backdate record: %v", err)
	}

	report, err := fs.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if report.Scanned != 2 {
		t.Errorf("scanned: got %d, want 2", report.Scanned)
	}

	if report.Deleted != 1 {
		t.Errorf("deleted: got %d, want 1", report.Deleted)
	}

	if exists, _ := fs.blobStore.Exists(ctx, stale.Hash); exists {
		t.Error("expired blob should be deleted")
	}

	if exists, _ := fs.blobStore.Exists(ctx, fresh.Hash); !exists {
		t.Error("unexpired blob should survive the sweep")
	}

	if n := countRecords(t, fs); n != 1 {
		t.Errorf("expected one surviving record, got %d", n)
	}
}

// TestSweepOrphansIdempotent 测试孤儿清理的自愈与幂等：连续两轮，
// 第二轮不再产生删除.
func TestSweepOrphansIdempotent(t *testing.T) {
	fs := newTestService(t)
	ctx := context.Background()

	good, err := fs.Ingest(ctx, bytes.NewReader([]byte("intact")), &IngestRequest{
		FileName:         "intact.txt",
		RetentionMinutes: 60,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	orphan, err := fs.Ingest(ctx, bytes.NewReader([]byte("orphaned")), &IngestRequest{
		FileName:         "orphan.txt",
		RetentionMinutes: 60,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	// 直接删 blob，制造悬空记录
	if err := fs.blobStore.Delete(ctx, orphan.Hash); err != nil {
		t.Fatalf("delete blob: %v", err)
	}

	// 字段不完整的记录
	broken := &model.UploadRecord{
		ID:          "00000000000000000000000000",
		ContentHash: fmt.Sprintf("%064d", 1),
		FileName:    "", // 缺失必要字段
		SizeBytes:   0,
		CreatedAt:   time.Now().UTC(),
		ExpiresAt:   time.Now().UTC().Add(time.Hour),
	}
	if err := fs.dbClient.Create(broken).Error; err != nil {
		t.Fatalf("insert broken record: %v", err)
	}

	first, err := fs.SweepOrphans(ctx)
	if err != nil {
		t.Fatalf("first sweep: %v", err)
	}

	if first.Deleted != 2 {
		t.Errorf("first sweep deleted: got %d, want 2", first.Deleted)
	}

	second, err := fs.SweepOrphans(ctx)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}

	if second.Deleted != 0 {
		t.Errorf("second sweep should delete nothing, got %d", second.Deleted)
	}

	// 完好记录不受影响
	if _, found, err := fs.getByHash(good.Hash); err != nil || !found {
		t.Errorf("intact record should survive orphan sweeps: found=%v err=%v", found, err)
	}
}
