package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yeisme/dropvault/pkg/internal/model"
)

// TestFetchUnknownHash 测试未知哈希返回 ErrNotFound.
func TestFetchUnknownHash(t *testing.T) {
	fs := newTestService(t)

	_, _, err := fs.Fetch(context.Background(), strings.Repeat("0", 64))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestFetchExpiredPurges 测试过期记录在读路径上被当场清除.
func TestFetchExpiredPurges(t *testing.T) {
	fs := newTestService(t)
	ctx := context.Background()

	resp, err := fs.Ingest(ctx, bytes.NewReader([]byte("soon gone")), &IngestRequest{
		FileName:         "gone.txt",
		RetentionMinutes: 1,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	// 把过期时间改到过去，模拟时间流逝
	if err := fs.dbClient.Model(&model.UploadRecord{}).
		Where("content_hash = ?", resp.Hash).
		Update("expires_at", time.Now().UTC().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("backdate record: %v", err)
	}

	if _, _, err := fs.Fetch(ctx, resp.Hash); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired record, got %v", err)
	}

	// 记录与 blob 都应被清除
	if n := countRecords(t, fs); n != 0 {
		t.Errorf("expected record purged, %d remain", n)
	}

	exists, err := fs.blobStore.Exists(ctx, resp.Hash)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}

	if exists {
		t.Error("expected blob purged with expired record")
	}
}

// TestFetchMissingBlobPurges 测试 blob 被外部删除后悬空记录被自愈清除.
func TestFetchMissingBlobPurges(t *testing.T) {
	fs := newTestService(t)
	ctx := context.Background()

	resp, err := fs.Ingest(ctx, bytes.NewReader([]byte("will lose blob")), &IngestRequest{
		FileName:         "lost.txt",
		RetentionMinutes: 60,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	// 模拟外部丢失
	if err := fs.blobStore.Delete(ctx, resp.Hash); err != nil {
		t.Fatalf("delete blob: %v", err)
	}

	if _, _, err := fs.Fetch(ctx, resp.Hash); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for dangling record, got %v", err)
	}

	if n := countRecords(t, fs); n != 0 {
		t.Errorf("expected dangling record purged, %d remain", n)
	}
}
