package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// TestIngestRoundTrip 测试上传后按返回哈希取回完全相同的字节.
func TestIngestRoundTrip(t *testing.T) {
	fs := newTestService(t)
	ctx := context.Background()

	payload := []byte("0123456789") // 10 字节
	wantHash := fmt.Sprintf("%x", sha256.Sum256(payload))

	resp, err := fs.Ingest(ctx, bytes.NewReader(payload), &IngestRequest{
		FileName:         "numbers.txt",
		ContentType:      "text/plain",
		RetentionMinutes: 1,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if resp.Hash != wantHash {
		t.Errorf("hash mismatch: got %s, want %s", resp.Hash, wantHash)
	}

	if resp.Size != int64(len(payload)) {
		t.Errorf("size mismatch: got %d, want %d", resp.Size, len(payload))
	}

	if resp.DownloadURL != "/download/"+wantHash {
		t.Errorf("unexpected download url: %s", resp.DownloadURL)
	}

	record, rc, err := fs.Fetch(ctx, resp.Hash)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	defer func() { _ = rc.Close() }()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		t.Fatalf("read: %v", err)
	}

	if !bytes.Equal(buf.Bytes(), payload) {
		t.Errorf("round trip mismatch: got %q, want %q", buf.Bytes(), payload)
	}

	if record.FileName != "numbers.txt" {
		t.Errorf("file name mismatch: %s", record.FileName)
	}
}

// TestIngestEmptyPayload 测试空上传被拒绝且不产生任何记录或 blob.
func TestIngestEmptyPayload(t *testing.T) {
	fs := newTestService(t)
	ctx := context.Background()

	_, err := fs.Ingest(ctx, strings.NewReader(""), &IngestRequest{FileName: "empty.txt"})
	if !errors.Is(err, ErrEmptyUpload) {
		t.Fatalf("expected ErrEmptyUpload, got %v", err)
	}

	if n := countRecords(t, fs); n != 0 {
		t.Errorf("expected no records after empty upload, got %d", n)
	}
}

// TestIngestDuplicate 测试重复内容复用既有记录，blob 不被破坏.
func TestIngestDuplicate(t *testing.T) {
	fs := newTestService(t)
	ctx := context.Background()

	payload := []byte("duplicate payload")

	first, err := fs.Ingest(ctx, bytes.NewReader(payload), &IngestRequest{
		FileName:         "one.bin",
		RetentionMinutes: 30,
	})
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}

	second, err := fs.Ingest(ctx, bytes.NewReader(payload), &IngestRequest{
		FileName:         "two.bin",
		RetentionMinutes: 60,
	})
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}

	if !second.Duplicate {
		t.Error("second upload of identical bytes should be flagged duplicate")
	}

	if second.ID != first.ID {
		t.Errorf("duplicate upload should reuse record: got %s, want %s", second.ID, first.ID)
	}

	// 原记录保持不变，包括过期时间
	if second.ExpiresAt != first.ExpiresAt {
		t.Errorf("duplicate upload must not extend expiry: got %s, want %s", second.ExpiresAt, first.ExpiresAt)
	}

	if n := countRecords(t, fs); n != 1 {
		t.Errorf("expected a single record, got %d", n)
	}

	got, err := fs.blobStore.ReadAll(ctx, first.Hash)
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}

	if !bytes.Equal(got, payload) {
		t.Error("duplicate ingestion corrupted the shared blob")
	}
}

// TestIngestConcurrent 测试并发摄取：相同内容收敛到一条记录，不同
// 内容各得一条，记录 ID 不碰撞.
func TestIngestConcurrent(t *testing.T) {
	fs := newTestService(t)
	ctx := context.Background()

	// 内存 SQLite 按连接隔离，并发访问收敛到单一连接
	sqlDB, err := fs.dbClient.DB.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}

	sqlDB.SetMaxOpenConns(1)

	const workers = 8

	shared := []byte("shared concurrent payload")

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[string]struct{})
	)

	errs := make(chan error, 2*workers)

	ingest := func(payload []byte, name string) {
		defer wg.Done()

		resp, err := fs.Ingest(ctx, bytes.NewReader(payload), &IngestRequest{
			FileName:         name,
			RetentionMinutes: 60,
		})
		if err != nil {
			errs <- fmt.Errorf("%s: %w", name, err)

			return
		}

		mu.Lock()
		ids[resp.ID] = struct{}{}
		mu.Unlock()
	}

	for i := range workers {
		wg.Add(2)

		go ingest(shared, "shared.bin")
		go ingest([]byte(fmt.Sprintf("unique payload %d", i)), fmt.Sprintf("unique-%d.bin", i))
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent ingest: %v", err)
	}

	// 1 条共享记录 + workers 条独立记录
	if len(ids) != workers+1 {
		t.Errorf("distinct record ids: got %d, want %d", len(ids), workers+1)
	}

	if n := countRecords(t, fs); n != workers+1 {
		t.Errorf("record count: got %d, want %d", n, workers+1)
	}

	got, err := fs.blobStore.ReadAll(ctx, fmt.Sprintf("%x", sha256.Sum256(shared)))
	if err != nil {
		t.Fatalf("read shared blob: %v", err)
	}

	if !bytes.Equal(got, shared) {
		t.Error("concurrent duplicate ingestion corrupted the shared blob")
	}
}

// TestIngestRetention 测试保留时间的回退与无限哨兵.
func TestIngestRetention(t *testing.T) {
	fs := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// 非法值回退到 5 分钟默认
	resp, err := fs.Ingest(ctx, strings.NewReader("default retention"), &IngestRequest{
		FileName:         "d.txt",
		RetentionMinutes: 0,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	expires, err := time.Parse(time.RFC3339, resp.ExpiresAt)
	if err != nil {
		t.Fatalf("parse expires_at: %v", err)
	}

	if d := expires.Sub(now); d < 4*time.Minute || d > 6*time.Minute {
		t.Errorf("default retention should be about 5 minutes, got %s", d)
	}

	// -1 映射到远期有限时间
	resp, err = fs.Ingest(ctx, strings.NewReader("unlimited retention"), &IngestRequest{
		FileName:         "u.txt",
		RetentionMinutes: -1,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	expires, err = time.Parse(time.RFC3339, resp.ExpiresAt)
	if err != nil {
		t.Fatalf("parse expires_at: %v", err)
	}

	if expires.Before(now.AddDate(90, 0, 0)) {
		t.Errorf("unlimited retention should be decades away, got %s", expires)
	}
}
