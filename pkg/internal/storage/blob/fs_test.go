package blob_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/yeisme/dropvault/pkg/internal/storage/blob"
)

// TestFSStorePutAndRead 测试写入后读取返回完全相同的字节.
func TestFSStorePutAndRead(t *testing.T) {
	store, err := blob.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("create fs store: %v", err)
	}

	ctx := context.Background()
	content := []byte("hello dropvault")

	if err := store.Put(ctx, "key1", bytes.NewReader(content), int64(len(content))); err != nil {
		t.Fatalf("put: %v", err)
	}

	exists, err := store.Exists(ctx, "key1")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}

	if !exists {
		t.Error("expected key1 to exist after put")
	}

	rc, err := store.OpenRead(ctx, "key1")
	if err != nil {
		t.Fatalf("open read: %v", err)
	}

	defer func() { _ = rc.Close() }()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if !bytes.Equal(got, content) {
		t.Errorf("round trip mismatch: got %q, want %q", got, content)
	}
}

// TestFSStorePutIdempotent 测试重复写入同一键不破坏已有内容.
func TestFSStorePutIdempotent(t *testing.T) {
	store, err := blob.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("create fs store: %v", err)
	}

	ctx := context.Background()
	content := []byte("original content")

	if err := store.Put(ctx, "dup", bytes.NewReader(content), int64(len(content))); err != nil {
		t.Fatalf("first put: %v", err)
	}

	// 第二次写入应为 no-op，即使内容不同也不覆盖
	if err := store.Put(ctx, "dup", strings.NewReader("different bytes"), 15); err != nil {
		t.Fatalf("second put: %v", err)
	}

	got, err := store.ReadAll(ctx, "dup")
	if err != nil {
		t.Fatalf("read all: %v", err)
	}

	if !bytes.Equal(got, content) {
		t.Errorf("idempotent put corrupted blob: got %q, want %q", got, content)
	}
}

// TestFSStoreNotFound 测试不存在的键返回 ErrNotFound.
func TestFSStoreNotFound(t *testing.T) {
	store, err := blob.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("create fs store: %v", err)
	}

	ctx := context.Background()

	if _, err := store.OpenRead(ctx, "missing"); !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("OpenRead: expected ErrNotFound, got %v", err)
	}

	if _, err := store.ReadAll(ctx, "missing"); !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("ReadAll: expected ErrNotFound, got %v", err)
	}

	if err := store.Delete(ctx, "missing"); !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}

	exists, err := store.Exists(ctx, "missing")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}

	if exists {
		t.Error("expected missing key to not exist")
	}
}

// TestFSStoreDelete 测试删除后键不可读.
func TestFSStoreDelete(t *testing.T) {
	store, err := blob.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("create fs store: %v", err)
	}

	ctx := context.Background()

	if err := store.Put(ctx, "victim", strings.NewReader("bytes"), 5); err != nil {
		t.Fatalf("put: %v", err)
	}

	if err := store.Delete(ctx, "victim"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := store.ReadAll(ctx, "victim"); !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

// TestFSStoreHealthCheck 测试健康检查.
func TestFSStoreHealthCheck(t *testing.T) {
	store, err := blob.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("create fs store: %v", err)
	}

	if err := store.HealthCheck(context.Background()); err != nil {
		t.Errorf("health check on fresh store: %v", err)
	}
}
