package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
)

// encodeTestPNG 生成一张纯色 PNG.
func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, color.RGBA{R: 200, G: 60, B: 60, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	return buf.Bytes()
}

// TestThumbnailClampAndCache 测试超限维度被钳制到 500 以内，且第二次
// 请求命中磁盘缓存.
func TestThumbnailClampAndCache(t *testing.T) {
	fs := newTestService(t)
	ctx := context.Background()

	src := encodeTestPNG(t, 800, 600)

	resp, err := fs.Ingest(ctx, bytes.NewReader(src), &IngestRequest{
		FileName:         "big.png",
		ContentType:      "image/png",
		RetentionMinutes: 60,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	result, err := fs.Thumbnail(ctx, resp.Hash, 5000, 5000)
	if err != nil {
		t.Fatalf("thumbnail: %v", err)
	}

	if result.ContentType != "image/png" {
		t.Errorf("content type: got %s, want image/png", result.ContentType)
	}

	thumb, err := imaging.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}

	b := thumb.Bounds()
	if b.Dx() > 500 || b.Dy() > 500 {
		t.Errorf("thumbnail exceeds clamp: %dx%d", b.Dx(), b.Dy())
	}

	// 纵横比保持：800x600 -> 最长边 500
	if b.Dx() != 500 {
		t.Errorf("longest side should be 500, got %d", b.Dx())
	}

	// 第二次请求走缓存
	cached, err := fs.Thumbnail(ctx, resp.Hash, 5000, 5000)
	if err != nil {
		t.Fatalf("cached thumbnail: %v", err)
	}

	if !cached.FromCache {
		t.Error("second request should be served from cache")
	}

	if !bytes.Equal(cached.Data, result.Data) {
		t.Error("cached thumbnail differs from generated one")
	}

	if cached.ETag != result.ETag {
		t.Errorf("etag changed between generations: %s vs %s", cached.ETag, result.ETag)
	}
}

// TestThumbnailUndecodableSource 测试声明为图片但字节不可解码的内容
// 返回 ErrNotImage 而非内部错误.
func TestThumbnailUndecodableSource(t *testing.T) {
	fs := newTestService(t)
	ctx := context.Background()

	resp, err := fs.Ingest(ctx, bytes.NewReader([]byte("definitely not pixels")), &IngestRequest{
		FileName:         "fake.png",
		ContentType:      "image/png",
		RetentionMinutes: 60,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if _, err := fs.Thumbnail(ctx, resp.Hash, 100, 100); !errors.Is(err, ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
}

// TestThumbnailNotImage 测试非图片源返回 ErrNotImage.
func TestThumbnailNotImage(t *testing.T) {
	fs := newTestService(t)
	ctx := context.Background()

	resp, err := fs.Ingest(ctx, bytes.NewReader([]byte("just text")), &IngestRequest{
		FileName:         "readme.txt",
		ContentType:      "text/plain",
		RetentionMinutes: 60,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if _, err := fs.Thumbnail(ctx, resp.Hash, 100, 100); !errors.Is(err, ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
}
