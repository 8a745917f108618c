package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/disintegration/imaging"
	"golang.org/x/sync/singleflight"

	"github.com/yeisme/dropvault/pkg/configs"
	"github.com/yeisme/dropvault/pkg/internal/model"
	"github.com/yeisme/dropvault/pkg/internal/types"
	nlog "github.com/yeisme/dropvault/pkg/log"
	"github.com/yeisme/dropvault/pkg/metrics"
)

// thumbGroup 合并同一缓存键的并发生成请求，源 blob 只解码一次.
var thumbGroup singleflight.Group

// Thumbnail 返回 (hash, width, height) 对应的缩略图，优先命中磁盘缓存.
//
// 缓存项没有独立 TTL：源记录删除后成为无害孤儿，可被随手清理.
func (fs *FileService) Thumbnail(ctx context.Context, hash string, width, height int) (*types.ThumbnailResult, error) {
	cfg := configs.GetConfig().Thumbnail

	width = clampDim(width, cfg.MaxDim)
	height = clampDim(height, cfg.MaxDim)

	record, found, err := fs.getByHash(hash)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, ErrNotFound
	}

	if record.Expired(time.Now().UTC()) {
		fs.purgeRecord(ctx, record, "expired on thumbnail")

		return nil, ErrNotFound
	}

	if !isImageSource(record) {
		return nil, ErrNotImage
	}

	format := thumbnailFormat(record)
	cachePath := filepath.Join(cfg.CacheDir, fmt.Sprintf("%s_%dx%d%s", hash, width, height, formatExt(format)))

	// 缓存命中直接返回
	if data, err := os.ReadFile(cachePath); err == nil {
		metrics.ThumbnailCacheTotal.WithLabelValues("hit").Inc()

		return &types.ThumbnailResult{
			Data:        data,
			ContentType: formatContentType(format),
			ETag:        thumbnailETag(data),
			FromCache:   true,
		}, nil
	}

	metrics.ThumbnailCacheTotal.WithLabelValues("miss").Inc()

	// 同一缓存键的并发未命中只生成一次
	v, err, _ := thumbGroup.Do(cachePath, func() (any, error) {
		return fs.generateThumbnail(ctx, record, width, height, format, cachePath)
	})
	if err != nil {
		return nil, err
	}

	data := v.([]byte)

	return &types.ThumbnailResult{
		Data:        data,
		ContentType: formatContentType(format),
		ETag:        thumbnailETag(data),
	}, nil
}

// generateThumbnail 解码源图、缩放、编码并写入磁盘缓存.
func (fs *FileService) generateThumbnail(ctx context.Context, record *model.UploadRecord,
	width, height int, format imaging.Format, cachePath string,
) ([]byte, error) {
	src, err := fs.blobStore.ReadAll(ctx, record.ContentHash)
	if err != nil {
		return nil, fmt.Errorf("read thumbnail source %s: %w", record.ContentHash, err)
	}

	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		// 扩展名或声明类型谎报了图片，按非图片拒绝
		nlog.Logger().Warn().Err(err).Str("hash", record.ContentHash).Msg("thumbnail source not decodable")

		return nil, ErrNotImage
	}

	// 超大原图先逐步减半，避免一次 Lanczos 处理整幅
	for longestSide(img) > configs.DefaultThumbnailPreScale {
		img = imaging.Resize(img, img.Bounds().Dx()/2, 0, imaging.Box)
	}

	img = imaging.Fit(img, width, height, imaging.Lanczos)

	// JPEG 无透明通道，透明区域压到白底
	if format == imaging.JPEG {
		img = flattenOnWhite(img)
	}

	var buf bytes.Buffer

	quality := configs.GetConfig().Thumbnail.Quality
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	data := buf.Bytes()

	if err := writeCacheEntry(cachePath, data); err != nil {
		// 缓存写入失败不影响响应，下次重新生成
		nlog.Logger().Warn().Err(err).Str("path", cachePath).Msg("failed to persist thumbnail cache entry")
	}

	return data, nil
}

// writeCacheEntry 经临时文件原子发布缓存条目.
func writeCacheEntry(cachePath string, data []byte) error {
	dir := filepath.Dir(cachePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".thumb-*")
	if err != nil {
		return err
	}

	tmpPath := tmp.Name()

	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, cachePath)
}

// clampDim 将维度限制在 (0, maxDim]，非正值回退到默认边长.
func clampDim(dim, maxDim int) int {
	if dim <= 0 {
		return configs.DefaultThumbnailDim
	}

	if dim > maxDim {
		return maxDim
	}

	return dim
}

// longestSide 返回图片最长边.
func longestSide(img image.Image) int {
	b := img.Bounds()

	return max(b.Dx(), b.Dy())
}

// flattenOnWhite 把图片平铺到白色背景上.
func flattenOnWhite(img image.Image) image.Image {
	b := img.Bounds()
	dst := imaging.New(b.Dx(), b.Dy(), color.White)

	return imaging.Overlay(dst, img, image.Pt(0, 0), 1.0)
}

// thumbnailFormat 按源扩展名选择输出格式，默认 JPEG.
func thumbnailFormat(r *model.UploadRecord) imaging.Format {
	switch strings.ToLower(path.Ext(r.FileName)) {
	case ".png":
		return imaging.PNG
	case ".gif":
		return imaging.GIF
	default:
		return imaging.JPEG
	}
}

// formatExt 输出格式对应的缓存文件扩展名.
func formatExt(f imaging.Format) string {
	switch f {
	case imaging.PNG:
		return ".png"
	case imaging.GIF:
		return ".gif"
	default:
		return ".jpg"
	}
}

// formatContentType 输出格式对应的内容类型.
func formatContentType(f imaging.Format) string {
	switch f {
	case imaging.PNG:
		return "image/png"
	case imaging.GIF:
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

// thumbnailETag 以 xxhash 计算弱校验标签.
func thumbnailETag(data []byte) string {
	return fmt.Sprintf("%x", xxhash.Sum64(data))
}
