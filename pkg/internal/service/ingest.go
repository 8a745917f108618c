package service

import (
	"context"
	"crypto/md5"
	crand "crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/oklog/ulid"
	"gorm.io/gorm"

	"github.com/yeisme/dropvault/pkg/configs"
	"github.com/yeisme/dropvault/pkg/internal/model"
	"github.com/yeisme/dropvault/pkg/internal/types"
	nlog "github.com/yeisme/dropvault/pkg/log"
)

// ulidEntropy 进程级单调熵源.ulid.Monotonic 返回的读取器不可并发
// 使用，而 Ingest 会被并发调用，读取经互斥量串行化.
var ulidEntropy = &lockedEntropy{src: ulid.Monotonic(crand.Reader, 0)}

// lockedEntropy 串行化底层熵源的读取.
type lockedEntropy struct {
	mu  sync.Mutex
	src io.Reader
}

func (e *lockedEntropy) Read(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.src.Read(p)
}

// IngestRequest 摄取请求的元信息，字节流单独传入.
type IngestRequest struct {
	FileName         string
	ContentType      string
	RetentionMinutes int // -1 表示无限
	UploaderHint     string
}

// Ingest 摄取一个字节流：单趟计算三种摘要并写入暂存文件，按内容
// sha256 提交到 Blob 存储，然后插入元数据记录.
//
// 整个流程按固定分块消费输入，从不在内存中缓冲完整负载.暂存文件
// 在所有退出路径上删除；输入流由调用方负责关闭.
func (fs *FileService) Ingest(ctx context.Context, r io.Reader, req *IngestRequest) (*types.UploadResponse, error) {
	retention := resolveRetention(req.RetentionMinutes)

	stagedPath := filepath.Join(stagingDir(), "upload_"+uuid.NewString()+".tmp")

	staged, err := os.OpenFile(stagedPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create staging file: %w", err)
	}

	// 暂存文件在成功与失败路径上都回收
	defer func() {
		_ = staged.Close()
		_ = os.Remove(stagedPath)
	}()

	md5h, sha1h, sha256h := md5.New(), sha1.New(), sha256.New()

	// 一趟同时喂给三个摘要和暂存文件
	mw := io.MultiWriter(md5h, sha1h, sha256h, staged)

	buf := make([]byte, ingestChunkSize)

	written, err := io.CopyBuffer(mw, r, buf)
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}

	if written == 0 {
		return nil, ErrEmptyUpload
	}

	hash := fmt.Sprintf("%x", sha256h.Sum(nil))

	// 重复内容：blob 幂等写入，记录复用既有条目
	if existing, found, err := fs.getByHash(hash); err != nil {
		return nil, err
	} else if found {
		// blob 可能已被外部删除，借暂存内容自愈
		if err := fs.commitStaged(ctx, staged, hash, written); err != nil {
			return nil, err
		}

		nlog.Logger().Info().Str("hash", hash).Msg("duplicate upload, reusing record")

		resp := buildUploadResponse(existing)
		resp.Duplicate = true

		return resp, nil
	}

	if err := fs.commitStaged(ctx, staged, hash, written); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &model.UploadRecord{
		ID:               ulid.MustNew(ulid.Timestamp(now), ulidEntropy).String(),
		ContentHash:      hash,
		MD5:              fmt.Sprintf("%x", md5h.Sum(nil)),
		SHA1:             fmt.Sprintf("%x", sha1h.Sum(nil)),
		FileName:         req.FileName,
		ContentType:      req.ContentType,
		SizeBytes:        written,
		UploaderHint:     req.UploaderHint,
		RetentionMinutes: req.RetentionMinutes,
		CreatedAt:        now,
		ExpiresAt:        expiryFor(now, retention),
	}

	if err := fs.dbClient.WithContext(ctx).Create(record).Error; err != nil {
		// 并发的重复上传先插入了同一哈希，退回复用其记录
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if existing, found, e := fs.getByHash(hash); e == nil && found {
				resp := buildUploadResponse(existing)
				resp.Duplicate = true

				return resp, nil
			}
		}

		return nil, fmt.Errorf("insert upload record: %w", err)
	}

	nlog.Logger().Info().
		Str("hash", hash).
		Str("file", record.FileName).
		Int64("size", written).
		Time("expires_at", record.ExpiresAt).
		Msg("file ingested")

	return buildUploadResponse(record), nil
}

// commitStaged 将暂存文件回绕后写入 Blob 存储.
func (fs *FileService) commitStaged(ctx context.Context, staged *os.File, hash string, size int64) error {
	if _, err := staged.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind staging file: %w", err)
	}

	if err := fs.blobStore.Put(ctx, hash, staged, size); err != nil {
		return fmt.Errorf("commit blob %s: %w", hash, err)
	}

	return nil
}

// getByHash 按内容哈希查找记录.
func (fs *FileService) getByHash(hash string) (*model.UploadRecord, bool, error) {
	var record model.UploadRecord

	err := fs.dbClient.Where("content_hash = ?", hash).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("query record by hash: %w", err)
	}

	return &record, true, nil
}

// resolveRetention 校验保留时间：非正且非 -1 的值回退到默认值，
// -1 映射到远期有限保留.
func resolveRetention(minutes int) time.Duration {
	cfg := configs.GetConfig().Lifecycle

	if minutes == -1 {
		return cfg.UnlimitedHorizon()
	}

	if minutes <= 0 {
		return cfg.DefaultRetention()
	}

	return time.Duration(minutes) * time.Minute
}

// expiryFor 计算过期时间，恒大于 now.
func expiryFor(now time.Time, retention time.Duration) time.Time {
	return now.Add(retention)
}

// stagingDir 返回暂存目录，未配置时使用系统临时目录.
func stagingDir() string {
	if dir := configs.GetConfig().Blob.StagingDir; dir != "" {
		return dir
	}

	return os.TempDir()
}

// buildUploadResponse 构建上传响应.
func buildUploadResponse(r *model.UploadRecord) *types.UploadResponse {
	return &types.UploadResponse{
		ID:          r.ID,
		Hash:        r.ContentHash,
		MD5:         r.MD5,
		SHA1:        r.SHA1,
		FileName:    r.FileName,
		ContentType: r.ContentType,
		Size:        r.SizeBytes,
		SizeHuman:   humanize.Bytes(uint64(r.SizeBytes)),
		ExpiresAt:   r.ExpiresAt.UTC().Format(time.RFC3339),
		DownloadURL: downloadURL(r.ContentHash),
	}
}
