package blob

import (
	"context"
	"errors"
	"fmt"
	"io"

	minio "github.com/minio/minio-go/v7"

	s3c "github.com/yeisme/dropvault/pkg/internal/storage/s3"
)

// S3Store 对象存储后端，基于 MinIO 客户端实现 Store 契约.
//
// S3 的对象 PUT 本身是原子发布：对象要么以完整内容可见，要么不可见，
// 不存在半写状态，与 fs 后端的临时文件 + rename 等价.
type S3Store struct {
	client *s3c.Client
}

// NewS3Store 基于已初始化的 S3 客户端创建后端.
func NewS3Store(client *s3c.Client) *S3Store {
	return &S3Store{client: client}
}

// Put 写入键.已存在时跳过上传.
func (s *S3Store) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	exists, err := s.Exists(ctx, key)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	_, err = s.client.PutObject(ctx, s.client.Bucket(), key, r, size, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}

	return nil
}

// Exists 判断键是否存在.
func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.client.Bucket(), key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}

	if isNoSuchKey(err) {
		return false, nil
	}

	return false, fmt.Errorf("stat object %s: %w", key, err)
}

// OpenRead 打开顺序读取流.MinIO 的 GetObject 懒连接，首个 Read 才会
// 发现对象缺失，这里先 Stat 确认存在性，把 not-found 提前暴露.
func (s *S3Store) OpenRead(ctx context.Context, key string) (io.ReadCloser, error) {
	if _, err := s.client.StatObject(ctx, s.client.Bucket(), key, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("stat object %s: %w", key, err)
	}

	obj, err := s.client.GetObject(ctx, s.client.Bucket(), key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}

	return obj, nil
}

// ReadAll 读出全部字节.
func (s *S3Store) ReadAll(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.OpenRead(ctx, key)
	if err != nil {
		return nil, err
	}

	defer func() { _ = rc.Close() }()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}

	return b, nil
}

// Delete 删除键.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	exists, err := s.Exists(ctx, key)
	if err != nil {
		return err
	}

	if !exists {
		return ErrNotFound
	}

	if err := s.client.RemoveObject(ctx, s.client.Bucket(), key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}

	return nil
}

// HealthCheck 校验对象存储连接.
func (s *S3Store) HealthCheck(ctx context.Context) error {
	return s.client.HealthCheck(ctx)
}

// isNoSuchKey 判断 MinIO 错误是否为对象不存在.
func isNoSuchKey(err error) bool {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
	}

	return false
}
