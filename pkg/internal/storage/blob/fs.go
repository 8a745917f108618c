package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	nlog "github.com/yeisme/dropvault/pkg/log"
)

// FSStore 本地文件系统后端，blob 以内容哈希为文件名存放在单一目录下.
//
// 写入先落到同目录的临时文件，成功后 rename 发布；同一文件系统内
// rename 是原子的，读取方要么看到完整内容要么什么都看不到.
type FSStore struct {
	dir string
}

// NewFSStore 创建文件系统后端，目录不存在时创建.
func NewFSStore(dir string) (*FSStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("blob data dir is empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir %s: %w", dir, err)
	}

	nlog.Logger().Info().Str("dir", dir).Msg("fs blob store ready")

	return &FSStore{dir: dir}, nil
}

// path 返回键对应的最终路径.键是十六进制摘要，无路径分隔符.
func (s *FSStore) path(key string) string {
	return filepath.Join(s.dir, key)
}

// Put 写入键.已存在时跳过写入，保证并发重复摄取不会破坏已发布内容.
func (s *FSStore) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	if _, err := os.Stat(s.path(key)); err == nil {
		return nil
	}

	tmp, err := os.CreateTemp(s.dir, ".put-*")
	if err != nil {
		return fmt.Errorf("create temp blob: %w", err)
	}

	tmpPath := tmp.Name()

	// 任何失败路径都回收临时文件
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		return fmt.Errorf("write blob %s: %w", key, err)
	}

	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync blob %s: %w", key, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close blob %s: %w", key, err)
	}

	// 原子发布；并发 Put 相同内容时后到者覆盖等价字节，结果一致
	if err := os.Rename(tmpPath, s.path(key)); err != nil {
		return fmt.Errorf("publish blob %s: %w", key, err)
	}

	return nil
}

// Exists 判断键是否存在.
func (s *FSStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if err == nil {
		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, fmt.Errorf("stat blob %s: %w", key, err)
}

// OpenRead 打开顺序读取流.
func (s *FSStore) OpenRead(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("open blob %s: %w", key, err)
	}

	return f, nil
}

// ReadAll 读出全部字节.
func (s *FSStore) ReadAll(ctx context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read blob %s: %w", key, err)
	}

	return b, nil
}

// Delete 删除键.
func (s *FSStore) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}

		return fmt.Errorf("delete blob %s: %w", key, err)
	}

	return nil
}

// HealthCheck 校验数据目录可写.
func (s *FSStore) HealthCheck(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat blob dir: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("blob path %s is not a directory", s.dir)
	}

	return nil
}
