// Package blob 定义内容寻址的 Blob 存储抽象，键为内容的 sha256 摘要.
//
// 两种后端实现同一契约：本地文件系统和 S3/MinIO 对象存储，启动时根据
// 配置选择一次.Put 必须幂等：键已存在时为 no-op，重复/并发写入不会
// 破坏已有读取方（通过临时位置写入后原子发布实现）.
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound 表示键不存在.
var ErrNotFound = errors.New("blob not found")

// Store Blob 存储契约.
type Store interface {
	// Put 将 r 的内容写入 key.键已存在时为 no-op；写入过程对其他
	// 读取方不可见，成功后原子发布.size 为内容字节数，S3 后端
	// 依赖它避免分片探测.
	Put(ctx context.Context, key string, r io.Reader, size int64) error

	// Exists 判断键是否存在.
	Exists(ctx context.Context, key string) (bool, error)

	// OpenRead 打开顺序读取流，内部按有界缓冲读取，支持远大于内存的
	// 文件.键不存在时返回 ErrNotFound.
	OpenRead(ctx context.Context, key string) (io.ReadCloser, error)

	// ReadAll 读出全部字节，仅用于已知较小的内容（如缩略图源）.
	ReadAll(ctx context.Context, key string) ([]byte, error)

	// Delete 删除键.键不存在时返回 ErrNotFound.
	Delete(ctx context.Context, key string) error
}

// HealthChecker 可选的后端健康检查能力.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
