package configs

import (
	"github.com/spf13/viper"
)

type (
	// BlobBackend Blob 存储后端类型.
	BlobBackend string
)

const (
	// BackendFS 本地文件系统后端.
	BackendFS BlobBackend = "fs"
	// BackendS3 S3/MinIO 对象存储后端.
	BackendS3 BlobBackend = "s3"
)

const (
	DefaultBlobBackend = BackendFS    // 默认后端：本地文件系统
	DefaultBlobDataDir = "data/blobs" // 默认 blob 数据目录
	DefaultStagingDir  = ""           // 默认 staging 目录，空表示使用系统临时目录
)

// BlobConfig Blob 存储配置，后端在进程启动时选择一次.
type BlobConfig struct {
	Backend    BlobBackend `mapstructure:"backend"     rule:"oneof=fs s3"`
	DataDir    string      `mapstructure:"data_dir"`    // fs 后端的数据目录
	StagingDir string      `mapstructure:"staging_dir"` // 上传暂存目录，与 fs 数据目录同盘可保证 rename 原子性
}

// setDefaults 设置 Blob 配置的默认值.
func (c *BlobConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("blob.backend", string(DefaultBlobBackend))
	v.SetDefault("blob.data_dir", DefaultBlobDataDir)
	v.SetDefault("blob.staging_dir", DefaultStagingDir)
}
