package configs

import (
	"github.com/spf13/viper"
)

const (
	DefaultThumbnailCacheDir = "data/thumbnails" // 默认缩略图缓存目录
	DefaultThumbnailMaxDim   = 500               // 请求尺寸上限（宽和高各自截断）
	DefaultThumbnailDim      = 100               // 未指定宽高时的默认尺寸
	DefaultThumbnailPreScale = 2000              // 长边超过该像素时先逐步降采样
	DefaultThumbnailQuality  = 85                // JPEG 编码质量
)

// ThumbnailConfig 缩略图缓存配置.
type ThumbnailConfig struct {
	CacheDir string `mapstructure:"cache_dir"`
	MaxDim   int    `mapstructure:"max_dim"   rule:"min=1"`
	Quality  int    `mapstructure:"quality"   rule:"min=1,max=100"`
}

// setDefaults 设置缩略图配置的默认值.
func (c *ThumbnailConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("thumbnail.cache_dir", DefaultThumbnailCacheDir)
	v.SetDefault("thumbnail.max_dim", DefaultThumbnailMaxDim)
	v.SetDefault("thumbnail.quality", DefaultThumbnailQuality)
}
