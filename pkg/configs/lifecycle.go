package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultRetentionMinutes    = 5                // 默认保留时间（分钟）
	DefaultUnlimitedHorizonDay = 36500            // “无限”保留的有限替代：约 100 年
	DefaultExpireSweepInterval = time.Minute      // 过期清理间隔
	DefaultOrphanSweepInterval = time.Hour        // 孤儿清理间隔
	DefaultOrphanSweepOnStart  = true             // 启动时执行一次孤儿清理
)

// LifecycleConfig 过期与孤儿清理配置.
type LifecycleConfig struct {
	RetentionMinutes    int           `mapstructure:"retention_minutes"     rule:"min=1"` // 未指定/非法保留时间的回退值
	UnlimitedHorizonDay int           `mapstructure:"unlimited_horizon_days" rule:"min=1"`
	ExpireSweepInterval time.Duration `mapstructure:"expire_sweep_interval"`
	OrphanSweepInterval time.Duration `mapstructure:"orphan_sweep_interval"`
	OrphanSweepOnStart  bool          `mapstructure:"orphan_sweep_on_start"`
}

// DefaultRetention 返回回退保留时长.
func (c *LifecycleConfig) DefaultRetention() time.Duration {
	return time.Duration(c.RetentionMinutes) * time.Minute
}

// UnlimitedHorizon 返回“无限”保留对应的有限时长.
func (c *LifecycleConfig) UnlimitedHorizon() time.Duration {
	return time.Duration(c.UnlimitedHorizonDay) * 24 * time.Hour
}

// setDefaults 设置生命周期配置的默认值.
func (c *LifecycleConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("lifecycle.retention_minutes", DefaultRetentionMinutes)
	v.SetDefault("lifecycle.unlimited_horizon_days", DefaultUnlimitedHorizonDay)
	v.SetDefault("lifecycle.expire_sweep_interval", DefaultExpireSweepInterval)
	v.SetDefault("lifecycle.orphan_sweep_interval", DefaultOrphanSweepInterval)
	v.SetDefault("lifecycle.orphan_sweep_on_start", DefaultOrphanSweepOnStart)
}
