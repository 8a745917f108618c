package jobs

// 任务名称常量，便于统一管理与引用.
const (
	JobExpireSweep = "lifecycle.expire_sweep"
	JobOrphanSweep = "lifecycle.orphan_sweep"
)
