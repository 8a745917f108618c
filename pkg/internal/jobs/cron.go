// Package jobs 负责注册与实现生命周期清理任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"

	"github.com/yeisme/dropvault/pkg/configs"
	ctxPkg "github.com/yeisme/dropvault/pkg/context"
	"github.com/yeisme/dropvault/pkg/internal/service"
	"github.com/yeisme/dropvault/pkg/internal/storage"
	"github.com/yeisme/dropvault/pkg/log"
	"github.com/yeisme/dropvault/pkg/scheduler"
)

// RegisterLifecycleJobs 配置两个独立的周期清理任务：
//   - 过期清理（短间隔，默认 1 分钟）：删除超过保留期的记录及其 blob
//   - 孤儿清理（长间隔，默认 1 小时，另在启动时先跑一次）：删除
//     blob 缺失或字段不完整的记录
func RegisterLifecycleJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	cfg := configs.GetConfig().Lifecycle

	// 将 storage manager 注入到 context，便于 service 使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	if err := sched.AddInterval(JobExpireSweep, cfg.ExpireSweepInterval, func(ctx context.Context) {
		runExpireSweep(ctx)
	}, baseCtx); err != nil {
		return err
	}

	if err := sched.AddInterval(JobOrphanSweep, cfg.OrphanSweepInterval, func(ctx context.Context) {
		runOrphanSweep(ctx)
	}, baseCtx); err != nil {
		return err
	}

	// 进程启动即自愈一次，不等第一个间隔
	if cfg.OrphanSweepOnStart {
		go runOrphanSweep(baseCtx)
	}

	return nil
}

// runExpireSweep 执行一轮过期清理。
func runExpireSweep(ctx context.Context) {
	l := log.Logger().With().Str("job", JobExpireSweep).Logger()

	svc := service.NewFileService(ctx)

	if _, err := svc.SweepExpired(ctx); err != nil {
		l.Error().Err(err).Msg("expiration sweep failed")
	}
}

// runOrphanSweep 执行一轮孤儿清理。
func runOrphanSweep(ctx context.Context) {
	l := log.Logger().With().Str("job", JobOrphanSweep).Logger()

	svc := service.NewFileService(ctx)

	if _, err := svc.SweepOrphans(ctx); err != nil {
		l.Error().Err(err).Msg("orphan sweep failed")
	}
}
