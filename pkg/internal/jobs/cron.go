// Package jobs 负责注册与实现文件生命周期的定时任务（基于 scheduler）.
package jobs

import (
	"context"
	"fmt"

	"github.com/yeisme/cloudspace/pkg/configs"
	ctxPkg "github.com/yeisme/cloudspace/pkg/context"
	"github.com/yeisme/cloudspace/pkg/internal/service"
	"github.com/yeisme/cloudspace/pkg/internal/storage"
	"github.com/yeisme/cloudspace/pkg/log"
	"github.com/yeisme/cloudspace/pkg/scheduler"
)

// RegisterCronJobs 配置生命周期定时任务：
//   - 每小时回收超过 TTL 仍未确认的 pending 上传
//   - 每 15 分钟清扫卡在 purge_pending 的记录，完成中断的删除
//   - 每天 04:00 永久删除超过保留期的回收站文件
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	// 将 storage manager 注入到 context，便于 service 使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	_ = sched.AddCron(JobPendingReaper, CronPendingReaper, runPendingReaper, baseCtx)
	_ = sched.AddCron(JobPurgeSweep, CronPurgeSweep, runPurgeSweep, baseCtx)
	_ = sched.AddCron(JobTrashAutoClean, CronTrashAutoClean, runTrashAutoClean, baseCtx)

	return nil
}

// runPendingReaper 回收被放弃的上传：pending 超过 TTL 即删除对象与记录.
func runPendingReaper(ctx context.Context) {
	l := log.Logger().With().Str("job", JobPendingReaper).Logger()

	svc := service.NewFileService(ctx)
	ttl := configs.GetConfig().Storage.PendingTTL()

	n, err := svc.ReapPendingUploads(ctx, ttl)
	if err != nil {
		l.Error().Err(err).Msg("reap pending uploads failed")
		return
	}

	if n > 0 {
		l.Info().Int("reaped", n).Msg("pending uploads reaped")
	}
}

// runPurgeSweep 完成中断的永久删除第二步.
func runPurgeSweep(ctx context.Context) {
	l := log.Logger().With().Str("job", JobPurgeSweep).Logger()

	svc := service.NewFileService(ctx)
	retryAfter := configs.GetConfig().Storage.PurgeRetryAfter()

	n, err := svc.PurgeSweep(ctx, retryAfter)
	if err != nil {
		l.Error().Err(err).Msg("purge sweep failed")
		return
	}

	if n > 0 {
		l.Info().Int("purged", n).Msg("stuck purges completed")
	}
}

// runTrashAutoClean 永久删除超过保留期的回收站文件.
func runTrashAutoClean(ctx context.Context) {
	l := log.Logger().With().Str("job", JobTrashAutoClean).Logger()

	svc := service.NewFileService(ctx)
	retention := configs.GetConfig().Storage.TrashRetention()

	n, err := svc.AutoCleanTrash(ctx, retention)
	if err != nil {
		l.Error().Err(err).Msg("trash auto clean failed")
		return
	}

	if n > 0 {
		l.Info().Int("purged", n).Msg("expired trash cleaned")
	}
}
