package jobs

// 任务名称常量，便于统一管理与引用.
const (
	JobPendingReaper  = "lifecycle.pending_reaper"
	JobPurgeSweep     = "lifecycle.purge_sweep"
	JobTrashAutoClean = "trash.auto_clean"
)

// Cron 表达式常量，集中管理调度节奏.
const (
	CronPendingReaper  = "15 * * * *"  // 每小时 15 分回收被放弃的上传
	CronPurgeSweep     = "*/15 * * * *" // 每 15 分钟清扫卡住的永久删除
	CronTrashAutoClean = "0 4 * * *"   // 每天 04:00 清理过期回收站
)
