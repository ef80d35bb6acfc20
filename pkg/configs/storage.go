package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultQuotaBytes 每个用户的存储配额上限（15 GiB），与前端展示保持一致.
	DefaultQuotaBytes int64 = 15 * 1024 * 1024 * 1024

	DefaultPresignUploadTTL   = 3600 // 上传预签名 URL 有效期（秒）
	DefaultPresignDownloadTTL = 60   // 下载预签名 URL 有效期（秒）

	DefaultTrashRetentionDays = 30 // 回收站保留天数，超过后由定时任务永久删除
	DefaultPendingTTLHours    = 24 // pending 记录保留小时数，超过视为被放弃的上传
	DefaultPurgeRetryMinutes  = 5  // purge_pending 记录卡住多久后由清扫任务重试
)

// StorageConfig 文件生命周期策略配置：配额、预签名有效期与后台清理阈值.
// 这里集中了原本分散在各 handler 的所有策略字面量.
type StorageConfig struct {
	QuotaBytes         int64 `mapstructure:"quota_bytes"          rule:"min=0"`
	PresignUploadTTL   int   `mapstructure:"presign_upload_ttl"   rule:"min=1"`
	PresignDownloadTTL int   `mapstructure:"presign_download_ttl" rule:"min=1"`
	TrashRetentionDays int   `mapstructure:"trash_retention_days" rule:"min=1"`
	PendingTTLHours    int   `mapstructure:"pending_ttl_hours"    rule:"min=1"`
	PurgeRetryMinutes  int   `mapstructure:"purge_retry_minutes"  rule:"min=1"`
}

// UploadTTL 上传预签名有效期.
func (c *StorageConfig) UploadTTL() time.Duration {
	return time.Duration(c.PresignUploadTTL) * time.Second
}

// DownloadTTL 下载预签名有效期.
func (c *StorageConfig) DownloadTTL() time.Duration {
	return time.Duration(c.PresignDownloadTTL) * time.Second
}

// PendingTTL pending 记录的最长存活时间.
func (c *StorageConfig) PendingTTL() time.Duration {
	return time.Duration(c.PendingTTLHours) * time.Hour
}

// PurgeRetryAfter purge_pending 记录多久后允许重试.
func (c *StorageConfig) PurgeRetryAfter() time.Duration {
	return time.Duration(c.PurgeRetryMinutes) * time.Minute
}

// TrashRetention 回收站保留时长.
func (c *StorageConfig) TrashRetention() time.Duration {
	return time.Duration(c.TrashRetentionDays) * 24 * time.Hour
}

func (c *StorageConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("storage.quota_bytes", DefaultQuotaBytes)
	v.SetDefault("storage.presign_upload_ttl", DefaultPresignUploadTTL)
	v.SetDefault("storage.presign_download_ttl", DefaultPresignDownloadTTL)
	v.SetDefault("storage.trash_retention_days", DefaultTrashRetentionDays)
	v.SetDefault("storage.pending_ttl_hours", DefaultPendingTTLHours)
	v.SetDefault("storage.purge_retry_minutes", DefaultPurgeRetryMinutes)
}
