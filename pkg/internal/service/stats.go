package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yeisme/cloudspace/pkg/cache"
	"github.com/yeisme/cloudspace/pkg/internal/model"
	"github.com/yeisme/cloudspace/pkg/internal/types"
)

// usageCountsTrashed 控制 fileCount 是否包含回收站内的记录.
// 回收站文件仍占存储，计数口径与其保持一致.
const usageCountsTrashed = true

const usageCacheTTL = 30 * time.Second

func usageCacheKey(owner string) string {
	return fmt.Sprintf("usage:%s", owner)
}

// Usage 返回存储用量汇总.结果缓存一个短窗口，
// 写路径（确认/回收/恢复/删除）负责失效.
func (fs *FileService) Usage(ctx context.Context, owner string) (*types.StorageUsageResponse, error) {
	if fs.cache != nil {
		if cached, err := cache.Get[types.StorageUsageResponse](ctx, fs.cache, usageCacheKey(owner)); err == nil {
			return &cached, nil
		}
	}

	resp, err := fs.computeUsage(ctx, owner)
	if err != nil {
		return nil, err
	}

	if fs.cache != nil {
		_ = cache.Set(ctx, fs.cache, usageCacheKey(owner), *resp, usageCacheTTL)
	}

	return resp, nil
}

func (fs *FileService) computeUsage(ctx context.Context, owner string) (*types.StorageUsageResponse, error) {
	used, err := fs.usedBytes(ctx, owner)
	if err != nil {
		return nil, err
	}

	var trashBytes int64

	err = fs.db.WithContext(ctx).Model(&model.Files{}).Unscoped().
		Where("owner = ? AND deleted_at IS NOT NULL AND state <> ?", owner, model.FileStatePurgePending).
		Select("COALESCE(SUM(size), 0)").Scan(&trashBytes).Error
	if err != nil {
		return nil, err
	}

	countQ := fs.db.WithContext(ctx).Model(&model.Files{}).
		Where("owner = ? AND state <> ?", owner, model.FileStatePending)
	if usageCountsTrashed {
		countQ = countQ.Unscoped().
			Where("state <> ?", model.FileStatePurgePending)
	}

	var count int64
	if err := countQ.Count(&count).Error; err != nil {
		return nil, err
	}

	quota := fs.cfg.QuotaBytes

	var percent float64
	if quota > 0 {
		percent = float64(used) / float64(quota) * 100
	}

	return &types.StorageUsageResponse{
		UsedBytes:   used,
		QuotaBytes:  quota,
		TrashBytes:  trashBytes,
		FileCount:   count,
		PercentUsed: percent,
	}, nil
}

// usedBytes 常规（active、非回收站）文件的字节总和.
func (fs *FileService) usedBytes(ctx context.Context, owner string) (int64, error) {
	var used int64

	err := fs.db.WithContext(ctx).Model(&model.Files{}).
		Where("owner = ? AND state = ?", owner, model.FileStateActive).
		Select("COALESCE(SUM(size), 0)").Scan(&used).Error

	return used, err
}
