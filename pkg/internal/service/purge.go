package service

import (
	"context"
	"time"

	"github.com/yeisme/cloudspace/pkg/internal/model"
	nlog "github.com/yeisme/cloudspace/pkg/log"
	"github.com/yeisme/cloudspace/pkg/metrics"
)

// Purge 永久删除一个文件，分两步提交：
//
//  1. 记录先标记为 purge_pending（不可再恢复、不再出现在回收站列表）
//  2. 删除对象本体，成功后硬删记录
//
// 第 2 步失败时记录停留在 purge_pending，由清扫任务重试，
// 保证不会出现"记录没了、对象还在"的泄漏.
func (fs *FileService) Purge(ctx context.Context, owner, fileID string) error {
	rec, err := fs.findOwned(ctx, owner, fileID)
	if err != nil {
		return err
	}

	// 常规文件直接永久删除也允许，与回收站删除走同一条路径
	if rec.State == model.FileStatePending {
		return ErrFileNotFound
	}

	if rec.State != model.FileStatePurgePending {
		if err := fs.markPurgePending(ctx, rec); err != nil {
			return err
		}
	}

	return fs.completePurge(ctx, rec, "api")
}

// markPurgePending 第一步：标记等待清理.软删除标记一并补上，
// 让 purge_pending 的记录同时从常规列表消失.
func (fs *FileService) markPurgePending(ctx context.Context, rec *model.Files) error {
	now := time.Now()
	updates := map[string]any{
		"state":              model.FileStatePurgePending,
		"purge_requested_at": now,
	}

	dbx := fs.db.WithContext(ctx).Model(&model.Files{}).Unscoped().Where("id = ?", rec.ID)
	if !rec.Trashed() {
		updates["deleted_at"] = now
	}

	if err := dbx.Updates(updates).Error; err != nil {
		return err
	}

	rec.State = model.FileStatePurgePending
	fs.emitPurgeRequested(ctx, rec)

	return nil
}

// completePurge 第二步：删对象，再删记录.
func (fs *FileService) completePurge(ctx context.Context, rec *model.Files, trigger string) error {
	if err := fs.store.Remove(ctx, rec.ObjectKey); err != nil {
		metrics.PurgeResults.WithLabelValues("blob_failed").Inc()
		fs.emitPurgeFailed(ctx, rec, err)
		nlog.Logger().Error().Err(err).
			Str("owner", rec.Owner).
			Str("object_key", rec.ObjectKey).
			Msg("purge: blob delete failed, record kept for retry")

		return err
	}

	err := fs.db.WithContext(ctx).Unscoped().
		Where("id = ?", rec.ID).Delete(&model.Files{}).Error
	if err != nil {
		// 对象已删、记录还在：清扫任务会再次走到这里，
		// Remove 幂等，重复执行无害
		metrics.PurgeResults.WithLabelValues("db_failed").Inc()

		return err
	}

	fs.invalidateUsage(ctx, rec.Owner)
	fs.emitPurged(ctx, rec, trigger)
	metrics.PurgeResults.WithLabelValues("success").Inc()

	nlog.Logger().Info().
		Str("owner", rec.Owner).
		Str("file_id", rec.FileID).
		Str("trigger", trigger).
		Msg("file purged")

	return nil
}

// EmptyTrash 永久删除回收站内的全部文件.逐个走 purge 两步提交，
// 个别失败不阻塞其余文件，返回成功删除的数量.
func (fs *FileService) EmptyTrash(ctx context.Context, owner string) (int, error) {
	var rows []model.Files

	err := fs.db.WithContext(ctx).Unscoped().
		Where("owner = ? AND deleted_at IS NOT NULL", owner).
		Find(&rows).Error
	if err != nil {
		return 0, err
	}

	affected := 0

	var freed int64

	for i := range rows {
		rec := &rows[i]

		if rec.State != model.FileStatePurgePending {
			if err := fs.markPurgePending(ctx, rec); err != nil {
				nlog.Logger().Error().Err(err).Str("file_id", rec.FileID).Msg("empty trash: mark failed")

				continue
			}
		}

		if err := fs.completePurge(ctx, rec, "api"); err != nil {
			continue
		}

		affected++
		freed += rec.Size
	}

	metrics.TrashOps.WithLabelValues("empty").Inc()
	fs.emitTrashEmptied(ctx, owner, affected, freed)

	return affected, nil
}

// PurgeSweep 清扫停留超过 retryAfter 的 purge_pending 记录，
// 完成上次中断的第二步.返回完成数量.
func (fs *FileService) PurgeSweep(ctx context.Context, retryAfter time.Duration) (int, error) {
	cutoff := time.Now().Add(-retryAfter)

	var rows []model.Files

	err := fs.db.WithContext(ctx).Unscoped().
		Where("state = ? AND purge_requested_at < ?", model.FileStatePurgePending, cutoff).
		Find(&rows).Error
	if err != nil {
		return 0, err
	}

	done := 0

	for i := range rows {
		if err := fs.completePurge(ctx, &rows[i], "sweep"); err != nil {
			continue
		}

		done++
	}

	return done, nil
}

// AutoCleanTrash 永久删除在回收站中超过保留期的文件（全部用户）.
// 返回完成数量.
func (fs *FileService) AutoCleanTrash(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := time.Now().Add(-retention)

	var rows []model.Files

	err := fs.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ? AND state = ?", cutoff, model.FileStateActive).
		Find(&rows).Error
	if err != nil {
		return 0, err
	}

	done := 0

	for i := range rows {
		rec := &rows[i]

		if err := fs.markPurgePending(ctx, rec); err != nil {
			continue
		}

		if err := fs.completePurge(ctx, rec, "auto"); err != nil {
			continue
		}

		done++
	}

	return done, nil
}

// ReapPendingUploads 回收超过 TTL 仍未确认的 pending 记录.
// 对象可能已经写入但客户端没确认，先删对象再删记录，避免孤儿对象.
func (fs *FileService) ReapPendingUploads(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := time.Now().Add(-ttl)

	var rows []model.Files

	err := fs.db.WithContext(ctx).
		Where("state = ? AND created_at < ?", model.FileStatePending, cutoff).
		Find(&rows).Error
	if err != nil {
		return 0, err
	}

	done := 0

	for i := range rows {
		rec := &rows[i]

		if err := fs.store.Remove(ctx, rec.ObjectKey); err != nil {
			nlog.Logger().Warn().Err(err).Str("object_key", rec.ObjectKey).Msg("reap: blob delete failed")

			continue
		}

		err := fs.db.WithContext(ctx).Unscoped().
			Where("id = ?", rec.ID).Delete(&model.Files{}).Error
		if err != nil {
			continue
		}

		metrics.PendingReaped.Inc()

		done++
	}

	return done, nil
}
