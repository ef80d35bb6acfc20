package service

import (
	"context"
	"time"

	"github.com/yeisme/cloudspace/pkg/internal/model"
	nlog "github.com/yeisme/cloudspace/pkg/log"
	"github.com/yeisme/cloudspace/pkg/metrics"
)

// Trash 将文件移入回收站（软删除）.对象本体保持不动，
// 恢复窗口内随时可以 Restore.
func (fs *FileService) Trash(ctx context.Context, owner, fileID string) error {
	rec, err := fs.findOwned(ctx, owner, fileID)
	if err != nil {
		return err
	}

	// 已在回收站的记录重复删除视为幂等 no-op.
	if rec.Trashed() {
		return nil
	}

	if rec.State != model.FileStateActive {
		return ErrFileNotFound
	}

	now := time.Now()
	if err := fs.db.WithContext(ctx).Where("id = ?", rec.ID).Delete(&model.Files{}).Error; err != nil {
		return err
	}

	fs.invalidateUsage(ctx, owner)
	fs.emitTrashed(ctx, rec, now)
	metrics.TrashOps.WithLabelValues("trash").Inc()

	nlog.Logger().Info().Str("owner", owner).Str("file_id", fileID).Msg("file trashed")

	return nil
}

// Restore 将回收站中的文件恢复为常规文件.
func (fs *FileService) Restore(ctx context.Context, owner, fileID string) error {
	rec, err := fs.findOwned(ctx, owner, fileID)
	if err != nil {
		return err
	}

	// 进入清除流程的记录不再可恢复.
	if rec.State == model.FileStatePurgePending {
		return ErrNotTrashed
	}

	// 未在回收站的记录恢复视为幂等 no-op.
	if !rec.Trashed() {
		return nil
	}

	err = fs.db.WithContext(ctx).Model(&model.Files{}).Unscoped().
		Where("id = ?", rec.ID).Update("deleted_at", nil).Error
	if err != nil {
		return err
	}

	fs.invalidateUsage(ctx, owner)
	fs.emitRestored(ctx, rec)
	metrics.TrashOps.WithLabelValues("restore").Inc()

	nlog.Logger().Info().Str("owner", owner).Str("file_id", fileID).Msg("file restored")

	return nil
}
