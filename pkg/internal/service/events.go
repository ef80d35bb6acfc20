package service

import (
	"context"
	"time"

	"github.com/yeisme/cloudspace/pkg/configs"
	"github.com/yeisme/cloudspace/pkg/internal/model"
	nlog "github.com/yeisme/cloudspace/pkg/log"
	"github.com/yeisme/cloudspace/pkg/queue"
)

// fileRef 从记录构造事件引用.
func fileRef(f *model.Files) queue.FileRef {
	return queue.FileRef{
		Owner:       f.Owner,
		FileID:      f.FileID,
		FileName:    f.FileName,
		Bucket:      f.Bucket,
		ObjectKey:   f.ObjectKey,
		Size:        f.Size,
		ETag:        f.ETag,
		ContentType: f.ContentType,
	}
}

// 事件发布尽力而为：失败只记日志，不影响主流程.

func (fs *FileService) emit(ctx context.Context, topic string, payload any) {
	msg, err := queue.NewWatermillMessage(topic, payload, queue.WithProducer("cloudspace"))
	if err != nil {
		nlog.Logger().Warn().Err(err).Str("topic", topic).Msg("encode event failed")

		return
	}

	if err := fs.mq.Publish(ctx, topic, msg); err != nil {
		nlog.Logger().Warn().Err(err).Str("topic", topic).Msg("publish event failed")
	}
}

func (fs *FileService) emitStored(ctx context.Context, f *model.Files, source string) {
	evCfg := configs.GetConfig().Events
	if fs.mq == nil || !evCfg.Enabled || !evCfg.File.Stored {
		return
	}

	fs.emit(ctx, queue.TopicFileStored, queue.FileStoredPayload{File: fileRef(f), Source: source})
}

func (fs *FileService) emitTrashed(ctx context.Context, f *model.Files, at time.Time) {
	evCfg := configs.GetConfig().Events
	if fs.mq == nil || !evCfg.Enabled || !evCfg.File.Trashed {
		return
	}

	fs.emit(ctx, queue.TopicFileTrashed, queue.FileTrashedPayload{File: fileRef(f), TrashedAt: at})
}

func (fs *FileService) emitRestored(ctx context.Context, f *model.Files) {
	evCfg := configs.GetConfig().Events
	if fs.mq == nil || !evCfg.Enabled || !evCfg.File.Restored {
		return
	}

	fs.emit(ctx, queue.TopicFileRestored, queue.FileRestoredPayload{File: fileRef(f)})
}

func (fs *FileService) emitPurgeRequested(ctx context.Context, f *model.Files) {
	evCfg := configs.GetConfig().Events
	if fs.mq == nil || !evCfg.Enabled || !evCfg.File.Purged {
		return
	}

	fs.emit(ctx, queue.TopicFilePurgeRequested, queue.FilePurgeRequestedPayload{File: fileRef(f)})
}

func (fs *FileService) emitPurged(ctx context.Context, f *model.Files, trigger string) {
	evCfg := configs.GetConfig().Events
	if fs.mq == nil || !evCfg.Enabled || !evCfg.File.Purged {
		return
	}

	fs.emit(ctx, queue.TopicFilePurged, queue.FilePurgedPayload{File: fileRef(f), Trigger: trigger})
}

func (fs *FileService) emitPurgeFailed(ctx context.Context, f *model.Files, cause error) {
	evCfg := configs.GetConfig().Events
	if fs.mq == nil || !evCfg.Enabled || !evCfg.File.Purged {
		return
	}

	fs.emit(ctx, queue.TopicFilePurgeFailed, queue.FilePurgeFailedPayload{File: fileRef(f), Error: cause.Error()})
}

func (fs *FileService) emitUploadRequested(ctx context.Context, f *model.Files, expiresIn int) {
	evCfg := configs.GetConfig().Events
	if fs.mq == nil || !evCfg.Enabled {
		return
	}

	fs.emit(ctx, queue.TopicFileUploadRequested, queue.FileUploadRequestedPayload{File: fileRef(f), ExpiresIn: expiresIn})
}

func (fs *FileService) emitRenamed(ctx context.Context, f *model.Files, oldName string) {
	evCfg := configs.GetConfig().Events
	if fs.mq == nil || !evCfg.Enabled {
		return
	}

	fs.emit(ctx, queue.TopicFileRenamed, queue.FileRenamedPayload{File: fileRef(f), OldName: oldName})
}

func (fs *FileService) emitTrashEmptied(ctx context.Context, owner string, count int, bytes int64) {
	evCfg := configs.GetConfig().Events
	if fs.mq == nil || !evCfg.Enabled {
		return
	}

	fs.emit(ctx, queue.TopicTrashEmptied, queue.TrashEmptiedPayload{Owner: owner, Count: count, Bytes: bytes})
}

func (fs *FileService) emitQuotaExceeded(ctx context.Context, owner string, used, quota int64) {
	evCfg := configs.GetConfig().Events
	if fs.mq == nil || !evCfg.Enabled {
		return
	}

	fs.emit(ctx, queue.TopicQuotaExceeded, queue.QuotaExceededPayload{Owner: owner, UsedBytes: used, QuotaBytes: quota})
}
