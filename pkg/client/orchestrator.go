package client

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/oklog/ulid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yeisme/cloudspace/pkg/internal/types"
)

const (
	// taskRetention 终态上传任务在列表里保留多久后移除.
	taskRetention = 3 * time.Second

	progressMax = 100
)

// Orchestrator 是展示层与生命周期服务之间的唯一通道：
// 读操作随时可重发，写操作成功后整体刷新本地列表（永久删除
// 额外做乐观移除），失败一律降级为通知，不向上抛出 panic.
type Orchestrator struct {
	api    *API
	store  *Store
	logger zerolog.Logger

	retention time.Duration
}

// Option 配置 Orchestrator.
type Option func(*Orchestrator)

// WithLogger 设置日志输出，默认丢弃.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithTaskRetention 设置终态上传任务的保留时长.
func WithTaskRetention(d time.Duration) Option {
	return func(o *Orchestrator) { o.retention = d }
}

// New 创建编排器.
func New(api *API, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		api:       api,
		store:     NewStore(),
		logger:    zerolog.Nop(),
		retention: taskRetention,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Store 返回状态容器，展示层从这里订阅快照.
func (o *Orchestrator) Store() *Store {
	return o.store
}

func newID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// Refresh 并行重拉全部读端点并归并到本地状态.
// 任一端点失败则整体返回错误，已成功的端点照常落入状态.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		resp, err := o.api.ListFiles(gctx, types.ListFilesRequest{})
		if err != nil {
			return fmt.Errorf("list files: %w", err)
		}

		o.store.Dispatch(Action{Type: ActionSetMyFiles, Files: resp.Files})

		return nil
	})

	g.Go(func() error {
		resp, err := o.api.ListFiles(gctx, types.ListFilesRequest{Recent: true})
		if err != nil {
			return fmt.Errorf("list recent: %w", err)
		}

		o.store.Dispatch(Action{Type: ActionSetRecentFiles, Files: resp.Files})

		return nil
	})

	g.Go(func() error {
		resp, err := o.api.ListFiles(gctx, types.ListFilesRequest{Trash: true})
		if err != nil {
			return fmt.Errorf("list trash: %w", err)
		}

		o.store.Dispatch(Action{Type: ActionSetTrashFiles, Files: resp.Files})

		return nil
	})

	g.Go(func() error {
		resp, err := o.api.StorageUsage(gctx)
		if err != nil {
			return fmt.Errorf("storage usage: %w", err)
		}

		o.store.Dispatch(Action{Type: ActionSetUsage, Usage: resp})

		return nil
	})

	return g.Wait()
}

// Upload 执行完整上传：申请链接、直传、确认、刷新.
// 失败时任务置为 error 并通知；已创建的 pending 记录留给服务端回收.
func (o *Orchestrator) Upload(ctx context.Context, fileName, folder, contentType string, size int64, r io.Reader) error {
	task := UploadTask{
		ID:       newID(),
		FileName: fileName,
		Status:   UploadRequestingURL,
	}
	o.store.Dispatch(Action{Type: ActionUpsertUpload, Upload: &task})

	req := &types.UploadURLRequest{
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		Folder:      folder,
	}

	grant, err := o.api.CreateUploadURL(ctx, req)
	if err != nil {
		return o.failUpload(&task, "request upload url failed", err)
	}

	task.Status = UploadUploading
	o.store.Dispatch(Action{Type: ActionUpsertUpload, Upload: &task})

	err = o.api.UploadBlob(ctx, grant.UploadURL, contentType, size, r, func(done, total int64) {
		if total > 0 {
			task.Progress = int(done * progressMax / total)
			o.store.Dispatch(Action{Type: ActionUpsertUpload, Upload: &task})
		}
	})
	if err != nil {
		return o.failUpload(&task, "transfer failed", err)
	}

	if _, err := o.api.ConfirmUpload(ctx, grant.FileID); err != nil {
		return o.failUpload(&task, "confirm upload failed", err)
	}

	task.Status = UploadCompleted
	task.Progress = progressMax
	o.store.Dispatch(Action{Type: ActionUpsertUpload, Upload: &task})
	o.scheduleTaskRemoval(task.ID)

	o.notify(NoticeInfo, fmt.Sprintf("%s uploaded", fileName))
	o.refreshAfterMutation(ctx, "upload")

	return nil
}

// Delete 把文件移入回收站.
func (o *Orchestrator) Delete(ctx context.Context, fileID string) error {
	return o.mutate(ctx, "delete", func() error {
		return o.api.TrashFile(ctx, fileID)
	})
}

// Restore 把文件移出回收站.
func (o *Orchestrator) Restore(ctx context.Context, fileID string) error {
	return o.mutate(ctx, "restore", func() error {
		return o.api.RestoreFile(ctx, fileID)
	})
}

// PermanentDelete 永久删除：先从本地所有列表乐观移除，再调服务端并刷新.
// 服务端失败时刷新会把真实状态拉回来.
func (o *Orchestrator) PermanentDelete(ctx context.Context, fileID string) error {
	o.store.Dispatch(Action{Type: ActionRemoveFile, FileID: fileID})

	return o.mutate(ctx, "permanent delete", func() error {
		return o.api.PermanentDelete(ctx, fileID)
	})
}

// EmptyTrash 清空回收站.
func (o *Orchestrator) EmptyTrash(ctx context.Context) error {
	return o.mutate(ctx, "empty trash", func() error {
		n, err := o.api.EmptyTrash(ctx)
		if err != nil {
			return err
		}

		o.notify(NoticeInfo, fmt.Sprintf("%d files removed from trash", n))

		return nil
	})
}

// CreateFolder 创建文件夹并加入本地列表.
func (o *Orchestrator) CreateFolder(ctx context.Context, path string) error {
	return o.mutate(ctx, "create folder", func() error {
		resp, err := o.api.CreateFolder(ctx, path)
		if err != nil {
			return err
		}

		o.store.Dispatch(Action{Type: ActionAddFolder, Folder: resp.Path})

		return nil
	})
}

// Rename 重命名文件.
func (o *Orchestrator) Rename(ctx context.Context, fileID, newName string) error {
	return o.mutate(ctx, "rename", func() error {
		return o.api.RenameFile(ctx, fileID, newName)
	})
}

// DownloadURL 申请下载链接，读操作不触发刷新.
func (o *Orchestrator) DownloadURL(ctx context.Context, fileID string) (string, error) {
	resp, err := o.api.DownloadURL(ctx, fileID)
	if err != nil {
		o.notify(NoticeError, fmt.Sprintf("download url failed: %v", err))

		return "", err
	}

	return resp.DownloadURL, nil
}

// Dismiss 移除一条通知.
func (o *Orchestrator) Dismiss(noticeID string) {
	o.store.Dispatch(Action{Type: ActionDismissNotice, ID: noticeID})
}

// mutate 执行一次写操作：失败转通知，成功后整体刷新.
func (o *Orchestrator) mutate(ctx context.Context, name string, fn func() error) error {
	if err := fn(); err != nil {
		o.logger.Error().Err(err).Str("action", name).Msg("mutation failed")
		o.notify(NoticeError, fmt.Sprintf("%s failed: %v", name, err))
		o.refreshAfterMutation(ctx, name)

		return err
	}

	o.refreshAfterMutation(ctx, name)

	return nil
}

func (o *Orchestrator) refreshAfterMutation(ctx context.Context, name string) {
	if err := o.Refresh(ctx); err != nil {
		o.logger.Error().Err(err).Str("action", name).Msg("refresh after mutation failed")
		o.notify(NoticeError, fmt.Sprintf("refresh failed: %v", err))
	}
}

func (o *Orchestrator) failUpload(task *UploadTask, msg string, err error) error {
	task.Status = UploadError
	task.Error = err.Error()
	o.store.Dispatch(Action{Type: ActionUpsertUpload, Upload: task})
	o.scheduleTaskRemoval(task.ID)

	o.logger.Error().Err(err).Str("file", task.FileName).Msg(msg)
	o.notify(NoticeError, fmt.Sprintf("%s: %s: %v", task.FileName, msg, err))

	return err
}

func (o *Orchestrator) scheduleTaskRemoval(id string) {
	time.AfterFunc(o.retention, func() {
		o.store.Dispatch(Action{Type: ActionRemoveUpload, ID: id})
	})
}

func (o *Orchestrator) notify(level NotificationLevel, msg string) {
	o.store.Dispatch(Action{
		Type: ActionNotify,
		Notice: &Notification{
			ID:      newID(),
			Level:   level,
			Message: msg,
			At:      time.Now(),
		},
	})
}
