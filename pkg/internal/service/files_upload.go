package service

import (
	"context"
	"strings"
	"time"

	"github.com/yeisme/cloudspace/pkg/internal/model"
	"github.com/yeisme/cloudspace/pkg/internal/types"
	nlog "github.com/yeisme/cloudspace/pkg/log"
	"github.com/yeisme/cloudspace/pkg/metrics"
)

// CreateUploadURL 签发预签名上传链接并登记 pending 记录.
//
// 两阶段上传的第一步：此时对象尚不存在，记录停留在 pending 状态，
// 不计入列表与用量.客户端完成 PUT 后调用 ConfirmUpload 激活.
func (fs *FileService) CreateUploadURL(ctx context.Context, owner string, req *types.UploadURLRequest) (*types.UploadURLResponse, error) {
	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" || strings.ContainsAny(fileName, "/\\") {
		return nil, ErrInvalidName
	}

	// 配额预检：以当前已确认用量加上预估大小判断.
	// 尺寸以确认阶段对象存储返回的事实为准，这里只拦截明显超额的请求.
	if req.Size > 0 {
		used, err := fs.usedBytes(ctx, owner)
		if err != nil {
			return nil, err
		}

		if used+req.Size > fs.cfg.QuotaBytes {
			fs.emitQuotaExceeded(ctx, owner, used, fs.cfg.QuotaBytes)

			return nil, ErrQuotaExceeded
		}
	}

	fileID := newFileID()
	objectKey := buildObjectKey(owner, fileID, fileName)

	uploadURL, err := fs.store.PresignUpload(ctx, objectKey, fs.cfg.UploadTTL())
	if err != nil {
		return nil, err
	}

	rec := model.Files{
		Owner:       owner,
		FileID:      fileID,
		FileName:    fileName,
		ObjectKey:   objectKey,
		ContentType: req.ContentType,
		Size:        req.Size,
		Bucket:      fs.store.Bucket(),
		PublicURL:   fs.store.ObjectURL(objectKey),
		Folder:      normalizeFolderPath(req.Folder),
		State:       model.FileStatePending,
	}
	if err := fs.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, err
	}

	metrics.UploadURLsIssued.Inc()
	fs.emitUploadRequested(ctx, &rec, fs.cfg.PresignUploadTTL)

	nlog.Logger().Debug().
		Str("owner", owner).
		Str("file_id", fileID).
		Str("object_key", objectKey).
		Msg("upload url issued")

	return &types.UploadURLResponse{
		FileID:    fileID,
		UploadURL: uploadURL,
		ObjectKey: objectKey,
		ExpiresIn: fs.cfg.PresignUploadTTL,
	}, nil
}

// ConfirmUpload 确认上传完成，pending 记录激活为 active.
//
// 以对象存储的 HEAD 结果为准修正 size/etag/content-type，
// 对象不存在则报 ErrNotUploaded，记录保持 pending 等待重试或回收.
// 对已 active 的记录重复确认是幂等的.
func (fs *FileService) ConfirmUpload(ctx context.Context, owner, fileID string) (*types.ConfirmUploadResponse, error) {
	rec, err := fs.findOwned(ctx, owner, fileID)
	if err != nil {
		return nil, err
	}

	if rec.State == model.FileStateActive {
		d := types.DisplayFromModel(rec)
		return &types.ConfirmUploadResponse{File: d}, nil
	}

	if rec.State != model.FileStatePending {
		return nil, ErrFileNotFound
	}

	stat, err := fs.store.StatHead(ctx, rec.ObjectKey)
	if err != nil {
		return nil, err
	}

	if stat == nil {
		return nil, ErrNotUploaded
	}

	updates := map[string]any{
		"state":        model.FileStateActive,
		"size":         stat.Size,
		"e_tag":        stat.ETag,
		"content_type": pickContentType(rec.ContentType, stat.ContentType),
	}
	if err := fs.db.WithContext(ctx).Model(&model.Files{}).
		Where("id = ?", rec.ID).Updates(updates).Error; err != nil {
		return nil, err
	}

	rec.State = model.FileStateActive
	rec.Size = stat.Size
	rec.ETag = stat.ETag
	rec.ContentType = pickContentType(rec.ContentType, stat.ContentType)
	rec.UpdatedAt = time.Now()

	fs.invalidateUsage(ctx, owner)
	fs.emitStored(ctx, rec, "confirm")
	metrics.UploadsConfirmed.Inc()

	nlog.Logger().Info().
		Str("owner", owner).
		Str("file_id", fileID).
		Int64("size", stat.Size).
		Msg("upload confirmed")

	d := types.DisplayFromModel(rec)

	return &types.ConfirmUploadResponse{File: d}, nil
}

// pickContentType 客户端声明优先，回退到对象存储探测值.
func pickContentType(declared, detected string) string {
	if declared != "" {
		return declared
	}

	return detected
}
