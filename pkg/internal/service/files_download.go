package service

import (
	"context"

	"github.com/yeisme/cloudspace/pkg/internal/model"
	"github.com/yeisme/cloudspace/pkg/internal/types"
)

// DownloadURL 为已激活的文件签发预签名下载链接.
// 回收站中的文件不可下载，需先恢复.
func (fs *FileService) DownloadURL(ctx context.Context, owner, fileID string) (*types.DownloadURLResponse, error) {
	rec, err := fs.findOwned(ctx, owner, fileID)
	if err != nil {
		return nil, err
	}

	if rec.State != model.FileStateActive || rec.Trashed() {
		return nil, ErrFileNotFound
	}

	u, err := fs.store.PresignDownload(ctx, rec.ObjectKey, rec.FileName, fs.cfg.DownloadTTL())
	if err != nil {
		return nil, err
	}

	return &types.DownloadURLResponse{
		FileID:      rec.FileID,
		FileName:    rec.FileName,
		DownloadURL: u,
		ExpiresIn:   fs.cfg.PresignDownloadTTL,
	}, nil
}
