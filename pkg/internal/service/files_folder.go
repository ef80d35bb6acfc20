package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/yeisme/cloudspace/pkg/internal/model"
	"github.com/yeisme/cloudspace/pkg/internal/types"
	nlog "github.com/yeisme/cloudspace/pkg/log"
)

// normalizeFolderPath 去掉首尾斜杠与空白，折叠重复斜杠.
func normalizeFolderPath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.Trim(p, "/")

	if p == "" {
		return ""
	}

	parts := strings.Split(p, "/")
	out := make([]string, 0, len(parts))

	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}

	return strings.Join(out, "/")
}

// CreateFolder 创建文件夹（纯元数据，不触碰对象存储）.
// 重复创建同一路径是幂等的.
func (fs *FileService) CreateFolder(ctx context.Context, owner, path string) (*types.CreateFolderResponse, error) {
	normalized := normalizeFolderPath(path)
	if normalized == "" {
		return nil, ErrInvalidName
	}

	var existing model.Folders

	err := fs.db.WithContext(ctx).
		Where("owner = ? AND path = ?", owner, normalized).
		First(&existing).Error
	if err == nil {
		return &types.CreateFolderResponse{Path: normalized, Message: "folder already exists"}, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	name := normalized
	if idx := strings.LastIndex(normalized, "/"); idx >= 0 {
		name = normalized[idx+1:]
	}

	rec := model.Folders{Owner: owner, Path: normalized, Name: name}
	if err := fs.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, err
	}

	nlog.Logger().Info().Str("owner", owner).Str("path", normalized).Msg("folder created")

	return &types.CreateFolderResponse{Path: normalized}, nil
}

// Rename 重命名文件.对象键保持不变，重命名只是元数据操作，
// 下载时通过 Content-Disposition 使用新名字.
func (fs *FileService) Rename(ctx context.Context, owner, fileID, newName string) (*types.FileDisplay, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" || strings.ContainsAny(newName, "/\\") {
		return nil, ErrInvalidName
	}

	rec, err := fs.findOwned(ctx, owner, fileID)
	if err != nil {
		return nil, err
	}

	if rec.State != model.FileStateActive || rec.Trashed() {
		return nil, ErrFileNotFound
	}

	err = fs.db.WithContext(ctx).Model(&model.Files{}).
		Where("id = ?", rec.ID).Update("file_name", newName).Error
	if err != nil {
		return nil, err
	}

	oldName := rec.FileName
	rec.FileName = newName
	fs.emitRenamed(ctx, rec, oldName)

	d := types.DisplayFromModel(rec)

	return &d, nil
}
