package service

import (
	"context"

	"github.com/yeisme/cloudspace/pkg/internal/model"
	"github.com/yeisme/cloudspace/pkg/internal/types"
	nlog "github.com/yeisme/cloudspace/pkg/log"
)

const (
	defaultPageSize = 50
	maxPageSize     = 1000
)

// List 列出文件.trash=true 时列出回收站，recent=true 按更新时间倒序.
//
// 损坏的记录（展示字段缺失）不会让整个列表失败：
// 字段级缺失按兜底值补齐，行级损坏跳过并计入 Skipped.
func (fs *FileService) List(ctx context.Context, owner string, req *types.ListFilesRequest) (*types.ListFilesResponse, error) {
	dbx := fs.db.WithContext(ctx).Model(&model.Files{})

	if req.Trash {
		dbx = dbx.Unscoped().
			Where("owner = ? AND deleted_at IS NOT NULL AND state <> ?", owner, model.FileStatePurgePending)
	} else {
		dbx = dbx.Where("owner = ? AND state = ?", owner, model.FileStateActive)
	}

	if req.Folder != "" {
		dbx = dbx.Where("folder = ?", normalizeFolderPath(req.Folder))
	}

	var total int64
	if err := dbx.Count(&total).Error; err != nil {
		return nil, err
	}

	switch {
	case req.Trash:
		dbx = dbx.Order("deleted_at DESC")
	case req.Recent:
		dbx = dbx.Order("updated_at DESC")
	default:
		dbx = dbx.Order("file_name ASC")
	}

	page, size := req.Page, req.Size
	if page > 0 {
		if size <= 0 || size > maxPageSize {
			size = defaultPageSize
		}

		dbx = dbx.Offset((page - 1) * size).Limit(size)
	}

	var rows []model.Files
	if err := dbx.Find(&rows).Error; err != nil {
		return nil, err
	}

	files := make([]types.FileDisplay, 0, len(rows))

	skipped := 0

	for i := range rows {
		r := &rows[i]
		// ObjectKey 为空的记录无法定位对象，属于不可恢复的坏行
		if r.ObjectKey == "" {
			skipped++

			nlog.Logger().Warn().
				Uint("id", r.ID).
				Str("owner", owner).
				Msg("skipping corrupt file record")

			continue
		}

		files = append(files, types.DisplayFromModel(r))
	}

	return &types.ListFilesResponse{
		Total:   int(total),
		Page:    page,
		Size:    size,
		Files:   files,
		Skipped: skipped,
	}, nil
}
