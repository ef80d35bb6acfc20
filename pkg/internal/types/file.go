// Package types 定义 HTTP 层的请求与响应结构.
package types

import (
	"time"

	"github.com/yeisme/cloudspace/pkg/internal/model"
)

// 字段缺失时的展示兜底值.
const (
	DefaultFileID   = "unknown"
	DefaultFileName = "Untitled"
)

// FileDisplay 面向客户端的文件视图.
type FileDisplay struct {
	ID           string `json:"fileId"`
	Name         string `json:"fileName"`
	Size         int64  `json:"fileSize"`
	URL          string `json:"url,omitempty"` // 对象的固定寻址 URL，仅供参考
	ContentType  string `json:"contentType,omitempty"`
	Folder       string `json:"folder,omitempty"`
	CreatedAt    string `json:"createdAt"`    // RFC3339
	LastModified string `json:"lastModified"` // RFC3339
	Trashed      bool   `json:"isDeleted"`
	TrashedAt    string `json:"trashedAt,omitempty"` // RFC3339，仅在回收站时有值
}

// DisplayFromModel 把数据库记录转换为展示视图.
// 缺失字段不视为错误，按兜底值补齐，列表接口据此保持"跳过坏记录、
// 其余照常返回"的行为.
func DisplayFromModel(f *model.Files) FileDisplay {
	d := FileDisplay{
		ID:          f.FileID,
		Name:        f.FileName,
		Size:        f.Size,
		URL:         f.PublicURL,
		ContentType: f.ContentType,
		Folder:      f.Folder,
		Trashed:     f.Trashed(),
	}

	if d.ID == "" {
		d.ID = DefaultFileID
	}

	if d.Name == "" {
		d.Name = DefaultFileName
	}

	if d.Size < 0 {
		d.Size = 0
	}

	if f.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	} else {
		d.CreatedAt = f.CreatedAt.UTC().Format(time.RFC3339)
	}

	if f.UpdatedAt.IsZero() {
		d.LastModified = time.Now().UTC().Format(time.RFC3339)
	} else {
		d.LastModified = f.UpdatedAt.UTC().Format(time.RFC3339)
	}

	if f.Trashed() {
		d.TrashedAt = f.DeletedAt.Time.UTC().Format(time.RFC3339)
	}

	return d
}
