// Package model 定义持久化层的数据模型.
package model

import (
	"time"

	"gorm.io/gorm"
)

// FileState 文件生命周期状态.
type FileState string

const (
	// FileStatePending 上传链接已签发，对象尚未确认写入.
	FileStatePending FileState = "pending"
	// FileStateActive 对象已确认存在，元数据对外可见.
	FileStateActive FileState = "active"
	// FileStatePurgePending 永久删除已提交，等待对象存储清理完成.
	FileStatePurgePending FileState = "purge_pending"
)

// Files 文件元数据模型.
//
// 回收站语义由 DeletedAt 表达：DeletedAt 有值即在回收站，
// 列表与用量查询据此区分；恢复即清空 DeletedAt.
// State 描述与对象存储的一致性阶段，与回收站正交.
type Files struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// 文件归属者，与 FileID 一起唯一
	Owner string `gorm:"size:255;index:idx_owner_file,unique;index" json:"owner"`
	// 对外文件标识（ULID），owner 下唯一
	FileID   string `gorm:"size:64;index:idx_owner_file,unique" json:"file_id"`
	FileName string `gorm:"size:512;index"                      json:"file_name"`
	// 对象键（S3 key）：{owner}/{fileId}-{fileName}
	ObjectKey   string    `gorm:"size:1024;index" json:"object_key"`
	Size        int64     `gorm:"index"           json:"size"`
	ETag        string    `gorm:"size:64"         json:"etag"`
	ContentType string    `gorm:"size:255"        json:"content_type"`
	Bucket      string    `gorm:"size:255"        json:"bucket"`
	// 对象的固定寻址 URL，仅供展示参考，不含签名
	PublicURL   string    `gorm:"size:2048"       json:"public_url,omitempty"`
	Folder      string    `gorm:"size:1024;index" json:"folder"`
	State       FileState `gorm:"size:32;index"   json:"state"`
	// 进入 purge_pending 的时间，清理任务按此排序重试
	PurgeRequestedAt *time.Time `gorm:"index" json:"purge_requested_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	// 回收站标记：软删除时间即移入回收站时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// Trashed 报告文件是否在回收站.
func (f *Files) Trashed() bool {
	return f.DeletedAt.Valid
}

// Visible 报告文件是否计入常规列表（已激活且不在回收站）.
func (f *Files) Visible() bool {
	return f.State == FileStateActive && !f.Trashed()
}
