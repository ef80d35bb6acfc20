package model

import (
	"time"

	"gorm.io/gorm"
)

// Folders 文件夹模型.文件夹是纯元数据概念，对象存储侧不建目录，
// 文件通过 Folder 字段归属到某个路径.
type Folders struct {
	ID    uint   `gorm:"primaryKey"                               json:"id"`
	Owner string `gorm:"size:255;index:idx_owner_path,unique"     json:"owner"`
	// 规范化路径，如 "docs/reports"，owner 下唯一
	Path      string         `gorm:"size:1024;index:idx_owner_path,unique" json:"path"`
	Name      string         `gorm:"size:512"                              json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index"                                 json:"-"`
}
