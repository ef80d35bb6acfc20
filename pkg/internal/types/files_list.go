package types

// ListFilesRequest 列表查询参数.
type ListFilesRequest struct {
	Trash  bool   `form:"trash"`                  // 列出回收站而非常规文件
	Recent bool   `form:"recent"`                 // 按更新时间倒序
	Folder string `form:"folder"`                 // 限定文件夹路径
	Page   int    `form:"page"   rule:"min=0"`    // 从 1 开始，0 表示不分页
	Size   int    `form:"size"   rule:"max=1000"` // 每页条数
}

// ListFilesResponse 文件列表响应.
type ListFilesResponse struct {
	Total   int           `json:"total"`
	Page    int           `json:"page,omitempty"`
	Size    int           `json:"size,omitempty"`
	Files   []FileDisplay `json:"files"`
	Skipped int           `json:"skipped,omitempty"` // 因记录损坏被跳过的条数
}
