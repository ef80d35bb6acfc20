package types

// FileActionRequest 对单个文件的动作请求（移入回收站/恢复/永久删除/重命名）.
type FileActionRequest struct {
	FileID string `binding:"required" json:"fileId"`
}

// FileActionResponse 单文件动作响应.
type FileActionResponse struct {
	FileID  string `json:"fileId"`
	Message string `json:"message,omitempty"`
}

// RenameFileRequest 重命名请求.
type RenameFileRequest struct {
	FileID  string `binding:"required" json:"fileId"`
	NewName string `binding:"required" json:"newName"`
}

// EmptyTrashResponse 清空回收站响应.
type EmptyTrashResponse struct {
	Affected int    `json:"affected"`
	Message  string `json:"message,omitempty"`
}
