package types

// CreateFolderRequest 创建文件夹.
type CreateFolderRequest struct {
	Path string `binding:"required" json:"path"`
}

// CreateFolderResponse 创建文件夹响应.
type CreateFolderResponse struct {
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}
