package types

// UploadURLRequest 申请预签名上传链接.
type UploadURLRequest struct {
	FileName    string `binding:"required" json:"fileName"`
	ContentType string `json:"contentType,omitempty"` // 可选：内容类型
	Size        int64  `json:"size,omitempty"`        // 可选：预估大小（字节），用于配额预检
	Folder      string `json:"folder,omitempty"`      // 可选：目标文件夹路径
}

// UploadURLResponse 预签名上传链接结果.
type UploadURLResponse struct {
	FileID    string `json:"fileId"`
	UploadURL string `json:"uploadURL"`
	ObjectKey string `json:"objectKey"`
	ExpiresIn int    `json:"expiresIn"` // 秒
}

// ConfirmUploadRequest 确认对象已写入.
type ConfirmUploadRequest struct {
	FileID string `binding:"required" json:"fileId"`
}

// ConfirmUploadResponse 确认结果，返回激活后的文件视图.
type ConfirmUploadResponse struct {
	File FileDisplay `json:"file"`
}
