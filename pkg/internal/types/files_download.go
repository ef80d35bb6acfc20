package types

// DownloadURLRequest 申请预签名下载链接.
type DownloadURLRequest struct {
	FileID string `binding:"required" form:"fileId"`
}

// DownloadURLResponse 预签名下载链接结果.
type DownloadURLResponse struct {
	FileID      string `json:"fileId"`
	FileName    string `json:"fileName"`
	DownloadURL string `json:"downloadURL"`
	ExpiresIn   int    `json:"expiresIn"` // 秒
}
