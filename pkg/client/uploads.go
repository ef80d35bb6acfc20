package client

import "io"

// UploadStatus 上传任务状态.
type UploadStatus string

const (
	UploadRequestingURL UploadStatus = "requesting_url" // 正在申请预签名链接
	UploadUploading     UploadStatus = "uploading"      // 正在直传对象存储
	UploadCompleted     UploadStatus = "completed"      // 已确认完成
	UploadError         UploadStatus = "error"          // 失败，记录保留待服务端回收
)

// Terminal 返回任务是否已到终态.
func (s UploadStatus) Terminal() bool {
	return s == UploadCompleted || s == UploadError
}

// UploadTask 表示一次进行中的传输，仅存在于客户端内存.
type UploadTask struct {
	ID       string       `json:"id"`
	FileName string       `json:"fileName"`
	Progress int          `json:"progress"` // 0-100
	Status   UploadStatus `json:"status"`
	Error    string       `json:"error,omitempty"`
}

// progressReader 包装上传体，按读取量上报进度.
type progressReader struct {
	r      io.Reader
	total  int64
	done   int64
	report func(done, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.done += int64(n)

		total := p.total
		if total <= 0 {
			total = -1
		}

		p.report(p.done, total)
	}

	return n, err
}
