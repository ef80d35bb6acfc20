package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// FileRef 标识一份文件及其对象存储位置.
type FileRef struct {
	Owner       string `json:"owner"`
	FileID      string `json:"file_id"`
	FileName    string `json:"file_name,omitempty"`
	Bucket      string `json:"bucket,omitempty"`
	ObjectKey   string `json:"object_key"`
	Size        int64  `json:"size,omitempty"`
	ETag        string `json:"etag,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// FileUploadRequestedPayload 上传链接已签发.
type FileUploadRequestedPayload struct {
	File      FileRef `json:"file"`
	ExpiresIn int     `json:"expires_in,omitempty"` // 链接有效期（秒）
}

// FileStoredPayload 上传已确认，文件激活.
type FileStoredPayload struct {
	File FileRef `json:"file"`
	// Source 触发来源，如 confirm（客户端确认）.
	Source string `json:"source,omitempty"`
}

// FileTrashedPayload 文件移入回收站.
type FileTrashedPayload struct {
	File      FileRef   `json:"file"`
	TrashedAt time.Time `json:"trashed_at"`
}

// FileRestoredPayload 文件从回收站恢复.
type FileRestoredPayload struct {
	File FileRef `json:"file"`
}

// FileRenamedPayload 文件重命名.
type FileRenamedPayload struct {
	File    FileRef `json:"file"`
	OldName string  `json:"old_name"`
}

// FilePurgeRequestedPayload 永久删除已提交，记录进入 purge_pending.
type FilePurgeRequestedPayload struct {
	File FileRef `json:"file"`
}

// FilePurgedPayload 文件永久删除完成.
type FilePurgedPayload struct {
	File FileRef `json:"file"`
	// Trigger 触发方式：api（用户操作）/ sweep（后台清理）/ auto（过期自动清理）.
	Trigger string `json:"trigger,omitempty"`
}

// FilePurgeFailedPayload 永久删除在对象存储侧失败，记录保持 purge_pending.
type FilePurgeFailedPayload struct {
	File  FileRef `json:"file"`
	Error string  `json:"error"`
}

// TrashEmptiedPayload 回收站清空.
type TrashEmptiedPayload struct {
	Owner string `json:"owner"`
	Count int    `json:"count"`
	Bytes int64  `json:"bytes,omitempty"`
}

// QuotaExceededPayload 用量超出配额.
type QuotaExceededPayload struct {
	Owner      string `json:"owner"`
	UsedBytes  int64  `json:"used_bytes"`
	QuotaBytes int64  `json:"quota_bytes"`
}
