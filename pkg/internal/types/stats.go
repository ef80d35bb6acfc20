package types

// StorageUsageResponse 存储用量响应.
//
// UsedBytes 只统计常规（非回收站）文件；TrashBytes 单独给出.
// FileCount 统计全部记录，含回收站.
type StorageUsageResponse struct {
	UsedBytes   int64   `json:"usedBytes"`
	QuotaBytes  int64   `json:"quotaBytes"`
	TrashBytes  int64   `json:"trashBytes"`
	FileCount   int64   `json:"fileCount"`
	PercentUsed float64 `json:"percentUsed"`
}
