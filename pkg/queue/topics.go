// Package queue 定义消息主题常量与事件封装，供发布/订阅使用.
package queue

// 主题命名规范：cs.<域>.<动作>[.<状态>]，尽量稳定且向后兼容.
// 域：file(文件生命周期)、trash(回收站)、quota(配额)
// 动作：stored/trashed/restored/purged 等
// 状态：请求(requested)、完成(ed)、失败(failed)

const (
	// 文件生命周期领域.
	TopicFileUploadRequested = "cs.file.upload.requested" // 已签发上传链接，等待对象写入
	TopicFileStored          = "cs.file.stored"           // 上传已确认，元数据激活
	TopicFileTrashed         = "cs.file.trashed"          // 文件移入回收站
	TopicFileRestored        = "cs.file.restored"         // 文件从回收站恢复
	TopicFileRenamed         = "cs.file.renamed"          // 文件重命名
	TopicFilePurgeRequested  = "cs.file.purge.requested"  // 永久删除已提交，进入清理阶段
	TopicFilePurged          = "cs.file.purged"           // 对象与元数据均已删除
	TopicFilePurgeFailed     = "cs.file.purge.failed"     // 对象存储清理失败，等待重试

	// 回收站领域.
	TopicTrashEmptied = "cs.trash.emptied" // 回收站被清空

	// 配额领域.
	TopicQuotaExceeded = "cs.quota.exceeded" // 用量超出配额告警
)

// 主题分组，用于批量订阅或权限控制.
var (
	// 文件生命周期相关主题集合.
	FileTopics = []string{
		TopicFileUploadRequested, TopicFileStored, TopicFileTrashed,
		TopicFileRestored, TopicFileRenamed,
		TopicFilePurgeRequested, TopicFilePurged, TopicFilePurgeFailed,
	}

	// 回收站相关主题集合.
	TrashTopics = []string{
		TopicTrashEmptied,
	}

	// 配额相关主题集合.
	QuotaTopics = []string{
		TopicQuotaExceeded,
	}
)
