package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/cloudspace/pkg/internal/handle"
)

// RegisterFilesRoutes 注册文件生命周期相关路由.
func RegisterFilesRoutes(g *gin.RouterGroup) {
	// 上传：两阶段（签发链接 -> 客户端 PUT -> 确认）
	g.POST("/upload-url", handle.UploadURL)
	g.POST("/confirm-upload", handle.ConfirmUpload)

	// 查询
	g.GET("/files", handle.ListFiles)
	g.GET("/download-url", handle.DownloadURL)
	g.GET("/storage-usage", handle.StorageUsage)

	// 回收站
	g.POST("/delete-file", handle.DeleteFile)
	g.POST("/restore-file", handle.RestoreFile)
	g.POST("/permanent-delete", handle.PermanentDelete)
	g.POST("/empty-trash", handle.EmptyTrash)

	// 组织
	g.POST("/create-folder", handle.CreateFolder)
	g.POST("/rename-file", handle.RenameFile)
}
