package handle

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/cloudspace/pkg/internal/service"
	"github.com/yeisme/cloudspace/pkg/internal/types"
	"github.com/yeisme/cloudspace/pkg/log"
)

// fileAction 解析单文件动作请求并执行.
func fileAction(c *gin.Context, name string, fn func(ctx context.Context, svc *service.FileService, owner, fileID string) error) {
	l := log.Logger()

	owner, err := checkOwner(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	var req types.FileActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := service.NewFileService(c.Request.Context())

	if e := fn(c.Request.Context(), svc, owner, req.FileID); e != nil {
		l.Error().Err(e).Str("owner", owner).Str("file_id", req.FileID).Msgf("%s failed", name)
		abortWithError(c, e)

		return
	}

	c.JSON(http.StatusOK, types.FileActionResponse{FileID: req.FileID})
}

// DeleteFile 移入回收站.
//
//	@Summary	删除文件（移入回收站）
//	@Tags		回收站
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.FileActionRequest	true	"文件标识"
//	@Success	200		{object}	types.FileActionResponse
//	@Failure	400		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Router		/api/v1/delete-file [post]
func DeleteFile(c *gin.Context) {
	fileAction(c, "trash", func(ctx context.Context, svc *service.FileService, owner, fileID string) error {
		return svc.Trash(ctx, owner, fileID)
	})
}

// RestoreFile 从回收站恢复.
//
//	@Summary	恢复文件
//	@Tags		回收站
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.FileActionRequest	true	"文件标识"
//	@Success	200		{object}	types.FileActionResponse
//	@Failure	400		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Router		/api/v1/restore-file [post]
func RestoreFile(c *gin.Context) {
	fileAction(c, "restore", func(ctx context.Context, svc *service.FileService, owner, fileID string) error {
		return svc.Restore(ctx, owner, fileID)
	})
}

// PermanentDelete 永久删除（对象与元数据）.
//
//	@Summary	永久删除文件
//	@Tags		回收站
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.FileActionRequest	true	"文件标识"
//	@Success	200		{object}	types.FileActionResponse
//	@Failure	400		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Failure	500		{object}	map[string]string
//	@Router		/api/v1/permanent-delete [post]
func PermanentDelete(c *gin.Context) {
	fileAction(c, "purge", func(ctx context.Context, svc *service.FileService, owner, fileID string) error {
		return svc.Purge(ctx, owner, fileID)
	})
}

// EmptyTrash 清空回收站.
//
//	@Summary	清空回收站
//	@Tags		回收站
//	@Produce	json
//	@Success	200	{object}	types.EmptyTrashResponse
//	@Failure	400	{object}	map[string]string
//	@Failure	500	{object}	map[string]string
//	@Router		/api/v1/empty-trash [post]
func EmptyTrash(c *gin.Context) {
	l := log.Logger()

	owner, err := checkOwner(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	svc := service.NewFileService(c.Request.Context())

	affected, e := svc.EmptyTrash(c.Request.Context(), owner)
	if e != nil {
		l.Error().Err(e).Str("owner", owner).Msg("empty trash failed")
		abortWithError(c, e)

		return
	}

	c.JSON(http.StatusOK, types.EmptyTrashResponse{Affected: affected})
}
