package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/cloudspace/pkg/internal/service"
	"github.com/yeisme/cloudspace/pkg/internal/types"
	"github.com/yeisme/cloudspace/pkg/log"
)

// CreateFolder 创建文件夹.
//
//	@Summary	创建文件夹
//	@Tags		文件
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.CreateFolderRequest	true	"文件夹路径"
//	@Success	200		{object}	types.CreateFolderResponse
//	@Failure	400		{object}	map[string]string
//	@Router		/api/v1/create-folder [post]
func CreateFolder(c *gin.Context) {
	l := log.Logger()

	owner, err := checkOwner(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	var req types.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := service.NewFileService(c.Request.Context())

	resp, e := svc.CreateFolder(c.Request.Context(), owner, req.Path)
	if e != nil {
		l.Error().Err(e).Str("owner", owner).Str("path", req.Path).Msg("create folder failed")
		abortWithError(c, e)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// RenameFile 重命名文件.
//
//	@Summary	重命名文件
//	@Tags		文件
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.RenameFileRequest	true	"文件标识与新名称"
//	@Success	200		{object}	types.FileDisplay
//	@Failure	400		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Router		/api/v1/rename-file [post]
func RenameFile(c *gin.Context) {
	l := log.Logger()

	owner, err := checkOwner(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	var req types.RenameFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := service.NewFileService(c.Request.Context())

	resp, e := svc.Rename(c.Request.Context(), owner, req.FileID, req.NewName)
	if e != nil {
		l.Error().Err(e).Str("owner", owner).Str("file_id", req.FileID).Msg("rename failed")
		abortWithError(c, e)

		return
	}

	c.JSON(http.StatusOK, resp)
}
