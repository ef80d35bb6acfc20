package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/cloudspace/pkg/internal/service"
	"github.com/yeisme/cloudspace/pkg/internal/types"
	"github.com/yeisme/cloudspace/pkg/log"
)

// ListFiles 文件列表.trash=true 返回回收站，recent=true 按更新时间倒序.
//
//	@Summary	文件列表
//	@Tags		文件
//	@Produce	json
//	@Param		trash	query		bool	false	"列出回收站"
//	@Param		recent	query		bool	false	"按更新时间倒序"
//	@Param		folder	query		string	false	"限定文件夹"
//	@Param		page	query		int		false	"页码(0 不分页)"
//	@Param		size	query		int		false	"每页条数"
//	@Success	200		{object}	types.ListFilesResponse
//	@Failure	400		{object}	map[string]string
//	@Failure	500		{object}	map[string]string
//	@Router		/api/v1/files [get]
func ListFiles(c *gin.Context) {
	l := log.Logger()

	owner, err := checkOwner(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	var req types.ListFilesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := service.NewFileService(c.Request.Context())

	resp, e := svc.List(c.Request.Context(), owner, &req)
	if e != nil {
		l.Error().Err(e).Str("owner", owner).Msg("list files failed")
		abortWithError(c, e)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// DownloadURL 签发预签名下载链接.
//
//	@Summary	申请下载链接
//	@Tags		文件
//	@Produce	json
//	@Param		fileId	query		string	true	"文件标识"
//	@Success	200		{object}	types.DownloadURLResponse
//	@Failure	400		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Router		/api/v1/download-url [get]
func DownloadURL(c *gin.Context) {
	l := log.Logger()

	owner, err := checkOwner(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	var req types.DownloadURLRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := service.NewFileService(c.Request.Context())

	resp, e := svc.DownloadURL(c.Request.Context(), owner, req.FileID)
	if e != nil {
		l.Error().Err(e).Str("owner", owner).Str("file_id", req.FileID).Msg("download url failed")
		abortWithError(c, e)

		return
	}

	c.JSON(http.StatusOK, resp)
}
