package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/cloudspace/pkg/internal/service"
	"github.com/yeisme/cloudspace/pkg/internal/types"
	"github.com/yeisme/cloudspace/pkg/log"
)

// UploadURL 签发预签名上传链接.
//
//	@Summary	申请上传链接
//	@Tags		文件
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.UploadURLRequest	true	"文件名与可选元数据"
//	@Success	200		{object}	types.UploadURLResponse
//	@Failure	400		{object}	map[string]string
//	@Failure	403		{object}	map[string]string
//	@Failure	500		{object}	map[string]string
//	@Router		/api/v1/upload-url [post]
func UploadURL(c *gin.Context) {
	l := log.Logger()

	owner, err := checkOwner(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	var req types.UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := service.NewFileService(c.Request.Context())

	resp, e := svc.CreateUploadURL(c.Request.Context(), owner, &req)
	if e != nil {
		l.Error().Err(e).Str("owner", owner).Msg("create upload url failed")
		abortWithError(c, e)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// ConfirmUpload 确认上传完成，激活文件.
//
//	@Summary	确认上传
//	@Tags		文件
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.ConfirmUploadRequest	true	"文件标识"
//	@Success	200		{object}	types.ConfirmUploadResponse
//	@Failure	400		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Failure	409		{object}	map[string]string
//	@Router		/api/v1/confirm-upload [post]
func ConfirmUpload(c *gin.Context) {
	l := log.Logger()

	owner, err := checkOwner(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	var req types.ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := service.NewFileService(c.Request.Context())

	resp, e := svc.ConfirmUpload(c.Request.Context(), owner, req.FileID)
	if e != nil {
		l.Error().Err(e).Str("owner", owner).Str("file_id", req.FileID).Msg("confirm upload failed")
		abortWithError(c, e)

		return
	}

	c.JSON(http.StatusOK, resp)
}
