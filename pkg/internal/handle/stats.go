package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/cloudspace/pkg/internal/service"
	"github.com/yeisme/cloudspace/pkg/log"
)

// StorageUsage 当前用户存储用量.
//
//	@Summary	存储用量
//	@Tags		统计
//	@Produce	json
//	@Success	200	{object}	types.StorageUsageResponse
//	@Failure	400	{object}	map[string]string
//	@Failure	500	{object}	map[string]string
//	@Router		/api/v1/storage-usage [get]
func StorageUsage(c *gin.Context) {
	l := log.Logger()

	owner, err := checkOwner(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	svc := service.NewFileService(c.Request.Context())

	resp, e := svc.Usage(c.Request.Context(), owner)
	if e != nil {
		l.Error().Err(e).Str("owner", owner).Msg("storage usage failed")
		abortWithError(c, e)

		return
	}

	c.JSON(http.StatusOK, resp)
}
