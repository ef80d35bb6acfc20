// Package handle 提供 HTTP 请求处理器的实现.
package handle

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/cloudspace/pkg/internal/service"
	"github.com/yeisme/cloudspace/pkg/middleware"
	"github.com/yeisme/cloudspace/pkg/rule"
)

func DefaultHandler(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"message": "Not Implemented"})
}

// checkOwner 提取当前请求的文件归属者.
// 认证中间件注入的 principal 优先 -> X-User 头 -> 非 Release 模式下的测试默认值.
func checkOwner(c *gin.Context) (string, error) {
	owner := middleware.GetPrincipal(c)
	if owner == "" {
		owner = c.GetHeader("X-User")
	}

	if owner == "" && gin.Mode() != gin.ReleaseMode {
		owner = "test-user@example.com"
	}

	owner = strings.TrimSpace(owner)

	if err := rule.ValidateVar(owner, "required,email"); err != nil {
		return "", err
	}

	return owner, nil
}

// statusFromServiceError 把业务错误映射为 HTTP 状态码.
func statusFromServiceError(err error) int {
	switch {
	case errors.Is(err, service.ErrFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrQuotaExceeded):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotUploaded):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotTrashed),
		errors.Is(err, service.ErrInvalidName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFromServiceError(err), gin.H{"error": err.Error()})
}
