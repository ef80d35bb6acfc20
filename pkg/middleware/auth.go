package middleware

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/cloudspace/pkg/configs"
)

const principalKey = "principal"

// AuthMiddleware 统一身份认证校验，解析出的主体写入 gin.Context.
//   - 优先取 oauth2-proxy 注入的 X-Auth-Request-Email / X-Forwarded-Email
//   - 其次解析 Bearer token 的 sub 声明（不校验签名，签名由前置网关负责）
//   - 支持通过配置跳过某些路径（如 /metrics, /api/v1/health）
//   - 开发模式可允许 query user 兜底（由 configs.auth.dev_allow_query 控制）.
func AuthMiddleware(conf configs.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !conf.Enabled || isSkippedPath(c.Request.URL.Path, conf.SkipPaths) {
			c.Next()
			return
		}

		principal := strings.TrimSpace(c.GetHeader("X-Auth-Request-Email"))
		if principal == "" {
			principal = strings.TrimSpace(c.GetHeader("X-Forwarded-Email"))
		}

		if principal == "" {
			principal = subjectFromBearer(c.GetHeader("Authorization"))
		}

		if principal == "" {
			if conf.DevAllowQuery && c.Query("user") != "" {
				c.Set(principalKey, c.Query("user"))
				c.Next()

				return
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})

			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// GetPrincipal 返回认证中间件解析出的主体，未认证时为空串.
func GetPrincipal(c *gin.Context) string {
	return c.GetString(principalKey)
}

// subjectFromBearer 解出 JWT payload 中的 sub.签名校验在网关完成，
// 这里只做声明提取.
func subjectFromBearer(header string) string {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ""
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return ""
	}

	var claims struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
	}

	if err := sonic.Unmarshal(payload, &claims); err != nil {
		return ""
	}

	if claims.Email != "" {
		return claims.Email
	}

	return claims.Sub
}

func isSkippedPath(path string, skips []string) bool {
	if path == "" || len(skips) == 0 {
		return false
	}

	for _, p := range skips {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
