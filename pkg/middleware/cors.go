package middleware

import (
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/cloudspace/pkg/configs"
)

// CORSMiddleware CORS中间件.允许的来源、方法与请求头统一由
// ServerConfig 提供，各 handler 不再各自设置跨域响应头.
func CORSMiddleware(cfg configs.ServerConfig) gin.HandlerFunc {
	config := cors.DefaultConfig()

	if cfg.Debug || slices.Contains(cfg.AllowedOrigins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = cfg.AllowedOrigins
	}

	if len(cfg.AllowedMethods) > 0 {
		config.AllowMethods = cfg.AllowedMethods
	}

	if len(cfg.AllowedHeaders) > 0 {
		config.AllowHeaders = cfg.AllowedHeaders
	}

	config.AllowWebSockets = true
	config.AllowFiles = true

	return cors.New(config)
}
