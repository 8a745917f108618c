// Package api 将路由组装到 gin 引擎上.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/dropvault/pkg/internal/router"
)

// RegisterGroup 注册全部路由到传入的 gin 引擎.
func RegisterGroup(e *gin.Engine) *gin.Engine {
	// 根级文件路由：/upload /download /files /thumbnail
	router.RegisterFileRoutes(&e.RouterGroup)

	apiGroup := e.Group("/api")
	{
		router.RegisterFilesAPIRoutes(apiGroup)
		router.RegisterSchedulerRoutes(apiGroup)
	}

	router.RegisterHealthCheckRoute(&e.RouterGroup)

	return e
}
