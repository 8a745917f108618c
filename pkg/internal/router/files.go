package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/dropvault/pkg/internal/handle"
)

// RegisterFilesAPIRoutes 注册文件管理 API 路由.
func RegisterFilesAPIRoutes(g *gin.RouterGroup) {
	filesRoutes := g.Group("/files")
	{
		// 文件列表，枚举时顺带清除不一致记录
		filesRoutes.GET("/", handle.ListFiles)
	}
}
