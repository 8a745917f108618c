// Package router 管理路由配置，用于设置HTTP服务的路由规则.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/dropvault/pkg/internal/handle"
)

// RegisterFileRoutes 注册文件上传/下载/删除/缩略图路由.
//
// 绑定的路径：
//
//	POST   /upload/           -> 上传文件
//	GET    /download/:hash    -> 下载文件
//	DELETE /files/:hash       -> 删除文件
//	GET    /thumbnail/:hash   -> 缩略图
func RegisterFileRoutes(g *gin.RouterGroup) {
	g.POST("/upload/", handle.UploadFile)
	g.GET("/download/:hash", handle.DownloadFile)
	g.DELETE("/files/:hash", handle.DeleteFile)
	g.GET("/thumbnail/:hash", handle.Thumbnail)
}
