package handle

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/dropvault/pkg/internal/service"
	"github.com/yeisme/dropvault/pkg/log"
)

// Thumbnail 返回按需生成的缩略图.
//
//	@Summary		获取缩略图
//	@Description	按 (hash, width, height) 返回缩略图，磁盘缓存，维度上限 500
//	@Tags			缩略图
//	@Produce		image/jpeg
//	@Param			hash	path		string				true	"内容 sha256"
//	@Param			width	query		int					false	"目标宽度"
//	@Param			height	query		int					false	"目标高度"
//	@Success		200		{file}		file				"缩略图"
//	@Failure		400		{object}	map[string]string	"非图片或参数错误"
//	@Failure		404		{object}	map[string]string	"文件不存在或已过期"
//	@Failure		500		{object}	map[string]string	"服务器内部错误"
//	@Router			/thumbnail/{hash} [get]
func Thumbnail(c *gin.Context) {
	l := log.Logger()

	hash, err := hashParam(c)
	if err != nil {
		l.Warn().Err(err).Msg("invalid hash parameter")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hash"})

		return
	}

	// 非法维度值交给服务层按默认/上限处理
	width, _ := strconv.Atoi(c.Query("width"))
	height, _ := strconv.Atoi(c.Query("height"))

	svc := service.NewFileService(c.Request.Context())

	result, err := svc.Thumbnail(c.Request.Context(), hash, width, height)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		case errors.Is(err, service.ErrNotImage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "not an image"})
		default:
			l.Error().Err(err).Str("hash", hash).Msg("thumbnail failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}

		return
	}

	etag := `"` + result.ETag + `"`

	c.Header("Cache-Control", "public, max-age=3600")
	c.Header("ETag", etag)

	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)

		return
	}

	c.Data(http.StatusOK, result.ContentType, result.Data)
}
