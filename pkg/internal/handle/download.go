package handle

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/dropvault/pkg/internal/service"
	"github.com/yeisme/dropvault/pkg/log"
	"github.com/yeisme/dropvault/pkg/metrics"
)

// DownloadFile 按内容哈希下载文件.
//
//	@Summary		下载文件
//	@Description	按 sha256 句柄流式返回文件内容；过期或缺失返回 404
//	@Tags			文件下载
//	@Produce		application/octet-stream
//	@Param			hash	path		string				true	"内容 sha256"
//	@Success		200		{file}		file				"文件流"
//	@Failure		400		{object}	map[string]string	"哈希格式错误"
//	@Failure		404		{object}	map[string]string	"文件不存在或已过期"
//	@Failure		500		{object}	map[string]string	"服务器内部错误"
//	@Router			/download/{hash} [get]
func DownloadFile(c *gin.Context) {
	l := log.Logger()

	hash, err := hashParam(c)
	if err != nil {
		l.Warn().Err(err).Msg("invalid hash parameter")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hash"})

		return
	}

	svc := service.NewFileService(c.Request.Context())

	record, rc, err := svc.Fetch(c.Request.Context(), hash)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})

			return
		}

		l.Error().Err(err).Str("hash", hash).Msg("fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	defer func() { _ = rc.Close() }()

	contentType := record.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Length", strconv.FormatInt(record.SizeBytes, 10))
	c.Header("Cache-Control", "no-cache")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(record.FileName))

	if _, err := io.Copy(c.Writer, rc); err != nil {
		// 此时响应头已写出，只能记日志
		l.Warn().Err(err).Str("hash", hash).Msg("download stream interrupted")

		return
	}

	metrics.DownloadsTotal.Inc()
}
