package handle

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/dropvault/pkg/internal/service"
	"github.com/yeisme/dropvault/pkg/log"
	"github.com/yeisme/dropvault/pkg/metrics"
)

// UploadFile 处理 multipart 文件上传.
//
//	@Summary		上传文件
//	@Description	接收 multipart 文件流，按内容 sha256 存储，返回检索句柄
//	@Tags			文件上传
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file				formData	file					true	"文件内容"
//	@Param			expire_in_minutes	formData	int						false	"保留时间（分钟），-1 表示无限"
//	@Success		200					{object}	types.UploadResponse	"上传结果"
//	@Failure		400					{object}	map[string]string		"请求参数错误或空文件"
//	@Failure		500					{object}	map[string]string		"服务器内部错误"
//	@Router			/upload/ [post]
func UploadFile(c *gin.Context) {
	l := log.Logger()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		l.Warn().Err(err).Msg("missing file field")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})

		return
	}

	retention := 0

	v := c.PostForm("expire_in_minutes")
	if v == "" {
		v = c.Query("expire_in_minutes")
	}

	if v != "" {
		retention, err = strconv.Atoi(v)
		if err != nil {
			l.Warn().Str("value", v).Msg("invalid expire_in_minutes, using default")

			retention = 0
		}
	}

	f, err := fileHeader.Open()
	if err != nil {
		l.Error().Err(err).Msg("failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	defer func() { _ = f.Close() }()

	svc := service.NewFileService(c.Request.Context())

	resp, err := svc.Ingest(c.Request.Context(), f, &service.IngestRequest{
		FileName:         fileHeader.Filename,
		ContentType:      fileHeader.Header.Get("Content-Type"),
		RetentionMinutes: retention,
		UploaderHint:     service.UploaderHint(c.ClientIP()),
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyUpload) {
			l.Warn().Str("file", fileHeader.Filename).Msg("empty upload rejected")
			c.JSON(http.StatusBadRequest, gin.H{"error": "empty file"})

			return
		}

		l.Error().Err(err).Str("file", fileHeader.Filename).Msg("ingest failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	metrics.UploadsTotal.WithLabelValues(strconv.FormatBool(resp.Duplicate)).Inc()

	c.JSON(http.StatusOK, resp)
}
