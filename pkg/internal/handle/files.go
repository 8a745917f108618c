package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/dropvault/pkg/internal/service"
	"github.com/yeisme/dropvault/pkg/internal/types"
	"github.com/yeisme/dropvault/pkg/log"
)

// ListFiles 列出所有一致的文件记录.
//
//	@Summary		列出文件
//	@Description	返回 blob 存在且字段完整的记录；不一致记录在枚举中被清除
//	@Tags			文件管理
//	@Produce		json
//	@Success		200	{object}	types.ListFilesResponse	"文件列表"
//	@Failure		500	{object}	map[string]string		"服务器内部错误"
//	@Router			/api/files/ [get]
func ListFiles(c *gin.Context) {
	l := log.Logger()

	svc := service.NewFileService(c.Request.Context())

	resp, err := svc.List(c.Request.Context())
	if err != nil {
		l.Error().Err(err).Msg("list files failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteFile 按内容哈希删除文件.
//
//	@Summary		删除文件
//	@Description	删除 blob 与元数据记录；blob 删除失败时记录保留并返回 500
//	@Tags			文件管理
//	@Produce		json
//	@Param			hash	path		string						true	"内容 sha256"
//	@Success		200		{object}	types.DeleteFileResponse	"删除结果"
//	@Failure		400		{object}	map[string]string			"哈希格式错误"
//	@Failure		404		{object}	map[string]string			"文件不存在"
//	@Failure		500		{object}	map[string]string			"服务器内部错误"
//	@Router			/files/{hash} [delete]
func DeleteFile(c *gin.Context) {
	l := log.Logger()

	hash, err := hashParam(c)
	if err != nil {
		l.Warn().Err(err).Msg("invalid hash parameter")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hash"})

		return
	}

	svc := service.NewFileService(c.Request.Context())

	if err := svc.Delete(c.Request.Context(), hash); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})

			return
		}

		l.Error().Err(err).Str("hash", hash).Msg("delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, types.DeleteFileResponse{Hash: hash, Deleted: true})
}
