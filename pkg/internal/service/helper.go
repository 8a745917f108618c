package service

import (
	"net"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/yeisme/dropvault/pkg/internal/model"
	"github.com/yeisme/dropvault/pkg/internal/types"
)

const (
	// ingestChunkSize 摄取流的分块大小，整个流程内存占用与之同阶.
	ingestChunkSize = 8 << 20 // 8 MiB
)

// mimeExtensions 已知内容类型到扩展名的静态映射，仅用于
// 列表时的文件名修补，不作为正确性依据.
var mimeExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"application/pdf": ".pdf",
	"text/plain":      ".txt",
}

// imageExtensions 视为图片的扩展名集合，仅含可解码的格式.
var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".bmp":  {},
	".tif":  {},
	".tiff": {},
}

// isImageSource 按扩展名或声明的内容类型判断记录是否为图片.
func isImageSource(r *model.UploadRecord) bool {
	ext := strings.ToLower(path.Ext(r.FileName))
	if _, ok := imageExtensions[ext]; ok {
		return true
	}

	return strings.HasPrefix(r.ContentType, "image/")
}

// repairedFileName 返回修补后的文件名：缺少扩展名且内容类型已知时
// 补全扩展名，否则原样返回.
func repairedFileName(r *model.UploadRecord) string {
	if path.Ext(r.FileName) != "" {
		return r.FileName
	}

	if ext, ok := mimeExtensions[r.ContentType]; ok {
		return r.FileName + ext
	}

	return r.FileName
}

// UploaderHint 将客户端地址截断为前两段，只保留粗粒度来源信息.
func UploaderHint(remoteAddr string) string {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}

	parts := strings.Split(host, ".")
	if len(parts) == 4 {
		return parts[0] + "." + parts[1] + ".*.*"
	}

	// IPv6 或其他形式不截断
	return host
}

// downloadURL 构造检索句柄对应的下载路径.
func downloadURL(hash string) string {
	return "/download/" + hash
}

// recordToInfo 将记录转换为列表项.
func recordToInfo(r *model.UploadRecord) types.FileInfo {
	return types.FileInfo{
		ID:          r.ID,
		Hash:        r.ContentHash,
		FileName:    r.FileName,
		ContentType: r.ContentType,
		Size:        r.SizeBytes,
		SizeHuman:   humanize.Bytes(uint64(r.SizeBytes)),
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
		ExpiresAt:   r.ExpiresAt.UTC().Format(time.RFC3339),
		DownloadURL: downloadURL(r.ContentHash),
	}
}
