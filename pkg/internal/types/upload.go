// Package types 定义 HTTP 层的请求与响应结构.
package types

// UploadResponse 单个文件上传响应.
type UploadResponse struct {
	ID          string `json:"id"`
	Hash        string `json:"hash"`          // 内容 sha256，检索句柄
	MD5         string `json:"md5,omitempty"` // 辅助摘要
	SHA1        string `json:"sha1,omitempty"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size"`
	SizeHuman   string `json:"size_human"` // 人类可读大小
	ExpiresAt   string `json:"expires_at"` // RFC3339 UTC
	DownloadURL string `json:"download_url"`
	Duplicate   bool   `json:"duplicate,omitempty"` // 内容已存在，复用既有记录
}
