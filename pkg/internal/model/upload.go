// Package model 定义元数据存储的数据模型.
package model

import (
	"time"
)

// UploadRecord 上传记录，每个存储的文件对应一条.
//
// ID 是插入时分配的 ULID，作为行键使用；ContentHash 是字节内容的
// sha256，作为 Blob 存储键，全表唯一.记录与 blob 各自独立持久化，
// 两者之间没有跨存储事务，一致性由读取路径和后台清理维护.
type UploadRecord struct {
	ID string `gorm:"primaryKey;size:26" json:"id"`
	// 内容的 sha256 十六进制摘要，同时是 Blob 存储键
	ContentHash string `gorm:"size:64;uniqueIndex" json:"content_hash"`
	// 辅助摘要，仅供展示与校验，无唯一性约束
	MD5  string `gorm:"size:32" json:"md5"`
	SHA1 string `gorm:"size:40" json:"sha1"`

	FileName    string `gorm:"size:512"  json:"file_name"`
	ContentType string `gorm:"size:255"  json:"content_type"`
	SizeBytes   int64  `gorm:"index"     json:"size_bytes"`
	// 上传方的粗粒度标识（截断的客户端地址），仅供展示
	UploaderHint string `gorm:"size:64" json:"uploader_hint"`
	// 请求的保留时间（分钟），-1 表示无限
	RetentionMinutes int `json:"retention_minutes"`

	// 统一使用 UTC；ExpiresAt 恒大于 CreatedAt，“无限”以远期有限时间表示
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}

// Expired 判断记录在 now 时刻是否已过期.
func (r *UploadRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Consistent 判断记录的必要字段是否完整.blob 是否存在需要调用方
// 结合 Blob 存储判断.
func (r *UploadRecord) Consistent() bool {
	return r.ContentHash != "" && r.FileName != "" && r.SizeBytes > 0
}
