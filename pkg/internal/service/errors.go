package service

import "errors"

var (
	// ErrNotFound 记录不存在、已过期被清除或 blob 缺失.
	ErrNotFound = errors.New("file not found")

	// ErrEmptyUpload 上传内容为空.
	ErrEmptyUpload = errors.New("empty upload")

	// ErrNotImage 请求缩略图的源文件不是图片.
	ErrNotImage = errors.New("source is not an image")
)
