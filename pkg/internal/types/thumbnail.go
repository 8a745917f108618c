package types

// ThumbnailResult 一次缩略图请求的产物.
type ThumbnailResult struct {
	Data        []byte `json:"-"`
	ContentType string `json:"content_type"`
	ETag        string `json:"etag"`
	FromCache   bool   `json:"from_cache"`
}
