package types

// FileInfo 列表中的单个文件项.
type FileInfo struct {
	ID          string `json:"id"`
	Hash        string `json:"hash"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size"`
	SizeHuman   string `json:"size_human"`
	CreatedAt   string `json:"created_at"`
	ExpiresAt   string `json:"expires_at"`
	DownloadURL string `json:"download_url"`
}

// ListFilesResponse 文件列表响应.
type ListFilesResponse struct {
	Files []FileInfo `json:"files"`
	Total int        `json:"total"`
}

// DeleteFileResponse 删除响应.
type DeleteFileResponse struct {
	Hash    string `json:"hash"`
	Deleted bool   `json:"deleted"`
}

// SweepReport 单次清理任务的结果统计.
type SweepReport struct {
	Scanned int `json:"scanned"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}
