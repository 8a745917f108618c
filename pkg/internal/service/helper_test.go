package service

import (
	"testing"

	"github.com/yeisme/dropvault/pkg/internal/model"
)

// TestRepairedFileName 测试按内容类型修补缺失扩展名.
func TestRepairedFileName(t *testing.T) {
	cases := []struct {
		name        string
		fileName    string
		contentType string
		want        string
	}{
		{"has extension", "photo.jpg", "image/jpeg", "photo.jpg"},
		{"repair jpeg", "photo", "image/jpeg", "photo.jpg"},
		{"repair pdf", "doc", "application/pdf", "doc.pdf"},
		{"repair text", "notes", "text/plain", "notes.txt"},
		{"unknown type untouched", "blob", "application/x-custom", "blob"},
	}

	for _, tc := range cases {
		r := &model.UploadRecord{FileName: tc.fileName, ContentType: tc.contentType}
		if got := repairedFileName(r); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

// TestIsImageSource 测试图片判定：扩展名或内容类型命中即可.
func TestIsImageSource(t *testing.T) {
	cases := []struct {
		fileName    string
		contentType string
		want        bool
	}{
		{"cat.PNG", "", true},
		{"cat.jpeg", "application/octet-stream", true},
		{"cat", "image/gif", true},
		{"doc.pdf", "application/pdf", false},
		// 没有解码器的格式不按扩展名放行
		{"pic.webp", "application/octet-stream", false},
		{"noext", "", false},
	}

	for _, tc := range cases {
		r := &model.UploadRecord{FileName: tc.fileName, ContentType: tc.contentType}
		if got := isImageSource(r); got != tc.want {
			t.Errorf("%s/%s: got %v, want %v", tc.fileName, tc.contentType, got, tc.want)
		}
	}
}

// TestUploaderHint 测试客户端地址截断.
func TestUploaderHint(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"203.0.113.7:51234", "203.0.*.*"},
		{"203.0.113.7", "203.0.*.*"},
		{"[::1]:8080", "::1"},
		{"localhost", "localhost"},
	}

	for _, tc := range cases {
		if got := UploaderHint(tc.in); got != tc.want {
			t.Errorf("UploaderHint(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

// TestClampDim 测试缩略图维度钳制.
func TestClampDim(t *testing.T) {
	const maxDim = 500

	if got := clampDim(5000, maxDim); got != maxDim {
		t.Errorf("oversized dimension should clamp to %d, got %d", maxDim, got)
	}

	if got := clampDim(0, maxDim); got != 100 {
		t.Errorf("non-positive dimension should fall back to default, got %d", got)
	}

	if got := clampDim(320, maxDim); got != 320 {
		t.Errorf("in-range dimension should pass through, got %d", got)
	}
}
