package model_test

import (
	"testing"
	"time"

	"github.com/yeisme/dropvault/pkg/internal/model"
)

// TestExpired 测试过期判断.
func TestExpired(t *testing.T) {
	now := time.Now().UTC()

	record := model.UploadRecord{ExpiresAt: now.Add(time.Minute)}
	if record.Expired(now) {
		t.Error("record expiring in one minute should not be expired")
	}

	record.ExpiresAt = now.Add(-time.Second)
	if !record.Expired(now) {
		t.Error("record past its expiry should be expired")
	}

	// 边界：恰好等于过期时间，不算过期
	record.ExpiresAt = now
	if record.Expired(now) {
		t.Error("record exactly at its expiry should not be expired yet")
	}
}

// TestConsistent 测试必要字段完整性判断.
func TestConsistent(t *testing.T) {
	valid := model.UploadRecord{
		ContentHash: "abc",
		FileName:    "a.txt",
		SizeBytes:   10,
	}
	if !valid.Consistent() {
		t.Error("record with all essential fields should be consistent")
	}

	cases := []struct {
		name   string
		record model.UploadRecord
	}{
		{"missing hash", model.UploadRecord{FileName: "a.txt", SizeBytes: 10}},
		{"missing file name", model.UploadRecord{ContentHash: "abc", SizeBytes: 10}},
		{"zero size", model.UploadRecord{ContentHash: "abc", FileName: "a.txt"}},
	}

	for _, tc := range cases {
		if tc.record.Consistent() {
			t.Errorf("%s: expected inconsistent", tc.name)
		}
	}
}
