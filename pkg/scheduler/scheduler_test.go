package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/yeisme/dropvault/pkg/scheduler"
)

// TestAddInterval 测试间隔任务注册与状态查询.
func TestAddInterval(t *testing.T) {
	s, err := scheduler.NewScheduler()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	defer func() { _ = s.Stop() }()

	job := func(ctx context.Context) {}

	if err := s.AddInterval("test.sweep", time.Minute, job, context.Background()); err != nil {
		t.Fatalf("add interval: %v", err)
	}

	// 重名注册应失败
	if err := s.AddInterval("test.sweep", time.Minute, job, context.Background()); err == nil {
		t.Error("duplicate job name should be rejected")
	}

	info, err := s.GetJobInfoByName("test.sweep")
	if err != nil {
		t.Fatalf("get job info: %v", err)
	}

	if info.Status != scheduler.StatusScheduled {
		t.Errorf("status: got %s, want %s", info.Status, scheduler.StatusScheduled)
	}

	if err := s.RemoveJobByName("test.sweep"); err != nil {
		t.Errorf("remove job: %v", err)
	}

	if _, err := s.GetJobInfoByName("test.sweep"); err == nil {
		t.Error("job info should be gone after removal")
	}
}
