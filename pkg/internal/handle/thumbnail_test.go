package handle

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeisme/dropvault/pkg/configs"
	ctxPkg "github.com/yeisme/dropvault/pkg/context"
	"github.com/yeisme/dropvault/pkg/internal/model"
	"github.com/yeisme/dropvault/pkg/internal/service"
	"github.com/yeisme/dropvault/pkg/internal/storage"
	"github.com/yeisme/dropvault/pkg/internal/storage/blob"
	"github.com/yeisme/dropvault/pkg/internal/storage/db"
	"github.com/yeisme/dropvault/pkg/middleware"
)

// newThumbnailRouter 构造带存储注入的路由，预先摄取一张 PNG，返回
// 路由与其内容哈希.
func newThumbnailRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	if err := configs.InitConfig(t.TempDir()); err != nil {
		t.Fatalf("init config: %v", err)
	}

	configs.GetConfig().Blob.StagingDir = t.TempDir()
	configs.GetConfig().Thumbnail.CacheDir = t.TempDir()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := gdb.AutoMigrate(&model.UploadRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store, err := blob.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("create fs store: %v", err)
	}

	mgr := &storage.Manager{Blob: store, DB: &db.Client{DB: gdb}}

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := range 64 {
		for x := range 64 {
			img.Set(x, y, color.RGBA{R: 10, G: 120, B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	ctx := ctxPkg.WithStorageManager(context.Background(), mgr)
	svc := service.NewFileService(ctx)

	resp, err := svc.Ingest(ctx, bytes.NewReader(buf.Bytes()), &service.IngestRequest{
		FileName:         "seed.png",
		ContentType:      "image/png",
		RetentionMinutes: 60,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	e := gin.New()
	e.Use(middleware.StorageMiddleware(mgr))
	e.GET("/thumbnail/:hash", Thumbnail)

	return e, resp.Hash
}

// TestThumbnailConditionalRequest 测试 If-None-Match 命中 ETag 时
// 返回 304 且不带响应体.
func TestThumbnailConditionalRequest(t *testing.T) {
	e, hash := newThumbnailRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/thumbnail/"+hash+"?width=32&height=32", nil)
	e.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("first request: got %d, want %d", w.Code, http.StatusOK)
	}

	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag header")
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/thumbnail/"+hash+"?width=32&height=32", nil)
	req2.Header.Set("If-None-Match", etag)
	e.ServeHTTP(w2, req2)

	if w2.Code != http.StatusNotModified {
		t.Errorf("conditional request: got %d, want %d", w2.Code, http.StatusNotModified)
	}

	if w2.Body.Len() != 0 {
		t.Errorf("304 response must carry no body, got %d bytes", w2.Body.Len())
	}

	// 标签不匹配时正常返回内容
	w3 := httptest.NewRecorder()
	req3 := httptest.NewRequest(http.MethodGet, "/thumbnail/"+hash+"?width=32&height=32", nil)
	req3.Header.Set("If-None-Match", `"stale"`)
	e.ServeHTTP(w3, req3)

	if w3.Code != http.StatusOK {
		t.Errorf("mismatched etag: got %d, want %d", w3.Code, http.StatusOK)
	}

	if w3.Body.Len() == 0 {
		t.Error("mismatched etag should return the thumbnail body")
	}
}
