package handles_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wildcms/config"
	"wildcms/middleware"
	"wildcms/models"
	"wildcms/routes"
)

const (
	testUserA = "11111111-1111-1111-1111-111111111111"
	testUserB = "22222222-2222-2222-2222-222222222222"
)

// setupTestServer 内存sqlite + 完整路由
func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	config.AppConfig = &config.Config{
		ServerPort:    "8080",
		DBDriver:      "sqlite",
		UploadDir:     t.TempDir(),
		MaxUploadSize: 10 << 20,
		JWTSecret:     "test_secret",
		AdminUsername: "admin",
		AdminPassword: "admin123",
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.VideoSeries{},
		&models.SeriesVideo{},
		&models.VideoChannel{},
		&models.GeneralKnowledgeVideo{},
		&models.VideoTag{},
		&models.VideoLike{},
		&models.VideoComment{},
		&models.VideoCommentLike{},
		&models.VideoWatchProgress{},
		&models.TVPlaylistItem{},
		&models.Discussion{},
		&models.DiscussionComment{},
		&models.DiscussionCommentLike{},
	)
	if err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	config.DB = db

	gin.SetMode(gin.TestMode)
	router := gin.New()
	routes.SetupRoutes(router)
	return router
}

// doJSON 发送JSON请求，headers为可选的附加请求头
func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("编码请求体失败: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// adminHeaders 携带管理员JWT的请求头
func adminHeaders(t *testing.T) map[string]string {
	t.Helper()
	token, err := middleware.IssueAdminToken("admin")
	if err != nil {
		t.Fatalf("签发token失败: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// userHeaders 携带用户标识的请求头
func userHeaders(userID string) map[string]string {
	return map[string]string{"X-User-ID": userID}
}

// decodeBody 解析响应体
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应失败: %v (body=%s)", err, w.Body.String())
	}
	return body
}

// createSeries 通过管理API创建系列，返回首个单集slug
func createSeries(t *testing.T, router *gin.Engine, title, videoSlug string) string {
	t.Helper()
	w := doJSON(t, router, "POST", "/api/admin/series", gin.H{
		"title": title,
		"videos": []gin.H{
			{
				"title":     title + " 第1集",
				"slug":      videoSlug,
				"video_url": "/uploads/videos/" + videoSlug + ".mp4",
				"duration":  600,
				"position":  1,
			},
		},
	}, adminHeaders(t))
	if w.Code != http.StatusOK {
		t.Fatalf("创建系列失败: %d %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	return data["id"].(string)
}
