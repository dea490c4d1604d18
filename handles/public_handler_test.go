package handles_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"wildcms/config"
	"wildcms/models"
)

func TestGetVideos_VisibilityAndProgress(t *testing.T) {
	router := setupTestServer(t)
	db := config.GetDB()

	seriesID := createSeries(t, router, "草原系列", "plains-ep1")

	// 未来定时发布的单集不可见
	future := time.Now().Add(48 * time.Hour)
	scheduled := models.SeriesVideo{
		SeriesID:    seriesID,
		Title:       "未来单集",
		Slug:        "plains-ep2",
		VideoURL:    "/uploads/videos/plains-ep2.mp4",
		Position:    2,
		PublishDate: &future,
	}
	if err := db.Create(&scheduled).Error; err != nil {
		t.Fatalf("创建单集失败: %v", err)
	}

	// 用户A有观看进度
	w := doJSON(t, router, "POST", "/api/videos/plains-ep1/progress", gin.H{
		"current_time": 300.0,
		"duration":     600.0,
	}, userHeaders(testUserA))
	if w.Code != http.StatusOK {
		t.Fatalf("保存进度失败: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, "GET", "/api/videos", nil, userHeaders(testUserA))
	if w.Code != http.StatusOK {
		t.Fatalf("获取列表失败: %d %s", w.Code, w.Body.String())
	}
	data := decodeBody(t, w)["data"].(map[string]interface{})
	videos := data["videos"].([]interface{})
	if len(videos) != 1 {
		t.Fatalf("可见视频数 = %d, want 1", len(videos))
	}
	item := videos[0].(map[string]interface{})
	if item["slug"] != "plains-ep1" {
		t.Errorf("slug = %v", item["slug"])
	}
	if item["progress_percentage"].(float64) != 50 {
		t.Errorf("progress_percentage = %v, want 50", item["progress_percentage"])
	}

	// 游客看不到进度
	w = doJSON(t, router, "GET", "/api/videos", nil, nil)
	data = decodeBody(t, w)["data"].(map[string]interface{})
	item = data["videos"].([]interface{})[0].(map[string]interface{})
	if item["progress_percentage"].(float64) != 0 {
		t.Errorf("游客progress_percentage = %v, want 0", item["progress_percentage"])
	}
}

func TestGetVideos_SearchAndCategory(t *testing.T) {
	router := setupTestServer(t)
	db := config.GetDB()

	seriesID := createSeries(t, router, "狮子系列", "lions-ep1")
	var video models.SeriesVideo
	db.Where("series_id = ?", seriesID).First(&video)
	db.Model(&video).Update("tags", `["lions"]`)

	createSeries(t, router, "企鹅系列", "penguins-ep1")

	// 标题搜索
	w := doJSON(t, router, "GET", "/api/videos?search=狮子", nil, nil)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	if int(data["total"].(float64)) != 1 {
		t.Errorf("搜索结果数 = %v, want 1", data["total"])
	}

	// 标签分类过滤（忽略大小写）
	w = doJSON(t, router, "GET", "/api/videos?category=Lions", nil, nil)
	data = decodeBody(t, w)["data"].(map[string]interface{})
	if int(data["total"].(float64)) != 1 {
		t.Errorf("分类结果数 = %v, want 1", data["total"])
	}

	// all不过滤
	w = doJSON(t, router, "GET", "/api/videos?category=all", nil, nil)
	data = decodeBody(t, w)["data"].(map[string]interface{})
	if int(data["total"].(float64)) != 2 {
		t.Errorf("all结果数 = %v, want 2", data["total"])
	}
}

func TestGetVideoBySlug(t *testing.T) {
	router := setupTestServer(t)

	createSeries(t, router, "迁徙系列", "migration-ep1")

	w := doJSON(t, router, "GET", "/api/videos/migration-ep1", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("获取详情失败: %d %s", w.Code, w.Body.String())
	}
	data := decodeBody(t, w)["data"].(map[string]interface{})
	video := data["video"].(map[string]interface{})
	if video["type"] != "series" {
		t.Errorf("type = %v, want series", video["type"])
	}
	seriesVideos := data["series_videos"].([]interface{})
	if len(seriesVideos) != 1 {
		t.Errorf("series_videos数 = %d, want 1", len(seriesVideos))
	}
	if seriesVideos[0].(map[string]interface{})["is_current"] != true {
		t.Error("当前单集应标记is_current")
	}

	w = doJSON(t, router, "GET", "/api/videos/no-such-slug", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("未知slug状态码 = %d, want 404", w.Code)
	}
}

func TestIncrementVideoView(t *testing.T) {
	router := setupTestServer(t)
	db := config.GetDB()

	seriesID := createSeries(t, router, "观看系列", "views-ep1")

	for i := 0; i < 3; i++ {
		w := doJSON(t, router, "POST", "/api/videos/views-ep1/view", nil, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("计数失败: %d %s", w.Code, w.Body.String())
		}
	}

	var video models.SeriesVideo
	db.Where("slug = ?", "views-ep1").First(&video)
	if video.Views != 3 {
		t.Errorf("views = %d, want 3", video.Views)
	}

	// 系列总播放量同步累加
	var series models.VideoSeries
	db.First(&series, "id = ?", seriesID)
	if series.TotalViews != 3 {
		t.Errorf("total_views = %d, want 3", series.TotalViews)
	}
}

func TestComments_ReplyCountAndSoftDelete(t *testing.T) {
	router := setupTestServer(t)
	db := config.GetDB()

	createSeries(t, router, "评论系列", "comments-ep1")

	// 顶层评论
	w := doJSON(t, router, "POST", "/api/videos/comments-ep1/comments", gin.H{
		"content": "精彩",
	}, userHeaders(testUserA))
	if w.Code != http.StatusOK {
		t.Fatalf("评论失败: %d %s", w.Code, w.Body.String())
	}
	comment := decodeBody(t, w)["data"].(map[string]interface{})["comment"].(map[string]interface{})
	parentID := comment["id"].(string)

	// 回复使replies_count+1
	w = doJSON(t, router, "POST", "/api/videos/comments-ep1/comments", gin.H{
		"content":   "同意",
		"parent_id": parentID,
	}, userHeaders(testUserB))
	if w.Code != http.StatusOK {
		t.Fatalf("回复失败: %d %s", w.Code, w.Body.String())
	}
	reply := decodeBody(t, w)["data"].(map[string]interface{})["comment"].(map[string]interface{})
	replyID := reply["id"].(string)

	var parent models.VideoComment
	db.First(&parent, "id = ?", parentID)
	if parent.RepliesCount != 1 {
		t.Fatalf("replies_count = %d, want 1", parent.RepliesCount)
	}

	// 管理员软删除回复：回复数不回减
	w = doJSON(t, router, "DELETE", "/api/admin/comments/"+replyID, nil, adminHeaders(t))
	if w.Code != http.StatusOK {
		t.Fatalf("删除失败: %d %s", w.Code, w.Body.String())
	}

	db.First(&parent, "id = ?", parentID)
	if parent.RepliesCount != 1 {
		t.Errorf("软删除后replies_count = %d, want 1（不回减）", parent.RepliesCount)
	}
	var deleted models.VideoComment
	db.First(&deleted, "id = ?", replyID)
	if deleted.IsDeleted != 1 {
		t.Error("回复应标记为已删除")
	}

	// 回复列表保留已删除占位，内容脱敏
	w = doJSON(t, router, "GET", "/api/comments/"+parentID+"/replies", nil, nil)
	replies := decodeBody(t, w)["data"].(map[string]interface{})["replies"].([]interface{})
	if len(replies) != 1 {
		t.Fatalf("回复数 = %d, want 1", len(replies))
	}
	shown := replies[0].(map[string]interface{})
	if shown["content"] == "同意" {
		t.Error("已删除回复的内容应脱敏")
	}
}

func TestEditComment_OwnerOnly(t *testing.T) {
	router := setupTestServer(t)

	createSeries(t, router, "编辑系列", "edit-ep1")

	w := doJSON(t, router, "POST", "/api/videos/edit-ep1/comments", gin.H{
		"content": "原始内容",
	}, userHeaders(testUserA))
	if w.Code != http.StatusOK {
		t.Fatalf("评论失败: %d %s", w.Code, w.Body.String())
	}
	comment := decodeBody(t, w)["data"].(map[string]interface{})["comment"].(map[string]interface{})
	commentID := comment["id"].(string)

	// 他人编辑被拒
	w = doJSON(t, router, "PATCH", "/api/comments/"+commentID, gin.H{
		"content": "篡改",
	}, userHeaders(testUserB))
	if w.Code != http.StatusForbidden {
		t.Errorf("他人编辑状态码 = %d, want 403", w.Code)
	}

	// 本人编辑成功并标记is_edited
	w = doJSON(t, router, "PATCH", "/api/comments/"+commentID, gin.H{
		"content": "修改后内容",
	}, userHeaders(testUserA))
	if w.Code != http.StatusOK {
		t.Fatalf("本人编辑失败: %d %s", w.Code, w.Body.String())
	}
	edited := decodeBody(t, w)["data"].(map[string]interface{})["comment"].(map[string]interface{})
	if edited["is_edited"] != true {
		t.Error("编辑后应标记is_edited")
	}
	if edited["content"] != "修改后内容" {
		t.Errorf("content = %v", edited["content"])
	}
}

func TestVideoLike_GuestRejected(t *testing.T) {
	router := setupTestServer(t)

	createSeries(t, router, "点赞系列", "likes-ep1")

	// 游客投票被拒
	w := doJSON(t, router, "POST", "/api/videos/likes-ep1/like", gin.H{"vote": 1}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("游客投票状态码 = %d, want 401", w.Code)
	}

	// 非法X-User-ID按游客处理
	w = doJSON(t, router, "POST", "/api/videos/likes-ep1/like", gin.H{"vote": 1},
		userHeaders("not-a-uuid"))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("非法用户ID状态码 = %d, want 401", w.Code)
	}

	// 正常用户投票
	w = doJSON(t, router, "POST", "/api/videos/likes-ep1/like", gin.H{"vote": 1},
		userHeaders(testUserA))
	if w.Code != http.StatusOK {
		t.Fatalf("投票失败: %d %s", w.Code, w.Body.String())
	}
	data := decodeBody(t, w)["data"].(map[string]interface{})
	if data["action"] != "added" {
		t.Errorf("action = %v, want added", data["action"])
	}
	if int(data["likes"].(float64)) != 1 {
		t.Errorf("likes = %v, want 1", data["likes"])
	}
}

func TestFeaturedSeries_Fallback(t *testing.T) {
	router := setupTestServer(t)

	// 无推荐时回退到最新发布系列
	createSeries(t, router, "唯一系列", "only-ep1")

	w := doJSON(t, router, "GET", "/api/videos/featured-series", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("获取推荐失败: %d %s", w.Code, w.Body.String())
	}
	data := decodeBody(t, w)["data"].(map[string]interface{})
	featured, ok := data["featured_series"].(map[string]interface{})
	if !ok {
		t.Fatalf("featured_series = %v", data["featured_series"])
	}
	if featured["title"] != "唯一系列" {
		t.Errorf("title = %v", featured["title"])
	}
	if featured["is_featured"] != false {
		t.Error("回退系列is_featured应为false")
	}
}

func TestCreateSeries_SlugDedup(t *testing.T) {
	router := setupTestServer(t)
	db := config.GetDB()

	createSeries(t, router, "重名系列", "dup-ep1")
	createSeries(t, router, "重名系列", "dup-ep2")

	var slugs []string
	db.Model(&models.VideoSeries{}).Order("created_at").Pluck("slug", &slugs)
	if len(slugs) != 2 {
		t.Fatalf("系列数 = %d, want 2", len(slugs))
	}
	if slugs[0] == slugs[1] {
		t.Errorf("slug未去重: %v", slugs)
	}
}

// 刚开始播放时current_time为0，时长未知时duration为0，两者都要能保存
func TestSaveWatchProgress_ZeroValues(t *testing.T) {
	router := setupTestServer(t)

	createSeries(t, router, "进度系列", "progress-ep1")

	w := doJSON(t, router, "POST", "/api/videos/progress-ep1/progress", gin.H{
		"current_time": 0,
		"duration":     600,
	}, userHeaders(testUserA))
	if w.Code != http.StatusOK {
		t.Fatalf("保存零进度失败: %d %s", w.Code, w.Body.String())
	}
	data := decodeBody(t, w)["data"].(map[string]interface{})
	if data["progress_percentage"].(float64) != 0 {
		t.Errorf("progress_percentage = %v, want 0", data["progress_percentage"])
	}

	// 时长未知
	w = doJSON(t, router, "POST", "/api/videos/progress-ep1/progress", gin.H{
		"current_time": 30,
		"duration":     0,
	}, userHeaders(testUserA))
	if w.Code != http.StatusOK {
		t.Fatalf("保存未知时长进度失败: %d %s", w.Code, w.Body.String())
	}

	// 负值拒绝
	w = doJSON(t, router, "POST", "/api/videos/progress-ep1/progress", gin.H{
		"current_time": -1,
		"duration":     600,
	}, userHeaders(testUserA))
	if w.Code != http.StatusBadRequest {
		t.Errorf("负进度状态码 = %d, want 400", w.Code)
	}
}

// 评论只有一层回复，回复的回复拒绝
func TestAddComment_SingleReplyLevel(t *testing.T) {
	router := setupTestServer(t)

	createSeries(t, router, "评论系列", "chat-ep1")

	w := doJSON(t, router, "POST", "/api/videos/chat-ep1/comments", gin.H{
		"content": "顶层评论",
	}, userHeaders(testUserA))
	if w.Code != http.StatusOK {
		t.Fatalf("发表评论失败: %d %s", w.Code, w.Body.String())
	}
	top := decodeBody(t, w)["data"].(map[string]interface{})["comment"].(map[string]interface{})
	topID := top["id"].(string)

	w = doJSON(t, router, "POST", "/api/videos/chat-ep1/comments", gin.H{
		"content":   "一层回复",
		"parent_id": topID,
	}, userHeaders(testUserB))
	if w.Code != http.StatusOK {
		t.Fatalf("回复失败: %d %s", w.Code, w.Body.String())
	}
	reply := decodeBody(t, w)["data"].(map[string]interface{})["comment"].(map[string]interface{})
	replyID := reply["id"].(string)

	w = doJSON(t, router, "POST", "/api/videos/chat-ep1/comments", gin.H{
		"content":   "回复的回复",
		"parent_id": replyID,
	}, userHeaders(testUserA))
	if w.Code != http.StatusBadRequest {
		t.Errorf("二层回复状态码 = %d, want 400", w.Code)
	}

	// 被拒的回复不计入父评论回复数
	var parent models.VideoComment
	config.GetDB().First(&parent, "id = ?", replyID)
	if parent.RepliesCount != 0 {
		t.Errorf("replies_count = %d, want 0", parent.RepliesCount)
	}
}
