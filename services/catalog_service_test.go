package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"wildcms/models"
)

func TestResolveVideo_SeriesFirst(t *testing.T) {
	db := newTestDB(t)

	// 两张表中存在相同slug时，系列视频表优先
	seedSeries(t, db, "shared-slug", nil)
	seedChannelVideo(t, db, "shared-slug", nil)

	resolved, err := ResolveVideo(db, "shared-slug")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if resolved.Type != VideoTypeSeries {
		t.Errorf("type = %q, want %q", resolved.Type, VideoTypeSeries)
	}
	if resolved.Series == nil || resolved.SeriesInfo == nil {
		t.Fatal("系列视频解析结果缺少系列信息")
	}
}

func TestResolveVideo_Channel(t *testing.T) {
	db := newTestDB(t)
	channel, _ := seedChannelVideo(t, db, "ostrich-facts", nil)

	resolved, err := ResolveVideo(db, "ostrich-facts")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if resolved.Type != VideoTypeChannel {
		t.Errorf("type = %q, want %q", resolved.Type, VideoTypeChannel)
	}
	if resolved.ChannelInfo == nil || resolved.ChannelInfo.ID != channel.ID {
		t.Error("频道信息解析不正确")
	}
}

func TestResolveVideo_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := ResolveVideo(db, "no-such-video")
	if err != gorm.ErrRecordNotFound {
		t.Errorf("err = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestVisibleSeriesVideos_PublishDate(t *testing.T) {
	db := newTestDB(t)
	series, _ := seedSeries(t, db, "visible-now", nil)

	// 未来定时发布的单集
	future := time.Now().Add(24 * time.Hour)
	scheduled := models.SeriesVideo{
		SeriesID:    series.ID,
		Title:       "未来单集",
		Slug:        "scheduled-later",
		VideoURL:    "/uploads/videos/later.mp4",
		Position:    2,
		PublishDate: &future,
	}
	if err := db.Create(&scheduled).Error; err != nil {
		t.Fatalf("创建单集失败: %v", err)
	}

	// 过去定时发布的单集
	past := time.Now().Add(-24 * time.Hour)
	published := models.SeriesVideo{
		SeriesID:    series.ID,
		Title:       "过去单集",
		Slug:        "published-earlier",
		VideoURL:    "/uploads/videos/earlier.mp4",
		Position:    3,
		PublishDate: &past,
	}
	if err := db.Create(&published).Error; err != nil {
		t.Fatalf("创建单集失败: %v", err)
	}

	var videos []models.SeriesVideo
	if err := VisibleSeriesVideos(db).Find(&videos).Error; err != nil {
		t.Fatalf("查询失败: %v", err)
	}

	slugs := make(map[string]bool)
	for _, v := range videos {
		slugs[v.Slug] = true
	}
	if slugs["scheduled-later"] {
		t.Error("未来定时发布的单集不应对外可见")
	}
	if !slugs["published-earlier"] {
		t.Error("发布时间已过的单集应对外可见")
	}
	if !slugs["visible-now"] {
		t.Error("无定时发布时间的单集应对外可见")
	}
}

func TestVisibleSeriesVideos_UnpublishedSeries(t *testing.T) {
	db := newTestDB(t)

	draft := models.VideoSeries{Title: "草稿系列", Slug: "draft-series", IsPublished: 0}
	if err := db.Create(&draft).Error; err != nil {
		t.Fatalf("创建系列失败: %v", err)
	}
	video := models.SeriesVideo{
		SeriesID: draft.ID,
		Title:    "草稿单集",
		Slug:     "draft-video",
		VideoURL: "/uploads/videos/draft.mp4",
		Position: 1,
	}
	if err := db.Create(&video).Error; err != nil {
		t.Fatalf("创建单集失败: %v", err)
	}

	var videos []models.SeriesVideo
	if err := VisibleSeriesVideos(db).Find(&videos).Error; err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(videos) != 0 {
		t.Errorf("未发布系列的单集不应可见, got %d", len(videos))
	}
}

func TestRelatedVideos_TagIntersection(t *testing.T) {
	db := newTestDB(t)

	_, current := seedSeries(t, db, "lions-ep1", []string{"lions", "safari"})
	seedSeries(t, db, "lions-ep2", []string{"lions"})
	seedSeries(t, db, "penguins-ep1", []string{"penguins"})
	seedChannelVideo(t, db, "safari-guide", []string{"safari"})

	resolved, err := ResolveVideo(db, current.Slug)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}

	related, err := RelatedVideos(db, resolved)
	if err != nil {
		t.Fatalf("推荐失败: %v", err)
	}

	slugs := make(map[string]bool)
	for _, r := range related {
		slugs[r.Slug] = true
	}
	if !slugs["lions-ep2"] {
		t.Error("同标签的系列视频应在推荐中")
	}
	if !slugs["safari-guide"] {
		t.Error("同标签的频道视频应在推荐中")
	}
	if slugs["penguins-ep1"] {
		t.Error("无标签交集的视频不应在推荐中")
	}
	if slugs[current.Slug] {
		t.Error("当前视频不应推荐自己")
	}
}

func TestRelatedVideos_SameChannelFallback(t *testing.T) {
	db := newTestDB(t)

	channel, current := seedChannelVideo(t, db, "untagged-video", nil)
	sibling := models.GeneralKnowledgeVideo{
		ChannelID:   channel.ID,
		Title:       "同频道视频",
		Slug:        "sibling-video",
		VideoURL:    "/uploads/videos/sibling.mp4",
		IsPublished: true,
	}
	if err := db.Create(&sibling).Error; err != nil {
		t.Fatalf("创建视频失败: %v", err)
	}

	resolved, err := ResolveVideo(db, current.Slug)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}

	related, err := RelatedVideos(db, resolved)
	if err != nil {
		t.Fatalf("推荐失败: %v", err)
	}
	if len(related) != 1 || related[0].Slug != "sibling-video" {
		t.Errorf("无标签频道视频应退化为同频道推荐, got %v", related)
	}
}
