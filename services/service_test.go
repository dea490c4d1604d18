package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wildcms/models"
)

// newTestDB 内存sqlite测试库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	// 内存库只能用一条连接，否则表会丢
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
	return db
}

// seedSeries 创建一个已发布系列和一个单集
func seedSeries(t *testing.T, db *gorm.DB, slug string, tags []string) (*models.VideoSeries, *models.SeriesVideo) {
	t.Helper()

	series := &models.VideoSeries{
		Title:       "系列-" + slug,
		Slug:        "series-" + slug,
		IsPublished: 1,
		TotalVideos: 1,
	}
	if err := db.Create(series).Error; err != nil {
		t.Fatalf("创建系列失败: %v", err)
	}

	video := &models.SeriesVideo{
		SeriesID: series.ID,
		Title:    "单集-" + slug,
		Slug:     slug,
		VideoURL: "/uploads/videos/" + slug + ".mp4",
		Duration: 600,
		Position: 1,
	}
	if len(tags) > 0 {
		video.Tags = encodeTestTags(t, tags)
	}
	if err := db.Create(video).Error; err != nil {
		t.Fatalf("创建单集失败: %v", err)
	}
	return series, video
}

// seedChannelVideo 创建一个启用频道和一个已发布视频
func seedChannelVideo(t *testing.T, db *gorm.DB, slug string, tags []string) (*models.VideoChannel, *models.GeneralKnowledgeVideo) {
	t.Helper()

	channel := &models.VideoChannel{
		Name:        "频道-" + slug,
		Slug:        "channel-" + slug,
		IsActive:    true,
		TotalVideos: 1,
	}
	if err := db.Create(channel).Error; err != nil {
		t.Fatalf("创建频道失败: %v", err)
	}

	video := &models.GeneralKnowledgeVideo{
		ChannelID:   channel.ID,
		Title:       "视频-" + slug,
		Slug:        slug,
		VideoURL:    "/uploads/videos/" + slug + ".mp4",
		Duration:    300,
		IsPublished: true,
	}
	if len(tags) > 0 {
		video.Tags = encodeTestTags(t, tags)
	}
	if err := db.Create(video).Error; err != nil {
		t.Fatalf("创建频道视频失败: %v", err)
	}
	return channel, video
}

func encodeTestTags(t *testing.T, tags []string) string {
	t.Helper()
	out := "["
	for i, tag := range tags {
		if i > 0 {
			out += ","
		}
		out += `"` + tag + `"`
	}
	return out + "]"
}
