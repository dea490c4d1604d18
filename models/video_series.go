package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VideoSeries 视频系列模型（剧集式内容）
type VideoSeries struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Title        string `gorm:"size:500;not null" json:"title"`
	Subtitle     string `gorm:"size:500" json:"subtitle"`
	Slug         string `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description  string `gorm:"type:text" json:"description"`
	ThumbnailURL string `gorm:"size:500" json:"thumbnail_url"`

	// 统计信息（应用层维护的冗余计数）
	TotalVideos int `gorm:"default:0;not null" json:"total_videos"`
	TotalViews  int `gorm:"default:0;not null" json:"total_views"`

	// 状态：0 = 草稿, 1 = 已发布
	// 不设列默认值：0是合法取值，依赖default会让草稿写不进去
	IsPublished int `gorm:"not null;index" json:"is_published"`

	// 推荐状态（同一时间最多一个系列被推荐）
	IsFeatured int        `gorm:"default:0;not null;index" json:"is_featured"`
	FeaturedAt *time.Time `json:"featured_at"`

	// 关联
	Videos []SeriesVideo `gorm:"foreignKey:SeriesID;constraint:OnDelete:CASCADE" json:"videos,omitempty"`
}

// TableName 指定表名
func (VideoSeries) TableName() string {
	return "video_series"
}

func (s *VideoSeries) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// SeriesVideo 系列中的单集视频
type SeriesVideo struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 所属系列
	SeriesID string `gorm:"size:36;index;not null" json:"series_id"`

	// 视频信息
	Title       string `gorm:"size:500;not null" json:"title"`
	Subtitle    string `gorm:"size:500" json:"subtitle"`
	Slug        string `gorm:"size:255;index;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`

	// 视频文件
	VideoURL     string `gorm:"size:500;not null" json:"video_url"`
	ThumbnailURL string `gorm:"size:500" json:"thumbnail_url"`
	Duration     int    `json:"duration"` // 秒

	// 集数（管理员指定，允许有空缺或重复）
	Position int `gorm:"not null;index" json:"position"`

	// 定时发布时间（为空或早于当前时间才对外可见）
	PublishDate *time.Time `gorm:"index" json:"publish_date"`

	// 标签（JSON数组字符串）和话题标签（空格分隔）
	Tags     string `gorm:"type:text" json:"tags"`
	Hashtags string `gorm:"size:500" json:"hashtags"`

	// 统计信息
	Views int `gorm:"default:0;not null" json:"views"`
}

// TableName 指定表名
func (SeriesVideo) TableName() string {
	return "series_videos"
}

func (v *SeriesVideo) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
