package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VideoChannel 视频频道模型（按主题组织通识类视频）
type VideoChannel struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 频道信息
	Name        string `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`

	// 频道品牌
	ThumbnailURL string `gorm:"size:500" json:"thumbnail_url"`
	BannerURL    string `gorm:"size:500" json:"banner_url"`

	// 统计信息（应用层维护，视频增删时同步调整）
	TotalVideos int `gorm:"default:0;not null" json:"total_videos"`
	TotalViews  int `gorm:"default:0;not null" json:"total_views"`

	// 状态（false是合法取值，不设列默认值，由创建方显式赋值）
	IsActive bool `gorm:"not null;index" json:"is_active"`

	// 关联
	Videos []GeneralKnowledgeVideo `gorm:"foreignKey:ChannelID;constraint:OnDelete:CASCADE" json:"videos,omitempty"`
}

// TableName 指定表名
func (VideoChannel) TableName() string {
	return "video_channels"
}

func (c *VideoChannel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// GeneralKnowledgeVideo 频道内的单个通识视频
type GeneralKnowledgeVideo struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 所属频道
	ChannelID string `gorm:"size:36;index;not null" json:"channel_id"`

	// 视频信息
	Title       string `gorm:"size:500;not null" json:"title"`
	Subtitle    string `gorm:"size:500" json:"subtitle"`
	Slug        string `gorm:"size:255;index;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`

	// 视频文件
	VideoURL     string `gorm:"size:500;not null" json:"video_url"`
	ThumbnailURL string `gorm:"size:500" json:"thumbnail_url"`
	Duration     int    `json:"duration"` // 秒

	// 标签（JSON数组字符串）和话题标签
	Tags     string `gorm:"type:text" json:"tags"`
	Hashtags string `gorm:"size:500" json:"hashtags"`

	// 统计信息
	Views int `gorm:"default:0;not null" json:"views"`
	Likes int `gorm:"default:0;not null" json:"likes"`

	// 状态（false是合法取值，不设列默认值，由创建方显式赋值）
	IsPublished bool `gorm:"not null;index" json:"is_published"`
	// 定时发布时间（为空或早于当前时间才对外可见）
	PublishDate *time.Time `gorm:"index" json:"publish_date"`
}

// TableName 指定表名
func (GeneralKnowledgeVideo) TableName() string {
	return "general_knowledge_videos"
}

func (v *GeneralKnowledgeVideo) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
