package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TVPlaylistItem TV轮播条目（管理员挑选的有序视频列表，最多3个）
// title和thumbnail_url在保存时从源视频复制，源视频后续改名不会自动同步
type TVPlaylistItem struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Position     int    `gorm:"uniqueIndex;not null" json:"position"`
	VideoSlug    string `gorm:"size:200;index;not null" json:"video_slug"`
	Title        string `gorm:"size:300" json:"title"`
	ThumbnailURL string `gorm:"size:1000" json:"thumbnail_url"`
}

// TableName 指定表名
func (TVPlaylistItem) TableName() string {
	return "tv_playlist"
}

func (i *TVPlaylistItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
