package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VideoTag 视频标签模型
// usage_count是历史累计值：视频保存时使用标签则+1，视频删除时不回减
type VideoTag struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name       string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	UsageCount int    `gorm:"default:0;not null" json:"usage_count"`
}

// TableName 指定表名
func (VideoTag) TableName() string {
	return "video_tags"
}

func (t *VideoTag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
