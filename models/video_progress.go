package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VideoWatchProgress 用户观看进度
// (user_id, video_slug)唯一索引支撑原子upsert，并发重复请求不会产生重复行
type VideoWatchProgress struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID    string `gorm:"size:36;not null;index;uniqueIndex:uq_user_video_progress" json:"user_id"`
	VideoSlug string `gorm:"size:255;not null;index;uniqueIndex:uq_user_video_progress" json:"video_slug"`
	VideoType string `gorm:"size:50;not null;index" json:"video_type"`

	// 进度信息
	CurrentTime        float64 `gorm:"default:0;not null" json:"current_time"` // 当前播放位置（秒）
	Duration           float64 `json:"duration"`                               // 视频总时长（秒）
	ProgressPercentage float64 `gorm:"default:0;not null" json:"progress_percentage"`

	// 状态：0 = 观看中, 1 = 已看完（>=90%）
	Completed int `gorm:"default:0;not null" json:"completed"`

	LastWatchedAt time.Time `json:"last_watched_at"`
}

// TableName 指定表名
func (VideoWatchProgress) TableName() string {
	return "video_watch_progress"
}

func (p *VideoWatchProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
