package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VideoLike 视频点赞/点踩记录
// video_slug是松散引用，查询时再解析到series_videos或general_knowledge_videos
type VideoLike struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID    string `gorm:"size:36;not null;index;uniqueIndex:uq_user_video_like" json:"user_id"`
	VideoSlug string `gorm:"size:255;not null;index;uniqueIndex:uq_user_video_like" json:"video_slug"`
	VideoType string `gorm:"size:50;not null" json:"video_type"` // series 或 channel

	// 1 = 赞, -1 = 踩
	Vote int `gorm:"not null" json:"vote"`
}

// TableName 指定表名
func (VideoLike) TableName() string {
	return "video_likes"
}

func (l *VideoLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// VideoComment 视频评论（支持一层回复）
// replies_count在回复插入时+1，回复软删除时不回减
type VideoComment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID    string `gorm:"size:36;not null;index" json:"user_id"`
	VideoSlug string `gorm:"size:255;not null;index" json:"video_slug"`
	VideoType string `gorm:"size:50;not null" json:"video_type"`

	Content string `gorm:"type:text;not null" json:"content"`

	// 回复支持
	ParentID *string `gorm:"size:36;index" json:"parent_id"`

	// 统计信息
	LikesCount   int `gorm:"default:0;not null" json:"likes_count"`
	RepliesCount int `gorm:"default:0;not null" json:"replies_count"`

	// 状态：0/1
	IsEdited  int `gorm:"default:0;not null" json:"is_edited"`
	IsDeleted int `gorm:"default:0;not null" json:"is_deleted"`

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (VideoComment) TableName() string {
	return "video_comments"
}

func (c *VideoComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// VideoCommentLike 评论点赞记录（每用户每评论一条）
type VideoCommentLike struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID    string `gorm:"size:36;not null;index;uniqueIndex:uq_user_comment_like" json:"user_id"`
	CommentID string `gorm:"size:36;not null;uniqueIndex:uq_user_comment_like" json:"comment_id"`
}

// TableName 指定表名
func (VideoCommentLike) TableName() string {
	return "video_comment_likes"
}

func (l *VideoCommentLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
