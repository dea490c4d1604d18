package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 讨论状态
const (
	DiscussionStatusPending = "pending"
	DiscussionStatusActive  = "active"
	DiscussionStatusLocked  = "locked"
)

// Discussion 社区讨论帖
type Discussion struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AuthorID string `gorm:"size:36;not null;index" json:"author_id"`

	Title   string `gorm:"size:500;not null;index" json:"title"`
	Slug    string `gorm:"size:600;uniqueIndex;not null" json:"slug"`
	Content string `gorm:"type:text;not null" json:"content"`
	Excerpt string `gorm:"type:text" json:"excerpt"`

	// 标签（JSON数组字符串，与视频标签同一编码方式）
	Tags string `gorm:"type:text" json:"tags"`

	// 状态字段代替硬删除
	Status   string `gorm:"size:20;default:'pending';not null;index" json:"status"` // pending, active, locked
	IsPinned bool   `gorm:"default:false;not null;index" json:"is_pinned"`
	IsLocked bool   `gorm:"default:false;not null" json:"is_locked"`

	// 统计信息
	ViewCount    int `gorm:"default:0;not null" json:"view_count"`
	LikeCount    int `gorm:"default:0;not null" json:"like_count"`
	CommentCount int `gorm:"default:0;not null" json:"comment_count"` // 含嵌套回复

	LastActivityAt time.Time `gorm:"index" json:"last_activity_at"`

	// 关联
	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName 指定表名
func (Discussion) TableName() string {
	return "discussions"
}

func (d *Discussion) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// DiscussionComment 讨论评论（嵌套结构，物化路径+层级）
type DiscussionComment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DiscussionID string  `gorm:"size:36;not null;index" json:"discussion_id"`
	AuthorID     string  `gorm:"size:36;not null;index" json:"author_id"`
	ParentID     *string `gorm:"size:36;index" json:"parent_comment_id"`

	Content string `gorm:"type:text;not null" json:"content"`

	// 嵌套结构：0 = 顶层，1+ = 回复层级；path形如 "id1.id2.id3"
	DepthLevel int    `gorm:"default:0;not null" json:"depth_level"`
	Path       string `gorm:"size:500;index" json:"path"`

	// 统计信息
	LikeCount  int `gorm:"default:0;not null" json:"like_count"`
	ReplyCount int `gorm:"default:0;not null" json:"reply_count"` // 直接回复数

	// 状态
	IsEdited bool   `gorm:"default:false;not null" json:"is_edited"`
	Status   string `gorm:"size:20;default:'active';not null;index" json:"status"` // active, hidden, deleted

	// 关联
	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName 指定表名
func (DiscussionComment) TableName() string {
	return "discussion_comments"
}

func (c *DiscussionComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// DiscussionCommentLike 讨论评论点赞（每用户每评论一条）
type DiscussionCommentLike struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID    string `gorm:"size:36;not null;index;uniqueIndex:uq_user_disc_comment_like" json:"user_id"`
	CommentID string `gorm:"size:36;not null;uniqueIndex:uq_user_disc_comment_like" json:"comment_id"`
}

// TableName 指定表名
func (DiscussionCommentLike) TableName() string {
	return "discussion_comment_likes"
}

func (l *DiscussionCommentLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
