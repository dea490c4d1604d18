package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 用户模型（评论/点赞关联使用的最小字段集）
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username  string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email     string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	AvatarURL string `gorm:"size:500" json:"avatar_url"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
