package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wildcms/models"
)

// 投票操作结果
const (
	VoteAdded   = "added"
	VoteUpdated = "updated"
	VoteRemoved = "removed"
)

// ToggleVideoVote 视频点赞/点踩的三态切换
// 无记录 -> 插入；同值 -> 删除（取消）；异值 -> 原地更新
// 事务内执行，PostgreSQL下对现有行加FOR UPDATE锁，唯一约束兜底并发重复插入
func ToggleVideoVote(db *gorm.DB, userID, slug, videoType string, vote int) (string, error) {
	var action string
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.VideoLike
		q := tx.Where("user_id = ? AND video_slug = ?", userID, slug)
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		err := q.First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			action = VoteAdded
			return tx.Create(&models.VideoLike{
				UserID:    userID,
				VideoSlug: slug,
				VideoType: videoType,
				Vote:      vote,
			}).Error
		}
		if err != nil {
			return err
		}

		if existing.Vote == vote {
			action = VoteRemoved
			return tx.Delete(&existing).Error
		}
		action = VoteUpdated
		return tx.Model(&existing).Update("vote", vote).Error
	})
	return action, err
}

// ToggleCommentLike 评论点赞切换，likes_count在同一事务内同步调整
// 返回切换后是否处于点赞状态和最新likes_count
func ToggleCommentLike(db *gorm.DB, userID, commentID string) (bool, int, error) {
	var liked bool
	var likesCount int
	err := db.Transaction(func(tx *gorm.DB) error {
		var comment models.VideoComment
		cq := tx.Where("id = ?", commentID)
		if tx.Dialector.Name() == "postgres" {
			cq = cq.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := cq.First(&comment).Error; err != nil {
			return err
		}

		var existing models.VideoCommentLike
		err := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := tx.Create(&models.VideoCommentLike{UserID: userID, CommentID: commentID}).Error; err != nil {
				return err
			}
			liked = true
			likesCount = comment.LikesCount + 1
			return tx.Model(&comment).UpdateColumn("likes_count", likesCount).Error
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}
		liked = false
		likesCount = comment.LikesCount - 1
		if likesCount < 0 {
			likesCount = 0
		}
		return tx.Model(&comment).UpdateColumn("likes_count", likesCount).Error
	})
	return liked, likesCount, err
}

// SaveWatchProgress 观看进度的原子upsert
// 百分比 = current_time/duration*100（duration<=0时为0），>=90%记为已看完
// 基于(user_id, video_slug)唯一索引做INSERT ... ON CONFLICT DO UPDATE
func SaveWatchProgress(db *gorm.DB, userID, slug, videoType string, currentTime, duration float64) (*models.VideoWatchProgress, error) {
	var percentage float64
	if duration > 0 {
		percentage = currentTime / duration * 100
	}
	completed := 0
	if percentage >= 90 {
		completed = 1
	}

	progress := models.VideoWatchProgress{
		UserID:             userID,
		VideoSlug:          slug,
		VideoType:          videoType,
		CurrentTime:        currentTime,
		Duration:           duration,
		ProgressPercentage: percentage,
		Completed:          completed,
		LastWatchedAt:      time.Now(),
	}

	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "video_slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_time", "duration", "progress_percentage", "completed", "last_watched_at", "updated_at",
		}),
	}).Create(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}
