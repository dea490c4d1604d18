package handles

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wildcms/config"
	"wildcms/middleware"
	"wildcms/models"
	"wildcms/services"
	"wildcms/utils"
)

var errNestedReply = errors.New("nested reply")

// CommentRequest 发表评论请求，parent_id非空时为回复
type CommentRequest struct {
	Content  string  `json:"content" binding:"required"`
	ParentID *string `json:"parent_id"`
}

// commentPayload 评论响应结构（已删除评论内容脱敏）
func commentPayload(comment models.VideoComment) gin.H {
	content := comment.Content
	username := "匿名用户"
	avatarURL := ""
	if comment.User != nil && comment.User.Username != "" {
		username = comment.User.Username
		avatarURL = comment.User.AvatarURL
	}
	if comment.IsDeleted == 1 {
		content = "该评论已删除"
		username = "已删除"
		avatarURL = ""
	}
	return gin.H{
		"id":            comment.ID,
		"video_slug":    comment.VideoSlug,
		"user_id":       comment.UserID,
		"username":      username,
		"avatar_url":    avatarURL,
		"content":       content,
		"parent_id":     comment.ParentID,
		"likes_count":   comment.LikesCount,
		"replies_count": comment.RepliesCount,
		"is_edited":     comment.IsEdited == 1,
		"is_deleted":    comment.IsDeleted == 1,
		"created_at":    comment.CreatedAt,
		"updated_at":    comment.UpdatedAt,
	}
}

// AddComment 发表评论或回复
// 回复时校验父评论存在且属于同一视频，并累加父评论回复数
func AddComment(c *gin.Context) {
	db := config.GetDB()
	slug := c.Param("slug")
	userID := middleware.CurrentUserID(c)

	if middleware.IsGuest(userID) {
		utils.Error(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		utils.Error(c, http.StatusBadRequest, "评论内容不能为空")
		return
	}
	if len(content) > 2000 {
		utils.Error(c, http.StatusBadRequest, "评论内容过长")
		return
	}

	resolved, err := services.ResolveVideo(db, slug)
	if err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "视频不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	comment := models.VideoComment{
		VideoSlug: slug,
		VideoType: resolved.Type,
		UserID:    userID,
		Content:   content,
		ParentID:  req.ParentID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if req.ParentID != nil {
			var parent models.VideoComment
			if err := tx.Where("id = ? AND video_slug = ?", *req.ParentID, slug).
				First(&parent).Error; err != nil {
				return err
			}
			// 只允许一级回复
			if parent.ParentID != nil {
				return errNestedReply
			}
			if err := tx.Model(&parent).
				UpdateColumn("replies_count", gorm.Expr("replies_count + 1")).Error; err != nil {
				return err
			}
		}
		return tx.Create(&comment).Error
	})
	if err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "父评论不存在")
		return
	}
	if err == errNestedReply {
		utils.Error(c, http.StatusBadRequest, "只能回复顶层评论")
		return
	}
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	db.Preload("User").First(&comment, "id = ?", comment.ID)
	utils.SuccessMsg(c, "评论成功", gin.H{"comment": commentPayload(comment)})
}

// GetComments 获取视频顶层评论（不含已删除，倒序分页）
func GetComments(c *gin.Context) {
	db := config.GetDB()
	slug := c.Param("slug")

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	db.Model(&models.VideoComment{}).
		Where("video_slug = ? AND parent_id IS NULL AND is_deleted = ?", slug, 0).
		Count(&total)

	var comments []models.VideoComment
	err := db.Preload("User").
		Where("video_slug = ? AND parent_id IS NULL AND is_deleted = ?", slug, 0).
		Order("created_at DESC").Offset(skip).Limit(limit).
		Find(&comments).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	list := make([]gin.H, 0, len(comments))
	for _, comment := range comments {
		list = append(list, commentPayload(comment))
	}
	utils.Success(c, gin.H{
		"comments": list,
		"total":    total,
		"skip":     skip,
		"limit":    limit,
	})
}

// GetCommentReplies 获取评论的回复（含已删除占位，正序）
func GetCommentReplies(c *gin.Context) {
	db := config.GetDB()
	commentID := c.Param("comment_id")

	var parent models.VideoComment
	if err := db.First(&parent, "id = ?", commentID).Error; err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "评论不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	var replies []models.VideoComment
	err := db.Preload("User").
		Where("parent_id = ?", commentID).
		Order("created_at ASC").Find(&replies).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	list := make([]gin.H, 0, len(replies))
	for _, reply := range replies {
		list = append(list, commentPayload(reply))
	}
	utils.Success(c, gin.H{"replies": list, "total": len(list)})
}

// EditCommentRequest 编辑评论请求
type EditCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// EditComment 编辑自己的评论（标记is_edited）
func EditComment(c *gin.Context) {
	db := config.GetDB()
	commentID := c.Param("comment_id")
	userID := middleware.CurrentUserID(c)

	if middleware.IsGuest(userID) {
		utils.Error(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var req EditCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		utils.Error(c, http.StatusBadRequest, "评论内容不能为空")
		return
	}

	var comment models.VideoComment
	if err := db.First(&comment, "id = ?", commentID).Error; err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "评论不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	if comment.UserID != userID {
		utils.Error(c, http.StatusForbidden, "只能编辑自己的评论")
		return
	}
	if comment.IsDeleted == 1 {
		utils.Error(c, http.StatusBadRequest, "评论已删除")
		return
	}

	err := db.Model(&comment).Updates(map[string]interface{}{
		"content":   strings.TrimSpace(req.Content),
		"is_edited": 1,
	}).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	db.Preload("User").First(&comment, "id = ?", comment.ID)
	utils.SuccessMsg(c, "编辑成功", gin.H{"comment": commentPayload(comment)})
}
