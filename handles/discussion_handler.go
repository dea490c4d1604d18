package handles

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wildcms/config"
	"wildcms/middleware"
	"wildcms/models"
	"wildcms/utils"
)

// discussionPayload 讨论帖响应结构
func discussionPayload(d models.Discussion) gin.H {
	authorName := "匿名用户"
	if d.Author != nil && d.Author.Username != "" {
		authorName = d.Author.Username
	}
	return gin.H{
		"id":               d.ID,
		"title":            d.Title,
		"slug":             d.Slug,
		"content":          d.Content,
		"excerpt":          d.Excerpt,
		"tags":             utils.DecodeTags(d.Tags),
		"author_id":        d.AuthorID,
		"author_name":      authorName,
		"status":           d.Status,
		"is_pinned":        d.IsPinned,
		"is_locked":        d.IsLocked,
		"view_count":       d.ViewCount,
		"like_count":       d.LikeCount,
		"comment_count":    d.CommentCount,
		"last_activity_at": d.LastActivityAt,
		"created_at":       d.CreatedAt,
	}
}

// ListDiscussions 讨论列表（仅active，置顶优先，按最近活跃排序）
func ListDiscussions(c *gin.Context) {
	db := config.GetDB()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := db.Model(&models.Discussion{}).Where("status = ?", models.DiscussionStatusActive)
	if search := c.Query("search"); search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}
	if tag := c.Query("tag"); tag != "" {
		query = query.Where("tags LIKE ?", "%\""+tag+"\"%")
	}

	var total int64
	query.Count(&total)

	var discussions []models.Discussion
	err := query.Preload("Author").
		Order("is_pinned DESC, last_activity_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&discussions).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	list := make([]gin.H, 0, len(discussions))
	for _, d := range discussions {
		list = append(list, discussionPayload(d))
	}
	utils.Success(c, utils.PageData(list, total, page, pageSize))
}

// CreateDiscussionRequest 发帖请求
type CreateDiscussionRequest struct {
	Title   string   `json:"title" binding:"required"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags"`
}

// CreateDiscussion 发布讨论帖（进入pending状态等待审核）
func CreateDiscussion(c *gin.Context) {
	db := config.GetDB()
	userID := middleware.CurrentUserID(c)

	if middleware.IsGuest(userID) {
		utils.Error(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var req CreateDiscussionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误")
		return
	}
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		utils.Error(c, http.StatusBadRequest, "标题和内容不能为空")
		return
	}

	slug, err := utils.EnsureUniqueSlug(db, &models.Discussion{}, utils.Slugify(title))
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	excerpt := content
	if len(excerpt) > 200 {
		excerpt = excerpt[:200]
	}

	discussion := models.Discussion{
		AuthorID:       userID,
		Title:          title,
		Slug:           slug,
		Content:        content,
		Excerpt:        excerpt,
		Tags:           utils.EncodeTags(req.Tags),
		Status:         models.DiscussionStatusPending,
		LastActivityAt: time.Now(),
	}
	if err := db.Create(&discussion).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	utils.SuccessMsg(c, "发布成功，等待审核", gin.H{
		"id":     discussion.ID,
		"slug":   discussion.Slug,
		"status": discussion.Status,
	})
}

// GetDiscussion 按slug获取讨论帖详情，浏览计数+1
func GetDiscussion(c *gin.Context) {
	db := config.GetDB()
	slug := c.Param("slug")

	var discussion models.Discussion
	err := db.Preload("Author").
		Where("slug = ? AND status IN ?", slug,
			[]string{models.DiscussionStatusActive, models.DiscussionStatusLocked}).
		First(&discussion).Error
	if err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "讨论不存在")
		return
	}
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	db.Model(&discussion).UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	discussion.ViewCount++

	utils.Success(c, gin.H{"discussion": discussionPayload(discussion)})
}

// discussionCommentPayload 讨论评论响应结构
func discussionCommentPayload(comment models.DiscussionComment) gin.H {
	authorName := "匿名用户"
	if comment.Author != nil && comment.Author.Username != "" {
		authorName = comment.Author.Username
	}
	return gin.H{
		"id":                comment.ID,
		"discussion_id":     comment.DiscussionID,
		"author_id":         comment.AuthorID,
		"author_name":       authorName,
		"parent_comment_id": comment.ParentID,
		"content":           comment.Content,
		"depth_level":       comment.DepthLevel,
		"path":              comment.Path,
		"like_count":        comment.LikeCount,
		"reply_count":       comment.ReplyCount,
		"is_edited":         comment.IsEdited,
		"status":            comment.Status,
		"created_at":        comment.CreatedAt,
	}
}

// GetDiscussionComments 获取讨论帖全部评论
// 按物化路径排序，客户端可直接按顺序渲染树形结构
func GetDiscussionComments(c *gin.Context) {
	db := config.GetDB()
	slug := c.Param("slug")

	var discussion models.Discussion
	if err := db.Where("slug = ?", slug).First(&discussion).Error; err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "讨论不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	var comments []models.DiscussionComment
	err := db.Preload("Author").
		Where("discussion_id = ? AND status = ?", discussion.ID, models.DiscussionStatusActive).
		Order("path").Find(&comments).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	list := make([]gin.H, 0, len(comments))
	for _, comment := range comments {
		list = append(list, discussionCommentPayload(comment))
	}
	utils.Success(c, gin.H{"comments": list, "total": len(list)})
}

// AddDiscussionComment 在讨论帖下发表评论或回复
// 物化路径 = 父路径 + 自身ID；帖子评论总数+1，父评论直接回复数+1
func AddDiscussionComment(c *gin.Context) {
	db := config.GetDB()
	slug := c.Param("slug")
	userID := middleware.CurrentUserID(c)

	if middleware.IsGuest(userID) {
		utils.Error(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var discussion models.Discussion
	if err := db.Where("slug = ?", slug).First(&discussion).Error; err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "讨论不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	if discussion.Status != models.DiscussionStatusActive || discussion.IsLocked {
		utils.Error(c, http.StatusForbidden, "讨论已锁定")
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		utils.Error(c, http.StatusBadRequest, "评论内容不能为空")
		return
	}

	comment := models.DiscussionComment{
		DiscussionID: discussion.ID,
		AuthorID:     userID,
		ParentID:     req.ParentID,
		Content:      strings.TrimSpace(req.Content),
		Status:       models.DiscussionStatusActive,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if req.ParentID != nil {
			var parent models.DiscussionComment
			if err := tx.Where("id = ? AND discussion_id = ?", *req.ParentID, discussion.ID).
				First(&parent).Error; err != nil {
				return err
			}
			comment.DepthLevel = parent.DepthLevel + 1
			if err := tx.Create(&comment).Error; err != nil {
				return err
			}
			comment.Path = fmt.Sprintf("%s.%s", parent.Path, comment.ID)
			if err := tx.Model(&comment).UpdateColumn("path", comment.Path).Error; err != nil {
				return err
			}
			if err := tx.Model(&parent).
				UpdateColumn("reply_count", gorm.Expr("reply_count + 1")).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Create(&comment).Error; err != nil {
				return err
			}
			comment.Path = comment.ID
			if err := tx.Model(&comment).UpdateColumn("path", comment.Path).Error; err != nil {
				return err
			}
		}
		return tx.Model(&discussion).Updates(map[string]interface{}{
			"comment_count":    gorm.Expr("comment_count + 1"),
			"last_activity_at": time.Now(),
		}).Error
	})
	if err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "父评论不存在")
		return
	}
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	db.Preload("Author").First(&comment, "id = ?", comment.ID)
	utils.SuccessMsg(c, "评论成功", gin.H{"comment": discussionCommentPayload(comment)})
}

// ToggleDiscussionCommentLike 讨论评论点赞切换
func ToggleDiscussionCommentLike(c *gin.Context) {
	db := config.GetDB()
	commentID := c.Param("comment_id")
	userID := middleware.CurrentUserID(c)

	if middleware.IsGuest(userID) {
		utils.Error(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var liked bool
	var count int
	err := db.Transaction(func(tx *gorm.DB) error {
		var comment models.DiscussionComment
		if err := tx.First(&comment, "id = ?", commentID).Error; err != nil {
			return err
		}

		var existing models.DiscussionCommentLike
		err := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).
			First(&existing).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			if err := tx.Create(&models.DiscussionCommentLike{
				UserID: userID, CommentID: commentID,
			}).Error; err != nil {
				return err
			}
			liked = true
			count = comment.LikeCount + 1
		case err != nil:
			return err
		default:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			liked = false
			count = comment.LikeCount - 1
			if count < 0 {
				count = 0
			}
		}
		return tx.Model(&comment).UpdateColumn("like_count", count).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(c, http.StatusNotFound, "评论不存在")
		return
	}
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	msg := "已点赞"
	if !liked {
		msg = "已取消点赞"
	}
	utils.SuccessMsg(c, msg, gin.H{"liked": liked, "like_count": count})
}

// ModerateDiscussionRequest 讨论审核请求
type ModerateDiscussionRequest struct {
	Status   *string `json:"status"`
	IsPinned *bool   `json:"is_pinned"`
	IsLocked *bool   `json:"is_locked"`
}

// AdminModerateDiscussion 讨论审核：调整状态/置顶/锁定
func AdminModerateDiscussion(c *gin.Context) {
	db := config.GetDB()

	var discussion models.Discussion
	if err := db.First(&discussion, "id = ?", c.Param("id")).Error; err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "讨论不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	var req ModerateDiscussionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		switch *req.Status {
		case models.DiscussionStatusPending,
			models.DiscussionStatusActive,
			models.DiscussionStatusLocked:
			updates["status"] = *req.Status
		default:
			utils.Error(c, http.StatusBadRequest, "无效的状态")
			return
		}
	}
	if req.IsPinned != nil {
		updates["is_pinned"] = *req.IsPinned
	}
	if req.IsLocked != nil {
		updates["is_locked"] = *req.IsLocked
	}
	if len(updates) == 0 {
		utils.SuccessMsg(c, "无变更", nil)
		return
	}

	if err := db.Model(&discussion).Updates(updates).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SuccessMsg(c, "操作成功", nil)
}

// AdminListPendingDiscussions 待审核讨论列表
func AdminListPendingDiscussions(c *gin.Context) {
	db := config.GetDB()

	var discussions []models.Discussion
	err := db.Preload("Author").
		Where("status = ?", models.DiscussionStatusPending).
		Order("created_at").Find(&discussions).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	list := make([]gin.H, 0, len(discussions))
	for _, d := range discussions {
		list = append(list, discussionPayload(d))
	}
	utils.Success(c, gin.H{"discussions": list, "total": len(list)})
}
