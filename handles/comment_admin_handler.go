package handles

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wildcms/config"
	"wildcms/models"
	"wildcms/utils"
)

// AdminListComments 管理端评论列表（含已删除，支持按视频筛选）
func AdminListComments(c *gin.Context) {
	db := config.GetDB()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := db.Model(&models.VideoComment{})
	if slug := c.Query("video_slug"); slug != "" {
		query = query.Where("video_slug = ?", slug)
	}
	if c.Query("deleted") == "true" {
		query = query.Where("is_deleted = ?", 1)
	}

	var total int64
	query.Count(&total)

	var comments []models.VideoComment
	err := query.Preload("User").Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&comments).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	list := make([]gin.H, 0, len(comments))
	for _, comment := range comments {
		item := commentPayload(comment)
		// 管理端保留原始内容
		item["content"] = comment.Content
		list = append(list, item)
	}
	utils.Success(c, utils.PageData(list, total, page, pageSize))
}

// AdminDeleteComment 软删除评论
// 保留记录占位，父评论回复数不回减
func AdminDeleteComment(c *gin.Context) {
	db := config.GetDB()

	var comment models.VideoComment
	if err := db.First(&comment, "id = ?", c.Param("comment_id")).Error; err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "评论不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	if comment.IsDeleted == 1 {
		utils.SuccessMsg(c, "评论已删除", nil)
		return
	}

	if err := db.Model(&comment).Update("is_deleted", 1).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SuccessMsg(c, "删除成功", nil)
}
