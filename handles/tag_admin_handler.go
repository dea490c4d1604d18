package handles

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wildcms/config"
	"wildcms/models"
	"wildcms/services"
	"wildcms/utils"
)

// AdminListTags 标签列表（按使用次数降序）
func AdminListTags(c *gin.Context) {
	db := config.GetDB()

	var tags []models.VideoTag
	if err := db.Order("usage_count DESC, name").Find(&tags).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	list := make([]gin.H, 0, len(tags))
	for _, tag := range tags {
		list = append(list, gin.H{
			"id":          tag.ID,
			"name":        tag.Name,
			"usage_count": tag.UsageCount,
			"created_at":  tag.CreatedAt,
		})
	}
	utils.Success(c, gin.H{"tags": list, "total": len(list)})
}

// TagRequest 标签请求
type TagRequest struct {
	Name string `json:"name" binding:"required"`
}

// AdminAddTag 新建标签
func AdminAddTag(c *gin.Context) {
	db := config.GetDB()

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		utils.Error(c, http.StatusBadRequest, "标签名不能为空")
		return
	}

	tag := models.VideoTag{Name: strings.TrimSpace(req.Name)}
	if err := db.Create(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(c, http.StatusConflict, "标签已存在")
			return
		}
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SuccessMsg(c, "创建成功", gin.H{"id": tag.ID, "name": tag.Name})
}

// AdminEditTag 重命名标签（不修改视频上已存的标签文本）
func AdminEditTag(c *gin.Context) {
	db := config.GetDB()

	var tag models.VideoTag
	if err := db.First(&tag, "id = ?", c.Param("id")).Error; err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "标签不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		utils.Error(c, http.StatusBadRequest, "标签名不能为空")
		return
	}

	if err := db.Model(&tag).Update("name", strings.TrimSpace(req.Name)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(c, http.StatusConflict, "标签已存在")
			return
		}
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SuccessMsg(c, "更新成功", nil)
}

// AdminDeleteTag 删除标签并从所有视频的标签列表中移除
func AdminDeleteTag(c *gin.Context) {
	db := config.GetDB()

	var tag models.VideoTag
	if err := db.First(&tag, "id = ?", c.Param("id")).Error; err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "标签不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := services.ScrubTag(tx, tag.Name); err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SuccessMsg(c, "删除成功", nil)
}
