package handles

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wildcms/config"
	"wildcms/models"
	"wildcms/services"
	"wildcms/utils"
)

// AdminListChannels 管理端频道列表
func AdminListChannels(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.VideoChannel{})
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var channels []models.VideoChannel
	if err := query.Order("created_at DESC").Find(&channels).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	list := make([]gin.H, 0, len(channels))
	for _, ch := range channels {
		var videoCount int64
		db.Model(&models.GeneralKnowledgeVideo{}).Where("channel_id = ?", ch.ID).Count(&videoCount)
		list = append(list, gin.H{
			"id":            ch.ID,
			"name":          ch.Name,
			"slug":          ch.Slug,
			"description":   ch.Description,
			"thumbnail_url": ch.ThumbnailURL,
			"banner_url":    ch.BannerURL,
			"total_videos":  ch.TotalVideos,
			"total_views":   ch.TotalViews,
			"video_count":   videoCount,
			"is_active":     ch.IsActive,
			"created_at":    ch.CreatedAt,
		})
	}
	utils.Success(c, gin.H{"channels": list, "total": len(list)})
}

// ChannelRequest 创建/更新频道请求
type ChannelRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

// AdminCreateChannel 创建频道（名称和slug唯一）
func AdminCreateChannel(c *gin.Context) {
	db := config.GetDB()

	var req ChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Name)
	}

	channel := models.VideoChannel{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		channel.IsActive = *req.IsActive
	}

	if err := db.Create(&channel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(c, http.StatusConflict, "频道名称或slug已存在")
			return
		}
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SuccessMsg(c, "创建成功", gin.H{"id": channel.ID, "slug": channel.Slug})
}

// AdminGetChannel 管理端频道详情（含全部视频）
func AdminGetChannel(c *gin.Context) {
	db := config.GetDB()

	var channel models.VideoChannel
	err := db.Preload("Videos", func(db *gorm.DB) *gorm.DB {
		return db.Order("general_knowledge_videos.created_at DESC")
	}).First(&channel, "id = ?", c.Param("id")).Error
	if err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "频道不存在")
		return
	}
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	videos := make([]gin.H, 0, len(channel.Videos))
	for _, v := range channel.Videos {
		videos = append(videos, gin.H{
			"id":            v.ID,
			"title":         v.Title,
			"subtitle":      v.Subtitle,
			"slug":          v.Slug,
			"description":   v.Description,
			"video_url":     v.VideoURL,
			"thumbnail_url": v.ThumbnailURL,
			"duration":      v.Duration,
			"tags":          utils.DecodeTags(v.Tags),
			"hashtags":      v.Hashtags,
			"views":         v.Views,
			"is_published":  v.IsPublished,
			"publish_date":  v.PublishDate,
			"created_at":    v.CreatedAt,
		})
	}
	utils.Success(c, gin.H{
		"id":            channel.ID,
		"name":          channel.Name,
		"slug":          channel.Slug,
		"description":   channel.Description,
		"thumbnail_url": channel.ThumbnailURL,
		"banner_url":    channel.BannerURL,
		"total_videos":  channel.TotalVideos,
		"total_views":   channel.TotalViews,
		"is_active":     channel.IsActive,
		"videos":        videos,
	})
}

// AdminUpdateChannel 更新频道信息
func AdminUpdateChannel(c *gin.Context) {
	db := config.GetDB()

	var channel models.VideoChannel
	if err := db.First(&channel, "id = ?", c.Param("id")).Error; err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "频道不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	var req struct {
		Name         *string `json:"name"`
		Slug         *string `json:"slug"`
		Description  *string `json:"description"`
		ThumbnailURL *string `json:"thumbnail_url"`
		BannerURL    *string `json:"banner_url"`
		IsActive     *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ThumbnailURL != nil {
		updates["thumbnail_url"] = *req.ThumbnailURL
	}
	if req.BannerURL != nil {
		updates["banner_url"] = *req.BannerURL
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		utils.SuccessMsg(c, "无变更", nil)
		return
	}

	if err := db.Model(&channel).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(c, http.StatusConflict, "频道名称或slug已存在")
			return
		}
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SuccessMsg(c, "更新成功", nil)
}

// AdminDeleteChannel 删除频道及其全部视频
func AdminDeleteChannel(c *gin.Context) {
	db := config.GetDB()
	id := c.Param("id")

	var channel models.VideoChannel
	if err := db.First(&channel, "id = ?", id).Error; err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "频道不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("channel_id = ?", id).
			Delete(&models.GeneralKnowledgeVideo{}).Error; err != nil {
			return err
		}
		return tx.Delete(&channel).Error
	})
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SuccessMsg(c, "删除成功", nil)
}

// AdminSubmitChannelVideo 向频道投稿视频（multipart上传）
// 视频文件必传，封面可选；保存后频道视频数+1
func AdminSubmitChannelVideo(c *gin.Context) {
	db := config.GetDB()

	channelID := c.PostForm("channel_id")
	title := c.PostForm("title")
	if channelID == "" || title == "" {
		utils.Error(c, http.StatusBadRequest, "channel_id和title不能为空")
		return
	}

	var channel models.VideoChannel
	if err := db.First(&channel, "id = ?", channelID).Error; err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "频道不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	videoFile, err := c.FormFile("video_file")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "请上传视频文件")
		return
	}
	videoResult, err := services.SaveUploadedFile(c, videoFile, services.UploadCategoryVideos)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	thumbnailURL := ""
	if thumbFile, err := c.FormFile("thumbnail_file"); err == nil {
		thumbResult, err := services.SaveUploadedFile(c, thumbFile, services.UploadCategoryThumbnails)
		if err != nil {
			utils.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		thumbnailURL = thumbResult.FileURL
	}

	slug := c.PostForm("slug")
	if slug == "" {
		slug = utils.Slugify(title)
	}
	slug, err = utils.EnsureUniqueSlug(db, &models.GeneralKnowledgeVideo{}, slug)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	duration, _ := strconv.Atoi(c.DefaultPostForm("duration", "0"))
	tags := utils.DecodeTags(c.PostForm("tags"))
	publishDateRaw := c.PostForm("publish_date")
	var publishDatePtr *string
	if publishDateRaw != "" {
		publishDatePtr = &publishDateRaw
	}
	publishDate, ok := parsePublishDate(publishDatePtr)
	if !ok {
		utils.Error(c, http.StatusBadRequest, "发布时间格式错误")
		return
	}

	video := models.GeneralKnowledgeVideo{
		ChannelID:    channelID,
		Title:        title,
		Subtitle:     c.PostForm("subtitle"),
		Slug:         slug,
		Description:  c.PostForm("description"),
		VideoURL:     videoResult.FileURL,
		ThumbnailURL: thumbnailURL,
		Duration:     duration,
		Tags:         utils.EncodeTags(tags),
		Hashtags:     c.PostForm("hashtags"),
		IsPublished:  c.DefaultPostForm("is_published", "true") != "false",
		PublishDate:  publishDate,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&video).Error; err != nil {
			return err
		}
		if err := services.RegisterTags(tx, tags); err != nil {
			return err
		}
		return tx.Model(&channel).
			UpdateColumn("total_videos", gorm.Expr("total_videos + 1")).Error
	})
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SuccessMsg(c, "投稿成功", gin.H{
		"id":        video.ID,
		"slug":      video.Slug,
		"video_url": video.VideoURL,
	})
}

// AdminUpdateChannelVideo 更新频道视频
func AdminUpdateChannelVideo(c *gin.Context) {
	db := config.GetDB()

	var video models.GeneralKnowledgeVideo
	if err := db.First(&video, "id = ?", c.Param("video_id")).Error; err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "视频不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	var req struct {
		Title        *string   `json:"title"`
		Subtitle     *string   `json:"subtitle"`
		Description  *string   `json:"description"`
		ThumbnailURL *string   `json:"thumbnail_url"`
		Duration     *int      `json:"duration"`
		Tags         *[]string `json:"tags"`
		Hashtags     *string   `json:"hashtags"`
		IsPublished  *bool     `json:"is_published"`
		PublishDate  *string   `json:"publish_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Subtitle != nil {
		updates["subtitle"] = *req.Subtitle
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ThumbnailURL != nil {
		updates["thumbnail_url"] = *req.ThumbnailURL
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.Hashtags != nil {
		updates["hashtags"] = *req.Hashtags
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}
	if req.PublishDate != nil {
		publishDate, ok := parsePublishDate(req.PublishDate)
		if !ok {
			utils.Error(c, http.StatusBadRequest, "发布时间格式错误")
			return
		}
		updates["publish_date"] = publishDate
	}

	var newTags []string
	if req.Tags != nil {
		oldSet := make(map[string]struct{})
		for _, tag := range utils.DecodeTags(video.Tags) {
			oldSet[tag] = struct{}{}
		}
		for _, tag := range *req.Tags {
			if _, ok := oldSet[tag]; !ok {
				newTags = append(newTags, tag)
			}
		}
		updates["tags"] = utils.EncodeTags(*req.Tags)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&video).Updates(updates).Error; err != nil {
				return err
			}
		}
		return services.RegisterTags(tx, newTags)
	})
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SuccessMsg(c, "更新成功", nil)
}

// AdminDeleteChannelVideo 删除频道视频，频道视频数-1（最低为0）
func AdminDeleteChannelVideo(c *gin.Context) {
	db := config.GetDB()

	var video models.GeneralKnowledgeVideo
	if err := db.First(&video, "id = ?", c.Param("video_id")).Error; err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "视频不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&video).Error; err != nil {
			return err
		}
		return tx.Model(&models.VideoChannel{}).
			Where("id = ? AND total_videos > 0", video.ChannelID).
			UpdateColumn("total_videos", gorm.Expr("total_videos - 1")).Error
	})
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SuccessMsg(c, "删除成功", nil)
}
