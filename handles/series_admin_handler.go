package handles

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wildcms/config"
	"wildcms/models"
	"wildcms/services"
	"wildcms/utils"
)

// SeriesVideoInput 系列单集提交数据
type SeriesVideoInput struct {
	Title        string   `json:"title" binding:"required"`
	Subtitle     string   `json:"subtitle"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description"`
	VideoURL     string   `json:"video_url" binding:"required"`
	ThumbnailURL string   `json:"thumbnail_url"`
	Duration     int      `json:"duration"`
	Position     int      `json:"position"`
	PublishDate  *string  `json:"publish_date"`
	Tags         []string `json:"tags"`
	Hashtags     string   `json:"hashtags"`
}

// CreateSeriesRequest 创建系列请求
type CreateSeriesRequest struct {
	Title        string             `json:"title" binding:"required"`
	Subtitle     string             `json:"subtitle"`
	Slug         string             `json:"slug"`
	Description  string             `json:"description"`
	ThumbnailURL string             `json:"thumbnail_url"`
	IsPublished  *int               `json:"is_published"`
	Videos       []SeriesVideoInput `json:"videos"`
}

// parsePublishDate 解析定时发布时间（RFC3339或日期）
func parsePublishDate(raw *string) (*time.Time, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, *raw); err == nil {
			return &t, true
		}
	}
	return nil, false
}

// AdminListSeries 管理端系列列表（支持搜索和发布状态筛选）
func AdminListSeries(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.VideoSeries{})
	if search := c.Query("search"); search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}
	if status := c.Query("status"); status == "published" {
		query = query.Where("is_published = ?", 1)
	} else if status == "draft" {
		query = query.Where("is_published = ?", 0)
	}

	var seriesList []models.VideoSeries
	if err := query.Order("created_at DESC").Find(&seriesList).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	list := make([]gin.H, 0, len(seriesList))
	for _, s := range seriesList {
		var videoCount int64
		db.Model(&models.SeriesVideo{}).Where("series_id = ?", s.ID).Count(&videoCount)
		list = append(list, gin.H{
			"id":            s.ID,
			"title":         s.Title,
			"subtitle":      s.Subtitle,
			"slug":          s.Slug,
			"description":   s.Description,
			"thumbnail_url": s.ThumbnailURL,
			"total_videos":  s.TotalVideos,
			"total_views":   s.TotalViews,
			"video_count":   videoCount,
			"is_published":  s.IsPublished,
			"is_featured":   s.IsFeatured,
			"created_at":    s.CreatedAt,
		})
	}
	utils.Success(c, gin.H{"series": list, "total": len(list)})
}

// AdminGetSeries 管理端系列详情（含全部单集）
func AdminGetSeries(c *gin.Context) {
	db := config.GetDB()

	var series models.VideoSeries
	err := db.Preload("Videos", func(db *gorm.DB) *gorm.DB {
		return db.Order("series_videos.position")
	}).First(&series, "id = ?", c.Param("id")).Error
	if err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "系列不存在")
		return
	}
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	videos := make([]gin.H, 0, len(series.Videos))
	for _, v := range series.Videos {
		videos = append(videos, gin.H{
			"id":            v.ID,
			"title":         v.Title,
			"subtitle":      v.Subtitle,
			"slug":          v.Slug,
			"description":   v.Description,
			"video_url":     v.VideoURL,
			"thumbnail_url": v.ThumbnailURL,
			"duration":      v.Duration,
			"position":      v.Position,
			"publish_date":  v.PublishDate,
			"tags":          utils.DecodeTags(v.Tags),
			"hashtags":      v.Hashtags,
			"views":         v.Views,
			"created_at":    v.CreatedAt,
		})
	}
	utils.Success(c, gin.H{
		"id":            series.ID,
		"title":         series.Title,
		"subtitle":      series.Subtitle,
		"slug":          series.Slug,
		"description":   series.Description,
		"thumbnail_url": series.ThumbnailURL,
		"total_videos":  series.TotalVideos,
		"total_views":   series.TotalViews,
		"is_published":  series.IsPublished,
		"is_featured":   series.IsFeatured,
		"videos":        videos,
	})
}

// AdminCreateSeries 创建系列及其单集
// 系列和单集slug自动去重；单集用到的标签登记一次使用计数
func AdminCreateSeries(c *gin.Context) {
	db := config.GetDB()

	var req CreateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	seriesSlug := req.Slug
	if seriesSlug == "" {
		seriesSlug = utils.Slugify(req.Title)
	}
	seriesSlug, err := utils.EnsureUniqueSlug(db, &models.VideoSeries{}, seriesSlug)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	isPublished := 1
	if req.IsPublished != nil {
		isPublished = *req.IsPublished
	}

	series := models.VideoSeries{
		Title:        req.Title,
		Subtitle:     req.Subtitle,
		Slug:         seriesSlug,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		TotalVideos:  len(req.Videos),
		IsPublished:  isPublished,
	}

	usedTags := make(map[string]struct{})

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&series).Error; err != nil {
			return err
		}
		for i, input := range req.Videos {
			publishDate, ok := parsePublishDate(input.PublishDate)
			if !ok {
				return gorm.ErrInvalidData
			}
			slug := input.Slug
			if slug == "" {
				slug = utils.Slugify(input.Title)
			}
			slug, err := utils.EnsureUniqueSlug(tx, &models.SeriesVideo{}, slug)
			if err != nil {
				return err
			}
			position := input.Position
			if position == 0 {
				position = i + 1
			}
			video := models.SeriesVideo{
				SeriesID:     series.ID,
				Title:        input.Title,
				Subtitle:     input.Subtitle,
				Slug:         slug,
				Description:  input.Description,
				VideoURL:     input.VideoURL,
				ThumbnailURL: input.ThumbnailURL,
				Duration:     input.Duration,
				Position:     position,
				PublishDate:  publishDate,
				Tags:         utils.EncodeTags(input.Tags),
				Hashtags:     input.Hashtags,
			}
			if err := tx.Create(&video).Error; err != nil {
				return err
			}
			for _, tag := range input.Tags {
				usedTags[tag] = struct{}{}
			}
		}

		tags := make([]string, 0, len(usedTags))
		for tag := range usedTags {
			tags = append(tags, tag)
		}
		return services.RegisterTags(tx, tags)
	})
	if err == gorm.ErrInvalidData {
		utils.Error(c, http.StatusBadRequest, "发布时间格式错误")
		return
	}
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	utils.SuccessMsg(c, "创建成功", gin.H{"id": series.ID, "slug": series.Slug})
}

// UpdateSeriesRequest 更新系列请求（仅更新携带的字段）
type UpdateSeriesRequest struct {
	Title        *string `json:"title"`
	Subtitle     *string `json:"subtitle"`
	Description  *string `json:"description"`
	ThumbnailURL *string `json:"thumbnail_url"`
	IsPublished  *int    `json:"is_published"`
}

// AdminUpdateSeries 更新系列基本信息
func AdminUpdateSeries(c *gin.Context) {
	db := config.GetDB()

	var series models.VideoSeries
	if err := db.First(&series, "id = ?", c.Param("id")).Error; err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "系列不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	var req UpdateSeriesRequest
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
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}
	if len(updates) == 0 {
		utils.SuccessMsg(c, "无变更", nil)
		return
	}

	if err := db.Model(&series).Updates(updates).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SuccessMsg(c, "更新成功", nil)
}

// AdminDeleteSeries 删除系列及其全部单集
func AdminDeleteSeries(c *gin.Context) {
	db := config.GetDB()
	id := c.Param("id")

	var series models.VideoSeries
	if err := db.First(&series, "id = ?", id).Error; err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "系列不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("series_id = ?", id).Delete(&models.SeriesVideo{}).Error; err != nil {
			return err
		}
		return tx.Delete(&series).Error
	})
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SuccessMsg(c, "删除成功", nil)
}

// AdminAddSeriesVideo 向系列追加单集并同步总集数
func AdminAddSeriesVideo(c *gin.Context) {
	db := config.GetDB()
	seriesID := c.Param("id")

	var series models.VideoSeries
	if err := db.First(&series, "id = ?", seriesID).Error; err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "系列不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	var input SeriesVideoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}
	publishDate, ok := parsePublishDate(input.PublishDate)
	if !ok {
		utils.Error(c, http.StatusBadRequest, "发布时间格式错误")
		return
	}

	slug := input.Slug
	if slug == "" {
		slug = utils.Slugify(input.Title)
	}
	slug, err := utils.EnsureUniqueSlug(db, &models.SeriesVideo{}, slug)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	video := models.SeriesVideo{
		SeriesID:     seriesID,
		Title:        input.Title,
		Subtitle:     input.Subtitle,
		Slug:         slug,
		Description:  input.Description,
		VideoURL:     input.VideoURL,
		ThumbnailURL: input.ThumbnailURL,
		Duration:     input.Duration,
		Position:     input.Position,
		PublishDate:  publishDate,
		Tags:         utils.EncodeTags(input.Tags),
		Hashtags:     input.Hashtags,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&video).Error; err != nil {
			return err
		}
		if err := services.RegisterTags(tx, input.Tags); err != nil {
			return err
		}
		return tx.Model(&series).
			UpdateColumn("total_videos", gorm.Expr("total_videos + 1")).Error
	})
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SuccessMsg(c, "添加成功", gin.H{"id": video.ID, "slug": video.Slug})
}

// EditSeriesVideoRequest 编辑单集请求（仅更新携带的字段）
type EditSeriesVideoRequest struct {
	Title        *string   `json:"title"`
	Subtitle     *string   `json:"subtitle"`
	Description  *string   `json:"description"`
	VideoURL     *string   `json:"video_url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	Duration     *int      `json:"duration"`
	Position     *int      `json:"position"`
	PublishDate  *string   `json:"publish_date"`
	Tags         *[]string `json:"tags"`
	Hashtags     *string   `json:"hashtags"`
}

// AdminEditSeriesVideo 编辑单集，新增的标签登记使用计数
func AdminEditSeriesVideo(c *gin.Context) {
	db := config.GetDB()

	var video models.SeriesVideo
	if err := db.First(&video, "id = ?", c.Param("video_id")).Error; err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "视频不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	var req EditSeriesVideoRequest
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
	if req.VideoURL != nil {
		updates["video_url"] = *req.VideoURL
	}
	if req.ThumbnailURL != nil {
		updates["thumbnail_url"] = *req.ThumbnailURL
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.PublishDate != nil {
		publishDate, ok := parsePublishDate(req.PublishDate)
		if !ok {
			utils.Error(c, http.StatusBadRequest, "发布时间格式错误")
			return
		}
		updates["publish_date"] = publishDate
	}
	if req.Hashtags != nil {
		updates["hashtags"] = *req.Hashtags
	}

	var newTags []string
	if req.Tags != nil {
		oldTags := utils.DecodeTags(video.Tags)
		oldSet := make(map[string]struct{}, len(oldTags))
		for _, tag := range oldTags {
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

// AdminDeleteSeriesVideo 删除单集并重算系列总集数
func AdminDeleteSeriesVideo(c *gin.Context) {
	db := config.GetDB()

	var video models.SeriesVideo
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
		var count int64
		if err := tx.Model(&models.SeriesVideo{}).
			Where("series_id = ?", video.SeriesID).Count(&count).Error; err != nil {
			return err
		}
		return tx.Model(&models.VideoSeries{}).Where("id = ?", video.SeriesID).
			UpdateColumn("total_videos", count).Error
	})
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SuccessMsg(c, "删除成功", nil)
}

// BulkDeleteRequest 批量删除请求
type BulkDeleteRequest struct {
	VideoIDs []string `json:"video_ids" binding:"required"`
}

// AdminBulkDeleteSeriesVideos 批量删除单集，涉及的系列总集数重算
func AdminBulkDeleteSeriesVideos(c *gin.Context) {
	db := config.GetDB()

	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.VideoIDs) == 0 {
		utils.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	var videos []models.SeriesVideo
	if err := db.Where("id IN ?", req.VideoIDs).Find(&videos).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	if len(videos) == 0 {
		utils.Error(c, http.StatusNotFound, "视频不存在")
		return
	}

	seriesIDs := make(map[string]struct{})
	for _, v := range videos {
		seriesIDs[v.SeriesID] = struct{}{}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id IN ?", req.VideoIDs).Delete(&models.SeriesVideo{}).Error; err != nil {
			return err
		}
		for seriesID := range seriesIDs {
			var count int64
			if err := tx.Model(&models.SeriesVideo{}).
				Where("series_id = ?", seriesID).Count(&count).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.VideoSeries{}).Where("id = ?", seriesID).
				UpdateColumn("total_videos", count).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SuccessMsg(c, "删除成功", gin.H{"deleted": len(videos)})
}

// AdminSetFeatured 设置推荐系列（同一时间只有一个）
func AdminSetFeatured(c *gin.Context) {
	db := config.GetDB()
	id := c.Param("id")

	var series models.VideoSeries
	if err := db.First(&series, "id = ?", id).Error; err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "系列不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	if series.IsPublished != 1 {
		utils.Error(c, http.StatusBadRequest, "未发布的系列不能设为推荐")
		return
	}

	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		// 先清掉所有推荐标记，再设目标系列
		if err := tx.Model(&models.VideoSeries{}).Where("is_featured = ?", 1).
			Updates(map[string]interface{}{"is_featured": 0, "featured_at": nil}).Error; err != nil {
			return err
		}
		return tx.Model(&series).
			Updates(map[string]interface{}{"is_featured": 1, "featured_at": now}).Error
	})
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SuccessMsg(c, "设置成功", gin.H{"id": series.ID, "featured_at": now})
}

// AdminUnsetFeatured 取消推荐
func AdminUnsetFeatured(c *gin.Context) {
	db := config.GetDB()
	id := c.Param("id")

	var series models.VideoSeries
	if err := db.First(&series, "id = ?", id).Error; err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "系列不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	err := db.Model(&series).
		Updates(map[string]interface{}{"is_featured": 0, "featured_at": nil}).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SuccessMsg(c, "已取消推荐", nil)
}
