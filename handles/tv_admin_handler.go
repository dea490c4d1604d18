package handles

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wildcms/config"
	"wildcms/models"
	"wildcms/services"
	"wildcms/utils"
)

// MaxTVPlaylistSize TV轮播上限
const MaxTVPlaylistSize = 3

// AdminTVOptions 可选视频列表（全部系列视频和频道视频，供管理员挑选）
func AdminTVOptions(c *gin.Context) {
	db := config.GetDB()

	options := make([]gin.H, 0)

	var seriesRows []struct {
		models.SeriesVideo
		SeriesTitle string
	}
	err := db.Table("series_videos").
		Select("series_videos.*, video_series.title AS series_title").
		Joins("JOIN video_series ON video_series.id = series_videos.series_id").
		Order("video_series.title, series_videos.position").
		Find(&seriesRows).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	for _, row := range seriesRows {
		options = append(options, gin.H{
			"slug":          row.Slug,
			"title":         row.Title,
			"thumbnail_url": row.ThumbnailURL,
			"type":          services.VideoTypeSeries,
			"parent":        row.SeriesTitle,
		})
	}

	var channelRows []struct {
		models.GeneralKnowledgeVideo
		ChannelName string
	}
	err = db.Table("general_knowledge_videos").
		Select("general_knowledge_videos.*, video_channels.name AS channel_name").
		Joins("JOIN video_channels ON video_channels.id = general_knowledge_videos.channel_id").
		Order("video_channels.name, general_knowledge_videos.created_at DESC").
		Find(&channelRows).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	for _, row := range channelRows {
		options = append(options, gin.H{
			"slug":          row.Slug,
			"title":         row.Title,
			"thumbnail_url": row.ThumbnailURL,
			"type":          services.VideoTypeChannel,
			"parent":        row.ChannelName,
		})
	}

	utils.Success(c, gin.H{"videos": options, "total": len(options)})
}

// AdminGetTVSelection 当前TV轮播配置
func AdminGetTVSelection(c *gin.Context) {
	db := config.GetDB()

	var items []models.TVPlaylistItem
	if err := db.Order("position").Find(&items).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	selection := make([]gin.H, 0, len(items))
	for _, it := range items {
		selection = append(selection, gin.H{
			"position":      it.Position,
			"slug":          it.VideoSlug,
			"title":         it.Title,
			"thumbnail_url": it.ThumbnailURL,
		})
	}
	utils.Success(c, gin.H{"selection": selection, "max_size": MaxTVPlaylistSize})
}

// SaveTVSelectionRequest 保存TV轮播请求（slug按播放顺序排列）
type SaveTVSelectionRequest struct {
	Slugs []string `json:"slugs" binding:"required"`
}

// AdminSaveTVSelection 保存TV轮播：整表替换，最多3个
// 保存时复制视频标题和封面作为快照
func AdminSaveTVSelection(c *gin.Context) {
	db := config.GetDB()

	var req SaveTVSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误")
		return
	}
	if len(req.Slugs) > MaxTVPlaylistSize {
		utils.Error(c, http.StatusBadRequest, "最多选择3个视频")
		return
	}

	// 先解析所有slug，失败则整体拒绝
	items := make([]models.TVPlaylistItem, 0, len(req.Slugs))
	for i, slug := range req.Slugs {
		resolved, err := services.ResolveVideo(db, slug)
		if err == gorm.ErrRecordNotFound {
			utils.Error(c, http.StatusNotFound, "视频不存在: "+slug)
			return
		}
		if err != nil {
			utils.Error(c, http.StatusInternalServerError, err.Error())
			return
		}
		item := models.TVPlaylistItem{
			Position:  i + 1,
			VideoSlug: slug,
		}
		if resolved.Type == services.VideoTypeSeries {
			item.Title = resolved.Series.Title
			item.ThumbnailURL = resolved.Series.ThumbnailURL
		} else {
			item.Title = resolved.Channel.Title
			item.ThumbnailURL = resolved.Channel.ThumbnailURL
		}
		items = append(items, item)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.TVPlaylistItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SuccessMsg(c, "保存成功", gin.H{"count": len(items)})
}
