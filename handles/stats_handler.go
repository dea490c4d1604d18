package handles

import (
	"github.com/gin-gonic/gin"

	"wildcms/config"
	"wildcms/models"
	"wildcms/utils"
)

// AdminGetStats 管理端统计总览
// 汇总系列/频道/视频数量、总播放量和互动数据，并按系列和频道分组
func AdminGetStats(c *gin.Context) {
	db := config.GetDB()

	var seriesCount, channelCount, seriesVideoCount, channelVideoCount int64
	db.Model(&models.VideoSeries{}).Count(&seriesCount)
	db.Model(&models.VideoChannel{}).Count(&channelCount)
	db.Model(&models.SeriesVideo{}).Count(&seriesVideoCount)
	db.Model(&models.GeneralKnowledgeVideo{}).Count(&channelVideoCount)

	var seriesViews, channelViews int64
	db.Model(&models.SeriesVideo{}).Select("COALESCE(SUM(views), 0)").Scan(&seriesViews)
	db.Model(&models.GeneralKnowledgeVideo{}).Select("COALESCE(SUM(views), 0)").Scan(&channelViews)

	var commentCount, likeCount, dislikeCount int64
	db.Model(&models.VideoComment{}).Where("is_deleted = ?", 0).Count(&commentCount)
	db.Model(&models.VideoLike{}).Where("vote = ?", 1).Count(&likeCount)
	db.Model(&models.VideoLike{}).Where("vote = ?", -1).Count(&dislikeCount)

	// 按系列分组
	type seriesStat struct {
		ID         string `json:"id"`
		Title      string `json:"title"`
		VideoCount int64  `json:"video_count"`
		TotalViews int64  `json:"total_views"`
	}
	var seriesStats []seriesStat
	db.Table("video_series").
		Select("video_series.id, video_series.title, COUNT(series_videos.id) AS video_count, COALESCE(SUM(series_videos.views), 0) AS total_views").
		Joins("LEFT JOIN series_videos ON series_videos.series_id = video_series.id").
		Group("video_series.id, video_series.title").
		Order("total_views DESC").
		Scan(&seriesStats)

	// 按频道分组
	type channelStat struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		VideoCount int64  `json:"video_count"`
		TotalViews int64  `json:"total_views"`
	}
	var channelStats []channelStat
	db.Table("video_channels").
		Select("video_channels.id, video_channels.name, COUNT(general_knowledge_videos.id) AS video_count, COALESCE(SUM(general_knowledge_videos.views), 0) AS total_views").
		Joins("LEFT JOIN general_knowledge_videos ON general_knowledge_videos.channel_id = video_channels.id").
		Group("video_channels.id, video_channels.name").
		Order("total_views DESC").
		Scan(&channelStats)

	utils.Success(c, gin.H{
		"totals": gin.H{
			"series":         seriesCount,
			"channels":       channelCount,
			"series_videos":  seriesVideoCount,
			"channel_videos": channelVideoCount,
			"total_videos":   seriesVideoCount + channelVideoCount,
			"total_views":    seriesViews + channelViews,
			"comments":       commentCount,
			"likes":          likeCount,
			"dislikes":       dislikeCount,
		},
		"by_series":  seriesStats,
		"by_channel": channelStats,
	})
}
