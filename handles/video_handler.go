package handles

import (
	"net/http"
	"sort"
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

// VideoListItem 列表页视频项（系列视频和频道视频的统一视图）
type VideoListItem struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Subtitle           string   `json:"subtitle"`
	Description        string   `json:"description"`
	ThumbnailURL       string   `json:"thumbnail_url"`
	VideoURL           string   `json:"video_url"`
	Duration           int      `json:"duration"`
	Views              int      `json:"views"`
	Tags               []string `json:"tags"`
	Hashtags           string   `json:"hashtags"`
	Type               string   `json:"type"`
	SeriesName         string   `json:"series_name,omitempty"`
	ChannelName        string   `json:"channel_name,omitempty"`
	EpisodeNumber      int      `json:"episode_number,omitempty"`
	TotalEpisodes      int      `json:"total_episodes,omitempty"`
	Slug               string   `json:"slug"`
	PublishDate        *string  `json:"publish_date"`
	ProgressPercentage float64  `json:"progress_percentage"`
	Completed          int      `json:"completed"`
}

// loadProgressMap 加载用户全部观看进度，按slug索引
func loadProgressMap(db *gorm.DB, userID string) (map[string]models.VideoWatchProgress, error) {
	progressMap := make(map[string]models.VideoWatchProgress)
	if middleware.IsGuest(userID) {
		return progressMap, nil
	}
	var records []models.VideoWatchProgress
	if err := db.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		return nil, err
	}
	for _, p := range records {
		progressMap[p.VideoSlug] = p
	}
	return progressMap, nil
}

// GetVideos 获取视频列表（系列视频 + 频道视频合并）
// 支持search（标题/副标题/描述模糊匹配）和category（标签）筛选
// 携带X-User-ID时合并该用户的观看进度
func GetVideos(c *gin.Context) {
	db := config.GetDB()
	userID := middleware.CurrentUserID(c)

	search := strings.ToLower(c.Query("search"))
	category := strings.ToLower(c.Query("category"))

	progressMap, err := loadProgressMap(db, userID)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	videosList := make([]VideoListItem, 0)

	// 系列视频（系列已发布且到达发布时间）
	var seriesRows []struct {
		models.SeriesVideo
		SeriesTitle string
		SeriesTotal int
	}
	err = services.VisibleSeriesVideos(db).
		Select("series_videos.*, video_series.title AS series_title, video_series.total_videos AS series_total").
		Order("video_series.created_at DESC, series_videos.position").
		Find(&seriesRows).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	for _, row := range seriesRows {
		item := VideoListItem{
			ID:            row.ID,
			Title:         row.Title,
			Subtitle:      row.Subtitle,
			Description:   row.Description,
			ThumbnailURL:  uploadURL(row.ThumbnailURL),
			VideoURL:      uploadURL(row.VideoURL),
			Duration:      row.Duration,
			Views:         row.Views,
			Tags:          utils.DecodeTags(row.Tags),
			Hashtags:      row.Hashtags,
			Type:          services.VideoTypeSeries,
			SeriesName:    row.SeriesTitle,
			EpisodeNumber: row.Position,
			TotalEpisodes: row.SeriesTotal,
			Slug:          row.Slug,
		}
		if row.PublishDate != nil {
			s := row.PublishDate.Format("2006-01-02T15:04:05Z07:00")
			item.PublishDate = &s
		}
		if p, ok := progressMap[row.Slug]; ok {
			item.ProgressPercentage = p.ProgressPercentage
			item.Completed = p.Completed
		}
		videosList = append(videosList, item)
	}

	// 频道视频（已发布、频道启用、到达发布时间）
	var channelRows []struct {
		models.GeneralKnowledgeVideo
		ChannelName string
	}
	err = services.VisibleChannelVideos(db).
		Select("general_knowledge_videos.*, video_channels.name AS channel_name").
		Order("general_knowledge_videos.created_at DESC").
		Find(&channelRows).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	for _, row := range channelRows {
		item := VideoListItem{
			ID:           row.ID,
			Title:        row.Title,
			Subtitle:     row.Subtitle,
			Description:  row.Description,
			ThumbnailURL: uploadURL(row.ThumbnailURL),
			VideoURL:     uploadURL(row.VideoURL),
			Duration:     row.Duration,
			Views:        row.Views,
			Tags:         utils.DecodeTags(row.Tags),
			Hashtags:     row.Hashtags,
			Type:         services.VideoTypeChannel,
			ChannelName:  row.ChannelName,
			Slug:         row.Slug,
		}
		if row.PublishDate != nil {
			s := row.PublishDate.Format("2006-01-02T15:04:05Z07:00")
			item.PublishDate = &s
		}
		if p, ok := progressMap[row.Slug]; ok {
			item.ProgressPercentage = p.ProgressPercentage
			item.Completed = p.Completed
		}
		videosList = append(videosList, item)
	}

	// 搜索过滤
	if search != "" {
		filtered := videosList[:0]
		for _, v := range videosList {
			if strings.Contains(strings.ToLower(v.Title), search) ||
				strings.Contains(strings.ToLower(v.Subtitle), search) ||
				strings.Contains(strings.ToLower(v.Description), search) {
				filtered = append(filtered, v)
			}
		}
		videosList = filtered
	}

	// 分类过滤："all"不过滤，"series"按类型，其余按标签匹配
	if category != "" && category != "all" {
		filtered := videosList[:0]
		for _, v := range videosList {
			if category == services.VideoTypeSeries {
				if v.Type == services.VideoTypeSeries {
					filtered = append(filtered, v)
				}
				continue
			}
			for _, tag := range v.Tags {
				if strings.ToLower(tag) == category {
					filtered = append(filtered, v)
					break
				}
			}
		}
		videosList = filtered
	}

	utils.Success(c, gin.H{
		"videos": videosList,
		"total":  len(videosList),
	})
}

// uploadURL 补全上传文件的访问路径
func uploadURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "/uploads/") {
		return path
	}
	return "/uploads/" + strings.TrimPrefix(path, "/")
}

// GetVideoCategories 汇总所有视频标签作为动态分类（小写去重计数，按数量降序）
func GetVideoCategories(c *gin.Context) {
	db := config.GetDB()

	allTags := make(map[string]int)

	var seriesVideos []models.SeriesVideo
	err := db.Joins("JOIN video_series ON video_series.id = series_videos.series_id").
		Where("video_series.is_published = ?", 1).
		Find(&seriesVideos).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	for _, v := range seriesVideos {
		for _, tag := range utils.DecodeTags(v.Tags) {
			allTags[strings.ToLower(tag)]++
		}
	}

	var channelVideos []models.GeneralKnowledgeVideo
	err = db.Joins("JOIN video_channels ON video_channels.id = general_knowledge_videos.channel_id").
		Where("general_knowledge_videos.is_published = ? AND video_channels.is_active = ?", true, true).
		Find(&channelVideos).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	for _, v := range channelVideos {
		for _, tag := range utils.DecodeTags(v.Tags) {
			allTags[strings.ToLower(tag)]++
		}
	}

	type category struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
		Label string `json:"label"`
	}
	categories := make([]category, 0, len(allTags))
	for tag, count := range allTags {
		label := tag
		if len(label) > 0 {
			label = strings.ToUpper(label[:1]) + label[1:]
		}
		categories = append(categories, category{Name: tag, Count: count, Label: label})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Count != categories[j].Count {
			return categories[i].Count > categories[j].Count
		}
		return categories[i].Name < categories[j].Name
	})

	utils.Success(c, gin.H{"categories": categories})
}

// GetVideoBySlug 按slug获取视频详情
// 返回视频信息、系列导航（系列视频）、相关推荐和点赞统计
func GetVideoBySlug(c *gin.Context) {
	db := config.GetDB()
	slug := c.Param("slug")

	resolved, err := services.ResolveVideo(db, slug)
	if err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "视频不存在")
		return
	}
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	// 详情页同样遵守发布状态
	if resolved.Type == services.VideoTypeSeries && resolved.SeriesInfo.IsPublished != 1 {
		utils.Error(c, http.StatusNotFound, "视频不存在")
		return
	}
	if resolved.Type == services.VideoTypeChannel &&
		(!resolved.Channel.IsPublished || !resolved.ChannelInfo.IsActive) {
		utils.Error(c, http.StatusNotFound, "视频不存在")
		return
	}

	videoData := gin.H{}
	seriesVideos := make([]gin.H, 0)

	if resolved.Type == services.VideoTypeSeries {
		v, s := resolved.Series, resolved.SeriesInfo
		videoData = gin.H{
			"id":             v.ID,
			"title":          v.Title,
			"subtitle":       v.Subtitle,
			"description":    v.Description,
			"thumbnail_url":  uploadURL(v.ThumbnailURL),
			"video_url":      uploadURL(v.VideoURL),
			"duration":       v.Duration,
			"views":          v.Views,
			"tags":           utils.DecodeTags(v.Tags),
			"hashtags":       v.Hashtags,
			"type":           services.VideoTypeSeries,
			"series_id":      s.ID,
			"series_name":    s.Title,
			"episode_number": v.Position,
			"total_episodes": s.TotalVideos,
			"slug":           v.Slug,
			"created_at":     v.CreatedAt,
		}

		// 系列内全部视频，用于剧集导航
		var all []models.SeriesVideo
		if err := db.Where("series_id = ?", s.ID).Order("position").Find(&all).Error; err != nil {
			utils.Error(c, http.StatusInternalServerError, err.Error())
			return
		}
		for _, sv := range all {
			seriesVideos = append(seriesVideos, gin.H{
				"id":            sv.ID,
				"title":         sv.Title,
				"subtitle":      sv.Subtitle,
				"thumbnail_url": uploadURL(sv.ThumbnailURL),
				"video_url":     uploadURL(sv.VideoURL),
				"duration":      sv.Duration,
				"views":         sv.Views,
				"position":      sv.Position,
				"slug":          sv.Slug,
				"is_current":    sv.ID == v.ID,
			})
		}
	} else {
		v, ch := resolved.Channel, resolved.ChannelInfo
		videoData = gin.H{
			"id":            v.ID,
			"title":         v.Title,
			"subtitle":      v.Subtitle,
			"description":   v.Description,
			"thumbnail_url": uploadURL(v.ThumbnailURL),
			"video_url":     uploadURL(v.VideoURL),
			"duration":      v.Duration,
			"views":         v.Views,
			"tags":          utils.DecodeTags(v.Tags),
			"hashtags":      v.Hashtags,
			"type":          services.VideoTypeChannel,
			"channel_id":    ch.ID,
			"channel_name":  ch.Name,
			"slug":          v.Slug,
			"created_at":    v.CreatedAt,
		}
	}

	related, err := services.RelatedVideos(db, resolved)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	// 点赞/点踩统计
	var likes, dislikes int64
	db.Model(&models.VideoLike{}).Where("video_slug = ? AND vote = ?", slug, 1).Count(&likes)
	db.Model(&models.VideoLike{}).Where("video_slug = ? AND vote = ?", slug, -1).Count(&dislikes)
	videoData["likes"] = likes
	videoData["dislikes"] = dislikes

	utils.Success(c, gin.H{
		"video":          videoData,
		"series_videos":  seriesVideos,
		"related_videos": related,
	})
}

// IncrementVideoView 视频播放计数+1（系列视频同时累加系列总播放量）
func IncrementVideoView(c *gin.Context) {
	db := config.GetDB()
	slug := c.Param("slug")

	resolved, err := services.ResolveVideo(db, slug)
	if err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "视频不存在")
		return
	}
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	if resolved.Type == services.VideoTypeSeries {
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(resolved.Series).UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
				return err
			}
			return tx.Model(resolved.SeriesInfo).UpdateColumn("total_views", gorm.Expr("total_views + 1")).Error
		})
		if err != nil {
			utils.Error(c, http.StatusInternalServerError, err.Error())
			return
		}
		utils.Success(c, gin.H{"views": resolved.Series.Views + 1, "type": services.VideoTypeSeries})
		return
	}

	if err := db.Model(resolved.Channel).UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.Success(c, gin.H{"views": resolved.Channel.Views + 1, "type": services.VideoTypeChannel})
}

// GetFeaturedSeries 获取推荐系列（无推荐时回退到最新发布的系列）
// 返回系列下全部视频及当前用户的观看进度
func GetFeaturedSeries(c *gin.Context) {
	db := config.GetDB()
	userID := middleware.CurrentUserID(c)

	var series models.VideoSeries
	err := db.Where("is_featured = ? AND is_published = ?", 1, 1).
		Order("featured_at DESC").First(&series).Error
	if err == gorm.ErrRecordNotFound {
		err = db.Where("is_published = ?", 1).Order("created_at DESC").First(&series).Error
	}
	if err == gorm.ErrRecordNotFound {
		utils.SuccessMsg(c, "暂无系列", gin.H{"featured_series": nil})
		return
	}
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	var videos []models.SeriesVideo
	if err := db.Where("series_id = ?", series.ID).Order("position").Find(&videos).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	progressMap, err := loadProgressMap(db, userID)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	videosData := make([]gin.H, 0, len(videos))
	for _, v := range videos {
		item := gin.H{
			"id":                  v.ID,
			"title":               v.Title,
			"subtitle":            v.Subtitle,
			"description":         v.Description,
			"thumbnail_url":       uploadURL(v.ThumbnailURL),
			"video_url":           uploadURL(v.VideoURL),
			"duration":            v.Duration,
			"views":               v.Views,
			"slug":                v.Slug,
			"position":            v.Position,
			"progress_percentage": float64(0),
			"completed":           0,
			"last_watched":        nil,
		}
		if p, ok := progressMap[v.Slug]; ok {
			item["progress_percentage"] = p.ProgressPercentage
			item["completed"] = p.Completed
			item["last_watched"] = p.UpdatedAt
		}
		videosData = append(videosData, item)
	}

	utils.Success(c, gin.H{
		"featured_series": gin.H{
			"id":            series.ID,
			"title":         series.Title,
			"subtitle":      series.Subtitle,
			"description":   series.Description,
			"thumbnail_url": uploadURL(series.ThumbnailURL),
			"slug":          series.Slug,
			"total_videos":  series.TotalVideos,
			"total_views":   series.TotalViews,
			"is_featured":   series.IsFeatured == 1,
			"videos":        videosData,
		},
	})
}

// GetTVPlaylist 获取TV轮播列表
// 元数据优先实时解析源视频，解析不到时使用保存时复制的快照
func GetTVPlaylist(c *gin.Context) {
	db := config.GetDB()

	var items []models.TVPlaylistItem
	if err := db.Order("position").Find(&items).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	playlist := make([]gin.H, 0, len(items))
	for _, it := range items {
		entry := gin.H{
			"position":      it.Position,
			"slug":          it.VideoSlug,
			"title":         it.Title,
			"thumbnail_url": it.ThumbnailURL,
			"type":          nil,
			"parent":        nil,
		}
		resolved, err := services.ResolveVideo(db, it.VideoSlug)
		if err == nil {
			if resolved.Type == services.VideoTypeSeries {
				entry["title"] = resolved.Series.Title
				entry["thumbnail_url"] = resolved.Series.ThumbnailURL
				entry["parent"] = resolved.SeriesInfo.Title
			} else {
				entry["title"] = resolved.Channel.Title
				entry["thumbnail_url"] = resolved.Channel.ThumbnailURL
				entry["parent"] = resolved.ChannelInfo.Name
			}
			entry["type"] = resolved.Type
		}
		playlist = append(playlist, entry)
	}

	utils.Success(c, gin.H{"playlist": playlist})
}

// GetRecentWatched 获取用户最近观看的视频
// 无观看记录或记录不足时，用最新发布的频道视频补齐
func GetRecentWatched(c *gin.Context) {
	db := config.GetDB()
	userID := middleware.CurrentUserID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "3"))
	if limit < 1 || limit > 20 {
		limit = 3
	}

	videosData := make([]gin.H, 0, limit)
	excludeSlugs := make([]string, 0, limit)

	if !middleware.IsGuest(userID) {
		var records []models.VideoWatchProgress
		err := db.Where("user_id = ?", userID).
			Order("updated_at DESC").Limit(limit).Find(&records).Error
		if err != nil {
			utils.Error(c, http.StatusInternalServerError, err.Error())
			return
		}

		for _, p := range records {
			resolved, err := services.ResolveVideo(db, p.VideoSlug)
			if err != nil {
				continue
			}
			var item gin.H
			if resolved.Type == services.VideoTypeSeries {
				v := resolved.Series
				item = gin.H{
					"id": v.ID, "title": v.Title, "subtitle": v.Subtitle,
					"description":   v.Description,
					"thumbnail_url": uploadURL(v.ThumbnailURL),
					"video_url":     uploadURL(v.VideoURL),
					"duration":      v.Duration, "views": v.Views,
					"slug": v.Slug, "tags": utils.DecodeTags(v.Tags),
					"type":        services.VideoTypeSeries,
					"parent_name": resolved.SeriesInfo.Title,
				}
			} else {
				v := resolved.Channel
				item = gin.H{
					"id": v.ID, "title": v.Title, "subtitle": v.Subtitle,
					"description":   v.Description,
					"thumbnail_url": uploadURL(v.ThumbnailURL),
					"video_url":     uploadURL(v.VideoURL),
					"duration":      v.Duration, "views": v.Views,
					"slug": v.Slug, "tags": utils.DecodeTags(v.Tags),
					"type":        services.VideoTypeChannel,
					"parent_name": resolved.ChannelInfo.Name,
				}
			}
			item["progress_percentage"] = p.ProgressPercentage
			item["completed"] = p.Completed
			item["last_watched"] = p.UpdatedAt
			videosData = append(videosData, item)
			excludeSlugs = append(excludeSlugs, p.VideoSlug)
		}
	}

	// 补齐：最新发布的频道视频
	if len(videosData) < limit {
		remaining := limit - len(videosData)

		query := db.Table("general_knowledge_videos").
			Select("general_knowledge_videos.*, video_channels.name AS channel_name").
			Joins("JOIN video_channels ON video_channels.id = general_knowledge_videos.channel_id").
			Where("general_knowledge_videos.is_published = ? AND video_channels.is_active = ?", true, true)
		if len(excludeSlugs) > 0 {
			query = query.Where("general_knowledge_videos.slug NOT IN ?", excludeSlugs)
		}

		var recent []struct {
			models.GeneralKnowledgeVideo
			ChannelName string
		}
		err := query.Order("general_knowledge_videos.created_at DESC").
			Limit(remaining).Find(&recent).Error
		if err != nil {
			utils.Error(c, http.StatusInternalServerError, err.Error())
			return
		}

		for _, row := range recent {
			videosData = append(videosData, gin.H{
				"id": row.ID, "title": row.Title, "subtitle": row.Subtitle,
				"description":   row.Description,
				"thumbnail_url": uploadURL(row.ThumbnailURL),
				"video_url":     uploadURL(row.VideoURL),
				"duration":      row.Duration, "views": row.Views,
				"slug": row.Slug, "tags": utils.DecodeTags(row.Tags),
				"type":                services.VideoTypeChannel,
				"parent_name":         row.ChannelName,
				"progress_percentage": float64(0),
				"completed":           0,
				"last_watched":        nil,
			})
		}
	}

	if len(videosData) > limit {
		videosData = videosData[:limit]
	}
	utils.Success(c, gin.H{"recent_videos": videosData})
}
