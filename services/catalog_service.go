package services

import (
	"time"

	"gorm.io/gorm"

	"wildcms/models"
	"wildcms/utils"
)

// 视频类型标识
const (
	VideoTypeSeries  = "series"
	VideoTypeChannel = "channel"
)

// ResolvedVideo slug跨表解析结果
// 视频分散在series_videos和general_knowledge_videos两张表中，
// 统一在此处解析一次，后续逻辑按Type分支，不再重复双表查询
type ResolvedVideo struct {
	Type    string // series 或 channel
	Series  *models.SeriesVideo
	Channel *models.GeneralKnowledgeVideo

	// 所属系列/频道
	SeriesInfo  *models.VideoSeries
	ChannelInfo *models.VideoChannel
}

// Slug 返回视频slug
func (v *ResolvedVideo) Slug() string {
	if v.Type == VideoTypeSeries {
		return v.Series.Slug
	}
	return v.Channel.Slug
}

// Tags 返回解码后的标签列表
func (v *ResolvedVideo) Tags() []string {
	if v.Type == VideoTypeSeries {
		return utils.DecodeTags(v.Series.Tags)
	}
	return utils.DecodeTags(v.Channel.Tags)
}

// ResolveVideo 按slug解析视频，先查系列视频表，再查频道视频表
// 两表均无匹配时返回gorm.ErrRecordNotFound
func ResolveVideo(db *gorm.DB, slug string) (*ResolvedVideo, error) {
	var sv models.SeriesVideo
	err := db.Where("slug = ?", slug).First(&sv).Error
	if err == nil {
		var series models.VideoSeries
		if err := db.Where("id = ?", sv.SeriesID).First(&series).Error; err != nil {
			return nil, err
		}
		return &ResolvedVideo{Type: VideoTypeSeries, Series: &sv, SeriesInfo: &series}, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var gv models.GeneralKnowledgeVideo
	if err := db.Where("slug = ?", slug).First(&gv).Error; err != nil {
		return nil, err
	}
	var channel models.VideoChannel
	if err := db.Where("id = ?", gv.ChannelID).First(&channel).Error; err != nil {
		return nil, err
	}
	return &ResolvedVideo{Type: VideoTypeChannel, Channel: &gv, ChannelInfo: &channel}, nil
}

// VisibleSeriesVideos 公开可见的系列视频查询
// 条件：所属系列已发布，且publish_date为空或早于当前时间
func VisibleSeriesVideos(db *gorm.DB) *gorm.DB {
	return db.Model(&models.SeriesVideo{}).
		Joins("JOIN video_series ON video_series.id = series_videos.series_id").
		Where("video_series.is_published = ?", 1).
		Where("series_videos.publish_date IS NULL OR series_videos.publish_date <= ?", time.Now())
}

// VisibleChannelVideos 公开可见的频道视频查询
// 条件：视频已发布，所属频道启用，且publish_date为空或早于当前时间
func VisibleChannelVideos(db *gorm.DB) *gorm.DB {
	return db.Model(&models.GeneralKnowledgeVideo{}).
		Joins("JOIN video_channels ON video_channels.id = general_knowledge_videos.channel_id").
		Where("general_knowledge_videos.is_published = ?", true).
		Where("video_channels.is_active = ?", true).
		Where("general_knowledge_videos.publish_date IS NULL OR general_knowledge_videos.publish_date <= ?", time.Now())
}

// RelatedVideo 相关推荐项
type RelatedVideo struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Subtitle     string   `json:"subtitle"`
	ThumbnailURL string   `json:"thumbnail_url"`
	Duration     int      `json:"duration"`
	Views        int      `json:"views"`
	Tags         []string `json:"tags"`
	Type         string   `json:"type"`
	ParentName   string   `json:"parent_name"`
	Slug         string   `json:"slug"`
}

// RelatedVideos 按标签交集选取相关视频
// 每张表各取10个候选（系列表优先、按创建顺序），过滤后最多返回6个
func RelatedVideos(db *gorm.DB, current *ResolvedVideo) ([]RelatedVideo, error) {
	tags := current.Tags()
	related := make([]RelatedVideo, 0, 6)
	if len(tags) == 0 {
		// 频道视频无标签时退化为同频道推荐
		if current.Type == VideoTypeChannel {
			return sameChannelVideos(db, current)
		}
		return related, nil
	}

	// 系列视频候选（排除当前系列）
	var seriesRows []struct {
		models.SeriesVideo
		SeriesTitle string
	}
	q := db.Table("series_videos").
		Select("series_videos.*, video_series.title AS series_title").
		Joins("JOIN video_series ON video_series.id = series_videos.series_id").
		Where("video_series.is_published = ?", 1)
	if current.Type == VideoTypeSeries {
		q = q.Where("series_videos.series_id <> ?", current.Series.SeriesID)
	}
	if err := q.Limit(10).Find(&seriesRows).Error; err != nil {
		return nil, err
	}
	for _, row := range seriesRows {
		rowTags := utils.DecodeTags(row.Tags)
		if utils.TagsIntersect(tags, rowTags) {
			related = append(related, RelatedVideo{
				ID: row.ID, Title: row.Title, Subtitle: row.Subtitle,
				ThumbnailURL: row.ThumbnailURL, Duration: row.Duration,
				Views: row.Views, Tags: rowTags,
				Type: VideoTypeSeries, ParentName: row.SeriesTitle, Slug: row.Slug,
			})
		}
	}

	// 频道视频候选（排除当前视频/当前频道）
	var channelRows []struct {
		models.GeneralKnowledgeVideo
		ChannelName string
	}
	cq := db.Table("general_knowledge_videos").
		Select("general_knowledge_videos.*, video_channels.name AS channel_name").
		Joins("JOIN video_channels ON video_channels.id = general_knowledge_videos.channel_id").
		Where("general_knowledge_videos.is_published = ?", true).
		Where("video_channels.is_active = ?", true)
	if current.Type == VideoTypeChannel {
		cq = cq.Where("general_knowledge_videos.id <> ?", current.Channel.ID)
	}
	if err := cq.Limit(10).Find(&channelRows).Error; err != nil {
		return nil, err
	}
	for _, row := range channelRows {
		rowTags := utils.DecodeTags(row.Tags)
		if utils.TagsIntersect(tags, rowTags) {
			related = append(related, RelatedVideo{
				ID: row.ID, Title: row.Title, Subtitle: row.Subtitle,
				ThumbnailURL: row.ThumbnailURL, Duration: row.Duration,
				Views: row.Views, Tags: rowTags,
				Type: VideoTypeChannel, ParentName: row.ChannelName, Slug: row.Slug,
			})
		}
	}

	if len(related) > 6 {
		related = related[:6]
	}
	return related, nil
}

// sameChannelVideos 同频道推荐（最多6个）
func sameChannelVideos(db *gorm.DB, current *ResolvedVideo) ([]RelatedVideo, error) {
	var videos []models.GeneralKnowledgeVideo
	err := db.Where("channel_id = ? AND id <> ? AND is_published = ?",
		current.Channel.ChannelID, current.Channel.ID, true).
		Limit(6).Find(&videos).Error
	if err != nil {
		return nil, err
	}
	related := make([]RelatedVideo, 0, len(videos))
	for _, v := range videos {
		related = append(related, RelatedVideo{
			ID: v.ID, Title: v.Title, Subtitle: v.Subtitle,
			ThumbnailURL: v.ThumbnailURL, Duration: v.Duration,
			Views: v.Views, Tags: utils.DecodeTags(v.Tags),
			Type: VideoTypeChannel, ParentName: current.ChannelInfo.Name, Slug: v.Slug,
		})
	}
	return related, nil
}
