package routes

import (
	"wildcms/handles"
	"wildcms/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes 设置路由
func SetupRoutes(r *gin.Engine) {
	// ============ 公开API（无需认证）============
	public := r.Group("/api")
	{
		// 健康检查
		public.GET("/health", healthCheck)

		// 视频浏览（只读）
		public.GET("/videos", handles.GetVideos)
		public.GET("/videos/categories", handles.GetVideoCategories)
		public.GET("/videos/featured-series", handles.GetFeaturedSeries)
		public.GET("/videos/tv_playlist", handles.GetTVPlaylist)
		public.GET("/videos/recent-watched", handles.GetRecentWatched)
		public.GET("/videos/:slug", handles.GetVideoBySlug)
		public.POST("/videos/:slug/view", handles.IncrementVideoView)

		// 观看进度（基于X-User-ID识别用户）
		public.GET("/videos/:slug/progress", handles.GetWatchProgress)
		public.POST("/videos/:slug/progress", handles.SaveWatchProgress)

		// 点赞/点踩
		public.GET("/videos/:slug/likes", handles.GetVideoLikes)
		public.POST("/videos/:slug/like", handles.ToggleVideoLike)

		// 评论
		public.GET("/videos/:slug/comments", handles.GetComments)
		public.POST("/videos/:slug/comments", handles.AddComment)
		public.GET("/comments/:comment_id/replies", handles.GetCommentReplies)
		public.PATCH("/comments/:comment_id", handles.EditComment)
		public.POST("/comments/:comment_id/like", handles.ToggleCommentLike)

		// 社区讨论
		public.GET("/discussions", handles.ListDiscussions)
		public.POST("/discussions", handles.CreateDiscussion)
		public.GET("/discussions/:slug", handles.GetDiscussion)
		public.GET("/discussions/:slug/comments", handles.GetDiscussionComments)
		public.POST("/discussions/:slug/comments", handles.AddDiscussionComment)
		public.POST("/discussion-comments/:comment_id/like", handles.ToggleDiscussionCommentLike)

		// 管理员登录
		public.POST("/admin/login", handles.AdminLogin)
	}

	// ============ 管理员API（需要认证）============
	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminAuth())
	{
		// 【系列管理】
		admin.GET("/series", handles.AdminListSeries)
		admin.POST("/series", handles.AdminCreateSeries)
		admin.GET("/series/:id", handles.AdminGetSeries)
		admin.PUT("/series/:id", handles.AdminUpdateSeries)
		admin.DELETE("/series/:id", handles.AdminDeleteSeries)
		admin.POST("/series/:id/videos", handles.AdminAddSeriesVideo)
		admin.POST("/series/:id/set-featured", handles.AdminSetFeatured)
		admin.POST("/series/:id/unset-featured", handles.AdminUnsetFeatured)

		// 【系列单集管理】
		admin.PUT("/series-videos/:video_id", handles.AdminEditSeriesVideo)
		admin.DELETE("/series-videos/:video_id", handles.AdminDeleteSeriesVideo)
		admin.POST("/series-videos/bulk-delete", handles.AdminBulkDeleteSeriesVideos)

		// 【频道管理】
		admin.GET("/channels", handles.AdminListChannels)
		admin.POST("/channels", handles.AdminCreateChannel)
		admin.GET("/channels/:id", handles.AdminGetChannel)
		admin.PUT("/channels/:id", handles.AdminUpdateChannel)
		admin.DELETE("/channels/:id", handles.AdminDeleteChannel)

		// 【频道视频管理】
		admin.POST("/channel-videos", handles.AdminSubmitChannelVideo)
		admin.PUT("/channel-videos/:video_id", handles.AdminUpdateChannelVideo)
		admin.DELETE("/channel-videos/:video_id", handles.AdminDeleteChannelVideo)

		// 【标签管理】
		admin.GET("/tags", handles.AdminListTags)
		admin.POST("/tags", handles.AdminAddTag)
		admin.PUT("/tags/:id", handles.AdminEditTag)
		admin.DELETE("/tags/:id", handles.AdminDeleteTag)

		// 【TV轮播管理】
		admin.GET("/tv/options", handles.AdminTVOptions)
		admin.GET("/tv/selection", handles.AdminGetTVSelection)
		admin.POST("/tv/selection", handles.AdminSaveTVSelection)

		// 【评论管理】
		admin.GET("/comments", handles.AdminListComments)
		admin.DELETE("/comments/:comment_id", handles.AdminDeleteComment)

		// 【讨论审核】
		admin.GET("/discussions/pending", handles.AdminListPendingDiscussions)
		admin.POST("/discussions/:id/moderate", handles.AdminModerateDiscussion)

		// 【媒体库 / 统计】
		admin.POST("/upload", handles.AdminUploadFile)
		admin.GET("/media", handles.AdminListMedia)
		admin.GET("/stats", handles.AdminGetStats)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"message": "Server is running",
	})
}
