package handles

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wildcms/config"
	"wildcms/middleware"
	"wildcms/models"
	"wildcms/services"
	"wildcms/utils"
)

// SaveProgressRequest 保存观看进度请求
// current_time和duration允许为0（刚开始播放、时长未知）
type SaveProgressRequest struct {
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
	VideoType   string  `json:"video_type"`
}

// SaveWatchProgress 保存观看进度（游客不保存）
func SaveWatchProgress(c *gin.Context) {
	db := config.GetDB()
	slug := c.Param("slug")
	userID := middleware.CurrentUserID(c)

	if middleware.IsGuest(userID) {
		utils.Error(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var req SaveProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误")
		return
	}
	if req.CurrentTime < 0 {
		utils.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	resolved, err := services.ResolveVideo(db, slug)
	if err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "视频不存在")
		return
	} else if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	progress, err := services.SaveWatchProgress(db, userID, slug, resolved.Type, req.CurrentTime, req.Duration)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	utils.SuccessMsg(c, "进度已保存", gin.H{
		"progress_percentage": progress.ProgressPercentage,
		"completed":           progress.Completed == 1,
	})
}

// GetWatchProgress 获取单个视频的观看进度（无记录时返回零值）
func GetWatchProgress(c *gin.Context) {
	db := config.GetDB()
	slug := c.Param("slug")
	userID := middleware.CurrentUserID(c)

	empty := gin.H{
		"current_time":        float64(0),
		"duration":            float64(0),
		"progress_percentage": float64(0),
		"completed":           false,
		"last_watched":        nil,
	}

	if middleware.IsGuest(userID) {
		utils.Success(c, empty)
		return
	}

	var progress models.VideoWatchProgress
	err := db.Where("user_id = ? AND video_slug = ?", userID, slug).First(&progress).Error
	if err == gorm.ErrRecordNotFound {
		utils.Success(c, empty)
		return
	}
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	utils.Success(c, gin.H{
		"current_time":        progress.CurrentTime,
		"duration":            progress.Duration,
		"progress_percentage": progress.ProgressPercentage,
		"completed":           progress.Completed == 1,
		"last_watched":        progress.LastWatchedAt,
	})
}
