package handles

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wildcms/config"
	"wildcms/middleware"
	"wildcms/models"
	"wildcms/services"
	"wildcms/utils"
)

// VoteRequest 点赞/点踩请求，vote取1或-1
type VoteRequest struct {
	Vote int `json:"vote" binding:"required"`
}

// ToggleVideoLike 视频点赞/点踩切换
// 重复同向投票取消，反向投票覆盖
func ToggleVideoLike(c *gin.Context) {
	db := config.GetDB()
	slug := c.Param("slug")
	userID := middleware.CurrentUserID(c)

	if middleware.IsGuest(userID) {
		utils.Error(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Vote != 1 && req.Vote != -1) {
		utils.Error(c, http.StatusBadRequest, "vote必须为1或-1")
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

	action, err := services.ToggleVideoVote(db, userID, slug, resolved.Type, req.Vote)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// 并发首投撞唯一索引
		utils.Error(c, http.StatusConflict, "请勿重复投票")
		return
	}
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	var likes, dislikes int64
	db.Model(&models.VideoLike{}).Where("video_slug = ? AND vote = ?", slug, 1).Count(&likes)
	db.Model(&models.VideoLike{}).Where("video_slug = ? AND vote = ?", slug, -1).Count(&dislikes)

	msg := map[string]string{
		services.VoteAdded:   "投票成功",
		services.VoteUpdated: "投票已更新",
		services.VoteRemoved: "投票已取消",
	}[action]

	utils.SuccessMsg(c, msg, gin.H{
		"action":   action,
		"likes":    likes,
		"dislikes": dislikes,
	})
}

// GetVideoLikes 获取视频点赞统计和当前用户的投票状态
func GetVideoLikes(c *gin.Context) {
	db := config.GetDB()
	slug := c.Param("slug")
	userID := middleware.CurrentUserID(c)

	var likes, dislikes int64
	db.Model(&models.VideoLike{}).Where("video_slug = ? AND vote = ?", slug, 1).Count(&likes)
	db.Model(&models.VideoLike{}).Where("video_slug = ? AND vote = ?", slug, -1).Count(&dislikes)

	var userVote interface{}
	if !middleware.IsGuest(userID) {
		var like models.VideoLike
		err := db.Where("user_id = ? AND video_slug = ?", userID, slug).First(&like).Error
		if err == nil {
			userVote = like.Vote
		} else if err != gorm.ErrRecordNotFound {
			utils.Error(c, http.StatusInternalServerError, err.Error())
			return
		}
	}

	utils.Success(c, gin.H{
		"likes":     likes,
		"dislikes":  dislikes,
		"user_vote": userVote,
	})
}

// ToggleCommentLike 评论点赞切换
func ToggleCommentLike(c *gin.Context) {
	db := config.GetDB()
	commentID := c.Param("comment_id")
	userID := middleware.CurrentUserID(c)

	if middleware.IsGuest(userID) {
		utils.Error(c, http.StatusUnauthorized, "请先登录")
		return
	}

	liked, count, err := services.ToggleCommentLike(db, userID, commentID)
	if err == gorm.ErrRecordNotFound {
		utils.Error(c, http.StatusNotFound, "评论不存在")
		return
	}
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	msg := "已点赞"
	if !liked {
		msg = "已取消点赞"
	}
	utils.SuccessMsg(c, msg, gin.H{
		"liked":       liked,
		"likes_count": count,
	})
}
