package handles

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wildcms/config"
	"wildcms/middleware"
	"wildcms/utils"
)

// LoginRequest 管理员登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin 管理员登录，校验通过后签发JWT
func AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误")
		return
	}

	if req.Username != config.AppConfig.AdminUsername ||
		req.Password != config.AppConfig.AdminPassword {
		utils.Error(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	token, err := middleware.IssueAdminToken(req.Username)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "登录失败")
		return
	}

	utils.SuccessMsg(c, "登录成功", gin.H{
		"token":      token,
		"token_type": "Bearer",
		"username":   req.Username,
	})
}
