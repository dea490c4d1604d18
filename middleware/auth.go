package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"wildcms/config"
)

// GuestUserID 游客用户ID哨兵值，写操作一律拒绝
const GuestUserID = "00000000-0000-0000-0000-000000000000"

// AdminClaims 管理员Token载荷
type AdminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// IssueAdminToken 签发管理员JWT，24小时有效
func IssueAdminToken(username string) (string, error) {
	claims := AdminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// AdminAuth 管理员认证中间件
// 校验Authorization头中的Bearer JWT
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": 401,
				"msg":  "未提供认证信息",
			})
			c.Abort()
			return
		}

		// 支持 "Bearer token" 和 "token" 两种格式
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		tokenStr = strings.TrimSpace(tokenStr)

		claims := &AdminClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(config.AppConfig.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": 401,
				"msg":  "认证失败，无权限访问",
			})
			c.Abort()
			return
		}

		c.Set("admin_username", claims.Username)
		c.Next()
	}
}

// CurrentUserID 从X-User-ID头解析用户身份
// 缺失或非法UUID视为游客
func CurrentUserID(c *gin.Context) string {
	userID := strings.TrimSpace(c.GetHeader("X-User-ID"))
	if userID == "" {
		return GuestUserID
	}
	if _, err := uuid.Parse(userID); err != nil {
		return GuestUserID
	}
	return userID
}

// IsGuest 判断是否为游客身份
func IsGuest(userID string) bool {
	return userID == "" || userID == GuestUserID
}
