/*
Package config 配置管理包

项目结构说明：
================

项目目录结构：
/
├── main.go              # 程序入口，只负责启动应用
├── config/              # 配置相关
│   ├── config.go        # 应用配置
│   └── database.go      # 数据库连接和初始化
├── server/              # 服务器相关
│   └── server.go        # HTTP服务器启动逻辑
├── routes/              # 路由配置
│   └── routes.go        # API路由注册
├── handles/             # 业务逻辑处理层
│   ├── video_handler.go     # 视频目录API处理
│   ├── progress_handler.go  # 观看进度API处理
│   ├── like_handler.go      # 点赞/点踩API处理
│   ├── comment_handler.go   # 评论API处理
│   ├── discussion_handler.go# 社区讨论API处理
│   ├── auth_handler.go      # 管理员登录
│   ├── series_admin_handler.go   # 系列管理API
│   ├── channel_admin_handler.go  # 频道管理API
│   ├── tag_admin_handler.go      # 标签管理API
│   ├── tv_admin_handler.go       # TV轮播管理API
│   ├── comment_admin_handler.go  # 评论管理API
│   ├── upload_handler.go         # 文件上传API
│   └── stats_handler.go          # 统计API
├── services/            # 服务层（连接handle和model）
│   ├── catalog_service.go   # 视频目录解析（slug跨表解析）
│   ├── tag_service.go       # 标签自动注册和清理
│   └── upload_service.go    # 文件上传服务
├── models/              # 数据库模型
├── middleware/          # 中间件
│   ├── cors.go          # CORS跨域中间件
│   └── auth.go          # 管理员认证和用户识别中间件
└── utils/               # 工具函数

数据流向：
1. main.go -> 初始化配置和数据库 -> 启动server
2. server -> 注册routes -> handles处理请求
3. handles -> 调用services -> 操作models（数据库）

运行方式：
./wildcms （配置通过环境变量或.env文件）
*/
package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort    string
	DBDriver      string // postgres 或 sqlite
	DatabaseDSN   string
	DatabasePath  string // sqlite文件路径
	UploadDir     string
	MaxUploadSize int64 // 字节
	JWTSecret     string
	AdminUsername string
	AdminPassword string
}

var AppConfig *Config

// LoadConfig 加载配置
func LoadConfig() {
	// .env文件存在则加载，不存在忽略
	_ = godotenv.Load()

	AppConfig = &Config{
		ServerPort:    getEnv("PORT", "8080"),
		DBDriver:      getEnv("DB_DRIVER", "postgres"),
		DatabaseDSN:   getEnv("DATABASE_DSN", "host=localhost user=wildcms password=wildcms dbname=wildcms port=5432 sslmode=disable"),
		DatabasePath:  getEnv("DB_PATH", "wildcms.db"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadSize: 2 << 30, // 2GB
		JWTSecret:     getEnv("JWT_SECRET", "wildcms_dev_secret"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "wildcms_admin_2025"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
