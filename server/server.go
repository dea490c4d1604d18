package server

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"wildcms/config"
	"wildcms/middleware"
	"wildcms/routes"
)

type Server struct {
	Port   string
	router *gin.Engine
}

// NewServer 创建服务器实例
func NewServer(port string) *Server {
	// 设置 Gin 模式 (release/debug)
	gin.SetMode(gin.ReleaseMode)

	router := gin.Default()

	// CORS 中间件
	router.Use(middleware.CORS())

	return &Server{
		Port:   port,
		router: router,
	}
}

// Start 启动服务器
func (s *Server) Start() error {
	// 上传目录不存在则创建，并挂载为静态资源
	uploadDir := config.AppConfig.UploadDir
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		log.Printf("⚠️ 创建上传目录失败: %v\n", err)
	}
	s.router.Static("/uploads", uploadDir)

	// 设置路由
	routes.SetupRoutes(s.router)

	fmt.Printf("服务器启动在端口: %s\n", s.Port)
	fmt.Printf("访问地址: http://localhost:%s\n", s.Port)

	if err := s.router.Run(":" + s.Port); err != nil {
		return fmt.Errorf("服务器启动失败: %w", err)
	}

	return nil
}
