package main

import (
	"log"

	"wildcms/config"
	"wildcms/server"
)

func main() {
	// 加载配置
	config.LoadConfig()

	// 初始化数据库
	if err := config.InitDatabase(); err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	// 启动HTTP服务
	srv := server.NewServer(config.AppConfig.ServerPort)
	if err := srv.Start(); err != nil {
		log.Fatal(err)
	}
}
