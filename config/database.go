package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"wildcms/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDatabase 初始化数据库
func InitDatabase() error {
	var err error

	// 配置日志
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	gormConfig := &gorm.Config{
		Logger: newLogger,
		// 唯一约束冲突转换为gorm.ErrDuplicatedKey，避免按错误字符串判断
		TranslateError: true,
	}

	// 连接数据库（生产使用PostgreSQL，本地开发可切换SQLite）
	switch AppConfig.DBDriver {
	case "sqlite":
		DB, err = gorm.Open(sqlite.Open(AppConfig.DatabasePath), gormConfig)
	default:
		DB, err = gorm.Open(postgres.Open(AppConfig.DatabaseDSN), gormConfig)
	}
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	// 自动迁移表结构
	err = DB.AutoMigrate(
		&models.User{},
		&models.VideoSeries{},
		&models.SeriesVideo{},
		&models.VideoChannel{},
		&models.GeneralKnowledgeVideo{},
		&models.VideoTag{},
		&models.VideoLike{},
		&models.VideoComment{},
		&models.VideoCommentLike{},
		&models.VideoWatchProgress{},
		&models.TVPlaylistItem{},
		&models.Discussion{},
		&models.DiscussionComment{},
		&models.DiscussionCommentLike{},
	)
	if err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	fmt.Println("数据库初始化成功")
	return nil
}

// GetDB 获取数据库实例
func GetDB() *gorm.DB {
	return DB
}
