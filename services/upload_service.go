package services

import (
	"fmt"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wildcms/config"
)

// 上传文件分类目录
const (
	UploadCategoryVideos     = "videos"
	UploadCategoryThumbnails = "thumbnails"
	UploadCategoryChannels   = "channel_thumbnails"
)

// UploadResult 上传结果
type UploadResult struct {
	FileURL  string `json:"file_url"` // 相对路径，如 videos/xxx.mp4
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

var allowedCategories = map[string]bool{
	UploadCategoryVideos:     true,
	UploadCategoryThumbnails: true,
	UploadCategoryChannels:   true,
}

// SaveUploadedFile 保存上传文件到 uploads/<category>/ 目录
// 文件名前缀uuid避免冲突，返回相对路径、大小和MIME类型
func SaveUploadedFile(c *gin.Context, file *multipart.FileHeader, category string) (*UploadResult, error) {
	if !allowedCategories[category] {
		return nil, fmt.Errorf("不支持的文件分类: %s", category)
	}
	if file.Size > config.AppConfig.MaxUploadSize {
		return nil, fmt.Errorf("文件超过大小限制")
	}

	dir := filepath.Join(config.AppConfig.UploadDir, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}

	filename := fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(file.Filename))
	dst := filepath.Join(dir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return nil, fmt.Errorf("保存文件失败: %w", err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(file.Filename))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return &UploadResult{
		FileURL:  category + "/" + filename,
		Size:     file.Size,
		MimeType: mimeType,
	}, nil
}

// UploadedFile 媒体库文件项
type UploadedFile struct {
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	FileURL    string    `json:"file_url"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mime_type"`
	ModifiedAt time.Time `json:"modified_at"`
}

// ListUploadedFiles 列出上传目录下的文件，按修改时间倒序
// category为空时遍历全部分类，分类目录不存在视为空
func ListUploadedFiles(category string) ([]UploadedFile, error) {
	categories := []string{UploadCategoryVideos, UploadCategoryThumbnails, UploadCategoryChannels}
	if category != "" {
		if !allowedCategories[category] {
			return nil, fmt.Errorf("不支持的文件分类: %s", category)
		}
		categories = []string{category}
	}

	files := make([]UploadedFile, 0)
	for _, cat := range categories {
		dir := filepath.Join(config.AppConfig.UploadDir, cat)
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("读取上传目录失败: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			mimeType := mime.TypeByExtension(filepath.Ext(entry.Name()))
			if mimeType == "" {
				mimeType = "application/octet-stream"
			}
			files = append(files, UploadedFile{
				Name:       entry.Name(),
				Category:   cat,
				FileURL:    cat + "/" + entry.Name(),
				Size:       info.Size(),
				MimeType:   mimeType,
				ModifiedAt: info.ModTime(),
			})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModifiedAt.After(files[j].ModifiedAt)
	})
	return files, nil
}
