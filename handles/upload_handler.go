package handles

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wildcms/services"
	"wildcms/utils"
)

// AdminUploadFile 单文件上传
// category取videos/thumbnails/channel_thumbnails，返回可访问的文件URL
func AdminUploadFile(c *gin.Context) {
	category := c.DefaultPostForm("category", services.UploadCategoryThumbnails)

	file, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "请选择文件")
		return
	}

	result, err := services.SaveUploadedFile(c, file, category)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	utils.SuccessMsg(c, "上传成功", gin.H{
		"file_url":  result.FileURL,
		"size":      result.Size,
		"mime_type": result.MimeType,
	})
}

// AdminListMedia 媒体库列表
// 可选category参数过滤分类，默认返回全部分类的文件
func AdminListMedia(c *gin.Context) {
	category := c.Query("category")

	files, err := services.ListUploadedFiles(category)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	utils.Success(c, gin.H{
		"total": len(files),
		"files": files,
	})
}
