package services

import (
	"errors"

	"gorm.io/gorm"

	"wildcms/models"
	"wildcms/utils"
)

// RegisterTags 标签自动注册
// 视频创建/编辑时调用：新标签入库（usage_count=1），已有标签usage_count+1
// 注意：视频删除不回减，usage_count是历史累计值
func RegisterTags(db *gorm.DB, tags []string) error {
	for _, name := range tags {
		if name == "" {
			continue
		}
		var tag models.VideoTag
		err := db.Where("name = ?", name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&models.VideoTag{Name: name, UsageCount: 1}).Error; err != nil {
				// 并发创建同名标签时唯一约束兜底，转为累加
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					if err := incrementTagUsage(db, name); err != nil {
						return err
					}
					continue
				}
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		if err := incrementTagUsage(db, name); err != nil {
			return err
		}
	}
	return nil
}

func incrementTagUsage(db *gorm.DB, name string) error {
	return db.Model(&models.VideoTag{}).
		Where("name = ?", name).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error
}

// ScrubTag 从所有视频的标签数组中移除指定标签（全表扫描两张视频表）
// 其他标签的usage_count不受影响
func ScrubTag(db *gorm.DB, name string) error {
	var seriesVideos []models.SeriesVideo
	if err := db.Find(&seriesVideos).Error; err != nil {
		return err
	}
	for _, v := range seriesVideos {
		tags, removed := utils.RemoveTag(utils.DecodeTags(v.Tags), name)
		if !removed {
			continue
		}
		if err := db.Model(&v).UpdateColumn("tags", utils.EncodeTags(tags)).Error; err != nil {
			return err
		}
	}

	var channelVideos []models.GeneralKnowledgeVideo
	if err := db.Find(&channelVideos).Error; err != nil {
		return err
	}
	for _, v := range channelVideos {
		tags, removed := utils.RemoveTag(utils.DecodeTags(v.Tags), name)
		if !removed {
			continue
		}
		if err := db.Model(&v).UpdateColumn("tags", utils.EncodeTags(tags)).Error; err != nil {
			return err
		}
	}
	return nil
}
