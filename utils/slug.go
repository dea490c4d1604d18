package utils

import (
	"fmt"
	"strings"
	"unicode"

	"gorm.io/gorm"
)

// Slugify 由标题生成slug：小写、非字母数字折叠为连字符
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// EnsureUniqueSlug 保证slug在指定表中唯一
// 已存在则追加 -1, -2, ... 后缀直到不冲突
func EnsureUniqueSlug(db *gorm.DB, model interface{}, slug string) (string, error) {
	original := slug
	counter := 1
	for {
		var count int64
		if err := db.Model(model).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", original, counter)
		counter++
	}
}
