package utils

import (
	"encoding/json"
	"strings"
)

// DecodeTags 解析JSON数组形式的标签字段，解析失败返回空列表
func DecodeTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		// 兼容逗号分隔的旧数据
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		if tags == nil {
			return []string{}
		}
	}
	return tags
}

// EncodeTags 标签列表编码为JSON数组字符串
func EncodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// TagsIntersect 判断两组标签是否有交集（忽略大小写）
func TagsIntersect(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[strings.ToLower(t)] = struct{}{}
	}
	for _, t := range b {
		if _, ok := set[strings.ToLower(t)]; ok {
			return true
		}
	}
	return false
}

// RemoveTag 从标签列表中移除指定标签，返回是否有改动
func RemoveTag(tags []string, name string) ([]string, bool) {
	out := tags[:0]
	removed := false
	for _, t := range tags {
		if t == name {
			removed = true
			continue
		}
		out = append(out, t)
	}
	return out, removed
}
