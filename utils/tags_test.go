package utils

import (
	"reflect"
	"testing"
)

func TestDecodeTags(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"JSON数组", `["lions","safari"]`, []string{"lions", "safari"}},
		{"逗号分隔兜底", "lions, safari", []string{"lions", "safari"}},
		{"空字符串", "", []string{}},
		{"空数组", "[]", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DecodeTags(tc.raw)
			if got == nil {
				t.Fatal("DecodeTags不应返回nil")
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("DecodeTags(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tags := []string{"birds", "migration", "4k"}
	got := DecodeTags(EncodeTags(tags))
	if !reflect.DeepEqual(got, tags) {
		t.Errorf("round trip = %v, want %v", got, tags)
	}
}

func TestTagsIntersect(t *testing.T) {
	if !TagsIntersect([]string{"lions", "safari"}, []string{"Safari"}) {
		t.Error("标签匹配应忽略大小写")
	}
	if TagsIntersect([]string{"lions"}, []string{"birds"}) {
		t.Error("无交集不应匹配")
	}
	if TagsIntersect(nil, []string{"birds"}) {
		t.Error("空列表不应匹配")
	}
}

func TestRemoveTag(t *testing.T) {
	tags, removed := RemoveTag([]string{"lions", "safari", "cubs"}, "safari")
	if !removed {
		t.Fatal("应报告已移除")
	}
	if !reflect.DeepEqual(tags, []string{"lions", "cubs"}) {
		t.Errorf("RemoveTag结果 = %v", tags)
	}

	tags, removed = RemoveTag([]string{"lions"}, "birds")
	if removed {
		t.Error("不存在的标签不应报告移除")
	}
	if !reflect.DeepEqual(tags, []string{"lions"}) {
		t.Errorf("原列表不应变化, got %v", tags)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Lions of the Serengeti": "lions-of-the-serengeti",
		"  Wild  &  Free!  ":     "wild-free",
		"Episode 12":             "episode-12",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
