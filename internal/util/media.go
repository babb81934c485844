package util

import (
	"course_edu_backend/internal/model"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ObjectKeyFromRef 由内容的媒体引用推导对象存储键
// 图片引用是完整 URL，取其路径部分；视频引用本身就是对象键
func ObjectKeyFromRef(mediaType model.MediaType, ref string) (string, error) {
	switch mediaType {
	case model.MediaImage:
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("解析图片引用失败: %v", err)
		}
		return strings.TrimPrefix(u.Path, "/"), nil
	case model.MediaVideo:
		return ref, nil
	default:
		return "", nil
	}
}

// IsStreamManifest 判断对象键是否指向流媒体清单
func IsStreamManifest(key string) bool {
	return strings.HasSuffix(key, StreamManifestSuffix)
}

// DirectoryPrefix 返回对象键所在的目录前缀（包含结尾斜杠）
func DirectoryPrefix(key string) string {
	dir := path.Dir(key)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir + "/"
}
