// Package mediakind 定义消息附件的媒体类型封闭枚举
// 分类、存储目录选择、远端删除都必须走这里的穷举方法，禁止散落的字符串比较
package mediakind

import (
	"path/filepath"
	"strings"

	"shoplink_message_server/pkg/errorx"
)

// Kind 媒体类型
type Kind string

const (
	Image Kind = "image"
	Video Kind = "video"
	Audio Kind = "audio"
)

// Valid 判断是否为合法的枚举值
func (k Kind) Valid() bool {
	switch k {
	case Image, Video, Audio:
		return true
	}
	return false
}

// String 实现 fmt.Stringer
func (k Kind) String() string {
	return string(k)
}

// Folder 返回对象存储中该类型对应的逻辑目录
func (k Kind) Folder() string {
	switch k {
	case Image:
		return "messages/images"
	case Video:
		return "messages/videos"
	case Audio:
		return "messages/audio"
	}
	return "messages/files"
}

// ResourceType 返回 Cloudinary 的 resource_type
// Cloudinary 没有独立的音频类型，音频按 video 资源处理
func (k Kind) ResourceType() string {
	switch k {
	case Image:
		return "image"
	case Video, Audio:
		return "video"
	}
	return "image"
}

// 各类型允许的扩展名
var (
	imageExts = map[string]bool{".jpeg": true, ".jpg": true, ".png": true, ".gif": true, ".webp": true}
	videoExts = map[string]bool{".mp4": true, ".mov": true, ".avi": true, ".webm": true, ".mkv": true}
	audioExts = map[string]bool{".mp3": true, ".m4a": true, ".wav": true, ".aac": true, ".ogg": true, ".opus": true}
)

// Classify 根据声明的 MIME 类型与文件名判定媒体类型
// 判定优先级：音频 > 图片 > 视频
// 音频优先是因为部分容器格式（如 m4a）的 MIME 会被上报成 video/audio 混合的
// "audio/mp4"，单看 MIME 前缀会误判成视频，因此文件扩展名作为辅助信号
func Classify(declaredMime, filename string) (Kind, error) {
	mime := strings.ToLower(strings.TrimSpace(declaredMime))
	ext := strings.ToLower(filepath.Ext(filename))

	if strings.HasPrefix(mime, "audio/") || mime == "audio/mp4" || ext == ".m4a" {
		return Audio, nil
	}
	if strings.HasPrefix(mime, "image/") {
		return Image, nil
	}
	if strings.HasPrefix(mime, "video/") {
		return Video, nil
	}

	// MIME 缺失或为通用二进制时，退化到扩展名判断
	if mime == "" || mime == "application/octet-stream" {
		switch {
		case audioExts[ext]:
			return Audio, nil
		case imageExts[ext]:
			return Image, nil
		case videoExts[ext]:
			return Video, nil
		}
	}

	return "", errorx.Newf(errorx.CodeUnsupportedMedia,
		"不支持的媒体类型: mime=%s 文件=%s，仅接受图片/视频/音频", declaredMime, filename)
}
