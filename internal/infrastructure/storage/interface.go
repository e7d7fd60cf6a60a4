// Package storage 定义媒体对象存储接口
// 遵循依赖倒置原则，媒体服务依赖此接口而非具体云存储实现
package storage

import (
	"context"

	"shoplink_message_server/pkg/enum/mediakind"
)

// MediaStore 媒体对象存储接口
type MediaStore interface {
	// Upload 上传本地文件，返回可公开访问的 URL
	Upload(ctx context.Context, localPath string, kind mediakind.Kind) (string, error)
	// Remove 根据 URL 删除远端对象
	Remove(ctx context.Context, url string, kind mediakind.Kind) error
}
