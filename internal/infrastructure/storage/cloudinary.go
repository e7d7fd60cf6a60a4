// Package storage 提供 MediaStore 接口的 Cloudinary 实现
package storage

import (
	"context"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"shoplink_message_server/pkg/enum/mediakind"
	"shoplink_message_server/pkg/errorx"
)

// CloudinaryStore Cloudinary 对象存储实现
type CloudinaryStore struct {
	client *cloudinary.Cloudinary
}

// NewCloudinaryStore 创建 Cloudinary 存储实例
func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	client, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeServerBusy, "初始化 Cloudinary 客户端失败")
	}
	return &CloudinaryStore{client: client}, nil
}

// Upload 上传本地文件到 Cloudinary
// 音频以 resource_type=video 上传并统一转成 mp3，这是 Cloudinary 处理音频的方式
func (s *CloudinaryStore) Upload(ctx context.Context, localPath string, kind mediakind.Kind) (string, error) {
	params := uploader.UploadParams{
		Folder:       kind.Folder(),
		ResourceType: kind.ResourceType(),
	}
	if kind == mediakind.Audio {
		params.Format = "mp3"
	}

	resp, err := s.client.Upload.Upload(ctx, localPath, params)
	if err != nil {
		return "", errorx.Wrap(err, errorx.CodeUploadFailed, "上传媒体文件失败")
	}
	if resp.Error.Message != "" {
		return "", errorx.Newf(errorx.CodeUploadFailed, "上传媒体文件失败: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}

// Remove 根据 URL 删除 Cloudinary 上的对象
func (s *CloudinaryStore) Remove(ctx context.Context, url string, kind mediakind.Kind) error {
	publicID := extractPublicID(url)
	if publicID == "" {
		return errorx.Newf(errorx.CodeInvalidParam, "无法从 URL 解析 public ID: %s", url)
	}

	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: kind.ResourceType(),
	})
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeUploadFailed, "删除媒体文件失败, publicID: %s", publicID)
	}
	return nil
}

// versionSegment 匹配 Cloudinary URL 中的版本段，如 v1712345678
var versionSegment = regexp.MustCompile(`^v\d+$`)

// extractPublicID 从 Cloudinary URL 中提取 public ID
// URL 形如 https://res.cloudinary.com/<cloud>/image/upload/v123/messages/images/abc.jpg，
// public ID 为 /upload/ 之后去掉版本段和扩展名的部分（messages/images/abc）
func extractPublicID(url string) string {
	idx := strings.Index(url, "/upload/")
	if idx < 0 {
		return ""
	}
	rest := strings.Trim(url[idx+len("/upload/"):], "/")
	if rest == "" {
		return ""
	}

	segments := strings.Split(rest, "/")
	if versionSegment.MatchString(segments[0]) {
		segments = segments[1:]
	}
	if len(segments) == 0 {
		return ""
	}

	// 去掉扩展名
	last := segments[len(segments)-1]
	if dot := strings.LastIndex(last, "."); dot > 0 {
		segments[len(segments)-1] = last[:dot]
	}
	publicID := strings.Join(segments, "/")
	if publicID == "" {
		zap.L().Warn("empty public id extracted", zap.String("url", url))
	}
	return publicID
}
