// Package media 实现附件接收与对象存储上传
package media

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"shoplink_message_server/internal/config"
	"shoplink_message_server/internal/infrastructure/storage"
	"shoplink_message_server/pkg/constants"
	"shoplink_message_server/pkg/enum/mediakind"
	"shoplink_message_server/pkg/errorx"
	"shoplink_message_server/pkg/util/random"
)

// mediaService 媒体业务逻辑实现
type mediaService struct {
	store storage.MediaStore
}

// NewMediaService 构造函数
func NewMediaService(store storage.MediaStore) *mediaService {
	return &mediaService{store: store}
}

// Ingest 接收上传附件并上传到对象存储
// 流程：大小校验 -> 类型识别 -> 落盘临时文件 -> 上传 -> 清理临时文件
// 临时文件在成功和失败路径都会被删除
func (m *mediaService) Ingest(ctx context.Context, file *multipart.FileHeader) (string, mediakind.Kind, error) {
	conf := config.GetConfig().MediaConfig

	maxSize := conf.MaxFileSize
	if maxSize <= 0 {
		maxSize = constants.MEDIA_MAX_SIZE
	}
	if file.Size > maxSize {
		return "", "", errorx.Newf(errorx.CodeInvalidParam, "附件大小超过限制（最大 %dMB）", maxSize/(1024*1024))
	}

	kind, err := mediakind.Classify(file.Header.Get("Content-Type"), file.Filename)
	if err != nil {
		return "", "", err
	}

	localPath, err := m.spoolToTemp(file, conf.TempDir)
	if err != nil {
		return "", "", err
	}
	defer func() {
		if err := os.Remove(localPath); err != nil {
			zap.L().Warn("删除临时文件失败", zap.String("path", localPath), zap.Error(err))
		}
	}()

	timeout := conf.UploadTimeout
	if timeout <= 0 {
		timeout = 30
	}
	uploadCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	url, err := m.store.Upload(uploadCtx, localPath, kind)
	if err != nil {
		return "", "", err
	}
	return url, kind, nil
}

// spoolToTemp 将上传内容写入临时文件，返回文件路径
func (m *mediaService) spoolToTemp(file *multipart.FileHeader, tempDir string) (string, error) {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return "", errorx.Wrap(err, errorx.CodeServerBusy, "创建临时目录失败")
	}

	name := random.GetNowAndLenRandomString(10) + filepath.Ext(file.Filename)
	localPath := filepath.Join(tempDir, name)

	src, err := file.Open()
	if err != nil {
		return "", errorx.Wrap(err, errorx.CodeInvalidParam, "读取上传文件失败")
	}
	defer src.Close()

	dst, err := os.Create(localPath)
	if err != nil {
		return "", errorx.Wrap(err, errorx.CodeServerBusy, "创建临时文件失败")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(localPath)
		return "", errorx.Wrap(err, errorx.CodeServerBusy, "写入临时文件失败")
	}
	return localPath, nil
}

// Remove 尽力删除远端对象
// 撤回消息时调用，删除失败不影响撤回结果，只记录日志
func (m *mediaService) Remove(url string, kind mediakind.Kind) {
	if url == "" {
		return
	}
	conf := config.GetConfig().MediaConfig
	timeout := conf.UploadTimeout
	if timeout <= 0 {
		timeout = 30
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if err := m.store.Remove(ctx, url, kind); err != nil {
		zap.L().Warn("删除远端媒体失败", zap.String("url", url), zap.Error(err))
	}
}
