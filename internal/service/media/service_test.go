package media

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"os"
	"strings"
	"sync"
	"testing"

	"shoplink_message_server/pkg/constants"
	"shoplink_message_server/pkg/enum/mediakind"
	"shoplink_message_server/pkg/errorx"
)

// stubStore 记录上传与删除调用
type stubStore struct {
	mu        sync.Mutex
	uploaded  []string
	removed   []string
	uploadErr error
}

func (s *stubStore) Upload(ctx context.Context, localPath string, kind mediakind.Kind) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// 上传时临时文件必须存在
	if _, err := os.Stat(localPath); err != nil {
		return "", err
	}
	s.uploaded = append(s.uploaded, localPath)
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	return "https://res.example.com/" + string(kind) + "/obj", nil
}

func (s *stubStore) Remove(ctx context.Context, url string, kind mediakind.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, url)
	return nil
}

// buildFileHeader 构造一个真实的 multipart 文件头
func buildFileHeader(t *testing.T, filename, contentType, content string) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="media"; filename="`+filename+`"`)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("创建 multipart 段失败: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("写入 multipart 内容失败: %v", err)
	}
	writer.Close()

	reader := multipart.NewReader(&body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("解析 multipart 表单失败: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["media"]
	if len(files) != 1 {
		t.Fatalf("表单文件数 = %d, 期望 1", len(files))
	}
	return files[0]
}

func TestIngestUploadsAndCleansUp(t *testing.T) {
	store := &stubStore{}
	svc := NewMediaService(store)

	file := buildFileHeader(t, "photo.jpg", "image/jpeg", "假装是图片数据")
	url, kind, err := svc.Ingest(context.Background(), file)
	if err != nil {
		t.Fatalf("上传失败: %v", err)
	}
	if kind != mediakind.Image {
		t.Errorf("类别 = %q, 期望 image", kind)
	}
	if !strings.HasPrefix(url, "https://") {
		t.Errorf("返回地址不符: %q", url)
	}

	if len(store.uploaded) != 1 {
		t.Fatalf("上传调用数 = %d, 期望 1", len(store.uploaded))
	}
	// 成功路径下临时文件已清理
	if _, err := os.Stat(store.uploaded[0]); !os.IsNotExist(err) {
		t.Errorf("临时文件未清理: %s", store.uploaded[0])
	}
}

func TestIngestRejectsOversize(t *testing.T) {
	store := &stubStore{}
	svc := NewMediaService(store)

	file := buildFileHeader(t, "big.mp4", "video/mp4", "x")
	file.Size = constants.MEDIA_MAX_SIZE + 1

	_, _, err := svc.Ingest(context.Background(), file)
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("超限错误码 = %d, 期望 %d", errorx.GetCode(err), errorx.CodeInvalidParam)
	}
	if len(store.uploaded) != 0 {
		t.Error("超限文件不应触发上传")
	}
}

func TestIngestRejectsUnsupportedType(t *testing.T) {
	store := &stubStore{}
	svc := NewMediaService(store)

	file := buildFileHeader(t, "report.pdf", "application/pdf", "pdf 内容")
	_, _, err := svc.Ingest(context.Background(), file)
	if errorx.GetCode(err) != errorx.CodeUnsupportedMedia {
		t.Errorf("类型错误码 = %d, 期望 %d", errorx.GetCode(err), errorx.CodeUnsupportedMedia)
	}
	if len(store.uploaded) != 0 {
		t.Error("不支持的类型不应触发上传")
	}
}

func TestIngestCleansUpOnUploadFailure(t *testing.T) {
	store := &stubStore{uploadErr: errorx.New(errorx.CodeUploadFailed, "上传失败")}
	svc := NewMediaService(store)

	file := buildFileHeader(t, "voice.mp3", "audio/mpeg", "音频数据")
	_, _, err := svc.Ingest(context.Background(), file)
	if errorx.GetCode(err) != errorx.CodeUploadFailed {
		t.Errorf("错误码 = %d, 期望 %d", errorx.GetCode(err), errorx.CodeUploadFailed)
	}

	// 失败路径同样清理临时文件
	if len(store.uploaded) != 1 {
		t.Fatalf("上传调用数 = %d, 期望 1", len(store.uploaded))
	}
	if _, err := os.Stat(store.uploaded[0]); !os.IsNotExist(err) {
		t.Errorf("临时文件未清理: %s", store.uploaded[0])
	}
}

func TestRemoveBestEffort(t *testing.T) {
	store := &stubStore{}
	svc := NewMediaService(store)

	svc.Remove("", mediakind.Image)
	if len(store.removed) != 0 {
		t.Error("空地址不应触发删除")
	}

	svc.Remove("https://res.example.com/image/obj", mediakind.Image)
	if len(store.removed) != 1 {
		t.Errorf("删除调用数 = %d, 期望 1", len(store.removed))
	}
}
