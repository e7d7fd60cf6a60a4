package mediakind

import (
	"testing"

	"shoplink_message_server/pkg/errorx"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		mime     string
		filename string
		want     Kind
		wantErr  bool
	}{
		{"jpeg图片", "image/jpeg", "photo.jpg", Image, false},
		{"png图片", "image/png", "screenshot.png", Image, false},
		{"mp4视频", "video/mp4", "clip.mp4", Video, false},
		{"mp3音频", "audio/mpeg", "voice.mp3", Audio, false},
		{"m4a按audio/mp4上报", "audio/mp4", "voice.m4a", Audio, false},
		{"m4a按video/mp4上报仍判音频", "video/mp4", "voice.m4a", Audio, false},
		{"octet-stream按扩展名判图片", "application/octet-stream", "photo.png", Image, false},
		{"octet-stream按扩展名判音频", "application/octet-stream", "voice.wav", Audio, false},
		{"空MIME按扩展名判视频", "", "clip.webm", Video, false},
		{"MIME大小写不敏感", "IMAGE/JPEG", "a.jpg", Image, false},
		{"pdf拒绝", "application/pdf", "doc.pdf", "", true},
		{"未知二进制拒绝", "application/octet-stream", "data.bin", "", true},
		{"无MIME无扩展名拒绝", "", "blob", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.mime, tt.filename)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Classify(%q, %q) 期望报错，实际得到 %v", tt.mime, tt.filename, got)
				}
				if code := errorx.GetCode(err); code != errorx.CodeUnsupportedMedia {
					t.Errorf("错误码 = %d, 期望 %d", code, errorx.CodeUnsupportedMedia)
				}
				return
			}
			if err != nil {
				t.Fatalf("Classify(%q, %q) 报错: %v", tt.mime, tt.filename, err)
			}
			if got != tt.want {
				t.Errorf("Classify(%q, %q) = %v, 期望 %v", tt.mime, tt.filename, got, tt.want)
			}
		})
	}
}

func TestKindFolderAndResourceType(t *testing.T) {
	if got := Image.Folder(); got != "messages/images" {
		t.Errorf("Image.Folder() = %q", got)
	}
	if got := Video.Folder(); got != "messages/videos" {
		t.Errorf("Video.Folder() = %q", got)
	}
	if got := Audio.Folder(); got != "messages/audio" {
		t.Errorf("Audio.Folder() = %q", got)
	}

	// Cloudinary 没有独立音频类型，音频按 video 资源处理
	if got := Audio.ResourceType(); got != "video" {
		t.Errorf("Audio.ResourceType() = %q, 期望 video", got)
	}
	if got := Image.ResourceType(); got != "image" {
		t.Errorf("Image.ResourceType() = %q, 期望 image", got)
	}
}

func TestKindValid(t *testing.T) {
	for _, k := range []Kind{Image, Video, Audio} {
		if !k.Valid() {
			t.Errorf("%v 应为合法枚举", k)
		}
	}
	if Kind("file").Valid() {
		t.Error("file 不应为合法枚举")
	}
}
