package constants

import "time"

const (
	CHANNEL_SIZE  = 100 // 通道大小
	REDIS_TIMEOUT = 1   // redis 操作超时（秒），调用处乘以 time.Second

	// MEDIA_MAX_SIZE 附件大小上限（15MB），超出直接拒绝，不会发起上传
	MEDIA_MAX_SIZE = 15 * 1024 * 1024

	// RECALL_WINDOW 发送者撤回消息（对双方删除）的时间窗口
	RECALL_WINDOW = 30 * time.Minute

	// MESSAGE_TOMBSTONE 撤回后的占位文案，保留消息行及其排序，仅替换内容
	MESSAGE_TOMBSTONE = "该消息已被删除"
)
