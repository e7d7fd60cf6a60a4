// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
// 接口设计遵循依赖倒置原则，便于测试和解耦
package service

import (
	"context"
	"mime/multipart"

	"shoplink_message_server/internal/dto/request"
	"shoplink_message_server/internal/dto/respond"
	"shoplink_message_server/pkg/enum/mediakind"
)

// MessageService 私信业务接口
// 删除语义：两个独立的单侧删除标记互不影响对方视图，
// "对所有人删除"只在发送后 30 分钟内允许，之后只能单侧删除
type MessageService interface {
	// Send 发送消息（可携带附件），先落库再做通知和在线推送
	Send(senderId uint, req request.SendMessageRequest, media *multipart.FileHeader) (*respond.MessageRespond, error)
	// GetConversations 获取会话列表，每个对话方一行
	GetConversations(userId uint) ([]respond.ConversationRespond, error)
	// GetMessageList 获取与某个对话方的消息列表，按查看者过滤删除标记
	// 副作用：对方发来的未读消息一并置已读
	GetMessageList(viewerId, partnerId uint) (*respond.MessageListRespond, error)
	// Edit 编辑自己发送的消息
	Edit(requesterId, messageId uint, content string) (*respond.MessageRespond, error)
	// Delete 删除消息，forEveryone 为真时撤回（墓碑化），否则仅对自己删除
	Delete(requesterId, messageId uint, forEveryone bool) error
	// MarkRead 将单条消息置已读（仅接收方）
	MarkRead(messageId, requesterId uint) error
	// MarkAllRead 将某对话方发来的全部未读消息置已读，返回影响条数
	MarkAllRead(requesterId, partnerId uint) (int64, error)
	// GetUnreadCount 统计未读消息数
	GetUnreadCount(userId uint) (int64, error)
	// Search 在自己收发的消息内容中搜索
	Search(userId uint, query string) ([]respond.MessageRespond, error)
}

// NotificationService 通知业务接口
type NotificationService interface {
	// Notify 持久化一条通知并尽力推送给在线用户
	Notify(req request.CreateNotificationRequest) (*respond.NotificationRespond, error)
	// GetList 获取用户的通知列表（过滤已过期的）
	GetList(userId uint) ([]respond.NotificationRespond, error)
	// MarkRead 单条置已读
	MarkRead(userId, id uint) error
	// MarkAllRead 全部置已读
	MarkAllRead(userId uint) error
	// Delete 删除单条通知
	Delete(userId, id uint) error
	// DeleteAll 清空用户通知
	DeleteAll(userId uint) error
}

// MediaService 媒体附件业务接口
type MediaService interface {
	// Ingest 接收上传附件：校验大小、识别类型、落盘临时文件并上传到对象存储
	// 所有路径都会清理临时文件
	Ingest(ctx context.Context, file *multipart.FileHeader) (url string, kind mediakind.Kind, err error)
	// Remove 尽力删除远端对象，失败只记录日志
	Remove(url string, kind mediakind.Kind)
}
