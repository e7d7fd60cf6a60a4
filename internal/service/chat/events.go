// Package chat 实现实时消息推送层
// events.go
// 核心职责：定义 WebSocket 事件帧格式和事件名称
// 持久化存储是唯一可信数据源，实时推送只做尽力送达
package chat

import (
	"encoding/json"

	"go.uber.org/zap"
)

// 事件名称常量，与前端约定的协议
const (
	EventNewMessage       = "new-message"       // 新消息到达（推给接收方）
	EventMessageSentAck   = "message-sent-ack"  // 发送回执（推给发送方）
	EventMessageUpdated   = "message-updated"   // 消息被编辑
	EventMessageDeleted   = "message-deleted"   // 消息被撤回/删除
	EventMessageRead      = "message-read"      // 单条已读回执
	EventMessagesReadBulk = "messages-read-bulk" // 批量已读回执
	EventTypingStart      = "typing-start"      // 对方开始输入
	EventTypingStop       = "typing-stop"       // 对方停止输入
	EventPresenceChange   = "presence-change"   // 上线/下线
	EventNewNotification  = "new-notification"  // 新通知
)

// Event WebSocket 事件帧
// 整帧以 JSON 文本发送，Data 为事件各自的载荷
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// NewEvent 构造事件帧，payload 序列化失败时返回空载荷的帧
func NewEvent(name string, payload any) Event {
	data, err := json.Marshal(payload)
	if err != nil {
		zap.L().Error("序列化事件载荷失败", zap.String("event", name), zap.Error(err))
		data = []byte("{}")
	}
	return Event{Event: name, Data: data}
}

// Encode 将事件帧序列化为发送字节
func (e Event) Encode() []byte {
	b, err := json.Marshal(e)
	if err != nil {
		zap.L().Error("序列化事件帧失败", zap.String("event", e.Event), zap.Error(err))
		return []byte(`{"event":"` + e.Event + `","data":{}}`)
	}
	return b
}

// Pusher 业务层使用的推送接口
// Service 层依赖此接口向在线用户推送事件，不关心单机/Kafka 实现
type Pusher interface {
	// PushToUser 向指定用户的在线连接推送事件，不在线则丢弃
	PushToUser(userId uint, event Event)
	// Broadcast 向所有在线连接推送事件
	Broadcast(event Event)
}

// ReadAcker 已读回执处理接口
// WebSocket 入站的已读事件需要走消息服务落库，由 main 注入实现
type ReadAcker interface {
	MarkRead(messageId, requesterId uint) error
}

// readAcker 包级已读回执处理器，启动时通过 SetReadAcker 注入
var readAcker ReadAcker

// SetReadAcker 注入已读回执处理器
func SetReadAcker(a ReadAcker) {
	readAcker = a
}
