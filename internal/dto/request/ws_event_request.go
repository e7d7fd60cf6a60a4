package request

// TypingEventRequest WebSocket 输入状态事件载荷
// 使用位置:
//   - internal/service/chat/conn.go: handleInbound
type TypingEventRequest struct {
	PartnerId uint `json:"partnerId"`
}

// ReadEventRequest WebSocket 已读回执事件载荷
// 使用位置:
//   - internal/service/chat/conn.go: handleInbound
type ReadEventRequest struct {
	MessageId uint `json:"messageId"`
}
