package request

// EditMessageRequest 编辑消息请求
// 使用位置:
//   - internal/handler/message_handler.go: EditMessage
type EditMessageRequest struct {
	Content string `json:"content" binding:"required"`
}
