package request

// SearchMessageRequest 搜索消息请求
// 使用位置:
//   - internal/handler/message_handler.go: SearchMessages
type SearchMessageRequest struct {
	Query string `form:"query" binding:"required"`
}
