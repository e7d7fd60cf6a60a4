package request

// SendMessageRequest 发送消息请求（multipart 表单）
// 附件文件通过表单字段 media 单独上传
// 使用位置:
//   - internal/handler/message_handler.go: SendMessage
type SendMessageRequest struct {
	ReceiverId uint   `form:"receiverId" binding:"required"`
	Content    string `form:"content"`
}
