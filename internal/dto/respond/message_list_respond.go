package respond

// MessageListRespond 与某个对话方的消息列表响应
// 消息按时间升序，已按查看者过滤删除标记
// 使用位置:
//   - internal/service/message/service.go: GetMessageList
type MessageListRespond struct {
	Partner  UserBrief        `json:"partner"`
	Messages []MessageRespond `json:"messages"`
}
