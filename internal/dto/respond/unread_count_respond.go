package respond

// UnreadCountRespond 未读消息统计响应
// 使用位置:
//   - internal/service/message/service.go: GetUnreadCount
type UnreadCountRespond struct {
	Count int64 `json:"count"`
}
