package respond

// UserBrief 用户展示信息（嵌入消息和会话响应）
// 使用位置:
//   - internal/service/message/service.go
//   - internal/service/chat/conn.go
type UserBrief struct {
	Id        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Photo     string `json:"photo"`
	Role      string `json:"role"`
}
