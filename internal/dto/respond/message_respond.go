package respond

// MessageRespond 单条消息响应
// Uuid 为雪花 ID 的字符串形式，避免前端 JS 精度丢失
// 使用位置:
//   - internal/service/message/service.go
type MessageRespond struct {
	Id         uint       `json:"id"`
	Uuid       string     `json:"uuid"`
	SenderId   uint       `json:"sender_id"`
	ReceiverId uint       `json:"receiver_id"`
	Content    string     `json:"content"`
	MediaUrl   string     `json:"media_url"`
	MediaKind  string     `json:"media_kind"`
	IsRead     bool       `json:"is_read"`
	CreatedAt  string     `json:"created_at"`
	UpdatedAt  string     `json:"updated_at"`
	Sender     *UserBrief `json:"sender,omitempty"`
}
