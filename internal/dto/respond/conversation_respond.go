package respond

// ConversationRespond 会话列表中的一行
// 每个对话方一条，带最后可见消息预览和未读数
// 使用位置:
//   - internal/service/message/service.go: GetConversations
type ConversationRespond struct {
	PartnerId     uint   `json:"partner_id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Photo         string `json:"photo"`
	Role          string `json:"role"`
	UnreadCount   int64  `json:"unread_count"`
	LastMessageAt string `json:"last_message_at"`
	LastContent   string `json:"last_content"`
	LastMediaUrl  string `json:"last_media_url"`
	LastMediaKind string `json:"last_media_kind"`
}
