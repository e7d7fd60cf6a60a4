package respond

// NotificationRespond 单条通知响应
// 使用位置:
//   - internal/service/notification/service.go
type NotificationRespond struct {
	Id           uint   `json:"id"`
	Uuid         string `json:"uuid"`
	Type         string `json:"type"`
	Message      string `json:"message"`
	ActionUrl    string `json:"action_url"`
	ResourceId   *uint  `json:"resource_id"`
	ResourceType string `json:"resource_type"`
	IsRead       bool   `json:"is_read"`
	Priority     int    `json:"priority"`
	ExpiresAt    string `json:"expires_at"`
	CreatedAt    string `json:"created_at"`
}
