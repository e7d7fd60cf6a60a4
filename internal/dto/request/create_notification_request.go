package request

import "time"

// CreateNotificationRequest 创建通知请求
// 既用于内部事件触发（消息到达），也供管理端直接创建
// 使用位置:
//   - internal/service/notification/service.go: Notify
//   - internal/service/message/service.go: Send
type CreateNotificationRequest struct {
	UserId       uint       `json:"userId" binding:"required"`
	Type         string     `json:"type" binding:"required"`
	Message      string     `json:"message" binding:"required"`
	ActionUrl    string     `json:"actionUrl"`
	ResourceId   *uint      `json:"resourceId"`
	ResourceType string     `json:"resourceType"`
	Priority     int        `json:"priority"`
	ExpiresAt    *time.Time `json:"expiresAt"`
}
