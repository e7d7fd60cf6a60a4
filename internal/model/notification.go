// Package model 定义数据库实体模型
// 本文件定义通知模型
package model

import (
	"time"

	"gorm.io/gorm"
)

// Notification 通知模型
// 对应数据库 notification 表
// 由各类事件生产方写入（新消息、点赞、关注、订单状态变更、店铺咨询等），
// 创建后除已读标记外不可变
type Notification struct {
	gorm.Model

	// Uuid 通知雪花 ID
	Uuid int64 `gorm:"column:uuid;uniqueIndex;type:bigint;not null;comment:通知雪花ID"`

	// UserId 通知的唯一接收者
	UserId uint `gorm:"column:user_id;index;not null;comment:接收者id"`

	// Type 类型标签，自由字符串：MESSAGE / ORDER / PRODUCT / FOLLOW ...
	Type string `gorm:"column:type;type:varchar(20);not null;comment:通知类型"`

	// Message 展示给用户的文案
	Message string `gorm:"column:message;type:TEXT;not null;comment:通知文案"`

	// ActionUrl 点击跳转的深链，可为空
	ActionUrl string `gorm:"column:action_url;type:varchar(255);comment:跳转链接"`

	// ResourceId 关联资源 ID，可为空
	ResourceId *uint `gorm:"column:resource_id;comment:关联资源id"`

	// ResourceType 关联资源类型，如 "Message"、"Order"
	ResourceType string `gorm:"column:resource_type;type:varchar(30);comment:关联资源类型"`

	// IsRead 是否已读
	IsRead bool `gorm:"column:is_read;not null;default:false;comment:是否已读"`

	// Priority 优先级，数值越大越重要
	Priority int `gorm:"column:priority;not null;default:0;comment:优先级"`

	// ExpiresAt 过期时间，可为空
	ExpiresAt *time.Time `gorm:"column:expires_at;comment:过期时间"`
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notification"
}
