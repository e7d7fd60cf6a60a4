// Package model 定义数据库实体模型
// 本文件定义私信消息模型
package model

import (
	"gorm.io/gorm"
)

// Message 私信消息模型
// 对应数据库 message 表，记录买家与商家之间的一对一消息
type Message struct {
	gorm.Model

	// Uuid 消息雪花 ID，推送事件里使用，避免暴露自增主键的连续性
	Uuid int64 `gorm:"column:uuid;uniqueIndex;type:bigint;not null;comment:消息雪花ID"`

	// SenderId 发送者用户 ID
	SenderId uint `gorm:"column:sender_id;index;not null;comment:发送者id"`

	// ReceiverId 接收者用户 ID
	ReceiverId uint `gorm:"column:receiver_id;index;not null;comment:接收者id"`

	// Content 文本内容，纯媒体消息时为空字符串
	// 创建时要求 Content 与 MediaUrl 至少一个非空
	Content string `gorm:"column:content;type:TEXT;comment:消息内容"`

	// MediaUrl 附件在对象存储中的永久 URL
	// 附件字节不落库，上传到 Cloudinary 后仅存访问链接
	MediaUrl string `gorm:"column:media_url;type:varchar(512);comment:附件url"`

	// MediaKind 附件类型：image / video / audio，无附件时为空
	// 见 pkg/enum/mediakind
	MediaKind string `gorm:"column:media_kind;type:varchar(10);comment:附件类型"`

	// IsRead 接收方是否已读
	IsRead bool `gorm:"column:is_read;not null;default:false;comment:是否已读"`

	// DeletedForSender 发送方的"对我删除"标记
	// 两个删除标记互相独立，各方只能改自己这一侧；双方都置位后消息对双方不可见，
	// 但数据行保留，不做物理删除
	DeletedForSender bool `gorm:"column:deleted_for_sender;not null;default:false;comment:发送方删除标记"`

	// DeletedForReceiver 接收方的"对我删除"标记
	DeletedForReceiver bool `gorm:"column:deleted_for_receiver;not null;default:false;comment:接收方删除标记"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "message"
}

// VisibleTo 判断消息对指定用户是否可见（未被其本侧删除标记隐藏）
func (m *Message) VisibleTo(userId uint) bool {
	if m.SenderId == userId && m.DeletedForSender {
		return false
	}
	if m.ReceiverId == userId && m.DeletedForReceiver {
		return false
	}
	return true
}
