// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"database/sql"
	"errors"

	"shoplink_message_server/internal/model"
	"shoplink_message_server/pkg/errorx"

	"gorm.io/gorm"
)

// ==================== 错误包装辅助函数 ====================

// wrapDBError 包装数据库错误
// 根据错误类型返回不同的错误码：
//   - ErrRecordNotFound -> CodeNotFound
//   - 其他错误 -> CodeDBError
func wrapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrap(err, errorx.CodeNotFound, msg)
	}
	return errorx.Wrap(err, errorx.CodeDBError, msg)
}

// wrapDBErrorf 包装数据库错误（支持格式化消息）
func wrapDBErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrapf(err, errorx.CodeNotFound, format, args...)
	}
	return errorx.Wrapf(err, errorx.CodeDBError, format, args...)
}

// ==================== Repository 接口定义 ====================

// UserRepository 用户数据访问接口
// user_info 表由外部用户服务维护，这里只有读操作
type UserRepository interface {
	// FindById 根据 ID 查找用户
	FindById(id uint) (*model.UserInfo, error)
	// FindByIds 批量根据 ID 查找用户
	FindByIds(ids []uint) ([]model.UserInfo, error)
}

// ConversationRow 会话聚合查询的一行结果
// 每个去重后的对话方一行：展示字段 + 最后一条可见消息预览 + 未读数
type ConversationRow struct {
	PartnerId     uint           `gorm:"column:partner_id"`
	FirstName     string         `gorm:"column:first_name"`
	LastName      string         `gorm:"column:last_name"`
	Photo         string         `gorm:"column:photo"`
	Role          string         `gorm:"column:role"`
	UnreadCount   int64          `gorm:"column:unread_count"`
	LastMessageAt string         `gorm:"column:last_message_at"`
	LastContent   sql.NullString `gorm:"column:last_content"`
	LastMediaUrl  sql.NullString `gorm:"column:last_media_url"`
	LastMediaKind sql.NullString `gorm:"column:last_media_kind"`
}

// MessageRepository 消息数据访问接口
type MessageRepository interface {
	// Create 创建消息
	Create(message *model.Message) error
	// FindById 根据主键查找消息
	FindById(id uint) (*model.Message, error)
	// FindByPair 查找两个用户之间的全部消息（双向），按创建时间升序
	// 注意：不做删除标记过滤，可见性过滤在 Service 层按查看者执行，
	// 保证一方的"对我删除"永远不影响另一方看到的内容
	FindByPair(userOneId, userTwoId uint) ([]model.Message, error)
	// MarkReadByIds 批量置已读
	MarkReadByIds(ids []uint) error
	// MarkAllReadFromPartner 将 partner 发给 receiver 的未读消息全部置已读，返回影响行数
	MarkAllReadFromPartner(receiverId, partnerId uint) (int64, error)
	// Updates 按主键更新指定字段
	Updates(id uint, updates map[string]interface{}) error
	// CountUnread 统计用户未读消息数（不含其本侧已删除的）
	CountUnread(userId uint) (int64, error)
	// SearchByContent 在用户收发的消息内容里做子串搜索，按创建时间降序
	SearchByContent(userId uint, query string) ([]model.Message, error)
	// ListConversations 会话聚合：每个对话方一行，带最后可见消息与未读数，
	// 按最后消息时间降序。单条分组查询完成，不做 N+1
	ListConversations(viewerId uint) ([]ConversationRow, error)
}

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	// Create 创建通知
	Create(notification *model.Notification) error
	// FindById 根据主键查找通知
	FindById(id uint) (*model.Notification, error)
	// FindByUserId 查找用户的全部通知，按创建时间降序
	FindByUserId(userId uint) ([]model.Notification, error)
	// MarkRead 单条置已读
	MarkRead(id uint) error
	// MarkAllRead 用户全部未读通知置已读
	MarkAllRead(userId uint) error
	// Delete 删除单条通知
	Delete(id uint) error
	// DeleteAllByUserId 删除用户全部通知
	DeleteAllByUserId(userId uint) error
}

// ==================== Repository 聚合 ====================

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	User         UserRepository
	Message      MessageRepository
	Notification NotificationRepository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Message:      NewMessageRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
