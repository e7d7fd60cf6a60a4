package repository

import (
	"shoplink_message_server/internal/model"

	"gorm.io/gorm"
)

// messageRepository MessageRepository 接口的 GORM 实现
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "创建消息失败")
	}
	return nil
}

func (r *messageRepository) FindById(id uint) (*model.Message, error) {
	var message model.Message
	if err := r.db.First(&message, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查找消息失败, id: %d", id)
	}
	return &message, nil
}

func (r *messageRepository) FindByPair(userOneId, userTwoId uint) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userOneId, userTwoId, userTwoId, userOneId).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, wrapDBError(err, "查找会话消息失败")
	}
	return messages, nil
}

func (r *messageRepository) MarkReadByIds(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.Model(&model.Message{}).
		Where("id IN ?", ids).
		Update("is_read", true).Error
	if err != nil {
		return wrapDBError(err, "批量置已读失败")
	}
	return nil
}

func (r *messageRepository) MarkAllReadFromPartner(receiverId, partnerId uint) (int64, error) {
	result := r.db.Model(&model.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", receiverId, partnerId, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, wrapDBError(result.Error, "全部置已读失败")
	}
	return result.RowsAffected, nil
}

func (r *messageRepository) Updates(id uint, updates map[string]interface{}) error {
	err := r.db.Model(&model.Message{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		return wrapDBErrorf(err, "更新消息失败, id: %d", id)
	}
	return nil
}

func (r *messageRepository) CountUnread(userId uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Message{}).
		Where("receiver_id = ? AND is_read = ? AND deleted_for_receiver = ?", userId, false, false).
		Count(&count).Error
	if err != nil {
		return 0, wrapDBError(err, "统计未读消息失败")
	}
	return count, nil
}

func (r *messageRepository) SearchByContent(userId uint, query string) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.
		Where("(sender_id = ? OR receiver_id = ?) AND content LIKE ?",
			userId, userId, "%"+query+"%").
		Order("created_at DESC, id DESC").
		Find(&messages).Error
	if err != nil {
		return nil, wrapDBError(err, "搜索消息失败")
	}
	return messages, nil
}

// conversationSQL 会话聚合查询
// 内层按对话方分组统计最后消息时间和未读数，
// 外层关联用户信息并用相关子查询取最后一条对查看者可见的消息预览。
// 只使用 CASE WHEN 等标准语法，MySQL 和 SQLite 均可执行
const conversationSQL = `
SELECT
    p.partner_id,
    u.first_name,
    u.last_name,
    u.photo,
    u.role,
    p.unread_count,
    p.last_message_at,
    (SELECT m2.content FROM message m2
     WHERE m2.deleted_at IS NULL
       AND ((m2.sender_id = @viewer AND m2.receiver_id = p.partner_id AND m2.deleted_for_sender = 0)
         OR (m2.receiver_id = @viewer AND m2.sender_id = p.partner_id AND m2.deleted_for_receiver = 0))
     ORDER BY m2.created_at DESC, m2.id DESC LIMIT 1) AS last_content,
    (SELECT m2.media_url FROM message m2
     WHERE m2.deleted_at IS NULL
       AND ((m2.sender_id = @viewer AND m2.receiver_id = p.partner_id AND m2.deleted_for_sender = 0)
         OR (m2.receiver_id = @viewer AND m2.sender_id = p.partner_id AND m2.deleted_for_receiver = 0))
     ORDER BY m2.created_at DESC, m2.id DESC LIMIT 1) AS last_media_url,
    (SELECT m2.media_kind FROM message m2
     WHERE m2.deleted_at IS NULL
       AND ((m2.sender_id = @viewer AND m2.receiver_id = p.partner_id AND m2.deleted_for_sender = 0)
         OR (m2.receiver_id = @viewer AND m2.sender_id = p.partner_id AND m2.deleted_for_receiver = 0))
     ORDER BY m2.created_at DESC, m2.id DESC LIMIT 1) AS last_media_kind
FROM (
    SELECT
        CASE WHEN m.sender_id = @viewer THEN m.receiver_id ELSE m.sender_id END AS partner_id,
        MAX(m.created_at) AS last_message_at,
        SUM(CASE WHEN m.receiver_id = @viewer AND m.is_read = 0 THEN 1 ELSE 0 END) AS unread_count
    FROM message m
    WHERE m.deleted_at IS NULL
      AND ((m.sender_id = @viewer AND m.deleted_for_sender = 0)
        OR (m.receiver_id = @viewer AND m.deleted_for_receiver = 0))
    GROUP BY partner_id
) p
JOIN user_info u ON u.id = p.partner_id AND u.deleted_at IS NULL
ORDER BY p.last_message_at DESC`

func (r *messageRepository) ListConversations(viewerId uint) ([]ConversationRow, error) {
	var rows []ConversationRow
	err := r.db.Raw(conversationSQL, map[string]interface{}{"viewer": viewerId}).
		Scan(&rows).Error
	if err != nil {
		return nil, wrapDBError(err, "查询会话列表失败")
	}
	return rows, nil
}
