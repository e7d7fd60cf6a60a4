package repository

import (
	"shoplink_message_server/internal/model"

	"gorm.io/gorm"
)

// notificationRepository NotificationRepository 接口的 GORM 实现
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知 Repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		return wrapDBError(err, "创建通知失败")
	}
	return nil
}

func (r *notificationRepository) FindById(id uint) (*model.Notification, error) {
	var notification model.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查找通知失败, id: %d", id)
	}
	return &notification, nil
}

func (r *notificationRepository) FindByUserId(userId uint) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.
		Where("user_id = ?", userId).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, wrapDBError(err, "查询通知列表失败")
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(id uint) error {
	err := r.db.Model(&model.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
	if err != nil {
		return wrapDBErrorf(err, "通知置已读失败, id: %d", id)
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(userId uint) error {
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userId, false).
		Update("is_read", true).Error
	if err != nil {
		return wrapDBError(err, "通知全部置已读失败")
	}
	return nil
}

func (r *notificationRepository) Delete(id uint) error {
	err := r.db.Delete(&model.Notification{}, id).Error
	if err != nil {
		return wrapDBErrorf(err, "删除通知失败, id: %d", id)
	}
	return nil
}

func (r *notificationRepository) DeleteAllByUserId(userId uint) error {
	err := r.db.Where("user_id = ?", userId).Delete(&model.Notification{}).Error
	if err != nil {
		return wrapDBError(err, "删除全部通知失败")
	}
	return nil
}
