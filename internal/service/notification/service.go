// Package notification 实现通知业务逻辑
// 通知先持久化，在线推送只做尽力送达
package notification

import (
	"strconv"
	"time"

	"go.uber.org/zap"

	"shoplink_message_server/internal/dao/mysql/repository"
	"shoplink_message_server/internal/dto/request"
	"shoplink_message_server/internal/dto/respond"
	"shoplink_message_server/internal/model"
	"shoplink_message_server/internal/service/chat"
	"shoplink_message_server/pkg/errorx"
	"shoplink_message_server/pkg/util/snowflake"
)

// notificationService 通知业务逻辑实现
type notificationService struct {
	repos  *repository.Repositories
	pusher chat.Pusher
}

// NewNotificationService 构造函数
func NewNotificationService(repos *repository.Repositories, pusher chat.Pusher) *notificationService {
	return &notificationService{repos: repos, pusher: pusher}
}

// Notify 持久化一条通知并尽力推送给在线用户
// 落库失败返回错误，推送失败不影响结果
func (n *notificationService) Notify(req request.CreateNotificationRequest) (*respond.NotificationRespond, error) {
	notification := model.Notification{
		Uuid:         snowflake.GenerateID(),
		UserId:       req.UserId,
		Type:         req.Type,
		Message:      req.Message,
		ActionUrl:    req.ActionUrl,
		ResourceId:   req.ResourceId,
		ResourceType: req.ResourceType,
		Priority:     req.Priority,
		ExpiresAt:    req.ExpiresAt,
	}
	if err := n.repos.Notification.Create(&notification); err != nil {
		return nil, err
	}

	rsp := toNotificationRespond(&notification)
	if n.pusher != nil {
		n.pusher.PushToUser(req.UserId, chat.NewEvent(chat.EventNewNotification, rsp))
	}
	return rsp, nil
}

// GetList 获取用户的通知列表，过滤已过期的通知
func (n *notificationService) GetList(userId uint) ([]respond.NotificationRespond, error) {
	notifications, err := n.repos.Notification.FindByUserId(userId)
	if err != nil {
		zap.L().Error("查询通知列表失败", zap.Uint("userId", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	now := time.Now()
	rspList := make([]respond.NotificationRespond, 0, len(notifications))
	for i := range notifications {
		notif := &notifications[i]
		if notif.ExpiresAt != nil && notif.ExpiresAt.Before(now) {
			continue
		}
		rspList = append(rspList, *toNotificationRespond(notif))
	}
	return rspList, nil
}

// MarkRead 单条置已读，只能操作自己的通知
func (n *notificationService) MarkRead(userId, id uint) error {
	notification, err := n.repos.Notification.FindById(id)
	if err != nil {
		return err
	}
	if notification.UserId != userId {
		return errorx.New(errorx.CodeForbidden, "无权操作该通知")
	}
	return n.repos.Notification.MarkRead(id)
}

// MarkAllRead 全部置已读
func (n *notificationService) MarkAllRead(userId uint) error {
	return n.repos.Notification.MarkAllRead(userId)
}

// Delete 删除单条通知，只能操作自己的通知
func (n *notificationService) Delete(userId, id uint) error {
	notification, err := n.repos.Notification.FindById(id)
	if err != nil {
		return err
	}
	if notification.UserId != userId {
		return errorx.New(errorx.CodeForbidden, "无权操作该通知")
	}
	return n.repos.Notification.Delete(id)
}

// DeleteAll 清空用户通知
func (n *notificationService) DeleteAll(userId uint) error {
	return n.repos.Notification.DeleteAllByUserId(userId)
}

// toNotificationRespond 转换为响应结构
func toNotificationRespond(n *model.Notification) *respond.NotificationRespond {
	rsp := &respond.NotificationRespond{
		Id:           n.ID,
		Uuid:         strconv.FormatInt(n.Uuid, 10),
		Type:         n.Type,
		Message:      n.Message,
		ActionUrl:    n.ActionUrl,
		ResourceId:   n.ResourceId,
		ResourceType: n.ResourceType,
		IsRead:       n.IsRead,
		Priority:     n.Priority,
		CreatedAt:    n.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if n.ExpiresAt != nil {
		rsp.ExpiresAt = n.ExpiresAt.Format("2006-01-02 15:04:05")
	}
	return rsp
}
