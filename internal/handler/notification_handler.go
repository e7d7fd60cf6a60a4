// Package handler 提供 HTTP 请求处理器
// 本文件处理通知相关的 API 请求
package handler

import (
	"github.com/gin-gonic/gin"

	"shoplink_message_server/internal/dto/request"
	"shoplink_message_server/internal/service"
	"shoplink_message_server/pkg/errorx"
)

// NotificationHandler 通知请求处理器
type NotificationHandler struct {
	svc service.NotificationService
}

// NewNotificationHandler 构造函数
func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// CreateNotification 创建通知
// POST /notification
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req request.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	data, err := h.svc.Notify(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetNotifications 获取通知列表
// GET /notification
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "请先登录"))
		return
	}

	data, err := h.svc.GetList(userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// MarkRead 单条通知置已读
// PATCH /notification/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "请先登录"))
		return
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}

	if err := h.svc.MarkRead(userId, id); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// MarkAllRead 全部通知置已读
// POST /notification/read/all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "请先登录"))
		return
	}

	if err := h.svc.MarkAllRead(userId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// DeleteNotification 删除单条通知
// DELETE /notification/:id
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "请先登录"))
		return
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}

	if err := h.svc.Delete(userId, id); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// DeleteAllNotifications 清空通知
// DELETE /notification
func (h *NotificationHandler) DeleteAllNotifications(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "请先登录"))
		return
	}

	if err := h.svc.DeleteAll(userId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
