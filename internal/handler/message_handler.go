// Package handler 提供 HTTP 请求处理器
// 本文件处理私信相关的 API 请求
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shoplink_message_server/internal/dto/request"
	"shoplink_message_server/internal/dto/respond"
	"shoplink_message_server/internal/service"
	"shoplink_message_server/pkg/errorx"
)

// MessageHandler 私信请求处理器
type MessageHandler struct {
	svc service.MessageService
}

// NewMessageHandler 构造函数
func NewMessageHandler(svc service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// currentUserId 从上下文获取 JWT 中间件写入的用户 ID
func currentUserId(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	userId, ok := v.(uint)
	return userId, ok
}

// parseUintParam 解析路径参数为 uint
func parseUintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, errorx.Newf(errorx.CodeInvalidParam, "参数 %s 无效", name)
	}
	return uint(v), nil
}

// SendMessage 发送消息
// POST /message/send (multipart/form-data)
// 表单字段: receiverId, content; 附件字段: media（可选）
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "请先登录"))
		return
	}

	var req request.SendMessageRequest
	if err := c.ShouldBind(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	media, err := c.FormFile("media")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		HandleParamError(c, err)
		return
	}

	data, err := h.svc.Send(userId, req, media)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetConversations 获取会话列表
// GET /message/conversations
func (h *MessageHandler) GetConversations(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "请先登录"))
		return
	}

	data, err := h.svc.GetConversations(userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetMessageList 获取与某个对话方的消息列表
// GET /message/with/:partnerId
func (h *MessageHandler) GetMessageList(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "请先登录"))
		return
	}
	partnerId, err := parseUintParam(c, "partnerId")
	if err != nil {
		HandleError(c, err)
		return
	}

	data, err := h.svc.GetMessageList(userId, partnerId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// EditMessage 编辑消息
// PUT /message/:messageId
func (h *MessageHandler) EditMessage(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "请先登录"))
		return
	}
	messageId, err := parseUintParam(c, "messageId")
	if err != nil {
		HandleError(c, err)
		return
	}

	var req request.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	data, err := h.svc.Edit(userId, messageId, req.Content)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DeleteMessage 删除消息
// DELETE /message/:messageId?forEveryone=true
// forEveryone 为 true 时撤回（30 分钟窗口），否则仅对自己删除
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "请先登录"))
		return
	}
	messageId, err := parseUintParam(c, "messageId")
	if err != nil {
		HandleError(c, err)
		return
	}

	forEveryone := c.Query("forEveryone") == "true"
	if err := h.svc.Delete(userId, messageId, forEveryone); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// MarkRead 单条消息置已读
// PATCH /message/:messageId/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "请先登录"))
		return
	}
	messageId, err := parseUintParam(c, "messageId")
	if err != nil {
		HandleError(c, err)
		return
	}

	if err := h.svc.MarkRead(messageId, userId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// MarkAllRead 某对话方发来的消息全部置已读
// POST /message/read/all/:partnerId
func (h *MessageHandler) MarkAllRead(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "请先登录"))
		return
	}
	partnerId, err := parseUintParam(c, "partnerId")
	if err != nil {
		HandleError(c, err)
		return
	}

	count, err := h.svc.MarkAllRead(userId, partnerId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"count": count})
}

// GetUnreadCount 统计未读消息数
// GET /message/unread/count
func (h *MessageHandler) GetUnreadCount(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "请先登录"))
		return
	}

	count, err := h.svc.GetUnreadCount(userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.UnreadCountRespond{Count: count})
}

// SearchMessages 搜索消息
// GET /message/search?query=xxx
func (h *MessageHandler) SearchMessages(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "请先登录"))
		return
	}

	var req request.SearchMessageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	data, err := h.svc.Search(userId, req.Query)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
