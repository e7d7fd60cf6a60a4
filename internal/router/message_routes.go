// Package router 提供 HTTP 路由注册
// 本文件定义私信相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterMessageRoutes 注册私信相关路由（需要认证）
func (rt *Router) RegisterMessageRoutes(rg *gin.RouterGroup) {
	messageGroup := rg.Group("/message")
	{
		messageGroup.POST("/send", rt.handlers.Message.SendMessage)               // 发送消息（可带附件）
		messageGroup.GET("/conversations", rt.handlers.Message.GetConversations)  // 会话列表
		messageGroup.GET("/with/:partnerId", rt.handlers.Message.GetMessageList)  // 与某人的消息列表
		messageGroup.GET("/unread/count", rt.handlers.Message.GetUnreadCount)     // 未读统计
		messageGroup.GET("/search", rt.handlers.Message.SearchMessages)           // 内容搜索
		messageGroup.PUT("/:messageId", rt.handlers.Message.EditMessage)          // 编辑消息
		messageGroup.DELETE("/:messageId", rt.handlers.Message.DeleteMessage)     // 删除/撤回消息
		messageGroup.PATCH("/:messageId/read", rt.handlers.Message.MarkRead)      // 单条已读
		messageGroup.POST("/read/all/:partnerId", rt.handlers.Message.MarkAllRead) // 批量已读
	}
}
