// Package router 提供 HTTP 路由注册
// 本文件定义通知相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterNotificationRoutes 注册通知相关路由（需要认证）
func (rt *Router) RegisterNotificationRoutes(rg *gin.RouterGroup) {
	notificationGroup := rg.Group("/notification")
	{
		notificationGroup.POST("", rt.handlers.Notification.CreateNotification)          // 创建通知
		notificationGroup.GET("", rt.handlers.Notification.GetNotifications)             // 通知列表
		notificationGroup.PATCH("/:id/read", rt.handlers.Notification.MarkRead)          // 单条已读
		notificationGroup.POST("/read/all", rt.handlers.Notification.MarkAllRead)        // 全部已读
		notificationGroup.DELETE("/:id", rt.handlers.Notification.DeleteNotification)    // 删除单条
		notificationGroup.DELETE("", rt.handlers.Notification.DeleteAllNotifications)    // 清空通知
	}
}
