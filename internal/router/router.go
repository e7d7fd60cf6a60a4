// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"github.com/gin-gonic/gin"

	"shoplink_message_server/internal/handler"
	"shoplink_message_server/internal/infrastructure/middleware"
)

// Router 路由管理器，持有 Handler 聚合实例
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用
// 业务路由统一挂在 JWT 认证组下；WebSocket 握手在 Handler 内自行鉴权，
// 因为浏览器的 WebSocket API 无法携带自定义 Header
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	authed := r.Group("/", middleware.JWTAuth())
	{
		rt.RegisterMessageRoutes(authed)
		rt.RegisterNotificationRoutes(authed)
	}

	rt.RegisterWebSocketRoutes(r)
}
