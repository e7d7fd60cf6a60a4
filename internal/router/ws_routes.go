// Package router 提供 HTTP 路由注册
// 本文件定义 WebSocket 相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes 注册 WebSocket 路由
// 握手鉴权在 Handler 内完成（token 经查询参数传递）
// 请求示例: ws://host:port/ws?token=xxx
func (rt *Router) RegisterWebSocketRoutes(r *gin.Engine) {
	r.GET("/ws", rt.handlers.Ws.Connect)
}
