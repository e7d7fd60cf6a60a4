// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 连接相关的 API 请求
package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shoplink_message_server/internal/service/chat"
	"shoplink_message_server/pkg/errorx"
	"shoplink_message_server/pkg/util/jwt"
)

// WsHandler WebSocket 握手处理器
type WsHandler struct{}

// NewWsHandler 构造函数
func NewWsHandler() *WsHandler {
	return &WsHandler{}
}

// Connect WebSocket 连接握手
// GET /ws?token=xxx
// 鉴权在协议升级之前完成：token 取自查询参数，退化取 Authorization 头，
// 校验失败直接返回 401，不建立连接
func (h *WsHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code": errorx.CodeUnauthorized,
			"msg":  "缺少认证 Token",
		})
		return
	}

	claims, err := jwt.ParseToken(token)
	if err != nil || claims.Subject != "access_token" {
		zap.L().Info("ws握手鉴权失败", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{
			"code": errorx.CodeUnauthorized,
			"msg":  "Token 已过期或无效",
		})
		return
	}

	chat.NewClientInit(c, claims.UserID)
}
