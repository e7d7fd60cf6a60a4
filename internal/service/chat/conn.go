// Package chat 实现实时消息推送层
// conn.go
// 核心职责：WebSocket 连接生命周期管理
// 1. 建立 WebSocket 连接 (Upgrade)
// 2. 封装 UserConn 对象，管理读写协程
// 3. 入站事件处理：输入状态转发、已读回执落库
package chat

import (
	"encoding/json"
	"sync"

	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"shoplink_message_server/internal/dto/request"
	"shoplink_message_server/pkg/constants"
)

// UserConn 表示一个 WebSocket 客户端连接
type UserConn struct {
	Conn     *websocket.Conn
	UserId   uint
	SendBack chan []byte // 出站事件帧缓冲

	done      chan struct{}
	closeOnce sync.Once
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	// 允许跨域握手，前端与 API 不同源
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// CloseOnce 关闭连接和写协程，可重复调用
func (c *UserConn) CloseOnce() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.Conn == nil {
			return
		}
		if err := c.Conn.Close(); err != nil {
			zap.L().Debug("关闭 WebSocket 连接", zap.Error(err))
		}
	})
}

// Read 从 WebSocket 读取入站事件并分发处理
// 连接出错即注销并退出
func (c *UserConn) Read() {
	zap.L().Info("ws read goroutine start", zap.Uint("userId", c.UserId))
	defer func() {
		GlobalBroker.UnregisterClient(c)
		c.CloseOnce()
	}()

	for {
		_, frame, err := c.Conn.ReadMessage()
		if err != nil {
			zap.L().Info("ws连接断开", zap.Uint("userId", c.UserId), zap.Error(err))
			return
		}

		var event Event
		if err := json.Unmarshal(frame, &event); err != nil {
			zap.L().Error("解析入站事件失败", zap.Error(err))
			continue
		}
		c.handleInbound(event)
	}
}

// handleInbound 处理客户端入站事件
func (c *UserConn) handleInbound(event Event) {
	switch event.Event {
	case EventTypingStart, EventTypingStop:
		// 输入状态只做实时转发，不落库
		var req request.TypingEventRequest
		if err := json.Unmarshal(event.Data, &req); err != nil {
			zap.L().Error("解析输入状态载荷失败", zap.Error(err))
			return
		}
		if req.PartnerId == 0 {
			return
		}
		GlobalBroker.PushToUser(req.PartnerId, NewEvent(event.Event, gin.H{
			"partnerId": c.UserId,
		}))

	case EventMessageRead:
		// 已读回执需要落库，由消息服务处理并推送回执给发送方
		var req request.ReadEventRequest
		if err := json.Unmarshal(event.Data, &req); err != nil {
			zap.L().Error("解析已读回执载荷失败", zap.Error(err))
			return
		}
		if readAcker == nil {
			zap.L().Warn("readAcker 未注入，忽略已读回执")
			return
		}
		if err := readAcker.MarkRead(req.MessageId, c.UserId); err != nil {
			zap.L().Error("已读回执处理失败",
				zap.Uint("messageId", req.MessageId),
				zap.Uint("userId", c.UserId),
				zap.Error(err))
		}

	default:
		zap.L().Debug("忽略未知入站事件", zap.String("event", event.Event))
	}
}

// Write 从 SendBack 通道读取事件帧并发送给 WebSocket
func (c *UserConn) Write() {
	zap.L().Info("ws write goroutine start", zap.Uint("userId", c.UserId))
	for {
		select {
		case frame := <-c.SendBack:
			if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				zap.L().Error("ws写入失败", zap.Uint("userId", c.UserId), zap.Error(err))
				c.CloseOnce()
				return
			}
		case <-c.done:
			return
		}
	}
}

// NewClientInit 握手鉴权通过后建立 WebSocket 连接并注册
func NewClientInit(c *gin.Context, userId uint) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error(err.Error())
		return
	}
	client := &UserConn{
		Conn:     conn,
		UserId:   userId,
		SendBack: make(chan []byte, constants.CHANNEL_SIZE),
		done:     make(chan struct{}),
	}
	GlobalBroker.RegisterClient(client)
	go client.Read()
	go client.Write()
	zap.L().Info("ws连接成功", zap.Uint("userId", userId))
}
