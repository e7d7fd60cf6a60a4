// Package chat 实现实时消息推送层
// standalone_broker.go
// 核心职责：单机模式下的事件代理实现
// 1. 维护在线用户连接 (Channel 模式)
// 2. 业务层先落库再投递，这里只做进程内的尽力转发
// 3. 不依赖外部消息队列，适合单实例或开发环境
package chat

import (
	"sync"

	"go.uber.org/zap"

	"shoplink_message_server/pkg/constants"
)

// envelope 投递信封：指定目标用户或广播
type envelope struct {
	TargetId  uint  `json:"target_id"`
	Broadcast bool  `json:"broadcast"`
	Event     Event `json:"event"`
}

// StandaloneBroker 单机事件代理
type StandaloneBroker struct {
	registry ConnectionRegistry

	// Transmit 事件投递通道
	Transmit chan envelope
	// Login 客户端登录通道
	Login chan *UserConn
	// Logout 客户端登出通道
	Logout chan *UserConn

	closeOnce sync.Once
}

// NewStandaloneBroker 创建单机事件代理
func NewStandaloneBroker() *StandaloneBroker {
	return &StandaloneBroker{
		Transmit: make(chan envelope, constants.CHANNEL_SIZE),
		Login:    make(chan *UserConn, constants.CHANNEL_SIZE),
		Logout:   make(chan *UserConn, constants.CHANNEL_SIZE),
	}
}

// PushToUser 向指定用户投递事件
// 通道满时丢弃，持久层已落库，客户端重新拉取即可补齐
func (s *StandaloneBroker) PushToUser(userId uint, event Event) {
	select {
	case s.Transmit <- envelope{TargetId: userId, Event: event}:
	default:
		zap.L().Warn("事件投递通道已满，丢弃事件",
			zap.Uint("userId", userId), zap.String("event", event.Event))
	}
}

// Broadcast 向所有在线连接投递事件
func (s *StandaloneBroker) Broadcast(event Event) {
	select {
	case s.Transmit <- envelope{Broadcast: true, Event: event}:
	default:
		zap.L().Warn("事件投递通道已满，丢弃广播", zap.String("event", event.Event))
	}
}

// RegisterClient 注册客户端连接
func (s *StandaloneBroker) RegisterClient(client *UserConn) {
	s.Login <- client
}

// UnregisterClient 注销客户端连接
func (s *StandaloneBroker) UnregisterClient(client *UserConn) {
	s.Logout <- client
}

// GetClient 获取指定用户的连接
func (s *StandaloneBroker) GetClient(userId uint) *UserConn {
	return s.registry.Get(userId)
}

// Start 启动事件主循环
// 登录/登出维护注册表并广播在线状态变化，Transmit 做事件分发
func (s *StandaloneBroker) Start() {
	for {
		select {
		case client, ok := <-s.Login:
			if !ok {
				return
			}
			if client == nil {
				continue
			}
			s.registry.Store(client)
			zap.L().Info("用户上线", zap.Uint("userId", client.UserId))
			s.registry.DeliverBroadcast(NewEvent(EventPresenceChange, map[string]any{
				"userId": client.UserId,
				"online": true,
			}).Encode())

		case client, ok := <-s.Logout:
			if !ok {
				return
			}
			if client == nil {
				continue
			}
			// 被新连接顶替的旧连接注销时用户还在线，不广播下线
			if !s.registry.Remove(client) {
				continue
			}
			zap.L().Info("用户下线", zap.Uint("userId", client.UserId))
			s.registry.DeliverBroadcast(NewEvent(EventPresenceChange, map[string]any{
				"userId": client.UserId,
				"online": false,
			}).Encode())

		case env, ok := <-s.Transmit:
			if !ok {
				return
			}
			frame := env.Event.Encode()
			if env.Broadcast {
				s.registry.DeliverBroadcast(frame)
			} else {
				s.registry.DeliverToUser(env.TargetId, frame)
			}
		}
	}
}

// Close 关闭代理资源
func (s *StandaloneBroker) Close() {
	s.closeOnce.Do(func() {
		close(s.Login)
		close(s.Logout)
		close(s.Transmit)
	})
}
