// Package chat 实现实时消息推送层
// registry.go
// 核心职责：在线连接注册表
// 每个用户最多一条活跃连接，新连接顶掉旧连接
package chat

import (
	"sync"

	"go.uber.org/zap"
)

// ConnectionRegistry 在线连接注册表
// 使用 sync.Map 实现并发安全，Key 为用户 ID，Value 为 *UserConn
type ConnectionRegistry struct {
	clients sync.Map
}

// Store 注册连接，同一用户的旧连接被新连接取代并关闭
func (r *ConnectionRegistry) Store(client *UserConn) {
	if old, loaded := r.clients.Swap(client.UserId, client); loaded {
		oldConn := old.(*UserConn)
		if oldConn != client {
			zap.L().Info("用户新连接顶掉旧连接", zap.Uint("userId", client.UserId))
			oldConn.CloseOnce()
		}
	}
}

// Remove 注销连接，返回是否真正删除了表项
// 仅当注册表中仍是该连接时删除，避免误删顶替后的新连接；
// 被顶替的旧连接注销时返回 false，调用方据此决定是否广播下线
func (r *ConnectionRegistry) Remove(client *UserConn) bool {
	return r.clients.CompareAndDelete(client.UserId, client)
}

// Get 获取指定用户的连接，不在线返回 nil
func (r *ConnectionRegistry) Get(userId uint) *UserConn {
	if v, ok := r.clients.Load(userId); ok {
		return v.(*UserConn)
	}
	return nil
}

// Range 遍历全部在线连接
func (r *ConnectionRegistry) Range(fn func(client *UserConn) bool) {
	r.clients.Range(func(_, v any) bool {
		return fn(v.(*UserConn))
	})
}

// deliver 向单个连接尽力投递事件
// 发送缓冲满时丢弃并记录日志，在线层只保证至多一次送达
func (r *ConnectionRegistry) deliver(client *UserConn, frame []byte) {
	select {
	case client.SendBack <- frame:
	default:
		zap.L().Warn("连接发送缓冲已满，丢弃事件", zap.Uint("userId", client.UserId))
	}
}

// DeliverToUser 向指定用户投递事件帧，不在线直接丢弃
func (r *ConnectionRegistry) DeliverToUser(userId uint, frame []byte) {
	if client := r.Get(userId); client != nil {
		r.deliver(client, frame)
	}
}

// DeliverBroadcast 向所有在线连接投递事件帧
func (r *ConnectionRegistry) DeliverBroadcast(frame []byte) {
	r.Range(func(client *UserConn) bool {
		r.deliver(client, frame)
		return true
	})
}
