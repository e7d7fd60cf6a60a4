// Package chat 实现实时消息推送层
// broker.go
// 核心职责：定义事件代理接口
// 抽象事件投递和客户端管理，支持 Kafka 和 Channel 两种实现
package chat

// EventBroker 定义事件代理接口
// 支持多种实现：KafkaBroker (分布式), StandaloneBroker (单机)
type EventBroker interface {
	Pusher
	// RegisterClient 注册客户端连接
	RegisterClient(client *UserConn)
	// UnregisterClient 注销客户端连接
	UnregisterClient(client *UserConn)
	// GetClient 获取指定用户的连接
	GetClient(userId uint) *UserConn
	// Start 启动事件消费循环
	Start()
	// Close 关闭代理资源
	Close()
}

// GlobalBroker 全局事件代理实例
// 在 main.go 中根据配置初始化为 KafkaBroker 或 StandaloneBroker
var GlobalBroker EventBroker
