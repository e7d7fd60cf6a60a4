// Package chat 实现实时消息推送层
// server.go
// 核心职责：聊天服务器聚合结构和依赖注入
// 封装 EventBroker、KafkaClient 等组件，提供统一的生命周期管理
package chat

// ChatServer 聊天服务器聚合结构
type ChatServer struct {
	// Broker 事件代理，根据配置可能是 StandaloneBroker 或 KafkaBroker
	Broker EventBroker

	// KafkaClient Kafka 客户端（仅 Kafka 模式使用）
	KafkaClient *KafkaClient

	// mode 运行模式: "channel" 或 "kafka"
	mode string
}

// ChatServerConfig 聊天服务器配置
type ChatServerConfig struct {
	Mode string // "channel" 或 "kafka"
}

// NewChatServer 创建聊天服务器实例
// 根据配置选择 StandaloneBroker 或 KafkaBroker
func NewChatServer(cfg ChatServerConfig) *ChatServer {
	cs := &ChatServer{mode: cfg.Mode}

	if cfg.Mode == "kafka" {
		cs.KafkaClient = NewKafkaClient()
		cs.Broker = NewKafkaBroker(cs.KafkaClient)
	} else {
		// Channel 模式（默认）
		cs.Broker = NewStandaloneBroker()
	}

	GlobalBroker = cs.Broker
	return cs
}

// InitKafka 初始化 Kafka 连接（仅 Kafka 模式需要调用）
func (cs *ChatServer) InitKafka() {
	if cs.KafkaClient != nil {
		cs.KafkaClient.KafkaInit()
	}
}

// Start 启动聊天服务器
func (cs *ChatServer) Start() {
	cs.Broker.Start()
}

// Close 关闭聊天服务器
func (cs *ChatServer) Close() {
	cs.Broker.Close()
	if cs.KafkaClient != nil {
		cs.KafkaClient.KafkaClose()
	}
}

// GetBroker 获取事件代理
func (cs *ChatServer) GetBroker() EventBroker {
	return cs.Broker
}
