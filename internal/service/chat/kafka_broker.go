// Package chat 实现实时消息推送层
// kafka_broker.go
// 核心职责：分布式模式下的事件代理实现
// 1. 推送事件先发布到 Kafka，由各实例的消费者接收
// 2. 每个实例只向本机注册表中的连接投递，目标用户连在哪台实例就由哪台送达
// 3. 广播事件各实例全量投递
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	myconfig "shoplink_message_server/internal/config"
	"shoplink_message_server/pkg/constants"
)

// KafkaClient Kafka 客户端结构，封装底层 Writer/Reader
type KafkaClient struct {
	Producer *kafka.Writer
	Consumer *kafka.Reader
}

// NewKafkaClient 创建 Kafka 客户端实例
func NewKafkaClient() *KafkaClient {
	return &KafkaClient{}
}

// KafkaInit 初始化 Kafka 客户端
// 消费者组 ID 带实例标识，每个实例都消费全量事件
func (k *KafkaClient) KafkaInit() {
	kafkaConfig := myconfig.GetConfig().KafkaConfig
	k.Producer = &kafka.Writer{
		Addr:                   kafka.TCP(kafkaConfig.HostPort),
		Topic:                  kafkaConfig.EventTopic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           kafkaConfig.Timeout * time.Second,
		RequiredAcks:           kafka.RequireNone,
		AllowAutoTopicCreation: false,
	}
	k.Consumer = kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{kafkaConfig.HostPort},
		Topic:          kafkaConfig.EventTopic,
		CommitInterval: kafkaConfig.Timeout * time.Second,
		GroupID:        fmt.Sprintf("message-events-%d", time.Now().UnixNano()),
		StartOffset:    kafka.LastOffset,
	})
}

// KafkaClose 关闭 Kafka 资源
func (k *KafkaClient) KafkaClose() {
	if k.Producer != nil {
		if err := k.Producer.Close(); err != nil {
			zap.L().Error(err.Error())
		}
	}
	if k.Consumer != nil {
		if err := k.Consumer.Close(); err != nil {
			zap.L().Error(err.Error())
		}
	}
}

// SendMessage 向 Kafka 写入事件
func (k *KafkaClient) SendMessage(ctx context.Context, key, value []byte) error {
	return k.Producer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	})
}

// KafkaBroker 基于 Kafka 的事件代理
type KafkaBroker struct {
	client   *KafkaClient
	registry ConnectionRegistry

	// Login 客户端登录通道
	Login chan *UserConn
	// Logout 客户端登出通道
	Logout chan *UserConn

	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewKafkaBroker 创建 Kafka 事件代理
func NewKafkaBroker(client *KafkaClient) *KafkaBroker {
	return &KafkaBroker{
		client: client,
		Login:  make(chan *UserConn, constants.CHANNEL_SIZE),
		Logout: make(chan *UserConn, constants.CHANNEL_SIZE),
	}
}

// publish 将投递信封发布到 Kafka
func (k *KafkaBroker) publish(env envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		zap.L().Error("序列化投递信封失败", zap.Error(err))
		return
	}
	key := []byte(strconv.FormatUint(uint64(env.TargetId), 10))
	timeout := myconfig.GetConfig().KafkaConfig.Timeout * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := k.client.SendMessage(ctx, key, data); err != nil {
		zap.L().Error("发布事件到 Kafka 失败", zap.Error(err))
	}
}

// PushToUser 向指定用户投递事件
func (k *KafkaBroker) PushToUser(userId uint, event Event) {
	k.publish(envelope{TargetId: userId, Event: event})
}

// Broadcast 向所有在线连接投递事件
func (k *KafkaBroker) Broadcast(event Event) {
	k.publish(envelope{Broadcast: true, Event: event})
}

// RegisterClient 注册客户端连接
func (k *KafkaBroker) RegisterClient(client *UserConn) {
	k.Login <- client
}

// UnregisterClient 注销客户端连接
func (k *KafkaBroker) UnregisterClient(client *UserConn) {
	k.Logout <- client
}

// GetClient 获取指定用户的连接
func (k *KafkaBroker) GetClient(userId uint) *UserConn {
	return k.registry.Get(userId)
}

// Start 启动消费循环和客户端管理循环
func (k *KafkaBroker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	k.cancel = cancel

	// 消费协程：从 Kafka 读取事件并投递给本机连接
	go func() {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error(fmt.Sprintf("kafka consumer panic: %v", r))
			}
		}()
		for {
			msg, err := k.client.Consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				zap.L().Error("读取 Kafka 事件失败", zap.Error(err))
				continue
			}

			var env envelope
			if err := json.Unmarshal(msg.Value, &env); err != nil {
				zap.L().Error("解析投递信封失败", zap.Error(err))
				continue
			}
			frame := env.Event.Encode()
			if env.Broadcast {
				k.registry.DeliverBroadcast(frame)
			} else {
				k.registry.DeliverToUser(env.TargetId, frame)
			}
		}
	}()

	// 客户端管理循环
	for {
		select {
		case client, ok := <-k.Login:
			if !ok {
				return
			}
			if client == nil {
				continue
			}
			k.registry.Store(client)
			zap.L().Info("用户上线", zap.Uint("userId", client.UserId))
			k.Broadcast(NewEvent(EventPresenceChange, map[string]any{
				"userId": client.UserId,
				"online": true,
			}))

		case client, ok := <-k.Logout:
			if !ok {
				return
			}
			if client == nil {
				continue
			}
			// 被新连接顶替的旧连接注销时用户还在线，不广播下线
			if !k.registry.Remove(client) {
				continue
			}
			zap.L().Info("用户下线", zap.Uint("userId", client.UserId))
			k.Broadcast(NewEvent(EventPresenceChange, map[string]any{
				"userId": client.UserId,
				"online": false,
			}))
		}
	}
}

// Close 关闭代理资源
func (k *KafkaBroker) Close() {
	k.closeOnce.Do(func() {
		if k.cancel != nil {
			k.cancel()
		}
		close(k.Login)
		close(k.Logout)
	})
}
