// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"shoplink_message_server/internal/dao/mysql/repository"
	myredis "shoplink_message_server/internal/dao/redis"
	"shoplink_message_server/internal/infrastructure/storage"
	"shoplink_message_server/internal/service/chat"
	"shoplink_message_server/internal/service/media"
	"shoplink_message_server/internal/service/message"
	"shoplink_message_server/internal/service/notification"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过此结构访问各个 Service
type Services struct {
	Message      MessageService      // 消息 Service
	Notification NotificationService // 通知 Service
	Media        MediaService        // 媒体 Service
}

// NewServices 创建并注入所有 Service 实例
// repos: Repository 层聚合实例
// cache: 异步缓存服务，可为 nil（测试或无 Redis 环境）
// pusher: 在线推送接口，可为 nil
// store: 媒体对象存储实现
func NewServices(
	repos *repository.Repositories,
	cache myredis.AsyncCacheService,
	pusher chat.Pusher,
	store storage.MediaStore,
) *Services {
	mediaSvc := media.NewMediaService(store)
	notificationSvc := notification.NewNotificationService(repos, pusher)
	messageSvc := message.NewMessageService(repos, cache, pusher, mediaSvc, notificationSvc)

	return &Services{
		Message:      messageSvc,
		Notification: notificationSvc,
		Media:        mediaSvc,
	}
}

// Svc 全局 Services 实例
var Svc *Services

// InitServices 初始化全局 Services 实例
// 应在 main.go 中调用，在 Repository 和 ChatServer 初始化之后
func InitServices(
	repos *repository.Repositories,
	cache myredis.AsyncCacheService,
	pusher chat.Pusher,
	store storage.MediaStore,
) {
	Svc = NewServices(repos, cache, pusher, store)
}
