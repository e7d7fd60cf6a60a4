package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"shoplink_message_server/internal/config"
	dao "shoplink_message_server/internal/dao/mysql"
	myredis "shoplink_message_server/internal/dao/redis"
	"shoplink_message_server/internal/handler"
	"shoplink_message_server/internal/https_server"
	"shoplink_message_server/internal/infrastructure/logger"
	"shoplink_message_server/internal/infrastructure/storage"
	"shoplink_message_server/internal/service"
	"shoplink_message_server/internal/service/chat"
	"shoplink_message_server/pkg/util/jwt"
	"shoplink_message_server/pkg/util/snowflake"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, "dev"); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化雪花 ID 节点
	snowflake.Init(conf.SnowflakeConfig.MachineID)
	zap.L().Info("雪花节点初始化成功")

	// 4. 初始化数据库
	repos := dao.Init()
	zap.L().Info("数据库初始化成功")

	// 5. 初始化 Redis
	myredis.Init()
	zap.L().Info("Redis 初始化成功")

	// 6. 初始化 JWT
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	zap.L().Info("JWT 初始化成功")

	// 7. 初始化对象存储
	store, err := storage.NewCloudinaryStore(
		conf.MediaConfig.CloudName,
		conf.MediaConfig.ApiKey,
		conf.MediaConfig.ApiSecret,
	)
	if err != nil {
		zap.L().Fatal("对象存储初始化失败", zap.Error(err))
	}
	zap.L().Info("对象存储初始化成功")

	// 8. 初始化 ChatServer（根据配置选择单机/Kafka 事件代理）
	chatServer := chat.NewChatServer(chat.ChatServerConfig{
		Mode: conf.KafkaConfig.EventMode,
	})
	if conf.KafkaConfig.EventMode == "kafka" {
		chatServer.InitKafka()
	}
	zap.L().Info("ChatServer 初始化成功", zap.String("mode", conf.KafkaConfig.EventMode))

	// 9. 初始化 Service 层 (依赖注入)
	service.InitServices(repos, myredis.GetCacheService(), chatServer.GetBroker(), store)
	// 注入已读回执处理器 (依赖倒置: chat → message)
	chat.SetReadAcker(service.Svc.Message)
	zap.L().Info("Service 层初始化成功")

	// 10. 初始化 Handler 层和 HTTP 服务器
	handlers := handler.NewHandlers(service.Svc)
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("翻译器初始化失败", zap.Error(err))
	}
	engine := https_server.Init(handlers)
	zap.L().Info("HTTP 服务器初始化成功")

	// 11. 启动服务
	go chatServer.Start()

	go func() {
		addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port)
		if err := engine.Run(addr); err != nil {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("关闭服务器...")
	chatServer.Close()
	zap.L().Info("服务器已关闭")
}
