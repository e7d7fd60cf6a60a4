// Package https_server 提供 HTTP/HTTPS 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件和路由
package https_server

import (
	"shoplink_message_server/internal/config"
	"shoplink_message_server/internal/handler"
	"shoplink_message_server/internal/infrastructure/logger"
	"shoplink_message_server/internal/infrastructure/middleware"
	"shoplink_message_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Init 初始化 HTTP/HTTPS 服务器并返回 Gin 引擎实例
// handlers: 通过依赖注入传入的 handler 聚合对象
// 配置顺序：
//  1. 创建 Gin 引擎（空白，不含默认中间件）
//  2. 注册日志和恢复中间件
//  3. 配置 CORS 跨域规则
//  4. 按需启用 TLS 重定向
//  5. 注册业务路由
func Init(handlers *handler.Handlers) *gin.Engine {
	engine := gin.New()

	// 自定义 Zap 日志中间件，替代 Gin 默认的日志
	engine.Use(logger.GinLogger())
	// Panic 恢复中间件，true 表示日志中包含堆栈信息
	engine.Use(logger.GinRecovery(true))

	// CORS 跨域规则
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // 生产环境应指定具体域名
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	// TLS 重定向（由 Nginx 终止 SSL 的部署无需开启）
	conf := config.GetConfig()
	if conf.MainConfig.ForceTls {
		engine.Use(middleware.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))
	}

	rt := router.NewRouter(handlers)
	rt.RegisterRoutes(engine)

	return engine
}
