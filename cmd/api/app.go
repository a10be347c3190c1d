package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appbook "github.com/xiebiao/bookstore-api/internal/application/book"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookstore-api/internal/interface/grpcserver"
	"github.com/xiebiao/bookstore-api/pkg/mq"
	"github.com/xiebiao/bookstore-api/pkg/tracing"
)

// App serve命令需要的全部组件
// 教学说明：Wire Injector只能返回一个目标类型，需要多个对象时用结构体聚合
type App struct {
	Config  *config.Config
	Log     *zap.Logger
	Engine  *gin.Engine
	Health  *grpcserver.HealthServer
	Tracing TracingState
}

// TracingState 链路追踪是否已初始化
// 单独定义类型，让Wire能区分它与其他bool
type TracingState bool

// provideBookCache 根据配置选择Redis缓存或空实现
// 教学要点：Provider返回接口类型时，Wire按返回类型匹配依赖，调用方不感知具体实现
func provideBookCache(cfg *config.Config, log *zap.Logger) (appbook.BookCache, func(), error) {
	if !cfg.Redis.Enabled {
		log.Info("Redis缓存未启用")
		return appbook.NoopCache{}, func() {}, nil
	}

	client, err := redis.NewClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return redis.NewBookCache(client, cfg.Redis.CacheTTL, log), cleanup, nil
}

// provideEventPublisher 根据配置选择RabbitMQ发布者或空实现
func provideEventPublisher(cfg *config.Config, log *zap.Logger) (appbook.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		log.Info("图书事件发布未启用")
		return appbook.NoopPublisher{}, func() {}, nil
	}

	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = pub.Close()
	}
	return appbook.NewMQPublisher(pub), cleanup, nil
}

// provideTracing 初始化OpenTelemetry(未启用时使用全局Noop TracerProvider)
func provideTracing(cfg *config.Config, log *zap.Logger) (TracingState, func(), error) {
	if !cfg.Tracing.Enabled {
		return false, func() {}, nil
	}

	shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
	if err != nil {
		return false, nil, fmt.Errorf("初始化链路追踪失败: %w", err)
	}
	log.Info("链路追踪已启用",
		zap.String("endpoint", cfg.Tracing.Endpoint),
		zap.Float64("sample_ratio", cfg.Tracing.SampleRatio),
	)

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			log.Warn("关闭链路追踪失败", zap.Error(err))
		}
	}
	return true, cleanup, nil
}

// provideHealthServer gRPC健康检查，依赖检查为数据库Ping
func provideHealthServer(cfg *config.Config, db *gorm.DB, log *zap.Logger) (*grpcserver.HealthServer, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	return grpcserver.NewHealthServer(sqlDB.PingContext, cfg.GRPC.CheckInterval, log), nil
}
