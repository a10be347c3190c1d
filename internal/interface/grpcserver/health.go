// Package grpcserver gRPC健康检查服务
package grpcserver

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName 健康检查中登记的服务名
const ServiceName = "bookstore.api.BookService"

// Checker 依赖检查函数(如数据库Ping)，返回nil表示可用
type Checker func(ctx context.Context) error

// HealthServer 实现grpc.health.v1.Health
// 设计说明：
// 1. 周期性执行Checker，结果同步到整体状态("")与ServiceName
// 2. 供Kubernetes gRPC探针或grpc_health_probe使用，与HTTP服务独立监听
// 3. 注册反射服务，便于用grpcurl调试
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	check    Checker
	interval time.Duration
	log      *zap.Logger
}

// NewHealthServer 创建健康检查服务
func NewHealthServer(check Checker, interval time.Duration, log *zap.Logger) *HealthServer {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	server := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(server, hs)
	reflection.Register(server)

	// 第一次检查完成前视为不可用
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &HealthServer{
		server:   server,
		health:   hs,
		check:    check,
		interval: interval,
		log:      log,
	}
}

// Serve 在lis上提供服务，阻塞直到Stop
func (s *HealthServer) Serve(lis net.Listener) error {
	s.log.Info("gRPC健康检查服务启动", zap.String("addr", lis.Addr().String()))
	return s.server.Serve(lis)
}

// Run 周期性检查依赖，ctx取消时返回
func (s *HealthServer) Run(ctx context.Context) {
	s.checkOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkOnce(ctx)
		}
	}
}

// Stop 标记为不可用并优雅停止
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

func (s *HealthServer) checkOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.check(ctx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		s.log.Warn("依赖检查失败", zap.Error(err))
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
