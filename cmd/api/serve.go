package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动HTTP服务",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

// serve 启动服务并等待退出信号
// 教学要点：优雅关闭
// 1. 监听SIGINT/SIGTERM
// 2. 收到信号后停止接受新请求，等待进行中的请求完成(最多shutdown_timeout)
// 3. 最后执行Wire串联的cleanup(关闭MQ、Redis、数据库，刷新日志)
func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	// 1. 依赖注入
	app, cleanup, err := InitializeApp(configDir)
	if err != nil {
		return fmt.Errorf("初始化应用失败: %w", err)
	}
	defer cleanup()

	cfg, log := app.Config, app.Log
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)

	// 2. gRPC健康检查(可选)
	if cfg.GRPC.HealthPort > 0 {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPC.HealthPort))
		if err != nil {
			return fmt.Errorf("监听gRPC健康检查端口失败: %w", err)
		}
		go app.Health.Run(ctx)
		go func() {
			if err := app.Health.Serve(lis); err != nil {
				errCh <- fmt.Errorf("gRPC健康检查服务异常: %w", err)
			}
		}()
		defer app.Health.Stop()
	}

	// 3. HTTP服务
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Info("HTTP服务启动",
			zap.String("addr", srv.Addr),
			zap.String("mode", cfg.Server.Mode),
			zap.String("database", cfg.Database.Driver),
			zap.Bool("redis", cfg.Redis.Enabled),
			zap.Bool("mq", cfg.MQ.Enabled),
			zap.Bool("tracing", bool(app.Tracing)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP服务异常: %w", err)
		}
	}()

	// 4. 等待退出
	select {
	case <-ctx.Done():
		log.Info("收到关闭信号，开始优雅关闭")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP服务关闭失败: %w", err)
	}

	log.Info("服务已安全关闭")
	return nil
}
