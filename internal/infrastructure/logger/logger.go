// Package logger 基于zap构建结构化日志
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
)

// New 根据日志配置创建zap.Logger
// 设计说明:
// 1. debug级别使用Development配置(ISO8601时间、彩色级别),其余使用Production配置
// 2. Format决定编码器(console/json),Output决定输出位置
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
	}

	var zc zap.Config
	if level == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	if cfg.Format == "console" {
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.DisableStacktrace = true
	} else {
		zc.Encoding = "json"
	}
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.MessageKey = "message"

	output := cfg.Output
	if output == "" {
		output = "stdout"
	}
	zc.OutputPaths = []string{output}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableCaller = !cfg.EnableCaller

	return zc.Build()
}

// Provide wire用Provider:创建Logger并返回清理函数
func Provide(cfg *config.Config) (*zap.Logger, func(), error) {
	l, err := New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = l.Sync()
	}
	return l, cleanup, nil
}
