package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/logger"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/persistence/mysql"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "执行数据库表结构迁移",
	RunE: func(_ *cobra.Command, _ []string) error {
		return migrate()
	},
}

// migrate 只建立连接并迁移books表，不启动服务
func migrate() error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}
	log, cleanupLog, err := logger.Provide(cfg)
	if err != nil {
		return err
	}
	defer cleanupLog()

	// 迁移由本命令显式执行
	cfg.Database.AutoMigrate = false
	db, cleanupDB, err := mysql.Provide(cfg, log)
	if err != nil {
		return err
	}
	defer cleanupDB()

	if err := mysql.AutoMigrate(db); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	log.Info("数据库迁移完成", zap.String("driver", cfg.Database.Driver))
	return nil
}
