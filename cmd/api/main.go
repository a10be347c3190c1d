// bookstore-api 图书管理REST服务
//
// @title           Bookstore API
// @version         1.0
// @description     图书CRUD服务：ISBN唯一，PUT按ID更新或创建
// @BasePath        /
// @schemes         http
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// configDir --config参数：配置文件所在目录
var configDir string

// rootCmd 根命令
// 子命令：
//
//	serve    启动HTTP服务(以及可选的gRPC健康检查)
//	migrate  只执行数据库迁移
//	events   订阅并打印图书事件
var rootCmd = &cobra.Command{
	Use:           "bookstore-api",
	Short:         "图书管理REST服务",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", "", "配置文件目录(包含config.yaml)")
	rootCmd.AddCommand(serveCmd, migrateCmd, eventsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
