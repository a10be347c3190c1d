//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入不同，Wire在编译期生成代码
// 3. 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
//
// 核心概念：
// - Provider: 提供依赖的构造函数（如NewBookRepository）
// - Injector: 声明最终要构造的目标类型（*App）
// - wire.Build(): 告诉Wire如何组装依赖链
// - 返回cleanup的Provider会被Wire串成一个整体cleanup，按创建的逆序执行

package main

import (
	"github.com/google/wire"

	appbook "github.com/xiebiao/bookstore-api/internal/application/book"
	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/logger"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookstore-api/internal/interface/http/handler"
	"github.com/xiebiao/bookstore-api/internal/interface/http/router"
)

// infrastructureSet 基础设施层依赖
// 包含：配置、日志、数据库、缓存、消息、链路追踪
var infrastructureSet = wire.NewSet(
	config.Load,
	logger.Provide,
	mysql.Provide,
	provideBookCache,
	provideEventPublisher,
	provideTracing,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewBookRepository,
	mysql.NewTxManager,
	wire.Bind(new(book.TxManager), new(*mysql.TxManager)),
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	book.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewCreateBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewQueryBooksUseCase,
)

// interfaceSet 接口层依赖：HTTP与gRPC健康检查
var interfaceSet = wire.NewSet(
	handler.NewBookHandler,
	router.New,
	provideHealthServer,
)

// InitializeApp 初始化整个应用
// configDir为空时按默认路径查找配置文件
func InitializeApp(configDir string) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
