// Package router 组装Gin引擎：中间件、路由、运维端点
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/xiebiao/bookstore-api/docs" // 注册Swagger文档
	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-api/internal/interface/http/handler"
	"github.com/xiebiao/bookstore-api/internal/interface/http/middleware"
	"github.com/xiebiao/bookstore-api/pkg/response"
)

// New 创建并配置Gin引擎
// 学习要点：
// 1. 使用gin.New()而不是gin.Default()，日志与panic恢复由自己的中间件负责
// 2. 中间件顺序：Logger最外层(注入请求级logger)，Recovery其次，Metrics最内层
// 3. 未匹配的路由返回与业务错误相同结构的404
func New(cfg *config.Config, log *zap.Logger, bookHandler *handler.BookHandler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(middleware.Logger(log), middleware.Recovery())

	// 运维端点
	r.GET("/ping", func(c *gin.Context) {
		response.OK(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// Swagger文档：http://localhost:8080/swagger/index.html
	// 生产环境建议关闭(swagger.enabled=false)
	if cfg.Swagger.Enabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerBookRoutes(r, bookHandler)
	r.NoRoute(response.NotFoundRoute)

	return r
}

// registerBookRoutes 图书接口
func registerBookRoutes(r *gin.Engine, h *handler.BookHandler) {
	books := r.Group("/api/books")
	{
		books.GET("", h.GetAllBooks)
		books.POST("", h.CreateBook)
		books.GET("/:id", h.GetBookByID)
		books.PUT("/:id", h.UpdateBook)
		books.DELETE("/:id", h.DeleteBook)
		books.GET("/isbn/:isbn", h.GetBookByISBN)

		search := books.Group("/search")
		{
			search.GET("/author", h.SearchByAuthor)
			search.GET("/title", h.SearchByTitle)
			search.GET("/genre", h.SearchByGenre)
		}
	}
}
