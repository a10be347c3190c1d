// Package testutil 测试辅助函数
package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
)

// SQLiteConfig 返回使用独立内存SQLite库的配置
// 每次调用库名不同,测试之间互不影响
func SQLiteConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:         8080,
			Mode:         "test",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			DBName:      "file:" + uuid.NewString() + "?mode=memory&cache=shared",
			AutoMigrate: true,
		},
		Log: config.LogConfig{Level: "error", Format: "json", Output: "stderr"},
		Metrics: config.MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Swagger: config.SwaggerConfig{Enabled: true},
	}
}

// BookFields 返回一组合法的图书字段
func BookFields(isbn string) book.Fields {
	return book.Fields{
		Title:           "Clean Code",
		Author:          "Robert C. Martin",
		ISBN:            isbn,
		PublicationDate: time.Date(2008, 8, 1, 0, 0, 0, 0, time.UTC),
		Price:           decimal.RequireFromString("42.50"),
		Description:     "A Handbook of Agile Software Craftsmanship",
		PageCount:       464,
		Publisher:       "Prentice Hall",
		Genre:           book.GenreTechnology,
	}
}

// BookJSON 返回合法的图书请求体
func BookJSON(isbn, title string) map[string]interface{} {
	return map[string]interface{}{
		"title":           title,
		"author":          "Robert C. Martin",
		"isbn":            isbn,
		"publicationDate": "2008-08-01",
		"price":           42.5,
		"description":     "A Handbook of Agile Software Craftsmanship",
		"pageCount":       464,
		"publisher":       "Prentice Hall",
		"genre":           "TECHNOLOGY",
	}
}
