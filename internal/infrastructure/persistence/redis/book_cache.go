package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/pkg/circuitbreaker"
	"github.com/xiebiao/bookstore-api/pkg/metrics"
)

// keyPrefix 图书详情缓存key前缀，完整key为 book:{id}
const keyPrefix = "book:"

// 失效标记：写操作提交后用它占住key，而不是直接DEL
const (
	invalidatedValue  = "__invalidated__"
	invalidatedWindow = 5 * time.Second
)

// Cmdable BookCache用到的Redis命令(*redis.Client实现了它)
type Cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// BookCache 图书详情缓存(Cache-Aside)
// 设计说明：
// 1. 只缓存按ID查询的结果，写操作提交后删除对应key
// 2. 缓存是可选的加速层：任何Redis错误都只记录日志，不影响请求结果
// 3. 熔断器打开时直接跳过Redis，避免每个请求都等待超时
// 4. TTL兜底：删除失败时旧数据最多存活一个TTL
//
// 并发读写竞态：
// 读者未命中后读到旧行，写者提交并失效缓存，读者随后回填旧行。
// 为此失效时写入一个短期标记(invalidatedWindow)，回填使用SETNX，标记存在期间回填不会生效。
// 读者查库耗时超过标记窗口时仍可能回填旧数据，最坏情况旧数据存活一个TTL
type BookCache struct {
	client  Cmdable
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
	log     *zap.Logger
}

// NewBookCache 创建图书缓存
func NewBookCache(client Cmdable, ttl time.Duration, log *zap.Logger) *BookCache {
	metrics.InitMetrics()

	breaker := circuitbreaker.NewCircuitBreaker("book-cache", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Warn("缓存熔断器状态变化",
			zap.String("breaker", name),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		)
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
	})
	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": breaker.Name()}, float64(circuitbreaker.StateClosed))

	return &BookCache{
		client:  client,
		ttl:     ttl,
		breaker: breaker,
		log:     log,
	}
}

// Get 读取缓存，未命中或出错时返回false
func (c *BookCache) Get(ctx context.Context, id uint) (*book.Book, bool) {
	var data []byte
	err := c.execute(func() error {
		val, err := c.client.Get(ctx, key(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		data = val
		return err
	})

	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		c.record("bypass")
		return nil, false
	case err != nil:
		c.record("error")
		c.log.Warn("读取图书缓存失败", zap.Uint("book_id", id), zap.Error(err))
		return nil, false
	case data == nil, string(data) == invalidatedValue:
		c.record("miss")
		return nil, false
	}

	var cached cachedBook
	if err := json.Unmarshal(data, &cached); err != nil {
		c.record("error")
		c.log.Warn("图书缓存数据损坏", zap.Uint("book_id", id), zap.Error(err))
		return nil, false
	}

	c.record("hit")
	return cached.toEntity(), true
}

// Set 回填缓存
// 使用SETNX：key上已有失效标记(或已被其他读者回填)时不覆盖
func (c *BookCache) Set(ctx context.Context, b *book.Book) {
	data, err := json.Marshal(fromEntity(b))
	if err != nil {
		c.log.Warn("序列化图书缓存失败", zap.Uint("book_id", b.ID), zap.Error(err))
		return
	}

	err = c.execute(func() error {
		return c.client.SetNX(ctx, key(b.ID), data, c.ttl).Err()
	})
	if err != nil && !errors.Is(err, circuitbreaker.ErrOpenState) {
		c.log.Warn("写入图书缓存失败", zap.Uint("book_id", b.ID), zap.Error(err))
	}
}

// Delete 使缓存失效(写操作提交后调用)
// 用短期失效标记覆盖旧值，标记过期前的回填都会被SETNX拒绝
func (c *BookCache) Delete(ctx context.Context, id uint) {
	err := c.execute(func() error {
		return c.client.Set(ctx, key(id), invalidatedValue, invalidatedWindow).Err()
	})
	if err != nil {
		c.log.Warn("删除图书缓存失败，旧数据将在TTL后过期", zap.Uint("book_id", id), zap.Error(err))
	}
}

// execute 通过熔断器执行Redis命令并记录熔断器指标
func (c *BookCache) execute(fn func() error) error {
	err := c.breaker.Execute(fn)

	result := "success"
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		result = "rejected"
	case err != nil:
		result = "failure"
	}
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{
		"name":   c.breaker.Name(),
		"result": result,
	})
	return err
}

func (c *BookCache) record(result string) {
	metrics.IncCounterVec(metrics.CacheRequestsTotal, map[string]string{"result": result})
}

func key(id uint) string {
	return fmt.Sprintf("%s%d", keyPrefix, id)
}

// cachedBook 缓存中的图书结构(与领域实体解耦，字段变化时只影响缓存格式)
type cachedBook struct {
	ID              uint            `json:"id"`
	Title           string          `json:"title"`
	Author          string          `json:"author"`
	ISBN            string          `json:"isbn"`
	PublicationDate string          `json:"publication_date"`
	Price           decimal.Decimal `json:"price"`
	Description     string          `json:"description"`
	PageCount       int             `json:"page_count"`
	Publisher       string          `json:"publisher"`
	Genre           string          `json:"genre"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func fromEntity(b *book.Book) cachedBook {
	return cachedBook{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		PublicationDate: b.PublicationDate.Format(book.DateLayout),
		Price:           b.Price,
		Description:     b.Description,
		PageCount:       b.PageCount,
		Publisher:       b.Publisher,
		Genre:           string(b.Genre),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func (c cachedBook) toEntity() *book.Book {
	// 写入时由Format生成，解析失败只可能是数据损坏，按零值处理
	date, _ := book.ParseDate(c.PublicationDate)
	return &book.Book{
		ID:              c.ID,
		Title:           c.Title,
		Author:          c.Author,
		ISBN:            c.ISBN,
		PublicationDate: date,
		Price:           c.Price,
		Description:     c.Description,
		PageCount:       c.PageCount,
		Publisher:       c.Publisher,
		Genre:           book.Genre(c.Genre),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
