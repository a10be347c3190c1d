package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/pkg/mq"
)

// BookCache 图书详情缓存端口
// 缓存是可选的加速层，实现方自行吞掉错误(记录日志)，调用方不处理缓存故障
type BookCache interface {
	Get(ctx context.Context, id uint) (*book.Book, bool)
	Set(ctx context.Context, b *book.Book)
	Delete(ctx context.Context, id uint)
}

// 图书事件类型，同时作为RabbitMQ的routing key
const (
	EventBookCreated = "book.created"
	EventBookUpdated = "book.updated"
	EventBookDeleted = "book.deleted"
)

// BookEvent 图书变更事件
type BookEvent struct {
	Type       string    `json:"type"`
	BookID     uint      `json:"book_id"`
	ISBN       string    `json:"isbn,omitempty"`
	Title      string    `json:"title,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher 事件发布端口
type EventPublisher interface {
	Publish(ctx context.Context, event BookEvent) error
}

// NoopCache 未启用Redis时使用
type NoopCache struct{}

func (NoopCache) Get(context.Context, uint) (*book.Book, bool) { return nil, false }
func (NoopCache) Set(context.Context, *book.Book)              {}
func (NoopCache) Delete(context.Context, uint)                 {}

// NoopPublisher 未启用RabbitMQ时使用
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, BookEvent) error { return nil }

// MQPublisher 把图书事件发布到RabbitMQ(routing key即事件类型)
type MQPublisher struct {
	pub *mq.Publisher
}

// NewMQPublisher 创建RabbitMQ事件发布者
func NewMQPublisher(pub *mq.Publisher) *MQPublisher {
	return &MQPublisher{pub: pub}
}

// Publish 发布事件
func (p *MQPublisher) Publish(ctx context.Context, event BookEvent) error {
	return p.pub.Publish(ctx, event.Type, event)
}

func newEvent(eventType string, b *book.Book) BookEvent {
	return BookEvent{
		Type:       eventType,
		BookID:     b.ID,
		ISBN:       b.ISBN,
		Title:      b.Title,
		OccurredAt: nowUTC(),
	}
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
