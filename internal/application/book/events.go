package book

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/pkg/mq"
)

// EventRoutingPattern 订阅全部图书事件的routing key
const EventRoutingPattern = "book.*"

// NewEventLogHandler 创建记录图书事件的消息处理函数(events命令使用)
// 无法解析的消息记录后直接确认，避免毒消息反复重新入队
func NewEventLogHandler(log *zap.Logger) mq.Handler {
	return func(_ context.Context, routingKey string, body []byte) error {
		var event BookEvent
		if err := json.Unmarshal(body, &event); err != nil {
			log.Warn("丢弃无法解析的图书事件",
				zap.String("routing_key", routingKey),
				zap.ByteString("body", body),
				zap.Error(err),
			)
			return nil
		}

		log.Info("图书事件",
			zap.String("routing_key", routingKey),
			zap.String("type", event.Type),
			zap.Uint("book_id", event.BookID),
			zap.String("isbn", event.ISBN),
			zap.String("title", event.Title),
			zap.Time("occurred_at", event.OccurredAt),
		)
		return nil
	}
}
