package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
)

// DeleteBookUseCase 删除图书用例(硬删除)
type DeleteBookUseCase struct {
	bookService book.Service
	cache       BookCache
	events      EventPublisher
	log         *zap.Logger
}

// NewDeleteBookUseCase 创建用例
func NewDeleteBookUseCase(bookService book.Service, cache BookCache, events EventPublisher, log *zap.Logger) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
		cache:       cache,
		events:      events,
		log:         log,
	}
}

// Execute 执行删除,不存在返回NotFound
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) (err error) {
	ctx, op := startOperation(ctx, "delete", "book.DeleteBook")
	op.span.SetAttributes(attribute.Int64("book.id", int64(id)))
	defer func() { op.end(err) }()

	if err := uc.bookService.DeleteBook(ctx, id); err != nil {
		return err
	}

	uc.cache.Delete(ctx, id)
	publish(ctx, uc.events, uc.log, BookEvent{Type: EventBookDeleted, BookID: id, OccurredAt: nowUTC()})

	uc.log.Info("图书已删除", zap.Uint("book_id", id))
	return nil
}
