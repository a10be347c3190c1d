package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
)

// UpdateBookUseCase 按ID更新或创建图书(PUT语义)
// 设计说明:
// 1. 调和逻辑在领域服务UpsertBook中完成,这里只做编排
// 2. 无论更新还是创建,提交后都删除该ID的缓存
// 3. created决定HTTP状态码(201/200)和事件类型
type UpdateBookUseCase struct {
	bookService book.Service
	cache       BookCache
	events      EventPublisher
	log         *zap.Logger
}

// NewUpdateBookUseCase 创建用例
func NewUpdateBookUseCase(bookService book.Service, cache BookCache, events EventPublisher, log *zap.Logger) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookService: bookService,
		cache:       cache,
		events:      events,
		log:         log,
	}
}

// Execute 执行upsert
// 返回created=true表示在请求的ID上新建了图书
func (uc *UpdateBookUseCase) Execute(ctx context.Context, id uint, f book.Fields) (result *BookResult, created bool, err error) {
	ctx, op := startOperation(ctx, "upsert", "book.UpsertBook")
	op.span.SetAttributes(attribute.Int64("book.id", int64(id)), attribute.String("book.isbn", f.ISBN))
	defer func() { op.end(err) }()

	b, created, err := uc.bookService.UpsertBook(ctx, id, f)
	if err != nil {
		return nil, false, err
	}
	op.span.SetAttributes(attribute.Bool("book.created", created))

	// 写操作后删除缓存(Cache-Aside)
	uc.cache.Delete(ctx, id)

	eventType := EventBookUpdated
	if created {
		eventType = EventBookCreated
	}
	publish(ctx, uc.events, uc.log, newEvent(eventType, b))

	uc.log.Info("图书已保存",
		zap.Uint("book_id", b.ID),
		zap.Bool("created", created),
	)
	return toBookResult(b), created, nil
}
