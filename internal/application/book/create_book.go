package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
)

// CreateBookUseCase 创建图书用例
// 设计说明:
// 1. 应用层负责用例编排:领域服务完成创建,之后发布事件
// 2. 输入为已经通过校验的领域Fields,输出为响应DTO
// 3. 新建图书不存在旧缓存,无需删除缓存
type CreateBookUseCase struct {
	bookService book.Service
	events      EventPublisher
	log         *zap.Logger
}

// NewCreateBookUseCase 创建用例
func NewCreateBookUseCase(bookService book.Service, events EventPublisher, log *zap.Logger) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
		events:      events,
		log:         log,
	}
}

// Execute 执行创建用例
func (uc *CreateBookUseCase) Execute(ctx context.Context, f book.Fields) (result *BookResult, err error) {
	ctx, op := startOperation(ctx, "create", "book.CreateBook")
	op.span.SetAttributes(attribute.String("book.isbn", f.ISBN))
	defer func() { op.end(err) }()

	// 1. 领域服务创建(ISBN唯一性检查 + 插入在同一事务)
	created, err := uc.bookService.CreateBook(ctx, f)
	if err != nil {
		return nil, err
	}
	op.span.SetAttributes(attribute.Int64("book.id", int64(created.ID)))

	// 2. 事务已提交,发布事件
	publish(ctx, uc.events, uc.log, newEvent(EventBookCreated, created))

	uc.log.Info("图书已创建", zap.Uint("book_id", created.ID), zap.String("isbn", created.ISBN))
	return toBookResult(created), nil
}
