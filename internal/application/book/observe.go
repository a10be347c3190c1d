package book

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/pkg/metrics"
	"github.com/xiebiao/bookstore-api/pkg/tracing"
)

// tracerName 用例Span的Tracer名称
const tracerName = "bookstore-api/application/book"

// operation 一次写用例的观测上下文(Span + 耗时 + 结果指标)
type operation struct {
	name  string
	start time.Time
	span  trace.Span
}

func startOperation(ctx context.Context, name, spanName string) (context.Context, *operation) {
	metrics.InitMetrics()
	ctx, span := tracing.StartSpan(ctx, tracerName, spanName)
	return ctx, &operation{name: name, start: time.Now(), span: span}
}

// end 记录结果：操作计数、冲突原因、耗时，并结束Span
func (op *operation) end(err error) {
	metrics.IncCounterVec(metrics.BookOperationsTotal, map[string]string{
		"operation": op.name,
		"result":    metrics.Result(err),
	})
	if reason := conflictReason(err); reason != "" {
		metrics.IncCounterVec(metrics.BookConflictsTotal, map[string]string{"reason": reason})
	}
	metrics.ObserveHistogramVec(metrics.BookOperationDuration, map[string]string{"operation": op.name},
		time.Since(op.start).Seconds())
	tracing.EndSpan(op.span, err)
}

func conflictReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, book.ErrISBNDuplicate):
		return "isbn"
	case errors.Is(err, book.ErrIDConflict):
		return "id"
	default:
		return ""
	}
}

// publish 发布事件，失败只记录日志(数据已提交，事件是尽力而为)
func publish(ctx context.Context, events EventPublisher, log *zap.Logger, event BookEvent) {
	if err := events.Publish(ctx, event); err != nil {
		log.Warn("发布图书事件失败",
			zap.String("type", event.Type),
			zap.Uint("book_id", event.BookID),
			zap.String("trace_id", tracing.ExtractTraceID(ctx)),
			zap.Error(err),
		)
	}
}
