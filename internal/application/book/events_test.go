package book

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEventLogHandler(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handle := NewEventLogHandler(zap.New(core))

	t.Run("记录事件字段", func(t *testing.T) {
		body, err := json.Marshal(BookEvent{
			Type:       EventBookDeleted,
			BookID:     999,
			ISBN:       "5555555555",
			OccurredAt: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		require.NoError(t, handle(context.Background(), EventBookDeleted, body))

		entries := logs.FilterMessage("图书事件").All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, EventBookDeleted, fields["type"])
		assert.Equal(t, uint64(999), fields["book_id"])
	})

	t.Run("无法解析的消息被确认而不是重新入队", func(t *testing.T) {
		assert.NoError(t, handle(context.Background(), EventBookCreated, []byte("not json")))
		assert.Equal(t, 1, logs.FilterMessage("丢弃无法解析的图书事件").Len())
	})
}
