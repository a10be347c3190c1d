package mq

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testBookEvent struct {
	BookID uint   `json:"book_id"`
	Action string `json:"action"`
}

// fakeChannel 记录发布的消息
type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	err       error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error { return nil }

// fakeAcknowledger 记录Ack/Nack
type fakeAcknowledger struct {
	mu     sync.Mutex
	acked  []uint64
	nacked []uint64
}

func (a *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = append(a.acked, tag)
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, _ bool, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked = append(a.nacked, tag)
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func TestPublisher_Publish(t *testing.T) {
	t.Run("序列化为持久化JSON消息", func(t *testing.T) {
		ch := &fakeChannel{}
		p := &Publisher{channel: ch, exchange: "bookstore.events", log: zap.NewNop()}

		require.NoError(t, p.Publish(context.Background(), "book.created", testBookEvent{BookID: 1, Action: "created"}))

		require.Len(t, ch.published, 1)
		assert.Equal(t, "book.created", ch.keys[0])
		assert.Equal(t, "application/json", ch.published[0].ContentType)
		assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)
		assert.JSONEq(t, `{"book_id":1,"action":"created"}`, string(ch.published[0].Body))
	})

	t.Run("发布失败返回错误", func(t *testing.T) {
		p := &Publisher{channel: &fakeChannel{err: amqp.ErrClosed}, exchange: "x", log: zap.NewNop()}
		err := p.Publish(context.Background(), "book.deleted", testBookEvent{BookID: 1})
		assert.ErrorIs(t, err, amqp.ErrClosed)
	})

	t.Run("无法序列化的消息", func(t *testing.T) {
		p := &Publisher{channel: &fakeChannel{}, exchange: "x", log: zap.NewNop()}
		assert.Error(t, p.Publish(context.Background(), "book.created", make(chan int)))
	})
}

func TestConsumer_Dispatch(t *testing.T) {
	c := &Consumer{queue: "test.queue", log: zap.NewNop()}
	ack := &fakeAcknowledger{}

	msgs := make(chan amqp.Delivery, 2)
	msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, RoutingKey: "book.created", Body: []byte(`{"book_id":1}`)}
	msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, RoutingKey: "book.deleted", Body: []byte(`not json`)}
	close(msgs)

	var keys []string
	err := c.dispatch(context.Background(), msgs, func(_ context.Context, key string, body []byte) error {
		keys = append(keys, key)
		var e testBookEvent
		return json.Unmarshal(body, &e)
	})

	assert.ErrorIs(t, err, ErrDeliveriesClosed)
	assert.Equal(t, []string{"book.created", "book.deleted"}, keys)
	assert.Equal(t, []uint64{1}, ack.acked)
	assert.Equal(t, []uint64{2}, ack.nacked)
}

func TestConsumer_DispatchStopsOnCancel(t *testing.T) {
	c := &Consumer{queue: "test.queue", log: zap.NewNop()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.dispatch(ctx, make(chan amqp.Delivery), func(context.Context, string, []byte) error {
		return errors.New("不应被调用")
	})
	assert.NoError(t, err)
}

// TestPubSub_Integration 需要真实RabbitMQ，设置BOOKSTORE_TEST_AMQP_URL后运行
func TestPubSub_Integration(t *testing.T) {
	url := os.Getenv("BOOKSTORE_TEST_AMQP_URL")
	if url == "" {
		t.Skip("未设置BOOKSTORE_TEST_AMQP_URL，跳过RabbitMQ集成测试")
	}

	log := zap.NewNop()
	consumer, err := NewConsumer(url, "bookstore.test.events", "topic", "bookstore.test.queue", []string{"book.*"}, log)
	require.NoError(t, err)
	defer consumer.Close()

	publisher, err := NewPublisher(url, "bookstore.test.events", "topic", log)
	require.NoError(t, err)
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	received := make(chan testBookEvent, 1)
	go func() {
		_ = consumer.Consume(ctx, func(_ context.Context, _ string, body []byte) error {
			var e testBookEvent
			if err := json.Unmarshal(body, &e); err != nil {
				return err
			}
			received <- e
			cancel()
			return nil
		})
	}()

	require.NoError(t, publisher.Publish(ctx, "book.created", testBookEvent{BookID: 42, Action: "created"}))

	select {
	case e := <-received:
		assert.Equal(t, uint(42), e.BookID)
	case <-time.After(10 * time.Second):
		t.Fatal("未收到预期的消息")
	}
}
