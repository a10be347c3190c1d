package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	bookstoretest "github.com/xiebiao/bookstore-api/internal/testutil"
	"github.com/xiebiao/bookstore-api/pkg/metrics"
)

// fakeRedis 内存实现的Redis命令，err非nil时所有命令失败
type fakeRedis struct {
	data  map[string][]byte
	ttl   map[string]time.Duration
	err   error
	calls int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string][]byte{}, ttl: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.calls++
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.calls++
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.store(key, value, expiration)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	f.calls++
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, ok := f.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.store(key, value, expiration)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) store(key string, value interface{}, expiration time.Duration) {
	switch v := value.(type) {
	case []byte:
		f.data[key] = v
	case string:
		f.data[key] = []byte(v)
	}
	f.ttl[key] = expiration
}

// expire 模拟key过期
func (f *fakeRedis) expire(key string) {
	delete(f.data, key)
	delete(f.ttl, key)
}

func sampleBook(id uint) *book.Book {
	b := book.NewBook(bookstoretest.BookFields("9780132350884"))
	b.ID = id
	b.CreatedAt = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	b.UpdatedAt = b.CreatedAt
	return b
}

func cacheResult(result string) float64 {
	metrics.InitMetrics()
	return testutil.ToFloat64(metrics.CacheRequestsTotal.WithLabelValues(result))
}

func TestBookCache_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	cache := NewBookCache(fake, 5*time.Minute, zap.NewNop())

	missBefore, hitBefore := cacheResult("miss"), cacheResult("hit")

	t.Run("未命中", func(t *testing.T) {
		_, ok := cache.Get(ctx, 1)
		assert.False(t, ok)
		assert.Equal(t, missBefore+1, cacheResult("miss"))
	})

	t.Run("写入后命中且字段完整", func(t *testing.T) {
		want := sampleBook(1)
		cache.Set(ctx, want)
		assert.Equal(t, 5*time.Minute, fake.ttl["book:1"])

		got, ok := cache.Get(ctx, 1)
		require.True(t, ok)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.ISBN, got.ISBN)
		assert.Equal(t, want.PublicationDate, got.PublicationDate)
		assert.True(t, want.Price.Equal(got.Price))
		assert.Equal(t, want.Genre, got.Genre)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
		assert.Equal(t, hitBefore+1, cacheResult("hit"))
	})

	t.Run("删除后未命中", func(t *testing.T) {
		cache.Delete(ctx, 1)
		_, ok := cache.Get(ctx, 1)
		assert.False(t, ok)
	})

	t.Run("失效标记短期存活", func(t *testing.T) {
		assert.Equal(t, invalidatedWindow, fake.ttl["book:1"])
	})

	t.Run("损坏的数据视为未命中", func(t *testing.T) {
		fake.data["book:2"] = []byte("{broken")
		_, ok := cache.Get(ctx, 2)
		assert.False(t, ok)
	})
}

// 读者在写者失效缓存之前读到旧行，失效之后才回填
func TestBookCache_StaleFillAfterInvalidate(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	cache := NewBookCache(fake, 5*time.Minute, zap.NewNop())

	stale := sampleBook(3)
	stale.Title = "Old Title"

	// 1. 读者未命中并从库中读到旧行
	_, ok := cache.Get(ctx, 3)
	require.False(t, ok)

	// 2. 写者提交后使缓存失效
	cache.Delete(ctx, 3)

	// 3. 读者回填旧行被拒绝
	cache.Set(ctx, stale)
	_, ok = cache.Get(ctx, 3)
	assert.False(t, ok, "失效标记期间不回填旧数据")

	// 4. 标记过期后正常回填
	fake.expire("book:3")
	fresh := sampleBook(3)
	fresh.Title = "New Title"
	cache.Set(ctx, fresh)

	got, ok := cache.Get(ctx, 3)
	require.True(t, ok)
	assert.Equal(t, "New Title", got.Title)
}

func TestBookCache_SetDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	cache := NewBookCache(fake, time.Minute, zap.NewNop())

	first := sampleBook(4)
	first.Title = "First"
	second := sampleBook(4)
	second.Title = "Second"

	cache.Set(ctx, first)
	cache.Set(ctx, second)

	got, ok := cache.Get(ctx, 4)
	require.True(t, ok)
	assert.Equal(t, "First", got.Title)
}

func TestBookCache_CircuitBreaker(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	fake.err = errors.New("dial tcp 127.0.0.1:6379: connection refused")
	cache := NewBookCache(fake, time.Minute, zap.NewNop())

	// 连续3次失败后熔断
	for i := 0; i < 3; i++ {
		_, ok := cache.Get(ctx, 1)
		assert.False(t, ok)
	}
	require.Equal(t, 3, fake.calls)

	bypassBefore := cacheResult("bypass")
	_, ok := cache.Get(ctx, 1)
	assert.False(t, ok)
	cache.Set(ctx, sampleBook(1))
	cache.Delete(ctx, 1)

	// 熔断期间不再访问Redis
	assert.Equal(t, 3, fake.calls)
	assert.Equal(t, bypassBefore+1, cacheResult("bypass"))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("book-cache")))
}
