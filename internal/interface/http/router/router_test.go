package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookstore-api/internal/application/book"
	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookstore-api/internal/interface/http/handler"
	"github.com/xiebiao/bookstore-api/internal/interface/http/middleware"
	bookstoretest "github.com/xiebiao/bookstore-api/internal/testutil"
	"github.com/xiebiao/bookstore-api/pkg/response"
)

func newTestRouter(t *testing.T, mutate func(cfg *config.Config)) *gin.Engine {
	t.Helper()

	cfg := bookstoretest.SQLiteConfig()
	if mutate != nil {
		mutate(cfg)
	}

	db, cleanup, err := mysql.Provide(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	svc := book.NewService(mysql.NewBookRepository(db), mysql.NewTxManager(db))
	log := zap.NewNop()
	cache := appbook.NoopCache{}
	events := appbook.NoopPublisher{}

	h := handler.NewBookHandler(
		appbook.NewCreateBookUseCase(svc, events, log),
		appbook.NewUpdateBookUseCase(svc, cache, events, log),
		appbook.NewDeleteBookUseCase(svc, cache, events, log),
		appbook.NewQueryBooksUseCase(svc, cache),
	)
	return New(cfg, log, h)
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bookID(t *testing.T, w *httptest.ResponseRecorder) float64 {
	t.Helper()
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	id, _ := got["id"].(float64)
	return id
}

// TestBookLifecycle 创建、重复、更新、在指定ID上创建、删除、查询的完整流程
func TestBookLifecycle(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(t, r, http.MethodPost, "/api/books", bookstoretest.BookJSON("1234567890", "Clean Code"))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(1), bookID(t, w))

	w = do(t, r, http.MethodPost, "/api/books", bookstoretest.BookJSON("1234567890", "Clean Code"))
	require.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPut, "/api/books/1", bookstoretest.BookJSON("1234567890", "Clean Code, Revised"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), bookID(t, w))

	w = do(t, r, http.MethodPut, "/api/books/999", bookstoretest.BookJSON("5555555555", "Refactoring"))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(999), bookID(t, w))

	w = do(t, r, http.MethodDelete, "/api/books/999", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":true}`, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/books/999", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Book not found with id: 999", body.Message)
	assert.Equal(t, "Not Found", body.Error)
	assert.Equal(t, "uri=/api/books/999", body.Path)
	assert.NotEmpty(t, body.Timestamp)

	w = do(t, r, http.MethodGet, "/api/books/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_OpsEndpoints(t *testing.T) {
	r := newTestRouter(t, nil)

	t.Run("ping", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/ping", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"pong","status":"healthy"}`, w.Body.String())
	})

	t.Run("请求ID响应头", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/books", nil)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("metrics", func(t *testing.T) {
		do(t, r, http.MethodGet, "/api/books", nil)

		w := do(t, r, http.MethodGet, "/metrics", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/api/books",status="200"}`)
	})

	t.Run("swagger", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/swagger/doc.json", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "/api/books/{id}")
	})

	t.Run("未知路由返回统一404", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/authors", nil)
		require.Equal(t, http.StatusNotFound, w.Code)

		var body response.ErrorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, http.StatusNotFound, body.Status)
		assert.Equal(t, "uri=/api/authors", body.Path)
	})
}

func TestRouter_DisabledEndpoints(t *testing.T) {
	r := newTestRouter(t, func(cfg *config.Config) {
		cfg.Metrics.Enabled = false
		cfg.Swagger.Enabled = false
	})

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/metrics", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/swagger/doc.json", nil).Code)
}
