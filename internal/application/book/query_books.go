package book

import (
	"context"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/pkg/tracing"
)

// QueryBooksUseCase 图书查询用例
// 设计说明:
// 1. 只读操作,不开启事务
// 2. 按ID查询走Cache-Aside:先查缓存,未命中查库后回填
// 3. 列表与搜索结果按ID升序,不分页
type QueryBooksUseCase struct {
	bookService book.Service
	cache       BookCache
}

// NewQueryBooksUseCase 创建查询用例
func NewQueryBooksUseCase(bookService book.Service, cache BookCache) *QueryBooksUseCase {
	return &QueryBooksUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// ListAll 查询全部图书
func (uc *QueryBooksUseCase) ListAll(ctx context.Context) ([]*BookResult, error) {
	return uc.list(ctx, "book.ListAll", uc.bookService.GetAllBooks)
}

// GetByID 根据ID查询
func (uc *QueryBooksUseCase) GetByID(ctx context.Context, id uint) (result *BookResult, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.GetByID")
	defer func() { tracing.EndSpan(span, err) }()

	// 1. 查缓存
	if cached, ok := uc.cache.Get(ctx, id); ok {
		return toBookResult(cached), nil
	}

	// 2. 查库
	b, err := uc.bookService.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3. 回填缓存(写者刚失效过的key不会被旧数据覆盖)
	uc.cache.Set(ctx, b)
	return toBookResult(b), nil
}

// GetByISBN 根据ISBN查询
func (uc *QueryBooksUseCase) GetByISBN(ctx context.Context, isbn string) (*BookResult, error) {
	b, err := uc.bookService.GetBookByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	return toBookResult(b), nil
}

// SearchByAuthor 作者模糊查询(大小写不敏感)
func (uc *QueryBooksUseCase) SearchByAuthor(ctx context.Context, author string) ([]*BookResult, error) {
	return uc.list(ctx, "book.SearchByAuthor", func(ctx context.Context) ([]*book.Book, error) {
		return uc.bookService.FindBooksByAuthor(ctx, author)
	})
}

// SearchByTitle 书名模糊查询(大小写不敏感)
func (uc *QueryBooksUseCase) SearchByTitle(ctx context.Context, title string) ([]*BookResult, error) {
	return uc.list(ctx, "book.SearchByTitle", func(ctx context.Context) ([]*book.Book, error) {
		return uc.bookService.FindBooksByTitle(ctx, title)
	})
}

// SearchByGenre 类型精确查询
// genre为原始查询参数,非法值返回400 "Invalid genre: <value>"
func (uc *QueryBooksUseCase) SearchByGenre(ctx context.Context, genre string) ([]*BookResult, error) {
	g, err := book.ParseGenre(genre)
	if err != nil {
		return nil, err
	}
	return uc.list(ctx, "book.SearchByGenre", func(ctx context.Context) ([]*book.Book, error) {
		return uc.bookService.FindBooksByGenre(ctx, g)
	})
}

func (uc *QueryBooksUseCase) list(ctx context.Context, spanName string, find func(context.Context) ([]*book.Book, error)) (results []*BookResult, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, spanName)
	defer func() { tracing.EndSpan(span, err) }()

	books, err := find(ctx)
	if err != nil {
		return nil, err
	}
	return toBookResults(books), nil
}
