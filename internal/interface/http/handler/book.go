package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookstore-api/internal/application/book"
	"github.com/xiebiao/bookstore-api/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
	"github.com/xiebiao/bookstore-api/pkg/response"
)

// BookHandler 图书HTTP处理器
// 设计说明：
// 1. 只负责HTTP协议相关的工作：参数解析、请求体校验、状态码选择
// 2. 业务编排在应用层用例中完成
// 3. 所有错误统一交给response.Error转换为错误响应
type BookHandler struct {
	createBook *appbook.CreateBookUseCase
	updateBook *appbook.UpdateBookUseCase
	deleteBook *appbook.DeleteBookUseCase
	queryBooks *appbook.QueryBooksUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createBook *appbook.CreateBookUseCase,
	updateBook *appbook.UpdateBookUseCase,
	deleteBook *appbook.DeleteBookUseCase,
	queryBooks *appbook.QueryBooksUseCase,
) *BookHandler {
	return &BookHandler{
		createBook: createBook,
		updateBook: updateBook,
		deleteBook: deleteBook,
		queryBooks: queryBooks,
	}
}

// GetAllBooks 查询全部图书
// @Summary      查询全部图书
// @Description  返回全部图书，按ID升序，不分页
// @Tags         图书
// @Produce      json
// @Success      200 {array} appbook.BookResult
// @Router       /api/books [get]
func (h *BookHandler) GetAllBooks(c *gin.Context) {
	results, err := h.queryBooks.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, results)
}

// GetBookByID 根据ID查询图书
// @Summary      根据ID查询图书
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} appbook.BookResult
// @Failure      400 {object} response.ErrorBody "ID格式错误"
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Router       /api/books/{id} [get]
func (h *BookHandler) GetBookByID(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.queryBooks.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// GetBookByISBN 根据ISBN查询图书
// @Summary      根据ISBN查询图书
// @Tags         图书
// @Produce      json
// @Param        isbn path string true "ISBN"
// @Success      200 {object} appbook.BookResult
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Router       /api/books/isbn/{isbn} [get]
func (h *BookHandler) GetBookByISBN(c *gin.Context) {
	result, err := h.queryBooks.GetByISBN(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// CreateBook 创建图书
// @Summary      创建图书
// @Description  ID由服务端分配，ISBN必须唯一
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.BookRequest true "图书信息"
// @Success      201 {object} appbook.BookResult
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      409 {object} response.ErrorBody "ISBN已存在"
// @Router       /api/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	// 1. 参数绑定与校验
	req, ok := bindBookRequest(c)
	if !ok {
		return
	}

	// 2. 调用应用层用例
	result, err := h.createBook.Execute(c.Request.Context(), req.ToFields())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateBook 按ID全量更新图书，不存在时在该ID上创建
// @Summary      更新或创建图书
// @Description  ID存在时全量替换返回200；不存在时以该ID创建返回201
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id path int true "图书ID"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} appbook.BookResult "已更新"
// @Success      201 {object} appbook.BookResult "已创建"
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      409 {object} response.ErrorBody "ISBN或ID冲突"
// @Router       /api/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	// 1. 解析路径参数
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	// 2. 参数绑定与校验
	req, ok := bindBookRequest(c)
	if !ok {
		return
	}

	// 3. upsert
	result, created, err := h.updateBook.Execute(c.Request.Context(), id, req.ToFields())
	if err != nil {
		response.Error(c, err)
		return
	}

	if created {
		response.Created(c, result)
		return
	}
	response.OK(c, result)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} dto.DeleteBookResponse
// @Failure      400 {object} response.ErrorBody "ID格式错误"
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Router       /api/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.deleteBook.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.DeleteBookResponse{Deleted: true})
}

// SearchByAuthor 按作者模糊查询
// @Summary      按作者搜索
// @Description  子串匹配，大小写不敏感
// @Tags         图书
// @Produce      json
// @Param        author query string true "作者"
// @Success      200 {array} appbook.BookResult
// @Failure      400 {object} response.ErrorBody "缺少查询参数"
// @Router       /api/books/search/author [get]
func (h *BookHandler) SearchByAuthor(c *gin.Context) {
	author, ok := requiredQuery(c, "author")
	if !ok {
		return
	}

	results, err := h.queryBooks.SearchByAuthor(c.Request.Context(), author)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, results)
}

// SearchByTitle 按书名模糊查询
// @Summary      按书名搜索
// @Description  子串匹配，大小写不敏感
// @Tags         图书
// @Produce      json
// @Param        title query string true "书名"
// @Success      200 {array} appbook.BookResult
// @Failure      400 {object} response.ErrorBody "缺少查询参数"
// @Router       /api/books/search/title [get]
func (h *BookHandler) SearchByTitle(c *gin.Context) {
	title, ok := requiredQuery(c, "title")
	if !ok {
		return
	}

	results, err := h.queryBooks.SearchByTitle(c.Request.Context(), title)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, results)
}

// SearchByGenre 按类型精确查询
// @Summary      按类型搜索
// @Description  类型大小写敏感，如FICTION、SCIENCE_FICTION
// @Tags         图书
// @Produce      json
// @Param        genre query string true "类型"
// @Success      200 {array} appbook.BookResult
// @Failure      400 {object} response.ErrorBody "类型非法"
// @Router       /api/books/search/genre [get]
func (h *BookHandler) SearchByGenre(c *gin.Context) {
	genre, ok := requiredQuery(c, "genre")
	if !ok {
		return
	}

	results, err := h.queryBooks.SearchByGenre(c.Request.Context(), genre)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, results)
}

// parseID 解析路径参数id
// ID从1开始分配,0不是合法ID
func parseID(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, apperrors.Newf(apperrors.ErrCodeInvalidParams, "Invalid book id: %s", raw)
	}
	return uint(id), nil
}

// bindBookRequest 解析并校验请求体，失败时已写入错误响应
func bindBookRequest(c *gin.Context) (*dto.BookRequest, bool) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, &apperrors.AppError{
			Code:    apperrors.ErrCodeBindError,
			Message: apperrors.ErrBindError.Message,
			Err:     err,
		})
		return nil, false
	}

	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return nil, false
	}
	return &req, true
}

// requiredQuery 读取必填查询参数，缺失时已写入400响应
// 参数存在但为空字符串是合法的(匹配全部)
func requiredQuery(c *gin.Context, name string) (string, bool) {
	value, ok := c.GetQuery(name)
	if !ok {
		response.Error(c, apperrors.Newf(apperrors.ErrCodeInvalidParams,
			"Required request parameter '%s' is missing", name))
		return "", false
	}
	return value, true
}
