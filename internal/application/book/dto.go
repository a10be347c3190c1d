package book

import (
	"encoding/json"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
)

// timeLayout createdAt/updatedAt的输出格式
const timeLayout = "2006-01-02 15:04:05"

// BookResult 图书响应DTO
// 设计说明:
// 1. 字段名使用camelCase,与请求体保持一致
// 2. price使用json.Number,以JSON数字输出且不丢失精度(decimal默认序列化为字符串)
type BookResult struct {
	ID              uint        `json:"id"`
	Title           string      `json:"title"`
	Author          string      `json:"author"`
	ISBN            string      `json:"isbn"`
	PublicationDate string      `json:"publicationDate"`
	Price           json.Number `json:"price" swaggertype:"number"`
	Description     string      `json:"description"`
	PageCount       int         `json:"pageCount"`
	Publisher       string      `json:"publisher"`
	Genre           string      `json:"genre"`
	CreatedAt       string      `json:"createdAt"`
	UpdatedAt       string      `json:"updatedAt"`
}

func toBookResult(b *book.Book) *BookResult {
	return &BookResult{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		PublicationDate: b.PublicationDate.Format(book.DateLayout),
		Price:           json.Number(b.Price.String()),
		Description:     b.Description,
		PageCount:       b.PageCount,
		Publisher:       b.Publisher,
		Genre:           b.Genre.String(),
		CreatedAt:       b.CreatedAt.Format(timeLayout),
		UpdatedAt:       b.UpdatedAt.Format(timeLayout),
	}
}

// toBookResults 列表转换(空列表输出[]而不是null)
func toBookResults(books []*book.Book) []*BookResult {
	results := make([]*BookResult, len(books))
	for i, b := range books {
		results[i] = toBookResult(b)
	}
	return results
}
