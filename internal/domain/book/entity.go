package book

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout 出版日期格式(yyyy-MM-dd)
const DateLayout = "2006-01-02"

// Book 图书实体(领域模型)
// 设计说明:
// 1. 纯业务对象,不依赖GORM等基础设施
// 2. 价格使用decimal.Decimal,避免浮点数精度问题
// 3. PublicationDate只有日期部分有意义,统一归一化为UTC零点
type Book struct {
	ID              uint
	Title           string
	Author          string
	ISBN            string
	PublicationDate time.Time
	Price           decimal.Decimal
	Description     string
	PageCount       int
	Publisher       string
	Genre           Genre
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Fields 图书的可变字段集合
// 创建与全量替换(upsert)都以Fields为输入,ID不属于可变字段
type Fields struct {
	Title           string
	Author          string
	ISBN            string
	PublicationDate time.Time
	Price           decimal.Decimal
	Description     string
	PageCount       int
	Publisher       string
	Genre           Genre
}

// NewBook 创建图书实体(工厂方法)
// ID由存储层分配,upsert创建路径会在持久化前显式设置
func NewBook(f Fields) *Book {
	b := &Book{}
	b.Apply(f)
	return b
}

// Apply 用Fields覆盖全部可变字段(全量替换,无部分更新语义)
func (b *Book) Apply(f Fields) {
	b.Title = f.Title
	b.Author = f.Author
	b.ISBN = f.ISBN
	b.PublicationDate = NormalizeDate(f.PublicationDate)
	b.Price = f.Price
	b.Description = f.Description
	b.PageCount = f.PageCount
	b.Publisher = f.Publisher
	b.Genre = f.Genre
}

// HasISBN 判断图书当前是否持有该ISBN
func (b *Book) HasISBN(isbn string) bool {
	return b.ISBN == isbn
}

// NormalizeDate 截断到日期并统一为UTC
func NormalizeDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate 解析yyyy-MM-dd格式的日期
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return NormalizeDate(t), nil
}
