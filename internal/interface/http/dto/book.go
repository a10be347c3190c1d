package dto

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
)

// BookRequest 创建/全量更新图书的请求体(POST与PUT共用)
// 设计说明:
// 1. 字段格式校验在HTTP边界完成,领域服务只处理唯一性规则
// 2. price与pageCount使用指针,区分"未传"与零值
// 3. publicationDate保持字符串,格式错误作为字段级错误返回而不是JSON解析错误
type BookRequest struct {
	Title           string           `json:"title" example:"Clean Code"`
	Author          string           `json:"author" example:"Robert C. Martin"`
	ISBN            string           `json:"isbn" example:"9780132350884"`
	PublicationDate string           `json:"publicationDate" example:"2008-08-01"`
	Price           *decimal.Decimal `json:"price" swaggertype:"number" example:"42.50"`
	Description     string           `json:"description" example:"A Handbook of Agile Software Craftsmanship"`
	PageCount       *int             `json:"pageCount" example:"464"`
	Publisher       string           `json:"publisher" example:"Prentice Hall"`
	Genre           string           `json:"genre" example:"TECHNOLOGY"`
}

// Validate 校验请求字段
// 返回的AppError.Fields以JSON字段名为key,每个字段只报告第一条失败的规则
func (r BookRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			notBlank("Title is required"),
			validation.RuneLength(0, 255).Error("Title cannot exceed 255 characters"),
		),
		validation.Field(&r.Author,
			notBlank("Author is required"),
			validation.RuneLength(0, 255).Error("Author name cannot exceed 255 characters"),
		),
		validation.Field(&r.ISBN,
			notBlank("ISBN is required"),
			validation.RuneLength(10, 13).Error("ISBN must be between 10 and 13 characters"),
		),
		validation.Field(&r.PublicationDate,
			validation.Required.Error("Publication date is required"),
			validation.Date(book.DateLayout).Error("Publication date must use format yyyy-MM-dd"),
			validation.By(notInFuture),
		),
		validation.Field(&r.Price,
			validation.NotNil.Error("Price is required"),
			validation.By(positive),
			validation.By(fitsPriceColumn),
		),
		validation.Field(&r.Description,
			validation.RuneLength(0, 5000).Error("Description cannot exceed 5000 characters"),
		),
		validation.Field(&r.PageCount,
			validation.NotNil.Error("Page count is required"),
		),
		validation.Field(&r.Publisher,
			notBlank("Publisher is required"),
			validation.RuneLength(0, 255).Error("Publisher name cannot exceed 255 characters"),
		),
		validation.Field(&r.Genre,
			validation.Required.Error("Genre is required"),
			validation.In(genreValues()...).Error("Genre must be one of the supported values"),
		),
	)
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		// 规则本身出错(如类型不匹配),属于内部错误
		return apperrors.Wrap(err, "请求校验执行失败")
	}

	fields := make(map[string]string, len(errs))
	for name, fieldErr := range errs {
		fields[name] = fieldErr.Error()
	}
	return apperrors.NewValidation(fields)
}

// ToFields 转换为领域字段
// 必须在Validate通过之后调用
func (r BookRequest) ToFields() book.Fields {
	date, _ := book.ParseDate(r.PublicationDate)

	f := book.Fields{
		Title:           r.Title,
		Author:          r.Author,
		ISBN:            r.ISBN,
		PublicationDate: date,
		Description:     r.Description,
		Publisher:       r.Publisher,
		Genre:           book.Genre(r.Genre),
	}
	if r.Price != nil {
		f.Price = *r.Price
	}
	if r.PageCount != nil {
		f.PageCount = *r.PageCount
	}
	return f
}

// DeleteBookResponse 删除成功响应
type DeleteBookResponse struct {
	Deleted bool `json:"deleted" example:"true"`
}

// notBlank 字符串去除空白后不能为空
func notBlank(message string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return errors.New(message)
		}
		return nil
	})
}

// notInFuture 出版日期不能晚于今天(按服务器本地日期)
func notInFuture(value interface{}) error {
	s, _ := value.(string)
	date, err := book.ParseDate(s)
	if err != nil {
		// 格式错误已由Date规则报告
		return nil
	}
	if date.After(today()) {
		return errors.New("Publication date cannot be in the future")
	}
	return nil
}

func positive(value interface{}) error {
	price, _ := value.(*decimal.Decimal)
	if price != nil && !price.IsPositive() {
		return errors.New("Price must be greater than 0")
	}
	return nil
}

// 价格列为DECIMAL(10,2):最多2位小数,整数部分最多8位
// 超出的值在MySQL上会被舍入或越界,需要在入口拒绝
var maxPrice = decimal.New(1, 8)

func fitsPriceColumn(value interface{}) error {
	price, _ := value.(*decimal.Decimal)
	if price == nil || !price.IsPositive() {
		return nil
	}
	if !price.Equal(price.Truncate(2)) {
		return errors.New("Price cannot have more than 2 decimal places")
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return errors.New("Price must be less than 100000000")
	}
	return nil
}

func today() time.Time {
	return book.NormalizeDate(time.Now())
}

func genreValues() []interface{} {
	genres := book.Genres()
	values := make([]interface{}, len(genres))
	for i, g := range genres {
		values[i] = string(g)
	}
	return values
}
