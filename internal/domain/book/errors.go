package book

import (
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
)

// 图书领域错误定义
// 教学要点:
// 1. 预定义错误用于errors.Is判断(按错误码比较)
// 2. 返回给客户端的错误通过构造函数携带具体的ID/ISBN
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "Book not found")

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "Book with this ISBN already exists")

	// ErrIDConflict upsert创建路径上ID已被占用(并发创建)
	ErrIDConflict = apperrors.New(apperrors.ErrCodeIDConflict, "Book with this ID already exists")

	// ErrIDNotPreserved 存储层没有保留请求的ID(内部状态不一致)
	ErrIDNotPreserved = apperrors.New(apperrors.ErrCodeIllegalState, "Requested ID was not preserved")

	// ErrInvalidGenre 图书类型非法
	ErrInvalidGenre = apperrors.New(apperrors.ErrCodeInvalidGenre, "Invalid genre")
)

func notFoundByID(id uint) error {
	return apperrors.Newf(apperrors.ErrCodeBookNotFound, "Book not found with id: %d", id)
}

func notFoundByISBN(isbn string) error {
	return apperrors.Newf(apperrors.ErrCodeBookNotFound, "Book not found with ISBN: %s", isbn)
}

func isbnDuplicate(isbn string) error {
	return apperrors.Newf(apperrors.ErrCodeISBNDuplicate, "Book with ISBN %s already exists", isbn)
}

func idConflict(id uint) error {
	return apperrors.Newf(apperrors.ErrCodeIDConflict, "Book with ID %d already exists", id)
}

func idNotPreserved(id uint) error {
	return apperrors.Newf(apperrors.ErrCodeIllegalState, "Failed to preserve requested ID %d when creating new book", id)
}

func invalidGenre(s string) error {
	return apperrors.Newf(apperrors.ErrCodeInvalidGenre, "Invalid genre: %s", s)
}
