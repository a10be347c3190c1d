package book

import (
	"context"
	"errors"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装写操作的协调逻辑(创建/upsert/删除)与ISBN唯一性规则
// 2. 字段格式校验在进入领域服务之前完成,这里只处理唯一性与ID存在性
// 3. 每个写操作都在一个事务内完成"先查后写"
type Service interface {
	// CreateBook 创建图书(ID由存储层分配)
	// 业务规则:ISBN不能重复
	CreateBook(ctx context.Context, f Fields) (*Book, error)

	// UpsertBook 按ID更新或创建
	// 返回created=true表示在请求的ID上新建了图书
	UpsertBook(ctx context.Context, id uint, f Fields) (book *Book, created bool, err error)

	// DeleteBook 删除图书,不存在返回NotFound
	DeleteBook(ctx context.Context, id uint) error

	// GetAllBooks 查询全部图书
	GetAllBooks(ctx context.Context) ([]*Book, error)

	// GetBookByID 根据ID获取图书
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// GetBookByISBN 根据ISBN获取图书
	GetBookByISBN(ctx context.Context, isbn string) (*Book, error)

	// FindBooksByAuthor 按作者模糊查询
	FindBooksByAuthor(ctx context.Context, author string) ([]*Book, error)

	// FindBooksByTitle 按书名模糊查询
	FindBooksByTitle(ctx context.Context, title string) ([]*Book, error)

	// FindBooksByGenre 按类型精确查询
	FindBooksByGenre(ctx context.Context, genre Genre) ([]*Book, error)
}

// service 领域服务实现
type service struct {
	repo Repository
	tx   TxManager
}

// NewService 创建图书领域服务
func NewService(repo Repository, tx TxManager) Service {
	return &service{repo: repo, tx: tx}
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, f Fields) (*Book, error) {
	var created *Book
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		// 1. ISBN预检查(优化,唯一索引才是最终保障)
		if err := s.ensureISBNFree(ctx, f.ISBN, 0); err != nil {
			return err
		}

		// 2. 创建并持久化
		b := NewBook(f)
		if err := s.repo.Create(ctx, b); err != nil {
			return s.translateWriteError(err, 0, f.ISBN)
		}

		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpsertBook 按ID更新或创建
//
// 流程:
//
//	LockByID(id)
//	├─ 找到 → ISBN变化时检查是否被其他ID占用 → 全量覆盖 → Update
//	└─ 未找到 → ExistsByID复查 → ISBN检查 → CreateWithID → 校验ID未被改写
func (s *service) UpsertBook(ctx context.Context, id uint, f Fields) (*Book, bool, error) {
	var (
		result  *Book
		created bool
	)

	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.LockByID(ctx, id)
		switch {
		case err == nil:
			result, err = s.replace(ctx, existing, f)
			return err
		case errors.Is(err, ErrBookNotFound):
			result, err = s.createAt(ctx, id, f)
			created = err == nil
			return err
		default:
			return err
		}
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

// replace 已存在路径:全量覆盖
func (s *service) replace(ctx context.Context, existing *Book, f Fields) (*Book, error) {
	// 1. ISBN未变化时不做唯一性检查(自己持有自己的ISBN不算冲突)
	if !existing.HasISBN(f.ISBN) {
		if err := s.ensureISBNFree(ctx, f.ISBN, existing.ID); err != nil {
			return nil, err
		}
	}

	// 2. 覆盖全部可变字段,ID保持不变
	existing.Apply(f)

	// 3. 原地更新
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, s.translateWriteError(err, existing.ID, f.ISBN)
	}
	return existing, nil
}

// createAt 未找到路径:在请求的ID上创建
func (s *service) createAt(ctx context.Context, id uint, f Fields) (*Book, error) {
	// 1. 复查ID(并发创建者可能在锁查询之后插入)
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, idConflict(id)
	}

	// 2. 没有可比较的旧记录,ISBN无条件检查
	if err := s.ensureISBNFree(ctx, f.ISBN, 0); err != nil {
		return nil, err
	}

	// 3. 显式ID插入
	b := NewBook(f)
	b.ID = id
	if err := s.repo.CreateWithID(ctx, b); err != nil {
		return nil, s.translateWriteError(err, id, f.ISBN)
	}

	// 4. 存储层绝不能改写请求的ID
	if b.ID != id {
		return nil, idNotPreserved(id)
	}
	return b, nil
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, id uint) error {
	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		// 1. 锁定并确认存在
		if _, err := s.repo.LockByID(ctx, id); err != nil {
			if errors.Is(err, ErrBookNotFound) {
				return notFoundByID(id)
			}
			return err
		}

		// 2. 硬删除
		if err := s.repo.Delete(ctx, id); err != nil {
			if errors.Is(err, ErrBookNotFound) {
				return notFoundByID(id)
			}
			return err
		}
		return nil
	})
}

// GetAllBooks 查询全部图书
func (s *service) GetAllBooks(ctx context.Context) ([]*Book, error) {
	return s.repo.FindAll(ctx)
}

// GetBookByID 根据ID获取图书
func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrBookNotFound) {
		return nil, notFoundByID(id)
	}
	return b, err
}

// GetBookByISBN 根据ISBN获取图书
func (s *service) GetBookByISBN(ctx context.Context, isbn string) (*Book, error) {
	b, err := s.repo.FindByISBN(ctx, isbn)
	if errors.Is(err, ErrBookNotFound) {
		return nil, notFoundByISBN(isbn)
	}
	return b, err
}

// FindBooksByAuthor 按作者模糊查询
func (s *service) FindBooksByAuthor(ctx context.Context, author string) ([]*Book, error) {
	return s.repo.SearchByAuthor(ctx, author)
}

// FindBooksByTitle 按书名模糊查询
func (s *service) FindBooksByTitle(ctx context.Context, title string) ([]*Book, error) {
	return s.repo.SearchByTitle(ctx, title)
}

// FindBooksByGenre 按类型精确查询
func (s *service) FindBooksByGenre(ctx context.Context, genre Genre) ([]*Book, error) {
	if !genre.IsValid() {
		return nil, invalidGenre(string(genre))
	}
	return s.repo.FindByGenre(ctx, genre)
}

// =========================================
// 辅助函数
// =========================================

// ensureISBNFree 检查ISBN是否被ownerID以外的图书占用
// ownerID为0表示没有"自己",任何持有者都算冲突
func (s *service) ensureISBNFree(ctx context.Context, isbn string, ownerID uint) error {
	holder, err := s.repo.FindByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, ErrBookNotFound) {
			return nil
		}
		return err
	}
	if holder.ID != ownerID {
		return isbnDuplicate(isbn)
	}
	return nil
}

// translateWriteError 把存储层唯一约束冲突转换为带上下文信息的冲突错误
// 预检查与写入之间存在竞态,写入时的唯一约束冲突与预检查冲突等价
func (s *service) translateWriteError(err error, id uint, isbn string) error {
	switch {
	case errors.Is(err, ErrIDConflict):
		return idConflict(id)
	case errors.Is(err, ErrISBNDuplicate):
		return isbnDuplicate(isbn)
	default:
		return err
	}
}
