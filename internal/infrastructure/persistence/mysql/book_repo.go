package mysql

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
)

// bookRepository 图书仓储实现(GORM)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(主键/ISBN唯一冲突),转换为领域错误
// 4. 所有方法通过getDB(ctx)参与调用方开启的事务
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书(自增ID)
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	// 1. 领域实体 → GORM模型(ID清零,交给数据库分配)
	model := toBookModel(b)
	model.ID = 0

	// 2. 插入数据库
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if domainErr := translateWriteError(err); domainErr != nil {
			return domainErr
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 3. 回填自增ID
	fillFromModel(b, model)
	return nil
}

// CreateWithID 以指定ID创建图书
// 教学要点:GORM在主键非零时会把它写入INSERT语句,自增只在主键为零时生效
func (r *bookRepository) CreateWithID(ctx context.Context, b *book.Book) error {
	if b.ID == 0 {
		return apperrors.New(apperrors.ErrCodeInvalidParams, "Book ID is required")
	}

	model := toBookModel(b)
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if domainErr := translateWriteError(err); domainErr != nil {
			return domainErr
		}
		// 并发创建同一ID时,MySQL把其中一方作为死锁牺牲者回滚
		if isLockConflict(err) {
			return book.ErrIDConflict
		}
		return apperrors.Wrap(err, "按指定ID创建图书失败")
	}

	// 回填实际存储的ID,由领域服务校验是否与请求一致
	fillFromModel(b, model)
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// LockByID 悲观锁查询图书(SELECT ... FOR UPDATE)
// 教学要点:必须使用getDB(ctx)从context获取事务DB,否则锁在语句结束时即释放
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	db := r.getDB(ctx)
	// SQLite没有行锁,单写者连接本身已串行化
	if db.Dialector.Name() != "sqlite" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model BookModel
	if err := db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "锁定图书失败")
	}
	return toBookEntity(&model), nil
}

// FindByISBN 根据ISBN查找图书
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	var model BookModel
	err := r.getDB(ctx).Where("isbn = ?", isbn).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// ExistsByID 判断ID是否存在
func (r *bookRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.getDB(ctx).Model(&BookModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(err, "查询图书是否存在失败")
	}
	return count > 0, nil
}

// Update 全量更新图书
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	// 使用Save更新所有字段
	if err := r.getDB(ctx).Save(model).Error; err != nil {
		if domainErr := translateWriteError(err); domainErr != nil {
			return domainErr
		}
		return apperrors.Wrap(err, "更新图书失败")
	}

	b.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除图书(硬删除)
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// FindAll 查询全部图书
func (r *bookRepository) FindAll(ctx context.Context) ([]*book.Book, error) {
	return r.find(r.getDB(ctx), "查询图书列表失败")
}

// SearchByAuthor 作者模糊查询(大小写不敏感)
func (r *bookRepository) SearchByAuthor(ctx context.Context, author string) ([]*book.Book, error) {
	return r.find(r.getDB(ctx).Where("LOWER(author) LIKE ? ESCAPE '!'", containsPattern(author)), "按作者查询图书失败")
}

// SearchByTitle 书名模糊查询(大小写不敏感)
func (r *bookRepository) SearchByTitle(ctx context.Context, title string) ([]*book.Book, error) {
	return r.find(r.getDB(ctx).Where("LOWER(title) LIKE ? ESCAPE '!'", containsPattern(title)), "按书名查询图书失败")
}

// FindByGenre 类型精确查询
func (r *bookRepository) FindByGenre(ctx context.Context, genre book.Genre) ([]*book.Book, error) {
	return r.find(r.getDB(ctx).Where("genre = ?", string(genre)), "按类型查询图书失败")
}

// find 执行列表查询(按ID升序)
func (r *bookRepository) find(query *gorm.DB, failMsg string) ([]*book.Book, error) {
	var models []BookModel
	if err := query.Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, failMsg)
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookModel 领域实体 → GORM模型
func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		PublicationDate: book.NormalizeDate(b.PublicationDate),
		Price:           b.Price,
		Description:     b.Description,
		PageCount:       b.PageCount,
		Publisher:       b.Publisher,
		Genre:           string(b.Genre),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:              model.ID,
		Title:           model.Title,
		Author:          model.Author,
		ISBN:            model.ISBN,
		PublicationDate: book.NormalizeDate(model.PublicationDate),
		Price:           model.Price,
		Description:     model.Description,
		PageCount:       model.PageCount,
		Publisher:       model.Publisher,
		Genre:           book.Genre(model.Genre),
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// fillFromModel 插入后回填数据库生成的字段
func fillFromModel(b *book.Book, model *BookModel) {
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
}

// containsPattern 构造大小写不敏感的子串匹配模式
func containsPattern(s string) string {
	return "%" + escapeLike(strings.ToLower(s)) + "%"
}

// getDB 从context获取事务DB,如果没有则使用默认DB
// 教学要点:事务传递机制
func (r *bookRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := dbFromContext(ctx); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}
