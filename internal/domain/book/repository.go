package book

import "context"

// Repository 图书仓储接口
// 设计说明:
// 1. 接口定义在domain层,实现在infrastructure层(依赖倒置)
// 2. 所有方法接收context,实现需从context中提取事务DB参与事务
// 3. 唯一约束冲突由实现转换为ErrISBNDuplicate/ErrIDConflict
type Repository interface {
	// Create 插入图书,ID由存储层自增分配并回填
	Create(ctx context.Context, book *Book) error

	// CreateWithID 以book.ID作为主键插入(绕过自增分配)
	// 插入后book.ID被回填为实际存储的ID,调用方负责校验
	CreateWithID(ctx context.Context, book *Book) error

	// FindByID 根据ID查找,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// LockByID 悲观锁查询(SELECT ... FOR UPDATE),必须在事务中调用
	LockByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 根据ISBN查找,不存在返回ErrBookNotFound
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// ExistsByID 判断ID是否存在
	ExistsByID(ctx context.Context, id uint) (bool, error)

	// Update 全量更新(按ID原地更新)
	Update(ctx context.Context, book *Book) error

	// Delete 硬删除,不存在返回ErrBookNotFound
	Delete(ctx context.Context, id uint) error

	// FindAll 查询全部图书(按ID升序)
	FindAll(ctx context.Context) ([]*Book, error)

	// SearchByAuthor 作者子串匹配(大小写不敏感)
	SearchByAuthor(ctx context.Context, author string) ([]*Book, error)

	// SearchByTitle 书名子串匹配(大小写不敏感)
	SearchByTitle(ctx context.Context, title string) ([]*Book, error)

	// FindByGenre 类型精确匹配
	FindByGenre(ctx context.Context, genre Genre) ([]*Book, error)
}

// TxManager 事务管理器接口
// fn内通过ctx调用的Repository方法处于同一事务;fn返回error时回滚
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
