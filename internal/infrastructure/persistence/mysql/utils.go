package mysql

import (
	"errors"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
)

// MySQL错误码
const (
	mysqlErrDuplicateEntry  = 1062 // ER_DUP_ENTRY
	mysqlErrLockWaitTimeout = 1205 // ER_LOCK_WAIT_TIMEOUT
	mysqlErrDeadlock        = 1213 // ER_LOCK_DEADLOCK
)

const (
	primaryKeyName   = "PRIMARY"
	sqlitePrimaryCol = "books.id"
)

// duplicateKey 唯一冲突信息
// key为空表示能确认是唯一冲突，但无法得知冲突的索引
type duplicateKey struct {
	key string
}

// parseDuplicate 解析唯一索引冲突错误
// 错误信息:
// - MySQL 1062: Duplicate entry 'xxx' for key 'books.idx_books_isbn' (8.0起带表名前缀)
// - MySQL 1062: Duplicate entry '1' for key 'PRIMARY' (5.7)
// - SQLite: UNIQUE constraint failed: books.isbn
func parseDuplicate(err error) (duplicateKey, bool) {
	if err == nil {
		return duplicateKey{}, false
	}

	// 1. 驱动返回的结构化错误，按错误码判断
	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		if myErr.Number != mysqlErrDuplicateEntry {
			return duplicateKey{}, false
		}
		return duplicateKey{key: mysqlKeyName(myErr.Message)}, true
	}

	// 2. GORM翻译后的错误(开启TranslateError时)，索引名已丢失
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return duplicateKey{}, true
	}

	// 3. 按错误文本兜底(SQLite驱动、被包装过的MySQL错误)
	msg := err.Error()
	if strings.Contains(msg, "Duplicate entry") {
		return duplicateKey{key: mysqlKeyName(msg)}, true
	}
	if idx := strings.Index(msg, "UNIQUE constraint failed: "); idx >= 0 {
		cols := msg[idx+len("UNIQUE constraint failed: "):]
		for _, col := range strings.Split(cols, ", ") {
			if strings.TrimSpace(col) == sqlitePrimaryCol {
				return duplicateKey{key: primaryKeyName}, true
			}
		}
		return duplicateKey{key: cols}, true
	}
	return duplicateKey{}, false
}

// mysqlKeyName 从"for key 'xxx'"中取出索引名，去掉"表名."前缀
func mysqlKeyName(msg string) string {
	const marker = "for key '"
	idx := strings.LastIndex(msg, marker)
	if idx < 0 {
		return ""
	}
	key := msg[idx+len(marker):]
	if end := strings.IndexByte(key, '\''); end >= 0 {
		key = key[:end]
	}
	if dot := strings.LastIndexByte(key, '.'); dot >= 0 {
		key = key[dot+1:]
	}
	return key
}

// isPrimaryKey 冲突是否发生在主键上
// 只认精确的主键名，idx_books_isbn这类以"books.id"开头的索引名不算
func (d duplicateKey) isPrimaryKey() bool {
	return d.key == primaryKeyName
}

// isLockConflict 判断是否为死锁或锁等待超时
// 教学要点:REPEATABLE READ下两个事务对同一个不存在的ID执行FOR UPDATE都会拿到间隙锁，
// 随后的INSERT互相等待，MySQL回滚其中一个(1213)。这意味着另一方正在创建同一ID
func isLockConflict(err error) bool {
	if err == nil {
		return false
	}
	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlErrDeadlock || myErr.Number == mysqlErrLockWaitTimeout
	}
	msg := err.Error()
	return strings.Contains(msg, "Error 1213") || strings.Contains(msg, "Error 1205") ||
		strings.Contains(msg, "Deadlock found") || strings.Contains(msg, "Lock wait timeout exceeded")
}

// translateWriteError 把写操作的数据库错误转换为领域错误
// 不是唯一冲突时返回nil,由调用方包装
func translateWriteError(err error) error {
	dup, ok := parseDuplicate(err)
	if !ok {
		return nil
	}
	if dup.isPrimaryKey() {
		return book.ErrIDConflict
	}
	return book.ErrISBNDuplicate
}

// escapeLike 转义LIKE通配符,使用'!'作为转义字符(MySQL与SQLite通用)
func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}
