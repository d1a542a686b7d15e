// Package privilege 从后端数据库加载代理账号的权限信息。
//
// 不同数据库方言的系统表结构不同，按方言标签分发到对应的加载器。
package privilege

import (
	"context"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ceyewan/shardmeta/xerrors"
)

// 支持的方言标签
const (
	DialectMySQL      = "MySQL"
	DialectPostgreSQL = "PostgreSQL"
)

// ErrUnsupportedDialect 未注册的方言标签
var ErrUnsupportedDialect = xerrors.New("privilege: unsupported dialect")

// User 数据库账号标识
//
// PostgreSQL 的角色没有 host 维度，Host 留空。
type User struct {
	Name string
	Host string
}

// Privileges 单个账号的权限集合
type Privileges struct {
	// Super 是否持有实例级超级权限
	Super bool

	// Tables 表名到权限类型列表（SELECT、INSERT ...）的映射
	Tables map[string][]string
}

// HasTablePrivilege 判断账号是否持有某表的指定权限
func (p *Privileges) HasTablePrivilege(table, privilegeType string) bool {
	if p == nil {
		return false
	}
	if p.Super {
		return true
	}
	for _, t := range p.Tables[table] {
		if t == privilegeType {
			return true
		}
	}
	return false
}

// LoadFunc 方言特定的权限加载器
type LoadFunc func(ctx context.Context, db *gorm.DB, users []User) (map[User]*Privileges, error)

var loaders = map[string]LoadFunc{
	DialectMySQL:      loadMySQL,
	DialectPostgreSQL: loadPostgreSQL,
}

// SupportedDialects 返回全部已注册的方言标签
func SupportedDialects() []string {
	names := make([]string, 0, len(loaders))
	for name := range loaders {
		names = append(names, name)
	}
	return names
}

// Load 按方言加载指定账号的权限
func Load(ctx context.Context, dialect string, db *gorm.DB, users []User) (map[User]*Privileges, error) {
	loader, ok := loaders[dialect]
	if !ok {
		return nil, xerrors.Wrapf(ErrUnsupportedDialect, "dialect %q", dialect)
	}
	return loader(ctx, db, users)
}

// Open 按方言建立到后端数据库的 gorm 连接
func Open(dialect, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	switch dialect {
	case DialectMySQL:
		return gorm.Open(mysql.Open(dsn), cfg)
	case DialectPostgreSQL:
		return gorm.Open(postgres.Open(dsn), cfg)
	default:
		return nil, xerrors.Wrapf(ErrUnsupportedDialect, "dialect %q", dialect)
	}
}

// userFilter 目标账号集合；为空表示不过滤
type userFilter map[User]struct{}

func newUserFilter(users []User) userFilter {
	if len(users) == 0 {
		return nil
	}
	f := make(userFilter, len(users))
	for _, u := range users {
		f[u] = struct{}{}
	}
	return f
}

func (f userFilter) match(u User) bool {
	if f == nil {
		return true
	}
	_, ok := f[u]
	return ok
}
