package privilege

import (
	"context"

	"gorm.io/gorm"

	"github.com/ceyewan/shardmeta/xerrors"
)

const (
	postgresRoleSQL           = "SELECT rolname, rolsuper FROM pg_roles"
	postgresTablePrivilegeSQL = "SELECT grantee, table_name, privilege_type FROM information_schema.table_privileges"
)

// loadPostgreSQL 读取 pg_roles 的超级用户标志与 information_schema 的表级授权
//
// PostgreSQL 角色没有 host 维度，User.Host 恒为空。
func loadPostgreSQL(ctx context.Context, db *gorm.DB, users []User) (map[User]*Privileges, error) {
	filter := newUserFilter(users)
	result := make(map[User]*Privileges)

	rows, err := db.WithContext(ctx).Raw(postgresRoleSQL).Rows()
	if err != nil {
		return nil, xerrors.Wrap(err, "query pg_roles")
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var super bool
		if err := rows.Scan(&name, &super); err != nil {
			return nil, xerrors.Wrap(err, "scan pg_roles row")
		}
		u := User{Name: name}
		if !filter.match(u) {
			continue
		}
		result[u] = &Privileges{
			Super:  super,
			Tables: make(map[string][]string),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.Wrap(err, "iterate pg_roles rows")
	}

	tableRows, err := db.WithContext(ctx).Raw(postgresTablePrivilegeSQL).Rows()
	if err != nil {
		return nil, xerrors.Wrap(err, "query table privileges")
	}
	defer tableRows.Close()
	for tableRows.Next() {
		var grantee, table, privilegeType string
		if err := tableRows.Scan(&grantee, &table, &privilegeType); err != nil {
			return nil, xerrors.Wrap(err, "scan table privilege row")
		}
		if p, ok := result[User{Name: grantee}]; ok {
			p.Tables[table] = append(p.Tables[table], privilegeType)
		}
	}
	if err := tableRows.Err(); err != nil {
		return nil, xerrors.Wrap(err, "iterate table privilege rows")
	}

	return result, nil
}
