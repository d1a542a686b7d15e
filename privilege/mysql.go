package privilege

import (
	"context"

	"gorm.io/gorm"

	"github.com/ceyewan/shardmeta/xerrors"
)

const (
	mysqlGlobalPrivilegeSQL = "SELECT user, host, super_priv FROM mysql.user"
	mysqlTablePrivilegeSQL  = "SELECT grantee, table_name, privilege_type FROM information_schema.table_privileges"
)

// loadMySQL 读取 mysql.user 的全局标志与 information_schema 的表级授权
func loadMySQL(ctx context.Context, db *gorm.DB, users []User) (map[User]*Privileges, error) {
	filter := newUserFilter(users)
	result := make(map[User]*Privileges)

	rows, err := db.WithContext(ctx).Raw(mysqlGlobalPrivilegeSQL).Rows()
	if err != nil {
		return nil, xerrors.Wrap(err, "query mysql.user")
	}
	defer rows.Close()
	for rows.Next() {
		var name, host, superPriv string
		if err := rows.Scan(&name, &host, &superPriv); err != nil {
			return nil, xerrors.Wrap(err, "scan mysql.user row")
		}
		u := User{Name: name, Host: host}
		if !filter.match(u) {
			continue
		}
		result[u] = &Privileges{
			Super:  superPriv == "Y",
			Tables: make(map[string][]string),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.Wrap(err, "iterate mysql.user rows")
	}

	tableRows, err := db.WithContext(ctx).Raw(mysqlTablePrivilegeSQL).Rows()
	if err != nil {
		return nil, xerrors.Wrap(err, "query table privileges")
	}
	defer tableRows.Close()
	for tableRows.Next() {
		var grantee, table, privilegeType string
		if err := tableRows.Scan(&grantee, &table, &privilegeType); err != nil {
			return nil, xerrors.Wrap(err, "scan table privilege row")
		}
		u, ok := parseMySQLGrantee(grantee)
		if !ok {
			continue
		}
		if p, ok := result[u]; ok {
			p.Tables[table] = append(p.Tables[table], privilegeType)
		}
	}
	if err := tableRows.Err(); err != nil {
		return nil, xerrors.Wrap(err, "iterate table privilege rows")
	}

	return result, nil
}

// parseMySQLGrantee 解析 'user'@'host' 形式的 grantee
func parseMySQLGrantee(grantee string) (User, bool) {
	var name, host string
	var inQuote bool
	var atSeen bool
	for _, r := range grantee {
		switch {
		case r == '\'':
			inQuote = !inQuote
		case r == '@' && !inQuote:
			atSeen = true
		case atSeen:
			host += string(r)
		default:
			name += string(r)
		}
	}
	if name == "" || !atSeen {
		return User{}, false
	}
	return User{Name: name, Host: host}, true
}
