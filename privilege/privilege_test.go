package privilege

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_UnsupportedDialect(t *testing.T) {
	_, err := Load(context.Background(), "Oracle", nil, nil)
	require.ErrorIs(t, err, ErrUnsupportedDialect)
}

func TestSupportedDialects(t *testing.T) {
	dialects := SupportedDialects()
	assert.ElementsMatch(t, []string{DialectMySQL, DialectPostgreSQL}, dialects)
}

func TestOpen_UnsupportedDialect(t *testing.T) {
	_, err := Open("SQLite", "file::memory:")
	require.ErrorIs(t, err, ErrUnsupportedDialect)
}

func TestParseMySQLGrantee(t *testing.T) {
	tests := []struct {
		grantee string
		want    User
		ok      bool
	}{
		{"'root'@'localhost'", User{Name: "root", Host: "localhost"}, true},
		{"'app'@'%'", User{Name: "app", Host: "%"}, true},
		{"'it@quoted'@'%'", User{Name: "it@quoted", Host: "%"}, true},
		{"no-at-sign", User{}, false},
	}
	for _, tt := range tests {
		got, ok := parseMySQLGrantee(tt.grantee)
		assert.Equal(t, tt.ok, ok, tt.grantee)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.grantee)
		}
	}
}

func TestPrivileges_HasTablePrivilege(t *testing.T) {
	p := &Privileges{Tables: map[string][]string{"t_order": {"SELECT", "INSERT"}}}
	assert.True(t, p.HasTablePrivilege("t_order", "SELECT"))
	assert.False(t, p.HasTablePrivilege("t_order", "DROP"))
	assert.False(t, p.HasTablePrivilege("t_user", "SELECT"))

	super := &Privileges{Super: true}
	assert.True(t, super.HasTablePrivilege("anything", "DROP"))

	var nilPrivileges *Privileges
	assert.False(t, nilPrivileges.HasTablePrivilege("t_order", "SELECT"))
}

func TestUserFilter(t *testing.T) {
	f := newUserFilter([]User{{Name: "root", Host: "%"}})
	assert.True(t, f.match(User{Name: "root", Host: "%"}))
	assert.False(t, f.match(User{Name: "root", Host: "localhost"}))

	// 空过滤器放行所有账号
	assert.True(t, newUserFilter(nil).match(User{Name: "anyone"}))
}
