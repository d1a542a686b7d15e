package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/shardmeta/clog"
)

const sampleConfig = `
schemas:
  - name: s1
    data_sources: [ds_0, ds_1]
    tables: [t_plain]
  - name: s2
    data_sources: [ds_2]
etcd:
  endpoints: ["127.0.0.1:2379"]
  namespace: /shardmeta/rules
logging:
  level: debug
  format: json
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shardmeta.yaml"), []byte(content), 0o644))
	return dir
}

func TestLoader_Load(t *testing.T) {
	dir := writeConfig(t, sampleConfig)
	loader := NewLoader(
		WithConfigPaths(dir),
		WithLogger(clog.Discard()),
	)

	bootstrap, err := loader.Load()
	require.NoError(t, err)

	require.Len(t, bootstrap.Schemas, 2)
	assert.Equal(t, []string{"ds_0", "ds_1"}, bootstrap.Resources("s1"))
	assert.Equal(t, []string{"t_plain"}, bootstrap.PlainTables("s1"))
	assert.Nil(t, bootstrap.Resources("unknown"))

	assert.Equal(t, []string{"127.0.0.1:2379"}, bootstrap.Etcd.Endpoints)
	assert.Equal(t, "debug", bootstrap.Logging.Level)
	assert.Equal(t, "json", bootstrap.Logging.Format)

	// 未设置的字段落默认值
	assert.Equal(t, "/shardmeta/rules", bootstrap.Etcd.Namespace)
	assert.Equal(t, 5*time.Second, bootstrap.Etcd.DialTimeout)

	assert.Same(t, bootstrap, loader.Current())
}

func TestLoader_MissingFileUsesDefaults(t *testing.T) {
	loader := NewLoader(
		WithConfigPaths(t.TempDir()),
		WithLogger(clog.Discard()),
	)
	bootstrap, err := loader.Load()
	require.NoError(t, err)
	assert.Empty(t, bootstrap.Schemas)
	assert.Equal(t, "info", bootstrap.Logging.Level)
}

func TestLoader_EnvOverride(t *testing.T) {
	dir := writeConfig(t, sampleConfig)
	t.Setenv("SHARDMETA_ETCD_NAMESPACE", "/custom/rules")

	loader := NewLoader(
		WithConfigPaths(dir),
		WithLogger(clog.Discard()),
	)
	bootstrap, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "/custom/rules", bootstrap.Etcd.Namespace)
}

func TestBootstrap_Validate(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "empty schema name",
			content: `
schemas:
  - data_sources: [ds_0]
`,
		},
		{
			name: "duplicate schema",
			content: `
schemas:
  - name: s1
    data_sources: [ds_0]
  - name: s1
    data_sources: [ds_1]
`,
		},
		{
			name: "no data sources",
			content: `
schemas:
  - name: s1
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewLoader(
				WithConfigPaths(writeConfig(t, tt.content)),
				WithLogger(clog.Discard()),
			)
			_, err := loader.Load()
			require.ErrorIs(t, err, ErrValidationFailed)
		})
	}
}
