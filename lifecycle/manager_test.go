package lifecycle_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/shardmeta/builtin"
	"github.com/ceyewan/shardmeta/clog"
	"github.com/ceyewan/shardmeta/lifecycle"
	"github.com/ceyewan/shardmeta/metastore"
	"github.com/ceyewan/shardmeta/rule"
)

// fakeMetadata 固定的 schema 元数据
type fakeMetadata struct {
	resources   map[string][]string
	plainTables map[string][]string
}

func (f *fakeMetadata) Resources(schema string) []string   { return f.resources[schema] }
func (f *fakeMetadata) PlainTables(schema string) []string { return f.plainTables[schema] }

func newTestManager(t *testing.T) (*lifecycle.Manager, metastore.Store) {
	t.Helper()
	store := metastore.NewMemoryStore()
	metadata := &fakeMetadata{
		resources:   map[string][]string{"s1": {"ds_0", "ds_1"}},
		plainTables: map[string][]string{"s1": {"t_plain"}},
	}
	m, err := lifecycle.New(store, builtin.NewRegistry(), metadata,
		lifecycle.WithLogger(clog.Discard()))
	require.NoError(t, err)
	return m, store
}

func orderTableSegment() lifecycle.TableRuleSegment {
	return lifecycle.TableRuleSegment{
		LogicTable:        "t_order",
		DataSources:       []string{"ds_0", "ds_1"},
		ShardingColumn:    "order_id",
		ShardingAlgorithm: rule.AlgorithmConfiguration{Type: "MOD", Props: map[string]string{"sharding-count": "4"}},
		KeyGenerate: &lifecycle.KeyGenerateSegment{
			Column:    "order_id",
			Algorithm: rule.AlgorithmConfiguration{Type: "SNOWFLAKE", Props: map[string]string{"worker.id": "123"}},
		},
	}
}

func TestManager_CreateShardingTableRule(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	stmt := &lifecycle.CreateShardingTableRuleStatement{
		SchemaName: "s1",
		Rules:      []lifecycle.TableRuleSegment{orderTableSegment()},
	}
	require.NoError(t, m.Execute(ctx, stmt))

	got, err := store.GetRuleConfigurations(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got.Sharding)
	require.Len(t, got.Sharding.Tables, 1)

	table := got.Sharding.Tables[0]
	assert.Equal(t, "t_order", table.LogicTable)
	assert.Equal(t, []string{"ds_0", "ds_1"}, table.DataSources)
	assert.Equal(t, "order_id", table.ShardingColumn)
	assert.Equal(t, "t_order_mod", table.ShardingAlgorithmName)
	require.NotNil(t, table.KeyGenerate)
	assert.Equal(t, "t_order_order_id", table.KeyGenerate.AlgorithmName)

	assert.Equal(t, "MOD", got.Sharding.ShardingAlgorithms["t_order_mod"].Type)
	assert.Equal(t, "123", got.Sharding.KeyGenerators["t_order_order_id"].Props["worker.id"])
}

func TestManager_CreateShardingTableRule_ResourceNotExisted(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	seg := orderTableSegment()
	seg.DataSources = []string{"ds_0", "ds_9", "ds_8"}
	err := m.Execute(ctx, &lifecycle.CreateShardingTableRuleStatement{
		SchemaName: "s1",
		Rules:      []lifecycle.TableRuleSegment{seg},
	})

	require.ErrorIs(t, err, lifecycle.ErrResourceNotExisted)
	var notExisted *lifecycle.ResourceNotExistedError
	require.ErrorAs(t, err, &notExisted)
	assert.Equal(t, []string{"ds_8", "ds_9"}, notExisted.Names)

	// 校验失败不留任何痕迹
	got, err := store.GetRuleConfigurations(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestManager_CreateShardingTableRule_DuplicateNames(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Execute(ctx, &lifecycle.CreateShardingTableRuleStatement{
		SchemaName: "s1",
		Rules:      []lifecycle.TableRuleSegment{orderTableSegment()},
	}))
	before, err := store.GetRuleConfigurations(ctx, "s1")
	require.NoError(t, err)

	// t_order 与已有规则冲突，t_plain 与普通表冲突，t_item 语句内重复
	segments := make([]lifecycle.TableRuleSegment, 0, 4)
	for _, name := range []string{"t_order", "t_plain", "t_item", "t_item"} {
		seg := orderTableSegment()
		seg.LogicTable = name
		segments = append(segments, seg)
	}
	err = m.Execute(ctx, &lifecycle.CreateShardingTableRuleStatement{
		SchemaName: "s1",
		Rules:      segments,
	})

	require.ErrorIs(t, err, lifecycle.ErrDuplicateRuleName)
	var dup *lifecycle.DuplicateRuleNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, []string{"t_item", "t_order", "t_plain"}, dup.Names)

	after, err := store.GetRuleConfigurations(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, before.Equal(after))
}

func TestManager_CreateShardingTableRule_InvalidAlgorithm(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	tests := []struct {
		name string
		seg  lifecycle.TableRuleSegment
	}{
		{
			name: "unknown type",
			seg: func() lifecycle.TableRuleSegment {
				s := orderTableSegment()
				s.ShardingAlgorithm = rule.AlgorithmConfiguration{Type: "NO_SUCH"}
				return s
			}(),
		},
		{
			name: "init failure",
			seg: func() lifecycle.TableRuleSegment {
				s := orderTableSegment()
				s.ShardingAlgorithm = rule.AlgorithmConfiguration{Type: "MOD", Props: map[string]string{"sharding-count": "zero"}}
				return s
			}(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.Execute(ctx, &lifecycle.CreateShardingTableRuleStatement{
				SchemaName: "s1",
				Rules:      []lifecycle.TableRuleSegment{tt.seg},
			})
			require.ErrorIs(t, err, lifecycle.ErrInvalidAlgorithm)
			var invalid *lifecycle.InvalidAlgorithmError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, "sharding algorithm", invalid.Kind)
			assert.Equal(t, []string{tt.seg.ShardingAlgorithm.Type}, invalid.Names)
		})
	}
}

func TestManager_CreateShardingTableRule_InvalidKeyGenerator(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	seg := orderTableSegment()
	seg.KeyGenerate.Algorithm = rule.AlgorithmConfiguration{Type: "SNOWFLAKE", Props: map[string]string{"worker.id": "4096"}}
	err := m.Execute(ctx, &lifecycle.CreateShardingTableRuleStatement{
		SchemaName: "s1",
		Rules:      []lifecycle.TableRuleSegment{seg},
	})

	var invalid *lifecycle.InvalidAlgorithmError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "key generator", invalid.Kind)
	assert.Equal(t, []string{"SNOWFLAKE"}, invalid.Names)
}

func TestManager_AlterShardingTableRule(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Execute(ctx, &lifecycle.CreateShardingTableRuleStatement{
		SchemaName: "s1",
		Rules:      []lifecycle.TableRuleSegment{orderTableSegment()},
	}))

	// 换算法、去掉键生成器
	seg := lifecycle.TableRuleSegment{
		LogicTable:        "t_order",
		DataSources:       []string{"ds_0"},
		ShardingColumn:    "user_id",
		ShardingAlgorithm: rule.AlgorithmConfiguration{Type: "HASH_MOD", Props: map[string]string{"sharding-count": "8"}},
	}
	require.NoError(t, m.Execute(ctx, &lifecycle.AlterShardingTableRuleStatement{
		SchemaName: "s1",
		Rules:      []lifecycle.TableRuleSegment{seg},
	}))

	got, err := store.GetRuleConfigurations(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got.Sharding.Tables, 1)
	assert.Equal(t, "t_order_hash_mod", got.Sharding.Tables[0].ShardingAlgorithmName)
	assert.Nil(t, got.Sharding.Tables[0].KeyGenerate)

	// 旧算法与键生成器定义已被回收
	assert.NotContains(t, got.Sharding.ShardingAlgorithms, "t_order_mod")
	assert.Empty(t, got.Sharding.KeyGenerators)
}

func TestManager_AlterShardingTableRule_NotExisted(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	err := m.Execute(ctx, &lifecycle.AlterShardingTableRuleStatement{
		SchemaName: "s1",
		Rules:      []lifecycle.TableRuleSegment{orderTableSegment()},
	})

	require.ErrorIs(t, err, lifecycle.ErrRuleNotExisted)
	var notExisted *lifecycle.RuleNotExistedError
	require.ErrorAs(t, err, &notExisted)
	assert.Equal(t, rule.CategorySharding, notExisted.Category)
	assert.Equal(t, []string{"t_order"}, notExisted.Names)
}

func TestManager_DropShardingTableRule(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Execute(ctx, &lifecycle.CreateShardingTableRuleStatement{
		SchemaName: "s1",
		Rules:      []lifecycle.TableRuleSegment{orderTableSegment()},
	}))

	require.NoError(t, m.Execute(ctx, &lifecycle.DropShardingTableRuleStatement{
		SchemaName: "s1",
		Tables:     []string{"t_order"},
	}))

	// 最后一张表删除后整个分片配置变体消失
	got, err := store.GetRuleConfigurations(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got.Sharding)
	assert.True(t, got.IsEmpty())
}

func TestManager_DropShardingTableRule_MissingNames(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Execute(ctx, &lifecycle.CreateShardingTableRuleStatement{
		SchemaName: "s1",
		Rules:      []lifecycle.TableRuleSegment{orderTableSegment()},
	}))
	before, err := store.GetRuleConfigurations(ctx, "s1")
	require.NoError(t, err)

	err = m.Execute(ctx, &lifecycle.DropShardingTableRuleStatement{
		SchemaName: "s1",
		Tables:     []string{"t_order", "t_ghost", "t_absent"},
	})

	var notExisted *lifecycle.RuleNotExistedError
	require.ErrorAs(t, err, &notExisted)
	// 只报缺失的，不把存在的 t_order 算进去
	assert.Equal(t, []string{"t_absent", "t_ghost"}, notExisted.Names)

	after, err := store.GetRuleConfigurations(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, before.Equal(after))
}

func TestManager_DropThenRecreate(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	create := &lifecycle.CreateShardingTableRuleStatement{
		SchemaName: "s1",
		Rules:      []lifecycle.TableRuleSegment{orderTableSegment()},
	}
	require.NoError(t, m.Execute(ctx, create))
	first, err := store.GetRuleConfigurations(ctx, "s1")
	require.NoError(t, err)

	require.NoError(t, m.Execute(ctx, &lifecycle.DropShardingTableRuleStatement{
		SchemaName: "s1",
		Tables:     []string{"t_order"},
	}))
	require.NoError(t, m.Execute(ctx, create))

	second, err := store.GetRuleConfigurations(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}

// ========================================
// 加密规则
// ========================================

func userEncryptSegment() lifecycle.EncryptRuleSegment {
	return lifecycle.EncryptRuleSegment{
		Table: "t_user",
		Columns: []lifecycle.EncryptColumnSegment{
			{
				Name:         "pwd",
				CipherColumn: "pwd_cipher",
				Encryptor:    rule.AlgorithmConfiguration{Type: "AES", Props: map[string]string{"aes.key.value": "secret"}},
			},
		},
	}
}

func TestManager_CreateEncryptRule(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Execute(ctx, &lifecycle.CreateEncryptRuleStatement{
		SchemaName: "s1",
		Rules:      []lifecycle.EncryptRuleSegment{userEncryptSegment()},
	}))

	got, err := store.GetRuleConfigurations(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got.Encrypt)
	require.Len(t, got.Encrypt.Tables, 1)
	assert.Equal(t, "t_user", got.Encrypt.Tables[0].Name)
	assert.Equal(t, "t_user_pwd", got.Encrypt.Tables[0].Columns[0].EncryptorName)
	assert.Equal(t, "AES", got.Encrypt.Encryptors["t_user_pwd"].Type)
}

func TestManager_CreateEncryptRule_InvalidEncryptor(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	seg := userEncryptSegment()
	seg.Columns[0].Encryptor = rule.AlgorithmConfiguration{Type: "AES"} // 缺 key
	err := m.Execute(ctx, &lifecycle.CreateEncryptRuleStatement{
		SchemaName: "s1",
		Rules:      []lifecycle.EncryptRuleSegment{seg},
	})

	var invalid *lifecycle.InvalidAlgorithmError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "encryptor", invalid.Kind)
	assert.Equal(t, []string{"AES"}, invalid.Names)
}

func TestManager_DropEncryptRule_AbsentConfiguration(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	err := m.Execute(ctx, &lifecycle.DropEncryptRuleStatement{
		SchemaName: "s1",
		Tables:     []string{"t_user"},
	})

	require.ErrorIs(t, err, lifecycle.ErrRuleNotExisted)
	var notExisted *lifecycle.RuleNotExistedError
	require.ErrorAs(t, err, &notExisted)
	assert.Equal(t, "s1", notExisted.SchemaName)
	assert.Equal(t, rule.CategoryEncrypt, notExisted.Category)
	assert.Equal(t, []string{"t_user"}, notExisted.Names)
}

func TestManager_AlterEncryptRule(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Execute(ctx, &lifecycle.CreateEncryptRuleStatement{
		SchemaName: "s1",
		Rules:      []lifecycle.EncryptRuleSegment{userEncryptSegment()},
	}))

	seg := lifecycle.EncryptRuleSegment{
		Table: "t_user",
		Columns: []lifecycle.EncryptColumnSegment{
			{Name: "email", CipherColumn: "email_cipher", Encryptor: rule.AlgorithmConfiguration{Type: "MD5"}},
		},
	}
	require.NoError(t, m.Execute(ctx, &lifecycle.AlterEncryptRuleStatement{
		SchemaName: "s1",
		Rules:      []lifecycle.EncryptRuleSegment{seg},
	}))

	got, err := store.GetRuleConfigurations(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got.Encrypt.Tables, 1)
	assert.Equal(t, "t_user_email", got.Encrypt.Tables[0].Columns[0].EncryptorName)
	assert.NotContains(t, got.Encrypt.Encryptors, "t_user_pwd")
}

// ========================================
// 主库发现规则
// ========================================

func discoverySegment() lifecycle.DatabaseDiscoveryRuleSegment {
	return lifecycle.DatabaseDiscoveryRuleSegment{
		Name:          "readwrite_ds",
		DataSources:   []string{"ds_0", "ds_1"},
		DiscoveryType: rule.AlgorithmConfiguration{Type: "STATIC", Props: map[string]string{"primary-data-source": "ds_0"}},
	}
}

func TestManager_DatabaseDiscoveryRuleLifecycle(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Execute(ctx, &lifecycle.CreateDatabaseDiscoveryRuleStatement{
		SchemaName: "s1",
		Rules:      []lifecycle.DatabaseDiscoveryRuleSegment{discoverySegment()},
	}))

	got, err := store.GetRuleConfigurations(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got.DatabaseDiscovery)
	assert.Equal(t, "readwrite_ds_static", got.DatabaseDiscovery.DataSources[0].DiscoveryTypeName)

	seg := discoverySegment()
	seg.DataSources = []string{"ds_1"}
	require.NoError(t, m.Execute(ctx, &lifecycle.AlterDatabaseDiscoveryRuleStatement{
		SchemaName: "s1",
		Rules:      []lifecycle.DatabaseDiscoveryRuleSegment{seg},
	}))

	got, err = store.GetRuleConfigurations(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"ds_1"}, got.DatabaseDiscovery.DataSources[0].DataSourceNames)

	require.NoError(t, m.Execute(ctx, &lifecycle.DropDatabaseDiscoveryRuleStatement{
		SchemaName: "s1",
		RuleNames:  []string{"readwrite_ds"},
	}))

	got, err = store.GetRuleConfigurations(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got.DatabaseDiscovery)
}

func TestManager_CreateDatabaseDiscoveryRule_ResourceNotExisted(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	seg := discoverySegment()
	seg.DataSources = []string{"ds_0", "ds_9"}
	err := m.Execute(ctx, &lifecycle.CreateDatabaseDiscoveryRuleStatement{
		SchemaName: "s1",
		Rules:      []lifecycle.DatabaseDiscoveryRuleSegment{seg},
	})

	var notExisted *lifecycle.ResourceNotExistedError
	require.ErrorAs(t, err, &notExisted)
	assert.Equal(t, []string{"ds_9"}, notExisted.Names)
}

// 不同类别之间也不允许重名
func TestManager_CrossCategoryDuplicate(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Execute(ctx, &lifecycle.CreateEncryptRuleStatement{
		SchemaName: "s1",
		Rules:      []lifecycle.EncryptRuleSegment{userEncryptSegment()},
	}))

	seg := orderTableSegment()
	seg.LogicTable = "t_user"
	err := m.Execute(ctx, &lifecycle.CreateShardingTableRuleStatement{
		SchemaName: "s1",
		Rules:      []lifecycle.TableRuleSegment{seg},
	})

	var dup *lifecycle.DuplicateRuleNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, []string{"t_user"}, dup.Names)
}
