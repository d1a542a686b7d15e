package lifecycle

import "github.com/ceyewan/shardmeta/rule"

// Statement 规则生命周期语句
//
// 语句由外部层解析完成，这里只接收结构化输入。
type Statement interface {
	// Schema 语句作用的逻辑 schema 名
	Schema() string
}

// ========================================
// 分片语句 (Sharding)
// ========================================

// KeyGenerateSegment 表级键生成声明
type KeyGenerateSegment struct {
	Column    string
	Algorithm rule.AlgorithmConfiguration
}

// TableRuleSegment 单个逻辑表的分片声明
type TableRuleSegment struct {
	LogicTable        string
	DataSources       []string
	ShardingColumn    string
	ShardingAlgorithm rule.AlgorithmConfiguration
	KeyGenerate       *KeyGenerateSegment
}

// CreateShardingTableRuleStatement 创建分片表规则
type CreateShardingTableRuleStatement struct {
	SchemaName string
	Rules      []TableRuleSegment
}

func (s *CreateShardingTableRuleStatement) Schema() string { return s.SchemaName }

// AlterShardingTableRuleStatement 替换已有分片表规则
type AlterShardingTableRuleStatement struct {
	SchemaName string
	Rules      []TableRuleSegment
}

func (s *AlterShardingTableRuleStatement) Schema() string { return s.SchemaName }

// DropShardingTableRuleStatement 删除分片表规则
type DropShardingTableRuleStatement struct {
	SchemaName string
	Tables     []string
}

func (s *DropShardingTableRuleStatement) Schema() string { return s.SchemaName }

// ========================================
// 加密语句 (Encrypt)
// ========================================

// EncryptColumnSegment 列级加密声明
type EncryptColumnSegment struct {
	Name         string
	CipherColumn string
	Encryptor    rule.AlgorithmConfiguration
}

// EncryptRuleSegment 单个表的加密声明
type EncryptRuleSegment struct {
	Table   string
	Columns []EncryptColumnSegment
}

// CreateEncryptRuleStatement 创建加密规则
type CreateEncryptRuleStatement struct {
	SchemaName string
	Rules      []EncryptRuleSegment
}

func (s *CreateEncryptRuleStatement) Schema() string { return s.SchemaName }

// AlterEncryptRuleStatement 替换已有加密规则
type AlterEncryptRuleStatement struct {
	SchemaName string
	Rules      []EncryptRuleSegment
}

func (s *AlterEncryptRuleStatement) Schema() string { return s.SchemaName }

// DropEncryptRuleStatement 删除加密规则
type DropEncryptRuleStatement struct {
	SchemaName string
	Tables     []string
}

func (s *DropEncryptRuleStatement) Schema() string { return s.SchemaName }

// ========================================
// 主库发现语句 (DatabaseDiscovery)
// ========================================

// DatabaseDiscoveryRuleSegment 单个副本集的发现声明
type DatabaseDiscoveryRuleSegment struct {
	Name          string
	DataSources   []string
	DiscoveryType rule.AlgorithmConfiguration
}

// CreateDatabaseDiscoveryRuleStatement 创建主库发现规则
type CreateDatabaseDiscoveryRuleStatement struct {
	SchemaName string
	Rules      []DatabaseDiscoveryRuleSegment
}

func (s *CreateDatabaseDiscoveryRuleStatement) Schema() string { return s.SchemaName }

// AlterDatabaseDiscoveryRuleStatement 替换已有主库发现规则
type AlterDatabaseDiscoveryRuleStatement struct {
	SchemaName string
	Rules      []DatabaseDiscoveryRuleSegment
}

func (s *AlterDatabaseDiscoveryRuleStatement) Schema() string { return s.SchemaName }

// DropDatabaseDiscoveryRuleStatement 删除主库发现规则
type DropDatabaseDiscoveryRuleStatement struct {
	SchemaName string
	RuleNames  []string
}

func (s *DropDatabaseDiscoveryRuleStatement) Schema() string { return s.SchemaName }
