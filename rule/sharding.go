package rule

// KeyGenerateStrategy 表级键生成策略
type KeyGenerateStrategy struct {
	Column        string `yaml:"column"`
	AlgorithmName string `yaml:"algorithm_name"`
}

// TableRule 逻辑表的分片规则
//
// LogicTable 在一个 schema 的所有规则类别与普通表之间全局唯一。
type TableRule struct {
	LogicTable            string               `yaml:"logic_table"`
	DataSources           []string             `yaml:"data_sources"`
	ShardingColumn        string               `yaml:"sharding_column"`
	ShardingAlgorithmName string               `yaml:"sharding_algorithm_name"`
	KeyGenerate           *KeyGenerateStrategy `yaml:"key_generate,omitempty"`
}

// Clone 深拷贝
func (t TableRule) Clone() TableRule {
	c := t
	c.DataSources = cloneStrings(t.DataSources)
	if t.KeyGenerate != nil {
		kg := *t.KeyGenerate
		c.KeyGenerate = &kg
	}
	return c
}

// ShardingRuleConfiguration 分片规则配置变体
type ShardingRuleConfiguration struct {
	Tables             []TableRule                       `yaml:"tables"`
	ShardingAlgorithms map[string]AlgorithmConfiguration `yaml:"sharding_algorithms,omitempty"`
	KeyGenerators      map[string]AlgorithmConfiguration `yaml:"key_generators,omitempty"`
}

// Category 实现规则配置变体标识
func (c *ShardingRuleConfiguration) Category() Category {
	return CategorySharding
}

// TableNames 返回全部逻辑表名
func (c *ShardingRuleConfiguration) TableNames() []string {
	names := make([]string, 0, len(c.Tables))
	for _, t := range c.Tables {
		names = append(names, t.LogicTable)
	}
	return names
}

// IsEmpty 判断配置是否已无任何表规则
func (c *ShardingRuleConfiguration) IsEmpty() bool {
	return len(c.Tables) == 0
}

// Clone 深拷贝
func (c *ShardingRuleConfiguration) Clone() *ShardingRuleConfiguration {
	if c == nil {
		return nil
	}
	clone := &ShardingRuleConfiguration{
		ShardingAlgorithms: cloneAlgorithmMap(c.ShardingAlgorithms),
		KeyGenerators:      cloneAlgorithmMap(c.KeyGenerators),
	}
	if c.Tables != nil {
		clone.Tables = make([]TableRule, 0, len(c.Tables))
		for _, t := range c.Tables {
			clone.Tables = append(clone.Tables, t.Clone())
		}
	}
	return clone
}

// RemoveTables 按逻辑表名移除表规则
func (c *ShardingRuleConfiguration) RemoveTables(names []string) {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	kept := c.Tables[:0]
	for _, t := range c.Tables {
		if _, ok := drop[t.LogicTable]; !ok {
			kept = append(kept, t)
		}
	}
	c.Tables = kept
}

// Prune 回收不再被任何表规则引用的算法定义
func (c *ShardingRuleConfiguration) Prune() {
	referencedAlgorithms := make(map[string]struct{})
	referencedGenerators := make(map[string]struct{})
	for _, t := range c.Tables {
		if t.ShardingAlgorithmName != "" {
			referencedAlgorithms[t.ShardingAlgorithmName] = struct{}{}
		}
		if t.KeyGenerate != nil && t.KeyGenerate.AlgorithmName != "" {
			referencedGenerators[t.KeyGenerate.AlgorithmName] = struct{}{}
		}
	}
	for name := range c.ShardingAlgorithms {
		if _, ok := referencedAlgorithms[name]; !ok {
			delete(c.ShardingAlgorithms, name)
		}
	}
	for name := range c.KeyGenerators {
		if _, ok := referencedGenerators[name]; !ok {
			delete(c.KeyGenerators, name)
		}
	}
}
