package rule

import "reflect"

// SchemaRuleSet 一个 schema 的规则配置集合，即路由引擎读取的发布快照
//
// 每个类别最多存在一个配置变体（nil 即 Absent）。
// 调用方必须把取到的快照当作只读数据：变更走 Clone → 修改 → 整体发布。
type SchemaRuleSet struct {
	Sharding          *ShardingRuleConfiguration          `yaml:"sharding,omitempty"`
	Encrypt           *EncryptRuleConfiguration           `yaml:"encrypt,omitempty"`
	DatabaseDiscovery *DatabaseDiscoveryRuleConfiguration `yaml:"database_discovery,omitempty"`
}

// NewSchemaRuleSet 创建空的规则集合
func NewSchemaRuleSet() *SchemaRuleSet {
	return &SchemaRuleSet{}
}

// Clone 深拷贝整个快照
func (s *SchemaRuleSet) Clone() *SchemaRuleSet {
	if s == nil {
		return NewSchemaRuleSet()
	}
	return &SchemaRuleSet{
		Sharding:          s.Sharding.Clone(),
		Encrypt:           s.Encrypt.Clone(),
		DatabaseDiscovery: s.DatabaseDiscovery.Clone(),
	}
}

// Equal 判断两个快照语义相等
func (s *SchemaRuleSet) Equal(other *SchemaRuleSet) bool {
	if s == nil || other == nil {
		return s == other
	}
	return reflect.DeepEqual(s, other)
}

// IsEmpty 判断是否不含任何规则配置变体
func (s *SchemaRuleSet) IsEmpty() bool {
	return s == nil || (s.Sharding == nil && s.Encrypt == nil && s.DatabaseDiscovery == nil)
}

// DropEmpty 移除规则已清空的配置变体
//
// 维持不变式：类别的终态是 Absent，而不是残留一个空配置对象。
func (s *SchemaRuleSet) DropEmpty() {
	if s.Sharding != nil && s.Sharding.IsEmpty() {
		s.Sharding = nil
	}
	if s.Encrypt != nil && s.Encrypt.IsEmpty() {
		s.Encrypt = nil
	}
	if s.DatabaseDiscovery != nil && s.DatabaseDiscovery.IsEmpty() {
		s.DatabaseDiscovery = nil
	}
}

// AllRuleNames 汇总所有类别下的规则名（逻辑表、加密表、发现规则）
//
// 用于跨类别的重名校验。
func (s *SchemaRuleSet) AllRuleNames() []string {
	if s == nil {
		return nil
	}
	var names []string
	if s.Sharding != nil {
		names = append(names, s.Sharding.TableNames()...)
	}
	if s.Encrypt != nil {
		names = append(names, s.Encrypt.TableNames()...)
	}
	if s.DatabaseDiscovery != nil {
		names = append(names, s.DatabaseDiscovery.RuleNames()...)
	}
	return names
}
