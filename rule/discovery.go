package rule

// DiscoveryDataSourceRule 副本集的主库发现规则
//
// Name 在 schema 的发现规则之间唯一。
type DiscoveryDataSourceRule struct {
	Name              string   `yaml:"name"`
	DataSourceNames   []string `yaml:"data_source_names"`
	DiscoveryTypeName string   `yaml:"discovery_type_name"`
}

// Clone 深拷贝
func (r DiscoveryDataSourceRule) Clone() DiscoveryDataSourceRule {
	c := r
	c.DataSourceNames = cloneStrings(r.DataSourceNames)
	return c
}

// DatabaseDiscoveryRuleConfiguration 主库发现规则配置变体
type DatabaseDiscoveryRuleConfiguration struct {
	DataSources    []DiscoveryDataSourceRule         `yaml:"data_sources"`
	DiscoveryTypes map[string]AlgorithmConfiguration `yaml:"discovery_types,omitempty"`
}

// Category 实现规则配置变体标识
func (c *DatabaseDiscoveryRuleConfiguration) Category() Category {
	return CategoryDatabaseDiscovery
}

// RuleNames 返回全部发现规则名
func (c *DatabaseDiscoveryRuleConfiguration) RuleNames() []string {
	names := make([]string, 0, len(c.DataSources))
	for _, ds := range c.DataSources {
		names = append(names, ds.Name)
	}
	return names
}

// IsEmpty 判断配置是否已无任何发现规则
func (c *DatabaseDiscoveryRuleConfiguration) IsEmpty() bool {
	return len(c.DataSources) == 0
}

// Clone 深拷贝
func (c *DatabaseDiscoveryRuleConfiguration) Clone() *DatabaseDiscoveryRuleConfiguration {
	if c == nil {
		return nil
	}
	clone := &DatabaseDiscoveryRuleConfiguration{
		DiscoveryTypes: cloneAlgorithmMap(c.DiscoveryTypes),
	}
	if c.DataSources != nil {
		clone.DataSources = make([]DiscoveryDataSourceRule, 0, len(c.DataSources))
		for _, ds := range c.DataSources {
			clone.DataSources = append(clone.DataSources, ds.Clone())
		}
	}
	return clone
}

// RemoveRules 按规则名移除发现规则
func (c *DatabaseDiscoveryRuleConfiguration) RemoveRules(names []string) {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	kept := c.DataSources[:0]
	for _, ds := range c.DataSources {
		if _, ok := drop[ds.Name]; !ok {
			kept = append(kept, ds)
		}
	}
	c.DataSources = kept
}

// Prune 回收不再被任何规则引用的发现类型定义
func (c *DatabaseDiscoveryRuleConfiguration) Prune() {
	referenced := make(map[string]struct{})
	for _, ds := range c.DataSources {
		if ds.DiscoveryTypeName != "" {
			referenced[ds.DiscoveryTypeName] = struct{}{}
		}
	}
	for name := range c.DiscoveryTypes {
		if _, ok := referenced[name]; !ok {
			delete(c.DiscoveryTypes, name)
		}
	}
}
