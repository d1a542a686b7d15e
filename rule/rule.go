// Package rule 定义单个逻辑 schema 的规则配置模型。
//
// 三类规则配置（分片、加密、主库发现）各自持有表/数据源规则，
// 以及算法名到算法定义的映射。操作间恒成立的不变式：
//   - 规则中的每个算法引用都能在所属配置的算法映射中解析
//   - 不再被任何规则引用的算法定义会被回收（Prune）
//   - 规则清空的配置变体会从 SchemaRuleSet 中整体移除
//
// SchemaRuleSet 是路由引擎读取的发布快照：变更总是先在副本上
// 构建完成，再整体替换，读者永远看不到半合并状态。
package rule

// Category 规则类别
type Category string

const (
	// CategorySharding 分片规则
	CategorySharding Category = "sharding"

	// CategoryEncrypt 加密规则
	CategoryEncrypt Category = "encrypt"

	// CategoryDatabaseDiscovery 主库发现规则
	CategoryDatabaseDiscovery Category = "database_discovery"
)

// AlgorithmConfiguration 可插拔策略实例的定义
//
// Props 对注册表不透明，只由解析出的算法实例解释。
type AlgorithmConfiguration struct {
	Type  string            `yaml:"type"`
	Props map[string]string `yaml:"props,omitempty"`
}

// Clone 深拷贝
func (a AlgorithmConfiguration) Clone() AlgorithmConfiguration {
	c := AlgorithmConfiguration{Type: a.Type}
	if a.Props != nil {
		c.Props = make(map[string]string, len(a.Props))
		for k, v := range a.Props {
			c.Props[k] = v
		}
	}
	return c
}

func cloneAlgorithmMap(m map[string]AlgorithmConfiguration) map[string]AlgorithmConfiguration {
	if m == nil {
		return nil
	}
	c := make(map[string]AlgorithmConfiguration, len(m))
	for k, v := range m {
		c[k] = v.Clone()
	}
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
