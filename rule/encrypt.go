package rule

// EncryptColumnRule 列级加密规则
type EncryptColumnRule struct {
	Name          string `yaml:"name"`
	CipherColumn  string `yaml:"cipher_column,omitempty"`
	EncryptorName string `yaml:"encryptor_name"`
}

// EncryptTableRule 表级加密规则
//
// Name 在 schema 的加密表之间唯一。
type EncryptTableRule struct {
	Name    string              `yaml:"name"`
	Columns []EncryptColumnRule `yaml:"columns"`
}

// Clone 深拷贝
func (t EncryptTableRule) Clone() EncryptTableRule {
	c := t
	if t.Columns != nil {
		c.Columns = make([]EncryptColumnRule, len(t.Columns))
		copy(c.Columns, t.Columns)
	}
	return c
}

// EncryptRuleConfiguration 加密规则配置变体
type EncryptRuleConfiguration struct {
	Tables     []EncryptTableRule                `yaml:"tables"`
	Encryptors map[string]AlgorithmConfiguration `yaml:"encryptors,omitempty"`
}

// Category 实现规则配置变体标识
func (c *EncryptRuleConfiguration) Category() Category {
	return CategoryEncrypt
}

// TableNames 返回全部加密表名
func (c *EncryptRuleConfiguration) TableNames() []string {
	names := make([]string, 0, len(c.Tables))
	for _, t := range c.Tables {
		names = append(names, t.Name)
	}
	return names
}

// IsEmpty 判断配置是否已无任何表规则
func (c *EncryptRuleConfiguration) IsEmpty() bool {
	return len(c.Tables) == 0
}

// Clone 深拷贝
func (c *EncryptRuleConfiguration) Clone() *EncryptRuleConfiguration {
	if c == nil {
		return nil
	}
	clone := &EncryptRuleConfiguration{
		Encryptors: cloneAlgorithmMap(c.Encryptors),
	}
	if c.Tables != nil {
		clone.Tables = make([]EncryptTableRule, 0, len(c.Tables))
		for _, t := range c.Tables {
			clone.Tables = append(clone.Tables, t.Clone())
		}
	}
	return clone
}

// RemoveTables 按表名移除加密规则
func (c *EncryptRuleConfiguration) RemoveTables(names []string) {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	kept := c.Tables[:0]
	for _, t := range c.Tables {
		if _, ok := drop[t.Name]; !ok {
			kept = append(kept, t)
		}
	}
	c.Tables = kept
}

// Prune 回收不再被任何列引用的加密器定义
func (c *EncryptRuleConfiguration) Prune() {
	referenced := make(map[string]struct{})
	for _, t := range c.Tables {
		for _, col := range t.Columns {
			if col.EncryptorName != "" {
				referenced[col.EncryptorName] = struct{}{}
			}
		}
	}
	for name := range c.Encryptors {
		if _, ok := referenced[name]; !ok {
			delete(c.Encryptors, name)
		}
	}
}
