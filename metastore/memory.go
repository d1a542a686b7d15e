package metastore

import (
	"context"
	"sync"

	"github.com/ceyewan/shardmeta/rule"
)

// MemoryStore 进程内规则存储
//
// 每个 schema 名指向一个不可变快照指针；Set 整体替换指针，
// 读者要么看到旧快照要么看到新快照，不存在中间状态。
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*rule.SchemaRuleSet
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string]*rule.SchemaRuleSet),
	}
}

// GetRuleConfigurations 实现 Store
func (m *MemoryStore) GetRuleConfigurations(_ context.Context, schemaName string) (*rule.SchemaRuleSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if snapshot, ok := m.snapshots[schemaName]; ok {
		return snapshot, nil
	}
	return rule.NewSchemaRuleSet(), nil
}

// SetRuleConfigurations 实现 Store
func (m *MemoryStore) SetRuleConfigurations(_ context.Context, schemaName string, ruleSet *rule.SchemaRuleSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[schemaName] = ruleSet
	return nil
}

var _ Store = (*MemoryStore)(nil)
