// Package metastore 提供规则配置快照的持久化协作方。
//
// 生命周期管理器与持久化/协调的全部交互只有两个调用：
// 读取某个 schema 的快照、整体写回新快照。单次调用假定原子。
//
// 两种实现：
//   - MemoryStore：进程内原子快照交换，用于单机模式与测试
//   - EtcdStore：快照以 YAML 存入 etcd，用于集群模式
package metastore

import (
	"context"

	"github.com/ceyewan/shardmeta/rule"
)

// Store 规则配置存储契约
//
// GetRuleConfigurations 返回的快照必须按只读数据对待；
// 变更方需要先 Clone 再修改，最后通过 SetRuleConfigurations 整体发布。
// schema 不存在时返回空快照而不是错误。
type Store interface {
	GetRuleConfigurations(ctx context.Context, schemaName string) (*rule.SchemaRuleSet, error)
	SetRuleConfigurations(ctx context.Context, schemaName string, ruleSet *rule.SchemaRuleSet) error
}
