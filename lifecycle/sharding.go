package lifecycle

import (
	"context"
	"strings"

	"github.com/ceyewan/shardmeta/algorithm"
	"github.com/ceyewan/shardmeta/rule"
)

// shardingAlgorithmName 生成分片算法在配置内的存储名
func shardingAlgorithmName(logicTable, algorithmType string) string {
	return logicTable + "_" + strings.ToLower(algorithmType)
}

// keyGeneratorName 生成键生成器在配置内的存储名
func keyGeneratorName(logicTable, column string) string {
	return logicTable + "_" + column
}

// CreateShardingTableRule 创建分片表规则
func (m *Manager) CreateShardingTableRule(ctx context.Context, stmt *CreateShardingTableRuleStatement) error {
	unlock := m.lockSchema(stmt.SchemaName)
	defer unlock()

	current, err := m.store.GetRuleConfigurations(ctx, stmt.SchemaName)
	if err != nil {
		return m.finish(stmt.SchemaName, rule.CategorySharding, "create", err)
	}
	if err := m.checkCreateShardingTableRule(stmt, current); err != nil {
		return m.finish(stmt.SchemaName, rule.CategorySharding, "create", err)
	}

	next := current.Clone()
	if next.Sharding == nil {
		next.Sharding = &rule.ShardingRuleConfiguration{}
	}
	appendShardingRules(next.Sharding, stmt.Rules)

	err = m.store.SetRuleConfigurations(ctx, stmt.SchemaName, next)
	return m.finish(stmt.SchemaName, rule.CategorySharding, "create", err)
}

// AlterShardingTableRule 整体替换命名表的分片规则
func (m *Manager) AlterShardingTableRule(ctx context.Context, stmt *AlterShardingTableRuleStatement) error {
	unlock := m.lockSchema(stmt.SchemaName)
	defer unlock()

	current, err := m.store.GetRuleConfigurations(ctx, stmt.SchemaName)
	if err != nil {
		return m.finish(stmt.SchemaName, rule.CategorySharding, "alter", err)
	}
	if err := m.checkAlterShardingTableRule(stmt, current); err != nil {
		return m.finish(stmt.SchemaName, rule.CategorySharding, "alter", err)
	}

	next := current.Clone()
	tables := make([]string, 0, len(stmt.Rules))
	for _, seg := range stmt.Rules {
		tables = append(tables, seg.LogicTable)
	}
	next.Sharding.RemoveTables(tables)
	appendShardingRules(next.Sharding, stmt.Rules)
	next.Sharding.Prune()

	err = m.store.SetRuleConfigurations(ctx, stmt.SchemaName, next)
	return m.finish(stmt.SchemaName, rule.CategorySharding, "alter", err)
}

// DropShardingTableRule 删除命名表的分片规则
func (m *Manager) DropShardingTableRule(ctx context.Context, stmt *DropShardingTableRuleStatement) error {
	unlock := m.lockSchema(stmt.SchemaName)
	defer unlock()

	current, err := m.store.GetRuleConfigurations(ctx, stmt.SchemaName)
	if err != nil {
		return m.finish(stmt.SchemaName, rule.CategorySharding, "drop", err)
	}
	if current.Sharding == nil {
		err := newRuleNotExisted(stmt.SchemaName, rule.CategorySharding, cloneNames(stmt.Tables))
		return m.finish(stmt.SchemaName, rule.CategorySharding, "drop", err)
	}
	if missing := missingTargets(stmt.Tables, current.Sharding.TableNames()); len(missing) > 0 {
		err := newRuleNotExisted(stmt.SchemaName, rule.CategorySharding, missing)
		return m.finish(stmt.SchemaName, rule.CategorySharding, "drop", err)
	}

	next := current.Clone()
	next.Sharding.RemoveTables(stmt.Tables)
	next.Sharding.Prune()
	next.DropEmpty()

	err = m.store.SetRuleConfigurations(ctx, stmt.SchemaName, next)
	return m.finish(stmt.SchemaName, rule.CategorySharding, "drop", err)
}

// ========================================
// 纯校验
// ========================================

func (m *Manager) checkCreateShardingTableRule(stmt *CreateShardingTableRuleStatement, current *rule.SchemaRuleSet) error {
	var required []string
	for _, seg := range stmt.Rules {
		required = append(required, seg.DataSources...)
	}
	if missing := m.missingResources(stmt.SchemaName, required); len(missing) > 0 {
		return newResourceNotExisted(stmt.SchemaName, missing)
	}

	incoming := make([]string, 0, len(stmt.Rules))
	for _, seg := range stmt.Rules {
		incoming = append(incoming, seg.LogicTable)
	}
	if dup := m.duplicateNames(stmt.SchemaName, incoming, current); len(dup) > 0 {
		return newDuplicateRuleName(stmt.SchemaName, dup)
	}

	return m.checkShardingAlgorithms(stmt.Rules)
}

func (m *Manager) checkAlterShardingTableRule(stmt *AlterShardingTableRuleStatement, current *rule.SchemaRuleSet) error {
	targets := make([]string, 0, len(stmt.Rules))
	for _, seg := range stmt.Rules {
		targets = append(targets, seg.LogicTable)
	}
	if current.Sharding == nil {
		return newRuleNotExisted(stmt.SchemaName, rule.CategorySharding, targets)
	}
	if missing := missingTargets(targets, current.Sharding.TableNames()); len(missing) > 0 {
		return newRuleNotExisted(stmt.SchemaName, rule.CategorySharding, missing)
	}

	var required []string
	for _, seg := range stmt.Rules {
		required = append(required, seg.DataSources...)
	}
	if missing := m.missingResources(stmt.SchemaName, required); len(missing) > 0 {
		return newResourceNotExisted(stmt.SchemaName, missing)
	}

	return m.checkShardingAlgorithms(stmt.Rules)
}

// checkShardingAlgorithms 校验分片算法与键生成器引用都能被注册表解析
func (m *Manager) checkShardingAlgorithms(segments []TableRuleSegment) error {
	var shardingAlgorithms, keyGenerators []rule.AlgorithmConfiguration
	for _, seg := range segments {
		shardingAlgorithms = append(shardingAlgorithms, seg.ShardingAlgorithm)
		if seg.KeyGenerate != nil {
			keyGenerators = append(keyGenerators, seg.KeyGenerate.Algorithm)
		}
	}
	if invalid := m.invalidAlgorithms(algorithm.CategorySharding, shardingAlgorithms); len(invalid) > 0 {
		return newInvalidAlgorithm(algorithmKindSharding, invalid)
	}
	if invalid := m.invalidAlgorithms(algorithm.CategoryKeyGenerate, keyGenerators); len(invalid) > 0 {
		return newInvalidAlgorithm(algorithmKindKeyGenerator, invalid)
	}
	return nil
}

// appendShardingRules 把语句段落落入配置：表规则 + 算法定义
func appendShardingRules(cfg *rule.ShardingRuleConfiguration, segments []TableRuleSegment) {
	if cfg.ShardingAlgorithms == nil {
		cfg.ShardingAlgorithms = make(map[string]rule.AlgorithmConfiguration)
	}
	for _, seg := range segments {
		algoName := shardingAlgorithmName(seg.LogicTable, seg.ShardingAlgorithm.Type)
		cfg.ShardingAlgorithms[algoName] = seg.ShardingAlgorithm.Clone()

		t := rule.TableRule{
			LogicTable:            seg.LogicTable,
			DataSources:           cloneNames(seg.DataSources),
			ShardingColumn:        seg.ShardingColumn,
			ShardingAlgorithmName: algoName,
		}
		if seg.KeyGenerate != nil {
			if cfg.KeyGenerators == nil {
				cfg.KeyGenerators = make(map[string]rule.AlgorithmConfiguration)
			}
			genName := keyGeneratorName(seg.LogicTable, seg.KeyGenerate.Column)
			cfg.KeyGenerators[genName] = seg.KeyGenerate.Algorithm.Clone()
			t.KeyGenerate = &rule.KeyGenerateStrategy{
				Column:        seg.KeyGenerate.Column,
				AlgorithmName: genName,
			}
		}
		cfg.Tables = append(cfg.Tables, t)
	}
}

func cloneNames(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
