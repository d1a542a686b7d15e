package lifecycle

import (
	"context"
	"strings"

	"github.com/ceyewan/shardmeta/algorithm"
	"github.com/ceyewan/shardmeta/rule"
)

// discoveryTypeName 生成发现类型在配置内的存储名
func discoveryTypeName(ruleName, typeName string) string {
	return ruleName + "_" + strings.ToLower(typeName)
}

// CreateDatabaseDiscoveryRule 创建主库发现规则
func (m *Manager) CreateDatabaseDiscoveryRule(ctx context.Context, stmt *CreateDatabaseDiscoveryRuleStatement) error {
	unlock := m.lockSchema(stmt.SchemaName)
	defer unlock()

	current, err := m.store.GetRuleConfigurations(ctx, stmt.SchemaName)
	if err != nil {
		return m.finish(stmt.SchemaName, rule.CategoryDatabaseDiscovery, "create", err)
	}
	if err := m.checkCreateDatabaseDiscoveryRule(stmt, current); err != nil {
		return m.finish(stmt.SchemaName, rule.CategoryDatabaseDiscovery, "create", err)
	}

	next := current.Clone()
	if next.DatabaseDiscovery == nil {
		next.DatabaseDiscovery = &rule.DatabaseDiscoveryRuleConfiguration{}
	}
	appendDiscoveryRules(next.DatabaseDiscovery, stmt.Rules)

	err = m.store.SetRuleConfigurations(ctx, stmt.SchemaName, next)
	return m.finish(stmt.SchemaName, rule.CategoryDatabaseDiscovery, "create", err)
}

// AlterDatabaseDiscoveryRule 整体替换命名副本集的发现规则
func (m *Manager) AlterDatabaseDiscoveryRule(ctx context.Context, stmt *AlterDatabaseDiscoveryRuleStatement) error {
	unlock := m.lockSchema(stmt.SchemaName)
	defer unlock()

	current, err := m.store.GetRuleConfigurations(ctx, stmt.SchemaName)
	if err != nil {
		return m.finish(stmt.SchemaName, rule.CategoryDatabaseDiscovery, "alter", err)
	}
	if err := m.checkAlterDatabaseDiscoveryRule(stmt, current); err != nil {
		return m.finish(stmt.SchemaName, rule.CategoryDatabaseDiscovery, "alter", err)
	}

	next := current.Clone()
	names := make([]string, 0, len(stmt.Rules))
	for _, seg := range stmt.Rules {
		names = append(names, seg.Name)
	}
	next.DatabaseDiscovery.RemoveRules(names)
	appendDiscoveryRules(next.DatabaseDiscovery, stmt.Rules)
	next.DatabaseDiscovery.Prune()

	err = m.store.SetRuleConfigurations(ctx, stmt.SchemaName, next)
	return m.finish(stmt.SchemaName, rule.CategoryDatabaseDiscovery, "alter", err)
}

// DropDatabaseDiscoveryRule 删除命名副本集的发现规则
func (m *Manager) DropDatabaseDiscoveryRule(ctx context.Context, stmt *DropDatabaseDiscoveryRuleStatement) error {
	unlock := m.lockSchema(stmt.SchemaName)
	defer unlock()

	current, err := m.store.GetRuleConfigurations(ctx, stmt.SchemaName)
	if err != nil {
		return m.finish(stmt.SchemaName, rule.CategoryDatabaseDiscovery, "drop", err)
	}
	if current.DatabaseDiscovery == nil {
		err := newRuleNotExisted(stmt.SchemaName, rule.CategoryDatabaseDiscovery, cloneNames(stmt.RuleNames))
		return m.finish(stmt.SchemaName, rule.CategoryDatabaseDiscovery, "drop", err)
	}
	if missing := missingTargets(stmt.RuleNames, current.DatabaseDiscovery.RuleNames()); len(missing) > 0 {
		err := newRuleNotExisted(stmt.SchemaName, rule.CategoryDatabaseDiscovery, missing)
		return m.finish(stmt.SchemaName, rule.CategoryDatabaseDiscovery, "drop", err)
	}

	next := current.Clone()
	next.DatabaseDiscovery.RemoveRules(stmt.RuleNames)
	next.DatabaseDiscovery.Prune()
	next.DropEmpty()

	err = m.store.SetRuleConfigurations(ctx, stmt.SchemaName, next)
	return m.finish(stmt.SchemaName, rule.CategoryDatabaseDiscovery, "drop", err)
}

// ========================================
// 纯校验
// ========================================

func (m *Manager) checkCreateDatabaseDiscoveryRule(stmt *CreateDatabaseDiscoveryRuleStatement, current *rule.SchemaRuleSet) error {
	var required []string
	for _, seg := range stmt.Rules {
		required = append(required, seg.DataSources...)
	}
	if missing := m.missingResources(stmt.SchemaName, required); len(missing) > 0 {
		return newResourceNotExisted(stmt.SchemaName, missing)
	}

	incoming := make([]string, 0, len(stmt.Rules))
	for _, seg := range stmt.Rules {
		incoming = append(incoming, seg.Name)
	}
	if dup := m.duplicateNames(stmt.SchemaName, incoming, current); len(dup) > 0 {
		return newDuplicateRuleName(stmt.SchemaName, dup)
	}

	return m.checkDiscoveryTypes(stmt.Rules)
}

func (m *Manager) checkAlterDatabaseDiscoveryRule(stmt *AlterDatabaseDiscoveryRuleStatement, current *rule.SchemaRuleSet) error {
	targets := make([]string, 0, len(stmt.Rules))
	for _, seg := range stmt.Rules {
		targets = append(targets, seg.Name)
	}
	if current.DatabaseDiscovery == nil {
		return newRuleNotExisted(stmt.SchemaName, rule.CategoryDatabaseDiscovery, targets)
	}
	if missing := missingTargets(targets, current.DatabaseDiscovery.RuleNames()); len(missing) > 0 {
		return newRuleNotExisted(stmt.SchemaName, rule.CategoryDatabaseDiscovery, missing)
	}

	var required []string
	for _, seg := range stmt.Rules {
		required = append(required, seg.DataSources...)
	}
	if missing := m.missingResources(stmt.SchemaName, required); len(missing) > 0 {
		return newResourceNotExisted(stmt.SchemaName, missing)
	}

	return m.checkDiscoveryTypes(stmt.Rules)
}

// checkDiscoveryTypes 校验所有发现类型引用都能被注册表解析
func (m *Manager) checkDiscoveryTypes(segments []DatabaseDiscoveryRuleSegment) error {
	var types []rule.AlgorithmConfiguration
	for _, seg := range segments {
		types = append(types, seg.DiscoveryType)
	}
	if invalid := m.invalidAlgorithms(algorithm.CategoryDiscoveryType, types); len(invalid) > 0 {
		return newInvalidAlgorithm(algorithmKindDiscoveryType, invalid)
	}
	return nil
}

// appendDiscoveryRules 把语句段落落入配置：副本集规则 + 发现类型定义
func appendDiscoveryRules(cfg *rule.DatabaseDiscoveryRuleConfiguration, segments []DatabaseDiscoveryRuleSegment) {
	if cfg.DiscoveryTypes == nil {
		cfg.DiscoveryTypes = make(map[string]rule.AlgorithmConfiguration)
	}
	for _, seg := range segments {
		typeName := discoveryTypeName(seg.Name, seg.DiscoveryType.Type)
		cfg.DiscoveryTypes[typeName] = seg.DiscoveryType.Clone()
		cfg.DataSources = append(cfg.DataSources, rule.DiscoveryDataSourceRule{
			Name:              seg.Name,
			DataSourceNames:   cloneNames(seg.DataSources),
			DiscoveryTypeName: typeName,
		})
	}
}
