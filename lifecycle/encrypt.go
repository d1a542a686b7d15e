package lifecycle

import (
	"context"

	"github.com/ceyewan/shardmeta/algorithm"
	"github.com/ceyewan/shardmeta/rule"
)

// encryptorName 生成加密器在配置内的存储名
func encryptorName(table, column string) string {
	return table + "_" + column
}

// CreateEncryptRule 创建加密规则
//
// 加密规则不引用数据源，不做资源池校验。
func (m *Manager) CreateEncryptRule(ctx context.Context, stmt *CreateEncryptRuleStatement) error {
	unlock := m.lockSchema(stmt.SchemaName)
	defer unlock()

	current, err := m.store.GetRuleConfigurations(ctx, stmt.SchemaName)
	if err != nil {
		return m.finish(stmt.SchemaName, rule.CategoryEncrypt, "create", err)
	}
	if err := m.checkCreateEncryptRule(stmt, current); err != nil {
		return m.finish(stmt.SchemaName, rule.CategoryEncrypt, "create", err)
	}

	next := current.Clone()
	if next.Encrypt == nil {
		next.Encrypt = &rule.EncryptRuleConfiguration{}
	}
	appendEncryptRules(next.Encrypt, stmt.Rules)

	err = m.store.SetRuleConfigurations(ctx, stmt.SchemaName, next)
	return m.finish(stmt.SchemaName, rule.CategoryEncrypt, "create", err)
}

// AlterEncryptRule 整体替换命名表的加密规则
func (m *Manager) AlterEncryptRule(ctx context.Context, stmt *AlterEncryptRuleStatement) error {
	unlock := m.lockSchema(stmt.SchemaName)
	defer unlock()

	current, err := m.store.GetRuleConfigurations(ctx, stmt.SchemaName)
	if err != nil {
		return m.finish(stmt.SchemaName, rule.CategoryEncrypt, "alter", err)
	}
	if err := m.checkAlterEncryptRule(stmt, current); err != nil {
		return m.finish(stmt.SchemaName, rule.CategoryEncrypt, "alter", err)
	}

	next := current.Clone()
	tables := make([]string, 0, len(stmt.Rules))
	for _, seg := range stmt.Rules {
		tables = append(tables, seg.Table)
	}
	next.Encrypt.RemoveTables(tables)
	appendEncryptRules(next.Encrypt, stmt.Rules)
	next.Encrypt.Prune()

	err = m.store.SetRuleConfigurations(ctx, stmt.SchemaName, next)
	return m.finish(stmt.SchemaName, rule.CategoryEncrypt, "alter", err)
}

// DropEncryptRule 删除命名表的加密规则
func (m *Manager) DropEncryptRule(ctx context.Context, stmt *DropEncryptRuleStatement) error {
	unlock := m.lockSchema(stmt.SchemaName)
	defer unlock()

	current, err := m.store.GetRuleConfigurations(ctx, stmt.SchemaName)
	if err != nil {
		return m.finish(stmt.SchemaName, rule.CategoryEncrypt, "drop", err)
	}
	if current.Encrypt == nil {
		err := newRuleNotExisted(stmt.SchemaName, rule.CategoryEncrypt, cloneNames(stmt.Tables))
		return m.finish(stmt.SchemaName, rule.CategoryEncrypt, "drop", err)
	}
	if missing := missingTargets(stmt.Tables, current.Encrypt.TableNames()); len(missing) > 0 {
		err := newRuleNotExisted(stmt.SchemaName, rule.CategoryEncrypt, missing)
		return m.finish(stmt.SchemaName, rule.CategoryEncrypt, "drop", err)
	}

	next := current.Clone()
	next.Encrypt.RemoveTables(stmt.Tables)
	next.Encrypt.Prune()
	next.DropEmpty()

	err = m.store.SetRuleConfigurations(ctx, stmt.SchemaName, next)
	return m.finish(stmt.SchemaName, rule.CategoryEncrypt, "drop", err)
}

// ========================================
// 纯校验
// ========================================

func (m *Manager) checkCreateEncryptRule(stmt *CreateEncryptRuleStatement, current *rule.SchemaRuleSet) error {
	incoming := make([]string, 0, len(stmt.Rules))
	for _, seg := range stmt.Rules {
		incoming = append(incoming, seg.Table)
	}
	if dup := m.duplicateNames(stmt.SchemaName, incoming, current); len(dup) > 0 {
		return newDuplicateRuleName(stmt.SchemaName, dup)
	}
	return m.checkEncryptors(stmt.Rules)
}

func (m *Manager) checkAlterEncryptRule(stmt *AlterEncryptRuleStatement, current *rule.SchemaRuleSet) error {
	targets := make([]string, 0, len(stmt.Rules))
	for _, seg := range stmt.Rules {
		targets = append(targets, seg.Table)
	}
	if current.Encrypt == nil {
		return newRuleNotExisted(stmt.SchemaName, rule.CategoryEncrypt, targets)
	}
	if missing := missingTargets(targets, current.Encrypt.TableNames()); len(missing) > 0 {
		return newRuleNotExisted(stmt.SchemaName, rule.CategoryEncrypt, missing)
	}
	return m.checkEncryptors(stmt.Rules)
}

// checkEncryptors 校验所有列引用的加密器都能被注册表解析
func (m *Manager) checkEncryptors(segments []EncryptRuleSegment) error {
	var encryptors []rule.AlgorithmConfiguration
	for _, seg := range segments {
		for _, col := range seg.Columns {
			encryptors = append(encryptors, col.Encryptor)
		}
	}
	if invalid := m.invalidAlgorithms(algorithm.CategoryEncrypt, encryptors); len(invalid) > 0 {
		return newInvalidAlgorithm(algorithmKindEncryptor, invalid)
	}
	return nil
}

// appendEncryptRules 把语句段落落入配置：表规则 + 加密器定义
func appendEncryptRules(cfg *rule.EncryptRuleConfiguration, segments []EncryptRuleSegment) {
	if cfg.Encryptors == nil {
		cfg.Encryptors = make(map[string]rule.AlgorithmConfiguration)
	}
	for _, seg := range segments {
		t := rule.EncryptTableRule{Name: seg.Table}
		for _, col := range seg.Columns {
			name := encryptorName(seg.Table, col.Name)
			cfg.Encryptors[name] = col.Encryptor.Clone()
			t.Columns = append(t.Columns, rule.EncryptColumnRule{
				Name:          col.Name,
				CipherColumn:  col.CipherColumn,
				EncryptorName: name,
			})
		}
		cfg.Tables = append(cfg.Tables, t)
	}
}
