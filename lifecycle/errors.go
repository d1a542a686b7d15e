package lifecycle

import (
	"fmt"
	"sort"

	"github.com/ceyewan/shardmeta/rule"
	"github.com/ceyewan/shardmeta/xerrors"
)

// 校验错误在纯检查阶段产生并直接返回调用方，列出全部违规名字；
// 不自动重试，修正输入后重新提交是调用方的职责。
var (
	// ErrResourceNotExisted 引用的数据源不在 schema 的资源池中
	ErrResourceNotExisted = xerrors.New("lifecycle: resource not existed")

	// ErrDuplicateRuleName 语句内部重名，或与已有普通表/任一类别规则冲突
	ErrDuplicateRuleName = xerrors.New("lifecycle: duplicate rule name")

	// ErrInvalidAlgorithm 算法类型名无法在注册表解析
	ErrInvalidAlgorithm = xerrors.New("lifecycle: invalid algorithm reference")

	// ErrRuleNotExisted Alter/Drop 的目标规则不存在
	ErrRuleNotExisted = xerrors.New("lifecycle: rule not existed")
)

// 算法类别在错误信息中的展示名
const (
	algorithmKindSharding      = "sharding algorithm"
	algorithmKindKeyGenerator  = "key generator"
	algorithmKindEncryptor     = "encryptor"
	algorithmKindDiscoveryType = "discovery type"
)

// ResourceNotExistedError 列出缺失的资源名
type ResourceNotExistedError struct {
	SchemaName string
	Names      []string
}

func newResourceNotExisted(schema string, names []string) *ResourceNotExistedError {
	sort.Strings(names)
	return &ResourceNotExistedError{SchemaName: schema, Names: names}
}

func (e *ResourceNotExistedError) Error() string {
	return fmt.Sprintf("resources %v not existed in schema %s", e.Names, e.SchemaName)
}

func (e *ResourceNotExistedError) Unwrap() error { return ErrResourceNotExisted }

// DuplicateRuleNameError 列出全部重复的名字
type DuplicateRuleNameError struct {
	SchemaName string
	Names      []string
}

func newDuplicateRuleName(schema string, names []string) *DuplicateRuleNameError {
	sort.Strings(names)
	return &DuplicateRuleNameError{SchemaName: schema, Names: names}
}

func (e *DuplicateRuleNameError) Error() string {
	return fmt.Sprintf("duplicate rule names %v in schema %s", e.Names, e.SchemaName)
}

func (e *DuplicateRuleNameError) Unwrap() error { return ErrDuplicateRuleName }

// InvalidAlgorithmError 列出无法解析的算法类型名，按类别特化
type InvalidAlgorithmError struct {
	Kind  string
	Names []string
}

func newInvalidAlgorithm(kind string, names []string) *InvalidAlgorithmError {
	sort.Strings(names)
	return &InvalidAlgorithmError{Kind: kind, Names: names}
}

func (e *InvalidAlgorithmError) Error() string {
	return fmt.Sprintf("invalid %s types %v", e.Kind, e.Names)
}

func (e *InvalidAlgorithmError) Unwrap() error { return ErrInvalidAlgorithm }

// RuleNotExistedError 列出不存在的目标规则名，按类别特化
type RuleNotExistedError struct {
	SchemaName string
	Category   rule.Category
	Names      []string
}

func newRuleNotExisted(schema string, category rule.Category, names []string) *RuleNotExistedError {
	sort.Strings(names)
	return &RuleNotExistedError{SchemaName: schema, Category: category, Names: names}
}

func (e *RuleNotExistedError) Error() string {
	return fmt.Sprintf("%s rules %v not existed in schema %s", e.Category, e.Names, e.SchemaName)
}

func (e *RuleNotExistedError) Unwrap() error { return ErrRuleNotExisted }
