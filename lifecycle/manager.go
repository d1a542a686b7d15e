// Package lifecycle 实现规则配置的生命周期管理。
//
// 每条语句的处理分两个阶段：
//  1. check：纯校验，不做任何修改，失败即终止（fail-fast，零副作用）
//  2. mutate：在当前快照的克隆上构建新配置，最后整体发布到 metastore
//
// 同一 schema 的变更串行执行（schema 粒度互斥），不同 schema 互不影响。
// 读者（路由引擎）只会看到变更前或变更后的完整快照。
package lifecycle

import (
	"context"
	"sync"

	"github.com/ceyewan/shardmeta/algorithm"
	"github.com/ceyewan/shardmeta/clog"
	"github.com/ceyewan/shardmeta/metastore"
	"github.com/ceyewan/shardmeta/metrics"
	"github.com/ceyewan/shardmeta/rule"
	"github.com/ceyewan/shardmeta/xerrors"
)

// MetadataProvider schema 元数据查询，由外部（引导配置或元数据上下文）提供
type MetadataProvider interface {
	// Resources 返回 schema 资源池中的数据源名
	Resources(schemaName string) []string

	// PlainTables 返回 schema 中未分片的普通表名
	PlainTables(schemaName string) []string
}

// Manager 规则生命周期管理器
type Manager struct {
	store    metastore.Store
	registry *algorithm.Registry
	metadata MetadataProvider
	logger   clog.Logger
	metrics  *metrics.Metrics

	mu          sync.Mutex
	schemaLocks map[string]*sync.Mutex
}

// Option 管理器初始化选项
type Option func(*Manager)

// WithLogger 设置 Logger
func WithLogger(logger clog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics 设置指标集合
func WithMetrics(metrics *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// New 创建规则生命周期管理器
//
// 使用示例：
//
//	manager, _ := lifecycle.New(store, builtin.NewRegistry(), cfg,
//	    lifecycle.WithLogger(logger))
func New(store metastore.Store, registry *algorithm.Registry, metadata MetadataProvider, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, xerrors.New("lifecycle: store is required")
	}
	if registry == nil {
		return nil, xerrors.New("lifecycle: algorithm registry is required")
	}
	if metadata == nil {
		return nil, xerrors.New("lifecycle: metadata provider is required")
	}

	m := &Manager{
		store:       store,
		registry:    registry,
		metadata:    metadata,
		logger:      clog.Default(),
		schemaLocks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(clog.String("component", "lifecycle"))
	return m, nil
}

// Execute 按语句类型分发到对应处理器
func (m *Manager) Execute(ctx context.Context, stmt Statement) error {
	switch s := stmt.(type) {
	case *CreateShardingTableRuleStatement:
		return m.CreateShardingTableRule(ctx, s)
	case *AlterShardingTableRuleStatement:
		return m.AlterShardingTableRule(ctx, s)
	case *DropShardingTableRuleStatement:
		return m.DropShardingTableRule(ctx, s)
	case *CreateEncryptRuleStatement:
		return m.CreateEncryptRule(ctx, s)
	case *AlterEncryptRuleStatement:
		return m.AlterEncryptRule(ctx, s)
	case *DropEncryptRuleStatement:
		return m.DropEncryptRule(ctx, s)
	case *CreateDatabaseDiscoveryRuleStatement:
		return m.CreateDatabaseDiscoveryRule(ctx, s)
	case *AlterDatabaseDiscoveryRuleStatement:
		return m.AlterDatabaseDiscoveryRule(ctx, s)
	case *DropDatabaseDiscoveryRuleStatement:
		return m.DropDatabaseDiscoveryRule(ctx, s)
	default:
		return xerrors.Wrapf(xerrors.ErrInvalidInput, "unsupported statement type %T", stmt)
	}
}

// lockSchema 获取 schema 粒度互斥锁，返回解锁函数
func (m *Manager) lockSchema(schemaName string) func() {
	m.mu.Lock()
	lock, ok := m.schemaLocks[schemaName]
	if !ok {
		lock = &sync.Mutex{}
		m.schemaLocks[schemaName] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// finish 统一的结束记账：指标 + 日志，原样返回 err
func (m *Manager) finish(schemaName string, category rule.Category, op string, err error) error {
	result := "ok"
	if err != nil {
		result = "error"
	}
	if m.metrics != nil {
		m.metrics.RuleOperations.WithLabelValues(schemaName, string(category), op, result).Inc()
		if err == nil {
			m.metrics.SnapshotsPublished.WithLabelValues(schemaName).Inc()
		}
	}
	if err != nil {
		m.logger.Warn("rule operation rejected",
			clog.String("schema", schemaName),
			clog.String("category", string(category)),
			clog.String("op", op),
			clog.Err(err),
		)
	} else {
		m.logger.Info("rule snapshot published",
			clog.String("schema", schemaName),
			clog.String("category", string(category)),
			clog.String("op", op),
		)
	}
	return err
}

// ========================================
// 公共校验 helpers
// ========================================

// missingResources 返回不在 schema 资源池中的名字
func (m *Manager) missingResources(schemaName string, required []string) []string {
	pool := make(map[string]struct{})
	for _, r := range m.metadata.Resources(schemaName) {
		pool[r] = struct{}{}
	}
	var missing []string
	seen := make(map[string]struct{})
	for _, r := range required {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		if _, ok := pool[r]; !ok {
			missing = append(missing, r)
		}
	}
	return missing
}

// duplicateNames 返回语句内部重复的名字，以及与 schema 中
// 已有普通表或任一类别规则冲突的名字
func (m *Manager) duplicateNames(schemaName string, incoming []string, current *rule.SchemaRuleSet) []string {
	existing := make(map[string]struct{})
	for _, t := range m.metadata.PlainTables(schemaName) {
		existing[t] = struct{}{}
	}
	for _, n := range current.AllRuleNames() {
		existing[n] = struct{}{}
	}

	counts := make(map[string]int)
	for _, n := range incoming {
		counts[n]++
	}

	dup := make(map[string]struct{})
	for n, c := range counts {
		if c > 1 {
			dup[n] = struct{}{}
		}
		if _, ok := existing[n]; ok {
			dup[n] = struct{}{}
		}
	}

	names := make([]string, 0, len(dup))
	for n := range dup {
		names = append(names, n)
	}
	return names
}

// invalidAlgorithms 返回无法在注册表解析的算法类型名
//
// 类型名未注册或 Init(props) 失败都视为无效引用。
func (m *Manager) invalidAlgorithms(category algorithm.Category, algorithms []rule.AlgorithmConfiguration) []string {
	var invalid []string
	seen := make(map[string]struct{})
	for _, a := range algorithms {
		if _, dup := seen[a.Type]; dup {
			continue
		}
		seen[a.Type] = struct{}{}
		_, found, err := m.registry.Resolve(category, a.Type, a.Props)
		if !found || err != nil {
			invalid = append(invalid, a.Type)
		}
	}
	return invalid
}

// missingTargets 返回 targets 中不在 existing 里的名字
func missingTargets(targets, existing []string) []string {
	known := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		known[n] = struct{}{}
	}
	var missing []string
	for _, n := range targets {
		if _, ok := known[n]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}
