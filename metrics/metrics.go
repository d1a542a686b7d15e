// Package metrics 提供控制面的 Prometheus 指标。
//
// 通过显式传入的 Registerer 注册，不依赖全局默认注册表，
// 便于在测试中隔离。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 控制面指标集合
type Metrics struct {
	// RuleOperations 规则生命周期操作计数，
	// 标签: schema / category / op (create|alter|drop) / result (ok|error)
	RuleOperations *prometheus.CounterVec

	// SnapshotsPublished 成功发布的规则快照计数，标签: schema
	SnapshotsPublished *prometheus.CounterVec
}

// New 创建并注册指标集合
//
// reg 为 nil 时使用 prometheus.DefaultRegisterer。
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		RuleOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shardmeta_rule_operations_total",
			Help: "Total number of rule lifecycle operations.",
		}, []string{"schema", "category", "op", "result"}),
		SnapshotsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shardmeta_rule_snapshots_published_total",
			Help: "Total number of successfully published rule snapshots.",
		}, []string{"schema"}),
	}
}
