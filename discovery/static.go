// Package discovery 提供内置主库发现算法。
package discovery

import (
	"github.com/ceyewan/shardmeta/xerrors"
)

// PropPrimaryDataSource 指定主库的 property，可选；
// 未配置时选择候选列表中的第一个成员。
const PropPrimaryDataSource = "primary-data-source"

var (
	// ErrNoCandidate 候选成员为空
	ErrNoCandidate = xerrors.New("discovery: no candidate data source")

	// ErrPrimaryNotInCandidates 配置的主库不在候选成员中
	ErrPrimaryNotInCandidates = xerrors.New("discovery: primary not in candidates")
)

// Static 静态主库发现算法
//
// 不探测实例健康状态，按配置（或候选顺序）直接选定主库，
// 适用于外部编排系统已经维护了主从拓扑的场景。
type Static struct {
	primary string
}

// NewStatic 创建 STATIC 发现算法
func NewStatic() *Static {
	return &Static{}
}

// Type 实现 algorithm.Algorithm
func (s *Static) Type() string {
	return "STATIC"
}

// Init 读取可选的 primary-data-source
func (s *Static) Init(props map[string]string) error {
	s.primary = props[PropPrimaryDataSource]
	return nil
}

// PickPrimary 实现 algorithm.DiscoveryTypeAlgorithm
func (s *Static) PickPrimary(candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoCandidate
	}
	if s.primary == "" {
		return candidates[0], nil
	}
	for _, candidate := range candidates {
		if candidate == s.primary {
			return candidate, nil
		}
	}
	return "", xerrors.Wrapf(ErrPrimaryNotInCandidates, "%q not in %v", s.primary, candidates)
}
