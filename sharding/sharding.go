// Package sharding 提供内置分片算法。
//
// 目标数据节点按 "<前缀>_<编号>" 命名，算法计算出编号后
// 在可用目标中选出以该编号为后缀的节点。
package sharding

import (
	"strconv"
	"strings"

	"github.com/ceyewan/shardmeta/xerrors"
)

// PropShardingCount 分片数量 property，MOD / HASH_MOD 必填
const PropShardingCount = "sharding-count"

var (
	// ErrInvalidShardingCount sharding-count 缺失或非正整数
	ErrInvalidShardingCount = xerrors.New("sharding: invalid sharding count")

	// ErrNoSuitableTarget 没有以计算出的编号为后缀的目标
	ErrNoSuitableTarget = xerrors.New("sharding: no suitable target")

	// ErrUnsupportedValue 分片值类型无法转换为整数
	ErrUnsupportedValue = xerrors.New("sharding: unsupported sharding value")
)

func parseShardingCount(props map[string]string) (int64, error) {
	raw, ok := props[PropShardingCount]
	if !ok {
		return 0, xerrors.WithCode(ErrInvalidShardingCount, "sharding_count_required")
	}
	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || count <= 0 {
		return 0, xerrors.WithCode(ErrInvalidShardingCount, "sharding_count_not_positive")
	}
	return count, nil
}

// pickBySuffix 选出以编号为后缀（最后一个 "_" 之后）的目标
func pickBySuffix(targets []string, index int64) (string, error) {
	suffix := strconv.FormatInt(index, 10)
	for _, target := range targets {
		if i := strings.LastIndex(target, "_"); i >= 0 && target[i+1:] == suffix {
			return target, nil
		}
	}
	return "", xerrors.Wrapf(ErrNoSuitableTarget, "index %d in %v", index, targets)
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, xerrors.Wrapf(ErrUnsupportedValue, "%q", v)
		}
		return n, nil
	default:
		return 0, xerrors.Wrapf(ErrUnsupportedValue, "%T", value)
	}
}

func mod(v, count int64) int64 {
	return ((v % count) + count) % count
}
