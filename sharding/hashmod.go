package sharding

import (
	"fmt"
	"hash/fnv"
)

// HashMod 哈希取模分片算法
//
// 分片值先做 FNV-1a 哈希再取模，适用于非整数分片键。
type HashMod struct {
	shardingCount int64
}

// NewHashMod 创建 HASH_MOD 分片算法
func NewHashMod() *HashMod {
	return &HashMod{}
}

// Type 实现 algorithm.Algorithm
func (h *HashMod) Type() string {
	return "HASH_MOD"
}

// Init 解析 sharding-count
func (h *HashMod) Init(props map[string]string) error {
	count, err := parseShardingCount(props)
	if err != nil {
		return err
	}
	h.shardingCount = count
	return nil
}

// Shard 实现 algorithm.ShardingAlgorithm
func (h *HashMod) Shard(availableTargets []string, shardingValue any) (string, error) {
	hasher := fnv.New64a()
	fmt.Fprintf(hasher, "%v", shardingValue)
	index := mod(int64(hasher.Sum64()), h.shardingCount)
	return pickBySuffix(availableTargets, index)
}
