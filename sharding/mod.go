package sharding

// Mod 取模分片算法
//
// 分片值对 sharding-count 取模后选出对应编号的目标。
// 分片值必须可转换为整数。
type Mod struct {
	shardingCount int64
}

// NewMod 创建 MOD 分片算法
func NewMod() *Mod {
	return &Mod{}
}

// Type 实现 algorithm.Algorithm
func (m *Mod) Type() string {
	return "MOD"
}

// Init 解析 sharding-count
func (m *Mod) Init(props map[string]string) error {
	count, err := parseShardingCount(props)
	if err != nil {
		return err
	}
	m.shardingCount = count
	return nil
}

// Shard 实现 algorithm.ShardingAlgorithm
func (m *Mod) Shard(availableTargets []string, shardingValue any) (string, error) {
	v, err := toInt64(shardingValue)
	if err != nil {
		return "", err
	}
	return pickBySuffix(availableTargets, mod(v, m.shardingCount))
}
