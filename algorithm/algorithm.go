// Package algorithm 提供分片中间件的可插拔算法注册与解析能力。
//
// 算法按类别（分片、键生成、加密、主库发现）注册到 Registry，
// 路由引擎与规则生命周期管理器通过 (类别, 类型名) 解析出配置好的算法实例。
//
// 基本使用：
//
//	r := algorithm.NewRegistry()
//	r.Register(algorithm.CategoryKeyGenerate, "SNOWFLAKE", func() algorithm.Algorithm {
//	    return keygen.NewSnowflake()
//	})
//	provider, ok, err := r.Resolve(algorithm.CategoryKeyGenerate, "SNOWFLAKE", map[string]string{
//	    "worker.id": "1",
//	})
package algorithm

// Category 算法类别
type Category string

const (
	// CategorySharding 分片算法：将分片值路由到目标数据节点
	CategorySharding Category = "sharding"

	// CategoryKeyGenerate 键生成算法：为分片插入生成唯一键
	CategoryKeyGenerate Category = "key_generate"

	// CategoryEncrypt 加密算法：列级加解密
	CategoryEncrypt Category = "encrypt"

	// CategoryDiscoveryType 主库发现算法：从副本集中选出主库
	CategoryDiscoveryType Category = "discovery_type"
)

// Algorithm 所有算法的公共契约
//
// Init 在实例返回给调用方之前恰好执行一次，负责解析并校验 properties；
// 校验失败会使整次解析失败。
type Algorithm interface {
	// Type 返回算法类型名，例如 "SNOWFLAKE"
	Type() string

	// Init 应用外部配置的 properties
	Init(props map[string]string) error
}

// Key 键生成算法产出的有序可比较标识。
// 具体类型为 int64（SNOWFLAKE）或 string（UUID）。
type Key any

// KeyGenerateAlgorithm 键生成算法契约
//
// GenerateKey 必须在同一实例上支持并发调用。
type KeyGenerateAlgorithm interface {
	Algorithm
	GenerateKey() (Key, error)
}

// ShardingAlgorithm 分片算法契约
type ShardingAlgorithm interface {
	Algorithm
	// Shard 根据分片值从可用目标中选出一个数据节点
	Shard(availableTargets []string, shardingValue any) (string, error)
}

// EncryptAlgorithm 加密算法契约
type EncryptAlgorithm interface {
	Algorithm
	Encrypt(plainValue string) (string, error)
	Decrypt(cipherValue string) (string, error)
}

// DiscoveryTypeAlgorithm 主库发现算法契约
type DiscoveryTypeAlgorithm interface {
	Algorithm
	// PickPrimary 从候选成员中选出主库
	PickPrimary(candidates []string) (string, error)
}
