// Package builtin 汇集内置算法提供方。
//
// 单独成包是为了避免 algorithm 与各算法实现包之间的循环依赖：
// 实现包只依赖 algorithm 接口，这里统一完成注册。
package builtin

import (
	"github.com/ceyewan/shardmeta/algorithm"
	"github.com/ceyewan/shardmeta/discovery"
	"github.com/ceyewan/shardmeta/encrypt"
	"github.com/ceyewan/shardmeta/keygen"
	"github.com/ceyewan/shardmeta/sharding"
)

// NewRegistry 创建预装全部内置算法的注册表
func NewRegistry() *algorithm.Registry {
	r := algorithm.NewRegistry()

	r.Register(algorithm.CategorySharding, "MOD", func() algorithm.Algorithm { return sharding.NewMod() })
	r.Register(algorithm.CategorySharding, "HASH_MOD", func() algorithm.Algorithm { return sharding.NewHashMod() })

	r.Register(algorithm.CategoryKeyGenerate, "SNOWFLAKE", func() algorithm.Algorithm { return keygen.NewSnowflake() })
	r.Register(algorithm.CategoryKeyGenerate, "UUID", func() algorithm.Algorithm { return keygen.NewUUID() })

	r.Register(algorithm.CategoryEncrypt, "AES", func() algorithm.Algorithm { return encrypt.NewAES() })
	r.Register(algorithm.CategoryEncrypt, "MD5", func() algorithm.Algorithm { return encrypt.NewMD5() })

	r.Register(algorithm.CategoryDiscoveryType, "STATIC", func() algorithm.Algorithm { return discovery.NewStatic() })

	return r
}
