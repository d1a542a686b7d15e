// Package keygen 提供分片插入使用的分布式键生成算法。
//
// 两种实现均满足 algorithm.KeyGenerateAlgorithm 契约：
//   - SNOWFLAKE：64 位单调非减整数（41 位时间戳增量 + 10 位 worker + 12 位序列号）
//   - UUID：随机 128 位值，渲染为 32 位十六进制字符串，无分隔符
//
// 跨实例的唯一性依赖运营方为各实例分配互不相同的 worker.id，
// 本包只做取值范围校验，不做集群级唯一性协调。
package keygen

import "github.com/ceyewan/shardmeta/xerrors"

// 可识别的 properties 键
const (
	// PropWorkerID worker 标识，SNOWFLAKE 必填，取值 [0, 1023]
	PropWorkerID = "worker.id"

	// PropMaxTolerateTimeDifferenceMillis 允许的最大时钟回拨毫秒数，可选
	PropMaxTolerateTimeDifferenceMillis = "max.tolerate.time.difference.ms"
)

var (
	// ErrInvalidWorkerID worker.id 缺失、非法或越界（初始化阶段）
	ErrInvalidWorkerID = xerrors.New("keygen: invalid worker id")

	// ErrInvalidProperties properties 解析失败（初始化阶段）
	ErrInvalidProperties = xerrors.New("keygen: invalid properties")

	// ErrClockBackwards 时钟回拨超过容忍范围（按次失败，不破坏生成器状态）
	ErrClockBackwards = xerrors.New("keygen: clock moved backwards too much")
)
