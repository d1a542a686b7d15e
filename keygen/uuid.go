package keygen

import (
	"encoding/hex"
	"sync"

	"github.com/google/uuid"

	"github.com/ceyewan/shardmeta/algorithm"
)

// UUID 随机键生成算法
//
// 产出 128 位随机值的 32 位十六进制渲染（小写，无分隔符）。
// 调用之间没有顺序保证。互斥区只覆盖取随机值这一步，
// 竞争下吞吐平滑下降而不会产生损坏的输出。
type UUID struct {
	mu sync.Mutex
}

// NewUUID 创建 UUID 生成器
func NewUUID() *UUID {
	return &UUID{}
}

// Type 实现 algorithm.Algorithm
func (u *UUID) Type() string {
	return "UUID"
}

// Init UUID 不识别任何 properties
func (u *UUID) Init(props map[string]string) error {
	return nil
}

// GenerateKey 生成 32 位十六进制 token
func (u *UUID) GenerateKey() (algorithm.Key, error) {
	u.mu.Lock()
	v := uuid.New()
	u.mu.Unlock()
	return hex.EncodeToString(v[:]), nil
}
