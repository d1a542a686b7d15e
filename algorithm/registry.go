package algorithm

import (
	"sync"

	"github.com/ceyewan/shardmeta/xerrors"
)

// Factory 构造一个未初始化的算法实例
//
// Resolve 每次都会通过 Factory 构造全新实例，
// 同一类型名不同 properties 的解析互不影响。
type Factory func() Algorithm

// Registry 进程级算法目录，按 (类别, 类型名) 索引
//
// 注册在进程启动阶段完成；Resolve 以读为主，支持任意并发调用。
// 通过构造函数显式传递 Registry，不使用包级全局状态。
type Registry struct {
	mu        sync.RWMutex
	factories map[Category]map[string]Factory
}

// NewRegistry 创建空的算法注册表
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[Category]map[string]Factory),
	}
}

// Register 注册一个算法工厂
//
// 幂等语义：同一 (category, typeName) 重复注册是 no-op，不报错。
func (r *Registry) Register(category Category, typeName string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byType, ok := r.factories[category]
	if !ok {
		byType = make(map[string]Factory)
		r.factories[category] = byType
	}
	if _, exists := byType[typeName]; exists {
		return
	}
	byType[typeName] = factory
}

// Resolve 解析一个配置好的算法实例
//
// 返回值：
//   - 类型名未注册时返回 (nil, false, nil)，由调用方转为用户可见的校验错误
//   - Init 失败时返回 (nil, true, err)，整次解析失败
func (r *Registry) Resolve(category Category, typeName string, props map[string]string) (Algorithm, bool, error) {
	r.mu.RLock()
	factory, ok := r.factories[category][typeName]
	r.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	instance := factory()
	if err := instance.Init(props); err != nil {
		return nil, true, xerrors.Wrapf(err, "init %s algorithm %q", category, typeName)
	}
	return instance, true, nil
}

// Contains 判断类型名是否已注册，不构造实例
func (r *Registry) Contains(category Category, typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[category][typeName]
	return ok
}

// TypeNames 返回某一类别下已注册的全部类型名
func (r *Registry) TypeNames(category Category) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories[category]))
	for name := range r.factories[category] {
		names = append(names, name)
	}
	return names
}
