package keygen

import (
	"strconv"
	"sync"
	"time"

	"github.com/ceyewan/shardmeta/algorithm"
	"github.com/ceyewan/shardmeta/xerrors"
)

const (
	// epochMillis 自定义纪元 2024-01-01T00:00:00Z，41 位时间戳增量可覆盖约 69 年
	epochMillis int64 = 1704067200000

	workerIDBits = 10
	sequenceBits = 12

	maxWorkerID  = -1 ^ (-1 << workerIDBits) // 1023
	sequenceMask = -1 ^ (-1 << sequenceBits) // 4095

	workerIDShift  = sequenceBits
	timestampShift = sequenceBits + workerIDBits

	// defaultMaxTolerateMillis 默认时钟回拨容忍度
	defaultMaxTolerateMillis int64 = 10
)

// Snowflake 有序键生成算法
//
// 单实例同一毫秒内的连续输出严格递增，跨毫秒单调非减。
// lastMillis/sequence 为实例私有状态，由单一临界区保护，
// 并发调用方在该临界区上串行，不需要外部协调。
type Snowflake struct {
	mu                sync.Mutex
	workerID          int64
	sequence          int64
	lastMillis        int64
	maxTolerateMillis int64

	// now 可注入的时钟，测试用
	now func() int64
}

// NewSnowflake 创建未初始化的 SNOWFLAKE 生成器
//
// worker.id 在 Init 阶段解析校验，越界在初始化时失败，而不是首次调用时。
func NewSnowflake() *Snowflake {
	return &Snowflake{
		workerID:          -1,
		maxTolerateMillis: defaultMaxTolerateMillis,
		now:               func() int64 { return time.Now().UnixMilli() },
	}
}

// Type 实现 algorithm.Algorithm
func (s *Snowflake) Type() string {
	return "SNOWFLAKE"
}

// Init 解析并校验 properties
//
// 必填 worker.id ∈ [0, 1023]；可选 max.tolerate.time.difference.ms ≥ 0。
func (s *Snowflake) Init(props map[string]string) error {
	raw, ok := props[PropWorkerID]
	if !ok {
		return xerrors.WithCode(ErrInvalidWorkerID, "worker_id_required")
	}
	workerID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return xerrors.WithCode(ErrInvalidWorkerID, "worker_id_not_integer")
	}
	if workerID < 0 || workerID > maxWorkerID {
		return xerrors.WithCode(ErrInvalidWorkerID, "worker_id_out_of_range")
	}
	s.workerID = workerID

	if raw, ok := props[PropMaxTolerateTimeDifferenceMillis]; ok {
		tolerate, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || tolerate < 0 {
			return xerrors.WithCode(ErrInvalidProperties, "max_tolerate_time_difference_not_valid")
		}
		s.maxTolerateMillis = tolerate
	}
	return nil
}

// GenerateKey 生成下一个键
//
// 时钟回拨处理：回拨 ≤ 容忍度时阻塞等待时钟追上；超过容忍度返回
// ErrClockBackwards，仅当次调用失败，生成器状态不变，时钟恢复后
// 下一次调用可以成功。
func (s *Snowflake) GenerateKey() (algorithm.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now < s.lastMillis {
		drift := s.lastMillis - now
		if drift > s.maxTolerateMillis {
			return nil, xerrors.Wrapf(ErrClockBackwards,
				"drift %dms exceeds tolerance %dms", drift, s.maxTolerateMillis)
		}
		// 有界等待：容忍范围内等时钟追上 lastMillis
		time.Sleep(time.Duration(drift+1) * time.Millisecond)
		now = s.now()
		if now < s.lastMillis {
			return nil, xerrors.Wrapf(ErrClockBackwards,
				"clock still behind after waiting %dms", drift+1)
		}
	}

	if now == s.lastMillis {
		s.sequence = (s.sequence + 1) & sequenceMask
		if s.sequence == 0 {
			// 序列号溢出，自旋到下一毫秒
			for now <= s.lastMillis {
				now = s.now()
			}
		}
	} else {
		s.sequence = 0
	}
	s.lastMillis = now

	id := ((now - epochMillis) << timestampShift) |
		(s.workerID << workerIDShift) |
		s.sequence
	return id, nil
}
