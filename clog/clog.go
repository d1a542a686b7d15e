package clog

import (
	"fmt"
	"io"
	"sync"
)

// Option 函数式选项
type Option func(*options)

type options struct {
	namespace []string
	writer    io.Writer
}

// WithNamespace 设置初始命名空间
func WithNamespace(parts ...string) Option {
	return func(o *options) {
		o.namespace = append(o.namespace, parts...)
	}
}

// withWriter 将输出重定向到指定 writer（测试用）
func withWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// New 创建一个新的 Logger 实例
//
// config - 日志配置，如果为 nil 会使用默认配置
// opts   - 函数式选项列表
func New(config *Config, opts ...Option) (Logger, error) {
	if config == nil {
		config = &Config{}
	}
	config.setDefaults()
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return newLogger(config, o), nil
}

var (
	defaultOnce   sync.Once
	defaultLogger Logger
)

// Default 返回进程级默认 Logger（console / info / stdout）
func Default() Logger {
	defaultOnce.Do(func() {
		defaultLogger, _ = New(nil)
	})
	return defaultLogger
}

// Discard 返回丢弃所有日志的 Logger，用于测试或显式静默
func Discard() Logger {
	return noopLogger{}
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...Field)       {}
func (noopLogger) Info(string, ...Field)        {}
func (noopLogger) Warn(string, ...Field)        {}
func (noopLogger) Error(string, ...Field)       {}
func (n noopLogger) With(...Field) Logger       { return n }
func (n noopLogger) WithNamespace(...string) Logger { return n }
func (noopLogger) SetLevel(Level) error         { return nil }
