package config

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ceyewan/shardmeta/clog"
	"github.com/ceyewan/shardmeta/xerrors"
)

// ErrValidationFailed 配置校验失败
var ErrValidationFailed = xerrors.New("config: validation failed")

// Options 加载器选项
type Options struct {
	// Name 配置文件名（不含扩展名）
	Name string

	// Paths 配置文件搜索路径
	Paths []string

	// FileType 配置文件类型
	FileType string

	// EnvPrefix 环境变量前缀
	EnvPrefix string

	logger clog.Logger
}

func defaultOptions() *Options {
	return &Options{
		Name:      "shardmeta",
		Paths:     []string{".", "./config"},
		FileType:  "yaml",
		EnvPrefix: "SHARDMETA",
		logger:    clog.Default(),
	}
}

// Option 加载器选项设置
type Option func(*Options)

// WithConfigName 设置配置文件名（不含扩展名）
func WithConfigName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// WithConfigPaths 设置配置文件搜索路径
func WithConfigPaths(paths ...string) Option {
	return func(o *Options) {
		o.Paths = paths
	}
}

// WithEnvPrefix 设置环境变量前缀
func WithEnvPrefix(prefix string) Option {
	return func(o *Options) {
		o.EnvPrefix = prefix
	}
}

// WithLogger 设置 Logger
func WithLogger(logger clog.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

// Loader 引导配置加载器
//
// 基于 viper 读取配置文件，叠加 .env 与环境变量，
// 并通过 fsnotify 监听文件变化、向订阅者推送新快照。
type Loader struct {
	v      *viper.Viper
	opts   *Options
	logger clog.Logger

	mu      sync.RWMutex
	current *Bootstrap
	subs    []chan *Bootstrap
}

// NewLoader 创建加载器
func NewLoader(opts ...Option) *Loader {
	options := defaultOptions()
	for _, o := range opts {
		o(options)
	}
	return &Loader{
		v:      viper.New(),
		opts:   options,
		logger: options.logger.With(clog.String("component", "config")),
	}
}

// Load 加载并校验引导配置，随后开始监听文件变化
func (l *Loader) Load() (*Bootstrap, error) {
	l.v.SetConfigName(l.opts.Name)
	l.v.SetConfigType(l.opts.FileType)
	for _, path := range l.opts.Paths {
		l.v.AddConfigPath(path)
	}

	// 环境变量优先级最高
	l.v.SetEnvPrefix(l.opts.EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	l.loadDotEnv()

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, xerrors.Wrapf(err, "read config file %s", l.opts.Name)
		}
		l.logger.Warn("no configuration file found, using defaults",
			clog.String("name", l.opts.Name))
	}

	bootstrap, err := l.unmarshal()
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.current = bootstrap
	l.mu.Unlock()

	l.v.OnConfigChange(func(e fsnotify.Event) {
		l.reload(e)
	})
	l.v.WatchConfig()

	return bootstrap, nil
}

// Current 返回最近一次成功加载的配置快照
func (l *Loader) Current() *Bootstrap {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Watch 订阅配置变化，每次成功重载推送一个新快照
func (l *Loader) Watch() <-chan *Bootstrap {
	ch := make(chan *Bootstrap, 1)
	l.mu.Lock()
	l.subs = append(l.subs, ch)
	l.mu.Unlock()
	return ch
}

// loadDotEnv 叠加工作目录与搜索路径下的 .env 文件
func (l *Loader) loadDotEnv() {
	_ = godotenv.Load()
	for _, path := range l.opts.Paths {
		_ = godotenv.Load(filepath.Join(path, ".env"))
	}
}

// unmarshal 反序列化、填默认值并校验
func (l *Loader) unmarshal() (*Bootstrap, error) {
	bootstrap := &Bootstrap{}
	if err := l.v.Unmarshal(bootstrap); err != nil {
		return nil, xerrors.Wrap(err, "unmarshal bootstrap config")
	}
	bootstrap.setDefaults()
	if err := bootstrap.validate(); err != nil {
		return nil, err
	}
	return bootstrap, nil
}

// reload 文件变化时重载；校验失败保留旧配置
func (l *Loader) reload(e fsnotify.Event) {
	bootstrap, err := l.unmarshal()
	if err != nil {
		l.logger.Warn("config reload rejected, keeping previous snapshot",
			clog.String("file", e.Name), clog.Err(err))
		return
	}

	l.mu.Lock()
	l.current = bootstrap
	subs := make([]chan *Bootstrap, len(l.subs))
	copy(subs, l.subs)
	l.mu.Unlock()

	l.logger.Info("config reloaded", clog.String("file", e.Name))
	for _, ch := range subs {
		select {
		case ch <- bootstrap:
		default:
		}
	}
}
