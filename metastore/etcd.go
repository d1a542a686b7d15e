package metastore

import (
	"context"
	"fmt"
	"strings"

	clientv3 "go.etcd.io/etcd/client/v3"
	"gopkg.in/yaml.v3"

	"github.com/ceyewan/shardmeta/clog"
	"github.com/ceyewan/shardmeta/rule"
	"github.com/ceyewan/shardmeta/xerrors"
)

// EtcdConfig Etcd 存储配置
type EtcdConfig struct {
	// Namespace 键前缀，默认 "/shardmeta/rules"
	Namespace string `yaml:"namespace" json:"namespace"`
}

func (c *EtcdConfig) setDefaults() {
	if c.Namespace == "" {
		c.Namespace = "/shardmeta/rules"
	}
}

func (c *EtcdConfig) validate() error {
	if !strings.HasPrefix(c.Namespace, "/") {
		return xerrors.WithCode(xerrors.ErrInvalidInput, "namespace_must_be_absolute")
	}
	return nil
}

// EtcdStore 基于 Etcd 的规则存储
//
// 存储结构：<namespace>/<schema> -> YAML(SchemaRuleSet)。
// 单键 Put 即整体替换快照，写入原子性由 Etcd 保证。
//
// 借用模型：EtcdStore 借用外部注入的客户端，不负责其生命周期。
type EtcdStore struct {
	client *clientv3.Client
	cfg    *EtcdConfig
	logger clog.Logger
}

// Option Etcd 存储初始化选项
type Option func(*EtcdStore)

// WithLogger 设置 Logger
func WithLogger(logger clog.Logger) Option {
	return func(s *EtcdStore) {
		s.logger = logger
	}
}

// NewEtcdStore 创建 Etcd 存储
//
// 使用示例：
//
//	store, _ := metastore.NewEtcdStore(etcdClient, &metastore.EtcdConfig{
//	    Namespace: "/shardmeta/rules",
//	}, metastore.WithLogger(logger))
func NewEtcdStore(client *clientv3.Client, cfg *EtcdConfig, opts ...Option) (*EtcdStore, error) {
	if client == nil {
		return nil, xerrors.New("metastore: etcd client is required")
	}
	if cfg == nil {
		cfg = &EtcdConfig{}
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &EtcdStore{
		client: client,
		cfg:    cfg,
		logger: clog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(clog.String("component", "metastore"))
	return s, nil
}

func (s *EtcdStore) key(schemaName string) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(s.cfg.Namespace, "/"), schemaName)
}

// GetRuleConfigurations 实现 Store
func (s *EtcdStore) GetRuleConfigurations(ctx context.Context, schemaName string) (*rule.SchemaRuleSet, error) {
	resp, err := s.client.Get(ctx, s.key(schemaName))
	if err != nil {
		return nil, xerrors.Wrapf(err, "get rule configurations for schema %s", schemaName)
	}
	if len(resp.Kvs) == 0 {
		return rule.NewSchemaRuleSet(), nil
	}

	ruleSet := rule.NewSchemaRuleSet()
	if err := yaml.Unmarshal(resp.Kvs[0].Value, ruleSet); err != nil {
		return nil, xerrors.Wrapf(err, "decode rule configurations for schema %s", schemaName)
	}
	return ruleSet, nil
}

// SetRuleConfigurations 实现 Store
func (s *EtcdStore) SetRuleConfigurations(ctx context.Context, schemaName string, ruleSet *rule.SchemaRuleSet) error {
	data, err := yaml.Marshal(ruleSet)
	if err != nil {
		return xerrors.Wrapf(err, "encode rule configurations for schema %s", schemaName)
	}
	if _, err := s.client.Put(ctx, s.key(schemaName), string(data)); err != nil {
		return xerrors.Wrapf(err, "put rule configurations for schema %s", schemaName)
	}
	s.logger.Debug("rule configurations published",
		clog.String("schema", schemaName),
		clog.Int("bytes", len(data)),
	)
	return nil
}

var _ Store = (*EtcdStore)(nil)
