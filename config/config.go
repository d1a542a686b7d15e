// Package config 提供启动引导配置：逻辑 schema 的资源池与普通表、
// 元数据存储地址与日志配置。
//
// 配置优先级：环境变量 > .env 文件 > 配置文件。
package config

import (
	"time"

	"github.com/ceyewan/shardmeta/clog"
	"github.com/ceyewan/shardmeta/xerrors"
)

// SchemaConfig 单个逻辑 schema 的静态元数据
type SchemaConfig struct {
	// Name 逻辑 schema 名
	Name string `mapstructure:"name" yaml:"name"`

	// DataSources 资源池中的数据源名
	DataSources []string `mapstructure:"data_sources" yaml:"data_sources"`

	// Tables 未分片的普通表名
	Tables []string `mapstructure:"tables" yaml:"tables,omitempty"`
}

// EtcdConfig 元数据存储连接配置
type EtcdConfig struct {
	// Endpoints etcd 集群地址；为空时使用内存存储
	Endpoints []string `mapstructure:"endpoints" yaml:"endpoints,omitempty"`

	// Namespace 规则快照的 key 前缀
	Namespace string `mapstructure:"namespace" yaml:"namespace,omitempty"`

	// DialTimeout 建连超时
	DialTimeout time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout,omitempty"`
}

// Bootstrap 启动引导配置
type Bootstrap struct {
	Schemas []SchemaConfig `mapstructure:"schemas" yaml:"schemas"`
	Etcd    EtcdConfig     `mapstructure:"etcd" yaml:"etcd,omitempty"`
	Logging clog.Config    `mapstructure:"logging" yaml:"logging,omitempty"`
}

func (b *Bootstrap) setDefaults() {
	if b.Etcd.Namespace == "" {
		b.Etcd.Namespace = "/shardmeta/rules"
	}
	if b.Etcd.DialTimeout <= 0 {
		b.Etcd.DialTimeout = 5 * time.Second
	}
	if b.Logging.Level == "" {
		b.Logging.Level = "info"
	}
	if b.Logging.Format == "" {
		b.Logging.Format = "console"
	}
	if b.Logging.Output == "" {
		b.Logging.Output = "stdout"
	}
}

func (b *Bootstrap) validate() error {
	seen := make(map[string]struct{}, len(b.Schemas))
	for _, s := range b.Schemas {
		if s.Name == "" {
			return xerrors.Wrap(ErrValidationFailed, "schema name is empty")
		}
		if _, dup := seen[s.Name]; dup {
			return xerrors.Wrapf(ErrValidationFailed, "duplicate schema %s", s.Name)
		}
		seen[s.Name] = struct{}{}
		if len(s.DataSources) == 0 {
			return xerrors.Wrapf(ErrValidationFailed, "schema %s has no data sources", s.Name)
		}
	}
	return nil
}

// schema 按名查找，找不到返回 nil
func (b *Bootstrap) schema(name string) *SchemaConfig {
	for i := range b.Schemas {
		if b.Schemas[i].Name == name {
			return &b.Schemas[i]
		}
	}
	return nil
}

// Resources 返回 schema 资源池中的数据源名
//
// 与 PlainTables 一起实现 lifecycle.MetadataProvider。
func (b *Bootstrap) Resources(schemaName string) []string {
	if s := b.schema(schemaName); s != nil {
		return s.DataSources
	}
	return nil
}

// PlainTables 返回 schema 中的普通表名
func (b *Bootstrap) PlainTables(schemaName string) []string {
	if s := b.schema(schemaName); s != nil {
		return s.Tables
	}
	return nil
}
