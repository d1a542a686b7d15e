package clog

import "fmt"

// Config 日志配置
type Config struct {
	// Level 日志级别: "debug" | "info" | "warn" | "error"
	Level string `yaml:"level" json:"level"`

	// Format 输出格式: "console" | "json"
	Format string `yaml:"format" json:"format"`

	// Output 输出目标: "stdout" | "stderr"
	Output string `yaml:"output" json:"output"`

	// AddSource 是否记录调用位置
	AddSource bool `yaml:"add_source" json:"add_source"`
}

func (c *Config) setDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
}

func (c *Config) validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Level)
	}
	switch c.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %s", c.Format)
	}
	switch c.Output {
	case "stdout", "stderr":
	default:
		return fmt.Errorf("invalid log output: %s", c.Output)
	}
	return nil
}

func (c *Config) slogLevel() Level {
	switch c.Level {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}
