package clog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// TestNew 测试 Logger 创建
func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: false,
		},
		{
			name: "valid config",
			config: &Config{
				Level:  "info",
				Format: "console",
				Output: "stdout",
			},
			wantErr: false,
		},
		{
			name: "invalid level",
			config: &Config{
				Level: "invalid",
			},
			wantErr: true,
		},
		{
			name: "invalid format",
			config: &Config{
				Format: "invalid",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger on success")
			}
		})
	}
}

// TestLoggerLevels 测试日志级别过滤
func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := New(&Config{Level: "info", Format: "json"}, withWriter(&buf))

	logger.Debug("debug message") // 应被过滤
	logger.Info("info message")
	logger.Warn("warn message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(lines))
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Line is not valid JSON: %v", err)
	}
	if entry["level"] != "INFO" {
		t.Errorf("First line level = %v, want INFO", entry["level"])
	}
}

// TestLoggerSetLevel 测试动态调整日志级别
func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := New(&Config{Level: "info", Format: "json"}, withWriter(&buf))

	logger.Debug("before") // 过滤
	if err := logger.SetLevel(DebugLevel); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	logger.Debug("after") // 输出

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line, got %d", len(lines))
	}
}

// TestLoggerWith 测试预设字段与命名空间
func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := New(&Config{Level: "info", Format: "json"}, withWriter(&buf))

	child := logger.With(String("component", "lifecycle")).WithNamespace("rule", "sharding")
	child.Info("rule created")

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if entry["component"] != "lifecycle" {
		t.Errorf("component = %v", entry["component"])
	}
	if entry["namespace"] != "rule.sharding" {
		t.Errorf("namespace = %v", entry["namespace"])
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Info("dropped")
	if logger.With(String("k", "v")) == nil {
		t.Error("Discard().With returned nil")
	}
}
