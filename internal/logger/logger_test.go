// SPDX-License-Identifier: EPL-2.0

package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ik5/audpractice/internal/config"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestNewConsoleJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, closeFn, err := New(config.Log{Level: "info"}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	log.Debug("hidden")
	log.Info("loaded", zap.String("track", "solo"))
	if err := closeFn(); err != nil {
		t.Fatalf("close error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	for key, want := range map[string]any{"level": "info", "msg": "loaded", "track": "solo"} {
		if entry[key] != want {
			t.Errorf("%s = %v, want %v", key, entry[key], want)
		}
	}
	for _, key := range []string{"timestamp", "caller"} {
		if _, ok := entry[key]; !ok {
			t.Errorf("missing %s", key)
		}
	}
}

func TestNewRotatingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "audpractice.log")
	log, closeFn, err := New(config.Log{Level: "debug", File: path, MaxSizeMB: 1}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	log.Debug("tick")
	if err := closeFn(); err != nil {
		t.Fatalf("close error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"tick"`) {
		t.Errorf("log file = %q, want the tick entry", data)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	t.Parallel()

	if _, _, err := New(config.Log{Level: "shout"}, os.Stderr); err == nil {
		t.Error("New() error = nil, want invalid level")
	}
}
