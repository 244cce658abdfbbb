package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{" warn ", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("Expected %q to parse as %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestNopBeforeInit(t *testing.T) {
	if Log == nil || Sugar == nil {
		t.Fatal("Expected usable loggers before Init")
	}
	Info("discarded", zap.Int("n", 1))
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wayfare.log")
	cfg := DefaultFileConfig(path)
	cfg.Compress = false
	if err := InitWithFileConfig("warn", cfg, false); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer func() {
		Log = zap.NewNop()
		Sugar = Log.Sugar()
	}()

	Info("below level")
	Warn("viewport resized", zap.Int("width", 640))
	Named("renderer").Error("render failed")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected log file, got %v", err)
	}
	out := string(data)
	if strings.Contains(out, "below level") {
		t.Error("Expected info entries to be filtered at warn level")
	}
	if !strings.Contains(out, "viewport resized") || !strings.Contains(out, `"width":640`) {
		t.Errorf("Expected warn entry with fields, got:\n%s", out)
	}
	if !strings.Contains(out, `"logger":"renderer"`) {
		t.Errorf("Expected named logger entry, got:\n%s", out)
	}
}
