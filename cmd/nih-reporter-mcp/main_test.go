package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/nih-reporter-mcp/pkg/types"
)

// --- logger construction ---

func TestBuildLoggerDefaultsToInfo(t *testing.T) {
	logger, err := buildLogger(types.LogConfig{})
	if err != nil {
		t.Fatalf("buildLogger: %v", err)
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be enabled by default")
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled by default")
	}
}

func TestBuildLoggerParsesLevel(t *testing.T) {
	logger, err := buildLogger(types.LogConfig{Level: "debug"})
	if err != nil {
		t.Fatalf("buildLogger: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should enable debug output")
	}
}

func TestBuildLoggerRejectsBadLevel(t *testing.T) {
	_, err := buildLogger(types.LogConfig{Level: "verbose"})
	if err == nil {
		t.Fatal("expected an error for an unknown level")
	}
	if !strings.Contains(err.Error(), "verbose") {
		t.Errorf("error should name the bad level, got %v", err)
	}
}

func TestBuildLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	logger, err := buildLogger(types.LogConfig{Level: "info", File: path})
	if err != nil {
		t.Fatalf("buildLogger: %v", err)
	}
	logger.Info("starting up")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "starting up") {
		t.Errorf("log file missing entry: %q", data)
	}
}
