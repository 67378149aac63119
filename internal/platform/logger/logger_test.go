package logger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func readLog(t *testing.T, path string) string {
	t.Helper()

	// Give some time for file writes
	time.Sleep(100 * time.Millisecond)

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func closeLogger(t *testing.T, logger *slog.Logger) {
	t.Helper()
	if err := Close(logger); err != nil {
		t.Errorf("Error closing logger: %v", err)
	}
}

func TestNew_DualOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")
	var console bytes.Buffer

	logger := New(Options{
		Env:          "prod",
		ConsoleLevel: "info",
		FileLevel:    "debug",
		File:         logFile,
		App:          "test-app",
		Console:      &console,
	})
	defer closeLogger(t, logger)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")

	fileContent := readLog(t, logFile)

	// File should contain all messages (debug level includes all)
	for _, msg := range []string{"debug message", "info message", "warn message"} {
		if !strings.Contains(fileContent, msg) {
			t.Errorf("File should contain %q", msg)
		}
	}
	if !strings.Contains(fileContent, `"level":"DEBUG"`) {
		t.Error("File should contain JSON formatted debug level")
	}
	if !strings.Contains(fileContent, `"app":"test-app"`) {
		t.Error("File should contain app field")
	}

	consoleContent := console.String()
	if strings.Contains(consoleContent, "debug message") {
		t.Error("Console should not contain debug message at info level")
	}
	if !strings.Contains(consoleContent, "info message") {
		t.Error("Console should contain info message")
	}
}

func TestNew_DefaultLevels(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "default.log")

	logger := New(Options{
		Env:     "prod",
		File:    logFile,
		App:     "test-app",
		Console: io.Discard,
	})
	defer closeLogger(t, logger)

	logger.Debug("debug message")

	if !strings.Contains(readLog(t, logFile), "debug message") {
		t.Error("Default file level should include debug messages")
	}
}

func TestNew_ConsoleOnly(t *testing.T) {
	var console bytes.Buffer

	logger := New(Options{
		Env:          "dev",
		ConsoleLevel: "warn",
		App:          "test-app",
		Console:      &console,
	})
	defer closeLogger(t, logger)

	logger.Info("hidden")
	logger.Warn("console only message")

	if strings.Contains(console.String(), "hidden") {
		t.Error("Console should drop info at warn level")
	}
	if !strings.Contains(console.String(), "console only message") {
		t.Error("Console should contain warn message")
	}
}

func TestClose_Idempotent(t *testing.T) {
	logger := New(Options{File: filepath.Join(t.TempDir(), "c.log"), Console: io.Discard})

	if err := Close(logger); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := Close(logger); err != nil {
		t.Fatalf("second Close should be a no-op: %v", err)
	}
}

func TestLevelFromString(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelWarn,
		"trace": slog.LevelWarn,
	}
	for in, want := range tests {
		if got := levelFromString(in, slog.LevelWarn); got != want {
			t.Errorf("levelFromString(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRedactingHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewRedactingHandler(slog.NewJSONHandler(&buf, nil), []string{"token", "Secret"}))

	logger.Info("api call",
		slog.String("token", "sk-1234567890abcdef"),
		slog.String("user", "john"),
		slog.Group("auth", slog.String("secret", "hunter2")),
	)
	logger.With(slog.String("token", "abc")).Info("scoped")

	out := buf.String()
	if strings.Contains(out, "sk-1234567890abcdef") || strings.Contains(out, "hunter2") || strings.Contains(out, `"abc"`) {
		t.Errorf("Sensitive values should be redacted: %s", out)
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Error("Should contain redacted placeholder")
	}
	if !strings.Contains(out, "john") {
		t.Error("Non-sensitive data should not be redacted")
	}
}

func TestMultiHandler(t *testing.T) {
	var infoBuf, warnBuf bytes.Buffer
	h1 := slog.NewTextHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo})
	h2 := slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn})

	multi := NewMultiHandler(h1, h2)
	ctx := context.Background()

	if !multi.Enabled(ctx, slog.LevelInfo) {
		t.Error("Should be enabled for info level")
	}
	if multi.Enabled(ctx, slog.LevelDebug) {
		t.Error("Should not be enabled for debug level")
	}

	if err := multi.Handle(ctx, slog.NewRecord(time.Now(), slog.LevelInfo, "info record", 0)); err != nil {
		t.Errorf("Handle should not return error: %v", err)
	}
	if err := multi.Handle(ctx, slog.NewRecord(time.Now(), slog.LevelWarn, "warn record", 0)); err != nil {
		t.Errorf("Handle should not return error: %v", err)
	}

	if !strings.Contains(infoBuf.String(), "info record") || !strings.Contains(infoBuf.String(), "warn record") {
		t.Errorf("info handler got %q", infoBuf.String())
	}
	if strings.Contains(warnBuf.String(), "info record") || !strings.Contains(warnBuf.String(), "warn record") {
		t.Errorf("warn handler got %q", warnBuf.String())
	}

	grouped := multi.WithGroup("req").WithAttrs([]slog.Attr{slog.String("id", "7")})
	if err := grouped.Handle(ctx, slog.NewRecord(time.Now(), slog.LevelWarn, "grouped", 0)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(warnBuf.String(), "req.id=7") {
		t.Errorf("WithGroup/WithAttrs not propagated: %q", warnBuf.String())
	}
}
