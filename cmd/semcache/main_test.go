package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/pario-ai/semcache/pkg/store"
)

func clearRedisEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"REDIS_HOST", "REDIS_PORT", "REDIS_USERNAME", "REDIS_PASSWORD", "REDIS_DB", "REDIS_TLS"} {
		t.Setenv(k, "")
	}
}

// writeTestConfig points the store at addr and keeps history in a temp dir.
func writeTestConfig(t *testing.T, host, port string) string {
	t.Helper()
	dir := t.TempDir()
	content := fmt.Sprintf(`
store:
  host: %s
  port: %s
  dial_timeout: 1s
history:
  enabled: true
  db_path: %s
`, host, port, filepath.Join(dir, "history.db"))
	path := filepath.Join(dir, "semcache.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestInspectEmptyStore(t *testing.T) {
	clearRedisEnv(t)
	mr := miniredis.RunT(t)
	cfg := writeTestConfig(t, mr.Host(), mr.Port())

	out, err := execute(t, "inspect", "-c", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cache is empty - no entries found") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestClearAndHistory(t *testing.T) {
	clearRedisEnv(t)
	mr := miniredis.RunT(t)
	for _, k := range []string{"a", "b", "c"} {
		_ = mr.Set(k, "v")
	}
	cfg := writeTestConfig(t, mr.Host(), mr.Port())

	out, err := execute(t, "clear", "-c", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Deleted 3 keys from cache") || !strings.Contains(out, "Cache successfully cleared") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if len(mr.Keys()) != 0 {
		t.Errorf("expected empty store, got %v", mr.Keys())
	}

	out, err = execute(t, "history", "-c", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "COMMAND") || !strings.Contains(out, "clear") {
		t.Errorf("expected clear run in history, got:\n%s", out)
	}

	out, err = execute(t, "history", "prune", "--older-than", "1ns", "-c", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Pruned 1 runs.") {
		t.Errorf("unexpected prune output:\n%s", out)
	}
}

func TestClearEmptyStore(t *testing.T) {
	clearRedisEnv(t)
	mr := miniredis.RunT(t)
	cfg := writeTestConfig(t, mr.Host(), mr.Port())

	out, err := execute(t, "clear", "-c", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cache was already empty") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestInspectWithoutHistoryWritesNothing(t *testing.T) {
	clearRedisEnv(t)
	mr := miniredis.RunT(t)
	mr.HSet("sc:1", "Vector", "\x00\x00\x80\x3f")

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "history.db")
	cfg := filepath.Join(dir, "semcache.yaml")
	content := fmt.Sprintf("store:\n  host: %s\n  port: %s\nhistory:\n  db_path: %s\n", mr.Host(), mr.Port(), dbPath)
	if err := os.WriteFile(cfg, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "inspect", "-c", cfg); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Errorf("expected no history db when history is not enabled, got %v", err)
	}
	if _, err := execute(t, "history", "-c", cfg); err == nil {
		t.Error("expected history command to fail when history is disabled")
	}
}

func TestConnectionFailure(t *testing.T) {
	clearRedisEnv(t)
	mr := miniredis.RunT(t)
	cfg := writeTestConfig(t, mr.Host(), mr.Port())
	mr.Close()

	_, err := execute(t, "inspect", "-c", cfg)
	if !errors.Is(err, store.ErrConnect) {
		t.Errorf("expected ErrConnect, got %v", err)
	}
}

func TestUnknownLogLevel(t *testing.T) {
	clearRedisEnv(t)
	mr := miniredis.RunT(t)
	cfg := writeTestConfig(t, mr.Host(), mr.Port())

	if _, err := execute(t, "inspect", "-c", cfg, "--log-level", "loud"); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "info")
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected log output: %s", buf.String())
	}
}
