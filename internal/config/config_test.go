package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"devdesk/internal/board"
)

const fullYAML = `
server:
  addr: 127.0.0.1:9090
  static_dir: web/dist
database:
  path: /var/lib/devdesk/devdesk.db
log:
  level: debug
board:
  dismiss_policy: abort
ai:
  api_key: sk-test
  base_url: http://localhost:11434/v1
  model: llama3
  timeout: 15s
`

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" || cfg.Server.StaticDir != "web/dist" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Database.Path != "/var/lib/devdesk/devdesk.db" {
		t.Errorf("database.path = %q", cfg.Database.Path)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("level = %v, want debug", cfg.SlogLevel())
	}
	if cfg.DismissPolicy() != board.DismissAbort {
		t.Errorf("dismiss policy = %q, want abort", cfg.DismissPolicy())
	}
	if cfg.AI.APIKey != "sk-test" || cfg.AI.Model != "llama3" || cfg.AI.Timeout != 15*time.Second {
		t.Errorf("ai = %+v", cfg.AI)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Database.Path != "data/devdesk.db" {
		t.Errorf("db path = %q", cfg.Database.Path)
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("level = %v, want info", cfg.SlogLevel())
	}
	if cfg.DismissPolicy() != board.DismissSkip {
		t.Errorf("dismiss policy = %q, want skip", cfg.DismissPolicy())
	}
	if cfg.AI.APIKey != "" || cfg.AI.Model != "gpt-4o-mini" || cfg.AI.Timeout != time.Minute {
		t.Errorf("ai = %+v", cfg.AI)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	_, err := Parse([]byte("log:\n  level: loud\nboard:\n  dismiss_policy: later\n"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"log.level", "board.dismiss_policy"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err.Error(), want)
		}
	}
}

func TestParse_BadYAML(t *testing.T) {
	if _, err := Parse([]byte("server: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "devdesk.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: :7000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}

	missing := filepath.Join(dir, "missing.yaml")
	if _, err := Load(missing, false); err == nil {
		t.Error("required missing file should fail")
	}
	cfg, err = Load(missing, true)
	if err != nil || cfg.Server.Addr != ":8080" {
		t.Errorf("optional missing file: cfg=%+v err=%v", cfg, err)
	}
}
