package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAddr, EnvCamera, EnvDataDir, EnvPluginDir} {
		t.Setenv(k, "")
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Render.FPS != 60 || cfg.Stream.FPS != 15 || !cfg.Enabled {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if filepath.Base(cfg.DBPath()) != "mudra.db" {
		t.Errorf("DBPath() = %q", cfg.DBPath())
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "mudra.yaml", `
addr: ":9090"
data_dir: /tmp/mudra-test
capture:
  camera: 1
  idle_timeout: 3s
render:
  fps: 30
hook_timeout: 750ms
hooks:
  onLock:
    - run: keyboard:keystroke
      config:
        key: l
        modifiers: [command]
  onComet:
    - run: notify:send
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr != ":9090" || cfg.DataDir != "/tmp/mudra-test" || cfg.Capture.Camera != 1 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Capture.IdleTimeout != 3*time.Second || cfg.HookTimeout != 750*time.Millisecond {
		t.Errorf("durations = %v / %v", cfg.Capture.IdleTimeout, cfg.HookTimeout)
	}
	if cfg.Render.FPS != 30 || cfg.Stream.FPS != 15 || cfg.Capture.ActiveFPS != 15 {
		t.Errorf("unset fields should keep defaults: %+v", cfg)
	}

	bindings, err := cfg.Bindings()
	if err != nil {
		t.Fatalf("Bindings() error = %v", err)
	}
	lock := bindings[gesture.ActionLock]
	if len(lock) != 1 || lock[0].Plugin != "keyboard" || lock[0].Command != "keystroke" {
		t.Fatalf("onLock bindings = %+v", lock)
	}
	if !strings.Contains(string(lock[0].Config), `"key":"l"`) {
		t.Errorf("hook config = %s", lock[0].Config)
	}
	if comet := bindings[gesture.ActionComet]; len(comet) != 1 || comet[0].Config != nil {
		t.Errorf("onComet bindings = %+v", comet)
	}
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Addr != Default().Addr {
		t.Errorf("Addr = %q", cfg.Addr)
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		content string
		wantSub string
	}{
		{"bad yaml", "addr: [", "parse config"},
		{"zero render fps", "render:\n  fps: 0\n", "render.fps"},
		{"empty addr", "addr: \"\"\n", "addr is empty"},
		{"unknown action", "hooks:\n  onDance:\n    - run: a:b\n", "unknown action"},
		{"continuous action", "hooks:\n  onZoom:\n    - run: a:b\n", "every frame"},
		{"bad binding", "hooks:\n  onLock:\n    - run: nocolon\n", "plugin:command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "c.yaml", tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.wantSub)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAddr, ":7000")
	t.Setenv(EnvCamera, "2")
	t.Setenv(EnvDataDir, "/var/lib/mudra")
	t.Setenv(EnvPluginDir, "/opt/mudra/plugins")

	cfg, err := Load(writeFile(t, "c.yaml", "addr: \":9090\"\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr != ":7000" || cfg.Capture.Camera != 2 || cfg.DataDir != "/var/lib/mudra" || cfg.PluginDir != "/opt/mudra/plugins" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}

	t.Setenv(EnvCamera, "front")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), EnvCamera) {
		t.Errorf("non-numeric camera error = %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvAddr)
	os.Unsetenv(EnvPluginDir)
	t.Setenv(EnvDataDir, "/already/set")

	path := writeFile(t, ".env", EnvAddr+"=:6060\n"+EnvDataDir+"=/from/dotenv\n")
	missing := filepath.Join(t.TempDir(), "nope.env")
	if err := LoadDotEnv(missing, path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	t.Cleanup(func() { os.Unsetenv(EnvAddr) })

	if got := os.Getenv(EnvAddr); got != ":6060" {
		t.Errorf("%s = %q, want :6060", EnvAddr, got)
	}
	if got := os.Getenv(EnvDataDir); got != "/already/set" {
		t.Errorf("%s = %q; .env must not override the environment", EnvDataDir, got)
	}
}

func TestEnsureDirs(t *testing.T) {
	cfg := Default()
	cfg.DataDir = filepath.Join(t.TempDir(), "a", "b")
	if err := cfg.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error = %v", err)
	}
	if info, err := os.Stat(cfg.DataDir); err != nil || !info.IsDir() {
		t.Errorf("data dir not created: %v", err)
	}
}
