package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/mudra/internal/config"
)

func TestParseFlags_OnlyOverridesGivenFlags(t *testing.T) {
	fs := flag.NewFlagSet("mudra", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f, set, err := parseFlags(fs, []string{"-addr", ":9999", "-demo"})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}

	cfg := config.Default()
	cfg.Capture.Camera = 3
	f.apply(&cfg, set)

	if cfg.Addr != ":9999" || !cfg.Demo {
		t.Errorf("flags not applied: addr=%q demo=%v", cfg.Addr, cfg.Demo)
	}
	if cfg.Capture.Camera != 3 {
		t.Errorf("unset -camera overrode the config: %d", cfg.Capture.Camera)
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	fs := flag.NewFlagSet("mudra", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, _, err := parseFlags(fs, []string{"-camera", "front"}); err == nil {
		t.Error("parseFlags() should reject a non-numeric camera")
	}
}

func TestFindWebDir(t *testing.T) {
	dataDir := t.TempDir()
	if got := findWebDir(dataDir); got != "" && filepath.Base(got) != "web" {
		t.Errorf("findWebDir() = %q", got)
	}

	web := filepath.Join(dataDir, "web")
	if err := os.Mkdir(web, 0755); err != nil {
		t.Fatal(err)
	}
	if got := findWebDir(dataDir); got == "" {
		t.Error("findWebDir() missed dataDir/web")
	}
}

func TestOpenSource_Demo(t *testing.T) {
	cfg := config.Default()
	cfg.Demo = true
	src, err := openSource(cfg)
	if err != nil {
		t.Fatalf("openSource() error = %v", err)
	}
	defer src.Close()
	if src.name != "demo" || src.landmarks == nil || src.preview != nil {
		t.Errorf("demo source = %+v", src)
	}
}
