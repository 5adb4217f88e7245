// Package config loads mudra's settings from YAML, .env files and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
)

// Environment variables that override the file.
const (
	EnvAddr      = "MUDRA_ADDR"
	EnvCamera    = "MUDRA_CAMERA"
	EnvDataDir   = "MUDRA_DATA_DIR"
	EnvPluginDir = "MUDRA_PLUGIN_DIR"
)

// Config is the full application configuration.
type Config struct {
	Addr      string `yaml:"addr"`
	DataDir   string `yaml:"data_dir"`
	PluginDir string `yaml:"plugin_dir"`
	StaticDir string `yaml:"static_dir"`
	Demo      bool   `yaml:"demo"`
	Tray      bool   `yaml:"tray"`
	// Enabled is the gesture state at startup when nothing is persisted.
	Enabled bool `yaml:"enabled"`

	Capture  CaptureConfig  `yaml:"capture"`
	Detector DetectorConfig `yaml:"detector"`
	Render   RenderConfig   `yaml:"render"`
	Stream   StreamConfig   `yaml:"stream"`

	HookTimeout time.Duration           `yaml:"hook_timeout"`
	Hooks       map[string][]HookConfig `yaml:"hooks"`
}

// CaptureConfig configures the camera.
type CaptureConfig struct {
	Camera          int           `yaml:"camera"`
	IdleFPS         int           `yaml:"idle_fps"`
	ActiveFPS       int           `yaml:"active_fps"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	MotionThreshold float64       `yaml:"motion_threshold"`
}

// DetectorConfig configures the MediaPipe subprocess.
type DetectorConfig struct {
	ScriptPath     string  `yaml:"script_path"`
	MinDetection   float64 `yaml:"min_detection"`
	MinTracking    float64 `yaml:"min_tracking"`
	FallbackToMock bool    `yaml:"fallback_to_mock"`
}

// RenderConfig configures the scene update loop.
type RenderConfig struct {
	FPS int `yaml:"fps"`
}

// StreamConfig configures the state WebSocket and MJPEG preview.
type StreamConfig struct {
	FPS int `yaml:"fps"`
}

// HookConfig binds one plugin command to an action.
type HookConfig struct {
	Run    string         `yaml:"run"`
	Config map[string]any `yaml:"config"`
}

// Default returns the built-in configuration. Paths live under ~/.mudra.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".mudra")
	return Config{
		Addr:      "127.0.0.1:8080",
		DataDir:   base,
		PluginDir: filepath.Join(base, "plugins"),
		Enabled:   true,
		Capture: CaptureConfig{
			IdleFPS:         5,
			ActiveFPS:       15,
			IdleTimeout:     2 * time.Second,
			MotionThreshold: 1.0,
		},
		Detector: DetectorConfig{
			MinDetection:   0.5,
			MinTracking:    0.5,
			FallbackToMock: true,
		},
		Render:      RenderConfig{FPS: 60},
		Stream:      StreamConfig{FPS: 15},
		HookTimeout: 5 * time.Second,
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadDotEnv loads the given .env files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from MUDRA_* variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(EnvCamera); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCamera, err)
		}
		c.Capture.Camera = id
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvPluginDir); v != "" {
		c.PluginDir = v
	}
	return nil
}

// Validate rejects settings the runtime cannot work with.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is empty"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir is empty"))
	}
	if c.Capture.Camera < 0 {
		errs = append(errs, fmt.Errorf("capture.camera %d is negative", c.Capture.Camera))
	}
	for name, v := range map[string]int{
		"capture.idle_fps":   c.Capture.IdleFPS,
		"capture.active_fps": c.Capture.ActiveFPS,
		"render.fps":         c.Render.FPS,
		"stream.fps":         c.Stream.FPS,
	} {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, v))
		}
	}
	if c.HookTimeout <= 0 {
		errs = append(errs, errors.New("hook_timeout must be positive"))
	}
	if _, err := c.Bindings(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Bindings parses the hooks section. Continuous actions cannot carry hooks.
func (c Config) Bindings() (map[gesture.Action][]plugin.Binding, error) {
	out := make(map[gesture.Action][]plugin.Binding, len(c.Hooks))
	for name, hooks := range c.Hooks {
		action, err := gesture.ParseAction(name)
		if err != nil {
			return nil, fmt.Errorf("hooks: %w", err)
		}
		if action.Continuous() {
			return nil, fmt.Errorf("hooks: %s fires every frame and cannot run plugins", action)
		}
		for _, h := range hooks {
			b, err := plugin.ParseBinding(h.Run)
			if err != nil {
				return nil, fmt.Errorf("hooks.%s: %w", name, err)
			}
			if len(h.Config) > 0 {
				b.Config, err = json.Marshal(h.Config)
				if err != nil {
					return nil, fmt.Errorf("hooks.%s: %w", name, err)
				}
			}
			out[action] = append(out[action], b)
		}
	}
	return out, nil
}

// DBPath returns the SQLite path under DataDir.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "mudra.db")
}

// EnsureDirs creates DataDir.
func (c Config) EnsureDirs() error {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}
