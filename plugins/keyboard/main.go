// Command keyboard is a mudra plugin that presses keys when an action fires.
// It uses AppleScript on macOS and xdotool elsewhere.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// request mirrors the JSON mudra writes to stdin.
type request struct {
	Command string          `json:"command"`
	Action  string          `json:"action"`
	Pose    string          `json:"pose"`
	Config  json.RawMessage `json:"config"`
}

type response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// keyConfig is the hook config for keystroke and shortcut.
type keyConfig struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"` // command, option, control, shift
}

var appleModifiers = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"option":  "option down",
	"alt":     "option down",
	"control": "control down",
	"ctrl":    "control down",
	"shift":   "shift down",
}

var xdotoolModifiers = map[string]string{
	"command": "super",
	"cmd":     "super",
	"option":  "alt",
	"alt":     "alt",
	"control": "ctrl",
	"ctrl":    "ctrl",
	"shift":   "shift",
}

func main() {
	json.NewEncoder(os.Stdout).Encode(handle(os.Stdin, runtime.GOOS, run))
}

// handle decodes one request and presses the configured key through press.
func handle(in io.Reader, goos string, press func(name string, args ...string) error) response {
	var req request
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return response{Error: fmt.Sprintf("decode request: %v", err)}
	}

	switch req.Command {
	case "keystroke", "shortcut":
	default:
		return response{Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}

	var cfg keyConfig
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			return response{Error: fmt.Sprintf("parse config: %v", err)}
		}
	}
	if cfg.Key == "" {
		return response{Error: "config.key is required"}
	}

	name, args := keyCommand(goos, cfg)
	if err := press(name, args...); err != nil {
		return response{Error: fmt.Sprintf("%s for %s failed: %v", req.Command, req.Action, err)}
	}
	return response{Success: true}
}

// keyCommand builds the OS command that presses cfg.Key with its modifiers.
// Unknown modifiers are ignored.
func keyCommand(goos string, cfg keyConfig) (string, []string) {
	if goos == "darwin" {
		return "osascript", []string{"-e", appleScript(cfg)}
	}

	combo := make([]string, 0, len(cfg.Modifiers)+1)
	for _, m := range cfg.Modifiers {
		if mod, ok := xdotoolModifiers[strings.ToLower(m)]; ok {
			combo = append(combo, mod)
		}
	}
	combo = append(combo, cfg.Key)
	return "xdotool", []string{"key", strings.Join(combo, "+")}
}

func appleScript(cfg keyConfig) string {
	var mods []string
	for _, m := range cfg.Modifiers {
		if mod, ok := appleModifiers[strings.ToLower(m)]; ok {
			mods = append(mods, mod)
		}
	}
	if len(mods) == 0 {
		return fmt.Sprintf(`tell application "System Events" to keystroke %q`, cfg.Key)
	}
	return fmt.Sprintf(`tell application "System Events" to keystroke %q using {%s}`, cfg.Key, strings.Join(mods, ", "))
}

func run(name string, args ...string) error {
	output, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		var notFound *exec.Error
		if errors.As(err, &notFound) {
			return fmt.Errorf("%s is not installed", name)
		}
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
