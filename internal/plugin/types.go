// Package plugin runs external executables when discrete actions fire.
package plugin

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Manifest is a plugin's plugin.json.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Commands     []string        `json:"commands"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Supports reports whether the manifest lists command. An empty list accepts any.
func (m Manifest) Supports(command string) bool {
	if len(m.Commands) == 0 {
		return true
	}
	for _, c := range m.Commands {
		if c == command {
			return true
		}
	}
	return false
}

// Request is written to the plugin's stdin as JSON.
type Request struct {
	Command string          `json:"command"`
	Action  string          `json:"action"`
	Pose    string          `json:"pose"`
	X       float64         `json:"x,omitempty"`
	Y       float64         `json:"y,omitempty"`
	Config  json.RawMessage `json:"config,omitempty"`
}

// Response is read from the plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Binding names a plugin command, written "plugin:command".
type Binding struct {
	Plugin  string          `json:"plugin"`
	Command string          `json:"command"`
	Config  json.RawMessage `json:"config,omitempty"`
}

// ParseBinding parses "plugin:command".
func ParseBinding(s string) (Binding, error) {
	name, cmd, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || name == "" || cmd == "" {
		return Binding{}, fmt.Errorf("invalid hook binding %q: want plugin:command", s)
	}
	return Binding{Plugin: name, Command: cmd}, nil
}

func (b Binding) String() string {
	return b.Plugin + ":" + b.Command
}
