package plugin

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, root string, m Manifest) string {
	t.Helper()
	dir := filepath.Join(root, m.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "plugin.json"), data, 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return dir
}

func TestManager_Discover(t *testing.T) {
	root := t.TempDir()
	dir := writeManifest(t, root, Manifest{
		Name:        "keyboard",
		Version:     "1.0.0",
		Description: "Sends keystrokes",
		Executable:  "keyboard",
		Commands:    []string{"keystroke", "shortcut"},
	})

	m := NewManager(root)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	plugins := m.List()
	if len(plugins) != 1 {
		t.Fatalf("List() = %d plugins, want 1", len(plugins))
	}
	p := plugins[0]
	if p.Manifest.Name != "keyboard" || p.Manifest.Version != "1.0.0" || len(p.Manifest.Commands) != 2 {
		t.Errorf("unexpected manifest %+v", p.Manifest)
	}
	if p.Path != dir || p.Executable != filepath.Join(dir, "keyboard") {
		t.Errorf("path = %q executable = %q", p.Path, p.Executable)
	}
}

func TestManager_Discover_SkipsBadEntries(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, Manifest{Name: "good", Executable: "run"})
	writeManifest(t, root, Manifest{Name: "noexec"})

	bad := filepath.Join(root, "bad")
	os.MkdirAll(bad, 0755)
	os.WriteFile(filepath.Join(bad, "plugin.json"), []byte("{not json"), 0644)
	os.MkdirAll(filepath.Join(root, "empty"), 0755)
	os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0644)

	m := NewManager(root)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if got := m.List(); len(got) != 1 || got[0].Manifest.Name != "good" {
		t.Errorf("List() = %+v, want only good", got)
	}
}

func TestManager_Discover_Rescan(t *testing.T) {
	root := t.TempDir()
	dir := writeManifest(t, root, Manifest{Name: "a", Executable: "run"})
	writeManifest(t, root, Manifest{Name: "b", Executable: "run"})

	m := NewManager(root)
	m.Discover()
	if len(m.List()) != 2 {
		t.Fatalf("expected 2 plugins")
	}

	os.RemoveAll(dir)
	m.Discover()
	if got := m.List(); len(got) != 1 || got[0].Manifest.Name != "b" {
		t.Errorf("after removal List() = %+v", got)
	}
}

func TestManager_Discover_NonExistentDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing"))
	if err := m.Discover(); err != nil {
		t.Errorf("Discover() on missing dir error = %v", err)
	}
	if len(m.List()) != 0 {
		t.Error("expected no plugins")
	}
	if m.PluginDir() == "" {
		t.Error("PluginDir() should echo the configured path")
	}
}

func TestManager_GetAndResolve(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, Manifest{Name: "keyboard", Executable: "run", Commands: []string{"keystroke"}})
	writeManifest(t, root, Manifest{Name: "any", Executable: "run"})

	m := NewManager(root)
	m.Discover()

	if _, err := m.Get("keyboard"); err != nil {
		t.Errorf("Get(keyboard) error = %v", err)
	}
	if _, err := m.Get("nope"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("Get(nope) error = %v, want ErrPluginNotFound", err)
	}

	tests := []struct {
		binding Binding
		wantErr error
	}{
		{Binding{Plugin: "keyboard", Command: "keystroke"}, nil},
		{Binding{Plugin: "keyboard", Command: "shortcut"}, ErrUnsupportedCommand},
		{Binding{Plugin: "any", Command: "whatever"}, nil},
		{Binding{Plugin: "ghost", Command: "x"}, ErrPluginNotFound},
	}
	for _, tt := range tests {
		_, err := m.Resolve(tt.binding)
		if tt.wantErr == nil && err != nil {
			t.Errorf("Resolve(%s) error = %v", tt.binding, err)
		}
		if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
			t.Errorf("Resolve(%s) error = %v, want %v", tt.binding, err, tt.wantErr)
		}
	}
}

func TestParseBinding(t *testing.T) {
	tests := []struct {
		in      string
		want    Binding
		wantErr bool
	}{
		{"keyboard:keystroke", Binding{Plugin: "keyboard", Command: "keystroke"}, false},
		{" notify:send ", Binding{Plugin: "notify", Command: "send"}, false},
		{"keyboard", Binding{}, true},
		{":cmd", Binding{}, true},
		{"plugin:", Binding{}, true},
		{"", Binding{}, true},
	}
	for _, tt := range tests {
		got, err := ParseBinding(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBinding(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && (got.Plugin != tt.want.Plugin || got.Command != tt.want.Command) {
			t.Errorf("ParseBinding(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
	if s := (Binding{Plugin: "a", Command: "b"}).String(); s != "a:b" {
		t.Errorf("String() = %q", s)
	}
}
