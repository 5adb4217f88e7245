package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatal("database file should not exist before New")
	}

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database file should exist after New: %v", err)
	}
	if s.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", s.Path(), dbPath)
	}
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := newTestStore(t)

	for _, table := range []string{"sessions", "events", "hooks", "settings"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q should exist: %v", table, err)
		}
	}
	for _, idx := range []string{"idx_events_session_id", "idx_events_created_at", "idx_hooks_action"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='index' AND name=?", idx,
		).Scan(&name)
		if err != nil {
			t.Errorf("index %q should exist: %v", idx, err)
		}
	}
}

func TestNewStore_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	sess, err := s.Sessions().Start("camera")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Close()

	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()
	if _, err := s.Sessions().GetByID(sess.ID); err != nil {
		t.Errorf("session lost across reopen: %v", err)
	}
}

func TestStore_Close(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if _, err := s.DB().Exec("SELECT 1"); err == nil {
		t.Error("DB operations should fail after close")
	}
}

func TestStore_ForeignKeysEnabled(t *testing.T) {
	s := newTestStore(t)

	var fk int
	if err := s.DB().QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("PRAGMA foreign_keys error = %v", err)
	}
	if fk != 1 {
		t.Error("foreign keys should be enabled")
	}

	err := s.Events().Create(&Event{SessionID: "missing", Action: "onLock", Pose: "OK"})
	if err == nil {
		t.Error("event for an unknown session should violate the foreign key")
	}
}

func TestSessions_StartEnd(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	sess, err := repo.Start("demo")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if sess.ID == "" || sess.Source != "demo" {
		t.Fatalf("unexpected session %+v", sess)
	}

	got, err := repo.GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.EndedAt != nil || got.Frames != 0 {
		t.Errorf("open session = %+v", got)
	}

	if err := repo.End(sess.ID, 420); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	got, _ = repo.GetByID(sess.ID)
	if got.EndedAt == nil || got.Frames != 420 {
		t.Errorf("ended session = %+v", got)
	}

	if err := repo.End("nope", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("End(unknown) error = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByID("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(unknown) error = %v, want ErrNotFound", err)
	}

	list, err := repo.List()
	if err != nil || len(list) != 1 {
		t.Errorf("List() = %d sessions, %v", len(list), err)
	}
}

func TestEvents_RecentAndCount(t *testing.T) {
	s := newTestStore(t)
	sess, _ := s.Sessions().Start("camera")
	other, _ := s.Sessions().Start("demo")

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{SessionID: sess.ID, Action: "onSwipeRight", Pose: "PALM"},
		{SessionID: sess.ID, Action: "onSwipeRight", Pose: "PALM"},
		{SessionID: sess.ID, Action: "onLock", Pose: "OK"},
		{SessionID: other.ID, Action: "onComet", Pose: "NONE"},
	}
	for i := range events {
		events[i].CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := s.Events().Create(&events[i]); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if events[i].ID == "" {
			t.Error("Create should assign an ID")
		}
	}

	recent, err := s.Events().Recent(2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 2 || recent[0].Action != "onComet" || recent[1].Action != "onLock" {
		t.Errorf("Recent(2) = %+v", recent)
	}

	counts, err := s.Events().CountByAction(sess.ID)
	if err != nil {
		t.Fatalf("CountByAction() error = %v", err)
	}
	if counts["onSwipeRight"] != 2 || counts["onLock"] != 1 || len(counts) != 2 {
		t.Errorf("CountByAction() = %v", counts)
	}

	all, _ := s.Events().Recent(0)
	if len(all) != 4 {
		t.Errorf("Recent(0) returned %d events, want 4", len(all))
	}
}

func TestHooks_CRUD(t *testing.T) {
	s := newTestStore(t)
	repo := s.Hooks()

	h := &Hook{Action: "onLock", PluginName: "keyboard", Command: "press", Config: []byte(`{"key":"space"}`), Enabled: true}
	if err := repo.Create(h); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(h.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.PluginName != "keyboard" || string(got.Config) != `{"key":"space"}` || !got.Enabled {
		t.Errorf("GetByID() = %+v", got)
	}

	again, err := repo.Ensure(&Hook{Action: "onLock", PluginName: "keyboard", Command: "press", Enabled: true})
	if err != nil || again.ID != h.ID {
		t.Errorf("Ensure() should return the existing hook, got %+v, %v", again, err)
	}
	fresh, err := repo.Ensure(&Hook{Action: "onComet", PluginName: "system-control", Command: "notify", Enabled: true})
	if err != nil || fresh.ID == h.ID {
		t.Errorf("Ensure() new binding = %+v, %v", fresh, err)
	}
	if stored, _ := repo.GetByID(fresh.ID); stored == nil || string(stored.Config) != "{}" {
		t.Errorf("empty config should be stored as {}, got %+v", stored)
	}

	byAction, _ := repo.ListByAction("onLock")
	if len(byAction) != 1 {
		t.Errorf("ListByAction(onLock) = %d hooks, want 1", len(byAction))
	}

	if err := repo.SetEnabled(h.ID, false); err != nil {
		t.Fatalf("SetEnabled() error = %v", err)
	}
	if byAction, _ := repo.ListByAction("onLock"); len(byAction) != 0 {
		t.Error("disabled hooks should not be listed by action")
	}

	all, _ := repo.List()
	if len(all) != 2 {
		t.Errorf("List() = %d hooks, want 2", len(all))
	}

	if err := repo.Delete(h.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(h.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByID(h.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestSettings(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if _, err := repo.Get(SettingEnabled); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if !repo.Bool(SettingEnabled, true) {
		t.Error("Bool should fall back to the default")
	}

	if err := repo.SetBool(SettingEnabled, false); err != nil {
		t.Fatalf("SetBool() error = %v", err)
	}
	if repo.Bool(SettingEnabled, true) {
		t.Error("Bool() = true after SetBool(false)")
	}

	repo.Set(SettingEnabled, "garbage")
	if !repo.Bool(SettingEnabled, true) {
		t.Error("malformed values should fall back to the default")
	}
}
