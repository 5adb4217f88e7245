package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Hook binds an action name to a plugin command.
type Hook struct {
	ID         string          `json:"id"`
	Action     string          `json:"action"`
	PluginName string          `json:"plugin"`
	Command    string          `json:"command"`
	Config     json.RawMessage `json:"config,omitempty"`
	Enabled    bool            `json:"enabled"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// HookRepository provides CRUD operations for hooks.
type HookRepository struct {
	db *sql.DB
}

// Hooks returns the hook repository for this store.
func (s *Store) Hooks() *HookRepository {
	return &HookRepository{db: s.db}
}

const hookColumns = `id, action, plugin_name, command, config, enabled, created_at`

func scanHook(row interface{ Scan(...any) error }) (*Hook, error) {
	h := &Hook{}
	var config string
	var enabled int
	if err := row.Scan(&h.ID, &h.Action, &h.PluginName, &h.Command, &config, &enabled, &h.CreatedAt); err != nil {
		return nil, err
	}
	h.Config = json.RawMessage(config)
	h.Enabled = enabled != 0
	return h, nil
}

func hookConfig(c json.RawMessage) string {
	if len(c) == 0 {
		return "{}"
	}
	return string(c)
}

// Create inserts a hook. An empty ID is replaced with a new UUID.
func (r *HookRepository) Create(h *Hook) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	h.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(
		`INSERT INTO hooks (`+hookColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Action, h.PluginName, h.Command, hookConfig(h.Config), h.Enabled, h.CreatedAt,
	)
	return err
}

// Ensure inserts the hook unless the same action/plugin/command binding
// already exists, in which case the existing row is returned untouched.
func (r *HookRepository) Ensure(h *Hook) (*Hook, error) {
	existing, err := scanHook(r.db.QueryRow(
		`SELECT `+hookColumns+` FROM hooks WHERE action = ? AND plugin_name = ? AND command = ?`,
		h.Action, h.PluginName, h.Command,
	))
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}
	if err := r.Create(h); err != nil {
		return nil, err
	}
	return h, nil
}

// GetByID retrieves a hook.
func (r *HookRepository) GetByID(id string) (*Hook, error) {
	h, err := scanHook(r.db.QueryRow(`SELECT `+hookColumns+` FROM hooks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return h, err
}

// ListByAction returns the enabled hooks for an action.
func (r *HookRepository) ListByAction(action string) ([]*Hook, error) {
	return r.query(`SELECT `+hookColumns+` FROM hooks WHERE action = ? AND enabled = 1 ORDER BY created_at`, action)
}

// List returns every hook.
func (r *HookRepository) List() ([]*Hook, error) {
	return r.query(`SELECT ` + hookColumns + ` FROM hooks ORDER BY action, created_at`)
}

func (r *HookRepository) query(q string, args ...any) ([]*Hook, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hooks []*Hook
	for rows.Next() {
		h, err := scanHook(rows)
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, h)
	}
	return hooks, rows.Err()
}

// SetEnabled turns a hook on or off.
func (r *HookRepository) SetEnabled(id string, enabled bool) error {
	result, err := r.db.Exec(`UPDATE hooks SET enabled = ? WHERE id = ?`, enabled, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

// Delete removes a hook.
func (r *HookRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM hooks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}
