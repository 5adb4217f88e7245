package app

import (
	"fmt"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// StoreHooks looks up enabled hook rows for each action, so hooks added or
// disabled through the API apply without a restart.
func StoreHooks(s *store.Store) plugin.HookSource {
	return plugin.HookSourceFunc(func(a gesture.Action) ([]plugin.Binding, error) {
		hooks, err := s.Hooks().ListByAction(a.String())
		if err != nil {
			return nil, fmt.Errorf("list hooks for %s: %w", a, err)
		}
		out := make([]plugin.Binding, 0, len(hooks))
		for _, h := range hooks {
			out = append(out, plugin.Binding{Plugin: h.PluginName, Command: h.Command, Config: h.Config})
		}
		return out, nil
	})
}

// SeedHooks stores the configured bindings. Rows that already exist keep
// their enabled flag and config.
func SeedHooks(s *store.Store, bindings map[gesture.Action][]plugin.Binding) error {
	for action, list := range bindings {
		for _, b := range list {
			_, err := s.Hooks().Ensure(&store.Hook{
				Action:     action.String(),
				PluginName: b.Plugin,
				Command:    b.Command,
				Config:     b.Config,
				Enabled:    true,
			})
			if err != nil {
				return fmt.Errorf("seed hook %s for %s: %w", b, action, err)
			}
		}
	}
	return nil
}
