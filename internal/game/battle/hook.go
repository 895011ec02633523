package battle

import (
	"maps"

	"github.com/udisondev/battlesim/internal/model"
)

// Hook is the apply/remove side effect of an effect that names it in
// model.Effect.Hook.
type Hook interface {
	OnApply(s State, target model.UnitID, e model.Effect) State
	OnRemove(s State, target model.UnitID, e model.Effect) State
}

// HookRegistry maps hook ids to implementations. It is built once at
// battle setup and is read-only afterwards.
type HookRegistry struct {
	hooks map[string]Hook
}

// NewHookRegistry copies hooks into a registry.
func NewHookRegistry(hooks map[string]Hook) HookRegistry {
	return HookRegistry{hooks: maps.Clone(hooks)}
}

// Lookup returns the hook registered under id.
func (r HookRegistry) Lookup(id string) (Hook, bool) {
	if id == "" {
		return nil, false
	}
	h, ok := r.hooks[id]
	return h, ok
}

// Len returns the number of registered hooks.
func (r HookRegistry) Len() int { return len(r.hooks) }
