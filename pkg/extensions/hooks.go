package extensions

import (
	"context"
	"sync"
)

// HookPoint is a point in the sync lifecycle where observers can attach.
// The rendering layer registers at these points to schedule re-draws
// instead of polling the store.
type HookPoint string

const (
	// HookAfterLoad fires once the initial snapshot is swapped in
	HookAfterLoad HookPoint = "after_load"

	// HookAfterMutation fires after a local mutation touched the store
	HookAfterMutation HookPoint = "after_mutation"

	// HookAfterChangeApplied fires after an inbound feed notification
	// was applied to the store
	HookAfterChangeApplied HookPoint = "after_change_applied"

	// HookSessionChanged fires on sign-in and sign-out
	HookSessionChanged HookPoint = "session_changed"
)

// Hook is an observer callback. Hooks must not block; long work belongs on
// the observer's own goroutine.
type Hook func(ctx context.Context, data interface{})

// HookManager fans lifecycle notifications out to registered observers
type HookManager struct {
	mu    sync.RWMutex
	hooks map[HookPoint][]Hook
}

// NewHookManager creates an empty hook manager
func NewHookManager() *HookManager {
	return &HookManager{
		hooks: make(map[HookPoint][]Hook),
	}
}

// Register attaches an observer to a hook point
func (m *HookManager) Register(point HookPoint, hook Hook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks[point] = append(m.hooks[point], hook)
}

// Execute invokes all observers registered at a hook point, in registration
// order
func (m *HookManager) Execute(ctx context.Context, point HookPoint, data interface{}) {
	m.mu.RLock()
	hooks := make([]Hook, len(m.hooks[point]))
	copy(hooks, m.hooks[point])
	m.mu.RUnlock()

	for _, hook := range hooks {
		hook(ctx, data)
	}
}

// Clear removes all observers at a hook point
func (m *HookManager) Clear(point HookPoint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.hooks, point)
}
