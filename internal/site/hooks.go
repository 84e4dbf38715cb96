package site

import (
	"fmt"
	"strings"
	"sync"
)

// Action is a callback attached to a hook
type Action func() error

// Hooks is a registry of named lifecycle hooks and their callbacks
type Hooks struct {
	mu      sync.Mutex
	actions map[string][]Action
	fired   map[string]int
}

// NewHooks creates an empty hook registry
func NewHooks() *Hooks {
	return &Hooks{
		actions: make(map[string][]Action),
		fired:   make(map[string]int),
	}
}

// AddAction attaches fn to hook. Callbacks run in registration order.
func (h *Hooks) AddAction(hook string, fn Action) error {
	if strings.TrimSpace(hook) == "" {
		return fmt.Errorf("hook name must not be empty")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.actions[hook] = append(h.actions[hook], fn)
	return nil
}

// DoAction fires hook, running its callbacks. The first failing callback
// stops the chain and its error is returned.
func (h *Hooks) DoAction(hook string) error {
	h.mu.Lock()
	h.fired[hook]++
	actions := append([]Action(nil), h.actions[hook]...)
	h.mu.Unlock()

	for _, fn := range actions {
		if err := fn(); err != nil {
			return fmt.Errorf("action on %q failed: %w", hook, err)
		}
	}
	return nil
}

// DidAction returns how many times hook has fired
func (h *Hooks) DidAction(hook string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fired[hook]
}
