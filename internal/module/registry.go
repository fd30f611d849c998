package module

import (
	"fmt"
	"sync"

	"github.com/homedash/homedash/internal/config"
	"github.com/homedash/homedash/internal/model"
	"github.com/homedash/homedash/internal/store"
)

// errors
var (
	ErrModuleNotFound = &RegistryError{"module not found"}
	ErrNoModules      = &RegistryError{"no modules configured"}
)

type RegistryError struct {
	msg string
}

func (e *RegistryError) Error() string { return e.msg }

// Registry holds the known module types and the configured instances.
// Instance order is config order and is preserved everywhere.
type Registry struct {
	mu      sync.RWMutex
	types   map[string]Factory
	modules []Module // registration order
	byID    map[string]Module
	typeOf  map[string]string // instance ID → module type
	enabled map[string]bool
	store   *store.Store // nil in one-shot mode; state is then not persisted
}

// NewRegistry creates a registry backed by the given store. store may be nil,
// in which case enable/disable state is kept in memory only.
func NewRegistry(s *store.Store) *Registry {
	return &Registry{
		types:   make(map[string]Factory),
		byID:    make(map[string]Module),
		typeOf:  make(map[string]string),
		enabled: make(map[string]bool),
		store:   s,
	}
}

// RegisterType adds a module type to the registry. Types are registered
// explicitly at startup; there is no scanning or reflection.
func (r *Registry) RegisterType(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = f
}

// Configure instantiates the configured module list, in order. It fails on
// an empty list, an unknown module type, a duplicate instance name, or a
// constructor error, naming the offending module.
func (r *Registry) Configure(settings []config.ModuleSettings) error {
	if len(settings) == 0 {
		return ErrNoModules
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ms := range settings {
		if ms.Name == "" {
			return fmt.Errorf("module with type %q has no name", ms.Module)
		}
		if _, dup := r.byID[ms.Name]; dup {
			return fmt.Errorf("duplicate module name %q", ms.Name)
		}
		factory, ok := r.types[ms.Module]
		if !ok {
			return fmt.Errorf("module %s: unknown type %q", ms.Name, ms.Module)
		}
		m, err := factory(ms)
		if err != nil {
			return fmt.Errorf("module %s: %w", ms.Name, err)
		}
		r.modules = append(r.modules, m)
		r.byID[ms.Name] = m
		r.typeOf[ms.Name] = ms.Module
		r.enabled[ms.Name] = true
	}
	return nil
}

// RestoreState loads persisted enabled states from the database.
func (r *Registry) RestoreState() error {
	if r.store == nil {
		return nil
	}
	states, err := r.store.GetAllModuleStates()
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range states {
		if _, ok := r.byID[s.ModuleID]; ok {
			r.enabled[s.ModuleID] = s.Enabled
		}
	}
	return nil
}

// Enable enables a module and saves state.
func (r *Registry) Enable(id string) error {
	return r.setEnabled(id, true)
}

// Disable disables a module and saves state.
func (r *Registry) Disable(id string) error {
	return r.setEnabled(id, false)
}

func (r *Registry) setEnabled(id string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrModuleNotFound
	}
	r.enabled[id] = enabled
	if r.store == nil {
		return nil
	}
	return r.store.SetModuleEnabled(id, enabled)
}

// IsEnabled returns whether a module is enabled.
func (r *Registry) IsEnabled(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[id]
}

// Get returns a module by instance ID.
func (r *Registry) Get(id string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	return m, ok
}

// Modules returns all instances in registration order.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Module, len(r.modules))
	copy(out, r.modules)
	return out
}

// EnabledModules returns the enabled instances in registration order.
func (r *Registry) EnabledModules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Module
	for _, m := range r.modules {
		if r.enabled[m.ID()] {
			out = append(out, m)
		}
	}
	return out
}

// List returns info about all configured modules, in registration order.
func (r *Registry) List() []model.ModuleInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.ModuleInfo, 0, len(r.modules))
	for _, m := range r.modules {
		out = append(out, model.ModuleInfo{
			ID:          m.ID(),
			Name:        m.Name(),
			Type:        r.typeOf[m.ID()],
			Description: m.Description(),
			Enabled:     r.enabled[m.ID()],
		})
	}
	return out
}
