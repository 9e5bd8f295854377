package widget

import (
	"sort"
	"sync"

	"github.com/vango-dev/widgetkit/pkg/dom"
)

// Factory creates widget instances of one kind.
type Factory interface {
	// Name is the registry name of the widget kind (e.g. "popover").
	Name() string

	// Handles reports whether key is widget configuration rather than a DOM property.
	Handles(key string) bool

	// New instantiates the widget against el.
	New(host dom.Host, el dom.Element, cfg Config) (Instance, error)
}

// Instance is a live widget bound to one element.
type Instance interface {
	// Update applies a changed configuration key.
	Update(key string, value any) error

	// Dispose tears the widget down. It must release every reference the
	// widget holds on its element.
	Dispose() error
}

// Enabler is implemented by widgets that can be switched on and off while
// mounted. The binder enables after insertion and disables before removal.
type Enabler interface {
	Enable() error
	Disable() error
}

// Marker is implemented by factories that can describe their widget as static
// markup, used when rendering without a live DOM.
type Marker interface {
	Markers(cfg Config) (map[string]string, error)
}

// Registry maps widget names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry holding the given factories.
func NewRegistry(factories ...Factory) *Registry {
	r := &Registry{factories: make(map[string]Factory, len(factories))}
	for _, f := range factories {
		r.Register(f)
	}
	return r
}

// Register adds or replaces a factory.
func (r *Registry) Register(f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[f.Name()] = f
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
