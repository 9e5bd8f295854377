package hook

import (
	"encoding/json"
	"fmt"

	"github.com/vango-dev/widgetkit/internal/errors"
	"github.com/vango-dev/widgetkit/pkg/dom"
	"github.com/vango-dev/widgetkit/pkg/widget"
)

// Attr is the attribute carrying the hook binding.
const Attr = "v-hook"

// Factory creates instances of one client hook.
type Factory struct {
	// HookName is the client-side hook name.
	HookName string

	// Keys are the node properties forwarded to the hook.
	Keys []string
}

// New returns a factory for the named hook claiming keys.
func New(name string, keys ...string) Factory {
	return Factory{HookName: name, Keys: keys}
}

// Name implements widget.Factory.
func (f Factory) Name() string { return "hook:" + f.HookName }

// Handles implements widget.Factory.
func (f Factory) Handles(key string) bool {
	for _, k := range f.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Value encodes the v-hook attribute value.
func Value(name string, cfg widget.Config) (string, error) {
	b, err := json.Marshal(map[string]any(cfg))
	if err != nil {
		return "", errors.New("W002").WithWidget("hook:" + name).Wrap(err)
	}
	return fmt.Sprintf("%s:%s", name, b), nil
}

// New implements widget.Factory.
func (f Factory) New(host dom.Host, el dom.Element, cfg widget.Config) (widget.Instance, error) {
	h := &Hook{name: f.HookName, host: host, el: el, cfg: widget.Config{}}
	for k, v := range cfg {
		h.cfg[k] = v
	}
	if err := h.write(); err != nil {
		return nil, err
	}
	return h, nil
}

// Markers implements widget.Marker.
func (f Factory) Markers(cfg widget.Config) (map[string]string, error) {
	v, err := Value(f.HookName, cfg)
	if err != nil {
		return nil, err
	}
	return map[string]string{Attr: v}, nil
}

// Hook is a live client hook.
type Hook struct {
	name     string
	host     dom.Host
	el       dom.Element
	cfg      widget.Config
	disposed bool
}

// Name returns the hook name.
func (h *Hook) Name() string { return h.name }

// Config returns the current configuration.
func (h *Hook) Config() widget.Config { return h.cfg }

func (h *Hook) write() error {
	v, err := Value(h.name, h.cfg)
	if err != nil {
		return err
	}
	return h.host.SetAttr(h.el, Attr, v)
}

// Update implements widget.Instance.
func (h *Hook) Update(key string, value any) error {
	if h.disposed {
		return errors.New("W104").WithWidget("hook:" + h.name).WithKey(key)
	}
	if value == nil {
		delete(h.cfg, key)
	} else {
		h.cfg[key] = value
	}
	if err := h.write(); err != nil {
		return err
	}
	return h.host.Dispatch(h.el, "hook:update", map[string]any{"name": h.name, "key": key})
}

// Dispose implements widget.Instance.
func (h *Hook) Dispose() error {
	if h.disposed {
		return errors.New("W104").WithWidget("hook:" + h.name)
	}
	if err := h.host.Dispatch(h.el, "hook:destroy", map[string]any{"name": h.name}); err != nil {
		return err
	}
	h.disposed = true
	return h.host.RemoveAttr(h.el, Attr)
}
