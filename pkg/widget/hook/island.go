package hook

import (
	"encoding/json"

	"github.com/vango-dev/widgetkit/internal/errors"
	"github.com/vango-dev/widgetkit/pkg/dom"
	"github.com/vango-dev/widgetkit/pkg/widget"
)

// Island attributes read by the thin client to find and mount modules.
const (
	AttrIsland = "data-island"
	AttrModule = "data-module"
	AttrProps  = "data-props"
)

// IslandFactory mounts a JavaScript module into an element.
type IslandFactory struct {
	// ID is the registry suffix and the data-island value.
	ID string

	// Module is the path of the JavaScript module.
	Module string

	// Keys are the node properties passed to the module as props.
	Keys []string
}

// Name implements widget.Factory.
func (f IslandFactory) Name() string { return "island:" + f.ID }

// Handles implements widget.Factory.
func (f IslandFactory) Handles(key string) bool {
	for _, k := range f.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Markers implements widget.Marker.
func (f IslandFactory) Markers(cfg widget.Config) (map[string]string, error) {
	props, err := json.Marshal(map[string]any(cfg))
	if err != nil {
		return nil, errors.New("W002").WithWidget(f.Name()).Wrap(err)
	}
	return map[string]string{
		AttrIsland: f.ID,
		AttrModule: f.Module,
		AttrProps:  string(props),
	}, nil
}

// New implements widget.Factory.
func (f IslandFactory) New(host dom.Host, el dom.Element, cfg widget.Config) (widget.Instance, error) {
	attrs, err := f.Markers(cfg)
	if err != nil {
		return nil, err
	}
	for _, k := range []string{AttrIsland, AttrModule, AttrProps} {
		if err := host.SetAttr(el, k, attrs[k]); err != nil {
			return nil, err
		}
	}
	is := &IslandInstance{factory: f, host: host, el: el, props: widget.Config{}}
	for k, v := range cfg {
		is.props[k] = v
	}
	if err := host.Dispatch(el, "island:mount", map[string]any{"id": f.ID, "module": f.Module}); err != nil {
		return nil, err
	}
	return is, nil
}

// IslandInstance is a mounted island.
type IslandInstance struct {
	factory  IslandFactory
	host     dom.Host
	el       dom.Element
	props    widget.Config
	disposed bool
}

// Props returns the props last sent to the module.
func (is *IslandInstance) Props() widget.Config { return is.props }

// Update implements widget.Instance.
func (is *IslandInstance) Update(key string, value any) error {
	if is.disposed {
		return errors.New("W104").WithWidget(is.factory.Name()).WithKey(key)
	}
	if value == nil {
		delete(is.props, key)
	} else {
		is.props[key] = value
	}
	b, err := json.Marshal(map[string]any(is.props))
	if err != nil {
		return errors.New("W002").WithWidget(is.factory.Name()).WithKey(key).Wrap(err)
	}
	if err := is.host.SetAttr(is.el, AttrProps, string(b)); err != nil {
		return err
	}
	return is.host.Dispatch(is.el, "island:props", map[string]any{"id": is.factory.ID})
}

// Dispose implements widget.Instance.
func (is *IslandInstance) Dispose() error {
	if is.disposed {
		return errors.New("W104").WithWidget(is.factory.Name())
	}
	if err := is.host.Dispatch(is.el, "island:unmount", map[string]any{"id": is.factory.ID}); err != nil {
		return err
	}
	is.disposed = true
	for _, k := range []string{AttrIsland, AttrModule, AttrProps} {
		if err := is.host.RemoveAttr(is.el, k); err != nil {
			return err
		}
	}
	return nil
}
