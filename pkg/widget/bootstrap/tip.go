package bootstrap

import (
	"github.com/vango-dev/widgetkit/internal/errors"
	"github.com/vango-dev/widgetkit/pkg/dom"
	"github.com/vango-dev/widgetkit/pkg/widget"
)

const (
	kindPopover = "popover"
	kindTooltip = "tooltip"
)

// tip is the state shared by popovers and tooltips.
type tip struct {
	kind  string
	host  dom.Host
	el    dom.Element
	cfg   widget.Config
	opts  Options
	attrs map[string]string

	enabled  bool
	shown    bool
	disposed bool
}

func newTip(kind string, host dom.Host, el dom.Element, cfg widget.Config) (*tip, error) {
	opts, err := ParseOptions(cfg)
	if err != nil {
		return nil, err
	}
	t := &tip{
		kind:    kind,
		host:    host,
		el:      el,
		cfg:     copyConfig(cfg),
		opts:    opts,
		attrs:   map[string]string{},
		enabled: true,
	}
	if err := t.writeAttrs(); err != nil {
		return nil, err
	}
	return t, nil
}

func copyConfig(cfg widget.Config) widget.Config {
	c := make(widget.Config, len(cfg))
	for k, v := range cfg {
		c[k] = v
	}
	return c
}

// writeAttrs brings the element's data-bs-* attributes in line with opts,
// touching only the attributes that changed.
func (t *tip) writeAttrs() error {
	next := t.opts.attrs(t.kind)
	for k := range t.attrs {
		if _, ok := next[k]; !ok {
			if err := t.host.RemoveAttr(t.el, k); err != nil {
				return err
			}
		}
	}
	for k, v := range next {
		if prev, ok := t.attrs[k]; ok && prev == v {
			continue
		}
		if err := t.host.SetAttr(t.el, k, v); err != nil {
			return err
		}
	}
	t.attrs = next
	return nil
}

func (t *tip) call(method string, detail map[string]any) error {
	if t.disposed {
		return errors.New("W104").WithWidget(t.kind).WithDetail(method + " after dispose")
	}
	return t.host.Dispatch(t.el, t.kind+":"+method, detail)
}

// Title returns the current title.
func (t *tip) Title() string { return t.opts.Title }

// Options returns the current options.
func (t *tip) Options() Options { return t.opts }

// Element returns the element the widget is bound to.
func (t *tip) Element() dom.Element { return t.el }

// Enabled reports whether the widget may be shown.
func (t *tip) Enabled() bool { return t.enabled }

// Shown reports whether the widget is currently shown.
func (t *tip) Shown() bool { return t.shown }

// Disposed reports whether Dispose has run.
func (t *tip) Disposed() bool { return t.disposed }

// Show reveals the widget. A disabled widget stays hidden.
func (t *tip) Show() error {
	if t.disposed {
		return errors.New("W104").WithWidget(t.kind).WithDetail("show after dispose")
	}
	if !t.enabled {
		return nil
	}
	if err := t.call("show", nil); err != nil {
		return err
	}
	t.shown = true
	return nil
}

// Hide hides the widget.
func (t *tip) Hide() error {
	if err := t.call("hide", nil); err != nil {
		return err
	}
	t.shown = false
	return nil
}

// Toggle flips the shown state.
func (t *tip) Toggle() error {
	if t.shown {
		return t.Hide()
	}
	return t.Show()
}

// Enable implements widget.Enabler.
func (t *tip) Enable() error {
	if err := t.call("enable", nil); err != nil {
		return err
	}
	t.enabled = true
	return nil
}

// Disable implements widget.Enabler.
func (t *tip) Disable() error {
	if err := t.call("disable", nil); err != nil {
		return err
	}
	t.enabled = false
	return nil
}

// Update implements widget.Instance. Title and content changes are pushed
// with setContent; any other option is applied through the data attributes.
func (t *tip) Update(key string, value any) error {
	if t.disposed {
		return errors.New("W104").WithWidget(t.kind).WithKey(key)
	}
	next := copyConfig(t.cfg)
	if value == nil {
		delete(next, key)
	} else {
		next[key] = value
	}
	opts, err := ParseOptions(next)
	if err != nil {
		return err
	}
	if err := t.validate(opts); err != nil {
		return err
	}
	t.cfg, t.opts = next, opts
	if err := t.writeAttrs(); err != nil {
		return err
	}
	if key == KeyTitle || key == KeyContent {
		detail := map[string]any{".tooltip-inner": opts.Title}
		if t.kind == kindPopover {
			detail = map[string]any{
				".popover-header": opts.Title,
				".popover-body":   opts.Content,
			}
		}
		return t.call("setContent", detail)
	}
	return t.call("update", nil)
}

func (t *tip) validate(opts Options) error {
	switch t.kind {
	case kindPopover:
		if opts.Content == "" {
			return errors.New("W003").WithWidget(t.kind).WithKey(KeyContent)
		}
	case kindTooltip:
		if opts.Title == "" {
			return errors.New("W003").WithWidget(t.kind).WithKey(KeyTitle)
		}
	}
	return nil
}

// Dispose implements widget.Instance. It hides the widget, asks the library
// to dispose, and strips the data attributes from the element.
func (t *tip) Dispose() error {
	if t.disposed {
		return errors.New("W104").WithWidget(t.kind).WithDetail("dispose called twice")
	}
	if err := t.call("dispose", nil); err != nil {
		return err
	}
	t.disposed = true
	t.shown = false
	t.enabled = false
	for k := range t.attrs {
		if err := t.host.RemoveAttr(t.el, k); err != nil {
			return err
		}
	}
	t.attrs = map[string]string{}
	return nil
}
