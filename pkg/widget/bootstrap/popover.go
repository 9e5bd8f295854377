package bootstrap

import (
	"github.com/vango-dev/widgetkit/pkg/dom"
	"github.com/vango-dev/widgetkit/pkg/widget"
)

// Popover is a live Bootstrap popover.
type Popover struct {
	*tip
}

// Content returns the current body content.
func (p *Popover) Content() string { return p.opts.Content }

// PopoverFactory creates popovers. It claims the content option in addition
// to the options shared with tooltips, including "title".
type PopoverFactory struct{}

// Name implements widget.Factory.
func (PopoverFactory) Name() string { return kindPopover }

// Handles implements widget.Factory.
func (PopoverFactory) Handles(key string) bool {
	return key == KeyContent || tipKeys[key]
}

// New implements widget.Factory. Any tooltip the client attached to the
// same element is disposed first, as Bootstrap does not allow both.
func (PopoverFactory) New(host dom.Host, el dom.Element, cfg widget.Config) (widget.Instance, error) {
	probe := &tip{kind: kindPopover}
	opts, err := ParseOptions(cfg)
	if err != nil {
		return nil, err
	}
	if err := probe.validate(opts); err != nil {
		return nil, err
	}
	if err := host.Dispatch(el, kindTooltip+":dispose", nil); err != nil {
		return nil, err
	}
	t, err := newTip(kindPopover, host, el, cfg)
	if err != nil {
		return nil, err
	}
	return &Popover{tip: t}, nil
}

// Markers implements widget.Marker.
func (PopoverFactory) Markers(cfg widget.Config) (map[string]string, error) {
	opts, err := ParseOptions(cfg)
	if err != nil {
		return nil, err
	}
	if err := (&tip{kind: kindPopover}).validate(opts); err != nil {
		return nil, err
	}
	return opts.attrs(kindPopover), nil
}
