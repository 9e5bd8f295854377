package bootstrap

import (
	"github.com/vango-dev/widgetkit/pkg/dom"
	"github.com/vango-dev/widgetkit/pkg/widget"
)

// Tooltip is a live Bootstrap tooltip.
type Tooltip struct {
	*tip
}

// TooltipFactory creates tooltips. The title option is required.
type TooltipFactory struct{}

// Name implements widget.Factory.
func (TooltipFactory) Name() string { return kindTooltip }

// Handles implements widget.Factory.
func (TooltipFactory) Handles(key string) bool { return tipKeys[key] }

// New implements widget.Factory.
func (TooltipFactory) New(host dom.Host, el dom.Element, cfg widget.Config) (widget.Instance, error) {
	opts, err := ParseOptions(cfg)
	if err != nil {
		return nil, err
	}
	if err := (&tip{kind: kindTooltip}).validate(opts); err != nil {
		return nil, err
	}
	t, err := newTip(kindTooltip, host, el, cfg)
	if err != nil {
		return nil, err
	}
	return &Tooltip{tip: t}, nil
}

// Markers implements widget.Marker.
func (TooltipFactory) Markers(cfg widget.Config) (map[string]string, error) {
	opts, err := ParseOptions(cfg)
	if err != nil {
		return nil, err
	}
	if err := (&tip{kind: kindTooltip}).validate(opts); err != nil {
		return nil, err
	}
	return opts.attrs(kindTooltip), nil
}

// Register adds the Bootstrap factories to r.
func Register(r *widget.Registry) {
	r.Register(PopoverFactory{})
	r.Register(TooltipFactory{})
}
