package bootstrap

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/vango-dev/widgetkit/internal/errors"
	"github.com/vango-dev/widgetkit/pkg/widget"
)

// Placement is where the tip is shown relative to its element.
type Placement string

const (
	PlacementAuto   Placement = "auto"
	PlacementTop    Placement = "top"
	PlacementBottom Placement = "bottom"
	PlacementLeft   Placement = "left"
	PlacementRight  Placement = "right"
)

func (p Placement) valid() bool {
	switch p {
	case PlacementAuto, PlacementTop, PlacementBottom, PlacementLeft, PlacementRight:
		return true
	}
	return false
}

// Trigger is an event that opens the tip.
type Trigger string

const (
	TriggerClick  Trigger = "click"
	TriggerHover  Trigger = "hover"
	TriggerFocus  Trigger = "focus"
	TriggerManual Trigger = "manual"
)

func (t Trigger) valid() bool {
	switch t {
	case TriggerClick, TriggerHover, TriggerFocus, TriggerManual:
		return true
	}
	return false
}

// Delay is the resolved show/hide delay in milliseconds.
type Delay struct {
	Show int `json:"show"`
	Hide int `json:"hide"`
}

// Option keys understood by popovers and tooltips.
const (
	KeyContent   = "content"
	KeyTitle     = "title"
	KeyAnimation = "animation"
	KeyDelay     = "delay"
	KeyHideDelay = "hideDelay"
	KeyPlacement = "placement"
	KeyTriggers  = "triggers"
	KeyHTML      = "html"
	KeySanitize  = "sanitize"
)

var tipKeys = map[string]bool{
	KeyTitle:     true,
	KeyAnimation: true,
	KeyDelay:     true,
	KeyHideDelay: true,
	KeyPlacement: true,
	KeyTriggers:  true,
	KeyHTML:      true,
	KeySanitize:  true,
}

// Options configures a popover or tooltip.
type Options struct {
	Content   string
	Title     string
	Animation bool
	Delay     *int
	HideDelay *int
	Placement Placement
	Triggers  []Trigger
	HTML      bool
	Sanitize  bool
}

// ParseOptions reads options from a widget config, applying Bootstrap's
// defaults (animation and sanitize on, html off).
func ParseOptions(cfg widget.Config) (Options, error) {
	o := Options{
		Content:   cfg.String(KeyContent),
		Title:     cfg.String(KeyTitle),
		Animation: cfg.Bool(KeyAnimation, true),
		Placement: Placement(cfg.String(KeyPlacement)),
		HTML:      cfg.Bool(KeyHTML, false),
		Sanitize:  cfg.Bool(KeySanitize, true),
	}

	for _, key := range []string{KeyDelay, KeyHideDelay} {
		if !cfg.Has(key) {
			continue
		}
		n, ok := cfg.Int(key)
		if !ok || n < 0 {
			return o, errors.New("W001").WithKey(key).
				WithSuggestion("Delays are non-negative milliseconds")
		}
		if key == KeyDelay {
			o.Delay = &n
		} else {
			o.HideDelay = &n
		}
	}

	if o.Placement != "" && !o.Placement.valid() {
		return o, errors.New("W001").WithKey(KeyPlacement).
			WithSuggestion("Use one of auto, top, bottom, left, right")
	}

	for _, s := range cfg.Strings(KeyTriggers) {
		t := Trigger(s)
		if !t.valid() {
			return o, errors.New("W001").WithKey(KeyTriggers).
				WithSuggestion("Use any of click, hover, focus, manual")
		}
		o.Triggers = append(o.Triggers, t)
	}

	return o, nil
}

// ResolvedDelay combines Delay and HideDelay the way Bootstrap expects:
// both set gives {delay, hideDelay}; only delay gives {delay, delay};
// only hideDelay gives {0, hideDelay}.
func (o Options) ResolvedDelay() (Delay, bool) {
	switch {
	case o.Delay != nil && o.HideDelay != nil:
		return Delay{Show: *o.Delay, Hide: *o.HideDelay}, true
	case o.Delay != nil:
		return Delay{Show: *o.Delay, Hide: *o.Delay}, true
	case o.HideDelay != nil:
		return Delay{Show: 0, Hide: *o.HideDelay}, true
	}
	return Delay{}, false
}

// attrs returns the data-bs-* attributes for a widget of the given kind.
func (o Options) attrs(kind string) map[string]string {
	a := map[string]string{
		"data-bs-toggle":    kind,
		"data-bs-animation": strconv.FormatBool(o.Animation),
		"data-bs-html":      strconv.FormatBool(o.HTML),
		"data-bs-sanitize":  strconv.FormatBool(o.Sanitize),
	}
	if kind == kindPopover {
		a["data-bs-content"] = o.Content
	}
	if o.Title != "" {
		a["data-bs-title"] = o.Title
	}
	if d, ok := o.ResolvedDelay(); ok {
		b, _ := json.Marshal(d)
		a["data-bs-delay"] = string(b)
	}
	if o.Placement != "" {
		a["data-bs-placement"] = string(o.Placement)
	}
	if len(o.Triggers) > 0 {
		parts := make([]string, len(o.Triggers))
		for i, t := range o.Triggers {
			parts[i] = string(t)
		}
		a["data-bs-trigger"] = strings.Join(parts, " ")
	}
	return a
}
