package tree

import (
	"encoding/json"
	"io"

	"github.com/vango-dev/widgetkit/internal/errors"
	"github.com/vango-dev/widgetkit/pkg/widget"
)

// Description is the JSON form of a node:
//
//	{"tag": "button", "text": "More", "widget": "popover",
//	 "props": {"title": "T", "content": "C"}, "children": []}
type Description struct {
	Tag      string         `json:"tag"`
	Key      string         `json:"key,omitempty"`
	Class    string         `json:"class,omitempty"`
	Text     string         `json:"text,omitempty"`
	Widget   string         `json:"widget,omitempty"`
	Props    map[string]any `json:"props,omitempty"`
	Children []Description  `json:"children,omitempty"`
}

// Decode reads a JSON description from r and builds the tree it describes,
// resolving widget names through reg.
func Decode(r io.Reader, reg *widget.Registry) (*Node, error) {
	var d Description
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&d); err != nil {
		return nil, errors.New("W006").Wrap(err)
	}
	return Build(d, reg)
}

// Build turns a description into a validated tree.
func Build(d Description, reg *widget.Registry) (*Node, error) {
	n, err := build(d, reg)
	if err != nil {
		return nil, err
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

func build(d Description, reg *widget.Registry) (*Node, error) {
	if d.Tag == "" {
		return nil, errors.New("W006").WithDetail("node without tag")
	}

	var args []any
	if d.Key != "" {
		args = append(args, Key(d.Key))
	}
	if d.Class != "" {
		args = append(args, Class(d.Class))
	}
	if d.Text != "" {
		args = append(args, Text(d.Text))
	}
	for k, v := range d.Props {
		args = append(args, Prop(k, normalizeNumber(v)))
	}
	if d.Widget != "" {
		f, ok := reg.Lookup(d.Widget)
		if !ok {
			return nil, errors.New("W004").WithTag(d.Tag).WithWidget(d.Widget)
		}
		args = append(args, WithWidget(f))
	}

	n := El(d.Tag, args...)
	for _, cd := range d.Children {
		c, err := build(cd, reg)
		if err != nil {
			return nil, err
		}
		n.AppendChild(c)
	}
	return n, nil
}

// normalizeNumber turns json.Number into int when integral, else float64.
func normalizeNumber(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i)
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeNumber(item)
		}
		return out
	}
	return v
}
