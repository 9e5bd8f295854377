package tree

import (
	"strings"

	"github.com/vango-dev/widgetkit/pkg/widget"
)

// Attr is a single property binding.
type Attr struct {
	Key   string
	Value any
}

// Option configures a node during construction.
type Option func(*Node)

// El creates a node for tag. Arguments can be: nil, Attr, []Attr, Option,
// *Node, []*Node, or a string (shorthand for the text property).
func El(tag string, args ...any) *Node {
	n := &Node{
		id:    nextID(),
		Tag:   strings.ToLower(tag),
		Props: make(Props),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue

		case Attr:
			n.setAttr(v)

		case []Attr:
			for _, a := range v {
				n.setAttr(a)
			}

		case Option:
			v(n)

		case *Node:
			n.AppendChild(v)

		case []*Node:
			for _, c := range v {
				n.AppendChild(c)
			}

		case string:
			n.Props[KeyText] = v
		}
	}

	return n
}

func (n *Node) setAttr(a Attr) {
	if a.Key == "" {
		return
	}
	if a.Key == KeyKey {
		if s, ok := a.Value.(string); ok {
			n.Key = s
		}
		return
	}
	n.Props[a.Key] = a.Value
}

// Prop binds key to value.
func Prop(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Class binds the class property.
func Class(classes ...string) Attr {
	return Attr{Key: KeyClass, Value: strings.Join(classes, " ")}
}

// Text binds the text property.
func Text(text string) Attr {
	return Attr{Key: KeyText, Value: text}
}

// Key sets the reconciliation key.
func Key(key string) Option {
	return func(n *Node) { n.Key = key }
}

// WithWidget binds a widget factory to the node.
func WithWidget(f widget.Factory) Option {
	return func(n *Node) { n.Widget = f }
}

// WithCaps overrides the capability set derived from the tag.
func WithCaps(c Caps) Option {
	return func(n *Node) {
		n.caps = c &^ CapWidget
		n.capsSet = true
	}
}

// OnInsert registers a hook run once after the node is attached.
func OnInsert(fn HookFunc) Option {
	return func(n *Node) { n.onInsert = fn }
}

// OnRemove registers a hook run once before the node is detached.
func OnRemove(fn HookFunc) Option {
	return func(n *Node) { n.onRemove = fn }
}
