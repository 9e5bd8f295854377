package tree

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/vango-dev/widgetkit/internal/errors"
	"github.com/vango-dev/widgetkit/internal/markup"
	"github.com/vango-dev/widgetkit/pkg/dom"
	"github.com/vango-dev/widgetkit/pkg/widget"
)

// ID is a node's identity. IDs are unique within the process.
type ID uint64

var lastID atomic.Uint64

func nextID() ID {
	return ID(lastID.Add(1))
}

// Caps is the capability set of a node.
type Caps uint8

const (
	CapText     Caps = 1 << iota // node renders a text property
	CapChildren                  // node may have child nodes
	CapWidget                    // node instantiates a widget
)

// Has reports whether all capabilities in x are present.
func (c Caps) Has(x Caps) bool {
	return c&x == x
}

// String returns the capability set as "text|children|widget".
func (c Caps) String() string {
	var parts []string
	if c.Has(CapText) {
		parts = append(parts, "text")
	}
	if c.Has(CapChildren) {
		parts = append(parts, "children")
	}
	if c.Has(CapWidget) {
		parts = append(parts, "widget")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// DefaultCaps returns the capabilities of a plain element with this tag.
// Void elements accept neither text nor children.
func DefaultCaps(tag string) Caps {
	if markup.IsVoidElement(tag) {
		return 0
	}
	return CapText | CapChildren
}

// Props holds a node's property bindings.
type Props map[string]any

// Well-known property keys.
const (
	KeyText  = "text"
	KeyClass = "class"
	KeyKey   = "key"
)

// Ref is what lifecycle hooks receive about a live node.
type Ref struct {
	Node     *Node
	Host     dom.Host
	Element  dom.Element
	Instance widget.Instance
}

// HookFunc is a lifecycle hook.
type HookFunc func(ctx context.Context, ref Ref) error

// Node is a declarative component node.
type Node struct {
	Tag      string
	Props    Props
	Key      string
	Children []*Node
	Widget   widget.Factory

	id       ID
	caps     Caps
	capsSet  bool
	parent   *Node
	onInsert HookFunc
	onRemove HookFunc
}

// ID returns the node's identity.
func (n *Node) ID() ID {
	return n.id
}

// Parent returns the owning node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Caps returns the node's capability set. Unless overridden with WithCaps
// it is derived from the tag, plus CapWidget when a widget is bound.
func (n *Node) Caps() Caps {
	c := n.caps
	if !n.capsSet {
		c = DefaultCaps(n.Tag)
	}
	if n.Widget != nil {
		c |= CapWidget
	}
	return c
}

// Text returns the text property.
func (n *Node) Text() string {
	s, _ := n.Props[KeyText].(string)
	return s
}

// OnInsertHook returns the hook run after the node is attached.
func (n *Node) OnInsertHook() HookFunc { return n.onInsert }

// OnRemoveHook returns the hook run before the node is detached.
func (n *Node) OnRemoveHook() HookFunc { return n.onRemove }

// AppendChild adds child as the last child of n and makes n its owner.
func (n *Node) AppendChild(child *Node) {
	if child == nil {
		return
	}
	child.parent = n
	n.Children = append(n.Children, child)
}

// WidgetName returns the bound widget's name, or "".
func (n *Node) WidgetName() string {
	if n.Widget == nil {
		return ""
	}
	return n.Widget.Name()
}

// Walk calls fn for n and every descendant, parents first.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Validate checks the node and its subtree against their capability sets.
func (n *Node) Validate() error {
	if n == nil {
		return errors.New("W303")
	}
	if !markup.IsValidAttrName(n.Tag) {
		return errors.New("W001").WithTag(n.Tag).WithDetail("invalid tag name")
	}
	caps := n.Caps()
	if _, ok := n.Props[KeyText]; ok && !caps.Has(CapText) {
		return errors.New("W001").WithTag(n.Tag).WithKey(KeyText).
			WithDetail("<" + n.Tag + "> does not accept text")
	}
	if len(n.Children) > 0 && !caps.Has(CapChildren) {
		return errors.New("W001").WithTag(n.Tag).
			WithDetail("<" + n.Tag + "> does not accept children")
	}
	for _, c := range n.Children {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}
