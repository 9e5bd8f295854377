package binder

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/widgetkit/internal/errors"
	"github.com/vango-dev/widgetkit/internal/markup"
	"github.com/vango-dev/widgetkit/pkg/dom"
	"github.com/vango-dev/widgetkit/pkg/tree"
	"github.com/vango-dev/widgetkit/pkg/widget"
)

// binding is the live side of one attached node.
type binding struct {
	node     *tree.Node
	state    State
	el       dom.Element
	inst     widget.Instance
	props    tree.Props // committed values
	parent   tree.ID
	children []tree.ID
}

// Binder owns the bindings between nodes, host elements and widget instances.
type Binder struct {
	host    dom.Host
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer

	bindings  map[tree.ID]*binding
	byElement map[dom.Element]tree.ID
	detached  map[tree.ID]struct{}
}

// Option configures a Binder.
type Option func(*Binder)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Binder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMetrics records binder activity on m.
func WithMetrics(m *Metrics) Option {
	return func(b *Binder) {
		b.metrics = m
	}
}

// WithTracer sets the tracer used for attach, detach and render pass spans.
func WithTracer(t trace.Tracer) Option {
	return func(b *Binder) {
		if t != nil {
			b.tracer = t
		}
	}
}

// New creates a binder writing to host. A nil host is treated as dom.Null.
func New(host dom.Host, opts ...Option) *Binder {
	if host == nil {
		host = dom.Null{}
	}
	b := &Binder{
		host:      host,
		logger:    slog.Default(),
		tracer:    defaultTracer(),
		bindings:  make(map[tree.ID]*binding),
		byElement: make(map[dom.Element]tree.ID),
		detached:  make(map[tree.ID]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Host returns the host the binder writes to.
func (b *Binder) Host() dom.Host {
	return b.host
}

// Len returns the number of live bindings.
func (b *Binder) Len() int {
	return len(b.bindings)
}

// State returns the lifecycle state of n.
func (b *Binder) State(n *tree.Node) State {
	if n == nil {
		return Unattached
	}
	if bd, ok := b.bindings[n.ID()]; ok {
		return bd.state
	}
	if _, ok := b.detached[n.ID()]; ok {
		return Detached
	}
	return Unattached
}

// Instance returns the widget instance bound to n.
func (b *Binder) Instance(n *tree.Node) (widget.Instance, bool) {
	if n == nil {
		return nil, false
	}
	bd, ok := b.bindings[n.ID()]
	if !ok || bd.inst == nil {
		return nil, false
	}
	return bd.inst, true
}

// InstanceFor returns the widget instance bound to the node backing el.
func (b *Binder) InstanceFor(el dom.Element) (widget.Instance, bool) {
	id, ok := b.byElement[el]
	if !ok {
		return nil, false
	}
	bd := b.bindings[id]
	if bd == nil || bd.inst == nil {
		return nil, false
	}
	return bd.inst, true
}

// Element returns the host element backing n.
func (b *Binder) Element(n *tree.Node) (dom.Element, bool) {
	if n == nil {
		return dom.None, false
	}
	bd, ok := b.bindings[n.ID()]
	if !ok || bd.el == dom.None {
		return dom.None, false
	}
	return bd.el, true
}

// Attach binds n and its subtree to new host elements. A node whose parent
// is nil is appended to the host root; otherwise the parent must already be
// attached. Attaching an attached node does nothing. A detached node cannot
// be attached again.
func (b *Binder) Attach(ctx context.Context, n *tree.Node) (err error) {
	if n == nil {
		return errors.New("W303")
	}
	ctx, span := b.startSpan(ctx, "binder.Attach", n)
	defer func() { endSpan(span, err) }()

	if _, ok := b.detached[n.ID()]; ok {
		return errors.New("W301").WithTag(n.Tag).WithWidget(n.WidgetName())
	}
	if bd, ok := b.bindings[n.ID()]; ok {
		bd.node = n
		return nil
	}

	parentEl, parentID := dom.None, tree.ID(0)
	if p := n.Parent(); p != nil {
		pb, ok := b.bindings[p.ID()]
		if !ok || pb.state != Attached {
			return errors.New("W302").WithTag(n.Tag)
		}
		parentEl, parentID = pb.el, p.ID()
	}
	return b.attach(ctx, n, parentEl, parentID)
}

func (b *Binder) attach(ctx context.Context, n *tree.Node, parentEl dom.Element, parentID tree.ID) error {
	bd := &binding{
		node:   n,
		state:  Attached,
		props:  make(tree.Props, len(n.Props)),
		parent: parentID,
	}

	if !b.host.Available() {
		for key, value := range n.Props {
			if !ignored(key) {
				bd.props[key] = value
			}
		}
		b.register(bd)
		b.logger.Debug("attached without DOM", "node", n.ID(), "tag", n.Tag)
		for _, c := range n.Children {
			if err := b.attach(ctx, c, dom.None, n.ID()); err != nil {
				return err
			}
		}
		return nil
	}

	el, err := b.host.CreateElement(n.Tag)
	if err != nil {
		return errors.FromError(err, "W201").WithTag(n.Tag)
	}
	bd.el = el

	for _, key := range sortedKeys(n.Props) {
		if n.Widget != nil && n.Widget.Handles(key) {
			bd.props[key] = n.Props[key]
			continue
		}
		if err := b.write(bd, key, n.Props[key]); err != nil {
			b.discard(el)
			return err
		}
	}

	if err := b.host.Append(parentEl, el); err != nil {
		b.discard(el)
		return errors.FromError(err, "W202").WithTag(n.Tag).WithDetail("append failed")
	}

	if n.Widget != nil {
		inst, err := n.Widget.New(b.host, el, widget.Filter(n.Widget, n.Props))
		if err != nil {
			b.discard(el)
			b.metrics.widgetError(n.Widget.Name(), "new")
			return errors.FromError(err, "W101").WithTag(n.Tag).WithWidget(n.Widget.Name())
		}
		bd.inst = inst
		b.metrics.instanceCreated()
	}

	b.register(bd)
	b.logger.Debug("attached", "node", n.ID(), "tag", n.Tag, "element", el, "widget", n.WidgetName())

	for _, c := range n.Children {
		if err := b.attach(ctx, c, el, n.ID()); err != nil {
			return err
		}
	}

	if hook := n.OnInsertHook(); hook != nil {
		if err := hook(ctx, b.ref(bd)); err != nil {
			return errors.New("W304").WithTag(n.Tag).WithDetail("insert hook").Wrap(err)
		}
	}
	if en, ok := bd.inst.(widget.Enabler); ok {
		if err := en.Enable(); err != nil {
			b.metrics.widgetError(n.WidgetName(), "enable")
			return errors.FromError(err, "W102").WithWidget(n.WidgetName()).WithDetail("enable failed")
		}
	}
	return nil
}

func (b *Binder) register(bd *binding) {
	id := bd.node.ID()
	b.bindings[id] = bd
	if bd.el != dom.None {
		b.byElement[bd.el] = id
	}
	if pb, ok := b.bindings[bd.parent]; ok {
		pb.children = append(pb.children, id)
	}
	b.metrics.attached()
}

// discard removes an element whose node never became attached.
func (b *Binder) discard(el dom.Element) {
	if err := b.host.Remove(el); err != nil {
		b.logger.Warn("failed to remove unbound element", "element", el, "error", err)
	}
}

func (b *Binder) ref(bd *binding) tree.Ref {
	return tree.Ref{
		Node:     bd.node,
		Host:     b.host,
		Element:  bd.el,
		Instance: bd.inst,
	}
}

// UpdateProperty writes one property of an attached node. Nothing is written
// when value equals the committed value. A nil value removes the property.
// Updating a node that is not attached does nothing.
func (b *Binder) UpdateProperty(ctx context.Context, n *tree.Node, key string, value any) error {
	if n == nil {
		return errors.New("W303")
	}
	bd, ok := b.bindings[n.ID()]
	if !ok || bd.state != Attached {
		return nil
	}
	return b.update(bd, key, value)
}

func (b *Binder) update(bd *binding, key string, value any) error {
	if ignored(key) {
		b.logger.Debug("ignored property", "node", bd.node.ID(), "key", key)
		return nil
	}
	committed, had := bd.props[key]
	if had && tree.Equal(committed, value) {
		return nil
	}
	if !had && value == nil {
		return nil
	}

	if !b.host.Available() {
		commit(bd, key, value)
		return nil
	}

	n := bd.node
	if bd.inst != nil && n.Widget != nil && n.Widget.Handles(key) {
		if err := bd.inst.Update(key, value); err != nil {
			b.metrics.widgetError(n.Widget.Name(), "update")
			return errors.FromError(err, "W102").WithKey(key).WithWidget(n.Widget.Name())
		}
		b.metrics.wrote("widget")
		commit(bd, key, value)
		return nil
	}

	return b.write(bd, key, value)
}

// write puts one property on the element and commits it.
func (b *Binder) write(bd *binding, key string, value any) error {
	n := bd.node
	if ignored(key) {
		return nil
	}

	if key == tree.KeyText {
		if !n.Caps().Has(tree.CapText) {
			b.logger.Debug("ignored text on node without text", "node", n.ID(), "tag", n.Tag)
			return nil
		}
		text, _, err := tree.AttrValue(value)
		if err != nil {
			return withNode(err, n, key)
		}
		if err := b.host.SetText(bd.el, text); err != nil {
			return errors.FromError(err, "W202").WithTag(n.Tag).WithKey(key)
		}
		b.metrics.wrote("text")
		commit(bd, key, value)
		return nil
	}

	if !markup.IsValidAttrName(key) {
		b.logger.Debug("ignored invalid attribute name", "node", n.ID(), "key", key)
		return nil
	}

	attr, present, err := tree.AttrValue(value)
	if err != nil {
		return withNode(err, n, key)
	}
	if present {
		err = b.host.SetAttr(bd.el, key, attr)
		b.metrics.wrote("attr")
	} else {
		if _, wasPresent, _ := tree.AttrValue(bd.props[key]); wasPresent {
			err = b.host.RemoveAttr(bd.el, key)
			b.metrics.wrote("remove")
		}
	}
	if err != nil {
		return errors.FromError(err, "W202").WithTag(n.Tag).WithKey(key)
	}
	commit(bd, key, value)
	return nil
}

func withNode(err error, n *tree.Node, key string) error {
	var we *errors.WidgetError
	if stderrors.As(err, &we) {
		return we.WithTag(n.Tag).WithKey(key)
	}
	return err
}

func commit(bd *binding, key string, value any) {
	if value == nil {
		delete(bd.props, key)
		return
	}
	bd.props[key] = value
}

// ignored reports keys that never reach the host or the widget.
func ignored(key string) bool {
	return key == tree.KeyKey || markup.IsEventHandler(key)
}

// Detach releases n and its subtree. Hooks and widget disposal run in
// post-order, before the element is removed. Detaching a node that is not
// attached does nothing. Disposal failures are reported but the bindings are
// released regardless.
func (b *Binder) Detach(ctx context.Context, n *tree.Node) (err error) {
	if n == nil {
		return errors.New("W303")
	}
	bd, ok := b.bindings[n.ID()]
	if !ok {
		return nil
	}
	ctx, span := b.startSpan(ctx, "binder.Detach", n)
	defer func() { endSpan(span, err) }()

	if pb, ok := b.bindings[bd.parent]; ok {
		pb.children = withoutID(pb.children, n.ID())
	}
	return b.detach(ctx, bd, true)
}

func (b *Binder) detach(ctx context.Context, bd *binding, root bool) error {
	var errs []error
	for _, id := range bd.children {
		if cb, ok := b.bindings[id]; ok {
			if err := b.detach(ctx, cb, false); err != nil {
				errs = append(errs, err)
			}
		}
	}

	n := bd.node
	if b.host.Available() {
		if hook := n.OnRemoveHook(); hook != nil {
			if err := hook(ctx, b.ref(bd)); err != nil {
				errs = append(errs, errors.New("W304").WithTag(n.Tag).WithDetail("remove hook").Wrap(err))
			}
		}
		if bd.inst != nil {
			if en, ok := bd.inst.(widget.Enabler); ok {
				if err := en.Disable(); err != nil {
					b.metrics.widgetError(n.WidgetName(), "disable")
					errs = append(errs, errors.FromError(err, "W103").WithWidget(n.WidgetName()))
				}
			}
			if err := bd.inst.Dispose(); err != nil {
				b.metrics.widgetError(n.WidgetName(), "dispose")
				b.logger.Warn("widget dispose failed", "node", n.ID(), "widget", n.WidgetName(), "error", err)
				errs = append(errs, errors.FromError(err, "W103").WithWidget(n.WidgetName()))
			}
			b.metrics.instanceDisposed()
		}
		// Descendant elements go with their root.
		if root && bd.el != dom.None {
			if err := b.host.Remove(bd.el); err != nil {
				errs = append(errs, errors.FromError(err, "W203").WithTag(n.Tag))
			}
		}
	}

	id := n.ID()
	delete(b.bindings, id)
	if bd.el != dom.None {
		delete(b.byElement, bd.el)
	}
	b.detached[id] = struct{}{}
	bd.state = Detached
	bd.inst = nil
	bd.children = nil
	b.metrics.detached()
	b.logger.Debug("detached", "node", id, "tag", n.Tag, "element", bd.el)

	return stderrors.Join(errs...)
}

// DetachAll detaches every root binding.
func (b *Binder) DetachAll(ctx context.Context) error {
	var roots []tree.ID
	for id, bd := range b.bindings {
		if _, ok := b.bindings[bd.parent]; !ok {
			roots = append(roots, id)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	var errs []error
	for _, id := range roots {
		bd, ok := b.bindings[id]
		if !ok {
			continue
		}
		if err := b.Detach(ctx, bd.node); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// Apply commits one render pass: removals first, then insertions, then
// property changes diffed against the committed values. Every step runs;
// failures are joined.
func (b *Binder) Apply(ctx context.Context, p tree.Pass) (err error) {
	ctx, span := b.startPassSpan(ctx, p)
	start := time.Now()
	defer func() {
		b.metrics.pass(time.Since(start))
		endSpan(span, err)
	}()

	var errs []error
	for _, n := range p.Removed {
		if err := b.Detach(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	for _, n := range p.Inserted {
		if err := b.Attach(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	for _, n := range p.Changed {
		if n == nil {
			continue
		}
		bd, ok := b.bindings[n.ID()]
		if !ok || bd.state != Attached {
			continue
		}
		bd.node = n
		for _, c := range tree.DiffProps(bd.props, n.Props) {
			value := c.Value
			if c.Removed {
				value = nil
			}
			if err := b.update(bd, c.Key, value); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return stderrors.Join(errs...)
}

func sortedKeys(props tree.Props) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func withoutID(ids []tree.ID, id tree.ID) []tree.ID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
