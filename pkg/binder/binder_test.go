package binder

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vango-dev/widgetkit/internal/errors"
	"github.com/vango-dev/widgetkit/pkg/dom"
	"github.com/vango-dev/widgetkit/pkg/tree"
	"github.com/vango-dev/widgetkit/pkg/widget"
	"github.com/vango-dev/widgetkit/pkg/widget/bootstrap"
)

// countingFactory records every instance it creates.
type countingFactory struct {
	created   int
	instances []*countingInstance
	failNew   error
	failClose error
	log       *[]string
}

func (f *countingFactory) Name() string            { return "counting" }
func (f *countingFactory) Handles(key string) bool { return key == "value" }

func (f *countingFactory) New(host dom.Host, el dom.Element, cfg widget.Config) (widget.Instance, error) {
	if f.failNew != nil {
		return nil, f.failNew
	}
	f.created++
	inst := &countingInstance{cfg: cfg, failClose: f.failClose, log: f.log}
	f.instances = append(f.instances, inst)
	return inst, nil
}

type countingInstance struct {
	cfg       widget.Config
	updates   []string
	enabled   bool
	disposed  int
	failClose error
	log       *[]string
}

func (i *countingInstance) Update(key string, value any) error {
	i.updates = append(i.updates, key)
	i.cfg[key] = value
	return nil
}

func (i *countingInstance) Enable() error {
	i.enabled = true
	return nil
}

func (i *countingInstance) Disable() error {
	i.enabled = false
	i.record("disable")
	return nil
}

func (i *countingInstance) Dispose() error {
	i.disposed++
	i.record("dispose")
	return i.failClose
}

func (i *countingInstance) record(s string) {
	if i.log != nil {
		*i.log = append(*i.log, s)
	}
}

func newBinder(t *testing.T) (*Binder, *dom.Memory) {
	t.Helper()
	m := dom.NewMemory()
	return New(m), m
}

func mustAttach(t *testing.T, b *Binder, n *tree.Node) {
	t.Helper()
	if err := b.Attach(context.Background(), n); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
}

func TestAttachCreatesElement(t *testing.T) {
	b, m := newBinder(t)
	n := tree.El("div", tree.Class("box"), tree.Prop("id", "main"),
		tree.El("span", "hello"),
	)
	mustAttach(t, b, n)

	el, ok := b.Element(n)
	if !ok {
		t.Fatal("Element() not found after attach")
	}
	want := `<div class="box" id="main"><span>hello</span></div>`
	if got := m.OuterHTML(el); got != want {
		t.Errorf("OuterHTML() = %q, want %q", got, want)
	}
	if got := b.State(n); got != Attached {
		t.Errorf("State() = %v, want attached", got)
	}
	if got := b.State(n.Children[0]); got != Attached {
		t.Errorf("child State() = %v, want attached", got)
	}
	if b.Len() != 2 {
		t.Errorf("Len() = %d, want 2", b.Len())
	}
}

func TestAttachIsIdempotent(t *testing.T) {
	b, m := newBinder(t)
	f := &countingFactory{}
	n := tree.El("div", tree.WithWidget(f), tree.Prop("value", 1))

	mustAttach(t, b, n)
	created, writes := m.Created(), m.Writes()
	mustAttach(t, b, n)

	if f.created != 1 {
		t.Errorf("instances created = %d, want 1", f.created)
	}
	if m.Created() != created || m.Writes() != writes {
		t.Errorf("second attach touched the host: created %d→%d, writes %d→%d",
			created, m.Created(), writes, m.Writes())
	}
	if f.instances[0].cfg.Raw("value") != 1 {
		t.Errorf("widget config = %v", f.instances[0].cfg)
	}
}

func TestDetachReleasesEverything(t *testing.T) {
	b, m := newBinder(t)
	f := &countingFactory{}
	n := tree.El("div", tree.WithWidget(f), tree.El("span", "x"))
	mustAttach(t, b, n)
	el, _ := b.Element(n)

	if err := b.Detach(context.Background(), n); err != nil {
		t.Fatalf("Detach() error = %v", err)
	}

	if _, ok := b.InstanceFor(el); ok {
		t.Error("InstanceFor() found an instance after detach")
	}
	if _, ok := b.Instance(n); ok {
		t.Error("Instance() found an instance after detach")
	}
	if _, ok := b.Element(n); ok {
		t.Error("Element() found an element after detach")
	}
	if m.Exists(el) {
		t.Error("element still in the host after detach")
	}
	if m.Len() != 0 {
		t.Errorf("host holds %d elements, want 0", m.Len())
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
	if f.instances[0].disposed != 1 {
		t.Errorf("disposed = %d, want 1", f.instances[0].disposed)
	}
	if b.State(n) != Detached || b.State(n.Children[0]) != Detached {
		t.Errorf("states = %v, %v", b.State(n), b.State(n.Children[0]))
	}
}

func TestDetachRunsOnce(t *testing.T) {
	b, _ := newBinder(t)
	f := &countingFactory{}
	n := tree.El("div", tree.WithWidget(f))
	mustAttach(t, b, n)

	ctx := context.Background()
	if err := b.Detach(ctx, n); err != nil {
		t.Fatal(err)
	}
	if err := b.Detach(ctx, n); err != nil {
		t.Errorf("second Detach() error = %v", err)
	}
	if f.instances[0].disposed != 1 {
		t.Errorf("disposed = %d, want 1", f.instances[0].disposed)
	}
}

func TestDetachUnattachedIsNoop(t *testing.T) {
	b, m := newBinder(t)
	if err := b.Detach(context.Background(), tree.El("div")); err != nil {
		t.Errorf("Detach() error = %v", err)
	}
	if m.Writes() != 0 {
		t.Errorf("Writes() = %d, want 0", m.Writes())
	}
}

func TestAttachAfterDetach(t *testing.T) {
	b, _ := newBinder(t)
	n := tree.El("div")
	mustAttach(t, b, n)
	if err := b.Detach(context.Background(), n); err != nil {
		t.Fatal(err)
	}

	err := b.Attach(context.Background(), n)
	if errors.Code(err) != "W301" {
		t.Errorf("Attach() error = %v, want W301", err)
	}
	if b.State(n) != Detached {
		t.Errorf("State() = %v, want detached", b.State(n))
	}
}

func TestAttachRequiresAttachedParent(t *testing.T) {
	b, _ := newBinder(t)
	child := tree.El("span")
	tree.El("div", child)

	err := b.Attach(context.Background(), child)
	if errors.Code(err) != "W302" {
		t.Errorf("Attach() error = %v, want W302", err)
	}
}

func TestAttachNil(t *testing.T) {
	b, _ := newBinder(t)
	if err := b.Attach(context.Background(), nil); errors.Code(err) != "W303" {
		t.Errorf("Attach(nil) error = %v, want W303", err)
	}
	if err := b.Detach(context.Background(), nil); errors.Code(err) != "W303" {
		t.Errorf("Detach(nil) error = %v, want W303", err)
	}
}

func TestUpdateUnchangedWritesNothing(t *testing.T) {
	b, m := newBinder(t)
	n := tree.El("div", tree.Prop("title", "a"), "text")
	mustAttach(t, b, n)

	ctx := context.Background()
	writes := m.Writes()
	if err := b.UpdateProperty(ctx, n, "title", "a"); err != nil {
		t.Fatal(err)
	}
	if err := b.UpdateProperty(ctx, n, tree.KeyText, "text"); err != nil {
		t.Fatal(err)
	}
	if m.Writes() != writes {
		t.Errorf("Writes() = %d, want %d", m.Writes(), writes)
	}

	if err := b.UpdateProperty(ctx, n, "title", "b"); err != nil {
		t.Fatal(err)
	}
	if m.Writes() != writes+1 {
		t.Errorf("Writes() = %d, want %d", m.Writes(), writes+1)
	}
	el, _ := b.Element(n)
	if v, _ := m.Attr(el, "title"); v != "b" {
		t.Errorf("title = %q, want b", v)
	}
}

func TestUpdateProperty(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		node    func() *tree.Node
		key     string
		prior   []any // values set before value
		value   any
		want    string
		wantErr string
		noWrite bool // the final update must not reach the host
	}{
		{
			name:  "set attribute",
			node:  func() *tree.Node { return tree.El("div") },
			key:   "title",
			value: "hi",
			want:  `<div title="hi"></div>`,
		},
		{
			name:  "nil removes",
			node:  func() *tree.Node { return tree.El("div", tree.Prop("title", "hi")) },
			key:   "title",
			value: nil,
			want:  `<div></div>`,
		},
		{
			name:  "false removes boolean",
			node:  func() *tree.Node { return tree.El("button", tree.Prop("disabled", true)) },
			key:   "disabled",
			value: false,
			want:  `<button></button>`,
		},
		{
			name:    "nil after false does not remove again",
			node:    func() *tree.Node { return tree.El("input", tree.Prop("disabled", true)) },
			key:     "disabled",
			prior:   []any{false},
			value:   nil,
			want:    `<input>`,
			noWrite: true,
		},
		{
			name:    "true after false on absent attribute",
			node:    func() *tree.Node { return tree.El("input") },
			key:     "disabled",
			prior:   []any{false},
			value:   true,
			want:    `<input disabled>`,
		},
		{
			name:  "number",
			node:  func() *tree.Node { return tree.El("input") },
			key:   "maxlength",
			value: 12,
			want:  `<input maxlength="12">`,
		},
		{
			name:  "text",
			node:  func() *tree.Node { return tree.El("p") },
			key:   tree.KeyText,
			value: "a < b",
			want:  `<p>a &lt; b</p>`,
		},
		{
			name:  "text ignored on void element",
			node:  func() *tree.Node { return tree.El("br") },
			key:   tree.KeyText,
			value: "x",
			want:  `<br>`,
		},
		{
			name:  "event handler ignored",
			node:  func() *tree.Node { return tree.El("div") },
			key:   "onclick",
			value: "alert(1)",
			want:  `<div></div>`,
		},
		{
			name:  "invalid name ignored",
			node:  func() *tree.Node { return tree.El("div") },
			key:   "a b",
			value: "x",
			want:  `<div></div>`,
		},
		{
			name:    "func rejected",
			node:    func() *tree.Node { return tree.El("div") },
			key:     "title",
			value:   func() {},
			want:    `<div></div>`,
			wantErr: "W002",
		},
		{
			name:    "map rejected",
			node:    func() *tree.Node { return tree.El("div") },
			key:     "title",
			value:   map[string]int{"a": 1},
			want:    `<div></div>`,
			wantErr: "W002",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, m := newBinder(t)
			n := tt.node()
			mustAttach(t, b, n)
			for _, v := range tt.prior {
				if err := b.UpdateProperty(ctx, n, tt.key, v); err != nil {
					t.Fatalf("prior update %v: %v", v, err)
				}
			}

			writes := m.Writes()
			err := b.UpdateProperty(ctx, n, tt.key, tt.value)
			if tt.noWrite && m.Writes() != writes {
				t.Errorf("Writes() grew by %d, want 0", m.Writes()-writes)
			}
			if tt.wantErr != "" {
				if errors.Code(err) != tt.wantErr {
					t.Fatalf("error = %v, want %s", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("error = %v", err)
			}

			el, _ := b.Element(n)
			if got := m.OuterHTML(el); got != tt.want {
				t.Errorf("OuterHTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUpdateUnattachedIsNoop(t *testing.T) {
	b, m := newBinder(t)
	n := tree.El("div")
	if err := b.UpdateProperty(context.Background(), n, "title", "x"); err != nil {
		t.Errorf("UpdateProperty() error = %v", err)
	}
	if m.Writes() != 0 {
		t.Errorf("Writes() = %d, want 0", m.Writes())
	}
}

func TestUpdateForwardsWidgetKeys(t *testing.T) {
	b, m := newBinder(t)
	f := &countingFactory{}
	n := tree.El("div", tree.WithWidget(f), tree.Prop("value", 1))
	mustAttach(t, b, n)

	writes := m.Writes()
	ctx := context.Background()
	if err := b.UpdateProperty(ctx, n, "value", 1); err != nil {
		t.Fatal(err)
	}
	if err := b.UpdateProperty(ctx, n, "value", 2); err != nil {
		t.Fatal(err)
	}

	inst := f.instances[0]
	if len(inst.updates) != 1 || inst.updates[0] != "value" {
		t.Errorf("updates = %v, want [value]", inst.updates)
	}
	if m.Writes() != writes {
		t.Errorf("widget key reached the DOM: writes %d→%d", writes, m.Writes())
	}
	el, _ := b.Element(n)
	if _, ok := m.Attr(el, "value"); ok {
		t.Error("widget key written as attribute")
	}
}

func TestPopoverScenario(t *testing.T) {
	b, m := newBinder(t)
	n := tree.El("button",
		tree.WithWidget(bootstrap.PopoverFactory{}),
		tree.Prop(bootstrap.KeyTitle, "T"),
		tree.Prop(bootstrap.KeyContent, "C"),
		"Open",
	)
	mustAttach(t, b, n)

	el, _ := b.Element(n)
	inst, ok := b.InstanceFor(el)
	if !ok {
		t.Fatal("InstanceFor() found no instance")
	}
	p, ok := inst.(*bootstrap.Popover)
	if !ok {
		t.Fatalf("instance is %T, want *bootstrap.Popover", inst)
	}
	if p.Title() != "T" || p.Content() != "C" {
		t.Errorf("Title, Content = %q, %q; want T, C", p.Title(), p.Content())
	}
	if v, _ := m.Attr(el, "data-bs-toggle"); v != "popover" {
		t.Errorf("data-bs-toggle = %q, want popover", v)
	}
	if _, ok := m.Attr(el, bootstrap.KeyContent); ok {
		t.Error("content written as a plain attribute")
	}

	if err := b.Detach(context.Background(), n); err != nil {
		t.Fatal(err)
	}
	if _, ok := b.InstanceFor(el); ok {
		t.Error("InstanceFor() found an instance after detach")
	}
	if !p.Disposed() {
		t.Error("popover not disposed")
	}
}

func TestPopoverUpdateContent(t *testing.T) {
	b, m := newBinder(t)
	n := tree.El("button",
		tree.WithWidget(bootstrap.PopoverFactory{}),
		tree.Prop(bootstrap.KeyContent, "C"),
	)
	mustAttach(t, b, n)

	if err := b.UpdateProperty(context.Background(), n, bootstrap.KeyContent, "D"); err != nil {
		t.Fatal(err)
	}
	inst, _ := b.Instance(n)
	if got := inst.(*bootstrap.Popover).Content(); got != "D" {
		t.Errorf("Content() = %q, want D", got)
	}
	el, _ := b.Element(n)
	if v, _ := m.Attr(el, "data-bs-content"); v != "D" {
		t.Errorf("data-bs-content = %q, want D", v)
	}
}

func TestTextWrapper(t *testing.T) {
	b, m := newBinder(t)
	n := tree.El("span", tree.Text("hello"))
	mustAttach(t, b, n)

	if got := m.InnerHTML(dom.None); got != "<span>hello</span>" {
		t.Errorf("InnerHTML() = %q, want <span>hello</span>", got)
	}
}

func TestNonDOMHost(t *testing.T) {
	f := &countingFactory{}
	var hooks int
	hook := func(context.Context, tree.Ref) error {
		hooks++
		return nil
	}
	n := tree.El("div", tree.WithWidget(f), tree.OnInsert(hook), tree.OnRemove(hook),
		tree.El("span", "x"),
	)

	b := New(dom.Null{})
	ctx := context.Background()
	if err := b.Attach(ctx, n); err != nil {
		t.Fatal(err)
	}
	if b.State(n) != Attached {
		t.Errorf("State() = %v, want attached", b.State(n))
	}
	if _, ok := b.Element(n); ok {
		t.Error("Element() found an element without a DOM")
	}
	if err := b.UpdateProperty(ctx, n, "title", "x"); err != nil {
		t.Fatal(err)
	}
	if err := b.Detach(ctx, n); err != nil {
		t.Fatal(err)
	}
	if b.State(n) != Detached || b.State(n.Children[0]) != Detached {
		t.Errorf("states = %v, %v", b.State(n), b.State(n.Children[0]))
	}
	if f.created != 0 {
		t.Errorf("widgets created = %d, want 0", f.created)
	}
	if hooks != 0 {
		t.Errorf("hooks ran %d times, want 0", hooks)
	}
}

func TestNilHostIsNull(t *testing.T) {
	b := New(nil)
	if b.Host().Available() {
		t.Error("nil host reported available")
	}
}

func TestFailedInstantiation(t *testing.T) {
	b, m := newBinder(t)
	cause := stderrors.New("boom")
	n := tree.El("div", tree.WithWidget(&countingFactory{failNew: cause}))

	err := b.Attach(context.Background(), n)
	if errors.Code(err) != "W101" {
		t.Fatalf("Attach() error = %v, want W101", err)
	}
	if !stderrors.Is(err, cause) {
		t.Error("error does not wrap the widget failure")
	}
	if b.State(n) != Unattached {
		t.Errorf("State() = %v, want unattached", b.State(n))
	}
	if m.Len() != 0 {
		t.Errorf("host holds %d elements, want 0", m.Len())
	}
}

func TestFailedPopoverLeavesNoElement(t *testing.T) {
	b, m := newBinder(t)
	n := tree.El("button", tree.WithWidget(bootstrap.PopoverFactory{}), tree.Prop(bootstrap.KeyTitle, "T"))

	err := b.Attach(context.Background(), n)
	if errors.Code(err) != "W003" {
		t.Fatalf("Attach() error = %v, want W003", err)
	}
	if m.Len() != 0 {
		t.Errorf("host holds %d elements, want 0", m.Len())
	}
}

func TestDisposeFailureStillReleases(t *testing.T) {
	b, m := newBinder(t)
	f := &countingFactory{failClose: stderrors.New("stuck")}
	n := tree.El("div", tree.WithWidget(f))
	mustAttach(t, b, n)
	el, _ := b.Element(n)

	err := b.Detach(context.Background(), n)
	if errors.Code(err) != "W103" {
		t.Fatalf("Detach() error = %v, want W103", err)
	}
	if _, ok := b.InstanceFor(el); ok {
		t.Error("InstanceFor() found an instance after failed dispose")
	}
	if m.Exists(el) {
		t.Error("element kept after failed dispose")
	}
}

func TestDetachOrder(t *testing.T) {
	b, _ := newBinder(t)
	var log []string
	remove := func(name string) tree.HookFunc {
		return func(_ context.Context, ref tree.Ref) error {
			log = append(log, "remove:"+name)
			if ref.Host == nil || ref.Element == dom.None {
				t.Errorf("hook %s ran without a live element", name)
			}
			return nil
		}
	}
	f := &countingFactory{log: &log}
	n := tree.El("div", tree.OnRemove(remove("parent")), tree.WithWidget(f),
		tree.El("span", tree.OnRemove(remove("child"))),
	)
	mustAttach(t, b, n)

	if err := b.Detach(context.Background(), n); err != nil {
		t.Fatal(err)
	}
	want := "remove:child,remove:parent,disable,dispose"
	if got := strings.Join(log, ","); got != want {
		t.Errorf("order = %s, want %s", got, want)
	}
}

func TestInsertHookAndEnable(t *testing.T) {
	b, _ := newBinder(t)
	f := &countingFactory{}
	var got tree.Ref
	n := tree.El("div", tree.WithWidget(f), tree.OnInsert(func(_ context.Context, ref tree.Ref) error {
		got = ref
		return nil
	}))
	mustAttach(t, b, n)

	if got.Node != n || got.Instance == nil || got.Element == dom.None {
		t.Errorf("insert hook ref = %+v", got)
	}
	if !f.instances[0].enabled {
		t.Error("widget not enabled after insert")
	}
}

func TestInsertHookError(t *testing.T) {
	b, _ := newBinder(t)
	n := tree.El("div", tree.OnInsert(func(context.Context, tree.Ref) error {
		return stderrors.New("nope")
	}))
	if err := b.Attach(context.Background(), n); errors.Code(err) != "W304" {
		t.Errorf("Attach() error = %v, want W304", err)
	}
}

func TestApplyPass(t *testing.T) {
	b, m := newBinder(t)
	ctx := context.Background()

	prev := tree.El("ul",
		tree.El("li", tree.Key("a"), "A"),
		tree.El("li", tree.Key("b"), "B"),
	)
	mustAttach(t, b, prev)
	removed := prev.Children[1]
	removedEl, _ := b.Element(removed)

	next := tree.El("ul", tree.Class("list"),
		tree.El("li", tree.Key("a"), "A2"),
		tree.El("li", tree.Key("c"), "C"),
	)
	pass := tree.Reconcile(prev, next)
	if err := b.Apply(ctx, pass); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	root, _ := b.Element(next)
	want := `<ul class="list"><li>A2</li><li>C</li></ul>`
	if got := m.OuterHTML(root); got != want {
		t.Errorf("OuterHTML() = %q, want %q", got, want)
	}
	if m.Exists(removedEl) {
		t.Error("removed element still in the host")
	}
	if b.State(removed) != Detached {
		t.Errorf("removed State() = %v", b.State(removed))
	}
	if b.State(next.Children[1]) != Attached {
		t.Errorf("inserted State() = %v", b.State(next.Children[1]))
	}

	writes := m.Writes()
	if err := b.Apply(ctx, tree.Reconcile(next, next)); err != nil {
		t.Fatal(err)
	}
	if m.Writes() != writes {
		t.Errorf("empty pass wrote %d times", m.Writes()-writes)
	}
}

// opLog wraps a Memory host and records structural operations in order.
type opLog struct {
	*dom.Memory
	ops []string
}

func (o *opLog) CreateElement(tag string) (dom.Element, error) {
	o.ops = append(o.ops, "create:"+tag)
	return o.Memory.CreateElement(tag)
}

func (o *opLog) Remove(el dom.Element) error {
	o.ops = append(o.ops, "remove:"+o.Memory.Tag(el))
	return o.Memory.Remove(el)
}

func TestApplyRemovalBeforeInsert(t *testing.T) {
	host := &opLog{Memory: dom.NewMemory()}
	b := New(host)
	ctx := context.Background()

	prev := tree.El("div", tree.El("p", "old"))
	mustAttach(t, b, prev)
	host.ops = nil

	next := tree.El("div", tree.El("span", "new"))
	if err := b.Apply(ctx, tree.Reconcile(prev, next)); err != nil {
		t.Fatal(err)
	}

	want := "remove:p,create:span"
	if got := strings.Join(host.ops, ","); got != want {
		t.Errorf("ops = %s, want %s", got, want)
	}
	root, _ := b.Element(next)
	if got := host.OuterHTML(root); got != "<div><span>new</span></div>" {
		t.Errorf("OuterHTML() = %q", got)
	}
	if b.Len() != 2 {
		t.Errorf("Len() = %d, want 2", b.Len())
	}
}

func TestDetachAll(t *testing.T) {
	b, m := newBinder(t)
	f := &countingFactory{}
	a := tree.El("div", tree.WithWidget(f), tree.El("span"))
	c := tree.El("p")
	mustAttach(t, b, a)
	mustAttach(t, b, c)

	if err := b.DetachAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 0 || m.Len() != 0 {
		t.Errorf("Len() = %d, host Len() = %d; want 0, 0", b.Len(), m.Len())
	}
	if f.instances[0].disposed != 1 {
		t.Errorf("disposed = %d, want 1", f.instances[0].disposed)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(WithRegistry(reg), WithNamespace("test"))
	b := New(dom.NewMemory(), WithMetrics(metrics))
	ctx := context.Background()

	f := &countingFactory{}
	n := tree.El("div", tree.WithWidget(f), tree.Prop("title", "a"), tree.El("span", "x"))
	if err := b.Attach(ctx, n); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(metrics.attaches); got != 2 {
		t.Errorf("attaches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.instances); got != 1 {
		t.Errorf("instances = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.writes.WithLabelValues("text")); got != 1 {
		t.Errorf("text writes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.bindingsGauge); got != 2 {
		t.Errorf("bindings = %v, want 2", got)
	}

	if err := b.Apply(ctx, tree.Pass{Removed: []*tree.Node{n}}); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(metrics.detaches); got != 2 {
		t.Errorf("detaches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.instances); got != 0 {
		t.Errorf("instances = %v, want 0", got)
	}
	if got := testutil.CollectAndCount(metrics.passDuration); got != 1 {
		t.Errorf("pass duration series = %d, want 1", got)
	}
}

func TestMetricsSharedBetweenBinders(t *testing.T) {
	metrics := NewMetrics(WithRegistry(prometheus.NewRegistry()))
	ctx := context.Background()
	a := New(dom.NewMemory(), WithMetrics(metrics))
	b := New(dom.NewMemory(), WithMetrics(metrics))

	mustAttach(t, a, tree.El("ul", tree.El("li", "1"), tree.El("li", "2")))
	single := tree.El("p", "x")
	mustAttach(t, b, single)

	if got, live := testutil.ToFloat64(metrics.bindingsGauge), a.Len()+b.Len(); got != float64(live) {
		t.Fatalf("bindings = %v, want %d", got, live)
	}

	if err := b.Detach(ctx, single); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(metrics.bindingsGauge); got != 3 {
		t.Errorf("bindings after detach = %v, want 3", got)
	}
	if err := a.DetachAll(ctx); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(metrics.bindingsGauge); got != 0 {
		t.Errorf("bindings after DetachAll = %v, want 0", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.attached()
	m.detached()
	m.wrote("attr")
	m.instanceCreated()
	m.instanceDisposed()
	m.widgetError("x", "new")
	m.pass(0)
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{Unattached, "unattached"},
		{Attached, "attached"},
		{Detached, "detached"},
		{State(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
