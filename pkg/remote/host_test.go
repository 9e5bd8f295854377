package remote

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/vango-dev/widgetkit/internal/errors"
	"github.com/vango-dev/widgetkit/pkg/binder"
	"github.com/vango-dev/widgetkit/pkg/dom"
	"github.com/vango-dev/widgetkit/pkg/protocol"
	"github.com/vango-dev/widgetkit/pkg/tree"
)

var _ dom.Host = (*Host)(nil)

func kinds(ops []protocol.Op) []protocol.OpKind {
	out := make([]protocol.OpKind, len(ops))
	for i, op := range ops {
		out[i] = op.Kind
	}
	return out
}

func equalKinds(a, b []protocol.OpKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestHostRecordsAttach(t *testing.T) {
	h := NewHost()
	b := binder.New(h)
	root := tree.El("div", tree.Class("a"), tree.El("span", "hi"))

	if err := b.Attach(context.Background(), root); err != nil {
		t.Fatal(err)
	}

	ops := h.Take()
	want := []protocol.OpKind{
		protocol.OpCreate, protocol.OpSetAttr, protocol.OpAppend,
		protocol.OpCreate, protocol.OpSetText, protocol.OpAppend,
	}
	if !equalKinds(kinds(ops), want) {
		t.Fatalf("ops = %v, want %v", kinds(ops), want)
	}
	if ops[0].Name != "div" || ops[1].Name != "class" || ops[1].Value != "a" {
		t.Errorf("div ops = %+v %+v", ops[0], ops[1])
	}
	if ops[2].Parent != 0 {
		t.Errorf("root appended to %d, want host root", ops[2].Parent)
	}
	if ops[5].Parent != ops[0].Element || ops[4].Value != "hi" {
		t.Errorf("span ops = %+v %+v", ops[4], ops[5])
	}
	if h.Pending() != 0 {
		t.Errorf("Pending() after Take = %d", h.Pending())
	}
}

func TestHostRemoveReleasesSubtree(t *testing.T) {
	h := NewHost()
	b := binder.New(h)
	root := tree.El("ul", tree.El("li", "a"), tree.El("li", "b"))
	ctx := context.Background()

	if err := b.Attach(ctx, root); err != nil {
		t.Fatal(err)
	}
	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	h.Take()

	if err := b.Detach(ctx, root); err != nil {
		t.Fatal(err)
	}
	if h.Len() != 0 {
		t.Errorf("Len() after detach = %d, want 0", h.Len())
	}
	ops := h.Take()
	if len(ops) != 1 || ops[0].Kind != protocol.OpRemove {
		t.Errorf("detach ops = %v, want a single remove", kinds(ops))
	}
}

func TestHostUnknownElement(t *testing.T) {
	h := NewHost()
	calls := map[string]error{
		"SetAttr":    h.SetAttr(9, "k", "v"),
		"RemoveAttr": h.RemoveAttr(9, "k"),
		"SetText":    h.SetText(9, "x"),
		"Append":     h.Append(dom.None, 9),
		"Remove":     h.Remove(9),
		"Dispatch":   h.Dispatch(9, "show", nil),
	}
	for name, err := range calls {
		if errors.Code(err) != "W204" {
			t.Errorf("%s error = %v, want W204", name, err)
		}
	}
	if h.Pending() != 0 {
		t.Errorf("failed calls queued %d ops", h.Pending())
	}
}

func TestHostInvalidTag(t *testing.T) {
	h := NewHost()
	if _, err := h.CreateElement("bad tag"); errors.Code(err) != "W201" {
		t.Errorf("CreateElement error = %v, want W201", err)
	}
}

func TestHostDispatchDetail(t *testing.T) {
	h := NewHost()
	el, err := h.CreateElement("button")
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Dispatch(el, "popover:show", map[string]any{"delay": 100}); err != nil {
		t.Fatal(err)
	}
	ops := h.Take()
	op := ops[len(ops)-1]
	if op.Kind != protocol.OpDispatch || op.Name != "popover:show" {
		t.Fatalf("op = %+v", op)
	}
	var detail map[string]int
	if err := json.Unmarshal(op.Detail, &detail); err != nil || detail["delay"] != 100 {
		t.Errorf("detail = %s (%v)", op.Detail, err)
	}

	if err := h.Dispatch(el, "bad", map[string]any{"fn": func() {}}); errors.Code(err) != "W202" {
		t.Errorf("unencodable detail error = %v, want W202", err)
	}
}

func TestHostOpsRoundTripFrames(t *testing.T) {
	h := NewHost()
	b := binder.New(h)
	if err := b.Attach(context.Background(), tree.El("p", "text")); err != nil {
		t.Fatal(err)
	}
	ops := h.Take()

	frames, err := protocol.OpFrames(ops)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 1 || !frames[0].Flags.Has(protocol.FlagFinal) {
		t.Fatalf("frames = %d, final = %v", len(frames), frames[0].Flags)
	}
	decoded, err := protocol.DecodeOps(frames[0].Payload)
	if err != nil {
		t.Fatal(err)
	}
	if !equalKinds(kinds(decoded), kinds(ops)) {
		t.Errorf("decoded = %v, want %v", kinds(decoded), kinds(ops))
	}
}
