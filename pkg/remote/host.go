package remote

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/vango-dev/widgetkit/internal/errors"
	"github.com/vango-dev/widgetkit/internal/markup"
	"github.com/vango-dev/widgetkit/pkg/dom"
	"github.com/vango-dev/widgetkit/pkg/protocol"
)

type remoteElement struct {
	tag      string
	parent   dom.Element
	linked   bool
	children []dom.Element
}

// Host records DOM calls as protocol operations for a remote client. It
// keeps just enough of the tree to validate handles and to release a
// removed subtree.
type Host struct {
	mu       sync.Mutex
	next     dom.Element
	elements map[dom.Element]*remoteElement
	pending  []protocol.Op
}

// NewHost creates an empty remote host.
func NewHost() *Host {
	return &Host{elements: make(map[dom.Element]*remoteElement)}
}

// Available implements dom.Host.
func (h *Host) Available() bool { return true }

// CreateElement implements dom.Host.
func (h *Host) CreateElement(tag string) (dom.Element, error) {
	if tag == "" || !markup.IsValidAttrName(tag) {
		return dom.None, errors.New("W201").WithTag(tag).WithDetail("invalid tag name")
	}
	tag = strings.ToLower(tag)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	el := h.next
	h.elements[el] = &remoteElement{tag: tag}
	h.pending = append(h.pending, protocol.Op{Kind: protocol.OpCreate, Element: uint64(el), Name: tag})
	return el, nil
}

// SetAttr implements dom.Host.
func (h *Host) SetAttr(el dom.Element, key, value string) error {
	return h.record(el, protocol.Op{Kind: protocol.OpSetAttr, Name: key, Value: value})
}

// RemoveAttr implements dom.Host.
func (h *Host) RemoveAttr(el dom.Element, key string) error {
	return h.record(el, protocol.Op{Kind: protocol.OpRemoveAttr, Name: key})
}

// SetText implements dom.Host.
func (h *Host) SetText(el dom.Element, text string) error {
	return h.record(el, protocol.Op{Kind: protocol.OpSetText, Value: text})
}

// Append implements dom.Host.
func (h *Host) Append(parent, child dom.Element) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.elements[child]
	if !ok {
		return unknown(child)
	}
	if parent != dom.None {
		if _, ok := h.elements[parent]; !ok {
			return unknown(parent)
		}
	}
	if c.linked {
		h.unlink(child, c)
	}
	if parent != dom.None {
		p := h.elements[parent]
		p.children = append(p.children, child)
	}
	c.parent = parent
	c.linked = true
	h.pending = append(h.pending, protocol.Op{Kind: protocol.OpAppend, Element: uint64(child), Parent: uint64(parent)})
	return nil
}

// Remove implements dom.Host.
func (h *Host) Remove(el dom.Element) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, ok := h.elements[el]
	if !ok {
		return unknown(el)
	}
	if e.linked {
		h.unlink(el, e)
	}
	h.release(el)
	h.pending = append(h.pending, protocol.Op{Kind: protocol.OpRemove, Element: uint64(el)})
	return nil
}

// Dispatch implements dom.Host.
func (h *Host) Dispatch(el dom.Element, event string, detail map[string]any) error {
	var raw json.RawMessage
	if len(detail) > 0 {
		data, err := json.Marshal(detail)
		if err != nil {
			return errors.FromError(err, "W202").WithDetail("dispatch detail is not JSON encodable")
		}
		raw = data
	}
	return h.record(el, protocol.Op{Kind: protocol.OpDispatch, Name: event, Detail: raw})
}

// Take returns the operations recorded since the last call and resets the
// queue.
func (h *Host) Take() []protocol.Op {
	h.mu.Lock()
	defer h.mu.Unlock()
	ops := h.pending
	h.pending = nil
	return ops
}

// Pending returns the number of queued operations.
func (h *Host) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pending)
}

// Len returns the number of live elements.
func (h *Host) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.elements)
}

// Exists reports whether el is a live element.
func (h *Host) Exists(el dom.Element) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.elements[el]
	return ok
}

func (h *Host) record(el dom.Element, op protocol.Op) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.elements[el]; !ok {
		return unknown(el)
	}
	op.Element = uint64(el)
	h.pending = append(h.pending, op)
	return nil
}

func (h *Host) unlink(el dom.Element, e *remoteElement) {
	if p, ok := h.elements[e.parent]; ok {
		for i, c := range p.children {
			if c == el {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	e.parent = dom.None
	e.linked = false
}

func (h *Host) release(el dom.Element) {
	e, ok := h.elements[el]
	if !ok {
		return
	}
	for _, c := range e.children {
		h.release(c)
	}
	delete(h.elements, el)
}

func unknown(el dom.Element) error {
	return errors.New("W204").WithDetail("no element " + el.String())
}
