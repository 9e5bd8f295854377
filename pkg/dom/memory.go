package dom

import (
	"sort"
	"strings"

	"github.com/vango-dev/widgetkit/internal/errors"
	"github.com/vango-dev/widgetkit/internal/markup"
)

// Call is one recorded Dispatch.
type Call struct {
	Element Element
	Event   string
	Detail  map[string]any
}

type memElement struct {
	tag      string
	attrs    map[string]string
	text     string
	parent   Element
	linked   bool
	children []Element
}

// Memory is an in-process DOM. It counts every mutation so callers can
// assert on write traffic, and serializes its tree back to HTML.
//
// Memory is not safe for concurrent use.
type Memory struct {
	next     Element
	elements map[Element]*memElement
	root     []Element

	created int
	writes  int
	calls   []Call
}

// NewMemory creates an empty in-memory DOM.
func NewMemory() *Memory {
	return &Memory{elements: make(map[Element]*memElement)}
}

// Available implements Host.
func (m *Memory) Available() bool { return true }

// CreateElement implements Host.
func (m *Memory) CreateElement(tag string) (Element, error) {
	if tag == "" || !markup.IsValidAttrName(tag) {
		return None, errors.New("W201").WithTag(tag).WithDetail("invalid tag name")
	}
	m.next++
	m.elements[m.next] = &memElement{
		tag:   strings.ToLower(tag),
		attrs: make(map[string]string),
	}
	m.created++
	return m.next, nil
}

func (m *Memory) lookup(el Element) (*memElement, error) {
	e, ok := m.elements[el]
	if !ok {
		return nil, errors.New("W204").WithDetail("no element " + el.String())
	}
	return e, nil
}

// SetAttr implements Host.
func (m *Memory) SetAttr(el Element, key, value string) error {
	e, err := m.lookup(el)
	if err != nil {
		return err
	}
	e.attrs[key] = value
	m.writes++
	return nil
}

// RemoveAttr implements Host.
func (m *Memory) RemoveAttr(el Element, key string) error {
	e, err := m.lookup(el)
	if err != nil {
		return err
	}
	delete(e.attrs, key)
	m.writes++
	return nil
}

// SetText implements Host.
func (m *Memory) SetText(el Element, text string) error {
	e, err := m.lookup(el)
	if err != nil {
		return err
	}
	e.text = text
	m.writes++
	return nil
}

// Append implements Host.
func (m *Memory) Append(parent, child Element) error {
	c, err := m.lookup(child)
	if err != nil {
		return err
	}
	if parent != None {
		if _, err := m.lookup(parent); err != nil {
			return err
		}
	}
	if c.linked {
		m.unlink(child, c)
	}
	if parent == None {
		m.root = append(m.root, child)
	} else {
		p := m.elements[parent]
		p.children = append(p.children, child)
	}
	c.parent = parent
	c.linked = true
	m.writes++
	return nil
}

// Remove implements Host.
func (m *Memory) Remove(el Element) error {
	e, err := m.lookup(el)
	if err != nil {
		return err
	}
	if e.linked {
		m.unlink(el, e)
	}
	m.release(el)
	m.writes++
	return nil
}

// Dispatch implements Host.
func (m *Memory) Dispatch(el Element, event string, detail map[string]any) error {
	if _, err := m.lookup(el); err != nil {
		return err
	}
	m.calls = append(m.calls, Call{Element: el, Event: event, Detail: detail})
	return nil
}

func (m *Memory) unlink(el Element, e *memElement) {
	if e.parent == None {
		m.root = without(m.root, el)
	} else if p, ok := m.elements[e.parent]; ok {
		p.children = without(p.children, el)
	}
	e.parent = None
	e.linked = false
}

func (m *Memory) release(el Element) {
	e, ok := m.elements[el]
	if !ok {
		return
	}
	for _, child := range e.children {
		m.release(child)
	}
	delete(m.elements, el)
}

func without(list []Element, el Element) []Element {
	for i, v := range list {
		if v == el {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// Exists reports whether el is a live element.
func (m *Memory) Exists(el Element) bool {
	_, ok := m.elements[el]
	return ok
}

// Len returns the number of live elements.
func (m *Memory) Len() int { return len(m.elements) }

// Created returns how many elements have been created.
func (m *Memory) Created() int { return m.created }

// Writes returns how many mutations (attribute, text, link, removal) were applied.
func (m *Memory) Writes() int { return m.writes }

// Calls returns the recorded dispatches in order.
func (m *Memory) Calls() []Call { return m.calls }

// Tag returns the tag of el.
func (m *Memory) Tag(el Element) string {
	if e, ok := m.elements[el]; ok {
		return e.tag
	}
	return ""
}

// Attr returns an attribute value and whether it is set.
func (m *Memory) Attr(el Element, key string) (string, bool) {
	e, ok := m.elements[el]
	if !ok {
		return "", false
	}
	v, ok := e.attrs[key]
	return v, ok
}

// Text returns the element's own text content.
func (m *Memory) Text(el Element) string {
	if e, ok := m.elements[el]; ok {
		return e.text
	}
	return ""
}

// Children returns the element's children (None: the root's children).
func (m *Memory) Children(el Element) []Element {
	if el == None {
		return append([]Element(nil), m.root...)
	}
	if e, ok := m.elements[el]; ok {
		return append([]Element(nil), e.children...)
	}
	return nil
}

// OuterHTML serializes el and its descendants.
func (m *Memory) OuterHTML(el Element) string {
	var b strings.Builder
	m.write(&b, el)
	return b.String()
}

// InnerHTML serializes the children of el (None: the whole document root).
func (m *Memory) InnerHTML(el Element) string {
	var b strings.Builder
	for _, child := range m.Children(el) {
		m.write(&b, child)
	}
	return b.String()
}

func (m *Memory) write(b *strings.Builder, el Element) {
	e, ok := m.elements[el]
	if !ok {
		return
	}
	b.WriteByte('<')
	b.WriteString(e.tag)

	keys := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := e.attrs[k]
		b.WriteByte(' ')
		b.WriteString(k)
		if v == "" && markup.IsBooleanAttr(k) {
			continue
		}
		b.WriteString(`="`)
		b.WriteString(markup.EscapeAttr(v))
		b.WriteByte('"')
	}
	b.WriteByte('>')

	if markup.IsVoidElement(e.tag) {
		return
	}
	b.WriteString(markup.EscapeText(e.text))
	for _, child := range e.children {
		m.write(b, child)
	}
	b.WriteString("</")
	b.WriteString(e.tag)
	b.WriteByte('>')
}
