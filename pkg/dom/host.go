package dom

import "strconv"

// Element is an opaque handle to a host element.
type Element uint64

// None is the zero handle. As the parent argument of Append it names the
// host's root container.
const None Element = 0

// String returns the handle in the "e<n>" form used in logs and wire frames.
func (e Element) String() string {
	return "e" + strconv.FormatUint(uint64(e), 10)
}

// Host is the imperative DOM surface.
type Host interface {
	// Available reports whether a live DOM backs this host. Callers must not
	// create elements on an unavailable host.
	Available() bool

	// CreateElement creates a detached element with the given tag.
	CreateElement(tag string) (Element, error)

	// SetAttr sets an attribute.
	SetAttr(el Element, key, value string) error

	// RemoveAttr removes an attribute. Removing a missing attribute is not an error.
	RemoveAttr(el Element, key string) error

	// SetText sets the element's own text content.
	SetText(el Element, text string) error

	// Append links child as the last child of parent (None: the host root).
	Append(parent, child Element) error

	// Remove unlinks el and releases it together with its descendants.
	Remove(el Element) error

	// Dispatch invokes an imperative widget call on el.
	Dispatch(el Element, event string, detail map[string]any) error
}

// Null is a Host for contexts without a DOM.
type Null struct{}

// Available implements Host.
func (Null) Available() bool { return false }

// CreateElement implements Host.
func (Null) CreateElement(string) (Element, error) { return None, nil }

// SetAttr implements Host.
func (Null) SetAttr(Element, string, string) error { return nil }

// RemoveAttr implements Host.
func (Null) RemoveAttr(Element, string) error { return nil }

// SetText implements Host.
func (Null) SetText(Element, string) error { return nil }

// Append implements Host.
func (Null) Append(Element, Element) error { return nil }

// Remove implements Host.
func (Null) Remove(Element) error { return nil }

// Dispatch implements Host.
func (Null) Dispatch(Element, string, map[string]any) error { return nil }
