package render

import (
	"bytes"
	"io"
	"sort"

	"github.com/vango-dev/widgetkit/internal/errors"
	"github.com/vango-dev/widgetkit/internal/markup"
	"github.com/vango-dev/widgetkit/pkg/tree"
	"github.com/vango-dev/widgetkit/pkg/widget"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables indented output. Text-bearing and inline elements stay
	// on one line.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string
}

// Renderer renders component trees to HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a tree to an HTML string.
func (r *Renderer) RenderToString(node *tree.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a tree to w.
func (r *Renderer) RenderToWriter(w io.Writer, node *tree.Node) error {
	sw := &stickyWriter{w: w}
	if err := r.renderNode(sw, node, 0); err != nil {
		return err
	}
	return sw.err
}

// stickyWriter keeps the first write error and drops later writes.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) WriteString(str string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, str)
}

func (r *Renderer) renderNode(w *stickyWriter, n *tree.Node, depth int) error {
	if n == nil {
		return nil
	}
	if !markup.IsValidAttrName(n.Tag) {
		return errors.New("W001").WithTag(n.Tag).WithDetail("invalid tag name")
	}

	attrs, err := attributes(n)
	if err != nil {
		return err
	}

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}
	w.WriteString("<")
	w.WriteString(n.Tag)
	writeAttrs(w, attrs)
	w.WriteString(">")

	if markup.IsVoidElement(n.Tag) {
		r.newline(w)
		return nil
	}

	caps := n.Caps()
	if caps.Has(tree.CapText) {
		if text, ok := n.Props[tree.KeyText]; ok && text != nil {
			s, _, err := tree.AttrValue(text)
			if err != nil {
				return errors.FromError(err, "W002").WithTag(n.Tag).WithKey(tree.KeyText)
			}
			w.WriteString(markup.EscapeText(s))
		}
	}

	block := r.config.Pretty && len(n.Children) > 0 && !markup.IsInlineElement(n.Tag)
	if block {
		w.WriteString("\n")
	}
	if caps.Has(tree.CapChildren) {
		for _, c := range n.Children {
			if err := r.renderNode(w, c, depth+1); err != nil {
				return err
			}
		}
	}
	if block {
		r.writeIndent(w, depth)
	}

	w.WriteString("</")
	w.WriteString(n.Tag)
	w.WriteString(">")
	r.newline(w)
	return nil
}

// attributes collects the attributes n renders with. Values are final
// strings; boolean attributes that are set carry "".
func attributes(n *tree.Node) (map[string]string, error) {
	attrs := make(map[string]string, len(n.Props))
	for key, value := range n.Props {
		if key == tree.KeyText || key == tree.KeyKey || markup.IsEventHandler(key) {
			continue
		}
		if n.Widget != nil && n.Widget.Handles(key) {
			continue
		}
		if !markup.IsValidAttrName(key) {
			continue
		}
		s, present, err := tree.AttrValue(value)
		if err != nil {
			return nil, errors.FromError(err, "W002").WithTag(n.Tag).WithKey(key)
		}
		if present {
			attrs[key] = s
		}
	}

	if m, ok := n.Widget.(widget.Marker); ok {
		markers, err := m.Markers(widget.Filter(n.Widget, n.Props))
		if err != nil {
			return nil, errors.FromError(err, "W101").WithTag(n.Tag).WithWidget(n.Widget.Name())
		}
		for k, v := range markers {
			attrs[k] = v
		}
	}
	return attrs, nil
}

func writeAttrs(w *stickyWriter, attrs map[string]string) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := attrs[k]
		w.WriteString(" ")
		w.WriteString(k)
		if v == "" && markup.IsBooleanAttr(k) {
			continue
		}
		w.WriteString(`="`)
		w.WriteString(markup.EscapeAttr(v))
		w.WriteString(`"`)
	}
}

func (r *Renderer) newline(w *stickyWriter) {
	if r.config.Pretty {
		w.WriteString("\n")
	}
}

func (r *Renderer) writeIndent(w *stickyWriter, depth int) {
	for i := 0; i < depth; i++ {
		w.WriteString(r.config.Indent)
	}
}
