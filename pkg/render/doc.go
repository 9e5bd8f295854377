// Package render serializes component trees to HTML without a live DOM.
//
// It is used for the first paint of a remote session and anywhere the
// binder runs against a non-DOM host. Output matches what a DOM host would
// serialize for the same tree:
//
//   - text and attribute values are escaped
//   - void elements have no closing tag
//   - nil and false properties are omitted; true boolean attributes are bare
//   - event handlers and the reconciliation key are never rendered
//   - widget configuration is not rendered as attributes; widgets that
//     implement widget.Marker contribute their static markers instead
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// # Full Page Rendering
//
//	page := render.PageData{
//	    Title: "Dashboard",
//	    Body:  root,
//	}
//	err := renderer.RenderPage(w, page)
package render
