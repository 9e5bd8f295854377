package render

import (
	"io"

	"github.com/vango-dev/widgetkit/internal/markup"
	"github.com/vango-dev/widgetkit/pkg/tree"
)

// DefaultClientScript is the path the thin client is served from.
const DefaultClientScript = "/_widgetkit/client.js"

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root node of the page content.
	Body *tree.Node

	// Title is the page title.
	Title string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Scripts contains script tags to include after the body.
	Scripts []ScriptTag

	// ClientScript is the path to the thin client. Empty disables the
	// client, which yields a static page.
	ClientScript string

	// SocketPath is the websocket endpoint the client connects to.
	SocketPath string
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string // src attribute
	Defer  bool   // defer attribute
	Module bool   // type="module"
}

// RenderPage renders a complete HTML document to w.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	sw := &stickyWriter{w: w}
	sw.WriteString("<!DOCTYPE html>\n")
	sw.WriteString(`<html lang="` + markup.EscapeAttr(lang) + `">` + "\n")

	sw.WriteString("<head>\n")
	sw.WriteString(`  <meta charset="utf-8">` + "\n")
	sw.WriteString(`  <meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
	if page.Title != "" {
		sw.WriteString("  <title>" + markup.EscapeText(page.Title) + "</title>\n")
	}
	for _, href := range page.StyleSheets {
		sw.WriteString(`  <link rel="stylesheet" href="` + markup.EscapeAttr(href) + `">` + "\n")
	}
	sw.WriteString("</head>\n")

	sw.WriteString("<body>\n")
	if err := r.renderNode(sw, page.Body, 0); err != nil {
		return err
	}
	if !r.config.Pretty && page.Body != nil {
		sw.WriteString("\n")
	}

	for _, script := range page.Scripts {
		writeScript(sw, script)
	}
	if page.ClientScript != "" {
		sw.WriteString(`  <script src="` + markup.EscapeAttr(page.ClientScript) + `"`)
		if page.SocketPath != "" {
			sw.WriteString(` data-ws="` + markup.EscapeAttr(page.SocketPath) + `"`)
		}
		sw.WriteString(" defer></script>\n")
	}

	sw.WriteString("</body>\n</html>\n")
	return sw.err
}

func writeScript(w *stickyWriter, script ScriptTag) {
	w.WriteString(`  <script src="` + markup.EscapeAttr(script.Src) + `"`)
	if script.Module {
		w.WriteString(` type="module"`)
	}
	if script.Defer {
		w.WriteString(" defer")
	}
	w.WriteString("></script>\n")
}
