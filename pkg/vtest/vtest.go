package vtest

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/vango-dev/widgetkit/pkg/binder"
	"github.com/vango-dev/widgetkit/pkg/dom"
	"github.com/vango-dev/widgetkit/pkg/render"
	"github.com/vango-dev/widgetkit/pkg/tree"
)

// Env is a binder wired to an in-memory DOM.
type Env struct {
	Host   *dom.Memory
	Binder *binder.Binder
}

// NewBinder creates an Env. Every binding still live when the test ends is
// detached, and a detach failure fails the test.
func NewBinder(t testing.TB, opts ...binder.Option) *Env {
	t.Helper()
	host := dom.NewMemory()
	env := &Env{Host: host, Binder: binder.New(host, opts...)}
	t.Cleanup(func() {
		if err := env.Binder.DetachAll(context.Background()); err != nil {
			t.Errorf("detach on cleanup: %v", err)
		}
	})
	return env
}

// Mount attaches n, failing the test on error.
func (e *Env) Mount(t testing.TB, n *tree.Node) {
	t.Helper()
	if err := e.Binder.Attach(context.Background(), n); err != nil {
		t.Fatalf("attach <%s>: %v", n.Tag, err)
	}
}

// OuterHTML returns the live DOM serialization of the element backing n.
func (e *Env) OuterHTML(t testing.TB, n *tree.Node) string {
	t.Helper()
	el, ok := e.Binder.Element(n)
	if !ok {
		t.Fatalf("<%s> has no element", n.Tag)
	}
	return e.Host.OuterHTML(el)
}

// RunWhenDOMAvailable runs fn as a subtest when host is a live DOM and
// skips otherwise.
func RunWhenDOMAvailable(t *testing.T, host dom.Host, fn func(t *testing.T)) {
	t.Helper()
	if host == nil || !host.Available() {
		t.Skip("no DOM available")
	}
	t.Run("dom", fn)
}

var (
	betweenTags = regexp.MustCompile(`>\s+<`)
	runs        = regexp.MustCompile(`\s+`)
)

// NormalizeHTML trims s, drops whitespace between tags and collapses other
// whitespace runs to one space.
func NormalizeHTML(s string) string {
	s = strings.TrimSpace(s)
	s = betweenTags.ReplaceAllString(s, "><")
	return runs.ReplaceAllString(s, " ")
}

// AssertEqualHTML fails the test when got and want differ after
// normalization.
func AssertEqualHTML(t testing.TB, got, want string) {
	t.Helper()
	if g, w := NormalizeHTML(got), NormalizeHTML(want); g != w {
		t.Errorf("HTML mismatch\n got: %s\nwant: %s", truncate(g, 500), truncate(w, 500))
	}
}

// RenderToString renders n without a DOM and returns the HTML, or "" on
// error.
func RenderToString(n *tree.Node) string {
	r := render.NewRenderer(render.RendererConfig{})
	html, err := r.RenderToString(n)
	if err != nil {
		return ""
	}
	return html
}

// ExpectContains asserts that rendered output contains expected substring.
func ExpectContains(t testing.TB, n *tree.Node, expected string) {
	t.Helper()
	html := RenderToString(n)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t testing.TB, n *tree.Node, unexpected string) {
	t.Helper()
	html := RenderToString(n)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that rendered output contains a specific tag.
func ExpectElement(t testing.TB, n *tree.Node, tag string) {
	t.Helper()
	html := RenderToString(n)
	if !strings.Contains(html, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
func ExpectAttribute(t testing.TB, n *tree.Node, attr, value string) {
	t.Helper()
	html := RenderToString(n)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
