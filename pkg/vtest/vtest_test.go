package vtest_test

import (
	"testing"

	"github.com/vango-dev/widgetkit/pkg/dom"
	"github.com/vango-dev/widgetkit/pkg/tree"
	"github.com/vango-dev/widgetkit/pkg/vtest"
	"github.com/vango-dev/widgetkit/pkg/widget/bootstrap"
)

func TestNormalizeHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  <p>a</p>  ", "<p>a</p>"},
		{"<ul>\n  <li>a</li>\n  <li>b</li>\n</ul>", "<ul><li>a</li><li>b</li></ul>"},
		{"<p>a \n\t b</p>", "<p>a b</p>"},
	}
	for _, tt := range tests {
		if got := vtest.NormalizeHTML(tt.in); got != tt.want {
			t.Errorf("NormalizeHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAssertEqualHTML(t *testing.T) {
	vtest.AssertEqualHTML(t, "<div>\n  <span>x</span>\n</div>", "<div><span>x</span></div>")

	rec := &recorder{TB: t}
	vtest.AssertEqualHTML(rec, "<p>a</p>", "<p>b</p>")
	if !rec.failed {
		t.Error("expected mismatch to fail")
	}
}

// recorder captures failures instead of reporting them.
type recorder struct {
	testing.TB
	failed bool
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(string, ...any) { r.failed = true }

func TestTextWrapperInDOM(t *testing.T) {
	env := vtest.NewBinder(t)
	vtest.RunWhenDOMAvailable(t, env.Host, func(t *testing.T) {
		n := tree.El("span", tree.Text("hello"))
		env.Mount(t, n)
		vtest.AssertEqualHTML(t, env.OuterHTML(t, n), "<span>hello</span>")
	})
}

func TestTextWrapperWithoutDOM(t *testing.T) {
	n := tree.El("span", tree.Text("hello"))
	if got := vtest.RenderToString(n); got != "<span>hello</span>" {
		t.Errorf("RenderToString() = %q", got)
	}
}

func TestRunWhenDOMAvailableSkips(t *testing.T) {
	ran := false
	t.Run("null", func(t *testing.T) {
		vtest.RunWhenDOMAvailable(t, dom.Null{}, func(t *testing.T) {
			ran = true
		})
	})
	if ran {
		t.Error("body ran without a DOM")
	}
}

func TestDOMMatchesRenderer(t *testing.T) {
	n := tree.El("div", tree.Class("card"),
		tree.El("button",
			tree.WithWidget(bootstrap.PopoverFactory{}),
			tree.Prop(bootstrap.KeyTitle, "T"),
			tree.Prop(bootstrap.KeyContent, "C"),
			"Open",
		),
		tree.El("input", tree.Prop("disabled", true)),
	)
	static := vtest.RenderToString(n)

	env := vtest.NewBinder(t)
	env.Mount(t, n)
	vtest.AssertEqualHTML(t, env.OuterHTML(t, n), static)
}

func TestExpectHelpers(t *testing.T) {
	n := tree.El("a", tree.Class("btn btn-primary"), tree.Prop("href", "/x"), "Go")
	vtest.ExpectContains(t, n, "Go")
	vtest.ExpectNotContains(t, n, "Stop")
	vtest.ExpectElement(t, n, "a")
	vtest.ExpectAttribute(t, n, "class", "btn btn-primary")
}
