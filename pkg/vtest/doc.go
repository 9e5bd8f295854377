// Package vtest provides testing helpers for widgets and component trees.
//
// # Binding against an in-memory DOM
//
//	func TestPopover(t *testing.T) {
//	    env := vtest.NewBinder(t)
//	    n := tree.El("button",
//	        tree.WithWidget(bootstrap.PopoverFactory{}),
//	        tree.Prop("content", "C"),
//	    )
//	    env.Mount(t, n)
//	    vtest.AssertEqualHTML(t, env.OuterHTML(t, n), `<button data-bs-toggle="popover" ...></button>`)
//	}
//
// Bindings left attached are detached when the test ends.
//
// # Rendering without a DOM
//
//	vtest.ExpectContains(t, node, "Welcome")
//	vtest.ExpectAttribute(t, node, "class", "btn-primary")
//
// # Host-dependent tests
//
// RunWhenDOMAvailable runs a test body only when its host is a live DOM,
// and skips otherwise:
//
//	vtest.RunWhenDOMAvailable(t, host, func(t *testing.T) { ... })
package vtest
