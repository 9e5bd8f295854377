// Package tree provides the declarative component nodes the binder attaches.
//
// A Node describes one element: its tag, its property bindings (class and
// text are ordinary properties), its children, and optionally the widget it
// wraps. There is one generic element constructor, parameterized by tag and
// a capability set, instead of a type per HTML tag:
//
//	card := tree.El("div", tree.Class("card"),
//	    tree.El("h5", "Title"),
//	    tree.El("button", "More",
//	        tree.WithWidget(bootstrap.PopoverFactory{}),
//	        tree.Prop("title", "T"),
//	        tree.Prop("content", "C"),
//	    ),
//	)
//
// # Diffing
//
// DiffProps compares two property maps and returns the change set the
// binder must apply. Reconcile compares two trees, carries node identity
// across matched nodes, and produces the render pass (inserted, changed and
// removed nodes) the binder consumes.
package tree
